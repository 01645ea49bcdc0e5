package desktop

import (
	"fmt"
	"slices"

	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/utils"
)

// Choices offered by the settings window.
var (
	AccentColors = []string{"blue", "green", "red", "purple"}
	Resolutions  = []string{"1920x1080", "1600x900", "1366x768"}
	ScalingSteps = []int{100, 125, 150}
)

// DefaultWallpaper is the wallpaper of a fresh desktop.
const DefaultWallpaper = "https://source.unsplash.com/random/1920x1080?abstract"

// Settings is the per-desktop appearance, display and notification state.
type Settings struct {
	DarkMode      bool   `json:"dark_mode"`
	AccentColor   string `json:"accent_color"`
	WallpaperURL  string `json:"wallpaper_url"`
	Resolution    string `json:"resolution"`
	Scaling       int    `json:"scaling"`
	Notifications bool   `json:"notifications"`
}

// DefaultSettings returns the settings of a fresh desktop.
func DefaultSettings() Settings {
	return Settings{
		AccentColor:   "blue",
		WallpaperURL:  DefaultWallpaper,
		Resolution:    "1920x1080",
		Scaling:       100,
		Notifications: true,
	}
}

// SettingsUpdate changes some settings. Nil fields keep their value; an
// empty wallpaper URL removes the wallpaper.
type SettingsUpdate struct {
	DarkMode      *bool   `json:"dark_mode"`
	AccentColor   *string `json:"accent_color"`
	WallpaperURL  *string `json:"wallpaper_url"`
	Resolution    *string `json:"resolution"`
	Scaling       *int    `json:"scaling"`
	Notifications *bool   `json:"notifications"`
}

// Validate checks every field that is set.
func (u SettingsUpdate) Validate() error {
	if u.AccentColor != nil && !slices.Contains(AccentColors, *u.AccentColor) {
		return fmt.Errorf("%w: accent_color must be one of %v", ErrInvalidSettings, AccentColors)
	}
	if u.Resolution != nil && !slices.Contains(Resolutions, *u.Resolution) {
		return fmt.Errorf("%w: resolution must be one of %v", ErrInvalidSettings, Resolutions)
	}
	if u.Scaling != nil && !slices.Contains(ScalingSteps, *u.Scaling) {
		return fmt.Errorf("%w: scaling must be one of %v", ErrInvalidSettings, ScalingSteps)
	}
	if u.WallpaperURL != nil {
		if err := utils.ValidateURL(*u.WallpaperURL, "wallpaper_url", false); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
		}
	}
	return nil
}

// apply merges u into s and reports whether anything changed.
func (u SettingsUpdate) apply(s *Settings) bool {
	before := *s
	if u.DarkMode != nil {
		s.DarkMode = *u.DarkMode
	}
	if u.AccentColor != nil {
		s.AccentColor = *u.AccentColor
	}
	if u.WallpaperURL != nil {
		s.WallpaperURL = *u.WallpaperURL
	}
	if u.Resolution != nil {
		s.Resolution = *u.Resolution
	}
	if u.Scaling != nil {
		s.Scaling = *u.Scaling
	}
	if u.Notifications != nil {
		s.Notifications = *u.Notifications
	}
	return *s != before
}
