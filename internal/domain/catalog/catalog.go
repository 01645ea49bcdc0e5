// Package catalog holds the built-in data of the simulated desktop: the
// launchable apps, the desktop icon and start menu layout, the explorer's
// folder tree and its mock listings.
package catalog

import (
	_ "embed"
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/explorer"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/window"
)

//go:embed catalog.yaml
var builtin []byte

// App is a launchable entry on the desktop or in the start menu.
type App struct {
	ID       string            `json:"id" yaml:"id"`
	Label    string            `json:"label" yaml:"label"`
	Icon     string            `json:"icon" yaml:"icon"`
	WindowID string            `json:"window_id,omitempty" yaml:"window_id"`
	Title    string            `json:"title,omitempty" yaml:"title"`
	Position *window.Position  `json:"position,omitempty" yaml:"position"`
	Size     *window.Size      `json:"size,omitempty" yaml:"size"`
	Content  map[string]string `json:"content,omitempty" yaml:"content"`
}

// Launchable reports whether launching the app opens a window. Apps such as
// the recycle bin are icons only.
func (a App) Launchable() bool {
	return a.WindowID != ""
}

// User is the profile shown in the start menu.
type User struct {
	Name      string `json:"name" yaml:"name"`
	AvatarURL string `json:"avatar_url,omitempty" yaml:"avatar_url"`
}

// Catalog is the decoded desktop data.
type Catalog struct {
	User      User                  `json:"user" yaml:"user"`
	Apps      []App                 `json:"apps" yaml:"apps"`
	Desktop   []string              `json:"desktop" yaml:"desktop"`
	StartMenu []string              `json:"start_menu" yaml:"start_menu"`
	Tree      explorer.Tree         `json:"tree" yaml:"tree"`
	Listings  explorer.ListingTable `json:"listings" yaml:"listings"`

	byID map[string]int
}

// Load decodes the built-in catalog.
func Load() (*Catalog, error) {
	return Parse(builtin)
}

// MustLoad is Load for callers that cannot continue without the catalog.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse decodes and validates a catalog document. Unknown keys are
// rejected.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.UnmarshalWithOptions(data, &c, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	c.byID = make(map[string]int, len(c.Apps))
	for i, app := range c.Apps {
		if app.ID == "" || app.Label == "" {
			return fmt.Errorf("app %d: id and label are required", i)
		}
		if _, dup := c.byID[app.ID]; dup {
			return fmt.Errorf("duplicate app id %q", app.ID)
		}
		if app.Launchable() && app.Title == "" {
			return fmt.Errorf("app %q: window apps need a title", app.ID)
		}
		c.byID[app.ID] = i
	}
	for _, ref := range append(append([]string{}, c.Desktop...), c.StartMenu...) {
		if _, ok := c.byID[ref]; !ok {
			return fmt.Errorf("layout references unknown app %q", ref)
		}
	}
	if len(c.Tree) == 0 {
		return explorer.ErrEmptyTree
	}
	if err := c.Tree.Validate(); err != nil {
		return err
	}
	return c.Listings.Validate()
}

// App returns the app with the given id.
func (c *Catalog) App(id string) (App, bool) {
	i, ok := c.byID[id]
	if !ok {
		return App{}, false
	}
	return c.Apps[i], true
}

// DesktopApps returns the desktop icons in display order.
func (c *Catalog) DesktopApps() []App {
	return c.resolve(c.Desktop)
}

// StartMenuApps returns the start menu entries in display order.
func (c *Catalog) StartMenuApps() []App {
	return c.resolve(c.StartMenu)
}

func (c *Catalog) resolve(ids []string) []App {
	out := make([]App, 0, len(ids))
	for _, id := range ids {
		if app, ok := c.App(id); ok {
			out = append(out, app)
		}
	}
	return out
}
