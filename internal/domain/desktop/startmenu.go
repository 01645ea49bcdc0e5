package desktop

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/catalog"
)

// StartMenu is the start menu overlay as rendered.
type StartMenu struct {
	Open   bool          `json:"open"`
	ZIndex int           `json:"z_index,omitempty"`
	User   catalog.User  `json:"user"`
	Apps   []catalog.App `json:"apps"`
}

// isGlob reports whether a query uses glob syntax.
func isGlob(query string) bool {
	return strings.ContainsAny(query, "*?[")
}

// filterApps keeps the apps whose label matches query, ignoring case.
// Plain queries match substrings; glob queries must match the whole label.
func filterApps(apps []catalog.App, query string) ([]catalog.App, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]catalog.App, 0, len(apps))
	if query == "" {
		return append(out, apps...), nil
	}

	glob := isGlob(query)
	if glob && !doublestar.ValidatePattern(query) {
		return nil, fmt.Errorf("%w: malformed pattern %q", ErrBadQuery, query)
	}

	for _, app := range apps {
		label := strings.ToLower(app.Label)
		if !glob {
			if strings.Contains(label, query) {
				out = append(out, app)
			}
			continue
		}
		ok, err := doublestar.Match(query, label)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadQuery, err)
		}
		if ok {
			out = append(out, app)
		}
	}
	return out, nil
}
