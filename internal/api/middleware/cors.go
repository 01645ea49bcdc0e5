package middleware

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/utils"
)

const corsMaxAge = 12 * time.Hour

// CORS allows the desktop frontend at the given origins to call the API
// and open the snapshot stream. An empty list or "*" admits every origin,
// in which case credentials are not allowed.
func CORS(origins []string) (gin.HandlerFunc, error) {
	allowed, err := NormalizeOrigins(origins)
	if err != nil {
		return nil, err
	}

	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{
			"Origin", "Accept", "Content-Type", "Content-Length", "Cache-Control",
			tracing.TraceHeader, tracing.SpanHeader,
		},
		ExposeHeaders:   []string{tracing.TraceHeader, tracing.SpanHeader},
		AllowWebSockets: true,
		MaxAge:          corsMaxAge,
	}
	if allowed == nil {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowed
		cfg.AllowCredentials = true
	}
	return cors.New(cfg), nil
}

// NormalizeOrigins reduces each configured origin to lower-case
// scheme://host[:port] and drops blanks and duplicates. It returns nil when
// every origin is allowed.
func NormalizeOrigins(origins []string) ([]string, error) {
	var out []string
	for _, raw := range origins {
		o := strings.TrimSpace(raw)
		switch o {
		case "":
			continue
		case "*":
			return nil, nil
		}
		if err := utils.ValidateURL(o, "origin", true); err != nil {
			return nil, fmt.Errorf("invalid CORS origin %q: %w", raw, err)
		}
		u, _ := url.Parse(o)
		if strings.Trim(u.Path, "/") != "" || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
			return nil, fmt.Errorf("invalid CORS origin %q: must not carry a path, query or credentials", raw)
		}
		o = strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host)
		if !slices.Contains(out, o) {
			out = append(out, o)
		}
	}
	return out, nil
}
