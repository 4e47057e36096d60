package middleware

import (
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CookieHeader carries the surface's site cookies when the browser would
// otherwise send the relay's own.
const CookieHeader = "X-Relay-Cookie"

// CORSConfig defines CORS configuration options.
type CORSConfig struct {
	// SiteHost admits https pages on this host and its subdomains.
	SiteHost         string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// DefaultCORSConfig admits extension pages and the reskinned site.
func DefaultCORSConfig(siteHost string) CORSConfig {
	return CORSConfig{
		SiteHost:     siteHost,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{
			"Content-Type",
			"Content-Length",
			"Accept",
			"Origin",
			"Cache-Control",
			"X-Requested-With",
			"X-Trace-ID",
			"X-Span-ID",
			CookieHeader,
		},
		ExposeHeaders:    []string{"X-Trace-ID", "X-Span-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// CORS creates a CORS middleware with the provided configuration.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOriginFunc:        func(origin string) bool { return AllowedOrigin(origin, cfg.SiteHost) },
		AllowMethods:           cfg.AllowMethods,
		AllowHeaders:           cfg.AllowHeaders,
		ExposeHeaders:          cfg.ExposeHeaders,
		AllowCredentials:       cfg.AllowCredentials,
		AllowBrowserExtensions: true,
		MaxAge:                 cfg.MaxAge,
	})
}

// AllowedOrigin reports whether origin may call the relay: any browser
// extension, localhost, or an https page on siteHost.
func AllowedOrigin(origin, siteHost string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}

	switch u.Scheme {
	case "chrome-extension", "moz-extension", "safari-web-extension":
		return true
	}

	host := u.Hostname()
	if host == "localhost" || host == "127.0.0.1" {
		return u.Scheme == "http" || u.Scheme == "https"
	}
	if siteHost == "" || u.Scheme != "https" {
		return false
	}
	return host == siteHost || strings.HasSuffix(host, "."+siteHost)
}
