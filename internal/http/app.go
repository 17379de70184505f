package http

import (
	"works_uploader/platform/config"
	"works_uploader/platform/logger"
)

// App holds the dependencies of one fake host.
// This is populated by the composition root and passed to the router.
type App struct {
	// Config holds the fake server settings.
	Config config.FakeServerConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// SessionCookies names the cookies every session route requires.
	// Empty accepts any cookie.
	SessionCookies []string
	// Modules contains the route modules served by this host.
	Modules []Module
}
