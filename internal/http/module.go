// Package http provides HTTP server infrastructure including the Module interface
// that the fake Works hosts implement for route registration.
package http

import (
	"works_uploader/platform/logger"
	"works_uploader/platform/validator"

	"github.com/gin-gonic/gin"
)

// Module represents a host surface that can register its HTTP routes.
// Each module encapsulates its own route setup, keeping the router
// decoupled from specific endpoints.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes on the engine.
	// The RouterContext provides access to shared middleware.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext provides shared dependencies for module route registration.
type RouterContext struct {
	// Engine is the root Gin engine.
	Engine *gin.Engine
	// Session rejects requests without the Works session cookies.
	Session gin.HandlerFunc
	// Validator validates decoded request bodies.
	Validator *validator.Validator
	// Logger is the structured logger.
	Logger *logger.Logger
}
