// Package router builds the gin engine for a fake Works host.
package router

import (
	"net/http"

	apphttp "works_uploader/internal/http"
	"works_uploader/platform/httpkit"
	"works_uploader/platform/validator"

	"github.com/gin-gonic/gin"
)

// New creates the engine with the shared middleware chain and mounts every
// module of app.
func New(app *apphttp.App) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestID())
	engine.Use(httpkit.RequestLogger(app.Logger))

	perMinute := 0
	if app.Config != nil {
		perMinute = app.Config.GetFakeRateLimitPerMinute()
	}
	engine.Use(httpkit.NewPerMinuteRateLimiter(perMinute, app.Logger).RateLimit())

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	rc := &apphttp.RouterContext{
		Engine:    engine,
		Session:   httpkit.RequireCookies(app.SessionCookies...),
		Validator: validator.New(),
		Logger:    app.Logger,
	}
	for _, m := range app.Modules {
		m.RegisterRoutes(rc)
		app.Logger.Debug("routes registered", "module", m.Name())
	}

	return engine
}
