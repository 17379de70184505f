package works

import (
	"fmt"

	"works_uploader/internal/credentials"
	"works_uploader/internal/works/client"
	"works_uploader/platform/config"
	"works_uploader/platform/logger"
)

// ModuleConfig is what the module needs from application configuration.
type ModuleConfig interface {
	client.Config
	config.SessionConfig
}

// Module wires the Works client with the session cookies from disk.
type Module struct {
	client *client.Client
}

// NewModule loads the cookie file and creates the Works client.
func NewModule(cfg ModuleConfig, log *logger.Logger, opts ...client.Option) (*Module, error) {
	cookies, err := credentials.Load(cfg.GetCookiesPath())
	if err != nil {
		return nil, fmt.Errorf("load session cookies: %w", err)
	}

	log.Info("works module initialized",
		"talk", cfg.GetTalkBaseURL(),
		"storage", cfg.GetStorageBaseURL(),
		"cookies", len(cookies),
	)

	return &Module{client: client.New(cfg, cookies, log, opts...)}, nil
}

// Client returns the Works client.
func (m *Module) Client() *client.Client {
	return m.client
}
