// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Protocol defaults observed from the Works Mobile web client.
const (
	DefaultTalkBaseURL       = "https://talk.worksmobile.com"
	DefaultStorageBaseURL    = "https://storage.worksmobile.com"
	DefaultServiceID         = "works"
	DefaultCookiesPath       = "cookies.json"
	DefaultHTTPTimeout       = 30 * time.Second
	DefaultAcceptLanguage    = "ja,en-US;q=0.9,en;q=0.8"
	DefaultDeviceLanguage    = "ja_JP"
	DefaultSecCHUA           = `"Chromium";v="124", "Google Chrome";v="124", "Not-A.Brand";v="99"`
	DefaultSecCHUAPlatform   = `"Windows"`
	DefaultUserAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/128.0.0.0 Safari/537.36"
	DefaultImageBoundary     = "----WebKitFormBoundaryrdK6G1RVu5s3MxSA"
	DefaultVideoBoundary     = "----WebKitFormBoundaryIDpMEPWWgRoczkxm"
	DefaultImagePath         = "files/image.png"
	DefaultVideoPath         = "files/video.mp4"
	DefaultFakeTalkAddr      = ":8081"
	DefaultFakeStorageAddr   = ":8082"
	DefaultFakeRatePerMinute = 120
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// TalkConfig provides settings for the messaging backend.
type TalkConfig interface {
	GetTalkBaseURL() string
	GetServiceID() string
	GetHTTPTimeout() time.Duration
}

// StorageConfig provides settings for the storage endpoint.
type StorageConfig interface {
	GetStorageBaseURL() string
	GetServiceID() string
	GetHTTPTimeout() time.Duration
	GetImageBoundary() string
	GetVideoBoundary() string
	GetDetectContentType() bool
}

// FingerprintConfig provides the browser-mimicking request headers.
type FingerprintConfig interface {
	GetTalkBaseURL() string
	GetUserAgent() string
	GetAcceptLanguage() string
	GetDeviceLanguage() string
	GetSecCHUA() string
	GetSecCHUAPlatform() string
}

// SessionConfig provides the caller identity and the cookie file location.
type SessionConfig interface {
	GetCookiesPath() string
	GetChannelNo() int64
	GetCallerNo() string
}

// MediaConfig provides the local files read by the CLI entry points.
type MediaConfig interface {
	GetImagePath() string
	GetVideoPath() string
}

// FakeServerConfig provides settings for the local fake Works backend.
type FakeServerConfig interface {
	GetFakeTalkAddr() string
	GetFakeStorageAddr() string
	GetFakeRateLimitPerMinute() int
	GetFakeCORSOrigins() []string
	GetFakeSessionCookies() []string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                    string
	TalkBaseURL            string
	StorageBaseURL         string
	ServiceID              string
	CookiesPath            string
	ChannelNo              int64
	CallerNo               string
	HTTPTimeout            time.Duration
	UserAgent              string
	AcceptLanguage         string
	DeviceLanguage         string
	SecCHUA                string
	SecCHUAPlatform        string
	ImageBoundary          string
	VideoBoundary          string
	DetectContentType      bool
	ImagePath              string
	VideoPath              string
	FakeTalkAddr           string
	FakeStorageAddr        string
	FakeRateLimitPerMinute int
	FakeCORSOrigins        []string
	FakeSessionCookies     []string
}

// Default returns a configuration populated with the protocol defaults and no
// caller identity. Tests and the fake backend start from here.
func Default() *Config {
	return &Config{
		Env:                    "development",
		TalkBaseURL:            DefaultTalkBaseURL,
		StorageBaseURL:         DefaultStorageBaseURL,
		ServiceID:              DefaultServiceID,
		CookiesPath:            DefaultCookiesPath,
		HTTPTimeout:            DefaultHTTPTimeout,
		UserAgent:              DefaultUserAgent,
		AcceptLanguage:         DefaultAcceptLanguage,
		DeviceLanguage:         DefaultDeviceLanguage,
		SecCHUA:                DefaultSecCHUA,
		SecCHUAPlatform:        DefaultSecCHUAPlatform,
		ImageBoundary:          DefaultImageBoundary,
		VideoBoundary:          DefaultVideoBoundary,
		DetectContentType:      true,
		ImagePath:              DefaultImagePath,
		VideoPath:              DefaultVideoPath,
		FakeTalkAddr:           DefaultFakeTalkAddr,
		FakeStorageAddr:        DefaultFakeStorageAddr,
		FakeRateLimitPerMinute: DefaultFakeRatePerMinute,
	}
}

// Load reads configuration from the environment (and an optional .env file).
// The caller identity is required for uploads.
func Load() (*Config, error) {
	cfg, err := LoadBase()
	if err != nil {
		return nil, err
	}

	if cfg.ChannelNo <= 0 {
		return nil, fmt.Errorf("WORKS_CHANNEL_NO is required")
	}
	if cfg.CallerNo == "" {
		return nil, fmt.Errorf("WORKS_CALLER_NO is required")
	}

	return cfg, nil
}

// LoadBase reads configuration without requiring the caller identity.
// Used by the fake backend, which never talks to the real service.
func LoadBase() (*Config, error) {
	_ = godotenv.Load()

	def := Default()

	channelRaw := getEnv("WORKS_CHANNEL_NO", "")
	var channelNo int64
	if channelRaw != "" {
		parsed, err := strconv.ParseInt(strings.TrimSpace(channelRaw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("WORKS_CHANNEL_NO must be an integer: %w", err)
		}
		channelNo = parsed
	}

	timeout := mustDuration(getEnv("WORKS_HTTP_TIMEOUT", def.HTTPTimeout.String()))
	if timeout <= 0 {
		return nil, fmt.Errorf("WORKS_HTTP_TIMEOUT must be a positive duration")
	}

	cfg := &Config{
		Env:                    getEnv("APP_ENV", def.Env),
		TalkBaseURL:            strings.TrimRight(getEnv("WORKS_TALK_BASE_URL", def.TalkBaseURL), "/"),
		StorageBaseURL:         strings.TrimRight(getEnv("WORKS_STORAGE_BASE_URL", def.StorageBaseURL), "/"),
		ServiceID:              getEnv("WORKS_SERVICE_ID", def.ServiceID),
		CookiesPath:            getEnv("WORKS_COOKIES_PATH", def.CookiesPath),
		ChannelNo:              channelNo,
		CallerNo:               strings.TrimSpace(getEnv("WORKS_CALLER_NO", "")),
		HTTPTimeout:            timeout,
		UserAgent:              getEnv("WORKS_USER_AGENT", def.UserAgent),
		AcceptLanguage:         getEnv("WORKS_ACCEPT_LANGUAGE", def.AcceptLanguage),
		DeviceLanguage:         getEnv("WORKS_DEVICE_LANGUAGE", def.DeviceLanguage),
		SecCHUA:                getEnv("WORKS_SEC_CH_UA", def.SecCHUA),
		SecCHUAPlatform:        getEnv("WORKS_SEC_CH_UA_PLATFORM", def.SecCHUAPlatform),
		ImageBoundary:          getEnv("WORKS_IMAGE_BOUNDARY", def.ImageBoundary),
		VideoBoundary:          getEnv("WORKS_VIDEO_BOUNDARY", def.VideoBoundary),
		DetectContentType:      strings.EqualFold(getEnv("WORKS_DETECT_CONTENT_TYPE", "true"), "true"),
		ImagePath:              getEnv("WORKS_IMAGE_PATH", def.ImagePath),
		VideoPath:              getEnv("WORKS_VIDEO_PATH", def.VideoPath),
		FakeTalkAddr:           getEnv("FAKE_TALK_ADDR", def.FakeTalkAddr),
		FakeStorageAddr:        getEnv("FAKE_STORAGE_ADDR", def.FakeStorageAddr),
		FakeRateLimitPerMinute: mustInt(getEnv("FAKE_RATE_LIMIT_PER_MINUTE", strconv.Itoa(def.FakeRateLimitPerMinute))),
		FakeSessionCookies:     splitCSV(getEnv("FAKE_SESSION_COOKIES", "")),
	}

	// The fake storage host accepts the configured talk origin unless told otherwise.
	cfg.FakeCORSOrigins = splitCSV(getEnv("FAKE_CORS_ORIGINS", cfg.TalkBaseURL))
	if containsWildcard(cfg.FakeCORSOrigins) {
		cfg.FakeCORSOrigins = nil
	}

	if cfg.ImageBoundary == "" || cfg.VideoBoundary == "" {
		return nil, fmt.Errorf("multipart boundaries must not be empty")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

// =============================================================================
// Interface Implementations
// =============================================================================

func (c *Config) GetTalkBaseURL() string          { return c.TalkBaseURL }
func (c *Config) GetStorageBaseURL() string       { return c.StorageBaseURL }
func (c *Config) GetServiceID() string            { return c.ServiceID }
func (c *Config) GetHTTPTimeout() time.Duration   { return c.HTTPTimeout }
func (c *Config) GetCookiesPath() string          { return c.CookiesPath }
func (c *Config) GetChannelNo() int64             { return c.ChannelNo }
func (c *Config) GetCallerNo() string             { return c.CallerNo }
func (c *Config) GetUserAgent() string            { return c.UserAgent }
func (c *Config) GetAcceptLanguage() string       { return c.AcceptLanguage }
func (c *Config) GetDeviceLanguage() string       { return c.DeviceLanguage }
func (c *Config) GetSecCHUA() string              { return c.SecCHUA }
func (c *Config) GetSecCHUAPlatform() string      { return c.SecCHUAPlatform }
func (c *Config) GetImageBoundary() string        { return c.ImageBoundary }
func (c *Config) GetVideoBoundary() string        { return c.VideoBoundary }
func (c *Config) GetDetectContentType() bool      { return c.DetectContentType }
func (c *Config) GetImagePath() string            { return c.ImagePath }
func (c *Config) GetVideoPath() string            { return c.VideoPath }
func (c *Config) GetFakeTalkAddr() string         { return c.FakeTalkAddr }
func (c *Config) GetFakeStorageAddr() string      { return c.FakeStorageAddr }
func (c *Config) GetFakeRateLimitPerMinute() int  { return c.FakeRateLimitPerMinute }
func (c *Config) GetFakeCORSOrigins() []string    { return c.FakeCORSOrigins }
func (c *Config) GetFakeSessionCookies() []string { return c.FakeSessionCookies }
