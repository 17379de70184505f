// Package client provides the HTTP client for the Works Mobile talk and
// storage hosts.
package client

import (
	"net/http"
	"sync"
	"time"

	"works_uploader/internal/credentials"
	"works_uploader/platform/config"
	"works_uploader/platform/logger"
)

// Config is the subset of application configuration the client reads.
type Config interface {
	config.TalkConfig
	config.StorageConfig
	config.FingerprintConfig
}

// Client talks to the Works web endpoints with the session cookies of a
// logged-in browser.
type Client struct {
	talkBaseURL    string
	storageBaseURL string
	serviceID      string
	imageBoundary  string
	videoBoundary  string
	detectType     bool
	fingerprint    fingerprint
	cookies        credentials.Cookies
	httpClient     *http.Client
	log            *logger.Logger
	now            func() time.Time

	tidMu   sync.Mutex
	lastTID int64
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithClock replaces the clock used for x-tid values.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a Works client.
func New(cfg Config, cookies credentials.Cookies, log *logger.Logger, opts ...Option) *Client {
	if log == nil {
		log = logger.Discard()
	}

	c := &Client{
		talkBaseURL:    cfg.GetTalkBaseURL(),
		storageBaseURL: cfg.GetStorageBaseURL(),
		serviceID:      cfg.GetServiceID(),
		imageBoundary:  cfg.GetImageBoundary(),
		videoBoundary:  cfg.GetVideoBoundary(),
		detectType:     cfg.GetDetectContentType(),
		fingerprint:    newFingerprint(cfg),
		cookies:        cookies,
		httpClient:     &http.Client{Timeout: cfg.GetHTTPTimeout()},
		log:            log,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// nextTID returns a millisecond timestamp that is strictly greater than any
// value this client handed out before.
func (c *Client) nextTID() int64 {
	c.tidMu.Lock()
	defer c.tidMu.Unlock()

	tid := c.now().UnixMilli()
	if tid <= c.lastTID {
		tid = c.lastTID + 1
	}
	c.lastTID = tid
	return tid
}
