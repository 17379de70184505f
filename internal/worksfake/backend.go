// Package worksfake is an in-process stand-in for the Works talk and storage
// hosts. It checks requests the way the real hosts are observed to and
// records every accepted upload.
package worksfake

import (
	"sync"

	apphttp "works_uploader/internal/http"
	"works_uploader/internal/http/router"
	"works_uploader/platform/config"
	"works_uploader/platform/logger"

	"github.com/gin-gonic/gin"
)

// Options tunes the fake hosts. Zero values mean normal behavior.
type Options struct {
	// SessionCookies names the cookies the talk and storage hosts require.
	SessionCookies []string
	// AllowedOrigins restricts CORS on the storage host; empty allows all.
	AllowedOrigins []string
	// IssueCode, when set, is returned as the issueResourcePath code.
	IssueCode int
	// PreflightStatus, when set, answers every preflight.
	PreflightStatus int
	// UploadStatus and UploadBody, when set, replace the upload response
	// verbatim (UploadBody is sent as text/plain).
	UploadStatus int
	UploadBody   string
}

// Upload is one payload accepted by the storage host.
type Upload struct {
	ResourcePath string
	Filename     string
	ContentType  string
	MsgType      int
	ChannelNo    int64
	CallerNo     string
	Extras       map[string]any
	Data         []byte
}

type issuedPath struct {
	filename  string
	fileSize  int
	msgType   int
	channelNo int64
}

// Backend holds the shared state of the two hosts.
type Backend struct {
	opts Options
	cfg  config.FakeServerConfig
	log  *logger.Logger

	mu      sync.Mutex
	issued  map[string]issuedPath
	uploads []Upload
	counts  map[string]int
}

// New creates a backend. cfg may be nil, which disables rate limiting.
func New(cfg config.FakeServerConfig, log *logger.Logger, opts Options) *Backend {
	if log == nil {
		log = logger.Discard()
	}
	return &Backend{
		opts:   opts,
		cfg:    cfg,
		log:    log,
		issued: make(map[string]issuedPath),
		counts: make(map[string]int),
	}
}

// TalkEngine returns the gin engine serving the talk host.
func (b *Backend) TalkEngine() *gin.Engine {
	return router.New(&apphttp.App{
		Config:         b.cfg,
		Logger:         b.log.WithFields("host", "talk"),
		SessionCookies: b.opts.SessionCookies,
		Modules:        []apphttp.Module{&talkModule{backend: b}},
	})
}

// StorageEngine returns the gin engine serving the storage host.
func (b *Backend) StorageEngine() *gin.Engine {
	return router.New(&apphttp.App{
		Config:         b.cfg,
		Logger:         b.log.WithFields("host", "storage"),
		SessionCookies: b.opts.SessionCookies,
		Modules:        []apphttp.Module{&storageModule{backend: b}},
	})
}

// Uploads returns the uploads accepted so far.
func (b *Backend) Uploads() []Upload {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Upload, len(b.uploads))
	copy(out, b.uploads)
	return out
}

// Calls returns how many requests reached the named endpoint
// ("issue", "preflight" or "upload").
func (b *Backend) Calls(endpoint string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts[endpoint]
}

func (b *Backend) count(endpoint string) {
	b.mu.Lock()
	b.counts[endpoint]++
	b.mu.Unlock()
}

func (b *Backend) issue(path string, p issuedPath) {
	b.mu.Lock()
	b.issued[path] = p
	b.mu.Unlock()
}

// claim returns the issued path and removes it; a path is good for one upload.
func (b *Backend) claim(path string) (issuedPath, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.issued[path]
	if ok {
		delete(b.issued, path)
	}
	return p, ok
}

func (b *Backend) peek(path string) (issuedPath, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.issued[path]
	return p, ok
}

func (b *Backend) record(u Upload) {
	b.mu.Lock()
	b.uploads = append(b.uploads, u)
	b.mu.Unlock()
}
