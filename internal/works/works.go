// Package works provides the Works Mobile upload bounded context.
// This file defines the public interfaces exposed to other domains.
package works

import (
	"context"

	"works_uploader/internal/media"
	"works_uploader/internal/works/client"
	"works_uploader/internal/works/transport"
)

// UploadAPI is the three-call protocol a single upload goes through.
// Other domains should depend on this interface, not the concrete client.
type UploadAPI interface {
	// IssueResourcePath requests a storage path for the pending upload.
	IssueResourcePath(ctx context.Context, filename string, payload []byte, channelNo int64, kind media.Kind) (*transport.ResourcePathToken, error)

	// Preflight sends the CORS preflight for the issued path and returns the HTTP status.
	Preflight(ctx context.Context, resourcePath string) (int, error)

	// Upload sends the payload to the storage host.
	Upload(ctx context.Context, in client.UploadInput) (*transport.UploadResult, error)
}

var _ UploadAPI = (*client.Client)(nil)
