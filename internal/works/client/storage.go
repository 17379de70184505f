package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"

	"works_uploader/internal/media"
	"works_uploader/internal/works/transport"
	"works_uploader/platform/apperr"
	"works_uploader/platform/sanitize"
)

// UploadInput describes one storage upload. The stored file is named after
// the last segment of ResourcePath; Filename is used only when the path has
// no usable segment.
type UploadInput struct {
	ResourcePath string
	Filename     string
	Payload      []byte
	Kind         media.Kind
	Metadata     media.Metadata
	ChannelNo    int64
	CallerNo     string
}

// storageURL joins the storage host, the issued path and the fixed query.
func (c *Client) storageURL(resourcePath string) (string, error) {
	u, err := url.Parse(c.storageBaseURL + resourcePath)
	if err != nil {
		return "", err
	}
	q := url.Values{}
	q.Set("Servicekey", transport.StorageServiceKey)
	q.Set("writeMode", "overwrite")
	q.Set("isMakethumbnail", "true")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Preflight sends the CORS OPTIONS request the browser issues before an
// upload and returns the HTTP status. The status is informational.
func (c *Client) Preflight(ctx context.Context, resourcePath string) (int, error) {
	reqURL, err := c.storageURL(resourcePath)
	if err != nil {
		return apperr.LocalFailureCode, apperr.Wrap(apperr.KindLocalPrecondition, "invalid resource path", err).WithOp("preflight")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodOptions, reqURL, nil)
	if err != nil {
		return apperr.LocalFailureCode, fmt.Errorf("create request: %w", err)
	}
	c.fingerprint.applyPreflight(req.Header)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithContext(ctx).Warn("works preflight failed", "error", err, "url", reqURL)
		return apperr.LocalFailureCode, apperr.Transport("request failed", err).WithOp("preflight")
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, nil
}

// Upload sends the payload to the storage host. The returned result is never
// nil; err is set whenever the result code does not come from a decoded
// storage response.
func (c *Client) Upload(ctx context.Context, in UploadInput) (*transport.UploadResult, error) {
	if len(in.Payload) == 0 {
		return transport.LocalFailure(), apperr.Precondition("payload is empty").WithOp("upload")
	}
	if in.Metadata == nil || !in.Metadata.Valid() {
		return transport.LocalFailure(), apperr.Precondition(fmt.Sprintf("%s metadata is invalid", in.Kind)).WithOp("upload")
	}
	if in.ResourcePath == "" {
		return transport.LocalFailure(), apperr.Precondition("resource path is empty").WithOp("upload")
	}

	boundary, err := c.boundary(in.Kind)
	if err != nil {
		return transport.LocalFailure(), err
	}

	filename := uploadFilename(in)
	if filename == "" {
		return transport.LocalFailure(), apperr.Precondition("filename is empty").WithOp("upload")
	}

	reqURL, err := c.storageURL(in.ResourcePath)
	if err != nil {
		return transport.LocalFailure(), apperr.Wrap(apperr.KindLocalPrecondition, "invalid resource path", err).WithOp("upload")
	}

	contentType := media.ContentType(in.Payload, in.Kind, c.detectType)
	body := multipartBody(boundary, filename, contentType, in.Payload)
	extras := transport.NewExtras(len(in.Payload), filename, in.ResourcePath, in.Metadata)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return transport.LocalFailure(), fmt.Errorf("create request: %w", err)
	}
	req.ContentLength = int64(len(body))

	c.fingerprint.apply(req.Header)
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)
	req.Header.Set("X-Resourcepath", in.ResourcePath)
	req.Header.Set("X-Serviceid", c.serviceID)
	req.Header.Set("X-Type", strconv.Itoa(in.Kind.MsgType()))
	req.Header.Set("X-Callerno", in.CallerNo)
	req.Header.Set("X-Channelno", strconv.FormatInt(in.ChannelNo, 10))
	req.Header.Set("X-Extras", extras.HeaderValue())
	req.Header.Set("X-Ocn", "1")
	req.Header.Set("X-Tid", strconv.FormatInt(c.nextTID(), 10))
	c.cookies.Apply(req)
	if verr := validateHeaders(req.Header); verr != nil {
		return transport.LocalFailure(), verr.WithOp("upload")
	}

	log := c.log.WithContext(ctx)
	log.Info("works upload started", "filename", filename, "filesize", len(in.Payload), "content_type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("works upload failed", "error", err, "url", reqURL)
		return transport.LocalFailure(), apperr.Transport("request failed", err).WithOp("upload")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("works upload read failed", "error", err, "status", resp.StatusCode)
		return transport.LocalFailure(), apperr.Transport("read response", err).WithOp("upload")
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		log.Error("works upload response is not JSON", "status", resp.StatusCode, "body", string(raw))
		return &transport.UploadResult{Code: resp.StatusCode}, apperr.Malformed("decode response", resp.StatusCode, err).WithOp("upload")
	}

	return &transport.UploadResult{Code: resultCode(decoded, resp.StatusCode), Raw: decoded}, nil
}

// uploadFilename returns the name sent in both the part header and x-extras.
func uploadFilename(in UploadInput) string {
	name := sanitize.Filename(path.Base(in.ResourcePath))
	if name == "" {
		name = sanitize.Filename(in.Filename)
	}
	return sanitize.QuotedHeaderValue(name)
}

func (c *Client) boundary(kind media.Kind) (string, error) {
	switch kind {
	case media.KindImage:
		return c.imageBoundary, nil
	case media.KindVideo:
		return c.videoBoundary, nil
	default:
		return "", apperr.Precondition(fmt.Sprintf("unsupported media kind %s", kind)).WithOp("upload")
	}
}

// resultCode reads the numeric code field, falling back to the HTTP status.
func resultCode(body map[string]any, status int) int {
	switch v := body["code"].(type) {
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return status
}
