package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"works_uploader/internal/media"
	"works_uploader/internal/works/transport"
	"works_uploader/platform/apperr"
)

const issueResourcePathPath = "/p/oneapp/client/chat/issueResourcePath"

// IssueResourcePath asks the talk host for a storage path for the pending
// upload. A non-200 code in the response is not an error here; callers must
// check the token before using it.
func (c *Client) IssueResourcePath(ctx context.Context, filename string, payload []byte, channelNo int64, kind media.Kind) (*transport.ResourcePathToken, error) {
	body := transport.IssueResourcePathRequest{
		ServiceID:   c.serviceID,
		ChannelNo:   channelNo,
		Filename:    filename,
		MsgType:     kind.MsgType(),
		ChannelType: transport.ChannelTypeGroup,
	}

	switch kind {
	case media.KindImage:
		encoded := base64.StdEncoding.EncodeToString(payload)
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindLocalPrecondition, "encode payload", err).WithOp("issue resource path")
		}
		body.FileData = encoded
		body.FileSize = len(decoded)
	case media.KindVideo:
		// The web client never sends video bytes to the talk host.
		body.FileSize = len(payload)
	default:
		return nil, apperr.Precondition(fmt.Sprintf("unsupported media kind %s", kind)).WithOp("issue resource path")
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal issue request: %w", err)
	}

	reqURL := c.talkBaseURL + issueResourcePathPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	c.fingerprint.apply(req.Header)
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	req.Header.Set("Priority", "u=1, i")
	c.cookies.Apply(req)
	if verr := validateHeaders(req.Header); verr != nil {
		return nil, verr.WithOp("issue resource path")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithContext(ctx).Error("works issue request failed", "error", err, "url", reqURL)
		return nil, apperr.Transport("request failed", err).WithOp("issue resource path")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.WithContext(ctx).Error("works issue read failed", "error", err, "status", resp.StatusCode)
		return nil, apperr.Transport("read response", err).WithOp("issue resource path")
	}

	var decoded apiIssueResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		c.log.WithContext(ctx).Error("works issue decode failed", "error", err, "status", resp.StatusCode, "body", string(raw))
		return nil, apperr.Malformed("decode response", resp.StatusCode, err).WithOp("issue resource path")
	}

	token := decoded.toToken(resp.StatusCode)
	c.log.WithContext(ctx).Debug("works resource path issued", "code", token.Code, "resource_path", token.Path)
	return token, nil
}

// apiIssueResponse is the raw talk host answer. Code is a pointer so a
// missing field can fall back to the HTTP status.
type apiIssueResponse struct {
	Code         *int   `json:"code"`
	Message      string `json:"message"`
	ResourcePath string `json:"resourcePath"`
}

func (a apiIssueResponse) toToken(status int) *transport.ResourcePathToken {
	code := status
	if a.Code != nil {
		code = *a.Code
	}
	return &transport.ResourcePathToken{Path: a.ResourcePath, Code: code}
}
