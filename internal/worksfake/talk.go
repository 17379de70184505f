package worksfake

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"path"

	apphttp "works_uploader/internal/http"
	"works_uploader/internal/media"
	"works_uploader/internal/works/transport"
	"works_uploader/platform/apperr"
	"works_uploader/platform/httpkit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type talkModule struct {
	backend *Backend
	rc      *apphttp.RouterContext
}

func (m *talkModule) Name() string { return "talk" }

func (m *talkModule) RegisterRoutes(rc *apphttp.RouterContext) {
	m.rc = rc
	rc.Engine.POST("/p/oneapp/client/chat/issueResourcePath", rc.Session, m.issueResourcePath)
}

func (m *talkModule) issueResourcePath(c *gin.Context) {
	m.backend.count("issue")

	var req transport.IssueResourcePathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindLocalPrecondition, "invalid request body", err))
		return
	}
	if err := m.rc.Validator.Struct(req); err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindLocalPrecondition, "validation failed", err))
		return
	}

	if req.MsgType == media.MsgTypeImage {
		decoded, err := base64.StdEncoding.DecodeString(req.FileData)
		if err != nil || len(decoded) == 0 {
			httpkit.HandleError(c, apperr.Precondition("fileData must be base64 image data"))
			return
		}
		if len(decoded) != req.FileSize {
			httpkit.HandleError(c, apperr.Precondition(fmt.Sprintf("filesize %d does not match fileData length %d", req.FileSize, len(decoded))))
			return
		}
	}

	if code := m.backend.opts.IssueCode; code != 0 {
		httpkit.OK(c, transport.IssueResourcePathResponse{Code: code, Message: "resource path not issued"})
		return
	}

	resourcePath := fmt.Sprintf("/works/%d/%s%s", req.ChannelNo, uuid.NewString(), path.Ext(req.Filename))
	m.backend.issue(resourcePath, issuedPath{
		filename:  req.Filename,
		fileSize:  req.FileSize,
		msgType:   req.MsgType,
		channelNo: req.ChannelNo,
	})
	m.rc.Logger.WithContext(c.Request.Context()).Info("resource path issued", "resource_path", resourcePath, "msg_type", req.MsgType)

	c.JSON(http.StatusOK, transport.IssueResourcePathResponse{Code: transport.CodeSuccess, ResourcePath: resourcePath})
}
