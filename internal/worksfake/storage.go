package worksfake

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	apphttp "works_uploader/internal/http"
	"works_uploader/internal/works/transport"
	"works_uploader/platform/apperr"
	"works_uploader/platform/httpkit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// uploadHeaders are the custom headers a browser must be allowed to send.
var uploadHeaders = []string{
	"Content-Type",
	"Device-Language",
	"X-Callerno",
	"X-Channelno",
	"X-Extras",
	"X-Ocn",
	"X-Resourcepath",
	"X-Serviceid",
	"X-Tid",
	"X-Type",
}

// codeEmptyFile is what the storage host answers for a zero-length part.
const codeEmptyFile = http.StatusRequestedRangeNotSatisfiable

type storageModule struct {
	backend *Backend
	rc      *apphttp.RouterContext
}

func (m *storageModule) Name() string { return "storage" }

func (m *storageModule) RegisterRoutes(rc *apphttp.RouterContext) {
	m.rc = rc

	group := rc.Engine.Group("", m.countPreflight, m.preflightOverride, cors.New(m.corsConfig()))
	group.OPTIONS("/*resourcePath", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	group.POST("/*resourcePath", rc.Session, m.upload)
}

func (m *storageModule) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodPost, http.MethodOptions},
		AllowHeaders:     uploadHeaders,
		ExposeHeaders:    []string{httpkit.HeaderRequestID},
		AllowCredentials: len(m.backend.opts.AllowedOrigins) > 0,
		MaxAge:           10 * time.Minute,
	}
	if len(m.backend.opts.AllowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = m.backend.opts.AllowedOrigins
	}
	return cfg
}

func (m *storageModule) countPreflight(c *gin.Context) {
	if c.Request.Method == http.MethodOptions {
		m.backend.count("preflight")
	}
	c.Next()
}

func (m *storageModule) preflightOverride(c *gin.Context) {
	if status := m.backend.opts.PreflightStatus; status != 0 && c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(status)
		return
	}
	c.Next()
}

func (m *storageModule) upload(c *gin.Context) {
	m.backend.count("upload")
	log := m.rc.Logger.WithContext(c.Request.Context())

	if c.Query("Servicekey") != transport.StorageServiceKey {
		httpkit.HandleError(c, apperr.Precondition("unknown Servicekey"))
		return
	}

	resourcePath := c.Param("resourcePath")
	issued, ok := m.backend.peek(resourcePath)
	if !ok {
		httpkit.HandleError(c, apperr.NotFound("resource path was not issued"))
		return
	}

	if err := checkUploadHeaders(c.Request.Header, resourcePath, issued); err != nil {
		httpkit.HandleError(c, err)
		return
	}

	var extras map[string]any
	if err := json.Unmarshal([]byte(c.GetHeader("X-Extras")), &extras); err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindLocalPrecondition, "x-extras is not JSON", err))
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		httpkit.HandleError(c, apperr.Wrap(apperr.KindLocalPrecondition, "read body", err))
		return
	}
	if c.Request.ContentLength != int64(len(body)) {
		httpkit.HandleError(c, apperr.Precondition("Content-Length does not match body"))
		return
	}

	part, err := readSinglePart(c.GetHeader("Content-Type"), body)
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}
	if len(part.data) == 0 {
		c.JSON(http.StatusOK, httpkit.ErrorResponse{Code: codeEmptyFile, Message: "Filesize must be greater than 0"})
		return
	}
	if name, _ := extras["filename"].(string); name != part.filename {
		httpkit.HandleError(c, apperr.Precondition(fmt.Sprintf("x-extras filename %q does not match part filename %q", name, part.filename)))
		return
	}
	if size, ok := extras["filesize"].(float64); !ok || int(size) != len(part.data) {
		httpkit.HandleError(c, apperr.Precondition(fmt.Sprintf("x-extras filesize does not match part length %d", len(part.data))))
		return
	}

	if _, ok := m.backend.claim(resourcePath); !ok {
		httpkit.HandleError(c, apperr.NotFound("resource path was already used"))
		return
	}

	if status := m.backend.opts.UploadStatus; status != 0 {
		c.String(status, m.backend.opts.UploadBody)
		return
	}

	m.backend.record(Upload{
		ResourcePath: resourcePath,
		Filename:     part.filename,
		ContentType:  part.contentType,
		MsgType:      issued.msgType,
		ChannelNo:    issued.channelNo,
		CallerNo:     c.GetHeader("X-Callerno"),
		Extras:       extras,
		Data:         part.data,
	})
	log.Info("upload stored", "resource_path", resourcePath, "filename", part.filename, "size", len(part.data))

	c.JSON(http.StatusOK, gin.H{
		"code":         transport.CodeSuccess,
		"message":      "success",
		"resourcePath": resourcePath,
		"filesize":     len(part.data),
	})
}

func checkUploadHeaders(h http.Header, resourcePath string, issued issuedPath) error {
	if h.Get("X-Resourcepath") != resourcePath {
		return apperr.Precondition("x-resourcepath does not match the request path")
	}
	if h.Get("X-Serviceid") == "" || h.Get("X-Callerno") == "" || h.Get("X-Ocn") != "1" {
		return apperr.Precondition("missing x-serviceid, x-callerno or x-ocn")
	}
	if h.Get("X-Type") != strconv.Itoa(issued.msgType) {
		return apperr.Precondition("x-type does not match the issued msgType")
	}
	if h.Get("X-Channelno") != strconv.FormatInt(issued.channelNo, 10) {
		return apperr.Precondition("x-channelno does not match the issued channel")
	}
	if _, err := strconv.ParseInt(h.Get("X-Tid"), 10, 64); err != nil {
		return apperr.Precondition("x-tid must be a millisecond timestamp")
	}
	return nil
}

type filePart struct {
	filename    string
	contentType string
	data        []byte
}

// readSinglePart requires exactly one form part, named "file".
func readSinglePart(contentType string, body []byte) (*filePart, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.EqualFold(mediaType, "multipart/form-data") || params["boundary"] == "" {
		return nil, apperr.Precondition("content type must be multipart/form-data with a boundary")
	}

	mr := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	part, err := mr.NextPart()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindLocalPrecondition, "read multipart part", err)
	}
	if part.FormName() != "file" {
		return nil, apperr.Precondition(fmt.Sprintf("unexpected form field %q", part.FormName()))
	}
	data, err := io.ReadAll(part)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindLocalPrecondition, "read multipart data", err)
	}
	if _, err := mr.NextPart(); err != io.EOF {
		return nil, apperr.Precondition("expected exactly one multipart part")
	}

	return &filePart{
		filename:    part.FileName(),
		contentType: part.Header.Get("Content-Type"),
		data:        data,
	}, nil
}
