package upload_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path"
	"testing"

	"github.com/gin-gonic/gin"

	"works_uploader/internal/credentials"
	"works_uploader/internal/events"
	"works_uploader/internal/media"
	"works_uploader/internal/upload"
	"works_uploader/internal/works/client"
	"works_uploader/internal/worksfake"
	"works_uploader/platform/apperr"
	"works_uploader/platform/config"
	"works_uploader/platform/logger"
)

type fakeWorks struct {
	backend  *worksfake.Backend
	pipeline *upload.Pipeline
}

func startFakeWorks(t *testing.T, opts worksfake.Options) *fakeWorks {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := worksfake.New(nil, nil, opts)
	talk := httptest.NewServer(backend.TalkEngine())
	storage := httptest.NewServer(backend.StorageEngine())
	t.Cleanup(talk.Close)
	t.Cleanup(storage.Close)

	cfg := config.Default()
	cfg.TalkBaseURL = talk.URL
	cfg.StorageBaseURL = storage.URL

	api := client.New(cfg, credentials.Cookies{"WORKS_SES": "abc"}, logger.Discard())
	return &fakeWorks{
		backend:  backend,
		pipeline: upload.New(api, events.NewInMemoryBus(nil), logger.Discard()),
	}
}

func testImage(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 10))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func testVideo() []byte {
	var buf bytes.Buffer
	buf.WriteString("\x00\x00\x00\x18ftypisom\x00\x00\x02\x00isommp41")
	buf.WriteString("\x00\x00\x00\x6cmoov\x00\x00\x00\x64mvhd")
	buf.Write(make([]byte, 12))
	_ = binary.Write(&buf, binary.BigEndian, uint32(1000))
	_ = binary.Write(&buf, binary.BigEndian, uint32(2500))
	buf.Write(make([]byte, 80))
	return buf.Bytes()
}

func TestEndToEndImage(t *testing.T) {
	fw := startFakeWorks(t, worksfake.Options{})
	payload := testImage(t)

	res, err := fw.pipeline.Run(context.Background(), upload.Request{
		Filename: "image.png", Payload: payload, ChannelNo: 307, CallerNo: "1100", Kind: media.KindImage,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Code != 200 || res.Stage != upload.StageDone {
		t.Fatalf("unexpected result: %+v", res)
	}

	uploads := fw.backend.Uploads()
	if len(uploads) != 1 {
		t.Fatalf("expected one stored upload, got %d", len(uploads))
	}
	got := uploads[0]
	if !bytes.Equal(got.Data, payload) || got.Filename != path.Base(res.ResourcePath) || got.ContentType != "image/png" {
		t.Fatalf("unexpected stored upload: %q %q (%d bytes)", got.Filename, got.ContentType, len(got.Data))
	}
	if got.MsgType != media.MsgTypeImage || got.ChannelNo != 307 || got.CallerNo != "1100" {
		t.Fatalf("unexpected stored identity: %+v", got)
	}
	if got.Extras["width"] != float64(10) || got.Extras["height"] != float64(10) {
		t.Fatalf("unexpected extras: %v", got.Extras)
	}
	if got.ResourcePath != res.ResourcePath {
		t.Fatalf("expected resource path %q, got %q", res.ResourcePath, got.ResourcePath)
	}
}

func TestEndToEndVideo(t *testing.T) {
	fw := startFakeWorks(t, worksfake.Options{})
	payload := testVideo()

	res, err := fw.pipeline.Run(context.Background(), upload.Request{
		Filename: "video.mp4", Payload: payload, ChannelNo: 307, CallerNo: "1100", Kind: media.KindVideo,
	})
	if err != nil || res.Code != 200 {
		t.Fatalf("expected success, got %+v (%v)", res, err)
	}

	got := fw.backend.Uploads()[0]
	if got.ContentType != "video/mp4" || got.MsgType != media.MsgTypeVideo || got.Filename != path.Base(res.ResourcePath) {
		t.Fatalf("unexpected stored upload: %+v", got)
	}
	if got.Extras["recordtime"] != 2.5 {
		t.Fatalf("expected recordtime 2.5, got %v", got.Extras["recordtime"])
	}
	if fw.backend.Calls("preflight") != 1 {
		t.Fatalf("expected one preflight, got %d", fw.backend.Calls("preflight"))
	}
}

func TestEndToEndIssueRejectedSkipsStorage(t *testing.T) {
	fw := startFakeWorks(t, worksfake.Options{IssueCode: 500})

	res, err := fw.pipeline.Run(context.Background(), upload.Request{
		Filename: "image.png", Payload: testImage(t), ChannelNo: 1, CallerNo: "c", Kind: media.KindImage,
	})
	if res.Code != 500 || !apperr.Is(err, apperr.KindProtocolRejection) {
		t.Fatalf("expected rejection with 500, got %+v (%v)", res, err)
	}
	if fw.backend.Calls("preflight") != 0 || fw.backend.Calls("upload") != 0 {
		t.Fatalf("expected no storage calls, got preflight=%d upload=%d", fw.backend.Calls("preflight"), fw.backend.Calls("upload"))
	}
}

func TestEndToEndNonJSONUploadResponse(t *testing.T) {
	fw := startFakeWorks(t, worksfake.Options{UploadStatus: http.StatusBadGateway, UploadBody: "<html>bad gateway</html>"})

	res, err := fw.pipeline.Run(context.Background(), upload.Request{
		Filename: "image.png", Payload: testImage(t), ChannelNo: 1, CallerNo: "c", Kind: media.KindImage,
	})
	if res.Code != http.StatusBadGateway || !apperr.Is(err, apperr.KindMalformedResponse) {
		t.Fatalf("expected 502 malformed response, got %+v (%v)", res, err)
	}
}

func TestEndToEndPreflightRejectedStillUploads(t *testing.T) {
	fw := startFakeWorks(t, worksfake.Options{PreflightStatus: http.StatusForbidden})

	res, err := fw.pipeline.Run(context.Background(), upload.Request{
		Filename: "image.png", Payload: testImage(t), ChannelNo: 1, CallerNo: "c", Kind: media.KindImage,
	})
	if err != nil || res.Code != 200 {
		t.Fatalf("expected success despite preflight rejection, got %+v (%v)", res, err)
	}
}

func TestEndToEndInvalidImageMakesNoRequest(t *testing.T) {
	fw := startFakeWorks(t, worksfake.Options{})

	res, err := fw.pipeline.Run(context.Background(), upload.Request{
		Filename: "image.png", Payload: []byte("not an image"), ChannelNo: 1, CallerNo: "c", Kind: media.KindImage,
	})
	if res.Code != -1 || !apperr.Is(err, apperr.KindLocalPrecondition) {
		t.Fatalf("expected -1 precondition failure, got %+v (%v)", res, err)
	}
	if fw.backend.Calls("issue") != 0 {
		t.Fatalf("expected no issue call, got %d", fw.backend.Calls("issue"))
	}
}
