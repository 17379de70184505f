package transport

import (
	"encoding/json"
	"testing"

	"works_uploader/internal/media"
)

func TestExtrasImageHeaderValue(t *testing.T) {
	extras := NewExtras(1234, "image.png", "/p/abc/image.png", media.ImageMetadata{Width: 640, Height: 480})

	want := `{"filesize": 1234, "filename": "image.png", "resourcepath": "/p/abc/image.png", "width": 640, "height": 480}`
	if got := extras.HeaderValue(); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestExtrasVideoHeaderValue(t *testing.T) {
	cases := []struct {
		duration float64
		want     string
	}{
		{duration: 2.5, want: `{"filesize": 10, "filename": "video.mp4", "resourcepath": "/v", "recordtime": 2.5}`},
		{duration: 10, want: `{"filesize": 10, "filename": "video.mp4", "resourcepath": "/v", "recordtime": 10.0}`},
	}

	for _, tc := range cases {
		extras := NewExtras(10, "video.mp4", "/v", media.VideoMetadata{DurationSeconds: tc.duration})
		if got := extras.HeaderValue(); got != tc.want {
			t.Fatalf("expected %s, got %s", tc.want, got)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	cases := map[float64]string{
		0:         "0.0",
		2.5:       "2.5",
		10:        "10.0",
		1234567:   "1234567.0",
		0.0001:    "0.0001",
		0.00001:   "1e-05",
		1e15:      "1000000000000000.0",
		1e16:      "1e+16",
		1.5e16:    "1.5e+16",
		123.456e3: "123456.0",
	}

	for in, want := range cases {
		if got := formatFloat(in); got != want {
			t.Fatalf("formatFloat(%v): expected %s, got %s", in, want, got)
		}
	}
}

func TestExtrasEscapesNonASCII(t *testing.T) {
	extras := NewExtras(1, "写真 \"1\".png", "/p/😀", nil)
	got := extras.HeaderValue()

	for i := 0; i < len(got); i++ {
		if got[i] < 0x20 || got[i] > 0x7e {
			t.Fatalf("expected printable ASCII only, got byte %#x in %q", got[i], got)
		}
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("expected valid JSON, got %q: %v", got, err)
	}
	if decoded["filename"] != "写真 \"1\".png" {
		t.Fatalf("filename did not survive escaping: %v", decoded["filename"])
	}
	if decoded["resourcepath"] != "/p/😀" {
		t.Fatalf("resourcepath did not survive escaping: %v", decoded["resourcepath"])
	}
	if _, ok := decoded["width"]; ok {
		t.Fatal("expected no width without metadata")
	}
}

func TestResourcePathTokenOK(t *testing.T) {
	if (&ResourcePathToken{Path: "/abc", Code: 200}).OK() != true {
		t.Fatal("expected token to be usable")
	}
	if (&ResourcePathToken{Path: "", Code: 200}).OK() {
		t.Fatal("expected empty path to be unusable")
	}
	if (&ResourcePathToken{Path: "/abc", Code: 500}).OK() {
		t.Fatal("expected non-200 code to be unusable")
	}
}

func TestIssueRequestOmitsEmptyFileData(t *testing.T) {
	body, err := json.Marshal(IssueResourcePathRequest{ServiceID: "works", ChannelNo: 1, Filename: "v.mp4", FileSize: 3, MsgType: 14, ChannelType: ChannelTypeGroup})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	_ = json.Unmarshal(body, &decoded)
	if _, ok := decoded["fileData"]; ok {
		t.Fatalf("expected fileData to be omitted, got %s", body)
	}
}
