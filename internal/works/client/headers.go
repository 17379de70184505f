package client

import (
	"fmt"
	"net/http"

	"golang.org/x/net/http/httpguts"

	"works_uploader/platform/apperr"
)

const (
	acceptJSON = "application/json, text/plain, */*"

	// Headers the storage host is asked to allow during preflight.
	preflightRequestHeaders = "device-language,x-callerno,x-channelno,x-extras,x-ocn,x-resourcepath,x-serviceid,x-tid,x-type"
)

// fingerprint is the browser identity every talk and storage request carries.
type fingerprint struct {
	origin          string
	referer         string
	userAgent       string
	acceptLanguage  string
	deviceLanguage  string
	secCHUA         string
	secCHUAPlatform string
}

func newFingerprint(cfg Config) fingerprint {
	origin := cfg.GetTalkBaseURL()
	return fingerprint{
		origin:          origin,
		referer:         origin + "/",
		userAgent:       cfg.GetUserAgent(),
		acceptLanguage:  cfg.GetAcceptLanguage(),
		deviceLanguage:  cfg.GetDeviceLanguage(),
		secCHUA:         cfg.GetSecCHUA(),
		secCHUAPlatform: cfg.GetSecCHUAPlatform(),
	}
}

// apply sets the headers shared by the issue and upload calls.
func (f fingerprint) apply(h http.Header) {
	h.Set("Accept", acceptJSON)
	h.Set("Accept-Language", f.acceptLanguage)
	h.Set("Device-Language", f.deviceLanguage)
	h.Set("Origin", f.origin)
	h.Set("Referer", f.referer)
	h.Set("Sec-Ch-Ua", f.secCHUA)
	h.Set("Sec-Ch-Ua-Mobile", "?0")
	h.Set("Sec-Ch-Ua-Platform", f.secCHUAPlatform)
	h.Set("User-Agent", f.userAgent)
}

// applyPreflight sets the CORS preflight headers. No session state is sent.
func (f fingerprint) applyPreflight(h http.Header) {
	h.Set("Accept", "*/*")
	h.Set("Accept-Language", f.acceptLanguage)
	h.Set("Access-Control-Request-Headers", preflightRequestHeaders)
	h.Set("Access-Control-Request-Method", http.MethodPost)
	h.Set("Connection", "keep-alive")
	h.Set("Origin", f.origin)
	h.Set("Referer", f.referer)
}

// validateHeaders rejects values net/http would refuse to send or that could
// split the request.
func validateHeaders(h http.Header) *apperr.Error {
	for name, values := range h {
		if !httpguts.ValidHeaderFieldName(name) {
			return apperr.Precondition(fmt.Sprintf("invalid header name %q", name))
		}
		for _, v := range values {
			if !httpguts.ValidHeaderFieldValue(v) {
				return apperr.Precondition(fmt.Sprintf("invalid value for header %s", name))
			}
		}
	}
	return nil
}
