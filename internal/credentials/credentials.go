// Package credentials loads the browser session cookies used to authenticate
// against the Works Mobile web endpoints.
package credentials

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
)

// Cookies maps cookie name to value, exactly as exported from the browser.
type Cookies map[string]string

// Load reads a JSON object of cookie name to value from path.
func Load(path string) (Cookies, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cookies file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a cookie JSON document. An empty object is rejected since no
// request can authenticate without at least one cookie.
func Parse(data []byte) (Cookies, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode cookies: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("cookies file contains no cookies")
	}

	cookies := make(Cookies, len(raw))
	for name, value := range raw {
		switch v := value.(type) {
		case string:
			cookies[name] = v
		case float64, bool:
			cookies[name] = fmt.Sprint(v)
		default:
			return nil, fmt.Errorf("cookie %q: unsupported value type %T", name, value)
		}
	}
	return cookies, nil
}

// Names returns the cookie names in sorted order.
func (c Cookies) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Header renders the Cookie header value in name order. Values are sent
// verbatim; net/http's cookie sanitizer would drop or quote some of the
// values the web client stores.
func (c Cookies) Header() string {
	pairs := make([]string, 0, len(c))
	for _, name := range c.Names() {
		pairs = append(pairs, name+"="+c[name])
	}
	return strings.Join(pairs, "; ")
}

// Apply sets the Cookie header on req. Nothing is set for an empty jar.
func (c Cookies) Apply(req *http.Request) {
	if len(c) == 0 {
		return
	}
	req.Header.Set("Cookie", c.Header())
}
