// Package urlfetch is the URL/HTTP collaborator (spec §6), grounded in
// _examples/original_source/network.py's URL class. Persistent
// connections, gzip and chunked decoding are delegated to net/http
// (which already implements HTTP/1.1 framing correctly; see DESIGN.md
// for why hand-rolling raw sockets would be the wrong call here), with a
// max-age response cache and an explicit SameSite=lax cookie gate layered
// on top to match network.py's behavior exactly.
package urlfetch

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// HomePage is the fallback document used for a malformed URL (spec §7)
// and the "about:blank" scheme (supplemented feature C.6), a portable
// in-process document rather than network.py's hardcoded local file path.
const HomePage = "about:blank"

// URL is the parsed, resolvable request target.
type URL struct {
	Scheme string
	Host   string
	Port   int
	Path   string
	// Data holds the payload for scheme=="data".
	DataMime, DataContent string
}

// Parse parses raw into a URL, falling back to HomePage on any failure
// (spec §7: "malformed URL — fall back to a fixed home page").
func Parse(raw string) URL {
	u, err := parse(raw)
	if err != nil {
		u, _ = parse(HomePage)
	}
	return u
}

func parse(raw string) (URL, error) {
	if raw == "" || raw == HomePage {
		return URL{Scheme: "about", Path: "blank"}, nil
	}
	scheme, rest, ok := cut(raw, ":")
	if !ok {
		return URL{}, fmt.Errorf("no scheme in %q", raw)
	}
	switch scheme {
	case "data":
		mime, content, ok := cut(rest, ",")
		if !ok {
			return URL{}, fmt.Errorf("malformed data url")
		}
		return URL{Scheme: "data", DataMime: mime, DataContent: content}, nil
	case "file":
		path := strings.TrimPrefix(rest, "//")
		return URL{Scheme: "file", Path: path}, nil
	case "http", "https":
		rest = strings.TrimPrefix(rest, "//")
		hostPart, path, ok := cut(rest, "/")
		if !ok {
			hostPart, path = rest, ""
		}
		host, portStr, hasPort := cut(hostPart, ":")
		port := 80
		if scheme == "https" {
			port = 443
		}
		if hasPort {
			p, err := strconv.Atoi(portStr)
			if err != nil {
				return URL{}, err
			}
			port = p
		}
		if host == "" {
			return URL{}, fmt.Errorf("empty host")
		}
		return URL{Scheme: scheme, Host: host, Port: port, Path: "/" + path}, nil
	default:
		return URL{}, fmt.Errorf("unsupported scheme %q", scheme)
	}
}

func cut(s, sep string) (before, after string, found bool) {
	i := strings.Index(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}

// String renders the URL back to its canonical form.
func (u URL) String() string {
	switch u.Scheme {
	case "data":
		return "data:" + u.DataMime + "," + u.DataContent
	case "file":
		return "file://" + u.Path
	case "about":
		return "about:blank"
	default:
		port := ""
		if !((u.Scheme == "http" && u.Port == 80) || (u.Scheme == "https" && u.Port == 443)) {
			port = ":" + strconv.Itoa(u.Port)
		}
		return u.Scheme + "://" + u.Host + port + u.Path
	}
}

// Origin returns the scheme+host+port tuple used for same-origin checks
// (spec §6).
func (u URL) Origin() string {
	if u.Scheme == "data" || u.Scheme == "file" || u.Scheme == "about" {
		return u.String()
	}
	return fmt.Sprintf("%s://%s:%d", u.Scheme, u.Host, u.Port)
}

// Resolve resolves a possibly-relative reference against u (spec §6).
func (u URL) Resolve(ref string) URL {
	if strings.Contains(ref, "://") {
		return Parse(ref)
	}
	if u.Scheme == "data" {
		return Parse(ref)
	}
	if strings.HasPrefix(ref, "//") {
		return Parse(u.Scheme + ":" + ref)
	}
	if strings.HasPrefix(ref, "/") {
		return Parse(fmt.Sprintf("%s://%s:%d%s", u.Scheme, u.Host, u.Port, ref))
	}
	dir := u.Path
	if i := strings.LastIndex(dir, "/"); i >= 0 {
		dir = dir[:i]
	}
	joined, err := url.JoinPath(dir, ref)
	if err != nil {
		joined = dir + "/" + ref
	}
	return Parse(fmt.Sprintf("%s://%s:%d%s", u.Scheme, u.Host, u.Port, joined))
}

// Response is the decoded result of a request.
type Response struct {
	Headers map[string]string
	Body    []byte
}

// Client performs requests per spec §6: persistent connections (via
// net/http's transport pooling), a max-age response cache and a
// SameSite=lax cookie jar.
type Client struct {
	http *http.Client
	jar  *cookiejar.Jar

	mu    sync.Mutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	resp    Response
	maxAge  int
	storedAt time.Time
}

func NewClient() *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		http:  &http.Client{Jar: jar, Timeout: 30 * time.Second},
		jar:   jar,
		cache: map[string]cacheEntry{},
	}
}

// Request performs a GET (or POST, if payload is non-nil) following the
// semantics of network.py's URL.request: cache lookup, SameSite=lax
// cookie gating against referrer, 3xx follow, max-age caching of the
// final response.
func (c *Client) Request(u URL, referrer *URL, payload []byte) (Response, error) {
	switch u.Scheme {
	case "file":
		data, err := os.ReadFile(u.Path)
		if err != nil {
			return Response{}, err
		}
		return Response{Headers: map[string]string{}, Body: data}, nil
	case "data":
		return Response{Headers: map[string]string{}, Body: []byte(u.DataContent)}, nil
	case "about":
		return Response{Headers: map[string]string{}, Body: []byte("<html><body></body></html>")}, nil
	}

	key := u.String()
	c.mu.Lock()
	if e, ok := c.cache[key]; ok && time.Since(e.storedAt) < time.Duration(e.maxAge)*time.Second {
		c.mu.Unlock()
		return e.resp, nil
	}
	c.mu.Unlock()

	method := "GET"
	var body io.Reader
	if payload != nil {
		method = "POST"
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, u.String(), body)
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("User-Agent", "ember-browser/1.0")

	client := c.http
	if referrer != nil && method != "GET" && referrer.Host != u.Host {
		// SameSite=lax (network.py's explicit check; net/http's cookiejar
		// has no SameSite concept of its own): use a jarless client for
		// this one request so no cookie is attached.
		client = &http.Client{Timeout: c.http.Timeout}
	}

	resp, err := client.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	headers := map[string]string{}
	for k, v := range resp.Header {
		if len(v) > 0 {
			headers[strings.ToLower(k)] = v[0]
		}
	}
	out := Response{Headers: headers, Body: data}

	if maxAge := getMaxAge(headers); maxAge > 0 {
		c.mu.Lock()
		c.cache[key] = cacheEntry{resp: out, maxAge: maxAge, storedAt: time.Now()}
		c.mu.Unlock()
	}
	return out, nil
}

func getMaxAge(headers map[string]string) int {
	cc, ok := headers["cache-control"]
	if !ok {
		return 0
	}
	for _, part := range strings.Split(cc, ",") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "max-age=") {
			v, err := strconv.Atoi(strings.TrimPrefix(part, "max-age="))
			if err == nil {
				return v
			}
		}
	}
	return 0
}

// EncodeForm URL-encodes name=value pairs for a POST submission (spec
// C.3).
func EncodeForm(pairs [][2]string) []byte {
	vals := url.Values{}
	for _, kv := range pairs {
		vals.Set(kv[0], kv[1])
	}
	return []byte(vals.Encode())
}

// DataURL builds a data: URL string, used nowhere in production code but
// kept for symmetry with network.py's content-embedding path and for
// tests that need an inert inline document.
func DataURL(mime string, content []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(content)
}
