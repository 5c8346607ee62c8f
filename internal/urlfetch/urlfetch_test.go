package urlfetch

import "testing"

func TestParseHTTPURL(t *testing.T) {
	u := Parse("http://example.com/path")
	if u.Scheme != "http" || u.Host != "example.com" || u.Port != 80 || u.Path != "/path" {
		t.Fatalf("unexpected parse: %+v", u)
	}
}

func TestParseHTTPSDefaultPort(t *testing.T) {
	u := Parse("https://example.com")
	if u.Port != 443 {
		t.Fatalf("https default port = %d, want 443", u.Port)
	}
}

func TestParseExplicitPort(t *testing.T) {
	u := Parse("http://example.com:8080/x")
	if u.Port != 8080 {
		t.Fatalf("port = %d, want 8080", u.Port)
	}
}

func TestParseMalformedFallsBackToHomePage(t *testing.T) {
	u := Parse("not a url at all")
	if u.String() != HomePage {
		t.Fatalf("malformed URL should fall back to %q, got %q", HomePage, u.String())
	}
}

func TestParseDataURL(t *testing.T) {
	u := Parse("data:text/html,<p>hi</p>")
	if u.Scheme != "data" || u.DataMime != "text/html" || u.DataContent != "<p>hi</p>" {
		t.Fatalf("unexpected parse: %+v", u)
	}
}

func TestOriginIgnoresPath(t *testing.T) {
	a := Parse("http://example.com/a")
	b := Parse("http://example.com/b")
	if a.Origin() != b.Origin() {
		t.Fatalf("same-origin URLs with different paths must share an origin: %q vs %q", a.Origin(), b.Origin())
	}
	c := Parse("http://other.com/a")
	if a.Origin() == c.Origin() {
		t.Fatal("different hosts must not share an origin")
	}
}

func TestResolveRelativePath(t *testing.T) {
	base := Parse("http://example.com/dir/page.html")
	resolved := base.Resolve("other.html")
	if resolved.String() != "http://example.com/dir/other.html" {
		t.Fatalf("resolved = %q", resolved.String())
	}
}

func TestResolveAbsolutePath(t *testing.T) {
	base := Parse("http://example.com/dir/page.html")
	resolved := base.Resolve("/top.html")
	if resolved.String() != "http://example.com/top.html" {
		t.Fatalf("resolved = %q", resolved.String())
	}
}

func TestResolveSchemeRelative(t *testing.T) {
	base := Parse("https://example.com/dir/page.html")
	resolved := base.Resolve("//other.com/x")
	if resolved.Host != "other.com" || resolved.Scheme != "https" {
		t.Fatalf("resolved = %+v", resolved)
	}
}

func TestEncodeFormURLEncodesPairs(t *testing.T) {
	body := EncodeForm([][2]string{{"name", "a b"}, {"email", "a@b.com"}})
	got := string(body)
	// url.Values.Encode sorts by key.
	if got != "email=a%40b.com&name=a+b" {
		t.Fatalf("unexpected encoded form: %q", got)
	}
}

func TestDataURLRoundTrip(t *testing.T) {
	s := DataURL("text/plain", []byte("hello"))
	u := Parse(s)
	if u.Scheme != "data" || u.DataContent == "" {
		t.Fatalf("unexpected parse of generated data URL: %+v", u)
	}
}
