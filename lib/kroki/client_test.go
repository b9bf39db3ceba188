package kroki

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tassert "github.com/stretchr/testify/assert"

	"github.com/krokify/krokify/lib/urlenc"
)

type roundTripFunc func(req *http.Request) *http.Response

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func testClient(t *testing.T, retries int, rt roundTripFunc) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL: DefaultBaseURL,
		Retries: retries,
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}
	c.httpClient.Transport = rt
	c.backoffInitial = time.Millisecond
	return c
}

func TestRender(t *testing.T) {
	t.Parallel()

	const source = "graph TD; A-->B;"
	token, err := urlenc.Encode(source)
	if err != nil {
		t.Fatal(err)
	}

	c := testClient(t, 3, func(req *http.Request) *http.Response {
		tassert.Equal(t, fmt.Sprintf("/mermaid/svg/%s", token), req.URL.Path)
		rec := httptest.NewRecorder()
		rec.Header().Set("Content-Type", "image/svg+xml")
		rec.WriteString("<svg/>")
		rec.WriteHeader(200)
		return rec.Result()
	})

	out, err := c.Render(context.Background(), "mermaid", source)
	if err != nil {
		t.Fatal(err)
	}
	tassert.Equal(t, "<svg/>", string(out))
}

func TestRenderContentTypeMismatch(t *testing.T) {
	t.Parallel()

	count := 0
	c := testClient(t, 3, func(req *http.Request) *http.Response {
		count++
		rec := httptest.NewRecorder()
		rec.Header().Set("Content-Type", "text/html")
		rec.WriteString("<html>error page</html>")
		rec.WriteHeader(200)
		return rec.Result()
	})

	_, err := c.Render(context.Background(), "mermaid", "graph TD; A-->B;")
	var cte *ContentTypeError
	if !errors.As(err, &cte) {
		t.Fatalf("expected ContentTypeError, got %v", err)
	}
	tassert.Equal(t, "image/svg+xml", cte.Expected)
	tassert.Equal(t, "text/html", cte.Received)
	// Wrong content type is a hard failure, not a retriable one.
	tassert.Equal(t, 1, count)
}

func TestRenderRetriesServerErrors(t *testing.T) {
	t.Parallel()

	count := 0
	c := testClient(t, 3, func(req *http.Request) *http.Response {
		count++
		rec := httptest.NewRecorder()
		if count < 3 {
			rec.WriteHeader(500)
			return rec.Result()
		}
		rec.Header().Set("Content-Type", "image/svg+xml")
		rec.WriteString("<svg/>")
		rec.WriteHeader(200)
		return rec.Result()
	})

	out, err := c.Render(context.Background(), "plantuml", "@startuml\n@enduml")
	if err != nil {
		t.Fatal(err)
	}
	tassert.Equal(t, "<svg/>", string(out))
	tassert.Equal(t, 3, count)
}

func TestRenderExhaustsRetries(t *testing.T) {
	t.Parallel()

	count := 0
	c := testClient(t, 2, func(req *http.Request) *http.Response {
		count++
		rec := httptest.NewRecorder()
		rec.WriteHeader(503)
		return rec.Result()
	})

	_, err := c.Render(context.Background(), "graphviz", "digraph G {}")
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	// 1 initial try + 2 retries.
	tassert.Equal(t, 3, count)
	tassert.Equal(t, 3, te.Attempts)
}

func TestRenderClientErrorNotRetried(t *testing.T) {
	t.Parallel()

	count := 0
	c := testClient(t, 3, func(req *http.Request) *http.Response {
		count++
		rec := httptest.NewRecorder()
		rec.WriteHeader(400)
		return rec.Result()
	})

	_, err := c.Render(context.Background(), "mermaid", "not a diagram")
	if err == nil {
		t.Fatal("expected error")
	}
	tassert.Equal(t, 1, count)
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "default", baseURL: DefaultBaseURL},
		{name: "self_hosted", baseURL: "http://kroki.internal:8000"},
		{name: "bad_scheme", baseURL: "ftp://kroki.io", wantErr: true},
		{name: "no_host", baseURL: "https://", wantErr: true},
		{name: "not_a_url", baseURL: "://kroki", wantErr: true},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewClient(Config{BaseURL: tc.baseURL, Retries: DefaultRetries})
			if tc.wantErr {
				var cerr *ConfigError
				if !errors.As(err, &cerr) {
					t.Fatalf("expected ConfigError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestSupportedLanguage(t *testing.T) {
	t.Parallel()

	for _, lang := range []string{"mermaid", "plantuml", "graphviz", "d2", "excalidraw"} {
		if !SupportedLanguage(lang) {
			t.Fatalf("%s should be supported", lang)
		}
	}
	if SupportedLanguage("fortran") {
		t.Fatal("fortran should not be supported")
	}
}
