package krokicli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tassert "github.com/stretchr/testify/assert"

	"oss.terrastruct.com/cmdlog"
	"oss.terrastruct.com/xos"

	"github.com/krokify/krokify/lib/xmain"
)

func testState(t *testing.T, args ...string) *xmain.State {
	t.Helper()
	ms := &xmain.State{
		Name: "krokify",

		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,

		Env: xos.NewEnv(os.Environ()),
	}
	ms.Log = cmdlog.NewTB(ms.Env, t)
	ms.Opts = xmain.NewOpts(ms.Env, ms.Log, args)
	return ms
}

func TestRun(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/mermaid/svg/") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write([]byte("<svg/>"))
	}))
	defer backend.Close()

	root := t.TempDir()
	index := filepath.Join(root, "index.html")
	err := os.WriteFile(index, []byte(`<html><body><div class="language-mermaid">graph TD; A--&gt;B;</div></body></html>`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	ms := testState(t, "--url", backend.URL, root)
	if err := Run(context.Background(), ms); err != nil {
		t.Fatal(err)
	}

	out, err := os.ReadFile(index)
	if err != nil {
		t.Fatal(err)
	}
	tassert.Contains(t, string(out), "<svg")
	tassert.NotContains(t, string(out), "language-mermaid")
}

func TestRunBadURL(t *testing.T) {
	root := t.TempDir()
	err := os.WriteFile(filepath.Join(root, "index.html"), []byte("<html></html>"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	ms := testState(t, "--url", "ftp://kroki.io", root)
	if err := Run(context.Background(), ms); err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestRunTooManyArgs(t *testing.T) {
	ms := testState(t, "a", "b")
	err := Run(context.Background(), ms)
	var uerr xmain.UsageError
	if !tassert.ErrorAs(t, err, &uerr) {
		t.FailNow()
	}
}
