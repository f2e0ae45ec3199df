package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHandleSPA(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<div id=ruleta></div>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "assets"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "assets", "wheel.js"), []byte("spin()"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		path      string
		wantCode  int
		wantBody  string
		wantCache string
	}{
		{path: "/", wantCode: http.StatusOK, wantBody: "ruleta", wantCache: "no-cache"},
		{path: "/jugar", wantCode: http.StatusOK, wantBody: "ruleta", wantCache: "no-cache"},
		{path: "/assets/wheel.js", wantCode: http.StatusOK, wantBody: "spin()", wantCache: "public, max-age=31536000, immutable"},
		{path: "/api/nope", wantCode: http.StatusNotFound, wantBody: `"error"`},
	}

	h := handleSPA(dir)
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", rec.Body.String(), tt.wantBody)
			}
			if tt.wantCache != "" {
				if got := rec.Header().Get("Cache-Control"); got != tt.wantCache {
					t.Errorf("cache-control = %q, want %q", got, tt.wantCache)
				}
			}
		})
	}
}
