package handlers

import (
	"bytes"
	"net/http"
	"testing"

	"controlling_led/internal/models"
	"controlling_led/web"
)

func TestStaticAssets(t *testing.T) {
	r := newTestRouter(newMockServices(newMockLed(models.Off), nil))

	cases := []struct {
		path     string
		wantType string
		wantBody []byte
	}{
		{"/", "text/html; charset=utf-8", web.IndexHTML},
		{"/index.html", "text/html; charset=utf-8", web.IndexHTML},
		{"/websocket.js", "text/javascript; charset=utf-8", web.WebsocketJS},
	}

	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			w := doRequest(r, http.MethodGet, tc.path, "", "")
			if w.Code != http.StatusOK {
				t.Fatalf("status=%d", w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != tc.wantType {
				t.Fatalf("content type %q, want %q", ct, tc.wantType)
			}
			if !bytes.Equal(w.Body.Bytes(), tc.wantBody) {
				t.Fatalf("body differs from embedded asset")
			}
			if len(tc.wantBody) == 0 {
				t.Fatalf("embedded asset is empty")
			}
		})
	}
}
