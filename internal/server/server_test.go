package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/happyhackingspace/werger"
)

const testTM = `le ||| the ||| -0.125
chien ||| dog ||| -0.25
`

const testLM = `\data\
ngram 1=5

\1-grams:
-1.0	<s>	-0.5
-1.0	the	-0.5
-1.0	dog	-0.5
-1.0	</s>
-2.0	<unk>
\end\
`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	tmPath := filepath.Join(dir, "tm.txt")
	lmPath := filepath.Join(dir, "lm.arpa")
	if err := os.WriteFile(tmPath, []byte(testTM), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(lmPath, []byte(testLM), 0644); err != nil {
		t.Fatal(err)
	}
	tr, err := werger.Load(tmPath, lmPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = tr.Close() })

	srv := httptest.NewServer(New(tr).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/translate"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestTranslateSocket(t *testing.T) {
	conn := dial(t, newTestServer(t))

	if err := conn.WriteMessage(websocket.TextMessage, []byte("Le chien")); err != nil {
		t.Fatal(err)
	}
	var got Response
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatal(err)
	}
	if got.Text != "the dog" {
		t.Errorf("Text = %q, want %q", got.Text, "the dog")
	}
	if got.Error != "" {
		t.Errorf("Error = %q, want empty", got.Error)
	}
	if got.Logprob >= 0 {
		t.Errorf("Logprob = %v, want negative", got.Logprob)
	}

	// Unknown words pass through untranslated.
	if err := conn.WriteMessage(websocket.TextMessage, []byte("xyzzy")); err != nil {
		t.Fatal(err)
	}
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatal(err)
	}
	if got.Text != "xyzzy" {
		t.Errorf("Text = %q, want %q", got.Text, "xyzzy")
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
}
