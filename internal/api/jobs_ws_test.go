package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestJobWatchStreamsUntilTerminal(t *testing.T) {
	s := newTestServer(t)
	s.Jobs.Start()
	defer s.Jobs.Stop()

	release := make(chan struct{})
	id, err := s.Jobs.Submit(func(ctx context.Context) (any, error) {
		<-release
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	ts := httptest.NewServer(http.HandlerFunc(s.JobWatchHandler))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/v1/jobs/" + id + "/watch"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// first frame is the current snapshot
	var first JobEvent
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if first.JobID != id {
		t.Fatalf("snapshot job = %q, want %q", first.JobID, id)
	}

	close(release)

	deadline := time.Now().Add(5 * time.Second)
	for {
		if time.Now().After(deadline) {
			t.Fatal("never saw a terminal event")
		}
		var evt JobEvent
		_ = conn.SetReadDeadline(deadline)
		if err := conn.ReadJSON(&evt); err != nil {
			t.Fatalf("read event: %v", err)
		}
		if evt.Status == "SUCCEEDED" {
			return
		}
		if evt.Status == "FAILED" {
			t.Fatalf("job failed: %s", evt.Error)
		}
	}
}

func TestJobWatchUnknownJob(t *testing.T) {
	s := newTestServer(t)
	rr := httptest.NewRecorder()
	s.JobWatchHandler(rr, httptest.NewRequest(http.MethodGet, "/v1/jobs/nope/watch", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("got %d, want 404", rr.Code)
	}
}
