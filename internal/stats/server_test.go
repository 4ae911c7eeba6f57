package stats

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestHealthReportsLatestFrame(t *testing.T) {
	s := NewServer()
	s.Publish(16.6, 1.2, 3.4)

	rec := httptest.NewRecorder()
	s.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if body["ok"] != true {
		t.Fatalf("health body: %v", body)
	}
	if body["frame_id"].(float64) != 1 {
		t.Fatalf("frame_id: got %v, want 1", body["frame_id"])
	}
}

func TestBroadcastReachesSubscriber(t *testing.T) {
	s := NewServer()
	ts := httptest.NewServer(http.HandlerFunc(s.HandleFramesWS))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Subscription is registered inside the upgrade handler, which has run
	// by the time Dial returns.
	s.Publish(16.6, 1.2, 3.4)
	s.broadcast()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var frame Frame
	if err := json.Unmarshal(payload, &frame); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if frame.ID != 1 || frame.DeltaMS != 16.6 || frame.UpdateMS != 1.2 || frame.RenderMS != 3.4 {
		t.Fatalf("frame: got %+v", frame)
	}
}

func TestBroadcastWithoutFramesIsNoop(t *testing.T) {
	s := NewServer()
	// No Publish yet and no clients; must not panic.
	s.broadcast()
}
