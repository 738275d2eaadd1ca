package assistant

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAssistant answers a start frame with a short scripted run, then closes cleanly.
func fakeAssistant(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		_ = conn.WriteJSON(map[string]any{"type": "connection", "session_id": "feedbeefcafe"})

		var start StartFrame
		if err := conn.ReadJSON(&start); err != nil {
			return
		}
		if start.Action != ActionStart {
			_ = conn.WriteJSON(map[string]any{"type": "error", "message": "unexpected action"})
			return
		}
		_ = conn.WriteJSON(map[string]any{"type": "langgraph_workflow_start"})
		_ = conn.WriteJSON(map[string]any{"type": "feedback_loop_complete", "summary": start.Request})

		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "done")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		_, _, _ = conn.ReadMessage()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWebsocketRoundTrip(t *testing.T) {
	srv := fakeAssistant(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	s, err := NewSession(Params{
		URL:    url,
		Dialer: NewWSDialer(time.Second, time.Second),
		Logger: newDiscardLogger(),
	})
	require.NoError(t, err)
	defer func() {
		s.Teardown()
		s.Wait()
	}()

	require.NoError(t, s.Open(context.Background()))
	require.Eventually(t, func() bool { return s.Snapshot().SessionID != "" }, waitFor, tick)
	require.NoError(t, s.StartAnalysis(context.Background(), "restock"))

	require.Eventually(t, func() bool { return s.Snapshot().State == StateIdle }, 2*time.Second, tick)
	snap := s.Snapshot()
	assert.False(t, snap.Submitting)
	assert.Equal(t, []string{
		MsgStarted,
		"AI workflow started - analyzing store conditions...",
		"AI order analysis complete!",
		MsgDisconnected,
	}, messages(s))
	assert.Equal(t, map[string]any{"summary": "restock"}, snap.Entries[2].Details)
}

func TestWSDialerFailure(t *testing.T) {
	d := NewWSDialer(200*time.Millisecond, 0)
	_, err := d.Dial(context.Background(), "ws://127.0.0.1:1/none")
	assert.Error(t, err)
}
