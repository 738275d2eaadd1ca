package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/angelmondragon/supplynet-dashboard/api/responses"
	"github.com/angelmondragon/supplynet-dashboard/internal/assistant"
	"github.com/angelmondragon/supplynet-dashboard/internal/views"
	pkgerrors "github.com/angelmondragon/supplynet-dashboard/pkg/errors"
	"github.com/angelmondragon/supplynet-dashboard/pkg/logger"
)

const (
	streamWriteWait  = 10 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = 54 * time.Second
)

func writeAssistant(w http.ResponseWriter, status int, view *views.View) {
	responses.WriteSuccessStatus(w, status, view.Assistant.Snapshot())
}

// AssistantOpen connects the view's assistant transport.
func AssistantOpen(reg *views.Registry, logg *logger.Logger) http.HandlerFunc {
	return withView(reg, logg, func(w http.ResponseWriter, r *http.Request, view *views.View) {
		if err := view.Assistant.Open(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeAssistant(w, http.StatusOK, view)
	})
}

// AssistantStart sends an analysis request built from the view's current store state.
func AssistantStart(reg *views.Registry, logg *logger.Logger) http.HandlerFunc {
	return withView(reg, logg, func(w http.ResponseWriter, r *http.Request, view *views.View) {
		if err := view.StartAnalysis(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		logg.Info(r.Context(), "assistant analysis started")
		writeAssistant(w, http.StatusAccepted, view)
	})
}

func AssistantStop(reg *views.Registry, logg *logger.Logger) http.HandlerFunc {
	return withView(reg, logg, func(w http.ResponseWriter, r *http.Request, view *views.View) {
		view.Assistant.Stop(r.Context())
		writeAssistant(w, http.StatusOK, view)
	})
}

func AssistantClose(reg *views.Registry, logg *logger.Logger) http.HandlerFunc {
	return withView(reg, logg, func(w http.ResponseWriter, r *http.Request, view *views.View) {
		view.Assistant.Close()
		writeAssistant(w, http.StatusOK, view)
	})
}

func AssistantSnapshot(reg *views.Registry, logg *logger.Logger) http.HandlerFunc {
	return withView(reg, logg, func(w http.ResponseWriter, r *http.Request, view *views.View) {
		writeAssistant(w, http.StatusOK, view)
	})
}

// AssistantStream upgrades to a websocket and pushes the update log: the
// backlog first, then every later event, until the client leaves or the view
// is unmounted. A reconnecting client passes ?since=<seq> to skip entries it
// already has. Inbound messages are ignored.
func AssistantStream(reg *views.Registry, origins []string, logg *logger.Logger) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(origins),
	}
	return withView(reg, logg, func(w http.ResponseWriter, r *http.Request, view *views.View) {
		since, err := sinceParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "assistant stream upgrade failed")
			return
		}
		defer conn.Close()

		backlog, events, cancel := view.Assistant.Log().Subscribe(since)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			conn.SetReadLimit(512)
			_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
			conn.SetPongHandler(func(string) error {
				return conn.SetReadDeadline(time.Now().Add(streamPongWait))
			})
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		write := func(v any) bool {
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			return conn.WriteJSON(v) == nil
		}

		for i := range backlog {
			if !write(assistant.Event{Entry: &backlog[i]}) {
				return
			}
		}

		ticker := time.NewTicker(streamPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					_ = conn.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseGoingAway, "view closed"),
						time.Now().Add(streamWriteWait))
					return
				}
				if !write(ev) {
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	})
}

// originChecker accepts same-origin requests and any configured origin.
// A "*" entry allows everything.
func originChecker(origins []string) func(*http.Request) bool {
	allowed := make(map[string]struct{}, len(origins))
	wildcard := false
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			wildcard = true
		}
		allowed[strings.ToLower(o)] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || wildcard {
			return true
		}
		if _, ok := allowed[strings.ToLower(origin)]; ok {
			return true
		}
		return strings.EqualFold(strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://"), r.Host)
	}
}

// sinceParam reads the optional ?since=<seq> resume point.
func sinceParam(r *http.Request) (uint64, error) {
	raw := r.URL.Query().Get("since")
	if raw == "" {
		return 0, nil
	}
	seq, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "since must be a non-negative integer")
	}
	return seq, nil
}
