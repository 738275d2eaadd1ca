package assistant

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/angelmondragon/supplynet-dashboard/pkg/enums"
	pkgerrors "github.com/angelmondragon/supplynet-dashboard/pkg/errors"
	"github.com/angelmondragon/supplynet-dashboard/pkg/logger"
	"github.com/angelmondragon/supplynet-dashboard/pkg/metrics"
)

// State is the lifecycle position of a session.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateOpen       State = "open"
	StateStreaming  State = "streaming"
	StateClosed     State = "closed"
	StateErrored    State = "errored"
)

const defaultMaxIterations = 15

// Log messages emitted by the session itself.
const (
	MsgConnected     = "Connected to AI assistant"
	MsgDisconnected  = "Disconnected from AI assistant"
	MsgConnError     = "Connection error with AI assistant"
	MsgConnectFailed = "Failed to connect to AI assistant"
	MsgStarted       = "AI order analysis started..."
	MsgStartFailed   = "Failed to start AI analysis"
	MsgStoppedByUser = "AI analysis stopped by user"
)

const (
	transportPhaseDial  = "dial"
	transportPhaseRead  = "read"
	transportPhaseWrite = "write"
)

// ErrTornDown is returned by Open after Teardown.
var ErrTornDown = errors.New("assistant session torn down")

// Params configure a session.
type Params struct {
	ViewID        string
	URL           string
	Dialer        Dialer
	MaxIterations int
	Logger        *logger.Logger
	Metrics       *metrics.AssistantMetrics
}

// Session drives one streaming conversation with the assistant for a detail view.
// Every transition holds mu, so handlers never interleave.
type Session struct {
	mu sync.Mutex

	url           string
	dialer        Dialer
	maxIterations int
	logg          *logger.Logger
	metrics       *metrics.AssistantMetrics
	log           *UpdateLog
	logCtx        context.Context

	state      State
	transport  Transport
	gen        uint64
	sessionID  string
	active     bool
	submitting bool
	tornDown   bool
	readers    sync.WaitGroup
}

// NewSession builds an idle session.
func NewSession(params Params) (*Session, error) {
	if params.Dialer == nil {
		return nil, fmt.Errorf("dialer required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.URL == "" {
		return nil, fmt.Errorf("stream url required")
	}
	maxIter := params.MaxIterations
	if maxIter <= 0 {
		maxIter = defaultMaxIterations
	}
	return &Session{
		url:           params.URL,
		dialer:        params.Dialer,
		maxIterations: maxIter,
		logg:          params.Logger,
		metrics:       params.Metrics,
		log:           NewUpdateLog(),
		logCtx:        params.Logger.WithViewID(params.Logger.WithComponent(context.Background(), "assistant.session"), params.ViewID),
		state:         StateIdle,
	}, nil
}

// Log exposes the session's update log.
func (s *Session) Log() *UpdateLog {
	return s.log
}

// Open connects the transport. It is a no-op while a transport is held or a
// dial is in flight.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	if s.tornDown {
		s.mu.Unlock()
		return ErrTornDown
	}
	s.active = true
	if s.transport != nil || s.state == StateConnecting {
		s.mu.Unlock()
		return nil
	}
	s.state = StateConnecting
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	t, err := s.dialer.Dial(ctx, s.url)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		// closed while dialing
		if t != nil {
			_ = t.Close()
		}
		return nil
	}
	if err != nil {
		s.state = StateErrored
		s.submitting = false
		s.metrics.IncTransportError(transportPhaseDial)
		s.log.Append(enums.LiveUpdateError, MsgConnectFailed, nil)
		s.logg.Error(ctx, "assistant dial failed", err)
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "connect to assistant")
	}

	s.transport = t
	s.state = StateOpen
	s.metrics.SessionOpened()
	s.log.Append(enums.LiveUpdateInfo, MsgConnected, nil)
	s.readers.Add(1)
	go s.readLoop(t, gen)
	return nil
}

// StartAnalysis clears the log and sends the start request.
func (s *Session) StartAnalysis(ctx context.Context, prompt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.transport == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "assistant is not connected")
	}
	if s.submitting {
		return pkgerrors.New(pkgerrors.CodeConflict, "an analysis is already running")
	}

	s.log.Reset()
	s.submitting = true
	frame := StartFrame{Action: ActionStart, Request: prompt, MaxIterations: s.maxIterations}
	if err := s.transport.WriteJSON(frame); err != nil {
		s.submitting = false
		s.metrics.IncTransportError(transportPhaseWrite)
		s.log.Append(enums.LiveUpdateError, MsgStartFailed, nil)
		s.logg.Error(ctx, "failed to send start frame", err)
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, "start analysis")
	}
	s.state = StateStreaming
	s.log.Append(enums.LiveUpdateInfo, MsgStarted, nil)
	return nil
}

// Stop asks the assistant to stop without waiting for confirmation. The
// transport stays up so another analysis can be started. Stop is a no-op
// when no analysis is running.
func (s *Session) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.submitting && s.state != StateStreaming {
		return
	}
	if s.transport != nil {
		if err := s.transport.WriteJSON(StopFrame{Action: ActionStop}); err != nil {
			s.metrics.IncTransportError(transportPhaseWrite)
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "failed to send stop frame")
		}
		s.state = StateClosed
	}
	s.submitting = false
	s.log.Append(enums.LiveUpdateInfo, MsgStoppedByUser, nil)
}

// Close releases the transport and the session id. The log is kept.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

// Teardown closes the session for good and ends log subscriptions.
func (s *Session) Teardown() {
	s.mu.Lock()
	s.closeLocked()
	s.tornDown = true
	s.mu.Unlock()
	s.log.Close()
}

// Wait blocks until the read loop has exited.
func (s *Session) Wait() {
	s.readers.Wait()
}

func (s *Session) closeLocked() {
	s.gen++
	s.active = false
	s.submitting = false
	s.sessionID = ""
	if s.releaseLocked() {
		s.log.Append(enums.LiveUpdateInfo, MsgDisconnected, nil)
	}
	if s.state != StateIdle {
		s.state = StateClosed
	}
}

// releaseLocked closes the held transport, if any. A transport is only ever
// reachable from s.transport, so it is closed exactly once.
func (s *Session) releaseLocked() bool {
	if s.transport == nil {
		return false
	}
	t := s.transport
	s.transport = nil
	if err := t.Close(); err != nil {
		s.logg.Warn(s.logg.WithField(s.logCtx, "error", err.Error()), "assistant transport close failed")
	}
	s.metrics.SessionReleased()
	return true
}

func (s *Session) readLoop(t Transport, gen uint64) {
	defer s.readers.Done()
	for {
		data, err := t.ReadMessage()
		if err != nil {
			s.handleReadError(gen, err)
			return
		}
		if !s.handleFrame(gen, data) {
			return
		}
	}
}

func (s *Session) handleFrame(gen uint64, data []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	frame, err := DecodeFrame(data)
	if err != nil {
		s.logg.Warn(s.logg.WithField(s.logCtx, "error", err.Error()), "dropping malformed assistant frame")
		return true
	}
	s.metrics.IncFrame(frame.Type)

	outcome, ok := Classify(frame)
	if !ok {
		return true
	}
	if frame.Type == FrameConnection {
		s.sessionID = outcome.BindSession
		s.logg.Info(s.logg.WithSessionID(s.logCtx, s.sessionID), "assistant session established")
	}
	if outcome.Finished {
		s.submitting = false
		if s.state == StateStreaming {
			s.state = StateOpen
		}
	}
	s.log.Append(outcome.Kind, outcome.Message, outcome.Details)
	return true
}

func (s *Session) handleReadError(gen uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.gen++
	s.submitting = false
	s.sessionID = ""
	s.releaseLocked()
	if IsCleanClose(err) {
		s.state = StateIdle
		s.log.Append(enums.LiveUpdateInfo, MsgDisconnected, nil)
		return
	}
	s.state = StateErrored
	s.metrics.IncTransportError(transportPhaseRead)
	s.log.Append(enums.LiveUpdateError, MsgConnError, nil)
	s.logg.Error(s.logCtx, "assistant transport failed", err)
}

// Snapshot is the serialisable state of a session.
type Snapshot struct {
	State      State   `json:"state"`
	SessionID  string  `json:"session_id,omitempty"`
	Active     bool    `json:"active"`
	Submitting bool    `json:"submitting"`
	Connected  bool    `json:"connected"`
	Entries    []Entry `json:"entries"`
}

// Snapshot copies the session state and log.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:      s.state,
		SessionID:  s.sessionID,
		Active:     s.active,
		Submitting: s.submitting,
		Connected:  s.transport != nil,
		Entries:    s.log.Entries(),
	}
}

// Live reports whether a transport is currently held.
func (s *Session) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transport != nil
}
