package assistant

import (
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/supplynet-dashboard/pkg/enums"
)

// Outbound control actions.
const (
	ActionStart = "start_feedback_loop"
	ActionStop  = "stop_feedback_loop"
)

// Inbound frame types with dedicated handling.
const (
	FrameConnection     = "connection"
	FrameWorkflowStart  = "langgraph_workflow_start"
	FrameIterationStart = "iteration_start"
	FrameAnalysis       = "gemini_analysis"
	FrameToolStart      = "tool_execution_start"
	FrameToolResult     = "tool_execution_result"
	FrameComplete       = "feedback_loop_complete"
	FrameError          = "error"
)

// StartFrame asks the assistant to begin an analysis run.
type StartFrame struct {
	Action        string `json:"action"`
	Request       string `json:"request"`
	MaxIterations int    `json:"max_iterations"`
}

// StopFrame asks the assistant to abandon the current run.
type StopFrame struct {
	Action string `json:"action"`
}

// InboundFrame is any message received from the assistant. Only Type is required.
type InboundFrame struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Iteration any    `json:"iteration,omitempty"`
	ToolName  string `json:"tool_name,omitempty"`
	Arguments any    `json:"arguments,omitempty"`
	Success   bool   `json:"success,omitempty"`
	Result    any    `json:"result,omitempty"`
	Analysis  any    `json:"analysis,omitempty"`
	Summary   any    `json:"summary,omitempty"`
	Message   string `json:"message,omitempty"`
}

// wireFrame mirrors InboundFrame with the scalar fields left untyped so a
// field of the wrong JSON type never costs the whole frame.
type wireFrame struct {
	Type      any `json:"type"`
	SessionID any `json:"session_id"`
	Iteration any `json:"iteration"`
	ToolName  any `json:"tool_name"`
	Arguments any `json:"arguments"`
	Success   any `json:"success"`
	Result    any `json:"result"`
	Analysis  any `json:"analysis"`
	Summary   any `json:"summary"`
	Message   any `json:"message"`
}

// DecodeFrame parses one inbound text message. Non-string text fields are
// rendered as JSON and success counts only when it is literally true.
func DecodeFrame(data []byte) (InboundFrame, error) {
	var w wireFrame
	if err := json.Unmarshal(data, &w); err != nil {
		return InboundFrame{}, fmt.Errorf("decode assistant frame: %w", err)
	}
	success, _ := w.Success.(bool)
	return InboundFrame{
		Type:      text(w.Type),
		SessionID: text(w.SessionID),
		Iteration: w.Iteration,
		ToolName:  text(w.ToolName),
		Arguments: w.Arguments,
		Success:   success,
		Result:    w.Result,
		Analysis:  w.Analysis,
		Summary:   w.Summary,
		Message:   text(w.Message),
	}, nil
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64, bool:
		return display(t)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}

// Outcome is what a frame does to the session.
type Outcome struct {
	Kind    enums.LiveUpdateKind
	Message string
	Details map[string]any

	// BindSession carries the session id announced by a connection frame.
	BindSession string
	// Finished marks frames that end the current run and clear submitting.
	Finished bool
}

type classifier func(InboundFrame) (Outcome, bool)

var classifiers = map[string]classifier{
	FrameConnection: func(f InboundFrame) (Outcome, bool) {
		return Outcome{
			Kind:        enums.LiveUpdateSuccess,
			Message:     fmt.Sprintf("Session established: %s...", shortID(f.SessionID)),
			BindSession: f.SessionID,
		}, true
	},
	FrameWorkflowStart: func(InboundFrame) (Outcome, bool) {
		return Outcome{Kind: enums.LiveUpdateInfo, Message: "AI workflow started - analyzing store conditions..."}, true
	},
	FrameIterationStart: func(f InboundFrame) (Outcome, bool) {
		return Outcome{Kind: enums.LiveUpdateInfo, Message: fmt.Sprintf("Processing step %s...", display(f.Iteration))}, true
	},
	FrameAnalysis: func(f InboundFrame) (Outcome, bool) {
		return Outcome{
			Kind:    enums.LiveUpdateAnalysis,
			Message: "AI Analysis Complete",
			Details: map[string]any{"analysis": f.Analysis},
		}, true
	},
	FrameToolStart: func(f InboundFrame) (Outcome, bool) {
		return Outcome{
			Kind:    enums.LiveUpdateInfo,
			Message: "Executing: " + f.ToolName,
			Details: map[string]any{"tool": f.ToolName, "tool_args": f.Arguments},
		}, true
	},
	FrameToolResult: func(f InboundFrame) (Outcome, bool) {
		out := Outcome{
			Kind:    enums.LiveUpdateSuccess,
			Message: f.ToolName + ": Success",
			Details: map[string]any{"result": f.Result},
		}
		if !f.Success {
			out.Kind = enums.LiveUpdateError
			out.Message = f.ToolName + ": Failed"
		}
		return out, true
	},
	FrameComplete: func(f InboundFrame) (Outcome, bool) {
		return Outcome{
			Kind:     enums.LiveUpdateSuccess,
			Message:  "AI order analysis complete!",
			Details:  map[string]any{"summary": f.Summary},
			Finished: true,
		}, true
	},
	FrameError: func(f InboundFrame) (Outcome, bool) {
		msg := f.Message
		if msg == "" {
			msg = "An error occurred"
		}
		return Outcome{Kind: enums.LiveUpdateError, Message: msg, Finished: true}, true
	},
}

// Classify maps a frame onto its log entry. Unknown frames without a message
// produce nothing.
func Classify(f InboundFrame) (Outcome, bool) {
	if fn, ok := classifiers[f.Type]; ok {
		return fn(f)
	}
	if f.Message == "" {
		return Outcome{}, false
	}
	return Outcome{Kind: enums.LiveUpdateInfo, Message: f.Message}, true
}

func shortID(id string) string {
	runes := []rune(id)
	if len(runes) > 8 {
		runes = runes[:8]
	}
	return string(runes)
}

func display(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case float64:
		if n == float64(int64(n)) {
			return fmt.Sprintf("%d", int64(n))
		}
	}
	return fmt.Sprintf("%v", v)
}
