package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/supplynet-dashboard/pkg/enums"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		raw      string
		kind     enums.LiveUpdateKind
		message  string
		details  map[string]any
		finished bool
	}{
		{
			name:    "connection",
			raw:     `{"type":"connection","session_id":"abcdef123456"}`,
			kind:    enums.LiveUpdateSuccess,
			message: "Session established: abcdef12...",
		},
		{
			name:    "connection without id",
			raw:     `{"type":"connection"}`,
			kind:    enums.LiveUpdateSuccess,
			message: "Session established: ...",
		},
		{
			name:    "workflow start",
			raw:     `{"type":"langgraph_workflow_start"}`,
			kind:    enums.LiveUpdateInfo,
			message: "AI workflow started - analyzing store conditions...",
		},
		{
			name:    "iteration",
			raw:     `{"type":"iteration_start","iteration":3}`,
			kind:    enums.LiveUpdateInfo,
			message: "Processing step 3...",
		},
		{
			name:    "analysis",
			raw:     `{"type":"gemini_analysis","analysis":"order rice"}`,
			kind:    enums.LiveUpdateAnalysis,
			message: "AI Analysis Complete",
			details: map[string]any{"analysis": "order rice"},
		},
		{
			name:    "tool start",
			raw:     `{"type":"tool_execution_start","tool_name":"find_main_store","arguments":{"radius":5}}`,
			kind:    enums.LiveUpdateInfo,
			message: "Executing: find_main_store",
			details: map[string]any{"tool": "find_main_store", "tool_args": map[string]any{"radius": float64(5)}},
		},
		{
			name:    "tool success",
			raw:     `{"type":"tool_execution_result","tool_name":"create_order","success":true,"result":"ok"}`,
			kind:    enums.LiveUpdateSuccess,
			message: "create_order: Success",
			details: map[string]any{"result": "ok"},
		},
		{
			name:    "tool failure",
			raw:     `{"type":"tool_execution_result","tool_name":"create_order","success":false,"result":"denied"}`,
			kind:    enums.LiveUpdateError,
			message: "create_order: Failed",
			details: map[string]any{"result": "denied"},
		},
		{
			name:     "complete",
			raw:      `{"type":"feedback_loop_complete","summary":"2 orders"}`,
			kind:     enums.LiveUpdateSuccess,
			message:  "AI order analysis complete!",
			details:  map[string]any{"summary": "2 orders"},
			finished: true,
		},
		{
			name:     "error with message",
			raw:      `{"type":"error","message":"quota exceeded"}`,
			kind:     enums.LiveUpdateError,
			message:  "quota exceeded",
			finished: true,
		},
		{
			name:     "error without message",
			raw:      `{"type":"error"}`,
			kind:     enums.LiveUpdateError,
			message:  "An error occurred",
			finished: true,
		},
		{
			name:     "error with structured message",
			raw:      `{"type":"error","message":{"detail":"x"}}`,
			kind:     enums.LiveUpdateError,
			message:  `{"detail":"x"}`,
			finished: true,
		},
		{
			name:    "tool result with string success",
			raw:     `{"type":"tool_execution_result","tool_name":"x","success":"true"}`,
			kind:    enums.LiveUpdateError,
			message: "x: Failed",
			details: map[string]any{"result": nil},
		},
		{
			name:    "connection with numeric id",
			raw:     `{"type":"connection","session_id":1234567890123}`,
			kind:    enums.LiveUpdateSuccess,
			message: "Session established: 12345678...",
		},
		{
			name:    "unknown with message",
			raw:     `{"type":"heartbeat","message":"still thinking"}`,
			kind:    enums.LiveUpdateInfo,
			message: "still thinking",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			frame, err := DecodeFrame([]byte(tc.raw))
			require.NoError(t, err)
			out, ok := Classify(frame)
			require.True(t, ok)
			assert.Equal(t, tc.kind, out.Kind)
			assert.Equal(t, tc.message, out.Message)
			assert.Equal(t, tc.details, out.Details)
			assert.Equal(t, tc.finished, out.Finished)
		})
	}
}

func TestClassifyUnknownWithoutMessage(t *testing.T) {
	_, ok := Classify(InboundFrame{Type: "heartbeat"})
	assert.False(t, ok)
}

func TestConnectionBindsSession(t *testing.T) {
	out, ok := Classify(InboundFrame{Type: FrameConnection, SessionID: "0123456789"})
	require.True(t, ok)
	assert.Equal(t, "0123456789", out.BindSession)
}

func TestDecodeFrameRejectsGarbage(t *testing.T) {
	_, err := DecodeFrame([]byte("not json"))
	assert.Error(t, err)
}
