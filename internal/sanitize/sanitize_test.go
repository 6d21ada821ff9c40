package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "tool trace block",
			raw:  "Running: tool_call\n\nHello world",
			want: "Hello world",
		},
		{
			name: "multi line trace",
			raw:  "Intro\nRunning:\n - get_stock_snapshot(symbol=TSLA)\n - web_search(query=TSLA news)\n\n| Date | Title |\n|---|---|",
			want: "Intro\n| Date | Title |\n|---|---|",
		},
		{
			name: "transfer call lines",
			raw:  "transfer_task_to_finance_ai_agent(task_description=...)\nSummary\ntransfer_task_to_web_search_agent()",
			want: "Summary",
		},
		{
			name: "running mid line is kept",
			raw:  "Status: Running: fine",
			want: "Status: Running: fine",
		},
		{
			name: "case sensitive",
			raw:  "running: lowercase\n\nbody",
			want: "running: lowercase\n\nbody",
		},
		{
			name: "unterminated trace leaks",
			raw:  "Body\nRunning: tool",
			want: "Body\nRunning: tool",
		},
		{
			name: "trims whitespace",
			raw:  "\n\n  answer  \n",
			want: "answer",
		},
		{
			name: "indented transfer exposed by trim",
			raw:  "   transfer_task_to_x()\nanswer",
			want: "answer",
		},
		{
			name: "empty",
			raw:  "",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Response(tt.raw))
		})
	}
}

func TestResponse_Idempotent(t *testing.T) {
	inputs := []string{
		"Running: tool_call\n\nHello world",
		"Run\nRunning: a\n\nning: b\n\nrest",
		"  \ntransfer_task_to_a\n  transfer_task_to_b\nok",
		"Running: x\n\nRunning: y\n\n",
		"a\n\n\nb",
		strings.Repeat("Running: t\n\ntransfer_task_to_z\n", 5) + "done",
		"plain text with no traces",
	}
	for _, in := range inputs {
		once := Response(in)
		assert.Equal(t, once, Response(once), "input %q", in)
	}
}
