// Package sanitize strips agent runtime trace text from model responses.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	// A tool-invocation trace starts on a "Running:" line and runs through
	// the next blank line.
	toolTrace = regexp.MustCompile(`(?m)^Running:[\s\S]*?\n\n`)

	// Delegation calls surface as transfer_task_to_<agent>(...) lines.
	transferCall = regexp.MustCompile(`(?m)^transfer_task_to_\w*.*(\n|$)`)
)

// Response removes tool traces and task-transfer lines from raw and trims
// surrounding whitespace. Stripping repeats until the text stops changing,
// so Response(Response(x)) == Response(x).
func Response(raw string) string {
	out := strings.TrimSpace(raw)
	for {
		next := toolTrace.ReplaceAllString(out, "")
		next = transferCall.ReplaceAllString(next, "")
		next = strings.TrimSpace(next)
		if next == out {
			return out
		}
		out = next
	}
}
