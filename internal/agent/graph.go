// Package agent composes the three-node analysis agent graph: a web-search
// specialist, a financial-data specialist and an integrator that delegates
// to both.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nlpodyssey/openai-agents-go/agents"
)

// Credential is an LLM API key. It never prints its value.
type Credential string

func (c Credential) Empty() bool { return strings.TrimSpace(string(c)) == "" }

func (c Credential) String() string {
	if c == "" {
		return ""
	}
	return "[redacted]"
}

func (c Credential) GoString() string { return `agent.Credential("` + c.String() + `")` }

// Role tags a node of the graph.
type Role int

const (
	RoleWebSearch Role = iota
	RoleFinancial
	RoleIntegrator
)

func (r Role) String() string {
	switch r {
	case RoleWebSearch:
		return "web_search"
	case RoleFinancial:
		return "financial"
	case RoleIntegrator:
		return "integrator"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// InstructionSet is an immutable ordered list of directives.
type InstructionSet struct {
	directives []string
}

// NewInstructionSet copies directives into a new set.
func NewInstructionSet(directives ...string) InstructionSet {
	return InstructionSet{directives: append([]string(nil), directives...)}
}

// Directives returns a copy of the directives.
func (s InstructionSet) Directives() []string {
	return append([]string(nil), s.directives...)
}

// Len returns the number of directives.
func (s InstructionSet) Len() int { return len(s.directives) }

// Text renders the directives as the system prompt handed to the model.
func (s InstructionSet) Text(role string) string {
	var b strings.Builder
	b.WriteString(role)
	b.WriteString("\n\nInstructions:\n")
	for _, d := range s.directives {
		b.WriteString("- ")
		b.WriteString(d)
		b.WriteByte('\n')
	}
	b.WriteString("- Use markdown to format your answers.")
	return b.String()
}

// Node is one configured agent.
type Node struct {
	Role         Role
	Name         string
	Model        string
	Instructions InstructionSet
	Agent        *agents.Agent
}

// Graph is the integrator plus its two delegation targets. The integrator
// references the specialists; it does not own them.
type Graph struct {
	Integrator *Node
	WebSearch  *Node
	Financial  *Node
}

// Leaves returns the specialist nodes.
func (g *Graph) Leaves() []*Node {
	return []*Node{g.WebSearch, g.Financial}
}

// Nodes returns all three nodes, integrator first.
func (g *Graph) Nodes() []*Node {
	return []*Node{g.Integrator, g.WebSearch, g.Financial}
}

// ErrEmptyResponse is returned when the integrator produced no text.
var ErrEmptyResponse = errors.New("agent returned an empty response")

// Query sends one instruction to the integrator and returns its raw text.
func (g *Graph) Query(ctx context.Context, prompt string) (string, error) {
	result, err := agents.Run(ctx, g.Integrator.Agent, prompt)
	if err != nil {
		return "", fmt.Errorf("run %s: %w", g.Integrator.Name, err)
	}
	if result == nil || result.FinalOutput == nil {
		return "", ErrEmptyResponse
	}
	return fmt.Sprint(result.FinalOutput), nil
}

// AnalysisPrompt is the instruction sent to the integrator for a ticker.
func AnalysisPrompt(ticker string) string {
	return fmt.Sprintf("Summarize the analyst recommendation and share the latest news for %s", ticker)
}
