// Package tools exposes the engine as named tool calls for an LLM
// assistant: a registry of self-describing tools with typed argument
// parsing and human-readable text responses.
package tools

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mailpilot/inbox"
)

// ParameterSpec describes one tool argument for schema generation.
type ParameterSpec struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Enum        []string `json:"enum,omitempty"`
	Default     any      `json:"default,omitempty"`
	Required    bool     `json:"required,omitempty"`
}

// Result is a tool response: human-readable text plus a success flag.
type Result struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
}

// Tool is one callable operation. Execute receives loosely-typed
// arguments from the protocol layer and must validate them into typed
// values before touching the engine.
type Tool interface {
	Name() string
	Description() string
	Parameters() []ParameterSpec
	Execute(ctx context.Context, args map[string]any) (*Result, error)
}

// Registry holds all registered tools in registration order.
type Registry struct {
	tools map[string]Tool
	order []string
	log   *zap.Logger
}

// NewRegistry builds the full tool set over the engine.
func NewRegistry(svc *inbox.Service, log *zap.Logger) *Registry {
	r := &Registry{tools: map[string]Tool{}, log: log}
	r.register(
		&searchTool{svc: svc},
		&listUnreadTool{svc: svc},
		&getEmailTool{svc: svc},
		&dailySummaryTool{svc: svc},
		&categorySummaryTool{svc: svc},
		&inboxStatsTool{svc: svc},
		&listLabelsTool{svc: svc},
		&createLabelTool{svc: svc},
		&deleteLabelTool{svc: svc},
		&renameLabelTool{svc: svc},
		&modifyLabelsTool{svc: svc, add: true},
		&modifyLabelsTool{svc: svc, add: false},
		&getCategoriesTool{svc: svc},
		&markReadByIDsTool{svc: svc},
		&markReadByQueryTool{svc: svc},
		&sendEmailTool{svc: svc},
	)
	return r
}

func (r *Registry) register(tools ...Tool) {
	for _, t := range tools {
		r.tools[t.Name()] = t
		r.order = append(r.order, t.Name())
	}
}

// List returns all tools in registration order.
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Call dispatches one tool invocation. Unknown tools and tool errors are
// rendered as unsuccessful results rather than transport failures, since
// the caller is an assistant that needs text it can relay.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) *Result {
	tool, ok := r.tools[name]
	if !ok {
		return &Result{Text: fmt.Sprintf("Unknown tool: %s", name)}
	}
	res, err := tool.Execute(ctx, args)
	if err != nil {
		r.log.Error("tool call failed", zap.String("tool", name), zap.Error(err))
		return &Result{Text: fmt.Sprintf("Error: %v", err)}
	}
	return res
}

func errorResult(format string, args ...any) *Result {
	return &Result{Text: fmt.Sprintf("Error: "+format, args...)}
}

func successResult(text string) *Result {
	return &Result{Success: true, Text: text}
}

func stringArg(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func intArg(args map[string]any, key string, fallback int64) int64 {
	switch v := args[key].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	}
	return fallback
}

func boolArg(args map[string]any, key string, fallback bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return fallback
}

// csvArg splits a comma-separated string argument, trimming whitespace
// and dropping empty entries.
func csvArg(args map[string]any, key string) []string {
	raw, _ := args[key].(string)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
