// Package tools exposes the textfile engine operations as LLM-callable tools:
// JSON-parameterized functions with embedded descriptions. The host that
// streams these tools to a model is an external collaborator; this package
// defines only the interface contract and the tool implementations.
package tools

import "context"

// ToolInfo describes a tool exposed to the LLM.
type ToolInfo struct {
	Name        string
	Description string

	// Parameters is the named arguments of the top-level object parameter.
	// Example: {"path": {"type": "string", "description": "..."}}
	Parameters map[string]any

	// Required is the keys of Parameters that are required.
	Required []string
}

// ToolCall is one invocation request. Input is the JSON-serialized params.
type ToolCall struct {
	CallID string `json:"call_id"`
	Name   string `json:"name"`
	Input  string `json:"input"`
}

// ToolResult is the result of a ToolCall. CallID/Name should match the call.
type ToolResult struct {
	CallID string `json:"call_id"`
	Name   string `json:"name"`

	// Result is the payload for the LLM: rendered lines or an edit summary.
	Result string `json:"result"`

	IsError bool `json:"is_error"`

	// SourceErr optionally carries the underlying Go error for internal use;
	// it is never passed along to the LLM.
	SourceErr error `json:"-"`
}

type Tool interface {
	Info() ToolInfo
	Name() string

	// Run runs the tool. If the call fails in any way, result.IsError is true
	// and result.Result contains a message for the LLM.
	Run(ctx context.Context, call ToolCall) ToolResult
}

// NewErrorToolResult builds an error result for call.
func NewErrorToolResult(msg string, call ToolCall) ToolResult {
	return ToolResult{
		CallID:  call.CallID,
		Name:    call.Name,
		Result:  msg,
		IsError: true,
	}
}

// FileEditToolset returns the full set of file editing tools, with relative
// paths resolved against sandboxAbsDir.
func FileEditToolset(sandboxAbsDir string) []Tool {
	return []Tool{
		NewViewFileTool(sandboxAbsDir),
		NewSearchFileTool(sandboxAbsDir),
		NewInsertLinesTool(sandboxAbsDir),
		NewReplaceLinesTool(sandboxAbsDir),
		NewFindReplaceTool(sandboxAbsDir),
		NewRemoveLinesTool(sandboxAbsDir),
	}
}
