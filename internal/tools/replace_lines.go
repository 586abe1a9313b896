package tools

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codalotl/fileedit/internal/textfile"
)

//go:embed replace_lines.md
var descriptionReplaceLines string

const ToolNameReplaceLines = "replace_lines"

type toolReplaceLines struct {
	sandboxAbsDir string
}

type ParamsReplaceLines struct {
	Path string `json:"path"`
	rangeParams
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	Backup   *bool  `json:"backup"`
}

func NewReplaceLinesTool(sandboxAbsDir string) Tool {
	return &toolReplaceLines{sandboxAbsDir: sandboxAbsDir}
}

func (t *toolReplaceLines) Name() string {
	return ToolNameReplaceLines
}

func (t *toolReplaceLines) Info() ToolInfo {
	params := map[string]any{
		"path": map[string]any{
			"type":        "string",
			"description": "The path of the file to edit (absolute, or relative to **sandbox** dir)",
		},
		"content": map[string]any{
			"type":        "string",
			"description": "Replacement lines, separated by \\n. Empty deletes the range",
		},
		"encoding": encodingParameterDoc,
		"backup":   backupParameterDoc,
	}
	for k, v := range rangeParameterDocs {
		params[k] = v
	}
	return ToolInfo{
		Name:        ToolNameReplaceLines,
		Description: strings.TrimSpace(descriptionReplaceLines),
		Parameters:  params,
		Required:    []string{"path", "first_line", "last_line"},
	}
}

func (t *toolReplaceLines) Run(ctx context.Context, call ToolCall) ToolResult {
	logCall(call)

	var params ParamsReplaceLines
	if err := json.Unmarshal([]byte(call.Input), &params); err != nil {
		return newToolErrorResult(call, fmt.Sprintf("error parsing parameters: %s", err), err)
	}

	absPath, err := resolvePath(params.Path, t.sandboxAbsDir)
	if err != nil {
		return newToolErrorResult(call, err.Error(), err)
	}

	res, err := textfile.ReplaceLines(absPath, textfile.ReplaceOptions{
		Range:    params.lineRange(),
		Content:  contentLines(params.Content),
		Encoding: params.Encoding,
		Backup:   backupEnabled(params.Backup),
	})
	if err != nil {
		return newToolErrorResult(call, err.Error(), err)
	}

	return ToolResult{CallID: call.CallID, Name: call.Name, Result: renderEditResult(res)}
}
