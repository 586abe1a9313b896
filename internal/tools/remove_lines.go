package tools

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codalotl/fileedit/internal/textfile"
)

//go:embed remove_lines.md
var descriptionRemoveLines string

const ToolNameRemoveLines = "remove_lines"

type toolRemoveLines struct {
	sandboxAbsDir string
}

type ParamsRemoveLines struct {
	Path string `json:"path"`
	rangeParams
	matchParams
	Encoding string `json:"encoding"`
	Backup   *bool  `json:"backup"`
}

func NewRemoveLinesTool(sandboxAbsDir string) Tool {
	return &toolRemoveLines{sandboxAbsDir: sandboxAbsDir}
}

func (t *toolRemoveLines) Name() string {
	return ToolNameRemoveLines
}

func (t *toolRemoveLines) Info() ToolInfo {
	params := map[string]any{
		"path": map[string]any{
			"type":        "string",
			"description": "The path of the file to edit (absolute, or relative to **sandbox** dir)",
		},
		"encoding": encodingParameterDoc,
		"backup":   backupParameterDoc,
	}
	for k, v := range rangeParameterDocs {
		params[k] = v
	}
	for k, v := range matchParameterDocs {
		params[k] = v
	}
	return ToolInfo{
		Name:        ToolNameRemoveLines,
		Description: strings.TrimSpace(descriptionRemoveLines),
		Parameters:  params,
		Required:    []string{"path"},
	}
}

func (t *toolRemoveLines) Run(ctx context.Context, call ToolCall) ToolResult {
	logCall(call)

	var params ParamsRemoveLines
	if err := json.Unmarshal([]byte(call.Input), &params); err != nil {
		return newToolErrorResult(call, fmt.Sprintf("error parsing parameters: %s", err), err)
	}

	absPath, err := resolvePath(params.Path, t.sandboxAbsDir)
	if err != nil {
		return newToolErrorResult(call, err.Error(), err)
	}

	opts := textfile.RemoveOptions{
		Range:    params.lineRange(),
		Encoding: params.Encoding,
		Backup:   backupEnabled(params.Backup),
	}
	if params.given() {
		spec, err := params.spec()
		if err != nil {
			return newToolErrorResult(call, err.Error(), err)
		}
		opts.Match = spec
	}
	if !params.given() && params.lineRange() == (textfile.LineRange{}) {
		return newToolErrorResult(call, "a line range or a match pattern is required", nil)
	}

	res, err := textfile.RemoveLines(absPath, opts)
	if err != nil {
		return newToolErrorResult(call, err.Error(), err)
	}

	return ToolResult{CallID: call.CallID, Name: call.Name, Result: renderEditResult(res)}
}
