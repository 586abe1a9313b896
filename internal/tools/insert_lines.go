package tools

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codalotl/fileedit/internal/textfile"
)

//go:embed insert_lines.md
var descriptionInsertLines string

const ToolNameInsertLines = "insert_lines"

type toolInsertLines struct {
	sandboxAbsDir string
}

type ParamsInsertLines struct {
	Path     string `json:"path"`
	AtLine   int    `json:"at_line"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	Backup   *bool  `json:"backup"`
}

func NewInsertLinesTool(sandboxAbsDir string) Tool {
	return &toolInsertLines{sandboxAbsDir: sandboxAbsDir}
}

func (t *toolInsertLines) Name() string {
	return ToolNameInsertLines
}

func (t *toolInsertLines) Info() ToolInfo {
	return ToolInfo{
		Name:        ToolNameInsertLines,
		Description: strings.TrimSpace(descriptionInsertLines),
		Parameters: map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "The path of the file to edit (absolute, or relative to **sandbox** dir). Created if missing",
			},
			"at_line": map[string]any{
				"type":        "integer",
				"description": "Line number the inserted content starts at (1-based). 0 appends after the last line",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "Lines to insert, separated by \\n",
			},
			"encoding": encodingParameterDoc,
			"backup":   backupParameterDoc,
		},
		Required: []string{"path", "at_line", "content"},
	}
}

func (t *toolInsertLines) Run(ctx context.Context, call ToolCall) ToolResult {
	logCall(call)

	var params ParamsInsertLines
	if err := json.Unmarshal([]byte(call.Input), &params); err != nil {
		return newToolErrorResult(call, fmt.Sprintf("error parsing parameters: %s", err), err)
	}

	absPath, err := resolvePath(params.Path, t.sandboxAbsDir)
	if err != nil {
		return newToolErrorResult(call, err.Error(), err)
	}

	res, err := textfile.InsertLines(absPath, textfile.InsertOptions{
		AtLine:   params.AtLine,
		Content:  contentLines(params.Content),
		Encoding: params.Encoding,
		Backup:   backupEnabled(params.Backup),
	})
	if err != nil {
		return newToolErrorResult(call, err.Error(), err)
	}

	return ToolResult{CallID: call.CallID, Name: call.Name, Result: renderEditResult(res)}
}
