package tools

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codalotl/fileedit/internal/textfile"
)

//go:embed view_file.md
var descriptionViewFile string

const ToolNameViewFile = "view_file"

type toolViewFile struct {
	sandboxAbsDir string
}

type ParamsViewFile struct {
	Path string `json:"path"`
	rangeParams
	Encoding string `json:"encoding"`
}

func NewViewFileTool(sandboxAbsDir string) Tool {
	return &toolViewFile{sandboxAbsDir: sandboxAbsDir}
}

func (t *toolViewFile) Name() string {
	return ToolNameViewFile
}

func (t *toolViewFile) Info() ToolInfo {
	params := map[string]any{
		"path": map[string]any{
			"type":        "string",
			"description": "The path of the file to view (absolute, or relative to **sandbox** dir)",
		},
		"encoding": encodingParameterDoc,
	}
	for k, v := range rangeParameterDocs {
		params[k] = v
	}
	return ToolInfo{
		Name:        ToolNameViewFile,
		Description: strings.TrimSpace(descriptionViewFile),
		Parameters:  params,
		Required:    []string{"path"},
	}
}

func (t *toolViewFile) Run(ctx context.Context, call ToolCall) ToolResult {
	logCall(call)

	var params ParamsViewFile
	if err := json.Unmarshal([]byte(call.Input), &params); err != nil {
		return newToolErrorResult(call, fmt.Sprintf("error parsing parameters: %s", err), err)
	}

	absPath, err := resolvePath(params.Path, t.sandboxAbsDir)
	if err != nil {
		return newToolErrorResult(call, err.Error(), err)
	}

	res, err := textfile.Show(absPath, textfile.ShowOptions{
		Range:    params.lineRange(),
		Encoding: params.Encoding,
	})
	if err != nil {
		return newToolErrorResult(call, err.Error(), err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<lines path=%q line-count=%q encoding=%q>\n", params.Path, fmt.Sprint(res.LineCount), res.Metadata.Encoding)
	b.WriteString(renderDisplayLines(res.Lines))
	b.WriteString("</lines>")
	for _, n := range res.Notices {
		fmt.Fprintf(&b, "\nNote: %s", n)
	}

	return ToolResult{CallID: call.CallID, Name: call.Name, Result: b.String()}
}
