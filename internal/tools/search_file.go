package tools

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codalotl/fileedit/internal/textfile"
)

//go:embed search_file.md
var descriptionSearchFile string

const ToolNameSearchFile = "search_file"

type toolSearchFile struct {
	sandboxAbsDir string
}

type ParamsSearchFile struct {
	Path string `json:"path"`
	matchParams
	rangeParams
	Context    int    `json:"context"`
	ExistsOnly bool   `json:"exists_only"`
	Encoding   string `json:"encoding"`
}

func NewSearchFileTool(sandboxAbsDir string) Tool {
	return &toolSearchFile{sandboxAbsDir: sandboxAbsDir}
}

func (t *toolSearchFile) Name() string {
	return ToolNameSearchFile
}

func (t *toolSearchFile) Info() ToolInfo {
	params := map[string]any{
		"path": map[string]any{
			"type":        "string",
			"description": "The path of the file to search (absolute, or relative to **sandbox** dir)",
		},
		"context": map[string]any{
			"type":        "integer",
			"description": "Lines of context to show around each match (0-2)",
		},
		"exists_only": map[string]any{
			"type":        "boolean",
			"description": "Report only whether the file contains a match, without rendering lines",
		},
		"encoding": encodingParameterDoc,
	}
	for k, v := range matchParameterDocs {
		params[k] = v
	}
	for k, v := range rangeParameterDocs {
		params[k] = v
	}
	return ToolInfo{
		Name:        ToolNameSearchFile,
		Description: strings.TrimSpace(descriptionSearchFile),
		Parameters:  params,
		Required:    []string{"path"},
	}
}

func (t *toolSearchFile) Run(ctx context.Context, call ToolCall) ToolResult {
	logCall(call)

	var params ParamsSearchFile
	if err := json.Unmarshal([]byte(call.Input), &params); err != nil {
		return newToolErrorResult(call, fmt.Sprintf("error parsing parameters: %s", err), err)
	}

	absPath, err := resolvePath(params.Path, t.sandboxAbsDir)
	if err != nil {
		return newToolErrorResult(call, err.Error(), err)
	}

	if !params.given() {
		return newToolErrorResult(call, "one of match or regex is required", nil)
	}
	spec, err := params.spec()
	if err != nil {
		return newToolErrorResult(call, err.Error(), err)
	}

	opts := textfile.ShowOptions{
		Range:    params.lineRange(),
		Match:    spec,
		Context:  params.Context,
		Encoding: params.Encoding,
	}

	if params.ExistsOnly {
		found, err := textfile.ContainsMatch(absPath, opts)
		if err != nil {
			return newToolErrorResult(call, err.Error(), err)
		}
		msg := "no match found"
		if found {
			msg = "match found"
		}
		return ToolResult{CallID: call.CallID, Name: call.Name, Result: msg}
	}

	res, err := textfile.Show(absPath, opts)
	if err != nil {
		return newToolErrorResult(call, err.Error(), err)
	}
	if len(res.Lines) == 0 {
		return ToolResult{CallID: call.CallID, Name: call.Name, Result: "no match found"}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<matches path=%q encoding=%q>\n", params.Path, res.Metadata.Encoding)
	b.WriteString(renderDisplayLines(res.Lines))
	b.WriteString("</matches>")
	for _, n := range res.Notices {
		fmt.Fprintf(&b, "\nNote: %s", n)
	}

	return ToolResult{CallID: call.CallID, Name: call.Name, Result: b.String()}
}
