package tools

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/codalotl/fileedit/internal/textfile"
)

//go:embed find_replace.md
var descriptionFindReplace string

const ToolNameFindReplace = "find_replace"

type toolFindReplace struct {
	sandboxAbsDir string
}

type ParamsFindReplace struct {
	Path string `json:"path"`
	matchParams
	Replacement string `json:"replacement"`
	rangeParams
	Encoding string `json:"encoding"`
	Backup   *bool  `json:"backup"`
}

func NewFindReplaceTool(sandboxAbsDir string) Tool {
	return &toolFindReplace{sandboxAbsDir: sandboxAbsDir}
}

func (t *toolFindReplace) Name() string {
	return ToolNameFindReplace
}

func (t *toolFindReplace) Info() ToolInfo {
	params := map[string]any{
		"path": map[string]any{
			"type":        "string",
			"description": "The path of the file to edit (absolute, or relative to **sandbox** dir)",
		},
		"replacement": map[string]any{
			"type":        "string",
			"description": "Text every occurrence is replaced with, inserted literally. Empty deletes the matched text",
		},
		"encoding": encodingParameterDoc,
		"backup":   backupParameterDoc,
	}
	for k, v := range matchParameterDocs {
		params[k] = v
	}
	for k, v := range rangeParameterDocs {
		params[k] = v
	}
	return ToolInfo{
		Name:        ToolNameFindReplace,
		Description: strings.TrimSpace(descriptionFindReplace),
		Parameters:  params,
		Required:    []string{"path", "replacement"},
	}
}

func (t *toolFindReplace) Run(ctx context.Context, call ToolCall) ToolResult {
	logCall(call)

	var params ParamsFindReplace
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

	res, err := textfile.FindAndReplace(absPath, textfile.FindReplaceOptions{
		Match:       spec,
		Replacement: params.Replacement,
		Range:       params.lineRange(),
		Encoding:    params.Encoding,
		Backup:      backupEnabled(params.Backup),
	})
	if err != nil {
		return newToolErrorResult(call, err.Error(), err)
	}

	return ToolResult{CallID: call.CallID, Name: call.Name, Result: renderEditResult(res)}
}
