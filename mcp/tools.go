package mcp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/lvillar/pdfreport"
	"github.com/lvillar/pdfreport/dataprovider"
	"github.com/lvillar/pdfreport/observability"
)

// RegisterDefaultTools adds the report tools to the server.
func RegisterDefaultTools(s *Server) {
	s.AddTool(buildReportTool(s.logger))
	s.AddTool(inspectTemplateTool())
}

// templateProperties are the input properties shared by the tools that
// read a template.
func templateProperties() map[string]interface{} {
	return map[string]interface{}{
		"template": map[string]interface{}{
			"description": "Report template: XML text, JSON text, or a JSON object with a single \"pdf\" key",
		},
		"templatePath": map[string]interface{}{
			"type":        "string",
			"description": "Path of a template file (.xml or .json), used when template is omitted",
		},
	}
}

func buildReportTool(log observability.Logger) Tool {
	props := templateProperties()
	props["sections"] = map[string]interface{}{
		"type":        "object",
		"description": "Rows per section id: {\"orders\": [{\"id\": 1, \"total\": 9.5}]}",
	}
	props["datalists"] = map[string]interface{}{
		"type":        "object",
		"description": "Rows per chart datalist id, in the same shape as sections",
	}
	props["variables"] = map[string]interface{}{
		"type":        "object",
		"description": "Variables resolved as {NAME} in the template",
	}
	props["baseDir"] = map[string]interface{}{
		"type":        "string",
		"description": "Directory for relative image, background and output paths",
	}
	props["outputPath"] = map[string]interface{}{
		"type":        "string",
		"description": "Optional file path to save the PDF. If omitted, returns base64.",
	}
	return Tool{
		Name:        "build_report",
		Description: "Build a PDF report from a template and JSON data sets bound to its sections and chart datalists. Returns the PDF as base64 or writes it to outputPath.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": props,
		},
		Handler: func(ctx context.Context, args map[string]interface{}) (ToolResult, error) {
			return handleBuildReport(ctx, args, log)
		},
	}
}

func handleBuildReport(ctx context.Context, args map[string]interface{}, log observability.Logger) (ToolResult, error) {
	opts := []pdfreport.Option{pdfreport.WithLogger(log)}
	if dir, ok := args["baseDir"].(string); ok && dir != "" {
		opts = append(opts, pdfreport.WithBaseDir(dir))
	}
	r := pdfreport.New(opts...)
	if err := loadTemplate(r, args); err != nil {
		return ToolResult{}, err
	}

	sections, err := dataSets(args, "sections")
	if err != nil {
		return ToolResult{}, err
	}
	for _, id := range sortedKeys(sections) {
		r.SetSection(id, dataprovider.NewJSON(sections[id], ""), nil)
	}
	lists, err := dataSets(args, "datalists")
	if err != nil {
		return ToolResult{}, err
	}
	for _, id := range sortedKeys(lists) {
		r.SetDatalist(id, dataprovider.NewJSON(lists[id], ""))
	}
	if vars, ok := args["variables"].(map[string]interface{}); ok {
		for k, v := range vars {
			r.SetVar(k, v, true)
		}
	}

	if err := r.Build(ctx); err != nil {
		return ToolResult{}, fmt.Errorf("building report: %w", err)
	}
	var buf bytes.Buffer
	if err := r.Output(&buf); err != nil {
		return ToolResult{}, fmt.Errorf("writing PDF: %w", err)
	}

	if outputPath, ok := args["outputPath"].(string); ok && outputPath != "" {
		if err := os.WriteFile(outputPath, buf.Bytes(), 0644); err != nil {
			return ToolResult{}, fmt.Errorf("writing file: %w", err)
		}
		return ToolResult{
			Content: []ContentBlock{{
				Type: "text",
				Text: fmt.Sprintf("Report built: %s (%d pages, %d bytes)", outputPath, r.PageCount(), buf.Len()),
			}},
		}, nil
	}

	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return ToolResult{
		Content: []ContentBlock{{
			Type: "text",
			Text: fmt.Sprintf("Report built (%d pages, %d bytes). Base64 data:\n%s", r.PageCount(), buf.Len(), encoded),
		}},
	}, nil
}

func inspectTemplateTool() Tool {
	return Tool{
		Name:        "inspect_template",
		Description: "Describe a report template: its sections with nesting and row geometry, its content blocks, and the datalists its charts read.",
		InputSchema: map[string]interface{}{
			"type":       "object",
			"properties": templateProperties(),
		},
		Handler: handleInspectTemplate,
	}
}

func handleInspectTemplate(_ context.Context, args map[string]interface{}) (ToolResult, error) {
	r := pdfreport.New()
	if err := loadTemplate(r, args); err != nil {
		return ToolResult{}, err
	}
	data, err := json.MarshalIndent(Inspect(r.Template()), "", "  ")
	if err != nil {
		return ToolResult{}, err
	}
	return ToolResult{
		Content: []ContentBlock{{Type: "text", MIMEType: "application/json", Text: string(data)}},
	}, nil
}

// loadTemplate loads the template or templatePath argument into r. A
// template string starting with '<' is XML, any other string or object
// is JSON.
func loadTemplate(r *pdfreport.Report, args map[string]interface{}) error {
	switch tpl := args["template"].(type) {
	case string:
		if strings.HasPrefix(strings.TrimSpace(tpl), "<") {
			return r.SetTemplate([]byte(tpl))
		}
		return r.SetTemplateJSON([]byte(tpl))
	case map[string]interface{}:
		data, err := json.Marshal(tpl)
		if err != nil {
			return fmt.Errorf("encoding template: %w", err)
		}
		return r.SetTemplateJSON(data)
	case nil:
	default:
		return fmt.Errorf("'template' must be a string or an object")
	}
	if path, ok := args["templatePath"].(string); ok && path != "" {
		return r.LoadTemplate(path)
	}
	return fmt.Errorf("missing 'template' or 'templatePath' argument")
}

// dataSets re-encodes the row arrays of args[key] for the JSON adapter.
func dataSets(args map[string]interface{}, key string) (map[string][]byte, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("'%s' must be an object of row arrays", key)
	}
	out := make(map[string][]byte, len(m))
	for id, rows := range m {
		if _, ok := rows.([]interface{}); !ok {
			return nil, fmt.Errorf("'%s.%s' must be an array of objects", key, id)
		}
		data, err := json.Marshal(rows)
		if err != nil {
			return nil, fmt.Errorf("encoding %s.%s: %w", key, id, err)
		}
		out[id] = data
	}
	return out, nil
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
