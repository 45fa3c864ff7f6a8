package mcp

import (
	"strings"

	"github.com/lvillar/pdfreport/doctpl"
)

// TemplateInfo summarizes a report template: the sections in document
// order, the content blocks and the datalists the charts read.
type TemplateInfo struct {
	Page      string        `json:"page,omitempty"`
	Sections  []SectionInfo `json:"sections"`
	Contents  []ContentInfo `json:"contents"`
	Datalists []string      `json:"datalists"`
}

// SectionInfo describes one section element. Geometry values are reported
// as written, since they may hold tags or expressions.
type SectionInfo struct {
	ID        string   `json:"id"`
	Parent    string   `json:"parent,omitempty"`
	Depth     int      `json:"depth"`
	Page      string   `json:"page,omitempty"`
	YStart    string   `json:"y_start,omitempty"`
	RowHeight string   `json:"row_height,omitempty"`
	YEnd      string   `json:"y_end,omitempty"`
	Prints    []string `json:"prints,omitempty"`
}

// ContentInfo describes a content block and the elements it draws.
type ContentInfo struct {
	ID       string   `json:"id"`
	Elements []string `json:"elements"`
}

// Inspect walks the template rooted at root.
func Inspect(root *doctpl.Node) TemplateInfo {
	info := TemplateInfo{
		Sections:  []SectionInfo{},
		Contents:  []ContentInfo{},
		Datalists: []string{},
	}
	if def := root.Child("default"); def != nil && !def.IsScalar() {
		info.Page = strings.Trim(def.String("format", "")+","+def.String("orientation", ""), ",")
	}

	for _, c := range root.ChildrenNamed("content") {
		ci := ContentInfo{ID: c.String("id", ""), Elements: []string{}}
		for _, el := range c.Children {
			ci.Elements = append(ci.Elements, el.Name)
		}
		info.Contents = append(info.Contents, ci)
	}

	seen := make(map[string]bool)
	root.Walk(func(n *doctpl.Node) bool {
		if n.Name == "datalist" && !n.IsScalar() {
			if id := strings.TrimSpace(n.String("id", "")); id != "" && !seen[id] {
				seen[id] = true
				info.Datalists = append(info.Datalists, id)
			}
		}
		return true
	})

	for _, n := range root.ChildrenNamed("section") {
		info.Sections = appendSections(info.Sections, n, "", 0)
	}
	return info
}

func appendSections(out []SectionInfo, n *doctpl.Node, parent string, depth int) []SectionInfo {
	si := SectionInfo{
		ID:        n.String("id", ""),
		Parent:    parent,
		Depth:     depth,
		Page:      n.String("page", ""),
		YStart:    n.String("y_start", ""),
		RowHeight: n.String("row_height", ""),
		YEnd:      n.String("y_end", ""),
	}
	for _, pc := range n.ChildrenNamed("print_content") {
		si.Prints = append(si.Prints, strings.TrimSpace(pc.String("value|id|content", "")))
	}
	out = append(out, si)
	for _, c := range n.ChildrenNamed("section") {
		out = appendSections(out, c, si.ID, depth+1)
	}
	return out
}
