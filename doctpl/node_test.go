package doctpl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleXML = `<?xml version="1.0"?>
<PDF>
  <!-- layout -->
  <default format="A4" orientation="P"/>
  <content id="row">
    <box x1="10" y1="{Y}" x2="100" y2="16" Align="C">{name}</box>
    <line x1="10" y1="5" x2="100" y2="5"/>
    <line x1="10" y1="6" x2="100" y2="6"/>
  </content>
  <section id="rows" y_start="20">
    <query>select * from t</query>
    <print_content>row</print_content>
  </section>
</PDF>`

func TestParseXML(t *testing.T) {
	root, err := ParseXMLBytes([]byte(sampleXML))
	require.NoError(t, err)

	assert.Equal(t, "pdf", root.Name)
	assert.Equal(t, ElementNode, root.Kind)
	require.Len(t, root.Children, 3)

	def := root.Child("default")
	require.NotNil(t, def)
	assert.Equal(t, "A4", def.String("format", ""))

	content := root.Child("content")
	box := content.Child("box")
	require.NotNil(t, box)
	assert.Equal(t, "{name}", box.Text)
	v, ok := box.Value("textalign|align")
	assert.True(t, ok)
	assert.Equal(t, "C", v)

	lines := content.ChildrenNamed("line")
	require.Len(t, lines, 2)
	assert.Equal(t, "line.1", lines[1].Key())
	assert.Equal(t, 6.0, lines[1].Float("y1", 0))

	sec := root.Child("section")
	assert.Equal(t, "select * from t", sec.String("query", ""))
	pc := sec.Child("print_content")
	require.NotNil(t, pc)
	assert.True(t, pc.IsScalar())
	assert.Equal(t, "row", pc.Text)
}

func TestValueTextFallback(t *testing.T) {
	root, err := ParseXMLBytes([]byte(`<var name="total">42</var>`))
	require.NoError(t, err)
	assert.Equal(t, "42", root.String("value", ""))

	root, err = ParseXMLBytes([]byte(`<var name="total" value="7">42</var>`))
	require.NoError(t, err)
	assert.Equal(t, "7", root.String("value", ""), "attribute wins over text")
}

func TestEmptyElementStaysElement(t *testing.T) {
	root, err := ParseXMLBytes([]byte(`<pdf><section/></pdf>`))
	require.NoError(t, err)
	sec := root.Child("section")
	require.NotNil(t, sec)
	assert.Equal(t, ElementNode, sec.Kind)
}

func TestParseXMLErrors(t *testing.T) {
	_, err := ParseXMLBytes([]byte(""))
	assert.ErrorIs(t, err, ErrEmptyTemplate)

	_, err = ParseXMLBytes([]byte("<pdf><a></pdf>"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "doctpl:"))
}

func TestParseJSON(t *testing.T) {
	src := `{"pdf": {
		"default": {"@format": "A4", "@orientation": "L"},
		"content": {"@id": "row", "box": [
			{"@x1": 10, "@y1": 20, "#text": "{name}"},
			{"@x1": 30, "@y1": 40, "@fill": true}
		]},
		"section": {"@id": "rows", "print_content": "row", "query": null}
	}}`
	root, err := ParseJSON([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, "pdf", root.Name)

	assert.Equal(t, "L", root.Child("default").String("orientation", ""))

	boxes := root.Child("content").ChildrenNamed("box")
	require.Len(t, boxes, 2)
	assert.Equal(t, "{name}", boxes[0].Text)
	assert.Equal(t, 10.0, boxes[0].Float("x1", 0))
	assert.Equal(t, 1, boxes[1].Index)
	assert.True(t, boxes[1].Bool("fill", false))

	sec := root.Child("section")
	assert.Equal(t, "row", sec.String("print_content", ""))
	assert.False(t, sec.Has("query"))
}

func TestParseJSONErrors(t *testing.T) {
	for _, src := range []string{`[]`, `{}`, `{"a": {}, "b": {}}`, `{"pdf": "x"}`, `{"pdf": {"@a": {}}}`} {
		if _, err := ParseJSON([]byte(src)); err == nil {
			t.Errorf("ParseJSON(%s) expected an error", src)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	xmlPath := filepath.Join(dir, "t.xml")
	jsonPath := filepath.Join(dir, "t.JSON")
	require.NoError(t, os.WriteFile(xmlPath, []byte(`<pdf><default format="A3"/></pdf>`), 0o644))
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"pdf": {"default": {"@format": "A5"}}}`), 0o644))

	root, err := LoadFile(xmlPath)
	require.NoError(t, err)
	assert.Equal(t, "A3", root.Child("default").String("format", ""))

	root, err = LoadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "A5", root.Child("default").String("format", ""))

	_, err = LoadFile(filepath.Join(dir, "missing.xml"))
	assert.Error(t, err)
}

func TestWalk(t *testing.T) {
	root, err := ParseXMLBytes([]byte(sampleXML))
	require.NoError(t, err)

	var names []string
	root.Walk(func(n *Node) bool {
		names = append(names, n.Name)
		return n.Name != "content"
	})
	assert.Equal(t, []string{"pdf", "default", "content", "section", "query", "print_content"}, names)
}
