// Package page renders the demo site's fixed markup. The page takes no
// input and has no state: every call produces the same bytes, which is
// exactly what lets the whole site be compiled once and shipped as static
// files.
package page

import (
	"bytes"
	"embed"
	"html/template"
)

// Title is the entry document's title. The end-to-end tests assert the
// served root page contains it.
const Title = "Two-Stage Builds"

//go:embed index.html.tmpl styles.css
var files embed.FS

var indexTmpl = template.Must(template.ParseFS(files, "index.html.tmpl"))

// Render returns the entry document. Parameterless and deterministic:
// repeated calls are byte-identical.
func Render() ([]byte, error) {
	var buf bytes.Buffer
	err := indexTmpl.Execute(&buf, struct {
		Title string
	}{Title: Title})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Stylesheet returns the fixed stylesheet shipped next to the page.
func Stylesheet() []byte {
	data, err := files.ReadFile("styles.css")
	if err != nil {
		// The file is embedded at compile time; this cannot fail at runtime.
		panic(err)
	}
	return data
}
