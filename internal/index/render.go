package index

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
)

//go:embed default.md.tmpl
var defaultTemplate string

// Document is the data a template renders.
type Document struct {
	Title         string
	Org           string
	Repo          string
	Prefix        string
	ViewerBaseURL string
	Repositories  []Record
	Updated       time.Time
}

// Renderer executes an index template.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses text as an index template. Empty text selects the built-in template.
func NewRenderer(text string) (*Renderer, error) {
	if text == "" {
		text = defaultTemplate
	}
	tmpl, err := template.New("index").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing index template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// LoadRenderer reads a template file, or uses the built-in template when path is empty.
func LoadRenderer(path string) (*Renderer, error) {
	if path == "" {
		return NewRenderer("")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading index template: %w", err)
	}
	return NewRenderer(string(data))
}

// Render produces the document text. Trailing line breaks are removed so the
// output matches what the index has always stored.
func (r *Renderer) Render(doc Document) (string, error) {
	var b strings.Builder
	if err := r.tmpl.Execute(&b, doc); err != nil {
		return "", fmt.Errorf("rendering index: %w", err)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// Render renders doc with the built-in template.
func Render(doc Document) (string, error) {
	renderer, err := NewRenderer("")
	if err != nil {
		return "", err
	}
	return renderer.Render(doc)
}
