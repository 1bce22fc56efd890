// Package render turns portfolio data into a themed HTML page. It is a pure
// function of its input: no storage, no network.
package render

import (
	_ "embed"
	"html/template"
	"io"

	"github.com/craftfolio/server/pkg/portfolio"
)

//go:embed themes/modern.html.tmpl
var modernTheme string

// DefaultTemplateID is the one concrete theme. Other ids are accepted but
// currently resolve to the same renderer.
const DefaultTemplateID = "modern-1"

type Renderer struct {
	tpl *template.Template
}

func New() (*Renderer, error) {
	tpl, err := template.New("modern").Parse(modernTheme)
	if err != nil {
		return nil, err
	}
	return &Renderer{tpl: tpl}, nil
}

type page struct {
	Data     *portfolio.Data
	Template string
}

// Render writes the themed page. A nil Data renders a placeholder page
// rather than failing: a missing portfolio is a normal public-page state.
func (r *Renderer) Render(w io.Writer, data *portfolio.Data, templateID string) error {
	if templateID == "" {
		templateID = DefaultTemplateID
	}
	return r.tpl.Execute(w, page{Data: data, Template: templateID})
}
