package render

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"strings"

	"github.com/goliatone/go-breadcrumb/internal/breadcrumbs"
)

// DefaultTemplate renders an ordered list wrapped in a nav landmark. The
// separator is trusted markup and written unescaped.
const DefaultTemplate = `{{- if .Items -}}
<nav class="{{ .Class }}" aria-label="{{ .AriaLabel }}"><ol>
{{- range $i, $item := .Items }}
{{- if $i }}<li class="separator" aria-hidden="true">{{ $.Separator }}</li>{{ end -}}
<li>
{{- if $item.Linked }}<a href="{{ $item.Href }}"{{ if $item.Current }} aria-current="page"{{ end }}>{{ $item.Label }}</a>
{{- else }}<span{{ if $item.Current }} aria-current="page"{{ end }}>{{ $item.Label }}</span>{{ end -}}
</li>
{{- end }}</ol></nav>
{{- end -}}`

// Renderer turns a trail into HTML. It is safe for concurrent use.
type Renderer struct {
	tmpl      *template.Template
	class     string
	ariaLabel string
}

// Option customises the renderer.
type Option func(*Renderer) error

// WithTemplate replaces DefaultTemplate. The template receives a View.
func WithTemplate(text string) Option {
	return func(r *Renderer) error {
		tmpl, err := template.New("breadcrumb").Parse(text)
		if err != nil {
			return err
		}
		r.tmpl = tmpl
		return nil
	}
}

func WithClass(class string) Option {
	return func(r *Renderer) error {
		if class = strings.TrimSpace(class); class != "" {
			r.class = class
		}
		return nil
	}
}

func WithAriaLabel(label string) Option {
	return func(r *Renderer) error {
		if label = strings.TrimSpace(label); label != "" {
			r.ariaLabel = label
		}
		return nil
	}
}

// New builds a renderer around DefaultTemplate unless overridden.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		tmpl:      template.Must(template.New("breadcrumb").Parse(DefaultTemplate)),
		class:     "breadcrumb",
		ariaLabel: "Breadcrumb",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// View is the template model.
type View struct {
	Class     string
	AriaLabel string
	Separator template.HTML
	Items     []ViewItem
}

// ViewItem is one rendered entry.
type ViewItem struct {
	Label   string
	Href    string
	Linked  bool
	Current bool
}

// NewView applies the trail's link-not-found mode: hide drops items whose
// link target is missing, unlink keeps their label without a link. The last
// remaining item is marked current.
func (r *Renderer) NewView(trail *breadcrumbs.Breadcrumb) View {
	view := View{
		Class:     r.class,
		AriaLabel: r.ariaLabel,
		Separator: template.HTML(trail.Separator()),
	}
	mode := trail.LinkNotFoundMode()
	for _, item := range trail.Items() {
		entry := ViewItem{Label: item.Label()}
		if link := item.Link(); link != nil {
			switch {
			case link.NotFound && mode == breadcrumbs.LinkNotFoundHide:
				continue
			case link.NotFound && mode == breadcrumbs.LinkNotFoundUnlink:
			case link.Href() != "":
				entry.Href = link.Href()
				entry.Linked = true
			}
		}
		view.Items = append(view.Items, entry)
	}
	if n := len(view.Items); n > 0 {
		view.Items[n-1].Current = true
	}
	return view
}

// Render writes the trail to w. An empty trail writes nothing.
func (r *Renderer) Render(w io.Writer, trail *breadcrumbs.Breadcrumb) error {
	return r.tmpl.Execute(w, r.NewView(trail))
}

// RenderString is Render into a string.
func (r *Renderer) RenderString(trail *breadcrumbs.Breadcrumb) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, trail); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderContext renders the trail stored on ctx by the HTTP middleware or the
// component hook.
func (r *Renderer) RenderContext(ctx context.Context) (template.HTML, error) {
	trail, ok := breadcrumbs.FromContext(ctx)
	if !ok {
		return "", nil
	}
	out, err := r.RenderString(trail)
	return template.HTML(out), err
}

// FuncMap exposes the renderer to host templates as {{ breadcrumb . }} where
// the argument is a *breadcrumbs.Breadcrumb.
func (r *Renderer) FuncMap() template.FuncMap {
	return template.FuncMap{
		"breadcrumb": func(trail *breadcrumbs.Breadcrumb) (template.HTML, error) {
			out, err := r.RenderString(trail)
			return template.HTML(out), err
		},
	}
}
