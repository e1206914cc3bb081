// Package templates renders the transactional emails embedded in the binary.
// Each email is a triple of files: <name>.subject.tmpl, <name>.text.tmpl and <name>.html.tmpl.
package templates

import (
	"bytes"
	"embed"
	"fmt"
	htmpl "html/template"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

const Welcome = "welcome"

// Message is a rendered email.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// orDefault supports pipe usage: {{ .Name | default "there" }}
func orDefault(fallback string, value any) any {
	if value == nil {
		return fallback
	}
	if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
		return fallback
	}
	return value
}

var funcs = map[string]any{
	"year":    func() int { return time.Now().UTC().Year() },
	"default": orDefault,
}

var (
	textSet = texttpl.Must(texttpl.New("mail").Funcs(funcs).ParseFS(FS, "*.subject.tmpl", "*.text.tmpl"))
	htmlSet = htmpl.Must(htmpl.New("mail").Funcs(funcs).ParseFS(FS, "*.html.tmpl"))
)

// Render executes the three templates registered under name.
func Render(name string, data any) (Message, error) {
	var subject, text, html bytes.Buffer
	if err := textSet.ExecuteTemplate(&subject, name+".subject.tmpl", data); err != nil {
		return Message{}, fmt.Errorf("render %s subject: %w", name, err)
	}
	if err := textSet.ExecuteTemplate(&text, name+".text.tmpl", data); err != nil {
		return Message{}, fmt.Errorf("render %s text: %w", name, err)
	}
	if err := htmlSet.ExecuteTemplate(&html, name+".html.tmpl", data); err != nil {
		return Message{}, fmt.Errorf("render %s html: %w", name, err)
	}
	return Message{
		Subject: strings.TrimSpace(subject.String()),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
