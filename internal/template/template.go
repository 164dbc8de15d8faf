// Package template renders the resolved mod_ssl configuration into the
// final Apache configuration text. The template is embedded in the binary
// using a go:embed directive.
package template

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"

	"github.com/hward/modsslctl/internal/errors"
	"github.com/hward/modsslctl/internal/resolver"
)

//go:embed ssl.conf.tmpl
var sslConfTemplate string

// funcMap provides the helpers the template uses for Apache directive
// formatting.
var funcMap = template.FuncMap{
	"join": strings.Join,
	"onoff": func(b bool) string {
		if b {
			return "On"
		}
		return "Off"
	},
	"boolval": func(b *bool) bool {
		return b != nil && *b
	},
}

// Render turns a resolved configuration into the ssl.conf text.
func Render(cfg *resolver.Config) (string, error) {
	tmpl, err := template.New("ssl.conf").Funcs(funcMap).Parse(sslConfTemplate)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeRender, "failed to parse ssl.conf template", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		return "", errors.Wrap(errors.ErrCodeRender, "failed to render ssl.conf", err)
	}

	return buf.String(), nil
}
