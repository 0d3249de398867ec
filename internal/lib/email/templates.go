package email

import (
	"embed"
	"html/template"
)

// Template names an HTML file under templates/.
type Template string

const (
	TemplateWelcome     Template = "welcome"
	TemplateRoleChanged Template = "role_changed"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

func (t Template) fileName() string {
	return string(t) + ".html"
}
