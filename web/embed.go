package web

import (
	"embed"
	"html/template"
)

//go:embed templates
var content embed.FS

// Templates 解析並返回內嵌的頁面模板
func Templates() *template.Template {
	return template.Must(template.ParseFS(content, "templates/*.html"))
}
