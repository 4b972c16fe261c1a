package utils

import (
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
)

func NewTemplate(name string) *template.Template {
	return template.New(name).Funcs(sprig.FuncMap())
}
