package views

import (
	"embed"
	"html/template"
	"time"

	"github.com/pedidoshn/pedidos-app/utils"
)

//go:embed templates/*.html
var files embed.FS

func Funcs() template.FuncMap {
	return template.FuncMap{
		"money": utils.FormatCurrencyHNL,
		"fecha": func(t time.Time) string { return t.Format("02/01/2006 15:04") },
	}
}

// Load parses every page and partial. Pages are looked up by file name, e.g. "home.html".
func Load() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(files, "templates/*.html")
}
