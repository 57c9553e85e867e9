package http

import (
	"embed"
	"html/template"
	"io/fs"
	"path/filepath"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var templateFuncs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		return t.Format(viewTimeFormat)
	},
}

// loadTemplates parses the page templates from dir, or from the embedded
// set when dir is empty.
func loadTemplates(dir string) (*template.Template, error) {
	tmpl := template.New("").Funcs(templateFuncs)
	if dir != "" {
		return tmpl.ParseGlob(filepath.Join(dir, "*.html"))
	}
	return tmpl.ParseFS(templateFS, "templates/*.html")
}

func staticFiles() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
