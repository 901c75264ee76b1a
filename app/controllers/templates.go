package controllers

import (
	"html/template"
	"net/http"
	"path/filepath"
)

// Topics the create-post form and the filter bar offer. The service
// accepts free-form topic names; the UI keeps a fixed set.
var Topics = []string{"Politics", "Health", "Sport", "Tech"}

// loadTemplates loads and parses all page templates.
func loadTemplates(basePath string) map[string]*template.Template {
	layout := filepath.Join(basePath, "app/views/layout.html")
	page := func(name string) *template.Template {
		return template.Must(template.ParseFiles(
			layout,
			filepath.Join(basePath, "app/views/pages", name),
		))
	}

	templates := make(map[string]*template.Template)
	templates["index"] = page("index.html")
	templates["feed"] = page("feed.html")
	templates["reactions"] = page("reactions.html")
	templates["list"] = page("list.html")
	return templates
}

func sendError(w http.ResponseWriter, message string, status int) {
	http.Error(w, message, status)
}
