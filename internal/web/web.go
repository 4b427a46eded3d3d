// Package web holds the HTML views served for the browser pages.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Template names.
const (
	IndexView    = "index.html"
	LoginView    = "login.html"
	RegisterView = "register.html"
)

// Templates parses the embedded views.
func Templates() *template.Template {
	return template.Must(template.ParseFS(templatesFS, "templates/*.html"))
}

// ErrorMessage maps an ?error= flag to the text shown on the auth pages.
func ErrorMessage(flag string) string {
	switch flag {
	case "invalid":
		return "Invalid username or password."
	case "taken":
		return "That username is already taken."
	case "":
		return ""
	default:
		return "Something went wrong, please try again."
	}
}
