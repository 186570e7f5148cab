package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"userconsole/store"
)

//go:embed templates/*.html
var templatesFS embed.FS

var consoleTemplate = template.Must(
	template.New("console.html").ParseFS(templatesFS, "templates/console.html"),
)

// RenderConsole writes the console page for view
func RenderConsole(w io.Writer, view store.View) error {
	if err := consoleTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render console page: %w", err)
	}
	return nil
}
