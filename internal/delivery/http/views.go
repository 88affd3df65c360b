package http

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/gofiber/fiber/v2"
)

//go:embed templates/*.html
var templateFiles embed.FS

var views = template.Must(template.New("").Funcs(template.FuncMap{
	"deref": func(f *float64) float64 { return *f },
}).ParseFS(templateFiles, "templates/*.html"))

// render executes a template into the response with the given status
func render(c *fiber.Ctx, status int, name string, data interface{}) error {
	var buf bytes.Buffer
	if err := views.ExecuteTemplate(&buf, name, data); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to render page")
	}

	c.Status(status)
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func renderError(c *fiber.Ctx, status int, message string) error {
	return render(c, status, "error.html", fiber.Map{
		"Status":  status,
		"Message": message,
	})
}
