package common

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/refdash/internal/ui/resources"
)

// AppName is shown in page titles.
const AppName = "System References Dashboard"

// Esc escapes text for HTML content and attribute values.
func Esc(s string) string {
	return templ.EscapeString(s)
}

// HTML wraps a render function that builds markup into a string.
func HTML(build func(sb *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var sb strings.Builder
		build(&sb)
		_, err := io.WriteString(w, sb.String())
		return err
	})
}

// Page renders a complete HTML document around body.
func Page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>` + Esc(title) + `</title>
<link rel="stylesheet" href="` + resources.StaticPath("css/dashboard.css") + `">
<script type="module" src="` + resources.DatastarScript + `"></script>
</head>
<body>
<main>
`
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</main>\n</body>\n</html>\n")
		return err
	})
}

// ErrorPanel renders msg in an element with the given id.
func ErrorPanel(id, msg string) templ.Component {
	return HTML(func(sb *strings.Builder) {
		sb.WriteString(`<div id="` + Esc(id) + `" class="error-panel" role="alert">`)
		sb.WriteString(Esc(msg))
		sb.WriteString("</div>\n")
	})
}

// Table renders a plain HTML table.
func Table(sb *strings.Builder, class string, header []string, rows [][]string) {
	sb.WriteString(`<table class="` + Esc(class) + `"><thead><tr>`)
	for _, h := range header {
		sb.WriteString("<th>" + Esc(h) + "</th>")
	}
	sb.WriteString("</tr></thead><tbody>\n")
	for _, row := range rows {
		sb.WriteString("<tr>")
		for _, v := range row {
			sb.WriteString("<td>" + Esc(v) + "</td>")
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</tbody></table>\n")
}
