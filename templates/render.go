// Package templates renders the dashboard views. Components are written in
// templ and the generated _templ.go files are committed alongside them.
package templates

//go:generate go run github.com/a-h/templ/cmd/templ generate

import (
	"bytes"
	"context"

	"github.com/a-h/templ"
)

// RenderString renders c into a string.
func RenderString(ctx context.Context, c templ.Component) (string, error) {
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
