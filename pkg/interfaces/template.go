package interfaces

import "io"

// TemplateRenderer is the rendering collaborator used by the static site
// generator. The engine hands it post data and receives HTML back; it makes
// no assumption about the produced markup.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
}
