package breadcrumbs

import "context"

// AttributeName is the key templates read the trail from.
const AttributeName = "breadcrumb"

// Attributes is the request-scoped bag a host exposes to templates.
type Attributes interface {
	SetAttribute(name string, value any)
}

// AttributeMap is a plain map based Attributes implementation.
type AttributeMap map[string]any

func (m AttributeMap) SetAttribute(name string, value any) {
	m[name] = value
}

// Breadcrumb returns the trail stored under AttributeName, if any.
func (m AttributeMap) Breadcrumb() *Breadcrumb {
	value, _ := m[AttributeName].(*Breadcrumb)
	return value
}

// Component runs the builder from the host render lifecycle.
type Component struct {
	builder *Builder
}

// NewComponent wraps a builder.
func NewComponent(builder *Builder) *Component {
	return &Component{builder: builder}
}

// Builder exposes the wrapped builder.
func (c *Component) Builder() *Builder { return c.builder }

// BeforeRender builds the trail and stores it under AttributeName.
func (c *Component) BeforeRender(ctx context.Context, req Request, attrs Attributes) error {
	trail, err := c.builder.Build(ctx, req)
	if err != nil {
		return err
	}
	if attrs != nil {
		attrs.SetAttribute(AttributeName, trail)
	}
	return nil
}

type contextKey struct{}

// ContextWithBreadcrumb stores the trail on a context.
func ContextWithBreadcrumb(ctx context.Context, trail *Breadcrumb) context.Context {
	return context.WithValue(ctx, contextKey{}, trail)
}

// FromContext returns the trail stored by ContextWithBreadcrumb.
func FromContext(ctx context.Context) (*Breadcrumb, bool) {
	if ctx == nil {
		return nil, false
	}
	trail, ok := ctx.Value(contextKey{}).(*Breadcrumb)
	return trail, ok && trail != nil
}
