package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"maragu.dev/gomponents"
)

// gomponentComponent wraps a gomponents.Node so it can be rendered inside a
// templ layout.
type gomponentComponent struct {
	node gomponents.Node
}

// Render implements templ.Component. gomponents does not take a context, so
// ctx is unused.
func (a gomponentComponent) Render(ctx context.Context, w io.Writer) error {
	return a.node.Render(w)
}

// AdaptGomponentToTempl converts a gomponents node into a templ.Component.
func AdaptGomponentToTempl(node gomponents.Node) templ.Component {
	return gomponentComponent{node: node}
}

// templNode wraps a templ.Component so it can be used as a gomponents node.
type templNode struct {
	ctx       context.Context
	component templ.Component
}

// Render implements gomponents.Node.
func (a templNode) Render(w io.Writer) error {
	return a.component.Render(a.ctx, w)
}

// AdaptTemplToGomponent converts a templ.Component into a gomponents node,
// rendering it with ctx.
func AdaptTemplToGomponent(ctx context.Context, component templ.Component) gomponents.Node {
	return templNode{ctx: ctx, component: component}
}
