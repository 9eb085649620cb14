package codec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	"flowdesk/internal/domain"
)

// DOTCodec exports documents as Graphviz DOT, one cluster per module
type DOTCodec struct{}

// NewDOTCodec creates a new DOT codec
func NewDOTCodec() *DOTCodec {
	return &DOTCodec{}
}

// Format returns the codec format identifier
func (c *DOTCodec) Format() string {
	return "dot"
}

// Export writes the document as DOT
func (c *DOTCodec) Export(doc *domain.Document, w io.Writer) error {
	_, err := io.WriteString(w, ToDOT(doc))
	return err
}

// ToDOT converts a document to a left-to-right DOT digraph. Node fill colors
// follow the template header color when the node records its template.
func ToDOT(doc *domain.Document) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontname=\"Helvetica\"];\n")
	buf.WriteString("  ranksep=1.0;\n")
	buf.WriteString("  nodesep=0.7;\n")

	for i, module := range doc.ModuleNames() {
		nodes := doc.Nodes(module)
		if len(nodes) == 0 {
			continue
		}

		fmt.Fprintf(&buf, "\n  subgraph \"cluster_%d\" {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", module)
		for _, n := range nodes {
			fmt.Fprintf(&buf, "    %q [%s];\n", n.ID.String(), strings.Join(dotAttrs(n), ", "))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, module := range doc.ModuleNames() {
		for _, n := range doc.Nodes(module) {
			for _, port := range slices.Sorted(maps.Keys(n.Outputs)) {
				for _, conn := range n.Outputs[port].Connections {
					fmt.Fprintf(&buf, "  %q -> %q [taillabel=%q, headlabel=%q];\n",
						n.ID.String(), conn.Node, port, conn.Output)
				}
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotAttrs(n *domain.Node) []string {
	label := n.Name
	if title := n.DataString("title"); title != "" {
		label = title
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}

	if tpl, ok := domain.TemplateByID(n.TemplateID()); ok {
		if color := tpl.Defaults["--node-body-bg"]; color != "" {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", color))
		}
		if color := tpl.Defaults["--node-header-bg"]; color != "" {
			attrs = append(attrs, fmt.Sprintf("color=%q", color))
		}
	}
	if tooltip := n.DataString("tooltip"); tooltip != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", tooltip))
	}
	return attrs
}

// SVGCodec renders documents to SVG through Graphviz
type SVGCodec struct{}

// NewSVGCodec creates a new SVG codec
func NewSVGCodec() *SVGCodec {
	return &SVGCodec{}
}

// Format returns the codec format identifier
func (c *SVGCodec) Format() string {
	return "svg"
}

// Export renders the document as SVG
func (c *SVGCodec) Export(doc *domain.Document, w io.Writer) error {
	svg, err := RenderSVG(context.Background(), ToDOT(doc))
	if err != nil {
		return err
	}
	_, err = w.Write(svg)
	return err
}

// RenderSVG renders a DOT graph to SVG using Graphviz
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
