package sink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/stepmotion/pkg/errors"
	"github.com/matzehuels/stepmotion/pkg/trace"
)

// DOTOptions configures DOT export.
type DOTOptions struct {
	// Detailed adds distance/value annotations to node labels and edge
	// weights as edge labels. When false, nodes show only their label.
	Detailed bool
}

// ToDOT converts a graph-family step into Graphviz DOT. Traversal state
// from the step's visual actions maps onto Graphviz colors: the current
// node gold, path nodes palegreen, visited nodes lightblue. Steps whose
// state carries no nodes yield a coded UNSUPPORTED error.
//
// The resulting DOT renders with [RenderDOTSVG] or [RenderDOTPNG], or any
// external Graphviz toolchain.
func ToDOT(step trace.Step, opts DOTOptions) (string, error) {
	nodes := stateList(step.State, "nodes")
	if len(nodes) == 0 {
		return "", errors.New(errors.ErrCodeUnsupported,
			"step %d has no graph nodes to export", step.Index)
	}
	edges := stateList(step.State, "edges")

	visited := make(map[string]bool)
	values := make(map[string]string)
	pathSet := make(map[string]bool)
	current := ""
	for _, a := range step.VisualActions {
		switch a.Type {
		case "visitNode":
			if id, ok := a.String("nodeId"); ok {
				visited[id] = true
			}
		case "setCurrentNode":
			if id, ok := a.String("nodeId"); ok {
				current = id
			}
		case "markPath":
			if ids, ok := a.Strings("nodeIds"); ok {
				for _, id := range ids {
					pathSet[id] = true
				}
			}
		case "updateDistance", "updateNodeValue":
			id, ok := a.String("nodeId")
			if !ok {
				continue
			}
			if v, okV := a.Float("value"); okV {
				values[id] = strconv.FormatFloat(v, 'g', -1, 64)
			} else if s, okS := a.String("value"); okS {
				values[id] = s
			}
		}
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for _, m := range nodes {
		id, _ := m["id"].(string)
		if id == "" {
			continue
		}
		label := id
		if lbl, ok := m["label"].(string); ok && lbl != "" {
			label = lbl
		}
		if opts.Detailed {
			if v, ok := values[id]; ok {
				label += "\n" + v
			}
		}
		attrs := []string{fmt.Sprintf("label=%q", label)}
		switch {
		case id == current:
			attrs = append(attrs, "fillcolor=gold")
		case pathSet[id]:
			attrs = append(attrs, "fillcolor=palegreen")
		case visited[id]:
			attrs = append(attrs, "fillcolor=lightblue")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, m := range edges {
		from, _ := m["from"].(string)
		to, _ := m["to"].(string)
		if from == "" || to == "" {
			continue
		}
		var attrs []string
		if directed, _ := m["directed"].(bool); !directed {
			attrs = append(attrs, "dir=none")
		}
		if opts.Detailed {
			if w, ok := toFloat(m["weight"]); ok {
				attrs = append(attrs, fmt.Sprintf("label=%q", strconv.FormatFloat(w, 'g', -1, 64)))
			}
		}
		if len(attrs) > 0 {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", from, to, strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", from, to)
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

// stateList reads a state entry shaped like [{...}, {...}]. JSON decoding
// yields []any of map[string]any; anything else is skipped.
func stateList(state map[string]any, key string) []map[string]any {
	raw, _ := state[key].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// RenderDOTSVG lays out and renders a DOT graph as SVG via Graphviz.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.SVG, true)
}

// RenderDOTPNG lays out and renders a DOT graph as PNG via Graphviz.
func RenderDOTPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG, false)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format, normalize bool) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, err, "render DOT as %s", format)
	}
	out := buf.Bytes()
	if normalize {
		out = normalizeViewBox(out)
	}
	return out, nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites Graphviz's <svg> tag so the viewBox starts at
// the origin and width/height match it, which makes the output embed the
// same way as [RenderSVG] documents.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
