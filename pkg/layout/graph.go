package layout

import (
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/stepmotion/pkg/scene"
	"github.com/matzehuels/stepmotion/pkg/trace"
)

const (
	nodeDiameter = 48.0
	dsCellSize   = 40.0
)

type graphNode struct {
	id     string
	label  string
	x, y   float64 // canvas coordinates
	hasPos bool
}

type graphEdge struct {
	from, to string
	weight   float64
	hasW     bool
	directed bool
}

// Graph renders nodes and edges for traversal algorithms (BFS, DFS,
// Dijkstra): visited/current coloring, path marking, distance badges, and
// a queue/stack panel along the bottom.
func Graph(step trace.Step, size scene.Size, cfg Config) *scene.Scene {
	theme := ThemeFrom(cfg)
	sc := scene.New(size.Width, size.Height, theme.Background)

	nodes := readNodes(step.State, size)
	edges := readEdges(step.State)
	pos := make(map[string]graphNode, len(nodes))
	for _, n := range nodes {
		pos[n.id] = n
	}

	nodeFill := make(map[string]scene.Color)
	edgeColor := make(map[string]scene.Color)
	distance := make(map[string]string)
	current := ""
	var path []string

	for _, a := range step.VisualActions {
		switch a.Type {
		case "visitNode":
			id, ok := a.String("nodeId")
			if !ok {
				continue
			}
			color, _ := a.String("color")
			nodeFill[id] = theme.Resolve(color, theme.Resolve("visited", theme.Fill))
		case "setCurrentNode":
			if id, ok := a.String("nodeId"); ok {
				current = id
			}
		case "highlightEdge":
			from, okF := a.String("from")
			to, okT := a.String("to")
			if !okF || !okT {
				continue
			}
			color, _ := a.String("color")
			c := theme.Resolve(color, theme.Resolve("highlight", theme.Stroke))
			edgeColor[edgeKey(from, to)] = c
		case "markPath":
			if ids, ok := a.Strings("nodeIds"); ok {
				path = ids
			}
		case "updateDistance", "updateNodeValue":
			id, ok := a.String("nodeId")
			if !ok {
				continue
			}
			if v, okV := a.Float("value"); okV {
				distance[id] = formatValue(v)
			} else if s, okS := a.String("value"); okS {
				distance[id] = s
			}
		default:
		}
	}

	pathSet := make(map[string]bool, len(path))
	for _, id := range path {
		pathSet[id] = true
	}
	pathColor := theme.Resolve("success", theme.Fill)

	// Edges first so nodes paint over their endpoints.
	for _, e := range edges {
		from, okF := pos[e.from]
		to, okT := pos[e.to]
		if !okF || !okT {
			continue
		}
		color, highlighted := edgeColor[edgeKey(e.from, e.to)]
		if !highlighted {
			color = theme.Muted
			if pathSet[e.from] && pathSet[e.to] {
				color = pathColor
				highlighted = true
			}
		}
		width := 1.5
		if highlighted {
			width = 3
		}
		conn := scene.Connection{
			Base:  scene.Base{ID: "edge-" + e.from + "-" + e.to, Opacity: 1},
			X1:    from.x, Y1: from.y, X2: to.x, Y2: to.y,
			Color: color, Width: width, ArrowEnd: e.directed,
			TextColor: theme.Text, TextSize: subSize,
		}
		if e.hasW {
			conn.Label = formatValue(e.weight)
		}
		sc.Add(conn)
	}

	for _, n := range nodes {
		fill, ok := nodeFill[n.id]
		if !ok {
			fill = theme.Fill
		}
		if pathSet[n.id] {
			fill = pathColor
		}
		stroke, strokeWidth := theme.Stroke, 1.5
		if n.id == current {
			stroke = theme.Resolve("active", theme.Stroke)
			strokeWidth = 3
		}
		sc.Add(scene.Element{
			Base:  scene.Base{ID: "node-" + n.id, Z: 1, Opacity: 1},
			Shape: scene.ShapeCircle,
			X:     n.x - nodeDiameter/2, Y: n.y - nodeDiameter/2,
			Width: nodeDiameter, Height: nodeDiameter,
			Fill: fill, Stroke: stroke, StrokeWidth: strokeWidth,
			Label: n.label, TextColor: theme.Text, TextSize: labelSize,
		})
		if d, ok := distance[n.id]; ok {
			sc.Add(scene.Annotation{
				Base:     scene.Base{ID: "dist-" + n.id, Z: 2, Opacity: 1},
				Form:     scene.FormBadge,
				X:        n.x + nodeDiameter*0.7,
				Y:        n.y - nodeDiameter*0.7,
				Text:     d,
				TextSize: subSize,
				Color:    scene.RGB(0xff, 0xff, 0xff),
				Fill:     theme.Resolve("accent", theme.Stroke),
			})
		}
	}

	dataStructurePanel(sc, step.State, size, theme)

	text, kind := lastMessage(step)
	messageBanner(sc, size, theme, text, kind)
	return sc
}

// readNodes resolves node positions: generator-supplied normalized
// coordinates map into the padded canvas; nodes without coordinates fall
// back to a deterministic ellipse placement, angle = 2*pi*k/N - pi/2, so
// position-free graphs still render identically every time.
func readNodes(state map[string]any, size scene.Size) []graphNode {
	raw := stateMaps(state, "nodes")
	nodes := make([]graphNode, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, m := range raw {
		id, _ := m["id"].(string)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		n := graphNode{id: id, label: id}
		if lbl, ok := m["label"].(string); ok && lbl != "" {
			n.label = lbl
		}
		x, okX := toFloat(m["x"])
		y, okY := toFloat(m["y"])
		if okX && okY {
			n.hasPos = true
			n.x = padding + x*(size.Width-2*padding)
			n.y = padding + y*(size.Height-2*padding-dsCellSize*2)
		}
		nodes = append(nodes, n)
	}

	total := len(nodes)
	cx, cy := size.Width/2, (size.Height-dsCellSize*2)/2
	rx := (size.Width - 2*padding) / 2 * 0.8
	ry := (size.Height - 2*padding - dsCellSize*2) / 2 * 0.8
	for k := range nodes {
		if nodes[k].hasPos {
			continue
		}
		angle := 2*math.Pi*float64(k)/float64(total) - math.Pi/2
		nodes[k].x = cx + rx*math.Cos(angle)
		nodes[k].y = cy + ry*math.Sin(angle)
	}
	return nodes
}

func readEdges(state map[string]any) []graphEdge {
	raw := stateMaps(state, "edges")
	edges := make([]graphEdge, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, m := range raw {
		from, _ := m["from"].(string)
		to, _ := m["to"].(string)
		if from == "" || to == "" {
			continue
		}
		// Repeated from/to pairs keep the first occurrence so edge ids
		// stay unique within the scene.
		pair := from + "\x00" + to
		if seen[pair] {
			continue
		}
		seen[pair] = true
		e := graphEdge{from: from, to: to}
		if w, ok := toFloat(m["weight"]); ok {
			e.weight, e.hasW = w, true
		}
		if d, ok := m["directed"].(bool); ok {
			e.directed = d
		}
		edges = append(edges, e)
	}
	return edges
}

// edgeKey is direction-insensitive: generators emit undirected edges in
// either endpoint order and highlights must match both.
func edgeKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}

// dataStructurePanel renders the queue/stack contents a traversal carries
// in state.dataStructure, as a row of small cells along the bottom edge.
func dataStructurePanel(sc *scene.Scene, state map[string]any, size scene.Size, theme scene.Theme) {
	ds := stateMap(state, "dataStructure")
	if ds == nil {
		return
	}
	label, _ := ds["label"].(string)
	if label == "" {
		if kind, _ := ds["type"].(string); kind != "" {
			label = kind
		} else {
			label = "items"
		}
	}
	items, _ := ds["items"].([]any)

	y := size.Height - padding - dsCellSize
	x := padding
	sc.Add(scene.Annotation{
		Base:     scene.Base{ID: "ds-label", Z: 2, Opacity: 1},
		Form:     scene.FormLabel,
		X:        x,
		Y:        y - 14,
		Text:     label,
		TextSize: subSize,
		Color:    theme.Muted,
	})
	for i, item := range items {
		text := ""
		switch v := item.(type) {
		case string:
			text = v
		default:
			if f, ok := toFloat(item); ok {
				text = formatValue(f)
			} else {
				text = fmt.Sprintf("%v", item)
			}
		}
		sc.Add(scene.Element{
			Base:  scene.Base{ID: "ds-" + strconv.Itoa(i), Z: 2, Opacity: 1},
			Shape: scene.ShapeBox,
			X:     x + float64(i)*(dsCellSize+cellGap), Y: y,
			Width: dsCellSize, Height: dsCellSize,
			Fill: theme.Surface, Stroke: theme.Stroke, StrokeWidth: 1,
			Label: text, TextColor: theme.Text, TextSize: subSize,
		})
	}
}
