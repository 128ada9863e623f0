package layout

import (
	"reflect"
	"testing"

	"github.com/matzehuels/stepmotion/pkg/scene"
)

func graphState(nodeIDs []string, edges [][2]string) map[string]any {
	nodes := make([]any, len(nodeIDs))
	for i, id := range nodeIDs {
		nodes[i] = map[string]any{"id": id}
	}
	es := make([]any, len(edges))
	for i, e := range edges {
		es[i] = map[string]any{"from": e[0], "to": e[1]}
	}
	return map[string]any{"nodes": nodes, "edges": es}
}

func TestGraphEllipseFallbackDeterministic(t *testing.T) {
	state := graphState([]string{"a", "b", "c", "d"}, nil)

	first := Graph(mkStep(state), testSize(), nil)
	second := Graph(mkStep(state), testSize(), nil)

	for _, id := range []string{"node-a", "node-b", "node-c", "node-d"} {
		n1 := getElement(t, first, id)
		n2 := getElement(t, second, id)
		if n1.X != n2.X || n1.Y != n2.Y {
			t.Errorf("%s moved between runs: (%v,%v) vs (%v,%v)", id, n1.X, n1.Y, n2.X, n2.Y)
		}
	}

	// First node starts at the top of the ellipse (angle -pi/2).
	a := getElement(t, first, "node-a")
	c := getElement(t, first, "node-c")
	if ax := a.X + nodeDiameter/2; ax != 400 {
		t.Errorf("node-a center x = %v, want 400", ax)
	}
	if a.Y >= c.Y {
		t.Error("node-a should sit above node-c on the ellipse")
	}
}

func TestGraphNormalizedPositions(t *testing.T) {
	state := map[string]any{
		"nodes": []any{
			map[string]any{"id": "a", "label": "A", "x": 0.5, "y": 0.5},
			map[string]any{"id": "b", "x": float64(0), "y": float64(0)},
		},
	}
	sc := Graph(mkStep(state), testSize(), nil)

	a := getElement(t, sc, "node-a")
	// x = 48 + 0.5*704 = 400; y = 48 + 0.5*(600-96-80) = 260.
	if cx := a.X + nodeDiameter/2; cx != 400 {
		t.Errorf("node-a center x = %v, want 400", cx)
	}
	if cy := a.Y + nodeDiameter/2; cy != 260 {
		t.Errorf("node-a center y = %v, want 260", cy)
	}
	if a.Label != "A" {
		t.Errorf("node-a label = %q, want %q", a.Label, "A")
	}
	b := getElement(t, sc, "node-b")
	if cx := b.X + nodeDiameter/2; cx != padding {
		t.Errorf("node-b center x = %v, want %v (origin maps to padding)", cx, padding)
	}
	if b.Label != "b" {
		t.Errorf("node-b label = %q, want id fallback", b.Label)
	}
}

func TestGraphTraversalColoring(t *testing.T) {
	theme := scene.DefaultTheme()
	state := graphState([]string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})

	sc := Graph(mkStep(state,
		act("visitNode", map[string]any{"nodeId": "a"}),
		act("visitNode", map[string]any{"nodeId": "b", "color": "#ff0000"}),
		act("setCurrentNode", map[string]any{"nodeId": "c"}),
	), testSize(), nil)

	if got := getElement(t, sc, "node-a").Fill; got != theme.Resolve("visited", theme.Fill) {
		t.Errorf("visited fill = %v, want visited token", got.Hex())
	}
	if got := getElement(t, sc, "node-b").Fill; got != scene.RGB(0xff, 0, 0) {
		t.Errorf("explicit color fill = %v, want #ff0000", got.Hex())
	}
	current := getElement(t, sc, "node-c")
	if current.Stroke != theme.Resolve("active", theme.Stroke) || current.StrokeWidth != 3 {
		t.Errorf("current node stroke = %v width %v, want active/3", current.Stroke.Hex(), current.StrokeWidth)
	}
	if plain := getElement(t, sc, "node-a"); plain.StrokeWidth != 1.5 {
		t.Errorf("non-current stroke width = %v, want 1.5", plain.StrokeWidth)
	}
}

func TestGraphEdgeHighlightIgnoresDirection(t *testing.T) {
	// The edge is stored b->a; the highlight names it a->b.
	state := graphState([]string{"a", "b"}, [][2]string{{"b", "a"}})
	sc := Graph(mkStep(state,
		act("highlightEdge", map[string]any{"from": "a", "to": "b", "color": "active"}),
	), testSize(), nil)

	edge := getConnection(t, sc, "edge-b-a")
	theme := scene.DefaultTheme()
	if edge.Color != theme.Resolve("active", theme.Stroke) {
		t.Errorf("edge color = %v, want active", edge.Color.Hex())
	}
	if edge.Width != 3 {
		t.Errorf("edge width = %v, want 3", edge.Width)
	}
}

func TestGraphMarkPath(t *testing.T) {
	theme := scene.DefaultTheme()
	state := graphState([]string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})
	sc := Graph(mkStep(state,
		act("markPath", map[string]any{"nodeIds": []any{"a", "b"}}),
	), testSize(), nil)

	pathColor := theme.Resolve("success", theme.Fill)
	if got := getElement(t, sc, "node-a").Fill; got != pathColor {
		t.Errorf("path node fill = %v, want success", got.Hex())
	}
	onPath := getConnection(t, sc, "edge-a-b")
	if onPath.Color != pathColor || onPath.Width != 3 {
		t.Errorf("path edge = %v width %v, want success/3", onPath.Color.Hex(), onPath.Width)
	}
	offPath := getConnection(t, sc, "edge-b-c")
	if offPath.Color != theme.Muted || offPath.Width != 1.5 {
		t.Errorf("off-path edge = %v width %v, want muted/1.5", offPath.Color.Hex(), offPath.Width)
	}
}

func TestGraphDistanceBadges(t *testing.T) {
	state := graphState([]string{"a", "b"}, nil)
	sc := Graph(mkStep(state,
		act("updateDistance", map[string]any{"nodeId": "a", "value": float64(7)}),
		act("updateDistance", map[string]any{"nodeId": "b", "value": "∞"}),
	), testSize(), nil)

	if got := getAnnotation(t, sc, "dist-a").Text; got != "7" {
		t.Errorf("dist-a = %q, want 7", got)
	}
	if got := getAnnotation(t, sc, "dist-b").Text; got != "∞" {
		t.Errorf("dist-b = %q, want the raw string", got)
	}
}

func TestGraphWeightedDirectedEdges(t *testing.T) {
	state := map[string]any{
		"nodes": []any{
			map[string]any{"id": "a"},
			map[string]any{"id": "b"},
		},
		"edges": []any{
			map[string]any{"from": "a", "to": "b", "weight": float64(4), "directed": true},
		},
	}
	sc := Graph(mkStep(state), testSize(), nil)

	edge := getConnection(t, sc, "edge-a-b")
	if edge.Label != "4" {
		t.Errorf("edge label = %q, want 4", edge.Label)
	}
	if !edge.ArrowEnd {
		t.Error("directed edge should carry an arrowhead")
	}
}

func TestGraphDataStructurePanel(t *testing.T) {
	state := graphState([]string{"a"}, nil)
	state["dataStructure"] = map[string]any{
		"type":  "queue",
		"label": "Queue",
		"items": []any{"b", float64(3)},
	}
	sc := Graph(mkStep(state), testSize(), nil)

	if got := getAnnotation(t, sc, "ds-label").Text; got != "Queue" {
		t.Errorf("panel label = %q, want Queue", got)
	}
	if got := getElement(t, sc, "ds-0").Label; got != "b" {
		t.Errorf("ds-0 label = %q, want b", got)
	}
	if got := getElement(t, sc, "ds-1").Label; got != "3" {
		t.Errorf("ds-1 label = %q, want 3", got)
	}
}

func TestGraphPurity(t *testing.T) {
	state := graphState([]string{"a", "b"}, [][2]string{{"a", "b"}})
	state["dataStructure"] = map[string]any{"type": "queue", "items": []any{"a"}}
	snapshot := graphState([]string{"a", "b"}, [][2]string{{"a", "b"}})
	snapshot["dataStructure"] = map[string]any{"type": "queue", "items": []any{"a"}}

	step := mkStep(state, act("visitNode", map[string]any{"nodeId": "a"}))
	Graph(step, testSize(), nil)

	if !reflect.DeepEqual(state, snapshot) {
		t.Error("layout mutated the input state")
	}
}

func TestGraphDuplicateNodesAndEdges(t *testing.T) {
	state := graphState(
		[]string{"a", "a", "b"},
		[][2]string{{"a", "b"}, {"a", "b"}},
	)
	sc := Graph(mkStep(state), testSize(), nil)

	if err := sc.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got := countKind(sc, scene.KindElement); got != 2 {
		t.Errorf("element count = %d, want 2 (duplicate node dropped)", got)
	}
	if got := countKind(sc, scene.KindConnection); got != 1 {
		t.Errorf("connection count = %d, want 1 (duplicate edge dropped)", got)
	}
	// First occurrence wins; the surviving ids are the originals.
	getElement(t, sc, "node-a")
	getElement(t, sc, "node-b")
}
