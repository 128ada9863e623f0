package sink

import (
	"bytes"
	"image/gif"
	"testing"

	"github.com/matzehuels/stepmotion/pkg/render"
	"github.com/matzehuels/stepmotion/pkg/scene"
)

func gifScenes() []*scene.Scene {
	s1 := scene.New(50, 40, scene.RGB(255, 255, 255))
	s1.Add(scene.Element{
		Base:  scene.Base{ID: "a", Opacity: 1},
		Shape: scene.ShapeBox,
		X:     5, Y: 5, Width: 10, Height: 10,
		Fill: scene.RGB(255, 0, 0),
	})
	s2 := scene.New(50, 40, scene.RGB(255, 255, 255))
	s2.Add(scene.Element{
		Base:  scene.Base{ID: "a", Opacity: 1},
		Shape: scene.ShapeBox,
		X:     30, Y: 5, Width: 10, Height: 10,
		Fill: scene.RGB(255, 0, 0),
	})
	return []*scene.Scene{s1, s2}
}

func TestRenderGIFFramePlan(t *testing.T) {
	data, err := RenderGIF(gifScenes(),
		WithFPS(10), WithTransitionFrames(2), WithEasing(render.EaseLinear))
	if err != nil {
		t.Fatalf("RenderGIF() error = %v", err)
	}

	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("gif.DecodeAll() error = %v", err)
	}

	// First scene held, then two transition frames; the final one is the
	// committed step and holds too.
	if len(g.Image) != 3 {
		t.Fatalf("frame count = %d, want 3", len(g.Image))
	}
	wantDelays := []int{100, 10, 100}
	for i, d := range g.Delay {
		if d != wantDelays[i] {
			t.Errorf("Delay[%d] = %d, want %d", i, d, wantDelays[i])
		}
	}

	b := g.Image[0].Bounds()
	if b.Dx() != 50 || b.Dy() != 40 {
		t.Errorf("frame size = %dx%d, want 50x40", b.Dx(), b.Dy())
	}
	if g.LoopCount != 0 {
		t.Errorf("LoopCount = %d, want 0 (loop forever)", g.LoopCount)
	}
}

func TestRenderGIFScale(t *testing.T) {
	data, err := RenderGIF(gifScenes(), WithTransitionFrames(1), WithScale(0.5))
	if err != nil {
		t.Fatalf("RenderGIF() error = %v", err)
	}

	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("gif.DecodeAll() error = %v", err)
	}
	b := g.Image[0].Bounds()
	if b.Dx() != 25 || b.Dy() != 20 {
		t.Errorf("scaled frame size = %dx%d, want 25x20", b.Dx(), b.Dy())
	}
}

func TestRenderGIFSingleScene(t *testing.T) {
	data, err := RenderGIF(gifScenes()[:1])
	if err != nil {
		t.Fatalf("RenderGIF() error = %v", err)
	}
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("gif.DecodeAll() error = %v", err)
	}
	if len(g.Image) != 1 {
		t.Errorf("frame count = %d, want 1", len(g.Image))
	}
}

func TestRenderGIFEmpty(t *testing.T) {
	if _, err := RenderGIF(nil); err == nil {
		t.Error("RenderGIF(nil) error = nil, want invalid input")
	}
}
