package cli

import (
	"testing"

	"github.com/matzehuels/stepmotion/pkg/catalog"
	"github.com/matzehuels/stepmotion/pkg/layout"
)

func TestRunLayouts(t *testing.T) {
	if err := runLayouts(layout.Builtin(), catalog.Default()); err != nil {
		t.Fatalf("runLayouts() error: %v", err)
	}
}

func TestJoinOrDash(t *testing.T) {
	if got := joinOrDash(nil); got != "—" {
		t.Errorf("joinOrDash(nil) = %q", got)
	}
	if got := joinOrDash([]string{"bfs", "dfs"}); got != "bfs, dfs" {
		t.Errorf("joinOrDash() = %q", got)
	}
}
