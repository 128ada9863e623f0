package layout

import (
	"sort"
	"sync"

	"github.com/matzehuels/stepmotion/pkg/errors"
)

// Registry maps layout names to layout functions. It is an explicit
// object owned by the composition root (CLI, server, tests) rather than
// package-level state, so tests never leak registrations into each other.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registration
}

type registration struct {
	fn          Func
	description string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registration)}
}

// Register adds a named layout. Names are unique: registering a name
// twice is a configuration error, never a silent replacement.
func (r *Registry) Register(name, description string, fn Func) error {
	if name == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "layout name must not be empty")
	}
	if fn == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "layout %q has a nil function", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[name]; exists {
		return errors.New(errors.ErrCodeInvalidConfig, "layout %q is already registered", name)
	}
	r.entries[name] = registration{fn: fn, description: description}
	return nil
}

// MustRegister is Register for startup wiring, panicking on error.
func (r *Registry) MustRegister(name, description string, fn Func) {
	if err := r.Register(name, description, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the layout function for name. Callers must treat a
// false return as a configuration error (unknown layout in algorithm
// metadata), not substitute a default.
func (r *Registry) Lookup(name string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.entries[name]
	return reg.fn, ok
}

// Names returns all registered layout names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Descriptions returns a copy of the name -> description table.
func (r *Registry) Descriptions() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.entries))
	for name, reg := range r.entries {
		out[name] = reg.description
	}
	return out
}

// Len reports the number of registered layouts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Clear removes every registration. Test harnesses only.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make(map[string]registration)
}

// Builtin returns a fresh registry with every built-in layout installed.
func Builtin() *Registry {
	r := NewRegistry()
	r.MustRegister("linear-array", "Value cells with indices, pointers and range markers", LinearArray)
	r.MustRegister("sorting-array", "Array with compare/swap arcs, partitions and an auxiliary row", SortingArray)
	r.MustRegister("graph", "Nodes and edges with traversal state and a queue/stack panel", Graph)
	r.MustRegister("token-sequence", "Token pills with merge brackets and embedding columns", TokenSequence)
	r.MustRegister("attention-heatmap", "Attention weight matrix with token axis labels", AttentionHeatmap)
	r.MustRegister("network", "Layered neurons with full interconnect and activations", Network)
	r.MustRegister("neuron", "Single unit: inputs, weights, summation and activation", Neuron)
	r.MustRegister("convolution-grid", "Input, kernel and output grids with a sliding window", ConvolutionGrid)
	r.MustRegister("loss-contour", "Loss surface heatmap with descent trajectory", LossContour)
	r.MustRegister("bloch-sphere", "Bloch sphere wireframe with the qubit state arrow", BlochSphere)
	r.MustRegister("quantum-circuit", "Qubit wires with gates along the time axis", QuantumCircuit)
	r.MustRegister("probability-bars", "Basis-state probabilities as labeled bars", ProbabilityBars)
	return r
}
