package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/matzehuels/stepmotion/pkg/errors"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// FormatVersion is the current major version of the step format.
// Sequences with any other version are rejected by [Sequence.Validate].
const FormatVersion = 1

// Known trace producers. GeneratedBy is informational and not validated;
// any producer string is accepted.
const (
	GeneratedByTypescript  = "typescript"
	GeneratedByPython      = "python"
	GeneratedByPrecomputed = "precomputed"
)

// =============================================================================
// CodeHighlight - Source Line Mapping
// =============================================================================

// CodeHighlight identifies which lines of source code correspond to the
// current step. Lines are 1-indexed.
type CodeHighlight struct {
	Language string `json:"language"` // Language tab to highlight (e.g., "pseudocode", "python")
	Lines    []int  `json:"lines"`    // 1-indexed line numbers, non-empty
}

// Validate checks the highlight invariants: non-empty language, at least
// one line, all line numbers >= 1.
func (h *CodeHighlight) Validate() error {
	if h.Language == "" {
		return errors.New(errors.ErrCodeInvalidTrace, "codeHighlight.language cannot be empty")
	}
	if len(h.Lines) == 0 {
		return errors.New(errors.ErrCodeInvalidTrace, "codeHighlight.lines cannot be empty")
	}
	for _, n := range h.Lines {
		if n < 1 {
			return errors.New(errors.ErrCodeInvalidTrace, "codeHighlight.lines values must be >= 1, got %d", n)
		}
	}
	return nil
}

// =============================================================================
// Step - One Moment in the Run
// =============================================================================

// Step is a single step in an algorithm's execution trace: a snapshot of
// the algorithm's variables plus the rendering instructions for that moment.
//
// The positional invariant (steps[i].Index == i) and the terminal invariant
// (exactly one terminal step, at the end) are validated at the sequence
// level, because a single Step doesn't know its position in the slice.
type Step struct {
	Index         int            `json:"index"`           // 0-based position in the sequence
	ID            string         `json:"id"`              // Template identifier (e.g., "compare_mid"), not globally unique
	Title         string         `json:"title"`           // Short human-readable heading
	Explanation   string         `json:"explanation"`     // Plain-language narration
	State         map[string]any `json:"state"`           // Snapshot of all algorithm variables
	VisualActions []VisualAction `json:"visualActions"`   // Ordered rendering instructions
	CodeHighlight *CodeHighlight `json:"codeHighlight"`   // Source line mapping (required)
	IsTerminal    bool           `json:"isTerminal"`      // True iff this is the final step
	Phase         string         `json:"phase,omitempty"` // Optional grouping label for phase indicators
}

// Validate checks the per-step invariants.
func (s *Step) Validate() error {
	if s.Index < 0 {
		return errors.New(errors.ErrCodeInvalidTrace, "step index must be non-negative, got %d", s.Index)
	}
	if err := errors.ValidateStepID(s.ID); err != nil {
		return err
	}
	if s.Title == "" {
		return errors.New(errors.ErrCodeInvalidTrace, "step %q: title cannot be empty", s.ID)
	}
	if s.Explanation == "" {
		return errors.New(errors.ErrCodeInvalidTrace, "step %q: explanation cannot be empty", s.ID)
	}
	if s.CodeHighlight == nil {
		return errors.New(errors.ErrCodeInvalidTrace, "step %q: codeHighlight is required", s.ID)
	}
	if err := s.CodeHighlight.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTrace, err, "step %q", s.ID)
	}
	return nil
}

// =============================================================================
// Sequence - A Complete Run
// =============================================================================

// Sequence is a complete, validated sequence of steps produced by a trace
// generator. It is the top-level wire object: one Sequence is one run of
// one algorithm on one set of inputs.
type Sequence struct {
	FormatVersion int            `json:"formatVersion"` // Must equal FormatVersion
	AlgorithmID   string         `json:"algorithmId"`   // Algorithm this sequence was generated for
	Inputs        map[string]any `json:"inputs"`        // Input parameters that produced this run
	Steps         []Step         `json:"steps"`         // Ordered steps, non-empty
	GeneratedAt   string         `json:"generatedAt"`   // ISO 8601 timestamp (kept as string for wire fidelity)
	GeneratedBy   string         `json:"generatedBy"`   // Producer identifier (e.g., "python")
}

// Validate checks all sequence-level invariants and every step.
func (s *Sequence) Validate() error {
	if s.FormatVersion != FormatVersion {
		return errors.New(errors.ErrCodeInvalidTrace,
			"formatVersion must be %d, got %d", FormatVersion, s.FormatVersion)
	}
	if err := errors.ValidateAlgorithmID(s.AlgorithmID); err != nil {
		return err
	}
	if len(s.Steps) == 0 {
		return errors.New(errors.ErrCodeInvalidTrace, "sequence must contain at least one step")
	}

	for i := range s.Steps {
		step := &s.Steps[i]
		if err := step.Validate(); err != nil {
			return err
		}
		if step.Index != i {
			return errors.New(errors.ErrCodeInvalidTrace,
				"step at position %d has index %d (steps[i].index must equal i)", i, step.Index)
		}
		if step.IsTerminal && i != len(s.Steps)-1 {
			return errors.New(errors.ErrCodeInvalidTrace,
				"step at index %d is terminal but not last (only the final step may be terminal)", i)
		}
	}

	if !s.Steps[len(s.Steps)-1].IsTerminal {
		return errors.New(errors.ErrCodeInvalidTrace,
			"the last step must have isTerminal=true")
	}
	return nil
}

// Step returns the step at the given index, or a STEP_OUT_OF_RANGE error.
func (s *Sequence) Step(i int) (*Step, error) {
	if i < 0 || i >= len(s.Steps) {
		return nil, errors.New(errors.ErrCodeStepOutOfRange,
			"step %d out of range [0, %d)", i, len(s.Steps))
	}
	return &s.Steps[i], nil
}

// Hash returns a content hash of the sequence, suitable for cache keys.
// Equal sequences hash equally; any change to inputs, steps, or metadata
// produces a different hash.
func (s *Sequence) Hash() string {
	data, _ := json.Marshal(s)
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
