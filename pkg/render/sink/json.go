package sink

import (
	"encoding/json"

	"github.com/matzehuels/stepmotion/pkg/errors"
	"github.com/matzehuels/stepmotion/pkg/scene"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	algorithm string
	step      *int
}

// WithJSONAlgorithm records the source algorithm id in the envelope.
func WithJSONAlgorithm(id string) JSONOption {
	return func(r *jsonRenderer) { r.algorithm = id }
}

// WithJSONStep records the step index the scene was built from.
func WithJSONStep(index int) JSONOption {
	return func(r *jsonRenderer) { r.step = &index }
}

type jsonDoc struct {
	Algorithm string       `json:"algorithm,omitempty"`
	Step      *int         `json:"step,omitempty"`
	Scene     *scene.Scene `json:"scene"`
}

// RenderJSON exports the scene as a pretty-printed JSON document. The
// envelope carries optional provenance (algorithm id, step index) around
// the scene's own kind-tagged serialization, so the output re-imports
// losslessly for re-rendering or external tooling.
func RenderJSON(sc *scene.Scene, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	data, err := json.MarshalIndent(jsonDoc{Algorithm: r.algorithm, Step: r.step, Scene: sc}, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, err, "encode scene json")
	}
	return data, nil
}
