package scene

import (
	"encoding/json"

	"github.com/matzehuels/stepmotion/pkg/errors"
)

// =============================================================================
// JSON Encoding
// =============================================================================
//
// Scenes serialize to a flat envelope with kind-tagged primitives:
//
//	{
//	  "width": 800, "height": 600, "background": "#ffffff",
//	  "primitives": [
//	    {"kind": "element", "id": "cell-0", "shape": "box", ...},
//	    {"kind": "annotation", "id": "ptr-i", "form": "pointer", ...}
//	  ]
//	}
//
// The kind tag is what lets decoding recover concrete primitive types from
// the interface slice. Cached scenes and the JSON output sink both use this
// form, so it round-trips losslessly.

type sceneJSON struct {
	Width      float64           `json:"width"`
	Height     float64           `json:"height"`
	Background Color             `json:"background"`
	Primitives []json.RawMessage `json:"primitives"`
}

type kindTag struct {
	Kind Kind `json:"kind"`
}

// MarshalJSON implements json.Marshaler.
func (s *Scene) MarshalJSON() ([]byte, error) {
	env := sceneJSON{
		Width:      s.Width,
		Height:     s.Height,
		Background: s.Background,
		Primitives: make([]json.RawMessage, 0, len(s.Primitives)),
	}
	for _, p := range s.Primitives {
		raw, err := marshalPrimitive(p)
		if err != nil {
			return nil, err
		}
		env.Primitives = append(env.Primitives, raw)
	}
	return json.Marshal(env)
}

func marshalPrimitive(p Primitive) ([]byte, error) {
	switch v := p.(type) {
	case Element:
		return json.Marshal(struct {
			Kind Kind `json:"kind"`
			Element
		}{KindElement, v})
	case Connection:
		return json.Marshal(struct {
			Kind Kind `json:"kind"`
			Connection
		}{KindConnection, v})
	case Container:
		return json.Marshal(struct {
			Kind Kind `json:"kind"`
			Container
		}{KindContainer, v})
	case Annotation:
		return json.Marshal(struct {
			Kind Kind `json:"kind"`
			Annotation
		}{KindAnnotation, v})
	case Overlay:
		return json.Marshal(struct {
			Kind Kind `json:"kind"`
			Overlay
		}{KindOverlay, v})
	}
	return nil, errors.New(errors.ErrCodeInternal, "unknown primitive type %T", p)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Scene) UnmarshalJSON(data []byte) error {
	var env sceneJSON
	if err := json.Unmarshal(data, &env); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode scene")
	}
	s.Width = env.Width
	s.Height = env.Height
	s.Background = env.Background
	s.Primitives = make([]Primitive, 0, len(env.Primitives))
	for i, raw := range env.Primitives {
		p, err := unmarshalPrimitive(raw)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode primitive %d", i)
		}
		s.Primitives = append(s.Primitives, p)
	}
	return nil
}

func unmarshalPrimitive(raw []byte) (Primitive, error) {
	var tag kindTag
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, err
	}
	switch tag.Kind {
	case KindElement:
		var v Element
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case KindConnection:
		var v Connection
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case KindContainer:
		var v Container
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case KindAnnotation:
		var v Annotation
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	case KindOverlay:
		var v Overlay
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return v, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown primitive kind %q", tag.Kind)
}
