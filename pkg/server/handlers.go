package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/stepmotion/pkg/catalog"
	"github.com/matzehuels/stepmotion/pkg/errors"
	"github.com/matzehuels/stepmotion/pkg/observability"
	"github.com/matzehuels/stepmotion/pkg/pipeline"
	"github.com/matzehuels/stepmotion/pkg/render/sink"
	"github.com/matzehuels/stepmotion/pkg/scene"
	"github.com/matzehuels/stepmotion/pkg/trace"
)

// maxThumbnailWidth caps the w= query parameter so a single request cannot
// ask for an arbitrarily large resample.
const maxThumbnailWidth = 2048

// algorithmInfo is a catalog entry plus whether the store holds a trace
// for it.
type algorithmInfo struct {
	catalog.Algorithm
	HasTrace bool `json:"hasTrace"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListAlgorithms(w http.ResponseWriter, r *http.Request) {
	stored := map[string]bool{}
	if s.store != nil {
		ids, err := s.store.List(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		for _, id := range ids {
			stored[id] = true
		}
	}

	infos := make([]algorithmInfo, 0, s.catalog.Len())
	for _, alg := range s.catalog.List() {
		infos = append(infos, algorithmInfo{Algorithm: alg, HasTrace: stored[alg.ID]})
		delete(stored, alg.ID)
	}
	// Traces the catalog doesn't describe are still renderable when the
	// sequence names a registered layout via an explicit override, so list
	// them rather than hiding them.
	for id := range stored {
		infos = append(infos, algorithmInfo{Algorithm: catalog.Algorithm{ID: id}, HasTrace: true})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"algorithms": infos})
}

func (s *Server) handleGetAlgorithm(w http.ResponseWriter, r *http.Request) {
	alg, err := s.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, alg)
}

func (s *Server) handleGetSteps(w http.ResponseWriter, r *http.Request) {
	seq, err := s.loadSequence(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := trace.WriteSequence(seq, w); err != nil {
		s.logger.Error("write steps response", "error", err)
	}
}

// handleGetFrame renders one step as PNG. Query parameters: t samples the
// transition from the previous step at progress t in [0,1] (default 1, the
// committed step); w resamples the result to a thumbnail width.
func (s *Server) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	seq, err := s.loadSequence(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	step, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput,
			"step must be an integer, got %q", chi.URLParam(r, "step")))
		return
	}
	if step < 0 || step >= len(seq.Steps) {
		s.writeError(w, r, errors.New(errors.ErrCodeStepOutOfRange,
			"step %d out of range [0, %d)", step, len(seq.Steps)))
		return
	}

	t := 1.0
	if raw := r.URL.Query().Get("t"); raw != "" {
		t, err = strconv.ParseFloat(raw, 64)
		if err != nil || t < 0 || t > 1 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput,
				"t must be a number in [0,1], got %q", raw))
			return
		}
	}

	thumbWidth := 0
	if raw := r.URL.Query().Get("w"); raw != "" {
		thumbWidth, err = strconv.Atoi(raw)
		if err != nil || thumbWidth <= 0 || thumbWidth > maxThumbnailWidth {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput,
				"w must be in [1, %d], got %q", maxThumbnailWidth, raw))
			return
		}
	}

	opts := pipeline.Options{}
	scenes, err := s.runner.ComputeScenes(r.Context(), seq, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	frame := scenes[step]
	if t < 1 && step > 0 {
		frame = scene.InterpolateScene(scene.PlanTransition(scenes[step-1], scenes[step]), t)
	}

	data, err := s.encodeFrame(frame, thumbWidth)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(data)
}

func (s *Server) encodeFrame(frame *scene.Scene, thumbWidth int) ([]byte, error) {
	data, err := sink.RenderPNG(frame)
	if err != nil {
		return nil, err
	}
	if thumbWidth == 0 {
		return data, nil
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, err, "decode frame for resize")
	}
	resized := imaging.Resize(img, thumbWidth, 0, imaging.Lanczos)
	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, err, "encode thumbnail")
	}
	return buf.Bytes(), nil
}

func (s *Server) handleGetAnimation(w http.ResponseWriter, r *http.Request) {
	seq, err := s.loadSequence(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), seq, pipeline.Options{
		Formats: []string{pipeline.FormatGIF},
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/gif")
	_, _ = w.Write(result.Artifacts[pipeline.FormatGIF])
}

// loadSequence fetches the sequence for the {id} route parameter.
func (s *Server) loadSequence(r *http.Request) (*trace.Sequence, error) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateAlgorithmID(id); err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, errors.New(errors.ErrCodeTraceNotFound, "no trace store configured")
	}
	return s.store.Get(r.Context(), id)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// writeError maps coded errors onto HTTP statuses and a stable JSON shape.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(errors.GetCode(err))
	if status >= http.StatusInternalServerError {
		observability.Server().OnError(r.Context(), r.Method, r.URL.Path, err)
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
			"request_id", RequestID(r.Context()))
	}
	s.writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeNotFound, errors.ErrCodeTraceNotFound,
		errors.ErrCodeCatalogNotFound, errors.ErrCodeLayoutNotFound,
		errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidTrace,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidLayout,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidTheme,
		errors.ErrCodeStepOutOfRange, errors.ErrCodeUnsupported:
		return http.StatusBadRequest
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
