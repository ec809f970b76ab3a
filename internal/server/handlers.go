package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/dagviewer/pkg/buildinfo"
	"github.com/matzehuels/dagviewer/pkg/config"
	"github.com/matzehuels/dagviewer/pkg/errors"
	"github.com/matzehuels/dagviewer/pkg/pipeline"
	"github.com/matzehuels/dagviewer/pkg/resultset"
	"github.com/matzehuels/dagviewer/pkg/viewer"
)

// updateRequest is one data push from the host: the query result plus the
// host's formatter settings.
type updateRequest struct {
	Results json.RawMessage   `json:"results"`
	Config  map[string]string `json:"config"`
}

type createRequest struct {
	Config map[string]string `json:"config"`
}

type reflowRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type zoomRequest struct {
	Factor float64 `json:"factor"`
}

type panRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type viewerResponse struct {
	ID      string       `json:"id"`
	Mounted bool         `json:"mounted"`
	Empty   bool         `json:"empty"`
	Frame   viewer.Frame `json:"frame"`
	Changed *bool        `json:"changed,omitempty"`
}

type formatResponse struct {
	DOT         string `json:"dot"`
	Rows        int    `json:"rows"`
	Nodes       int    `json:"nodes"`
	StyledNodes int    `json:"styled_nodes"`
	Edges       int    `json:"edges"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// handleFormat converts a result set into DOT without creating a viewer.
func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := decodeJSON(r, w, &req); err != nil {
		s.writeError(w, err)
		return
	}
	rs, err := readRows(req.Results)
	if err != nil {
		s.writeError(w, err)
		return
	}
	doc, stats := s.runner.Format(r.Context(), rs)
	s.writeJSON(w, http.StatusOK, formatResponse{
		DOT:         doc,
		Rows:        stats.Rows,
		Nodes:       stats.Nodes,
		StyledNodes: stats.StyledNodes,
		Edges:       stats.Edges,
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, w, &req); err != nil {
			s.writeError(w, err)
			return
		}
	}

	v := viewer.New()
	st := v.State()
	st.Options = s.options(req.Config)
	v = viewer.Restore(st)

	if err := s.store.Put(r.Context(), v.State()); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Location", "/api/v1/viewers/"+v.ID())
	s.writeJSON(w, http.StatusCreated, response(v, nil))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	v, err := s.load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, response(v, nil))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	err := s.store.Delete(r.Context(), id)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUpdate formats the pushed rows and makes the result current. An
// empty result keeps the previous document on display.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := decodeJSON(r, w, &req); err != nil {
		s.writeError(w, err)
		return
	}
	rs, err := readRows(req.Results)
	if err != nil {
		s.writeError(w, err)
		return
	}
	doc, _ := s.runner.Format(r.Context(), rs)

	s.mutate(w, r, func(v *viewer.Viewer) (bool, error) {
		opts := v.State().Options
		if len(req.Config) > 0 {
			opts = s.options(req.Config)
		}
		v.Update(doc, opts)
		return true, nil
	})
}

func (s *Server) handleReflow(w http.ResponseWriter, r *http.Request) {
	var req reflowRequest
	if err := decodeJSON(r, w, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.mutate(w, r, func(v *viewer.Viewer) (bool, error) {
		_, ok := v.Reflow(req.Width, req.Height)
		return ok, nil
	})
}

func (s *Server) handleZoom(w http.ResponseWriter, r *http.Request) {
	var req zoomRequest
	if err := decodeJSON(r, w, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Factor <= 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "zoom factor must be positive"))
		return
	}
	s.mutate(w, r, func(v *viewer.Viewer) (bool, error) {
		if !v.Zoom(req.Factor) {
			return false, errZoomDisabled()
		}
		return true, nil
	})
}

func (s *Server) handlePan(w http.ResponseWriter, r *http.Request) {
	var req panRequest
	if err := decodeJSON(r, w, &req); err != nil {
		s.writeError(w, err)
		return
	}
	s.mutate(w, r, func(v *viewer.Viewer) (bool, error) {
		if !v.Pan(req.DX, req.DY) {
			return false, errZoomDisabled()
		}
		return true, nil
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, r, func(v *viewer.Viewer) (bool, error) {
		if !v.Reset() {
			return false, errZoomDisabled()
		}
		return true, nil
	})
}

var contentTypes = map[string]string{
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatPNG: "image/png",
	pipeline.FormatDOT: "text/vnd.graphviz; charset=utf-8",
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := errors.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}
	v, err := s.load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	data, hit, err := s.runner.RenderFrame(r.Context(), v.Frame(), format)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Cache-Control", "no-store")
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("write frame", "err", err)
	}
}

// mutate loads a viewer, applies fn and saves the result. fn reports
// whether anything changed; unchanged viewers are not written back.
func (s *Server) mutate(w http.ResponseWriter, r *http.Request, fn func(*viewer.Viewer) (bool, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := r.Context()
	v, err := s.load(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	changed, err := fn(v)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if changed {
		if err := s.store.Put(ctx, v.State()); err != nil {
			s.writeError(w, err)
			return
		}
	}
	s.writeJSON(w, http.StatusOK, response(v, &changed))
}

func (s *Server) load(ctx context.Context, id string) (*viewer.Viewer, error) {
	st, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return viewer.Restore(st), nil
}

// options resolves host settings, falling back to the server's layout when
// the host sends none.
func (s *Server) options(settings map[string]string) config.Options {
	if len(settings) == 0 {
		return s.layout
	}
	return config.FromHost(settings)
}

func readRows(data json.RawMessage) (*resultset.ResultSet, error) {
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return resultset.New(nil), nil
	}
	rs, err := resultset.Read(bytes.NewReader(data), resultset.FormatJSON, resultset.ReadOptions{})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid result set")
	}
	return rs, nil
}

func response(v *viewer.Viewer, changed *bool) viewerResponse {
	f := v.Frame()
	return viewerResponse{
		ID:      v.ID(),
		Mounted: v.Mounted(),
		Empty:   f.Empty(),
		Frame:   f,
		Changed: changed,
	}
}

func errZoomDisabled() error {
	return errors.New(errors.ErrCodeUnsupported, "pan and zoom are disabled for this viewer")
}
