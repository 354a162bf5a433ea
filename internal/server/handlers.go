package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/hexboard/pkg/board"
	"github.com/matzehuels/hexboard/pkg/buildinfo"
	"github.com/matzehuels/hexboard/pkg/errors"
	"github.com/matzehuels/hexboard/pkg/geom"
	"github.com/matzehuels/hexboard/pkg/httputil"
	"github.com/matzehuels/hexboard/pkg/pipeline"
	"github.com/matzehuels/hexboard/pkg/shapes/hexagon"
)

// contentTypes maps render formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatSVG:      "image/svg+xml",
	pipeline.FormatPNG:      "image/png",
	pipeline.FormatDOT:      "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatJSON:     "application/json",
	pipeline.FormatBindings: "image/svg+xml",
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = httputil.WriteJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

type pointsRequest struct {
	Size     geom.Size `json:"size"`
	Offset   float64   `json:"offset"`
	Rotation float64   `json:"rotation"`
}

type pointsResponse struct {
	Points   geom.Polygon `json:"points"`
	Centroid geom.Point   `json:"centroid"`
}

func (s *Server) handlePoints(w http.ResponseWriter, r *http.Request) {
	var req pointsRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	_ = httputil.WriteJSON(w, http.StatusOK, pointsResponse{
		Points:   hexagon.Points(req.Size, req.Offset, req.Rotation),
		Centroid: hexagon.Centroid(req.Size),
	})
}

func (s *Server) handlePath(w http.ResponseWriter, r *http.Request) {
	var req pipeline.HexagonRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.runner.RenderHexagon(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_ = httputil.WriteJSON(w, http.StatusOK, res)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := renderOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	page, err := board.ReadPage(http.MaxBytesReader(w, r.Body, httputil.MaxBodyBytes))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	def := s.style
	opts.DefaultStyle = &def
	result, err := s.runner.Render(r.Context(), page, opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	format := opts.Formats[0]
	cacheStatus := "miss"
	if result.CacheInfo.RenderHit {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache", cacheStatus)
	w.Header().Set("ETag", strconv.Quote(result.PageHash))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// renderOptions reads render options from the query string. One format is
// rendered per request.
func renderOptions(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{Formats: []string{pipeline.FormatSVG}}
	if f := q.Get("format"); f != "" {
		if err := pipeline.ValidateFormat(f); err != nil {
			return opts, err
		}
		opts.Formats = []string{f}
	}

	var err error
	if opts.Indicators, err = boolParam(q.Get("indicators")); err != nil {
		return opts, err
	}
	if opts.Labels, err = boolParam(q.Get("labels")); err != nil {
		return opts, err
	}
	if opts.Refresh, err = boolParam(q.Get("refresh")); err != nil {
		return opts, err
	}
	if v := q.Get("scale"); v != "" {
		if opts.Scale, err = strconv.ParseFloat(v, 64); err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q", v)
		}
	}
	return opts, nil
}

func boolParam(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.New(errors.ErrCodeInvalidInput, "invalid boolean %q", v)
	}
	return b, nil
}

// pageParams returns the workspace and page ids from the URL.
func pageParams(r *http.Request) (string, string, error) {
	workspace, page := chi.URLParam(r, "workspace"), chi.URLParam(r, "page")
	if err := errors.ValidateID("workspace", workspace); err != nil {
		return "", "", err
	}
	if err := errors.ValidateID("page", page); err != nil {
		return "", "", err
	}
	return workspace, page, nil
}

func (s *Server) handleGetPage(w http.ResponseWriter, r *http.Request) {
	workspace, pageID, err := pageParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	page, err := s.syncer.LoadPage(r.Context(), workspace, pageID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_ = httputil.WriteJSON(w, http.StatusOK, page)
}

func (s *Server) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	workspace, pageID, err := pageParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	root, err := s.syncer.EnsureRoot(r.Context(), workspace, pageID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_ = httputil.WriteJSON(w, http.StatusOK, root)
}

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	workspace, pageID, err := pageParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var ch board.PageChange
	if err := httputil.DecodeJSON(w, r, &ch); err != nil {
		s.fail(w, r, err)
		return
	}
	ch.Workspace, ch.RootBlockID = workspace, pageID

	res, err := s.syncer.ApplyPageChange(r.Context(), ch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	_ = httputil.WriteJSON(w, http.StatusOK, res)
}

// fail writes err and logs it when it is not the client's fault.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := httputil.WriteError(w, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
}
