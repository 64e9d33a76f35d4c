package server

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/matzehuels/precedence/pkg/buildinfo"
	"github.com/matzehuels/precedence/pkg/cache"
	"github.com/matzehuels/precedence/pkg/errors"
	"github.com/matzehuels/precedence/pkg/io"
	"github.com/matzehuels/precedence/pkg/observability"
	"github.com/matzehuels/precedence/pkg/pipeline"
	"github.com/matzehuels/precedence/pkg/render"
	"github.com/matzehuels/precedence/pkg/rules"
)

// CheckRequest is the body of POST /v1/check. Either Path or Rules must be
// set.
type CheckRequest struct {
	Rules     []string `json:"rules,omitempty"`
	Sequences []string `json:"sequences,omitempty"`
	Path      string   `json:"path,omitempty"`
	pipeline.Options
}

// ReorderRequest is the body of POST /v1/reorder.
type ReorderRequest struct {
	Rules    []string `json:"rules"`
	Sequence string   `json:"sequence"`
	pipeline.Options
}

// GraphRequest is the body of POST /v1/graph.
type GraphRequest struct {
	Rules    []string `json:"rules"`
	Sequence string   `json:"sequence,omitempty"`
	Scoped   bool     `json:"scoped,omitempty"`
	Format   string   `json:"format,omitempty"`
}

// Health is the body of GET /healthz.
type Health struct {
	Status   string                 `json:"status"`
	Version  string                 `json:"version"`
	Counters observability.Snapshot `json:"counters"`
}

var contentTypes = map[string]string{
	render.FormatDOT: "text/vnd.graphviz; charset=utf-8",
	render.FormatSVG: "image/svg+xml",
	render.FormatPDF: "application/pdf",
	render.FormatPNG: "image/png",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Health{
		Status:   "ok",
		Version:  buildinfo.Version,
		Counters: s.counters.Snapshot(),
	})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	in, err := s.checkInput(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.options(req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	key := s.runner.Keyer.ReportKey(inputHash(in, opts), opts.ReorderKeyOpts())
	if !opts.Refresh {
		if data, ok, _ := s.runner.Cache.Get(r.Context(), key); ok {
			observability.Cache().OnCacheHit(r.Context(), "report")
			w.Header().Set("X-Cache", "hit")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write(data)
			return
		}
		observability.Cache().OnCacheMiss(r.Context(), "report")
	}

	result, err := s.runner.Execute(r.Context(), in, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := io.WriteJSON(result.Report(), &buf); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode report"))
		return
	}
	if transient(result) {
		s.logger.Debug("report not cached", "reason", "timed out or canceled sequences")
	} else if err := s.runner.Cache.Set(r.Context(), key, buf.Bytes(), cache.DefaultTTL); err != nil {
		s.logger.Warn("cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(r.Context(), "report", buf.Len())
	}

	w.Header().Set("X-Cache", "miss")
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateLimits(len(req.Rules), 1, s.cfg.MaxRules, 0); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.options(req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	in := io.NewInput(req.Rules, []string{req.Sequence})
	if len(in.Sequences) == 0 {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "no sequence given"))
		return
	}
	result, err := s.runner.Execute(r.Context(), in, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Sequences[0].Report())
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	var req GraphRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := errors.ValidateLimits(len(req.Rules), 0, s.cfg.MaxRules, 0); err != nil {
		s.writeError(w, r, err)
		return
	}

	g, err := pipeline.BuildGraph(io.NewInput(req.Rules, nil))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var seq rules.Sequence
	if req.Sequence != "" {
		if seq, err = pipeline.ParseSequenceLine(io.Line{No: 1, Text: req.Sequence}); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	data, err := pipeline.RenderGraph(g, pipeline.GraphOptions{
		Format:   req.Format,
		Sequence: seq,
		Scoped:   req.Scoped,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := req.Format
	if format == "" {
		format = pipeline.DefaultFormat
	}
	w.Header().Set("Content-Type", contentTypes[format])
	_, _ = w.Write(data)
}

// checkInput resolves the input of a check request and enforces the limits.
func (s *Server) checkInput(req CheckRequest) (*io.Input, error) {
	var in *io.Input
	switch {
	case req.Path != "" && len(req.Rules) > 0:
		return nil, errors.New(errors.ErrCodeInvalidInput, "give either path or rules, not both")
	case req.Path != "":
		if s.cfg.Root == "" {
			return nil, errors.New(errors.ErrCodeInvalidPath, "file input is disabled")
		}
		if err := errors.ValidatePath(req.Path); err != nil {
			return nil, err
		}
		full := filepath.Join(s.cfg.Root, filepath.FromSlash(req.Path))
		if _, err := os.Stat(full); os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "%s not found", req.Path)
		}
		var err error
		if in, err = io.ImportFile(full); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", req.Path)
		}
	default:
		in = io.NewInput(req.Rules, req.Sequences)
	}

	if err := errors.ValidateLimits(len(in.Rules), len(in.Sequences), s.cfg.MaxRules, s.cfg.MaxSequences); err != nil {
		return nil, err
	}
	return in, nil
}

// options merges request options over the server defaults and caps the
// timeout.
func (s *Server) options(req pipeline.Options) (pipeline.Options, error) {
	opts := s.cfg.Defaults
	if req.Acceptance != "" {
		opts.Acceptance = req.Acceptance
	}
	if req.Winner != "" {
		opts.Winner = req.Winner
	}
	if req.Strategy != "" {
		opts.Strategy = req.Strategy
	}
	if req.Parallelism != 0 {
		opts.Parallelism = req.Parallelism
	}
	if req.Timeout != 0 {
		opts.Timeout = req.Timeout
	}
	opts.KeepGoing = opts.KeepGoing || req.KeepGoing
	opts.SkipMalformed = opts.SkipMalformed || req.SkipMalformed
	opts.Refresh = req.Refresh
	opts.Logger = s.logger

	if opts.Timeout <= 0 || opts.Timeout > s.cfg.MaxTimeout {
		opts.Timeout = s.cfg.MaxTimeout
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	return opts, nil
}

// transient reports whether a sequence of result failed for a reason that a
// later request may not hit, such as its search timing out.
func transient(result *pipeline.Result) bool {
	for _, sr := range result.Sequences {
		switch errors.GetCode(sr.Err) {
		case errors.ErrCodeTimeout, errors.ErrCodeCanceled:
			return true
		}
	}
	return false
}

// inputHash identifies an input together with the options that change its
// report beyond the search itself.
func inputHash(in *io.Input, opts pipeline.Options) string {
	var buf bytes.Buffer
	_ = io.WriteInput(in, &buf)
	fmt.Fprintf(&buf, "\nkeep_going=%t skip_malformed=%t", opts.KeepGoing, opts.SkipMalformed)
	return cache.Hash(buf.Bytes())
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return err
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
