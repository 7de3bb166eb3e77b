package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aretw0/ordinal"
	"github.com/aretw0/ordinal/pkg/adapters/file"
	"github.com/aretw0/ordinal/pkg/adapters/memory"
	"github.com/aretw0/ordinal/pkg/domain"
	"github.com/aretw0/ordinal/pkg/ports"
	"github.com/aretw0/ordinal/pkg/session"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5"
)

// Server serves the JSON API. Filenames either come in the request body or
// from a directory below Root.
type Server struct {
	Engine   *ordinal.Engine
	Root     string
	Sessions *session.Manager

	doc     *openapi3.T
	router  routers.Router
	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithRoot allows requests to name directories below root. Without it only
// in-body filename lists are accepted.
func WithRoot(root string) Option {
	return func(s *Server) {
		s.Root = root
	}
}

// WithSessions remembers expressions per directory and serializes renames.
func WithSessions(m *session.Manager) Option {
	return func(s *Server) {
		s.Sessions = m
	}
}

// WithMetrics mounts h on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the engine. Requests to
// documented routes are validated against the embedded OpenAPI document.
func NewHandler(ctx context.Context, engine *ordinal.Engine, opts ...Option) (http.Handler, error) {
	doc, err := LoadSpec(ctx)
	if err != nil {
		return nil, err
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build openapi router: %w", err)
	}

	s := &Server{Engine: engine, doc: doc, router: router, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(enableCORS, s.validate)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(rawSpec)
	})
	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/match", s.Match)
	r.Post("/expected", s.Expected)
	r.Post("/gap", s.FindGap)
	r.Post("/run", s.MarkRun)
	r.Post("/plan/{kind}", s.PlanRename)
	r.Post("/rename/{kind}", s.ApplyRename)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// validate rejects requests that do not conform to the OpenAPI document.
// Undocumented routes pass through untouched.
func (s *Server) validate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, params, err := s.router.FindRoute(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: params,
			Route:      route,
		}
		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			s.writeError(w, &requestError{err: err})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "ordinal-http",
		"version":     strings.TrimSpace(ordinal.Version),
		"api_version": s.doc.Info.Version,
	})
}

type matchRequest struct {
	Expression string   `json:"expression"`
	Filenames  []string `json:"filenames"`
}

type matchResult struct {
	Filename string `json:"filename"`
	Ordinal  int    `json:"ordinal"`
	Matched  bool   `json:"matched"`
}

// Match handles the POST /match request.
func (s *Server) Match(w http.ResponseWriter, r *http.Request) {
	var body matchRequest
	if !s.decode(w, r, &body) {
		return
	}
	seq, err := ordinal.Compile(body.Expression)
	if err != nil {
		s.writeError(w, err)
		return
	}

	results := make([]matchResult, 0, len(body.Filenames))
	for _, name := range body.Filenames {
		n, ok := seq.MatchOrdinal(name)
		results = append(results, matchResult{Filename: name, Ordinal: n, Matched: ok})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"expression": body.Expression,
		"results":    results,
	})
}

type expectedRequest struct {
	Expression string `json:"expression"`
	Filename   string `json:"filename"`
	Offset     *int   `json:"offset"`
}

// Expected handles the POST /expected request.
func (s *Server) Expected(w http.ResponseWriter, r *http.Request) {
	var body expectedRequest
	if !s.decode(w, r, &body) {
		return
	}
	offset := 1
	if body.Offset != nil {
		offset = *body.Offset
	}
	name, err := s.Engine.Expected(body.Expression, body.Filename, offset)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"expected": name})
}

type walkRequest struct {
	Expression string   `json:"expression"`
	Filenames  []string `json:"filenames"`
	Dir        string   `json:"dir"`
	From       string   `json:"from"`
}

// walkCursor is satisfied by both the in-memory list and a directory.
type walkCursor interface {
	ordinal.Seeker
	Mark() error
}

// prepareWalk resolves the expression and a positioned cursor for body.
func (s *Server) prepareWalk(ctx context.Context, body walkRequest) (string, walkCursor, string, error) {
	var (
		c   walkCursor
		key string
	)
	if body.Filenames != nil {
		c = memory.NewList(body.Filenames...)
	} else {
		dir, err := s.resolveDir(body.Dir)
		if err != nil {
			return "", nil, "", err
		}
		d, err := file.OpenDir(dir)
		if err != nil {
			return "", nil, "", err
		}
		c, key = d, session.Key(dir)
	}

	expr, err := s.expression(ctx, body.Expression, key)
	if err != nil {
		return "", nil, "", err
	}
	if err := s.Engine.Position(ctx, expr, c, body.From); err != nil {
		return "", nil, "", err
	}
	return expr, c, key, nil
}

// FindGap handles the POST /gap request.
func (s *Server) FindGap(w http.ResponseWriter, r *http.Request) {
	var body walkRequest
	if !s.decode(w, r, &body) {
		return
	}
	expr, c, key, err := s.prepareWalk(r.Context(), body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	gap, err := s.Engine.FindGap(r.Context(), expr, c)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.remember(r.Context(), key, body.Expression)
	s.writeJSON(w, http.StatusOK, gap)
}

// MarkRun handles the POST /run request.
func (s *Server) MarkRun(w http.ResponseWriter, r *http.Request) {
	var body walkRequest
	if !s.decode(w, r, &body) {
		return
	}
	expr, c, key, err := s.prepareWalk(r.Context(), body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	run, err := s.Engine.MarkRun(r.Context(), expr, c)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.remember(r.Context(), key, body.Expression)
	s.writeJSON(w, http.StatusOK, run)
}

type renameRequest struct {
	Expression string   `json:"expression"`
	To         string   `json:"to"`
	Filenames  []string `json:"filenames"`
	Dir        string   `json:"dir"`
	Start      *int     `json:"start"`
	Step       *int     `json:"step"`
	Offset     *int     `json:"offset"`
	DryRun     bool     `json:"dry_run"`
}

type renameResponse struct {
	domain.Plan
	Applied int  `json:"applied"`
	DryRun  bool `json:"dry_run"`
}

// PlanRename handles the POST /plan/{kind} request. Nothing is renamed.
func (s *Server) PlanRename(w http.ResponseWriter, r *http.Request) {
	var body renameRequest
	if !s.decode(w, r, &body) {
		return
	}
	job, err := s.prepare(r, body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	plan, err := s.build(r.Context(), job, body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.remember(r.Context(), job.key, body.Expression)
	s.writeJSON(w, http.StatusOK, renameResponse{Plan: plan, DryRun: true})
}

// ApplyRename handles the POST /rename/{kind} request. Directory renames are
// planned and applied under the directory lock; in-body filename lists are
// only simulated.
func (s *Server) ApplyRename(w http.ResponseWriter, r *http.Request) {
	var body renameRequest
	if !s.decode(w, r, &body) {
		return
	}
	job, err := s.prepare(r, body)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var resp renameResponse
	apply := func(ctx context.Context) error {
		if d, ok := job.target.(*file.Dir); ok {
			if err := d.Reload(); err != nil {
				return err
			}
		}
		plan, err := s.build(ctx, job, body)
		if err != nil {
			return err
		}
		resp = renameResponse{Plan: plan, DryRun: job.target.DryRun()}
		resp.Applied, err = s.Engine.Apply(ctx, plan, job.target)
		return err
	}

	if job.key != "" && s.Sessions != nil {
		err = s.Sessions.WithLock(r.Context(), job.key, apply)
	} else {
		err = apply(r.Context())
	}

	var ae *domain.ApplyError
	if errors.As(err, &ae) {
		s.logger.Warn("rename failed part way", "dir", body.Dir, "applied", resp.Applied, "err", err)
		s.writeJSON(w, statusFor(err), map[string]any{"error": err.Error(), "applied": resp.Applied})
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.remember(r.Context(), job.key, body.Expression)
	s.writeJSON(w, http.StatusOK, resp)
}

// renameTarget receives the renames of an applied plan.
type renameTarget interface {
	ports.Lister
	ports.Renamer
	DryRun() bool
}

// simulation applies renames to an in-memory copy of the names.
type simulation struct {
	list *memory.List
}

var _ renameTarget = simulation{}

func (s simulation) List(ctx context.Context) ([]string, error) { return s.list.List(ctx) }

func (s simulation) Rename(ctx context.Context, from, to string) error {
	return s.list.Rename(ctx, from, to)
}

func (simulation) DryRun() bool { return true }

type renameJob struct {
	kind   domain.RenameKind
	expr   string
	key    string
	target renameTarget
}

// prepare resolves the rename kind, the expression and the target: the
// directory named by body, or a simulation over the filenames it carries.
func (s *Server) prepare(r *http.Request, body renameRequest) (renameJob, error) {
	kind, ok := domain.ParseRenameKind(chi.URLParam(r, "kind"))
	if !ok {
		return renameJob{}, &requestError{err: fmt.Errorf("unknown rename kind %q", chi.URLParam(r, "kind"))}
	}
	if kind == domain.RenameCross && body.To == "" {
		return renameJob{}, &requestError{err: errors.New(`cross rename needs a target expression in "to"`)}
	}

	job := renameJob{kind: kind}
	if body.Filenames != nil {
		job.target = simulation{list: memory.NewList(body.Filenames...)}
	} else {
		dir, err := s.resolveDir(body.Dir)
		if err != nil {
			return renameJob{}, err
		}
		d, err := file.OpenDir(dir, file.WithDryRun(body.DryRun), file.WithDirLogger(s.logger))
		if err != nil {
			return renameJob{}, err
		}
		job.target, job.key = d, session.Key(dir)
	}

	expr, err := s.expression(r.Context(), body.Expression, job.key)
	if err != nil {
		return renameJob{}, err
	}
	job.expr = expr
	return job, nil
}

// build computes a scheduled plan for job. Without explicit filenames the
// files already in the sequence are used, so a sequential rename closes the
// gaps between them.
func (s *Server) build(ctx context.Context, job renameJob, body renameRequest) (domain.Plan, error) {
	names := body.Filenames
	if names == nil {
		listed, err := job.target.List(ctx)
		if err != nil {
			return domain.Plan{}, err
		}
		if names, err = s.Engine.Filter(job.expr, listed); err != nil {
			return domain.Plan{}, err
		}
	}

	plan, err := s.Engine.Plan(ordinal.RenameRequest{
		Kind:       job.kind,
		Expression: job.expr,
		To:         body.To,
		Names:      names,
		Start:      intOr(body.Start, 1),
		Step:       intOr(body.Step, 1),
		Offset:     intOr(body.Offset, 0),
	})
	if err != nil {
		return domain.Plan{}, err
	}
	return ordinal.Schedule(plan)
}

var errNoRoot = &requestError{err: errors.New("server has no root directory; send filenames instead of dir")}

// resolveDir maps a request dir onto the filesystem, refusing anything that
// escapes Root.
func (s *Server) resolveDir(dir string) (string, error) {
	if s.Root == "" {
		return "", errNoRoot
	}
	if dir == "" {
		dir = "."
	}
	if !filepath.IsLocal(dir) {
		return "", &requestError{err: fmt.Errorf("dir %q must be relative to the server root", dir)}
	}
	return filepath.Join(s.Root, dir), nil
}

func (s *Server) expression(ctx context.Context, explicit, key string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if s.Sessions == nil || key == "" {
		return "", &requestError{err: errors.New("expression is required")}
	}
	return s.Sessions.Resolve(ctx, key, "")
}

func (s *Server) remember(ctx context.Context, key, explicit string) {
	if s.Sessions == nil || key == "" || explicit == "" {
		return
	}
	if err := s.Sessions.Remember(ctx, key, explicit); err != nil {
		s.logger.Warn("failed to remember expression", "key", key, "err", err)
	}
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
