// Package generator is the export orchestrator: it resolves relationships once,
// runs the requested emitters concurrently and collects artifacts and per-target
// failures into one result.
package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"

	"github.com/tordrt/schemaforge/internal/config"
	"github.com/tordrt/schemaforge/internal/formatter"
	"github.com/tordrt/schemaforge/internal/provider"
	"github.com/tordrt/schemaforge/internal/relations"
	"github.com/tordrt/schemaforge/internal/schema"
	"github.com/tordrt/schemaforge/internal/typemap"
	"github.com/tordrt/schemaforge/pkg/logger"
)

// ErrUnknownTarget is the cause recorded for a target id nobody emits
var ErrUnknownTarget = errors.New("unknown target")

// EmitError is a failure of a single target. Sibling targets are unaffected.
type EmitError struct {
	Target  string `json:"target"`
	Message string `json:"message"`
}

func (e EmitError) Error() string {
	return e.Target + ": " + e.Message
}

// Result is the outcome of one generation pass
type Result struct {
	Artifacts []schema.Artifact
	Errors    []EmitError
	Warnings  []relations.Warning
}

// ProgressFunc receives the number of finished targets out of total. Calls are
// serialized and completed only grows.
type ProgressFunc func(completed, total int)

// Generator runs emitters. The zero value is not usable; call New.
type Generator struct {
	log      *logger.Logger
	clock    clockwork.Clock
	progress ProgressFunc
	emitters func(typemap.Target) (formatter.Formatter, bool)
}

// Option configures a Generator
type Option func(*Generator)

// WithLogger sets the logger
func WithLogger(l *logger.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithClock sets the clock used for the documentation timestamp
func WithClock(c clockwork.Clock) Option {
	return func(g *Generator) { g.clock = c }
}

// WithProgress sets the progress callback
func WithProgress(fn ProgressFunc) Option {
	return func(g *Generator) { g.progress = fn }
}

// New creates a generator. Without options it logs nowhere and uses the real clock.
func New(opts ...Option) *Generator {
	g := &Generator{
		log:      logger.Discard(),
		clock:    clockwork.NewRealClock(),
		progress: func(int, int) {},
		emitters: formatter.For,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateFrom loads the project from a provider and generates it
func (g *Generator) GenerateFrom(ctx context.Context, p provider.SchemaProvider, ref string, opts config.Options) (*Result, error) {
	project, err := p.LoadProject(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	return g.Generate(ctx, project, opts)
}

type slot struct {
	id       string
	target   typemap.Target
	artifact *schema.Artifact
	err      *EmitError
}

// Generate emits every requested target. A structural problem (no project, an
// invalid schema or invalid options) is returned as an error before any emitter
// runs. Per-target failures end up in Result.Errors.
//
// When ctx is cancelled, targets that have not started are reported as
// EmitErrors and the partial result is returned together with ctx.Err().
func (g *Generator) Generate(ctx context.Context, project *schema.Project, opts config.Options) (*Result, error) {
	if err := project.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	resolved, warnings := relations.Resolve(project.Schema.Entities, project.Schema.Connections)
	for _, w := range warnings {
		g.log.Warn(w.String())
	}

	in := &formatter.Input{
		Project:     project,
		Resolved:    resolved,
		Options:     opts,
		Dialect:     opts.ResolveDialect(project.DatabaseType),
		GeneratedAt: g.clock.Now().UTC(),
	}

	slots := selectTargets(opts.Targets)
	total := len(slots)
	completed := 0
	var mu sync.Mutex
	done := func() {
		mu.Lock()
		defer mu.Unlock()
		completed++
		g.progress(completed, total)
	}

	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	var group errgroup.Group
	group.SetLimit(limit)

	var cancelled atomic.Bool
	for i := range slots {
		s := &slots[i]
		if s.err != nil {
			g.log.Errorf("target %s: %s", s.id, s.err.Message)
			done()
			continue
		}
		if err := ctx.Err(); err != nil {
			s.err = &EmitError{Target: s.id, Message: err.Error()}
			cancelled.Store(true)
			done()
			continue
		}
		group.Go(func() error {
			defer done()
			if err := ctx.Err(); err != nil {
				cancelled.Store(true)
				s.err = &EmitError{Target: s.id, Message: err.Error()}
				return nil
			}
			g.emit(s, in)
			return nil
		})
	}
	_ = group.Wait()

	res := &Result{Warnings: warnings}
	for _, s := range slots {
		if s.err != nil {
			res.Errors = append(res.Errors, *s.err)
			continue
		}
		res.Artifacts = append(res.Artifacts, *s.artifact)
	}
	g.log.Infof("generated %d artifact(s), %d failure(s)", len(res.Artifacts), len(res.Errors))

	if cancelled.Load() {
		return res, ctx.Err()
	}
	return res, nil
}

// emit runs one emitter, converting errors and panics into an EmitError
func (g *Generator) emit(s *slot, in *formatter.Input) {
	start := g.clock.Now()
	g.log.Debugf("emitting %s", s.target)

	defer func() {
		if r := recover(); r != nil {
			s.artifact = nil
			s.err = &EmitError{Target: s.id, Message: fmt.Sprintf("panic: %v", r)}
			g.log.Errorf("target %s panicked: %v", s.target, r)
		}
	}()

	f, ok := g.emitters(s.target)
	if !ok {
		s.err = &EmitError{Target: s.id, Message: ErrUnknownTarget.Error()}
		return
	}

	var buf bytes.Buffer
	if err := f.Format(&buf, in); err != nil {
		s.err = &EmitError{Target: s.id, Message: err.Error()}
		g.log.Errorf("target %s failed: %v", s.target, err)
		return
	}

	s.artifact = &schema.Artifact{
		Name:    formatter.FileName(in.Project.Name, s.target, in.Options),
		Format:  string(s.target),
		Content: buf.String(),
	}
	g.log.Debugf("emitted %s (%d bytes) in %s", s.artifact.Name, buf.Len(), g.clock.Since(start))
}

// selectTargets parses the requested ids in order, dropping duplicates. An
// empty request selects every target. Unknown ids get a pre-filled error.
func selectTargets(ids []string) []slot {
	if len(ids) == 0 {
		slots := make([]slot, len(typemap.Targets))
		for i, t := range typemap.Targets {
			slots[i] = slot{id: string(t), target: t}
		}
		return slots
	}

	var slots []slot
	seen := make(map[string]bool)
	for _, id := range ids {
		t, err := typemap.ParseTarget(id)
		if err != nil {
			if seen["?"+id] {
				continue
			}
			seen["?"+id] = true
			slots = append(slots, slot{id: id, err: &EmitError{
				Target:  id,
				Message: fmt.Sprintf("%s %q", ErrUnknownTarget, id),
			}})
			continue
		}
		if seen[string(t)] {
			continue
		}
		seen[string(t)] = true
		slots = append(slots, slot{id: string(t), target: t})
	}
	return slots
}
