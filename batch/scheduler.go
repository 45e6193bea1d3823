package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hairizuan-noorazman/uxagent/experiment"
	"github.com/hairizuan-noorazman/uxagent/logger"
	"github.com/hairizuan-noorazman/uxagent/persona"
	"github.com/hairizuan-noorazman/uxagent/runner"
)

// Invoker launches a single run and waits for it.
type Invoker interface {
	Invoke(ctx context.Context, req runner.Request) (*runner.Outcome, error)
}

// Sleeper pauses between runs. It returns early with an error when ctx ends.
type Sleeper func(ctx context.Context, d time.Duration) error

// Cell is one (persona, variant, repetition) entry of the run matrix.
type Cell struct {
	Persona    string
	Variant    string
	Repetition int // zero-based
	Total      int // repetitions for this persona and variant
}

// Summary describes a finished batch.
type Summary struct {
	Planned   int
	Completed int
	Duration  time.Duration
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithSleeper replaces the pause between runs.
func WithSleeper(sleep Sleeper) Option {
	return func(s *Scheduler) { s.sleep = sleep }
}

// WithOutput sets where progress lines are printed.
func WithOutput(w io.Writer) Option {
	return func(s *Scheduler) { s.out = w }
}

// Scheduler runs every cell of an experiment matrix, one at a time, and stops
// at the first failure.
type Scheduler struct {
	invoker  Invoker
	personas persona.Store
	logger   logger.Logger
	sleep    Sleeper
	out      io.Writer
}

// NewScheduler creates a scheduler.
func NewScheduler(invoker Invoker, personas persona.Store, log logger.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		invoker:  invoker,
		personas: personas,
		logger:   log,
		sleep:    sleepContext,
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plan lists the cells of cfg in execution order: personas in declaration
// order, then variants in declaration order, then repetitions.
func Plan(cfg *experiment.Config) []Cell {
	cells := make([]Cell, 0, cfg.TotalRuns())
	for _, p := range cfg.Personas {
		for _, v := range cfg.Variants {
			for i := 0; i < cfg.RunsPerCombination; i++ {
				cells = append(cells, Cell{Persona: p, Variant: v, Repetition: i, Total: cfg.RunsPerCombination})
			}
		}
	}
	return cells
}

// Run executes the batch described by cfg.
func (s *Scheduler) Run(ctx context.Context, cfg *experiment.Config) error {
	_, err := s.RunWithSummary(ctx, cfg)
	return err
}

// RunWithSummary executes the batch and reports how many runs completed.
// The summary is returned even when the batch fails.
func (s *Scheduler) RunWithSummary(ctx context.Context, cfg *experiment.Config) (*Summary, error) {
	if cfg == nil {
		return nil, &ConfigurationError{Err: errors.New("experiment config is required")}
	}
	if s.invoker == nil {
		return nil, &ConfigurationError{Err: errors.New("run invoker is not configured")}
	}
	if s.personas == nil {
		return nil, &ConfigurationError{Err: errors.New("persona store is not configured")}
	}

	cfg = cfg.Clone()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, &ConfigurationError{Err: err}
	}

	started := time.Now()
	summary := &Summary{Planned: cfg.TotalRuns()}
	s.logger.Info(ctx, "starting batch", map[string]interface{}{
		"personas":   len(cfg.Personas),
		"variants":   cfg.Variants,
		"runs_per":   cfg.RunsPerCombination,
		"total_runs": summary.Planned,
	})

	for _, ref := range cfg.Personas {
		p, err := s.loadPersona(ctx, ref)
		if err != nil {
			return summary, err
		}

		for _, variant := range cfg.Variants {
			for i := 0; i < cfg.RunsPerCombination; i++ {
				cell := Cell{Persona: ref, Variant: variant, Repetition: i, Total: cfg.RunsPerCombination}
				if err := s.runCell(ctx, cfg, cell, p); err != nil {
					summary.Duration = time.Since(started)
					return summary, err
				}
				summary.Completed++

				if cfg.InterRunDelay > 0 {
					if err := s.sleep(ctx, cfg.InterRunDelay); err != nil {
						summary.Duration = time.Since(started)
						return summary, err
					}
				}
			}
		}
	}

	summary.Duration = time.Since(started)
	s.logger.Info(ctx, "batch completed", map[string]interface{}{
		"completed": summary.Completed,
		"duration":  summary.Duration.String(),
	})
	return summary, nil
}

func (s *Scheduler) loadPersona(ctx context.Context, ref string) (*persona.Persona, error) {
	ok, err := s.personas.Exists(ctx, ref)
	if err != nil {
		return nil, &ConfigurationError{Err: fmt.Errorf("persona %s: %w", ref, err)}
	}
	if !ok {
		return nil, &PersonaNotFoundError{Persona: ref, Location: s.personas.Location(ref)}
	}

	p, err := s.personas.Load(ctx, ref)
	if err != nil {
		if errors.Is(err, persona.ErrPersonaNotFound) {
			return nil, &PersonaNotFoundError{Persona: ref, Location: s.personas.Location(ref)}
		}
		return nil, &ConfigurationError{Err: err}
	}
	return p, nil
}

func (s *Scheduler) runCell(ctx context.Context, cfg *experiment.Config, cell Cell, p *persona.Persona) error {
	fmt.Fprintf(s.out, "[batch] start persona=%s variant=%s iter=%d/%d\n", cell.Persona, cell.Variant, cell.Repetition+1, cell.Total)

	outcome, err := s.invoker.Invoke(ctx, runner.Request{
		Persona:     p,
		Variant:     cell.Variant,
		Repetition:  cell.Repetition,
		StartPath:   cfg.StartPath,
		ShowDebugUI: cfg.ShowDebugUI,
	})
	if err != nil {
		return err
	}

	if !outcome.Succeeded() {
		s.logger.Error(ctx, "run failed, aborting batch", map[string]interface{}{
			"persona":   cell.Persona,
			"variant":   cell.Variant,
			"run_id":    outcome.RunID,
			"exit_code": outcome.ExitCode,
		})
		return &ChildRunFailedError{
			Persona:    cell.Persona,
			Variant:    cell.Variant,
			Repetition: cell.Repetition,
			RunID:      outcome.RunID,
			ExitCode:   outcome.ExitCode,
		}
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
