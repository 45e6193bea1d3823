package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hairizuan-noorazman/uxagent/internal/uuidutil"
	"github.com/hairizuan-noorazman/uxagent/logger"
	"github.com/hairizuan-noorazman/uxagent/persona"
)

// DefaultComputer selects the remote browser backend of the vendor agent.
const DefaultComputer = "browserbase"

// VendorConfig describes how to start the external automation agent.
type VendorConfig struct {
	// Interpreter runs EntryPoint, e.g. "python3". Empty runs EntryPoint directly.
	Interpreter string
	// EntryPoint is the agent's command-line script.
	EntryPoint string
	// Computer is passed as --computer.
	Computer string
}

// Request asks for one run of the agent.
type Request struct {
	Persona     *persona.Persona
	Variant     string
	Repetition  int
	StartPath   string
	ShowDebugUI bool
}

// Run is a prepared invocation, built fresh for every Request.
type Run struct {
	ID       string
	StartURL string
	Prompt   string
	Command  Command
}

// Outcome is the result of launching a Run.
type Outcome struct {
	RunID    string
	StartURL string
	ExitCode int
}

// Succeeded reports whether the agent exited with code zero.
func (o *Outcome) Succeeded() bool {
	return o.ExitCode == 0
}

// IDSource returns a fresh run identifier.
type IDSource func() string

// Option configures an Invoker.
type Option func(*Invoker)

// WithIDSource replaces the run identifier generator.
func WithIDSource(src IDSource) Option {
	return func(i *Invoker) { i.newID = src }
}

// WithOutput sets where run announcements are printed.
func WithOutput(w io.Writer) Option {
	return func(i *Invoker) { i.out = w }
}

// WithStat replaces the filesystem check for the vendor entry point.
func WithStat(stat func(string) (os.FileInfo, error)) Option {
	return func(i *Invoker) { i.stat = stat }
}

// Invoker builds and launches single agent runs.
type Invoker struct {
	env      Environment
	vendor   VendorConfig
	launcher Launcher
	logger   logger.Logger
	newID    IDSource
	out      io.Writer
	stat     func(string) (os.FileInfo, error)
}

// NewInvoker creates an invoker that reads credentials from env.
func NewInvoker(env Environment, vendor VendorConfig, launcher Launcher, log logger.Logger, opts ...Option) *Invoker {
	if vendor.Computer == "" {
		vendor.Computer = DefaultComputer
	}
	i := &Invoker{
		env:      env,
		vendor:   vendor,
		launcher: launcher,
		logger:   log,
		newID:    uuidutil.ShortID,
		out:      os.Stdout,
		stat:     os.Stat,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Prepare checks preconditions and builds the run id, start URL, prompt and
// command line for req without launching anything.
func (i *Invoker) Prepare(req Request) (*Run, error) {
	if err := RequireEnv(i.env, RequiredKeys...); err != nil {
		return nil, err
	}
	if req.Persona == nil {
		return nil, fmt.Errorf("%w: persona is required", ErrInvalidRequest)
	}
	if req.Variant == "" {
		return nil, fmt.Errorf("%w: variant is required", ErrInvalidRequest)
	}

	startPath := req.StartPath
	if startPath == "" {
		startPath = i.env.Get(EnvShopStartPath)
	}
	if startPath == "" {
		startPath = "/"
	}

	runID := i.newID()
	startURL := BuildStartURL(i.env.Get(EnvShopBaseDomain), startPath, req.Persona.ID, req.Variant, runID)
	prompt, err := BuildPrompt(req.Persona, startURL)
	if err != nil {
		return nil, err
	}

	return &Run{
		ID:       runID,
		StartURL: startURL,
		Prompt:   prompt,
		Command:  i.command(startURL, prompt, req.ShowDebugUI),
	}, nil
}

// Invoke prepares and launches one run and waits for it to exit. The exit
// code is returned as-is; deciding what a non-zero code means is up to the
// caller.
func (i *Invoker) Invoke(ctx context.Context, req Request) (*Outcome, error) {
	run, err := i.Prepare(req)
	if err != nil {
		return nil, err
	}

	if _, err := i.stat(i.vendor.EntryPoint); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &VendorEntrypointMissingError{Path: i.vendor.EntryPoint}
		}
		return nil, fmt.Errorf("failed to check vendor entry point: %w", err)
	}

	fmt.Fprintf(i.out, "[run %s] persona=%s variant=%s url=%s\n", run.ID, req.Persona.ID, req.Variant, run.StartURL)

	log := i.logger.WithFields(map[string]interface{}{
		"run_id":  run.ID,
		"persona": req.Persona.ID,
		"variant": req.Variant,
	})
	log.Debug(ctx, "launching agent", map[string]interface{}{
		"path": run.Command.Path,
		"args": run.Command.Args,
	})

	code, err := i.launcher.Launch(ctx, run.Command)
	if err != nil {
		return nil, err
	}

	log.Info(ctx, "agent exited", map[string]interface{}{
		"exit_code": code,
	})

	return &Outcome{RunID: run.ID, StartURL: run.StartURL, ExitCode: code}, nil
}

func (i *Invoker) command(startURL, prompt string, show bool) Command {
	args := []string{
		"--computer", i.vendor.Computer,
		"--start-url", startURL,
		"--input", prompt,
	}
	if show {
		args = append(args, "--show")
	}

	path := i.vendor.EntryPoint
	if i.vendor.Interpreter != "" {
		path = i.vendor.Interpreter
		args = append([]string{i.vendor.EntryPoint}, args...)
	}

	return Command{Path: path, Args: args, Env: i.env.Slice()}
}
