package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hairizuan-noorazman/uxagent/persona"
	"github.com/hairizuan-noorazman/uxagent/runner"
	"github.com/hairizuan-noorazman/uxagent/storage"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var personaRef, variant, startPath string
	var show bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Launch the agent once for a single persona and variant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s := loadSettings()
			log := newLogger(s)

			p, err := loadSinglePersona(ctx, s, personaRef)
			if err != nil {
				return err
			}

			invoker := newInvoker(runner.EnvironmentFromOS(), s, log)
			outcome, err := invoker.Invoke(ctx, runner.Request{
				Persona:     p,
				Variant:     variant,
				StartPath:   startPath,
				ShowDebugUI: show,
			})
			if err != nil {
				return err
			}
			if !outcome.Succeeded() {
				return fmt.Errorf("Vendor CLI exited with %d", outcome.ExitCode)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&personaRef, "persona", "", "persona file path, or a reference inside the personas source")
	cmd.Flags().StringVar(&variant, "variant", "", "experiment variant label, e.g. A or B")
	cmd.Flags().StringVar(&startPath, "start-path", "", "path on the shop to start from (env: SHOP_START_PATH)")
	cmd.Flags().BoolVar(&show, "show", false, "ask the agent to show its browser UI")
	cmd.MarkFlagRequired("persona")
	cmd.MarkFlagRequired("variant")
	return cmd
}

// loadSinglePersona reads ref as a file on disk when one exists there, and
// from the configured personas source otherwise.
func loadSinglePersona(ctx context.Context, s Settings, ref string) (*persona.Persona, error) {
	if info, err := os.Stat(ref); err == nil && info.Mode().IsRegular() {
		abs, err := filepath.Abs(ref)
		if err != nil {
			return nil, err
		}
		reader, err := storage.NewLocalStorage(filepath.Dir(abs))
		if err != nil {
			return nil, err
		}
		return persona.NewDocumentStore(reader).Load(ctx, filepath.Base(abs))
	}

	store, err := newPersonaStore(ctx, s)
	if err != nil {
		return nil, err
	}
	return store.Load(ctx, ref)
}
