package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/hairizuan-noorazman/uxagent/logger"
	"github.com/hairizuan-noorazman/uxagent/persona"
	"github.com/hairizuan-noorazman/uxagent/runner"
	"github.com/hairizuan-noorazman/uxagent/storage"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Settings holds the runner's own configuration, as opposed to the
// experiment being run.
type Settings struct {
	Vendor   runner.VendorConfig
	Personas storage.Config
	Log      LogSettings
}

// LogSettings holds logging configuration.
type LogSettings struct {
	Level  string
	Format string
}

var cfg *viper.Viper

// loadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

func initSettings() error {
	cfg = viper.New()

	if flagSettingsFile != "" {
		cfg.SetConfigFile(flagSettingsFile)
	} else {
		cfg.SetConfigName(".uxagent")
		cfg.SetConfigType("yaml")
		cfg.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			cfg.AddConfigPath(home)
		}
	}

	cfg.SetEnvPrefix("UXAGENT")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault("vendor.interpreter", "python3")
	cfg.SetDefault("vendor.entrypoint", "vendor/openai-cua-sample-app/cli.py")
	cfg.SetDefault("vendor.computer", runner.DefaultComputer)

	cfg.SetDefault("personas.source", storage.SourceLocal)
	cfg.SetDefault("personas.dir", "personas")
	cfg.SetDefault("personas.s3_bucket", "")
	cfg.SetDefault("personas.s3_region", "us-east-1")
	cfg.SetDefault("personas.s3_prefix", "")

	cfg.SetDefault("log.level", "warn")
	cfg.SetDefault("log.format", logger.FormatText)

	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read settings file: %w", err)
		}
	}

	// CLI flags take highest priority
	if flagLogLevel != "" {
		cfg.Set("log.level", flagLogLevel)
	}
	if flagLogFormat != "" {
		cfg.Set("log.format", flagLogFormat)
	}

	return nil
}

func loadSettings() Settings {
	return Settings{
		Vendor: runner.VendorConfig{
			Interpreter: cfg.GetString("vendor.interpreter"),
			EntryPoint:  cfg.GetString("vendor.entrypoint"),
			Computer:    cfg.GetString("vendor.computer"),
		},
		Personas: storage.Config{
			Source:   cfg.GetString("personas.source"),
			BaseDir:  cfg.GetString("personas.dir"),
			S3Bucket: cfg.GetString("personas.s3_bucket"),
			S3Region: cfg.GetString("personas.s3_region"),
			S3Prefix: cfg.GetString("personas.s3_prefix"),
		},
		Log: LogSettings{
			Level:  cfg.GetString("log.level"),
			Format: cfg.GetString("log.format"),
		},
	}
}

func newLogger(s Settings) logger.Logger {
	return logger.NewLogrusLogger(s.Log.Level, s.Log.Format, stderr)
}

func newPersonaStore(ctx context.Context, s Settings) (*persona.DocumentStore, error) {
	reader, err := storage.NewReader(ctx, s.Personas)
	if err != nil {
		return nil, err
	}
	return persona.NewDocumentStore(reader), nil
}

func newInvoker(env runner.Environment, s Settings, log logger.Logger) *runner.Invoker {
	launcher := &runner.ExecLauncher{Stdout: stdout, Stderr: stderr}
	return runner.NewInvoker(env, s.Vendor, launcher, log, runner.WithOutput(stdout))
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect runner configuration",
	}

	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved settings and required environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := loadSettings()
			env := runner.EnvironmentFromOS()

			if flagJSON {
				secrets := make(map[string]string, len(runner.RequiredKeys))
				for _, k := range runner.RequiredKeys {
					secrets[k] = maskSecret(env.Get(k))
				}
				return printJSON(map[string]interface{}{
					"vendor":      s.Vendor,
					"personas":    s.Personas,
					"log":         s.Log,
					"environment": secrets,
				})
			}

			printMessage(fmt.Sprintf("Vendor:      %s %s --computer %s", s.Vendor.Interpreter, s.Vendor.EntryPoint, s.Vendor.Computer))
			switch s.Personas.Source {
			case storage.SourceS3:
				printMessage(fmt.Sprintf("Personas:    s3://%s/%s (%s)", s.Personas.S3Bucket, s.Personas.S3Prefix, s.Personas.S3Region))
			default:
				printMessage(fmt.Sprintf("Personas:    %s", s.Personas.BaseDir))
			}
			printMessage(fmt.Sprintf("Log:         %s (%s)", s.Log.Level, s.Log.Format))

			rows := make([][]string, 0, len(runner.RequiredKeys))
			for _, k := range runner.RequiredKeys {
				rows = append(rows, []string{k, maskSecret(env.Get(k))})
			}
			printTable([]string{"VARIABLE", "VALUE"}, rows)

			if f := cfg.ConfigFileUsed(); f != "" {
				printMessage(fmt.Sprintf("Settings file: %s", f))
			} else {
				printMessage("Settings file: (none)")
			}
			return nil
		},
	}
}
