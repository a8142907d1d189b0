package commands

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/a11yreq/pkg/app"
	"tableflip.dev/a11yreq/pkg/blob"
	"tableflip.dev/a11yreq/pkg/clause"
	"tableflip.dev/a11yreq/pkg/commands/options"
	"tableflip.dev/a11yreq/pkg/logging"
	"tableflip.dev/a11yreq/pkg/store"
	"tableflip.dev/a11yreq/pkg/wizard"
)

var (
	output = &options.OutputOptions{}
	global = &options.GlobalOptions{}

	settings *store.Settings
	logger   = zap.NewNop()

	// opened stores are closed once the command finishes.
	opened []store.Persistence
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "a11yreq",
		Short: base.Wrap80("Compose ICT accessibility requirements documents from a catalogue of clauses."),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if settings, err = store.LoadConfig(); err != nil {
				return err
			}
			if logger, err = logging.New(settings.LogLevel); err != nil {
				return err
			}
			if _, err := global.Language(); err != nil {
				return err
			}
			logger.Debug("configuration loaded",
				zap.String("path", settings.Path),
				zap.String("rules", settings.Rules),
				zap.String("driver", settings.Driver),
				zap.String("command", cmd.CommandPath()),
			)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			for _, p := range opened {
				if err := p.Close(); err != nil {
					logger.Warn("close store", zap.Error(err))
				}
			}
			opened = nil
			_ = logger.Sync()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddGlobalArgs(cmd, global)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addClauses(topLevel)
	addInfos(topLevel)
	addPresets(topLevel)
	addTree(topLevel)
	addGenerate(topLevel)
	addWizard(topLevel)
	addSelect(topLevel)
	addServe(topLevel)
	addMCP(topLevel)
	addImport(topLevel)
	addExport(topLevel)
	addKey(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// service opens the configured store. Wizard rules come from the rules file
// when one is configured.
func service() (*app.Service, error) {
	if settings == nil {
		return nil, errors.New("configuration not loaded")
	}
	p, err := store.Load(settings, store.WithLogger(logger), store.WithDriver(settings.Driver))
	if err != nil {
		return nil, err
	}
	opened = append(opened, p)
	svc := &app.Service{Persistence: p}
	if settings.Rules != "" {
		rules, err := wizard.Load(settings.Rules)
		if err != nil {
			return nil, err
		}
		svc.Rules = rules
	}
	return svc, nil
}

// contextFor returns the command's context carrying the process logger.
// Commands run from the interactive picker have no context of their own.
func contextFor(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = cmd.Root().Context()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithLogger(ctx, logger)
}

// lang is the parsed --lang flag, validated in the pre-run.
func lang() clause.Lang {
	l, _ := global.Language()
	return l
}

// out is where command output goes: the command's writer when one was set,
// otherwise the color-aware stdout.
func out(cmd *cobra.Command) io.Writer {
	if w := cmd.OutOrStdout(); w != os.Stdout {
		return w
	}
	return color.Output
}

// terminal reports whether cmd writes to an interactive stdout.
func terminal(cmd *cobra.Command) bool {
	if cmd.OutOrStdout() != os.Stdout {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func s3Config() blob.S3Config {
	if settings == nil {
		return blob.S3Config{}
	}
	return blob.S3Config{
		Region:    settings.S3.Region,
		Endpoint:  settings.S3.Endpoint,
		PathStyle: settings.S3.PathStyle,
	}
}
