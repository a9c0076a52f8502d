package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/civicops/drconsole/internal/client/config"
	"github.com/civicops/drconsole/internal/client/content"
	"github.com/civicops/drconsole/internal/client/scheduler"
	"github.com/civicops/drconsole/internal/common"
	"github.com/civicops/drconsole/internal/logging"
)

// RootOptions is filled in before any subcommand runs.
type RootOptions struct {
	Config *config.Config
	Logger logging.Logger
}

// openApp is a test seam for NewApp.
var openApp = func(opts *RootOptions) (*App, error) {
	return NewApp(opts.Config, opts.Logger)
}

// NewRootCommand creates the drconsole command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "drconsole",
		Short: "Disaster-response operations console",
		Long: `Operations console for public advisories, incidents, evacuation
centers and downloadable resources kept on a drconsole server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, err := cmd.Flags().GetString(config.FlagConfig)
			if err != nil {
				return err
			}
			cfg, err := config.Load(path, cmd.Flags())
			if err != nil {
				return err
			}
			opts.Config = cfg
			opts.Logger = logging.NewTextLogger(cmd.ErrOrStderr(), cfg.Verbose)
			return nil
		},
	}
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewShellCommand(opts))
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewReconcileCommand(opts))
	cmd.AddCommand(NewPreviewCommand())
	cmd.AddCommand(NewTemplatesCommand())

	return cmd
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func NewShellCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive console",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close(cmd.Context())

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			app.Shell(ctx)
			return nil
		},
	}
}

func NewRegisterCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Create a staff account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close(cmd.Context())
			app.out = cmd.OutOrStdout()
			return app.Register(cmd.Context())
		},
	}
}

func NewReconcileCommand(opts *RootOptions) *cobra.Command {
	var (
		watch bool
		user  string
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Publish scheduled advisories that are due",
		Long: `Logs in, loads the advisories and publishes every scheduled one whose
publish time has passed. With --watch the pass repeats every
--reconcile-interval until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close(cmd.Context())
			out := cmd.OutOrStdout()
			app.out = out

			if user == "" {
				if user, err = getSimpleText(app.reader, "Enter username", cmd.ErrOrStderr()); err != nil {
					return err
				}
			}
			password, err := getPassword(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer common.WipeByteArray(password)

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()
			if err := app.login(ctx, user, password); err != nil {
				return err
			}

			if !watch {
				return app.cmdReconcile(ctx, nil)
			}
			app.console.Reconciler.Run(ctx, opts.Config.ReconcileInterval, func(r scheduler.Report, err error) {
				if err != nil {
					fmt.Fprintln(out, "pass failed:", err)
					return
				}
				printReport(out, r)
			})
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "repeat until interrupted")
	cmd.Flags().StringVarP(&user, "user", "u", "", "username (prompted when empty)")
	return cmd
}

func NewPreviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "preview FILE",
		Short: "Render advisory markup as HTML ('-' reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), content.RenderPreview(string(raw)))
			return err
		},
	}
}

func NewTemplatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the built-in advisory templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderTemplates(cmd.OutOrStdout())
		},
	}
}
