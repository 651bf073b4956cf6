package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"visitlog/internal/bootstrap"
	reportinadapter "visitlog/internal/modules/report/adapter/in"
	visitordto "visitlog/internal/modules/visitor/dto"
	"visitlog/internal/platform/config"
	"visitlog/internal/platform/logging"
	reportview "visitlog/internal/ui/views/report"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	dataDir    string
	configPath string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "visitlog",
		Short:         "Visitor check-in and presence tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", ".", "directory holding the database, config and plugins")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default <data-dir>/visitlog.yaml)")

	root.AddCommand(newRegisterCmd(flags))
	root.AddCommand(newCheckInCmd(flags))
	root.AddCommand(newCheckOutCmd(flags))
	root.AddCommand(newActiveCmd(flags))
	root.AddCommand(newRosterCmd(flags))
	root.AddCommand(newDeactivateCmd(flags))
	root.AddCommand(newAuditCmd(flags))
	root.AddCommand(newReportCmd(flags))
	root.AddCommand(newPluginCmd(flags))
	root.AddCommand(newServeCmd(flags))
	root.AddCommand(newTUICmd(flags))
	return root
}

// withApp loads config, opens the store and closes it after fn returns.
func withApp(ctx context.Context, flags *globalFlags, fn func(context.Context, *bootstrap.App) error) error {
	return withAppLogging(ctx, flags, nil, fn)
}

// withAppLogging is withApp with logs sent to logOut instead of stderr.
func withAppLogging(ctx context.Context, flags *globalFlags, logOut io.Writer, fn func(context.Context, *bootstrap.App) error) error {
	cfg, err := config.Load(flags.dataDir, flags.configPath)
	if err != nil {
		return err
	}
	logger := logging.New(logging.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON, Output: logOut})
	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("close store", "error", err)
		}
	}()
	return fn(ctx, app)
}

// opContext bounds a single presence operation by the configured timeout.
func opContext(ctx context.Context, app *bootstrap.App) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, app.Config.Presence.OperationTimeout)
}

func newRegisterCmd(flags *globalFlags) *cobra.Command {
	var in visitordto.RegisterInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a visitor or administrator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.Password == "" {
				in.Password = os.Getenv("VISITLOG_PASSWORD")
			}
			in.ConfirmPassword = in.Password
			return withApp(cmd.Context(), flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.VisitorCLI.Register(ctx, in)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "registered %s (%s) role=%s id=%s\n", out.FullName, out.Username, out.Role, out.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&in.MiddleName, "middle-name", "", "middle name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&in.Username, "username", "", "login name")
	cmd.Flags().StringVar(&in.Gender, "gender", "", "gender")
	cmd.Flags().StringVar(&in.DateOfBirth, "dob", "", "date of birth (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&in.Password, "password", "", "password (default $VISITLOG_PASSWORD)")
	cmd.Flags().StringVar(&in.Role, "role", "user", "role: user|admin")
	return cmd
}

func newCheckInCmd(flags *globalFlags) *cobra.Command {
	var visitorID, purpose string
	cmd := &cobra.Command{
		Use:   "checkin",
		Short: "Check a visitor in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), flags, func(ctx context.Context, app *bootstrap.App) error {
				ctx, cancel := opContext(ctx, app)
				defer cancel()
				out, err := app.PresenceCLI.CheckIn(ctx, visitorID, purpose)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "checked in %s purpose=%s at=%s session=%s\n", out.VisitorID, out.Purpose, out.CheckInTime.Local().Format(time.RFC3339), out.SessionID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&visitorID, "id", "", "visitor id")
	cmd.Flags().StringVar(&purpose, "purpose", "", "visit purpose: learn|research|explore")
	return cmd
}

func newCheckOutCmd(flags *globalFlags) *cobra.Command {
	var visitorID, experience, targetMet string
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Check a visitor out",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), flags, func(ctx context.Context, app *bootstrap.App) error {
				ctx, cancel := opContext(ctx, app)
				defer cancel()
				out, err := app.PresenceCLI.CheckOut(ctx, visitorID, experience, targetMet)
				if err != nil {
					return err
				}
				if !out.Closed {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s was not checked in\n", visitorID)
					return nil
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "checked out %s after %d min\n", out.VisitorID, out.DurationMin)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&visitorID, "id", "", "visitor id")
	cmd.Flags().StringVar(&experience, "experience", "", "how the visit went")
	cmd.Flags().StringVar(&targetMet, "target-met", "", "whether the visit goal was met")
	return cmd
}

func newActiveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "active",
		Short: "List visitors currently checked in",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), flags, func(ctx context.Context, app *bootstrap.App) error {
				active, err := app.PresenceCLI.ListActive(ctx)
				if err != nil {
					return err
				}
				if len(active) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "nobody is checked in")
					return nil
				}
				for _, a := range active {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %q purpose=%s since=%s\n", a.Visitor.ID, a.Visitor.FullName, a.Visitor.CurrentPurpose, a.CheckInTime.Local().Format("15:04"))
				}
				return nil
			})
		},
	}
}

func newRosterCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "roster",
		Short: "List every registered visitor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), flags, func(ctx context.Context, app *bootstrap.App) error {
				visitors, err := app.PresenceCLI.ListAll(ctx)
				if err != nil {
					return err
				}
				if len(visitors) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no visitors registered")
					return nil
				}
				for _, v := range visitors {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %q role=%s active=%t", v.ID, v.FullName, v.Role, v.Active)
					if v.CurrentPurpose != "" {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), " purpose=%s", v.CurrentPurpose)
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout())
				}
				return nil
			})
		},
	}
}

func newDeactivateCmd(flags *globalFlags) *cobra.Command {
	var visitorID string
	var all bool
	cmd := &cobra.Command{
		Use:   "deactivate --id <visitor>|--all",
		Short: "Check visitors out on an administrator's behalf",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if all == (strings.TrimSpace(visitorID) != "") {
				return fmt.Errorf("exactly one of --id or --all is required")
			}
			return withApp(cmd.Context(), flags, func(ctx context.Context, app *bootstrap.App) error {
				if !all {
					ctx, cancel := opContext(ctx, app)
					defer cancel()
					out, err := app.PresenceCLI.ForceCheckOut(ctx, visitorID)
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s closed=%t\n", visitorID, out.Closed)
					return nil
				}
				out, err := app.PresenceCLI.ForceCheckOutAll(ctx)
				if err != nil {
					return err
				}
				for _, r := range out.Results {
					if r.Error != "" {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s failed: %s\n", r.VisitorID, r.Error)
					}
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "attempted=%d closed=%d failed=%d\n", out.Attempted, out.Closed, out.Failed)
				if out.Failed > 0 {
					return fmt.Errorf("%d visitors could not be checked out", out.Failed)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&visitorID, "id", "", "visitor id")
	cmd.Flags().BoolVar(&all, "all", false, "check out every active visitor")
	return cmd
}

func newAuditCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Cross-check presence flags against the session ledger",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), flags, func(ctx context.Context, app *bootstrap.App) error {
				violations, err := app.PresenceCLI.Audit(ctx)
				if err != nil {
					return err
				}
				if len(violations) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "consistent")
					return nil
				}
				for _, v := range violations {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", v.VisitorID, v.Problem)
				}
				return fmt.Errorf("%d inconsistencies found", len(violations))
			})
		},
	}
}

func newReportCmd(flags *globalFlags) *cobra.Command {
	var week, pluginName, format, outPath string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Build the weekly visit report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), flags, func(ctx context.Context, app *bootstrap.App) error {
				if pluginName == "" {
					report, err := app.ReportCLI.Weekly(ctx, week)
					if err != nil {
						return err
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), report.Title)
					if len(report.Rows) == 0 {
						_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no visits")
						return nil
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), reportview.Render(report))
					return nil
				}
				report, out, err := app.ReportCLI.Export(ctx, week, pluginName, format)
				if err != nil {
					return err
				}
				path := outPath
				if path == "" {
					path = reportinadapter.FileName(report.Week, out.FileExt)
				}
				if err := os.WriteFile(path, out.Content, 0o644); err != nil {
					return fmt.Errorf("write report: %w", err)
				}
				abs, _ := filepath.Abs(path)
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows to %s (%s)\n", len(report.Rows), abs, out.MediaType)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&week, "week", "", "ISO week such as 2026-W41 (default previous week)")
	cmd.Flags().StringVar(&pluginName, "plugin", "", "exporter plugin; prints a table when empty")
	cmd.Flags().StringVar(&format, "format", "csv", "export format offered by the plugin")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default visits-<week><ext>)")
	return cmd
}

func newPluginCmd(flags *globalFlags) *cobra.Command {
	plugin := &cobra.Command{Use: "plugin", Short: "Exporter plugin operations"}
	plugin.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List plugin manifests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), flags, func(ctx context.Context, app *bootstrap.App) error {
				plugins, err := app.PluginCLI.List(ctx)
				if err != nil {
					return err
				}
				if len(plugins) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins configured")
					return nil
				}
				for _, p := range plugins {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s@%s enabled=%t formats=%s binary=%s\n", p.Name, p.Version, p.Enabled, strings.Join(p.Formats, ","), p.Binary)
				}
				return nil
			})
		},
	})
	plugin.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Validate plugin checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), flags, func(ctx context.Context, app *bootstrap.App) error {
				results, err := app.PluginCLI.Doctor(ctx)
				if err != nil {
					return err
				}
				if len(results) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins configured")
					return nil
				}
				for _, r := range results {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s checksum=%t binary=%t lifecycle=%t", r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK)
					if r.Error != "" {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%q", r.Error)
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout())
				}
				return nil
			})
		},
	})
	return plugin
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withApp(ctx, flags, func(ctx context.Context, app *bootstrap.App) error {
				return app.Serve(ctx)
			})
		},
	}
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the admin terminal dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The alternate screen owns the terminal, so logs go to a file.
			logFile, err := os.OpenFile(filepath.Join(flags.dataDir, "visitlog-tui.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return fmt.Errorf("open tui log: %w", err)
			}
			defer logFile.Close()
			return withAppLogging(cmd.Context(), flags, logFile, func(_ context.Context, app *bootstrap.App) error {
				return bootstrap.RunTUI(app)
			})
		},
	}
}
