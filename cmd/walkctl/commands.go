package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tailwag/walkops/internal/app"
	"github.com/tailwag/walkops/internal/auth"
	"github.com/tailwag/walkops/internal/config"
	"github.com/tailwag/walkops/internal/db"
	"github.com/tailwag/walkops/internal/logger"
	"github.com/tailwag/walkops/internal/migration"
	"github.com/tailwag/walkops/internal/services"
)

const commandTimeout = 5 * time.Minute

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "walkctl",
		Short:         "Operate the walkops billing core from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			cfg := config.LoadConfig()
			logger.Init(cfg.AppEnv, cfg.LogLevel)
		},
	}

	root.AddCommand(
		newReconcileCmd(),
		newCompleteTestWalksCmd(),
		newWeekCmd(),
		newInvoiceCmd(),
		newMigrateCmd(),
		newTokenCmd(),
	)
	return root
}

// withApp config'i yükler, app'i kurar ve fn bitince kapatır
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app.App) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	a, err := app.New(ctx, config.LoadConfig())
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ─── reconcile ──────────────────────────────────────────────────────────────

func newReconcileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Apply completed, unbilled walk charges to client balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				result, err := a.Reconciliation.ApplyCompletedWalks(ctx)
				if err != nil {
					return err
				}
				if err := printJSON(cmd.OutOrStdout(), result); err != nil {
					return err
				}
				if len(result.Failed) > 0 {
					return fmt.Errorf("%d walk(s) failed, rerun reconcile to retry", len(result.Failed))
				}
				return nil
			})
		},
	}
}

// ─── complete-test-walks ────────────────────────────────────────────────────

func newCompleteTestWalksCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "complete-test-walks",
		Short: "Mark the earliest scheduled walks as completed (testing aid)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				result, err := a.Reconciliation.CompleteTestWalks(ctx, limit)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), result)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", services.DefaultCompleteLimit,
		"number of walks to complete (max "+strconv.Itoa(services.MaxCompleteLimit)+")")
	return cmd
}

// ─── week ───────────────────────────────────────────────────────────────────

func newWeekCmd() *cobra.Command {
	var start string
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print the 7-day walk schedule starting at --start (default today)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				week, err := a.Schedule.GetWeek(ctx, start)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), week)
			})
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "first day, YYYY-MM-DD")
	return cmd
}

// ─── invoice ────────────────────────────────────────────────────────────────

func newInvoiceCmd() *cobra.Command {
	var (
		clientID int
		out      string
	)
	cmd := &cobra.Command{
		Use:   "invoice",
		Short: "Compile a client's invoice; writes a PDF with --out, JSON otherwise",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if clientID <= 0 {
				return fmt.Errorf("--client is required")
			}
			return withApp(cmd, func(ctx context.Context, a *app.App) error {
				doc, err := a.Invoices.CompileInvoice(ctx, clientID)
				if err != nil {
					return err
				}
				if out == "" {
					return printJSON(cmd.OutOrStdout(), doc)
				}
				if err := a.Invoices.SavePDF(doc, out); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d line(s), total %s, %d page(s) -> %s\n",
					doc.Number, len(doc.Lines), doc.Total.StringFixed(2), len(doc.Pages), out)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&clientID, "client", 0, "client id")
	cmd.Flags().StringVarP(&out, "out", "o", "", "PDF output path")
	return cmd
}

// ─── migrate ────────────────────────────────────────────────────────────────

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema migrations",
	}
	cmd.AddCommand(newMigrateUpCmd(), newMigrateDownCmd(), newMigrateStatusCmd())
	return cmd
}

// withRunner Postgres'e bağlanır ve gömülü migration dosyalarıyla runner kurar
func withRunner(cmd *cobra.Command, fn func(ctx context.Context, r *migration.Runner) error) error {
	cfg := config.LoadConfig()
	ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
	defer cancel()

	database, err := db.Connect(ctx, cfg.GetDSN(), db.PoolConfig{MaxOpenConns: 1, MaxIdleConns: 1})
	if err != nil {
		return err
	}
	defer database.Close()

	return fn(ctx, migration.NewRunner(database, db.MigrationFiles()))
}

func newMigrateUpCmd() *cobra.Command {
	var printOnly bool
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if printOnly {
				migrations, err := migration.LoadMigrations(db.MigrationFiles())
				if err != nil {
					return err
				}
				for _, m := range migrations {
					fmt.Fprintf(cmd.OutOrStdout(), "-- %06d_%s\n%s\n", m.Version, m.Name, m.UpSQL)
				}
				return nil
			}

			return withRunner(cmd, func(ctx context.Context, r *migration.Runner) error {
				results, err := r.Up(ctx)
				if err != nil {
					return err
				}
				if len(results) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "✅ schema is up to date")
					return nil
				}
				return printJSON(cmd.OutOrStdout(), results)
			})
		},
	}
	cmd.Flags().BoolVar(&printOnly, "print", false, "print the up migrations instead of applying them")
	return cmd
}

func newMigrateDownCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Revert the most recent migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps <= 0 {
				return fmt.Errorf("--steps must be positive")
			}
			return withRunner(cmd, func(ctx context.Context, r *migration.Runner) error {
				results, err := r.Down(ctx, steps)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), results)
			})
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to revert")
	return cmd
}

func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRunner(cmd, func(ctx context.Context, r *migration.Runner) error {
				status, err := r.Status(ctx)
				if err != nil {
					return err
				}
				if err := printJSON(cmd.OutOrStdout(), status); err != nil {
					return err
				}
				if !status.ChecksumValid {
					return migration.ErrChecksumMismatch
				}
				return nil
			})
		},
	}
}

// ─── token ──────────────────────────────────────────────────────────────────

func newTokenCmd() *cobra.Command {
	var (
		userID int
		role   string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token signed with JWT_SECRET (for local testing)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch role {
			case auth.RoleAdmin, auth.RoleWalker, auth.RoleClient:
			default:
				return fmt.Errorf("--role must be admin, walker or client")
			}
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return fmt.Errorf("JWT_SECRET is not set")
			}

			token, err := auth.NewTokenManager(secret, ttl).GenerateToken(userID, role)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().IntVar(&userID, "user", 1, "user id claim")
	cmd.Flags().StringVar(&role, "role", auth.RoleAdmin, "role claim")
	cmd.Flags().DurationVar(&ttl, "ttl", auth.DefaultTokenTTL, "token lifetime")
	return cmd
}
