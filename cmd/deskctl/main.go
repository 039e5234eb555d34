// Package main implements deskctl, the operator CLI of the affiliate desk.
// It works directly against the configured store backend, so it can run
// while the server is stopped.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"affiliatedesk/internal/backend"
	"affiliatedesk/internal/compose"
	"affiliatedesk/internal/config"
	"affiliatedesk/internal/database"
	"affiliatedesk/internal/dispatch"
	"affiliatedesk/internal/store"
	"affiliatedesk/internal/tier"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "deskctl",
		Short:         "Operator tools for the affiliate desk",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(
		newTierCmd(),
		newLinkCmd(),
		newExportCmd(),
		newImportCmd(),
		newMigrateCmd(),
		newSeedCmd(),
	)
	return root
}

func newTierCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tier <followers>",
		Short: "Print the tier for a follower count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("parse followers: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tier.Classify(n))
			return nil
		},
	}
}

func newLinkCmd() *cobra.Command {
	var number, message, name string
	var qr bool

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Build a WhatsApp deep link",
		Long: `Builds a https://wa.me link for one message. With --name, {name} in the
message is replaced by the first word of the name. With --qr, a QR code is
drawn under the link for scanning with a phone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := message
			if name != "" {
				msg = compose.Personalize(msg, name)
			}
			p := dispatch.Printer{W: cmd.OutOrStdout(), QR: qr}
			return p.Open(cmd.Context(), dispatch.Link(number, msg))
		},
	}
	cmd.Flags().StringVar(&number, "phone", "", "WhatsApp number, local (08...) or international")
	cmd.Flags().StringVar(&message, "message", "", "message text")
	cmd.Flags().StringVar(&name, "name", "", "recipient name for {name}")
	cmd.Flags().BoolVar(&qr, "qr", false, "also print a QR code")
	cmd.MarkFlagRequired("phone")
	cmd.MarkFlagRequired("message")
	return cmd
}

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every collection as one JSON snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(st *store.Store) error {
				w := cmd.OutOrStdout()
				if out != "-" {
					f, err := os.Create(out)
					if err != nil {
						return fmt.Errorf("create %s: %w", out, err)
					}
					defer f.Close()
					w = f
				}
				return writeSnapshot(w, st.Export())
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "-", "output file, - for stdout")
	return cmd
}

func newImportCmd() *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace every collection with a JSON snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(in)
			if err != nil {
				return fmt.Errorf("open %s: %w", in, err)
			}
			defer f.Close()

			var snap store.Snapshot
			if err := json.NewDecoder(f).Decode(&snap); err != nil {
				return fmt.Errorf("decode snapshot: %w", err)
			}
			return withStore(cmd.Context(), func(st *store.Store) error {
				st.Import(cmd.Context(), snap)
				if err := st.Flush(cmd.Context()); err != nil {
					return fmt.Errorf("flush snapshot: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d affiliates, %d products, %d samples, %d content items\n",
					st.Affiliates.Count(), st.Products.Count(), len(st.Samples.List()), len(st.Content.List()))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "snapshot file")
	cmd.MarkFlagRequired("in")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations to the SQL backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.StoreBackend != config.BackendSQLite && cfg.StoreBackend != config.BackendPostgres {
				fmt.Fprintf(cmd.OutOrStdout(), "backend %s has no schema\n", cfg.StoreBackend)
				return nil
			}
			// Open migrates SQL backends.
			be, err := backend.Open(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer be.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "%s schema is up to date\n", cfg.StoreBackend)
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install the sample data into an empty store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), func(st *store.Store) error {
				return database.Seed(cmd.Context(), st)
			})
		},
	}
}

// withStore loads the configured store, runs fn and closes the backend.
func withStore(ctx context.Context, fn func(st *store.Store) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	be, err := backend.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer be.Close()

	st := store.New(be.Adapter)
	if err := st.Load(ctx); err != nil {
		return fmt.Errorf("load store: %w", err)
	}
	return fn(st)
}

func writeSnapshot(w io.Writer, snap store.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}
