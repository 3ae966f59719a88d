// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"promptpolish/internal/models"
)

// previewLen caps the text shown per entry in history listings.
const previewLen = 60

type historyOptions struct {
	remote bool
}

// historySource is the subset of history operations the commands need.
// Local and remote history both satisfy it.
type historySource interface {
	List(ctx context.Context) ([]models.HistoryRecord, error)
	Get(ctx context.Context, id string) (models.HistoryRecord, bool, error)
	Remove(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// NewHistoryCmd creates the history command and its subcommands.
func NewHistoryCmd(global *globalOptions) *cobra.Command {
	opts := &historyOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect optimization history",
		Long: `Lists past optimizations, newest first.

Without --remote the local history file is used; with --remote the
server's history is queried instead.`,
		Example: `  polish history
  polish history show 1714557600000
  polish history --remote clear`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(cmd, global, opts)
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.remote, "remote", false, "Use the server's history instead of the local file")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List history entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(cmd, global, opts)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show one history entry in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(cmd, global, opts, args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Remove one history entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := opts.source(global)
			if err != nil {
				return err
			}
			if err := src.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Removed %s", args[0])
			return nil
		},
	})
	cmd.AddCommand(newHistoryExportCmd(global, opts))
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := opts.source(global)
			if err != nil {
				return err
			}
			if err := src.Clear(cmd.Context()); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "History cleared")
			return nil
		},
	})

	return cmd
}

func (o *historyOptions) source(global *globalOptions) (historySource, error) {
	if o.remote {
		return remoteHistory{global.client()}, nil
	}
	return global.localLog()
}

func runHistoryList(cmd *cobra.Command, global *globalOptions, opts *historyOptions) error {
	src, err := opts.source(global)
	if err != nil {
		return err
	}
	records, err := src.List(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, dim("No history yet."))
		return nil
	}
	for _, rec := range records {
		fmt.Fprintf(out, "%s  %s  %-7s  %s\n",
			info(rec.ID),
			dim(rec.CreatedAt.Local().Format(time.DateTime)),
			rec.Type,
			preview(rec.OriginalText),
		)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, global *globalOptions, opts *historyOptions, id string) error {
	src, err := opts.source(global)
	if err != nil {
		return err
	}
	rec, ok, err := src.Get(cmd.Context(), id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("history item %s not found", id)
	}
	printRecord(cmd.OutOrStdout(), rec)
	return nil
}

func printRecord(w io.Writer, rec models.HistoryRecord) {
	fmt.Fprintf(w, "  %s: %s\n", dim("id"), rec.ID)
	fmt.Fprintf(w, "  %s: %s\n", dim("type"), rec.Type)
	fmt.Fprintf(w, "  %s: %s\n", dim("created"), rec.CreatedAt.Local().Format(time.RFC3339))
	for _, field := range []struct {
		label string
		value *string
	}{
		{"style", rec.Style},
		{"website type", rec.WebsiteType},
		{"design style", rec.DesignStyle},
	} {
		if field.value != nil {
			fmt.Fprintf(w, "  %s: %s\n", dim(field.label), *field.value)
		}
	}
	fmt.Fprintf(w, "\n%s\n%s\n", info("Original"), rec.OriginalText)
	fmt.Fprintf(w, "\n%s\n%s\n", info("Optimized"), rec.OptimizedText)
}

// preview flattens text to one line and truncates it to previewLen runes.
func preview(text string) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= previewLen {
		return flat
	}
	return string(runes[:previewLen-1]) + "…"
}
