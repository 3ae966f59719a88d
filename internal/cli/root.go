// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cli implements the polish command-line client.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"promptpolish/internal/apiclient"
	"promptpolish/internal/history"
	"promptpolish/internal/logger"
)

var (
	// Version is set at build time.
	Version = "dev"

	// Output helpers.
	successIcon = color.New(color.FgGreen).Sprint("✓")
	warningIcon = color.New(color.FgYellow).Sprint("⚠")
	errorIcon   = color.New(color.FgRed).Sprint("✗")

	info = color.New(color.FgCyan).SprintFunc()
	dim  = color.New(color.Faint).SprintFunc()
)

// globalOptions are the flags shared by every subcommand.
type globalOptions struct {
	server      string
	historyFile string
	logLevel    string
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "polish",
		Short: "Optimize prompts with a PromptPolish server",
		Long: `polish sends text to a PromptPolish server and prints the optimized
prompt. Results are kept in a local history file shared with the browser
extension's storage layout.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(logger.New(cmd.ErrOrStderr(), opts.logLevel, "text"))
		},
	}

	defaultServer := os.Getenv("PROMPTPOLISH_SERVER")
	if defaultServer == "" {
		defaultServer = apiclient.DefaultBaseURL
	}
	rootCmd.PersistentFlags().StringVar(&opts.server, "server", defaultServer, "PromptPolish server URL")
	rootCmd.PersistentFlags().StringVar(&opts.historyFile, "history-file", "", "Local history file (default: user config dir)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "error", "Diagnostic log level: debug, info, warn, error")

	rootCmd.AddCommand(NewOptimizeCmd(opts))
	rootCmd.AddCommand(NewHistoryCmd(opts))
	rootCmd.AddCommand(NewCatalogCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "polish %s\n", Version)
		},
	}
}

// Execute runs the CLI.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", errorIcon, err.Error())
		return err
	}
	return nil
}

// localLog opens the local history file.
func (o *globalOptions) localLog() (*history.FileLog, error) {
	path := o.historyFile
	if path == "" {
		var err error
		if path, err = history.DefaultFilePath(); err != nil {
			return nil, err
		}
	}
	return history.NewFileLog(path), nil
}

// client returns an API client for the configured server.
func (o *globalOptions) client() *apiclient.Client {
	return apiclient.New(o.server, 0)
}

// printSuccess prints a success message.
func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", successIcon, fmt.Sprintf(format, args...))
}

// printWarning prints a warning message.
func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", warningIcon, fmt.Sprintf(format, args...))
}
