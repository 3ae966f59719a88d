// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"promptpolish/internal/extension"
	"promptpolish/internal/models"
)

type optimizeOptions struct {
	mode            string
	style           string
	websiteType     string
	designStyle     string
	features        []string
	offlineFallback bool
}

// NewOptimizeCmd creates the optimize command.
func NewOptimizeCmd(global *globalOptions) *cobra.Command {
	opts := &optimizeOptions{}

	cmd := &cobra.Command{
		Use:   "optimize [text|-]",
		Short: "Optimize a prompt",
		Long: `Sends text to the PromptPolish server and prints the optimized prompt.

Reads the text from standard input when no argument or "-" is given.
Successful results are saved to the local history.`,
		Example: `  polish optimize "write me a poem about the sea"
  polish optimize --style concise < draft.txt
  polish optimize -m website --website-type portfolio --feature gallery "a site for my photos"`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOptimize(cmd, global, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", string(models.ModeGeneral), "Optimization mode: general or website")
	cmd.Flags().StringVarP(&opts.style, "style", "s", "", "Writing style for general mode")
	cmd.Flags().StringVar(&opts.websiteType, "website-type", "", "Website type for website mode (default business)")
	cmd.Flags().StringVar(&opts.designStyle, "design-style", "", "Design style for website mode (default modern)")
	cmd.Flags().StringArrayVar(&opts.features, "feature", nil, "Website feature, repeatable (default responsive, seo)")
	cmd.Flags().BoolVar(&opts.offlineFallback, "offline-fallback", false, "Return the marked input text when the server is unreachable")

	return cmd
}

func runOptimize(cmd *cobra.Command, global *globalOptions, opts *optimizeOptions, args []string) error {
	text, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	log, err := global.localLog()
	if err != nil {
		return err
	}

	bridge := extension.NewBridge(global.client(), log, extension.Options{
		AllowOfflineFallback: opts.offlineFallback,
	})

	req := opts.request(text)
	resp := bridge.Handle(cmd.Context(), extension.Message{
		Action: extension.ActionOptimizeFromPopup,
		Data:   &req,
	})
	if !resp.Success {
		return errors.New(resp.Error)
	}

	fmt.Fprintln(cmd.OutOrStdout(), resp.Result.OptimizedText)
	if resp.Fallback {
		printWarning(cmd.ErrOrStderr(), "Server unreachable at %s, returned the input unchanged", global.server)
		return nil
	}
	printSuccess(cmd.ErrOrStderr(), "Optimized %s prompt %s", req.Type, dim("("+log.Path()+")"))
	return nil
}

// request builds the raw request. Website options are only sent in website
// mode; unset flags are left for the server to default.
func (o *optimizeOptions) request(text string) models.RawRequest {
	req := models.RawRequest{
		Text: text,
		Type: strings.ToLower(o.mode),
	}
	if req.Type == string(models.ModeWebsite) {
		req.Options = &models.RawWebsiteOptions{
			WebsiteType: o.websiteType,
			DesignStyle: o.designStyle,
			Features:    o.features,
		}
		return req
	}
	req.Style = o.style
	return req
}

// readInput returns the text argument, or standard input for "-" or no
// argument.
func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
