// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"promptpolish/internal/catalog"
)

// NewCatalogCmd creates the catalog command.
func NewCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List known styles, features, website types and design styles",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			printSection(out, "Styles (--style)", catalog.Styles(), catalog.StyleDirective)
			printSection(out, "Website types (--website-type)", catalog.WebsiteTypes(), catalog.WebsiteTypeGuidance)
			printSection(out, "Design styles (--design-style)", catalog.DesignStyles(), catalog.DesignStyleGuidance)
			printSection(out, "Features (--feature)", catalog.Features(), catalog.FeatureDescription)
		},
	}
}

func printSection(w io.Writer, title string, ids []string, describe func(string) string) {
	fmt.Fprintln(w, info(title))
	for _, id := range ids {
		fmt.Fprintf(w, "  %-14s %s\n", id, dim(describe(id)))
	}
	fmt.Fprintln(w)
}
