// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"promptpolish/internal/archive"
	"promptpolish/internal/export"
)

type exportOptions struct {
	format   string
	output   string
	bucket   string
	endpoint string
	region   string
	prefix   string
	linkTTL  time.Duration
}

// newHistoryExportCmd creates "history export".
func newHistoryExportCmd(global *globalOptions, hist *historyOptions) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export history as JSON, Markdown or HTML",
		Long: `Renders the history as a document and writes it to standard output,
a file, or an S3-compatible bucket.

Uploading needs S3_ACCESS_KEY and S3_SECRET_KEY in the environment. After
an upload a pre-signed download link is printed.`,
		Example: `  polish history export --format md -o history.md
  polish history export --remote --format html --s3-bucket team-exports`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryExport(cmd, global, hist, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "Document format: json, md or html")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write to this file instead of standard output")
	cmd.Flags().StringVar(&opts.bucket, "s3-bucket", os.Getenv("S3_BUCKET"), "Upload to this bucket")
	cmd.Flags().StringVar(&opts.endpoint, "s3-endpoint", os.Getenv("S3_ENDPOINT"), "S3-compatible endpoint URL (default AWS)")
	cmd.Flags().StringVar(&opts.region, "s3-region", os.Getenv("S3_REGION"), "Bucket region (default us-east-1)")
	cmd.Flags().StringVar(&opts.prefix, "s3-prefix", archive.DefaultPrefix, "Object key prefix")
	cmd.Flags().DurationVar(&opts.linkTTL, "link-ttl", 24*time.Hour, "Lifetime of the download link")

	return cmd
}

func runHistoryExport(cmd *cobra.Command, global *globalOptions, hist *historyOptions, opts *exportOptions) error {
	format, err := export.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	src, err := hist.source(global)
	if err != nil {
		return err
	}
	records, err := src.List(cmd.Context())
	if err != nil {
		return err
	}

	now := time.Now()
	doc, err := export.Render(records, format, now)
	if err != nil {
		return err
	}

	switch {
	case opts.bucket != "":
		client, err := archive.New(archive.Config{
			Endpoint:  opts.endpoint,
			Region:    opts.region,
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Bucket:    opts.bucket,
		})
		if err != nil {
			return err
		}
		key := archive.Key(opts.prefix, format.Filename(now))
		if err := client.Upload(cmd.Context(), key, format.ContentType(), doc); err != nil {
			return err
		}
		link, err := client.PresignedURL(cmd.Context(), key, opts.linkTTL)
		if err != nil {
			return err
		}
		printSuccess(cmd.ErrOrStderr(), "Uploaded history to s3://%s/%s %s", client.Bucket(), key, dim(fmt.Sprintf("(%d records)", len(records))))
		fmt.Fprintln(cmd.OutOrStdout(), link)

	case opts.output != "":
		if err := os.WriteFile(opts.output, doc, 0o644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		printSuccess(cmd.ErrOrStderr(), "Exported history to %s %s", opts.output, dim(fmt.Sprintf("(%d records)", len(records))))

	default:
		cmd.OutOrStdout().Write(doc)
	}
	return nil
}
