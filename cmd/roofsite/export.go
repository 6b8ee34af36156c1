package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/roofing-site/cmd/api"
	"github.com/FACorreiaa/roofing-site/internal/export"
	"github.com/FACorreiaa/roofing-site/pkg/graceful"
)

var (
	exportDir         string
	exportToS3        bool
	exportPrefix      string
	exportConcurrency int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render every page to static files",
	Long: `Renders the home page, the location index, every location page, the 404
page, sitemap.xml and robots.txt.

Files are written to --out, or uploaded to the EXPORT_BUCKET bucket when --s3
is set.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportDir, "out", "dist", "Output directory")
	exportCmd.Flags().BoolVar(&exportToS3, "s3", false, "Upload to object storage instead of a directory")
	exportCmd.Flags().StringVar(&exportPrefix, "prefix", "", "Object key prefix when uploading")
	exportCmd.Flags().IntVar(&exportConcurrency, "concurrency", 4, "Pages rendered in parallel")
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx, cancel := graceful.Context(cmd.Context(), logger)
	defer cancel()

	deps, err := api.InitSite(cfg, logger)
	if err != nil {
		return err
	}

	var sink export.Sink
	if exportToS3 {
		s3, err := export.NewS3Sink(cfg.Storage, exportPrefix, logger)
		if err != nil {
			return err
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			return err
		}
		sink = s3
	} else {
		dir, err := export.NewDirSink(exportDir)
		if err != nil {
			return err
		}
		sink = dir
	}

	res, err := export.NewExporter(deps.PageHandler, deps.LocationSvc, sink, exportConcurrency, logger).Run(ctx)
	if err != nil {
		return fmt.Errorf("export failed after %d pages: %w", res.Pages, err)
	}

	logger.Info("Static site exported",
		slog.Int("pages", res.Pages),
		slog.Int64("bytes", res.Bytes),
		slog.Bool("s3", exportToS3))
	return nil
}
