package main

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/oneclickresume/internal/config"
	"github.com/jonathan/oneclickresume/internal/export"
	"github.com/jonathan/oneclickresume/internal/rendering"
)

var (
	exportInput    string
	exportTemplate string
	exportOut      string
	exportAll      bool
)

// maxParallelExports bounds concurrent Chrome instances for --all.
const maxParallelExports = 2

// newRasterizer is swapped in tests.
var newRasterizer = func(cfg *config.Config) export.Rasterizer {
	r := export.NewChromeRasterizer(cfg.Verbose)
	if cfg.ChromePath != "" {
		r.ExecPath = cfg.ChromePath
	}
	return r
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a resume as a single-page PDF",
	Long: `Export resume data to a single-page A4 PDF using a headless Chrome.

With --all every template is exported, two at a time, into --out. Files are
named after the resume's full name (plus the template id with --all).`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportInput, "input", "i", "", "Path to a resume_data JSON file (default: sample resume)")
	exportCmd.Flags().StringVarP(&exportTemplate, "template", "t", "", "Template id (default: classic)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output directory (default: config out_dir, then current directory)")
	exportCmd.Flags().BoolVar(&exportAll, "all", false, "Export every template")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := loadInput(firstNonEmpty(exportInput, cfg.Input))
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var archive export.Saver
	if cfg.ExportBucket != "" {
		s3, err := export.NewS3Saver(ctx, cfg.ExportBucket, cfg.ExportPrefix)
		if err != nil {
			return fmt.Errorf("failed to configure export archive: %w", err)
		}
		archive = s3
	}
	exporter := export.NewExporter(newRasterizer(cfg), archive)
	saver := export.FileSaver{Dir: firstNonEmpty(exportOut, cfg.OutDir, ".")}

	var entries []rendering.Entry
	if exportAll {
		entries = rendering.Templates()
	} else {
		entry, err := rendering.Lookup(firstNonEmpty(exportTemplate, cfg.Template, string(rendering.DefaultTemplate)))
		if err != nil {
			return err
		}
		entries = []rendering.Entry{entry}
	}

	hint := firstNonEmpty(data.Name, data.Title, "resume")
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelExports)
	for _, entry := range entries {
		g.Go(func() error {
			name := hint
			if exportAll {
				name = hint + "-" + string(entry.ID)
			}
			h, err := rendering.Mount(entry.Renderer.Render(data))
			if err != nil {
				return fmt.Errorf("%s: %w", entry.ID, err)
			}
			if err := exporter.ExportToPDF(gctx, h, name, saver); err != nil {
				return fmt.Errorf("%s: %w", entry.ID, err)
			}
			if cfg.Verbose {
				log.Printf("[export] %s done", entry.ID)
			}
			mu.Lock()
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s\n", export.FileName(name))
			mu.Unlock()
			return nil
		})
	}
	return g.Wait()
}
