package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/oneclickresume/internal/config"
	"github.com/jonathan/oneclickresume/internal/rendering"
	"github.com/jonathan/oneclickresume/internal/schemas"
	"github.com/jonathan/oneclickresume/internal/types"
)

var (
	renderInput    string
	renderTemplate string
	renderFormat   string
	renderOut      string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a resume to HTML or LaTeX",
	Long: `Render resume data with one of the four templates.

Without --input the built-in sample resume is rendered. Without --out the
result is written to stdout.`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderInput, "input", "i", "", "Path to a resume_data JSON file (default: sample resume)")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "Template id: classic, modern, minimal, creative (default: classic)")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "html", "Output format: html or latex")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "Output file path (default: stdout)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	data, err := loadInput(firstNonEmpty(renderInput, cfg.Input))
	if err != nil {
		return err
	}
	entry, err := rendering.Lookup(firstNonEmpty(renderTemplate, cfg.Template, string(rendering.DefaultTemplate)))
	if err != nil {
		return err
	}

	doc := entry.Renderer.Render(data)
	var out []byte
	switch renderFormat {
	case "html":
		out, err = rendering.MountHTML(doc)
	case "latex", "tex":
		var tex string
		tex, err = rendering.RenderLaTeX(doc)
		out = []byte(tex)
	default:
		return fmt.Errorf("unknown format %q: use html or latex", renderFormat)
	}
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", entry.ID, err)
	}

	return writeOutput(cmd.OutOrStdout(), renderOut, out, cfg)
}

// loadInput reads resume data from path, or returns the sample when path is
// empty.
func loadInput(path string) (types.ResumeData, error) {
	if path == "" {
		return types.SampleResume(), nil
	}
	data, err := schemas.LoadResumeFile(path)
	if err != nil {
		return types.ResumeData{}, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return data, nil
}

// writeOutput writes to path, to cfg.OutDir when path is a bare file name,
// or to stdout when path is empty.
func writeOutput(stdout io.Writer, path string, data []byte, cfg *config.Config) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if cfg.OutDir != "" && filepath.Base(path) == path {
		path = filepath.Join(cfg.OutDir, path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
