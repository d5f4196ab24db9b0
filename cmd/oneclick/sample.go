package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/oneclickresume/internal/types"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print the sample resume as JSON",
	Long:  "Prints the built-in demo resume. The output is a valid --input file for render and export.",
	Args:  cobra.NoArgs,
	RunE:  runSample,
}

func init() {
	rootCmd.AddCommand(sampleCmd)
}

func runSample(cmd *cobra.Command, _ []string) error {
	data, err := json.MarshalIndent(types.SampleResume(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal sample: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
