// Package main provides the quizhub CLI for working with bulk import
// workbooks offline: generating the starter template and inspecting an
// upload before it is sent to the server.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shekhar1luitel/quizHub/internal/bulkimport"
)

var (
	outputPath string
	pretty     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "quizhub",
		Short: "Tools for quiz content interchange workbooks",
	}

	templateCmd := &cobra.Command{
		Use:   "template",
		Short: "Write the starter import workbook",
		Args:  cobra.NoArgs,
		RunE:  runTemplate,
	}
	templateCmd.Flags().StringVarP(&outputPath, "output", "o", "bulk-import-template.xlsx", "Output file path")

	inspectCmd := &cobra.Command{
		Use:   "inspect [workbook.xlsx]",
		Short: "Parse a workbook and print the extracted records as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
	inspectCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")

	rootCmd.AddCommand(templateCmd, inspectCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runTemplate(cmd *cobra.Command, args []string) error {
	data, err := bulkimport.BuildTemplate()
	if err != nil {
		return fmt.Errorf("build template: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", outputPath, len(data))
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read workbook: %w", err)
	}

	parsed, err := bulkimport.ParseWorkbook(data)
	if err != nil {
		return fmt.Errorf("parse workbook: %w", err)
	}

	var out []byte
	if pretty {
		out, err = json.MarshalIndent(parsed, "", "  ")
	} else {
		out, err = json.Marshal(parsed)
	}
	if err != nil {
		return fmt.Errorf("serialize records: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
