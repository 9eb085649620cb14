package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"flowdesk/internal/codec"
	"flowdesk/internal/logging"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a document file is a well-formed flow",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.FromContext(cmd.Context())

			doc, err := codec.ParseFile(args[0])
			if err != nil {
				return err
			}

			logger.Info("Document is valid", "path", args[0], "nodes", doc.NodeCount(), "modules", len(doc.Modules))
			return nil
		},
	}
}

type convertOptions struct {
	to     string
	output string
}

func newConvertCmd() *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a document to json, yaml, dot or svg",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.to, "to", "t", "json", "output format: json, yaml, dot, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	return cmd
}

func runConvert(cmd *cobra.Command, path string, opts *convertOptions) error {
	logger := logging.FromContext(cmd.Context())
	prog := logging.NewProgress(logger)

	exporter, err := codec.ExporterFor(opts.to)
	if err != nil {
		return err
	}

	doc, err := codec.ParseFile(path)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := exporter.Export(doc, w); err != nil {
		return fmt.Errorf("export %s: %w", opts.to, err)
	}

	if opts.output != "" {
		prog.Done("Wrote " + opts.output)
	}
	return nil
}
