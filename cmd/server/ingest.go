package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v4"

	"github.com/artem13815/portfolio/pkg/apperr"
	"github.com/artem13815/portfolio/pkg/portfolio"
	"github.com/artem13815/portfolio/pkg/resume"
)

var (
	ingestEmail     string
	ingestReanalyze bool
	ingestOutput    string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <resume-file>",
	Short: "Run the resume pipeline on a local file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read resume: %w", err)
		}

		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		svc, err := a.portfolios()
		if err != nil {
			return err
		}
		req := portfolio.SubmitRequest{
			// media type is sniffed from the content
			File:         &resume.Document{Filename: filepath.Base(args[0]), Data: data},
			ClaimedEmail: ingestEmail,
		}
		run := svc.Submit
		if ingestReanalyze {
			run = svc.Reanalyze
		}
		rec, err := run(cmd.Context(), req)
		if err != nil {
			return fmt.Errorf("%s: %s", apperr.KindOf(err), apperr.MessageOf(err))
		}
		return printRecord(cmd.OutOrStdout(), rec, ingestOutput)
	},
}

func printRecord(w io.Writer, rec portfolio.Record, format string) error {
	switch format {
	case "yaml":
		// round-trip through JSON so YAML keys match the API
		raw, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
		out, err := yaml.Marshal(doc)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}
	return fmt.Errorf("unknown output format %q", format)
}

func init() {
	ingestCmd.Flags().StringVar(&ingestEmail, "email", "", "Email of the owning identity (defaults to the email found in the resume)")
	ingestCmd.Flags().BoolVar(&ingestReanalyze, "reanalyze", false, "Discard the stored portfolio and history before ingesting")
	ingestCmd.Flags().StringVarP(&ingestOutput, "output", "o", "json", "Output format: json or yaml")
	rootCmd.AddCommand(ingestCmd)
}
