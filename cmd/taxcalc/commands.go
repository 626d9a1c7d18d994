package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"taxreturn/internal/filingxml"
	"taxreturn/internal/model"
	"taxreturn/internal/risk"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runCompute(cmd *cobra.Command, args []string) error {
	d, err := readDeclaration(cmd)
	if err != nil {
		return err
	}
	resp := tax.Compute(d)
	errs, warns, infos := risk.Count(resp.Warnings)
	log.Debug("Computed declaration",
		zap.String("r135", resp.Result.TaxToPay),
		zap.String("r136", resp.Result.TaxToRefund),
		zap.Int("errors", errs), zap.Int("warnings", warns), zap.Int("infos", infos))

	rowsOnly, _ := cmd.Flags().GetBool("rows")
	if rowsOnly {
		return writeOutput(cmd, func(w io.Writer) error {
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			for _, row := range resp.Rows {
				fmt.Fprintf(tw, "%s\t%s\n", row.Code, row.Value)
			}
			return tw.Flush()
		})
	}
	return writeJSON(cmd, resp)
}

func runSummary(cmd *cobra.Command, args []string) error {
	d, err := readDeclaration(cmd)
	if err != nil {
		return err
	}
	return writeJSON(cmd, tax.Compute(d).Summary)
}

func runExport(cmd *cobra.Command, args []string) error {
	d, err := readDeclaration(cmd)
	if err != nil {
		return err
	}
	data, err := filingxml.Export(d, tax.Compute(d).Result)
	if err != nil {
		return err
	}
	return writeOutput(cmd, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := readInput(cmd)
	if err != nil {
		return err
	}
	d, err := filingxml.Import(data)
	if err != nil {
		return err
	}
	return writeJSON(cmd, d)
}

func readDeclaration(cmd *cobra.Command) (model.Declaration, error) {
	data, err := readInput(cmd)
	if err != nil {
		return model.Declaration{}, err
	}
	return tax.DecodeDeclaration(data)
}

func readInput(cmd *cobra.Command) ([]byte, error) {
	if inputFile == "" || inputFile == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(inputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return data, nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return writeOutput(cmd, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "%s\n", data)
		return err
	})
}

func writeOutput(cmd *cobra.Command, write func(io.Writer) error) error {
	if outputFile == "" || outputFile == "-" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	log.Debug("Wrote output", zap.String("file", outputFile))
	return f.Close()
}
