package main

import (
	"fmt"
	"os"

	"taxreturn/internal/calc"
	"taxreturn/internal/config"
	"taxreturn/internal/logger"
	"taxreturn/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	verbose    bool
	paramsFile string
	inputFile  string
	outputFile string

	log *zap.Logger
	tax service.TaxService
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "taxcalc",
	Short: "Offline DPFO type B calculator",
	Long: `taxcalc computes a Slovak personal income-tax return (DPFO type B) from a declaration
document without a server or database.

A declaration is the same JSON the form and the HTTP API use. Omitted sections keep their
defaults. Use "-" or omit --file to read from stdin.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := "warn"
		if verbose {
			level = "debug"
		}
		var err error
		log, err = logger.New(level)
		if err != nil {
			return err
		}

		params := calc.DefaultParams()
		if paramsFile != "" {
			if params, err = config.LoadTaxParams(paramsFile); err != nil {
				return err
			}
			log.Debug("Loaded tax params", zap.String("file", paramsFile), zap.Int("tax_year", params.TaxYear))
		}
		tax = service.NewTaxService(params)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute every form row, the risk warnings and the review summary",
	RunE:  runCompute,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the accountant handoff summary with its readiness score",
	RunE:  runSummary,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the declaration as filing XML",
	Long: `Computes the declaration and renders the filing XML document. The XML carries the
computed rows next to the declared values, so it can be imported again without loss.`,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Rebuild a declaration from filing XML",
	RunE:  runImport,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&paramsFile, "params", "", "YAML file overriding the compiled tax parameters")
	rootCmd.PersistentFlags().StringVarP(&inputFile, "file", "f", "", "Input document (default stdin)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "out", "o", "", "Output file (default stdout)")

	computeCmd.Flags().Bool("rows", false, "Print only the form rows as a table")

	rootCmd.AddCommand(computeCmd, summaryCmd, exportCmd, importCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
