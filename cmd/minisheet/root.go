package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SametAhmetSahin/mini-spreadsheet/spreadsheet"
)

var (
	outputFormat string
	noColor      bool
	verbose      bool

	logger *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "minisheet <grid-file>",
	Short: "Compute and print a pipe-delimited spreadsheet",
	Long: `minisheet loads a pipe-delimited grid file (one row per line, columns
separated by '|'), computes every formula, and prints the evaluated grid.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogger()
	},
	RunE: runRoot,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", "table", "output format (table or yaml)")
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colorized output")
}

func setupLogger() error {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	logger = l.Sugar()
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	defer logger.Sync() //nolint:errcheck

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open grid file: %w", err)
	}
	defer f.Close()

	wb := spreadsheet.NewWorkbook()
	if err := spreadsheet.LoadGrid(wb, f); err != nil {
		return err
	}
	logger.Debugw("grid loaded", "path", path, "cells", len(wb.Cells()))

	switch outputFormat {
	case "table":
		if noColor {
			color.NoColor = true
		}
		return wb.Render(cmd.OutOrStdout(), spreadsheet.RenderOptions{Color: !noColor})
	case "yaml":
		return writeYAML(cmd, wb)
	default:
		return fmt.Errorf("unknown output format %q", outputFormat)
	}
}

// cellReport is the YAML shape for one computed cell.
type cellReport struct {
	Address string `yaml:"address"`
	Raw     string `yaml:"raw"`
	Value   string `yaml:"value"`
	Error   string `yaml:"error,omitempty"`
}

func writeYAML(cmd *cobra.Command, wb *spreadsheet.Workbook) error {
	reports := make([]cellReport, 0, len(wb.Cells()))
	for _, addr := range wb.Cells() {
		v := wb.GetCell(addr)
		report := cellReport{
			Address: addr.String(),
			Raw:     wb.RawText(addr),
			Value:   spreadsheet.FormatValue(v),
		}
		if cellErr, ok := v.(*spreadsheet.CellError); ok {
			report.Error = spreadsheet.ErrorDescription(cellErr.Kind)
		}
		reports = append(reports, report)
	}

	out, err := yaml.Marshal(reports)
	if err != nil {
		return fmt.Errorf("marshal cells: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}
