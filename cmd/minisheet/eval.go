package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SametAhmetSahin/mini-spreadsheet/spreadsheet"
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Evaluate a single expression against an empty sheet",
	Long: `eval computes one formula with no surrounding grid, so cell references
read as zero. The leading '=' is optional.`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	defer logger.Sync() //nolint:errcheck

	expr := args[0]
	if !strings.HasPrefix(expr, "=") {
		expr = "=" + expr
	}

	wb := spreadsheet.NewWorkbook()
	if err := wb.Set("A1", expr); err != nil {
		return err
	}

	v, err := wb.Get("A1")
	if err != nil {
		return err
	}
	if cellErr, ok := v.(*spreadsheet.CellError); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", cellErr.Code(),
			spreadsheet.ErrorDescription(cellErr.Kind))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), spreadsheet.FormatValue(v))
	return nil
}
