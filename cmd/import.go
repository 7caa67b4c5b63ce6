package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/advisor/internal/cli"
	"github.com/theirongolddev/advisor/internal/model"
	"github.com/theirongolddev/advisor/internal/pipeline"
	"github.com/theirongolddev/advisor/internal/source"

	"github.com/spf13/cobra"
)

// importTimeout bounds a whole bulk import, not a single insert.
const importTimeout = 5 * time.Minute

var (
	flagDryRun   bool
	flagTemplate bool
)

var importCmd = &cobra.Command{
	Use:   "import [file-or-dir]",
	Short: "Import transactions from CSV files",
	Long: "Import transactions from a CSV file, or from every .csv file in a directory.\n" +
		"Use --template to print the expected header with an example row.",
	Args: cobra.MaximumNArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Parse and validate without inserting")
	importCmd.Flags().BoolVar(&flagTemplate, "template", false, "Print a CSV template and exit")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if flagTemplate {
		fmt.Print(source.Template(time.Now()))
		return nil
	}
	if len(args) == 0 {
		return errors.New("import needs a file or directory (or --template)")
	}

	files, err := source.ScanDir(args[0])
	if err != nil {
		return fmt.Errorf("scanning %s: %w", args[0], err)
	}
	if len(files) == 0 {
		fmt.Printf("  No CSV files found in %s\n", args[0])
		return nil
	}

	var inputs []model.TransactionInput
	skipped := 0
	for _, f := range files {
		res := source.ParseFile(f.Path)
		if res.Err != nil {
			fmt.Printf("  %s: %v\n", f.Name, res.Err)
			continue
		}
		fmt.Printf("  %s: %s rows", f.Name, cli.FormatNumber(int64(len(res.Inputs))))
		if res.ParseErrors > 0 {
			fmt.Print(cli.Muted(fmt.Sprintf(", %d skipped", res.ParseErrors)))
		}
		fmt.Println()
		for _, le := range res.Errors {
			fmt.Printf("    line %d: %s\n", le.Line, le.Msg)
		}
		if more := res.ParseErrors - len(res.Errors); more > 0 {
			fmt.Println(cli.Muted(fmt.Sprintf("    ... and %d more", more)))
		}
		inputs = append(inputs, res.Inputs...)
		skipped += res.ParseErrors
	}

	if len(inputs) == 0 {
		fmt.Println("  Nothing to import.")
		return nil
	}
	if flagDryRun {
		fmt.Printf("\n  Dry run: %s transactions ready, %d skipped.\n",
			cli.FormatNumber(int64(len(inputs))), skipped)
		return nil
	}

	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), importTimeout)
	defer cancel()

	id, err := a.identity(ctx)
	if err != nil {
		return err
	}

	res := pipeline.ImportTransactions(ctx, a.svc, id, inputs, func(current, total int) {
		progressf("\r  Importing [%d/%d]", current, total)
	})
	progressf("\n")

	fmt.Printf("\n  Imported %s of %s transactions.\n",
		cli.FormatNumber(int64(res.Inserted)), cli.FormatNumber(int64(res.Total)))
	if res.Failed > 0 {
		fmt.Printf("  %d failed; first error: %v\n", res.Failed, res.Errors[0])
		return fmt.Errorf("%d of %d inserts failed", res.Failed, res.Total)
	}
	return nil
}
