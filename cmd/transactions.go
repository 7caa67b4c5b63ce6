package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/theirongolddev/advisor/internal/backend"
	"github.com/theirongolddev/advisor/internal/cli"
	"github.com/theirongolddev/advisor/internal/model"
	"github.com/theirongolddev/advisor/internal/pipeline"
	"github.com/theirongolddev/advisor/internal/present"
	"github.com/theirongolddev/advisor/internal/tui"

	"github.com/spf13/cobra"
)

var flagMonthOnly bool

var txAdd tui.TransactionValues

var transactionsCmd = &cobra.Command{
	Use:     "transactions",
	Aliases: []string{"tx"},
	Short:   "List recent transactions",
	RunE:    runTransactions,
}

var transactionsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a transaction (prompts for missing fields)",
	RunE:  runTransactionsAdd,
}

func init() {
	transactionsCmd.Flags().BoolVar(&flagMonthOnly, "month", false, "Show every transaction from this month instead of the latest 50")

	f := transactionsAddCmd.Flags()
	f.StringVar((*string)(&txAdd.Type), "type", "", "expense or income")
	f.StringVar(&txAdd.Amount, "amount", "", "Amount, e.g. 1250.50")
	f.StringVar(&txAdd.Category, "category", "", "Category, e.g. Food")
	f.StringVar(&txAdd.PaymentMethod, "payment", "", "Payment method, e.g. UPI")
	f.StringVar(&txAdd.Description, "description", "", "What it was for")
	f.StringVar(&txAdd.Merchant, "merchant", "", "Merchant (optional)")
	f.StringVar(&txAdd.Trigger, "trigger", "", "Emotional trigger, e.g. Stress (optional)")

	transactionsCmd.AddCommand(transactionsAddCmd)
	rootCmd.AddCommand(transactionsCmd)
}

func runTransactions(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	id, err := a.identity(ctx)
	if err != nil {
		return err
	}
	title := "Recent Transactions"
	var txs []model.Transaction
	if flagMonthOnly {
		title = "This Month"
		now := time.Now()
		txs, err = pipeline.Select[model.Transaction](a.svc, func(userID string) backend.Query {
			return pipeline.MonthTransactionsQuery(userID, now)
		})(ctx, id)
	} else {
		err = a.loaders.Transactions.Load(ctx, id)
		txs = a.loaders.Transactions.Items()
	}
	if err != nil {
		return fmt.Errorf("loading transactions: %w", err)
	}
	if len(txs) == 0 {
		fmt.Println()
		fmt.Print(cli.RenderEmpty(present.EmptyTransactions))
		return nil
	}

	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		cat := present.Category(tx.Category)
		kind := present.TransactionType(tx.TransactionType)
		rows = append(rows, []string{
			cli.FormatDate(tx.TransactionDate),
			cli.Colored(cat.Role, cat.Glyph+" "+cat.Label),
			tx.Description,
			cli.Deref(tx.Merchant, ""),
			cli.Deref(tx.EmotionalTrigger, ""),
			cli.Colored(kind.Role, cli.FormatSigned(tx.Amount, tx.TransactionType, a.currency())),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:      fmt.Sprintf("%s (%d)", title, len(txs)),
		Headers:    []string{"Date", "Category", "Description", "Merchant", "Trigger", "Amount"},
		Rows:       rows,
		RightAlign: []bool{false, false, false, false, false, true},
	}))
	return nil
}

func runTransactionsAdd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.identity(cmd.Context()); err != nil {
		return err
	}

	vals := txAdd
	if vals.Amount == "" || vals.Description == "" {
		if err := tui.NewTransactionForm(&vals).Run(); err != nil {
			return err
		}
	}
	if vals.Type == "" {
		vals.Type = model.TransactionExpense
	}
	if vals.Category == "" {
		vals.Category = "Other"
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), requestTimeout)
	defer cancel()

	id, err := a.identity(ctx)
	if err != nil {
		return err
	}
	in, err := vals.Input(id.UserID, time.Now())
	if err != nil {
		return err
	}
	if err := a.svc.Insert(ctx, id.Token, backend.TableTransactions, in); err != nil {
		return errors.New("failed to add transaction: " + backend.UserMessage(err))
	}

	kind := present.TransactionType(in.TransactionType)
	fmt.Printf("  %s Added %s %s · %s\n",
		cli.Colored(present.RoleGreen, "✓"),
		cli.Colored(kind.Role, cli.FormatSigned(in.Amount, in.TransactionType, a.currency())),
		in.Category, in.Description)
	return nil
}
