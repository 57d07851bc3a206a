package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/cashdesk/ledger"
	"github.com/rustyeddy/cashdesk/pkg/id"
)

var txCmd = &cobra.Command{
	Use:   "tx",
	Short: "Record and list transactions",
	Long: `Record transactions into the store and list the ones covered by a
register session.

Examples:
  cashdesk tx add --amount 100 --meta paymentMethod=efectivo
  cashdesk tx add --amount -30 --method-id pm-1 --method-name "Pago en Tienda" --affects debit
  cashdesk tx list --closure <closure-id>`,
}

var txAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a transaction",
	Args:  cobra.NoArgs,
	RunE:  runTxAdd,
}

var txListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the transactions covered by a closure",
	Args:  cobra.NoArgs,
	RunE:  runTxList,
}

var (
	txAmount     float64
	txDate       string
	txMethodID   string
	txMethodName string
	txTypeName   string
	txAffects    string
	txMeta       []string
	txClosureID  string
)

func init() {
	rootCmd.AddCommand(txCmd)
	txCmd.AddCommand(txAddCmd)
	txCmd.AddCommand(txListCmd)

	txAddCmd.Flags().Float64Var(&txAmount, "amount", 0, "transaction amount; sign is the classification fallback (required)")
	txAddCmd.Flags().StringVar(&txDate, "date", "", "transaction time, RFC3339 (default now)")
	txAddCmd.Flags().StringVar(&txMethodID, "method-id", "", "linked payment method id")
	txAddCmd.Flags().StringVar(&txMethodName, "method-name", "", "linked payment method name")
	txAddCmd.Flags().StringVar(&txTypeName, "type", "", "transaction type/category name")
	txAddCmd.Flags().StringVar(&txAffects, "affects", "", "explicit classification: credit or debit")
	txAddCmd.Flags().StringArrayVar(&txMeta, "meta", nil, "metadata entry key=value (repeatable)")
	txAddCmd.MarkFlagRequired("amount")

	txListCmd.Flags().StringVar(&txClosureID, "closure", "", "closure id (required)")
	txListCmd.MarkFlagRequired("closure")
}

func runTxAdd(cmd *cobra.Command, args []string) error {
	date := time.Now().UTC()
	if txDate != "" {
		t, err := time.Parse(time.RFC3339, txDate)
		if err != nil {
			return fmt.Errorf("parse --date: %w", err)
		}
		date = t
	}

	tx := ledger.Transaction{
		ID:     id.New(),
		Amount: txAmount,
		Date:   date,
	}

	if txMethodID != "" || txMethodName != "" {
		tx.Method = &ledger.Method{ID: txMethodID, Name: txMethodName}
	}
	if txTypeName != "" || txAffects != "" {
		switch txAffects {
		case "", string(ledger.Credit), string(ledger.Debit):
		default:
			return fmt.Errorf("--affects must be credit or debit")
		}
		tx.Type = &ledger.TransactionType{Name: txTypeName, AffectsBalance: ledger.Balance(txAffects)}
	}
	for _, pair := range txMeta {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("invalid --meta entry %q, want key=value", pair)
		}
		if tx.Metadata == nil {
			tx.Metadata = map[string]string{}
		}
		tx.Metadata[k] = v
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.Record(context.Background(), tx); err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}

	fmt.Printf("✓ Recorded %s (%.2f at %s)\n", tx.ID, tx.Amount, tx.Date.Format(time.RFC3339))
	return nil
}

func runTxList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	txs, err := s.TransactionsForClosure(context.Background(), txClosureID)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}
	if len(txs) == 0 {
		fmt.Println("No transactions.")
		return nil
	}

	for _, tx := range txs {
		method := "-"
		if tx.Method != nil {
			method = tx.Method.Name
		} else if m, ok := tx.Metadata["paymentMethod"]; ok {
			method = m
		}
		fmt.Printf("%s  %s  %10.2f  %s\n", tx.ID, tx.Date.UTC().Format(time.RFC3339), tx.Amount, method)
	}
	fmt.Printf("%d transactions\n", len(txs))
	return nil
}
