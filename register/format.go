package register

import (
	"fmt"
	"strings"
	"time"
)

// FormatClosure renders a closure as a plain-text report for the CLI.
func FormatClosure(c *Closure) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Register %s [%s]\n", shortID(c.ID), c.Status)
	fmt.Fprintf(&b, "  Opened:  %s\n", c.CreatedAt.UTC().Format(time.RFC3339))
	if c.ClosedAt != nil {
		fmt.Fprintf(&b, "  Closed:  %s\n", c.ClosedAt.UTC().Format(time.RFC3339))
	}
	if c.OperatorID != "" {
		fmt.Fprintf(&b, "  Operator: %s\n", c.OperatorID)
	}

	if len(c.Totals) > 0 {
		b.WriteString("\n  Method                     Credit       Debit       Total\n")
		for _, mt := range c.Totals {
			fmt.Fprintf(&b, "  %-22s %10.2f  %10.2f  %10.2f\n", mt.Name, mt.Credit, mt.Debit, mt.Total)
		}
	}

	fmt.Fprintf(&b, "\n  Total credit:  %10.2f\n", c.TotalCredit)
	fmt.Fprintf(&b, "  Total debit:   %10.2f\n", c.TotalDebit)
	fmt.Fprintf(&b, "  Final balance: %10.2f\n", c.FinalBalance)

	return b.String()
}

// FormatView renders a Current view, including the explanatory message
// when no register could be opened.
func FormatView(v *View) string {
	var b strings.Builder
	if v.Message != "" {
		fmt.Fprintf(&b, "%s\n\n", v.Message)
	}
	if v.Closure != nil {
		b.WriteString(FormatClosure(v.Closure))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 10 {
		return full
	}
	return full[:10]
}
