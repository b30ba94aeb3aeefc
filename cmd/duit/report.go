package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"duit/internal/cli"
	"duit/internal/report"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	var monthFlag string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Monthly income, spending, and allowance report",
		Long: `Show the month's income and expense totals, the spending breakdown by
category, and the daily allowance for the rest of the month. Transfers
between wallets are not counted.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			now := time.Now()
			year, month := now.Year(), now.Month()
			if monthFlag != "" {
				parsed, err := time.ParseInLocation("2006-01", monthFlag, time.Local)
				if err != nil {
					return fmt.Errorf("invalid month %q (want YYYY-MM): %w", monthFlag, err)
				}
				year, month = parsed.Year(), parsed.Month()
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			agg := report.NewAggregator(store)

			summary, err := agg.MonthSummary(ctx, year, month)
			if err != nil {
				return err
			}
			breakdown, err := agg.ExpenseBreakdown(ctx, year, month)
			if err != nil {
				return err
			}

			fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Report for %s %d", month, year)))

			fmt.Printf("  Income:   %s\n", cli.SuccessStyle.Render(cli.Rupiah(summary.Income)))
			fmt.Printf("  Expense:  %s\n", cli.ErrorStyle.Render(cli.Rupiah(summary.Expense)))
			fmt.Printf("  Net:      %s\n", cli.FormatAmount(summary.Net()))

			if year == now.Year() && month == now.Month() {
				allowance := report.DailyAllowance(summary, now)
				fmt.Printf("  Daily allowance until month end: %s\n", cli.BoldStyle.Render(cli.Rupiah(allowance)))
			}

			if len(breakdown) == 0 {
				fmt.Println()
				fmt.Println(cli.InfoStyle.Render("No spending recorded this month."))
				return nil
			}

			fmt.Println()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				headerStyle.Render("Category"),
				headerStyle.Render("Group"),
				headerStyle.Render("Spent"),
				headerStyle.Render("Share"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 20),
				strings.Repeat("-", 10),
				strings.Repeat("-", 14),
				strings.Repeat("-", 6))

			for _, c := range breakdown {
				share := 0.0
				if summary.Expense > 0 {
					share = 100 * c.Total / summary.Expense
				}
				group := string(c.Priority)
				if group == "" {
					group = cli.SubtleStyle.Render("-")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%.1f%%\n", c.Name, group, cli.Rupiah(c.Total), share)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&monthFlag, "month", "", "month to report (YYYY-MM, default current)")

	return cmd
}
