package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"duit/internal/cli"
	"duit/internal/report"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage monthly budgets",
	}

	cmd.AddCommand(setBudgetCmd())
	cmd.AddCommand(listBudgetsCmd())

	return cmd
}

func setBudgetCmd() *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "set <category> <amount>",
		Short: "Set a monthly spending limit for a category",
		Long: `Set the spending limit for one category in one month. Setting a limit
that already exists overwrites it.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			if period == "" {
				period = time.Now().Format("2006-01")
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			category, err := resolveCategory(ctx, store, args[0])
			if err != nil {
				return friendlyError(err)
			}

			budget, err := store.SetBudget(ctx, category.ID, period, amount)
			if err != nil {
				return friendlyError(err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Budget for %q in %s set to %s",
				category.Name, budget.Period, cli.Rupiah(budget.AmountLimit))))
			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", "", "month (YYYY-MM, default current month)")

	return cmd
}

func listBudgetsCmd() *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show budgets against actual spending",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if period == "" {
				period = time.Now().Format("2006-01")
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			usages, err := report.NewAggregator(store).BudgetPerformance(ctx, period)
			if err != nil {
				return err
			}

			if len(usages) == 0 {
				fmt.Println(cli.InfoStyle.Render(fmt.Sprintf("No budgets set for %s. Use 'duit budget set' to add one.", period)))
				return nil
			}

			fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Budgets for %s", period)))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				headerStyle.Render("Category"),
				headerStyle.Render("Limit"),
				headerStyle.Render("Spent"),
				headerStyle.Render("Left"),
				headerStyle.Render(""))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 20),
				strings.Repeat("-", 14),
				strings.Repeat("-", 14),
				strings.Repeat("-", 14),
				strings.Repeat("-", 6))

			for _, u := range usages {
				left := u.AmountLimit - u.Spent
				marker := ""
				switch {
				case left < 0:
					marker = cli.ErrorStyle.Render("over")
				case u.AmountLimit > 0 && u.Spent >= 0.8*u.AmountLimit:
					marker = cli.WarningStyle.Render("near")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					u.CategoryName,
					cli.Rupiah(u.AmountLimit),
					cli.Rupiah(u.Spent),
					cli.FormatAmount(left),
					marker)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&period, "period", "", "month (YYYY-MM, default current month)")

	return cmd
}
