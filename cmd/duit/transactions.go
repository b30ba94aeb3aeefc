package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"duit/internal/cli"
	"duit/internal/ledger"
	"duit/internal/model"
	"duit/internal/service"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Record and inspect transactions",
	}

	cmd.AddCommand(addTxCmd())
	cmd.AddCommand(transferCmd())
	cmd.AddCommand(listTxCmd())

	return cmd
}

func addTxCmd() *cobra.Command {
	var (
		dateFlag    string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add <wallet> <category> <amount>",
		Short: "Record an income or expense",
		Long: `Record one transaction against a wallet. The category decides whether
the wallet is debited (expense) or credited (income); the balance change
and the record land together or not at all.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[2], err)
			}

			date, err := parseDate(dateFlag)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			wallet, err := resolveWallet(ctx, store, args[0])
			if err != nil {
				return friendlyError(err)
			}
			category, err := resolveCategory(ctx, store, args[1])
			if err != nil {
				return friendlyError(err)
			}

			engine := ledger.New(store)
			record, err := engine.RecordTransaction(ctx, date, amount, description, wallet.ID, category.ID)
			if err != nil {
				return friendlyError(err)
			}

			verb := "Spent"
			if record.Direction == model.DirectionCredit {
				verb = "Received"
			}
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ %s %s on %q (%s)",
				verb, cli.Rupiah(record.Amount), category.Name, wallet.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&description, "desc", "", "description")

	return cmd
}

func transferCmd() *cobra.Command {
	var (
		dateFlag    string
		description string
	)

	cmd := &cobra.Command{
		Use:   "transfer <from> <to> <amount>",
		Short: "Move money between wallets",
		Long: `Move money from one wallet to another. Both balances change atomically
and a single record is written against the source wallet; a transfer is
not income or spending and never shows up in the monthly totals.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[2], err)
			}

			date, err := parseDate(dateFlag)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			source, err := resolveWallet(ctx, store, args[0])
			if err != nil {
				return friendlyError(err)
			}
			target, err := resolveWallet(ctx, store, args[1])
			if err != nil {
				return friendlyError(err)
			}

			engine := ledger.New(store)
			if _, err := engine.TransferFunds(ctx, date, amount, source.ID, target.ID, description); err != nil {
				return friendlyError(err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Transferred %s from %q to %q",
				cli.Rupiah(amount), source.Name, target.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "transfer date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&description, "desc", "", "optional note")

	return cmd
}

func listTxCmd() *cobra.Command {
	var (
		walletRef string
		fromFlag  string
		toFlag    string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			filter := service.TransactionFilter{Limit: limit}

			if walletRef != "" {
				wallet, resolveErr := resolveWallet(ctx, store, walletRef)
				if resolveErr != nil {
					return friendlyError(resolveErr)
				}
				filter.WalletID = &wallet.ID
			}
			if fromFlag != "" {
				start, parseErr := parseDate(fromFlag)
				if parseErr != nil {
					return parseErr
				}
				filter.StartDate = &start
			}
			if toFlag != "" {
				end, parseErr := parseDate(toFlag)
				if parseErr != nil {
					return parseErr
				}
				filter.EndDate = &end
			}

			txns, err := store.ListTransactions(ctx, filter)
			if err != nil {
				return err
			}

			if len(txns) == 0 {
				fmt.Println(cli.InfoStyle.Render("No transactions found."))
				return nil
			}

			categories, err := store.ListCategories(ctx)
			if err != nil {
				return err
			}
			catNames := make(map[int64]string, len(categories))
			for _, c := range categories {
				catNames[c.ID] = c.Name
			}

			wallets, err := store.ListWallets(ctx, false)
			if err != nil {
				return err
			}
			walletNames := make(map[int64]string, len(wallets))
			for _, w := range wallets {
				walletNames[w.ID] = w.Name
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				headerStyle.Render("Date"),
				headerStyle.Render("Wallet"),
				headerStyle.Render("Category"),
				headerStyle.Render("Amount"),
				headerStyle.Render("Dir"),
				headerStyle.Render("Description"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 10),
				strings.Repeat("-", 14),
				strings.Repeat("-", 14),
				strings.Repeat("-", 14),
				strings.Repeat("-", 6),
				strings.Repeat("-", 24))

			for _, txn := range txns {
				amount := cli.Rupiah(txn.Amount)
				if txn.Direction == model.DirectionDebit {
					amount = cli.ErrorStyle.Render("-" + amount)
				} else {
					amount = cli.SuccessStyle.Render("+" + amount)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					txn.Date.Format("2006-01-02"),
					walletNames[txn.WalletID],
					catNames[txn.CategoryID],
					amount,
					txn.Direction,
					txn.Description)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&walletRef, "wallet", "", "only this wallet")
	cmd.Flags().StringVar(&fromFlag, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&toFlag, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows")

	return cmd
}
