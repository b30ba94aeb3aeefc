package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"duit/internal/cli"
	"duit/internal/common"
	"duit/internal/ledger"
	"duit/internal/model"
	"duit/internal/service"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func walletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage wallets",
		Long:  `Create, list, reconcile, and archive the wallets money lives in.`,
	}

	cmd.AddCommand(addWalletCmd())
	cmd.AddCommand(listWalletsCmd())
	cmd.AddCommand(archiveWalletCmd())
	cmd.AddCommand(reconcileWalletCmd())

	return cmd
}

func addWalletCmd() *cobra.Command {
	var (
		walletType     string
		initialBalance float64
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			wallet, err := store.CreateWallet(ctx, args[0], walletType, initialBalance)
			if err != nil {
				return friendlyError(err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Created wallet %q (%s) with balance %s",
				wallet.Name, wallet.Type, cli.Rupiah(wallet.Balance))))
			return nil
		},
	}

	cmd.Flags().StringVar(&walletType, "type", "cash", "wallet type (cash, bank, e-wallet)")
	cmd.Flags().Float64Var(&initialBalance, "balance", 0, "initial balance")

	return cmd
}

func listWalletsCmd() *cobra.Command {
	var includeArchived bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List wallets and total assets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			wallets, err := store.ListWallets(ctx, !includeArchived)
			if err != nil {
				return err
			}

			if len(wallets) == 0 {
				fmt.Println(cli.InfoStyle.Render("No wallets found. Use 'duit wallet add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				headerStyle.Render("ID"),
				headerStyle.Render("Name"),
				headerStyle.Render("Type"),
				headerStyle.Render("Balance"),
				headerStyle.Render("Status"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 20),
				strings.Repeat("-", 10),
				strings.Repeat("-", 16),
				strings.Repeat("-", 8))

			var total float64
			for _, wallet := range wallets {
				status := "active"
				if !wallet.IsActive {
					status = cli.SubtleStyle.Render("archived")
				} else {
					total += wallet.Balance
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					wallet.ID, wallet.Name, wallet.Type, cli.FormatAmount(wallet.Balance), status)
			}

			fmt.Fprintf(w, "\t%s\t\t%s\t\n",
				cli.BoldStyle.Render("Total"),
				cli.BoldStyle.Render(cli.Rupiah(total)))

			return nil
		},
	}

	cmd.Flags().BoolVar(&includeArchived, "all", false, "include archived wallets")

	return cmd
}

func archiveWalletCmd() *cobra.Command {
	var (
		transferTo string
		writeOff   bool
	)

	cmd := &cobra.Command{
		Use:   "archive <wallet>",
		Short: "Archive a wallet",
		Long: `Archive a wallet without deleting its history. A wallet with a
remaining balance must be settled first: move the balance to another
wallet with --to, or record it as a balance correction with --write-off.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			wallet, err := resolveWallet(ctx, store, args[0])
			if err != nil {
				return friendlyError(err)
			}

			action := ledger.ArchiveActionNone
			var targetID int64
			switch {
			case transferTo != "":
				target, targetErr := resolveWallet(ctx, store, transferTo)
				if targetErr != nil {
					return friendlyError(targetErr)
				}
				action = ledger.ArchiveActionTransfer
				targetID = target.ID
			case writeOff:
				action = ledger.ArchiveActionWriteOff
			}

			engine := ledger.New(store)
			if err := engine.ArchiveWallet(ctx, wallet.ID, action, targetID); err != nil {
				return friendlyError(err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Archived wallet %q", wallet.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&transferTo, "to", "", "wallet to receive the remaining balance")
	cmd.Flags().BoolVar(&writeOff, "write-off", false, "record the remaining balance as a correction")

	return cmd
}

func reconcileWalletCmd() *cobra.Command {
	var (
		dateFlag    string
		description string
	)

	cmd := &cobra.Command{
		Use:   "reconcile <wallet> <actual-balance>",
		Short: "Correct a wallet balance to match reality",
		Long: `Set a wallet's balance to the actually observed amount. The difference
is recorded as a correction transaction, so no money appears or
disappears without a trace.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			actual, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid balance %q: %w", args[1], err)
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

			engine := ledger.New(store)
			record, err := engine.ReconcileBalance(ctx, wallet.ID, actual, date, description)
			if err != nil {
				return friendlyError(err)
			}

			if record == nil {
				fmt.Println(cli.InfoStyle.Render(fmt.Sprintf("Wallet %q already at %s, nothing to do",
					wallet.Name, cli.Rupiah(actual))))
				return nil
			}

			verb := "shortfall"
			if record.Direction == model.DirectionCredit {
				verb = "surplus"
			}
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Reconciled %q to %s (%s of %s recorded)",
				wallet.Name, cli.Rupiah(actual), verb, cli.Rupiah(record.Amount))))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "correction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&description, "desc", "", "optional note")

	return cmd
}

// resolveWallet accepts either a wallet ID or a wallet name.
func resolveWallet(ctx context.Context, store service.Storage, ref string) (*model.Wallet, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		wallet, getErr := store.GetWalletByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if wallet != nil {
			return wallet, nil
		}
	}

	wallet, err := store.GetWalletByName(ctx, ref)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, fmt.Errorf("%w: wallet %q", common.ErrNotFound, ref)
	}
	return wallet, nil
}
