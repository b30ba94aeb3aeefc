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
	"duit/internal/model"
	"duit/internal/service"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}

	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(listCategoriesCmd())

	return cmd
}

func addCategoryCmd() *cobra.Command {
	var (
		categoryType string
		priority     string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Long: `Add a category for classifying transactions. Expense categories must
carry a priority group (fixed, living, lifestyle) used by reports;
income categories take none.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			catType := model.CategoryType(categoryType)
			if !model.ValidCategoryType(catType) || catType == model.CategoryTypeTransfer {
				return fmt.Errorf("invalid category type %q (want income or expense)", categoryType)
			}

			group := model.PriorityGroup(priority)
			if !model.ValidPriorityGroup(group) {
				return fmt.Errorf("invalid priority group %q (want fixed, living, or lifestyle)", priority)
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			category, err := store.CreateCategory(ctx, args[0], catType, group)
			if err != nil {
				return friendlyError(err)
			}

			label := string(category.Type)
			if category.Priority != model.PriorityNone {
				label += "/" + string(category.Priority)
			}
			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Created category %q (%s)", category.Name, label)))
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryType, "type", "expense", "category type (income, expense)")
	cmd.Flags().StringVar(&priority, "group", "", "priority group (fixed, living, lifestyle); required for expenses")

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			categories, err := store.ListCategories(ctx)
			if err != nil {
				return err
			}

			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories found. Use 'duit category add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer func() { _ = w.Flush() }()

			headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				headerStyle.Render("ID"),
				headerStyle.Render("Name"),
				headerStyle.Render("Type"),
				headerStyle.Render("Group"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 24),
				strings.Repeat("-", 10),
				strings.Repeat("-", 10))

			for _, c := range categories {
				group := string(c.Priority)
				if group == "" {
					group = cli.SubtleStyle.Render("-")
				}
				name := c.Name
				if c.Icon != "" {
					name = c.Icon + " " + name
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, name, c.Type, group)
			}

			return nil
		},
	}
}

// resolveCategory accepts either a category ID or a category name.
func resolveCategory(ctx context.Context, store service.Storage, ref string) (*model.Category, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		category, getErr := store.GetCategoryByID(ctx, id)
		if getErr != nil {
			return nil, getErr
		}
		if category != nil {
			return category, nil
		}
	}

	category, err := store.GetCategoryByName(ctx, ref)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("%w: category %q", common.ErrNotFound, ref)
	}
	return category, nil
}
