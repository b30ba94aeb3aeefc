package main

import (
	"fmt"

	"duit/internal/cli"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Bring the database schema up to the current version. Opening storage runs migrations automatically; this command exists to do it explicitly.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			fmt.Println(cli.SuccessStyle.Render("✓ Database schema is up to date"))
			return nil
		},
	}
}
