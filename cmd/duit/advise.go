package main

import (
	"fmt"
	"time"

	"duit/internal/advisor"
	"duit/internal/cli"
	"duit/internal/common"
	"duit/internal/report"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func adviseCmd() *cobra.Command {
	var topN int

	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Get AI advice on this month's finances",
		Long: `Summarize this month's income, spending, and top categories, and ask an
AI provider for short actionable advice in Indonesian. Advice is
generated at most once per day; repeat calls return the cached text.

Requires an API key in the config (advisor.api_key) or via
DUIT_ADVISOR_API_KEY.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			apiKey := viper.GetString("advisor.api_key")
			if apiKey == "" {
				return common.NewUserError(
					"No advisor API key configured. Set advisor.api_key in the config or DUIT_ADVISOR_API_KEY.",
					common.ErrMissingConfig)
			}

			client, err := advisor.NewClient(advisor.Config{
				Provider: viper.GetString("advisor.provider"),
				APIKey:   apiKey,
				Model:    viper.GetString("advisor.model"),
			})
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			now := time.Now()
			snapshot, err := report.NewAggregator(store).AdviceSnapshot(ctx, now.Year(), now.Month(), topN)
			if err != nil {
				return err
			}

			adv := advisor.New(store, client, viper.GetString("advisor.context"))
			result, err := adv.DailyAdvice(ctx, snapshot)
			if err != nil {
				return err
			}

			if result.Source == advisor.SourceCache {
				fmt.Println(cli.SubtleStyle.Render("(today's advice, cached)"))
			}
			fmt.Println(result.Content)
			return nil
		},
	}

	cmd.Flags().IntVar(&topN, "top", 3, "number of top spending categories to include")

	return cmd
}
