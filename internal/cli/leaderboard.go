package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"mathrush/internal/client"
	"mathrush/internal/config"
	"mathrush/internal/domain"
)

func newLeaderboardCmd() *cobra.Command {
	var sortKey string
	var username, password string
	var watch bool

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the top players",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			api, err := client.NewAPI(baseURL)
			if err != nil {
				return err
			}
			term := NewTerm(os.Stdout)

			// The leaderboard endpoint sits behind the session like the rest
			// of the API.
			auth := client.NewAuthController(api, term)
			if !auth.Login(cmd.Context(), username, password) {
				return errors.New("login failed")
			}

			view := client.NewLeaderboardView(api, term,
				config.Duration(cfg.Leaderboard.Refresh, config.DefaultLeaderboardRefresh)).Dedicated()

			if watch {
				view.Watch(cmd.Context(), sortKey)
				return nil
			}
			return view.Show(cmd.Context(), sortKey)
		},
	}
	cmd.Flags().StringVarP(&sortKey, "type", "t", domain.SortByScore, "sort key: score or speed")
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep refreshing until interrupted")
	return cmd
}
