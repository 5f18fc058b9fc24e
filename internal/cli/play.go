package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mathrush/internal/client"
	"mathrush/internal/config"
	"mathrush/internal/domain"
)

func newPlayCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Log in and play a timed round in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd.Context(), username, password)
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func runPlay(ctx context.Context, username, password string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	api, err := client.NewAPI(baseURL)
	if err != nil {
		return err
	}
	term := NewTerm(os.Stdout)

	auth := client.NewAuthController(api, term)
	if !auth.Login(ctx, username, password) {
		return errors.New("login failed")
	}

	if name, err := api.CurrentUser(ctx); err == nil {
		term.Notify(fmt.Sprintf("Welcome, %s!", name))
	}

	board := client.NewLeaderboardView(api, term, config.Duration(cfg.Leaderboard.Refresh, config.DefaultLeaderboardRefresh))

	game := client.NewGame(api, term, client.GameConfig{
		TimeLimit:     config.Duration(cfg.Game.TimeLimit, config.DefaultTimeLimit),
		Tick:          config.Duration(cfg.Game.Tick, config.DefaultTick),
		WarnThreshold: config.Duration(cfg.Game.WarnThreshold, config.DefaultWarnThreshold),
		FactHold:      config.Duration(cfg.Game.FactHold, config.DefaultFactHold),
	}).WithOnEnd(func() {
		_ = board.Show(ctx, domain.SortByScore)
	})

	term.Notify("Type your answer and press enter. The round ends when the clock runs out.")
	game.Start(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	for game.State() == client.StateActive && scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		answer, err := strconv.Atoi(line)
		if err != nil {
			term.Notify("Numbers only.")
			continue
		}
		game.Submit(ctx, answer)
	}

	// stdin closed early; wrap up the round so the result still gets reported
	game.End(ctx)
	return scanner.Err()
}
