package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	configPath string
	port       string
	baseURL    string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mathrush",
		Short: "Timed mental-math game: server, migrations, and terminal client",
	}

	fs := cmd.PersistentFlags()
	fs.StringVar(&configPath, "config", "config/config.yaml", "path to YAML config (env: MATHRUSH_CONFIG)")
	fs.StringVar(&port, "port", "8080", "port the server listens on (env: MATHRUSH_PORT)")
	fs.StringVar(&baseURL, "base-url", "http://localhost:8080", "server URL for client commands (env: MATHRUSH_BASE_URL)")

	// Flags double as env vars with a MATHRUSH_ prefix.
	v := viper.New()
	v.SetEnvPrefix("MATHRUSH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newPlayCmd())
	cmd.AddCommand(newRegisterCmd())
	cmd.AddCommand(newLeaderboardCmd())

	cmd.SilenceUsage = true
	return cmd
}
