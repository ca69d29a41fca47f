package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/clarifai-go/cmd/clarifai/commands"
	"github.com/fivetwenty-io/clarifai-go/internal/constants"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "clarifai",
	Short: "Clarifai API CLI",
	Long: `A command-line interface for the Clarifai API.

Credentials are read from flags, CLARIFAI_* environment variables, the
config file, or the OS keyring after 'clarifai login'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.clarifai/config.yml)")
	flags.String("api-endpoint", "", "API endpoint URL")
	flags.String("api-key", "", "API key")
	flags.String("session-token", "", "session token")
	flags.String("client-id", "", "legacy client ID (deprecated)")
	flags.String("client-secret", "", "legacy client secret (deprecated)")
	flags.String("user-id", "", "user scope of the base path")
	flags.String("app-id", "", "app scope of the base path")
	flags.String("token-store", "none", "legacy token store (none, file, keyring, nats)")
	flags.String("token-file", "", "token file of the file token store (default is $HOME/.clarifai/tokens.yml)")
	flags.String("nats-url", "", "NATS server URL of the nats token store")
	flags.StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	flags.String("jq", "", "jq expression applied to JSON output")
	flags.Bool("debug", false, "log HTTP requests and responses")

	for _, name := range []string{
		"config", "api-endpoint", "api-key", "session-token", "client-id", "client-secret",
		"user-id", "app-id", "token-store", "token-file", "nats-url", "output", "jq", "debug",
	} {
		_ = viper.BindPFlag(strings.ReplaceAll(name, "-", "_"), flags.Lookup(name))
	}

	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewLoginCommand())
	rootCmd.AddCommand(commands.NewLogoutCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewTokenCommand())
	rootCmd.AddCommand(commands.NewModelsCommand())
	rootCmd.AddCommand(commands.NewInputsCommand())
	rootCmd.AddCommand(commands.NewConceptsCommand())
	rootCmd.AddCommand(commands.NewWorkflowsCommand())
}

func initConfig() {
	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			_, _ = fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		viper.AddConfigPath(filepath.Join(home, ".clarifai"))
		viper.SetConfigType("yml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("CLARIFAI")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && viper.GetBool("debug") {
		_, _ = fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
