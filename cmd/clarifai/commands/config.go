package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/clarifai-go/internal/config"
	"github.com/fivetwenty-io/clarifai-go/internal/constants"
)

// configKeys are the settings 'config set' may write. Credentials are kept
// out of the file; use 'clarifai login' instead.
var configKeys = []string{"api_endpoint", "user_id", "app_id", "token_store", "token_file", "nats_url", "output"}

// ConfigView is the resolved configuration as printed by 'config show'.
type ConfigView struct {
	Settings `yaml:",inline"`

	ConfigFile       string `json:"config_file"       yaml:"config_file"`
	ResolvedEndpoint string `json:"resolved_endpoint" yaml:"resolved_endpoint"`
	BasePath         string `json:"base_path"         yaml:"base_path"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show the resolved configuration and edit the Clarifai CLI config file",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigBasePathCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the configuration resolved from flags, environment, config file, and keyring with secrets masked",
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := newConfigView(loadSettings())

			return printResult(cmd.OutOrStdout(), view, func(table *tablewriter.Table) error {
				table.Header("Property", "Value")
				_ = table.Append("Config File", orNotAvailable(view.ConfigFile))
				_ = table.Append("API Endpoint", view.ResolvedEndpoint)
				_ = table.Append("Base Path", view.BasePath)
				_ = table.Append("User ID", orNotAvailable(view.UserID))
				_ = table.Append("App ID", orNotAvailable(view.AppID))
				_ = table.Append("API Key", orNotAvailable(view.APIKey))
				_ = table.Append("Session Token", orNotAvailable(view.SessionToken))
				_ = table.Append("Client ID", orNotAvailable(view.ClientID))
				_ = table.Append("Client Secret", orNotAvailable(view.ClientSecret))
				_ = table.Append("Token Store", orNotAvailable(view.TokenStore))

				return nil
			})
		},
	}
}

func newConfigBasePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "base-path",
		Short: "Print the API base path",
		Long:  "Print the base path requests are sent to, scoped by --user-id and --app-id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := newConfigView(loadSettings())

			_, err := fmt.Fprintln(cmd.OutOrStdout(), view.BasePath)

			return err
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  fmt.Sprintf("Write a value to the config file. KEY is one of %v", configKeys),
		Args:  cobra.ExactArgs(constants.MinimumArgumentCount),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := updateConfigFile(func(values map[string]interface{}) error {
				if !slices.Contains(configKeys, args[0]) {
					return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, args[0])
				}

				values[args[0]] = args[1]

				return nil
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", args[0], path)

			return err
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a value from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := updateConfigFile(func(values map[string]interface{}) error {
				delete(values, args[0])

				return nil
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s in %s\n", args[0], path)

			return err
		},
	}
}

func newConfigView(settings *Settings) *ConfigView {
	endpoint := config.ResolveEndpoint(settings.APIEndpoint, config.NewEnvSource())

	return &ConfigView{
		Settings:         *settings.masked(),
		ConfigFile:       viper.ConfigFileUsed(),
		ResolvedEndpoint: endpoint,
		BasePath:         config.BasePath(endpoint, settings.UserID, settings.AppID),
	}
}

// configFilePath returns the file in use or $HOME/.clarifai/config.yml.
func configFilePath() (string, error) {
	if path := viper.ConfigFileUsed(); path != "" {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, ".clarifai", "config.yml"), nil
}

// updateConfigFile applies mutate to the config file and writes it back.
func updateConfigFile(mutate func(map[string]interface{}) error) (string, error) {
	path, err := configFilePath()
	if err != nil {
		return "", err
	}

	return path, editConfigFile(path, mutate)
}

func editConfigFile(path string, mutate func(map[string]interface{}) error) error {
	values := map[string]interface{}{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config file: %w", err)
	}

	if len(data) > 0 {
		err = yaml.Unmarshal(data, &values)
		if err != nil {
			return fmt.Errorf("parsing config file: %w", err)
		}
	}

	err = mutate(values)
	if err != nil {
		return err
	}

	data, err = yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encoding config file: %w", err)
	}

	err = os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
