package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zalando/go-keyring"
	"golang.org/x/term"

	"github.com/fivetwenty-io/clarifai-go/internal/constants"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Save an API key",
		Long: `Save an API key in the OS keyring. The key is read from the terminal
without echo, or from stdin when it is not a terminal.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			apiKey, err := readSecret(cmd.InOrStdin(), cmd.ErrOrStderr(), "API key: ")
			if err != nil {
				return err
			}

			if apiKey == "" {
				return clarifai.ParamsRequired("apiKey")
			}

			if verify {
				err = verifyAPIKey(cmd, apiKey)
				if err != nil {
					return err
				}
			}

			err = keyring.Set(cliKeyringService, apiKeyAccount, apiKey)
			if err != nil {
				return fmt.Errorf("saving API key to keyring: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "API key saved")

			return err
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", true, "check the key against the API before saving it")

	return cmd
}

// NewLogoutCommand creates the logout command.
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the saved API key",
		Long:  "Remove the API key saved by 'clarifai login' from the OS keyring",
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := keyring.Delete(cliKeyringService, apiKeyAccount)
			if err != nil && !errors.Is(err, keyring.ErrNotFound) {
				return fmt.Errorf("removing API key from keyring: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")

			return err
		},
	}
}

func verifyAPIKey(cmd *cobra.Command, apiKey string) error {
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	app, err := newVerifyApp(apiKey)
	if err != nil {
		return err
	}

	_, err = app.Models().List(ctx, &clarifai.ListOptions{Page: constants.DefaultPage, PerPage: 1})
	if err != nil {
		return fmt.Errorf("verifying API key: %w", err)
	}

	return nil
}

// readSecret reads a line without echo from a terminal, or plainly from
// any other reader.
func readSecret(in io.Reader, prompt io.Writer, label string) (string, error) {
	if file, ok := in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		_, _ = fmt.Fprint(prompt, label)

		secret, err := term.ReadPassword(int(file.Fd()))

		_, _ = fmt.Fprintln(prompt)

		if err != nil {
			return "", fmt.Errorf("failed to read secret: %w", err)
		}

		return strings.TrimSpace(string(secret)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	return strings.TrimSpace(line), nil
}
