package commands

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fivetwenty-io/clarifai-go/internal/auth"
	"github.com/fivetwenty-io/clarifai-go/internal/config"
	"github.com/fivetwenty-io/clarifai-go/internal/constants"
	"github.com/fivetwenty-io/clarifai-go/pkg/clarifai"
)

// TokenView is the printable form of an access token.
type TokenView struct {
	AccessToken string `json:"access_token" yaml:"access_token"`
	ExpiresIn   int64  `json:"expires_in"   yaml:"expires_in"`
	ExpiresAt   string `json:"expires_at"   yaml:"expires_at"`
	Valid       bool   `json:"valid"        yaml:"valid"`
}

// TokenStatus describes the cached legacy token of the configured client.
type TokenStatus struct {
	Strategy   string     `json:"strategy"          yaml:"strategy"`
	TokenStore string     `json:"token_store"       yaml:"token_store"`
	CacheKey   string     `json:"cache_key"         yaml:"cache_key"`
	Token      *TokenView `json:"token,omitempty"   yaml:"token,omitempty"`
}

// NewTokenCommand creates the token command group.
func NewTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage legacy access tokens",
		Long:  "Fetch, install, and inspect access tokens of the deprecated client credentials flow",
	}

	cmd.AddCommand(newTokenGetCommand())
	cmd.AddCommand(newTokenSetCommand())
	cmd.AddCommand(newTokenStatusCommand())
	cmd.AddCommand(newTokenInspectCommand())

	return cmd
}

func newTokenGetCommand() *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get a valid access token",
		Long:  "Return the cached access token, exchanging the client credentials for a new one when it is missing or expired",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd.Context())
			defer cancel()

			app, closer, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer closer()

			token, err := app.GetToken(ctx)
			if err != nil {
				return fmt.Errorf("getting token: %w", err)
			}

			return printToken(cmd, newTokenView(token, time.Now(), reveal))
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "print the access token unmasked")

	return cmd
}

func newTokenSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set TOKEN",
		Short: "Install an access token",
		Long: `Install an access token obtained elsewhere. TOKEN is either a bare token
string or a JSON object with access_token and expires_in. With a token store
configured the token is persisted for other processes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd.Context())
			defer cancel()

			raw, err := parseTokenArg(args[0])
			if err != nil {
				return err
			}

			app, closer, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer closer()

			if !app.SetToken(raw) {
				return constants.ErrInvalidTokenInput
			}

			return printToken(cmd, newTokenView(app.Config().CachedToken(), time.Now(), false))
		},
	}
}

func newTokenStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the cached token",
		Long:  "Display the token cached for the configured client credentials without fetching a new one",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := commandContext(cmd.Context())
			defer cancel()

			app, closer, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer closer()

			shared := app.Config()
			status := TokenStatus{
				Strategy:   shared.Strategy().String(),
				TokenStore: orNotAvailable(loadSettings().TokenStore),
				CacheKey:   auth.TokenCacheKey(config.TokenURL(shared.BasePath), shared.ClientID),
			}

			if token := shared.CachedToken(); token != nil {
				status.Token = newTokenView(token, time.Now(), false)
			}

			return printResult(cmd.OutOrStdout(), status, func(table *tablewriter.Table) error {
				table.Header("Property", "Value")
				_ = table.Append("Strategy", status.Strategy)
				_ = table.Append("Token Store", status.TokenStore)
				_ = table.Append("Cache Key", status.CacheKey)

				if status.Token == nil {
					_ = table.Append("Token", constants.NotAvailable)

					return nil
				}

				_ = table.Append("Valid", fmt.Sprintf("%t", status.Token.Valid))
				_ = table.Append("Expires At", status.Token.ExpiresAt)

				return nil
			})
		},
	}
}

func newTokenInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [TOKEN]",
		Short: "Show the claims of a JWT access token",
		Long:  "Decode the claims of TOKEN, or of the current access token, without verifying the signature",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var accessToken string

			if len(args) == 1 {
				accessToken = args[0]
			} else {
				ctx, cancel := commandContext(cmd.Context())
				defer cancel()

				app, closer, err := newApp(ctx)
				if err != nil {
					return err
				}
				defer closer()

				token, err := app.GetToken(ctx)
				if err != nil {
					return fmt.Errorf("getting token: %w", err)
				}

				accessToken = token.AccessToken
			}

			claims, err := inspectJWT(accessToken)
			if err != nil {
				return err
			}

			return printResult(cmd.OutOrStdout(), claims, func(table *tablewriter.Table) error {
				table.Header("Claim", "Value")

				for _, name := range sortedKeys(claims) {
					_ = table.Append(name, fmt.Sprintf("%v", claims[name]))
				}

				return nil
			})
		},
	}
}

// parseTokenArg accepts a bare token or a JSON token object.
func parseTokenArg(arg string) (any, error) {
	trimmed := strings.TrimSpace(arg)
	if trimmed == "" {
		return nil, constants.ErrTokenArgRequired
	}

	if !strings.HasPrefix(trimmed, "{") {
		return trimmed, nil
	}

	var object map[string]any

	err := json.Unmarshal([]byte(trimmed), &object)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrInvalidTokenInput, err)
	}

	return object, nil
}

// inspectJWT returns the unverified claims of token plus its expiry as
// "expires_at".
func inspectJWT(token string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}

	_, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrInvalidJWTFormat, err)
	}

	expiry, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", constants.ErrInvalidJWTFormat, err)
	}

	if expiry == nil {
		return nil, constants.ErrNoExpirationClaim
	}

	claims["expires_at"] = expiry.UTC().Format(time.RFC3339)

	return claims, nil
}

func newTokenView(token *clarifai.Token, now time.Time, reveal bool) *TokenView {
	if token == nil {
		return nil
	}

	accessToken := token.AccessToken
	if !reveal {
		accessToken = maskToken(accessToken)
	}

	return &TokenView{
		AccessToken: accessToken,
		ExpiresIn:   token.ExpiresIn,
		ExpiresAt:   token.ExpiresAt().UTC().Format(time.RFC3339),
		Valid:       token.Valid(now),
	}
}

// maskToken keeps the last four characters of longer tokens.
func maskToken(token string) string {
	const visible = 4

	if len(token) <= 2*visible {
		return constants.MaskedSecret
	}

	return constants.MaskedSecret + token[len(token)-visible:]
}

func printToken(cmd *cobra.Command, view *TokenView) error {
	return printResult(cmd.OutOrStdout(), view, func(table *tablewriter.Table) error {
		table.Header("Property", "Value")
		_ = table.Append("Access Token", view.AccessToken)
		_ = table.Append("Expires In", fmt.Sprintf("%ds", view.ExpiresIn))
		_ = table.Append("Expires At", view.ExpiresAt)
		_ = table.Append("Valid", fmt.Sprintf("%t", view.Valid))

		return nil
	})
}
