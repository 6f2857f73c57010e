package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/timofei-ponomarev/tp-client/internal/constants"
	"github.com/timofei-ponomarev/tp-client/pkg/tp"
	"github.com/timofei-ponomarev/tp-client/pkg/tpclient"
)

// LoginOptions holds the options for the login command.
type LoginOptions struct {
	API      string
	Token    string
	Username string
	Password string
}

// NewLoginCommand creates the login command.
func NewLoginCommand() *cobra.Command {
	var opts LoginOptions

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and save credentials",
		Long: `Authenticate against a Targetprocess instance and save the
credentials to the config file for subsequent commands.

The token is read from --token or prompted for interactively. Use
--username/--password for basic authentication instead of a token.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoginCommand(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.API, "api", "", "Targetprocess instance URL")
	cmd.Flags().StringVar(&opts.Token, "token", "", "access token")
	cmd.Flags().StringVar(&opts.Username, "username", "", "username for basic authentication")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password for basic authentication")

	return cmd
}

func runLoginCommand(cmd *cobra.Command, opts LoginOptions) error {
	endpoint := opts.API
	if endpoint == "" {
		endpoint = viper.GetString("api")
	}

	if endpoint == "" {
		return ErrAPIEndpointRequired
	}

	endpoint = tpclient.NormalizeEndpoint(endpoint)

	if opts.Token == "" && opts.Username == "" {
		token, err := promptForToken(cmd)
		if err != nil {
			return err
		}

		opts.Token = token
	}

	// Verify the credentials before persisting them.
	var (
		client tp.Client
		err    error
	)

	if opts.Username != "" {
		client, err = tpclient.NewWithBasicAuth(cmd.Context(), endpoint, opts.Username, opts.Password)
	} else {
		client, err = tpclient.NewWithToken(cmd.Context(), endpoint, opts.Token)
	}

	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	if _, err := client.GetValidEntityTypes(cmd.Context()); err != nil {
		return fmt.Errorf("verifying credentials: %w", err)
	}

	if err := saveConfig(endpoint, opts); err != nil {
		return err
	}

	cmd.Printf("Logged in to %s\n", endpoint)

	return nil
}

func promptForToken(cmd *cobra.Command) (string, error) {
	cmd.Print("Access token: ")

	raw, err := term.ReadPassword(int(syscall.Stdin))

	cmd.Println()

	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", ErrTokenRequired
	}

	return token, nil
}

func saveConfig(endpoint string, opts LoginOptions) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to locate home directory: %w", err)
	}

	configDir := filepath.Join(home, ".tpc")
	if err := os.MkdirAll(configDir, constants.ConfigDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	config := map[string]string{"api": endpoint}

	if opts.Token != "" {
		config["token"] = opts.Token
	}

	if opts.Username != "" {
		config["username"] = opts.Username
		config["password"] = opts.Password
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	configPath := filepath.Join(configDir, "config.yml")
	if err := os.WriteFile(configPath, data, constants.ConfigFilePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
