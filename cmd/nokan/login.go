package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nokan/nokan/internal/config"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store an API token in a profile",
	Long: `Prompt for an API token, verify it against the server and save it in the
selected profile of ~/.nokan/config.toml (mode 0600).

Pass --token-stdin to read the token from standard input instead of a prompt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext()
		defer cancel()

		fromStdin, _ := cmd.Flags().GetBool("token-stdin")
		token, err := readLoginToken(cmd.InOrStdin(), fromStdin)
		if err != nil {
			return err
		}

		cfg, err := resolveLoginConfig()
		if err != nil {
			return err
		}
		cfg.Token = token

		client, err := newClient(cfg)
		if err != nil {
			return err
		}
		board, err := client.Connect(ctx)
		if err != nil {
			return err
		}

		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		if err := saveProfileToken(home, cfg, token); err != nil {
			return err
		}

		printSuccess(cmd.OutOrStdout(),
			fmt.Sprintf("Logged in to board %q as profile %q (%s)",
				board.Title, cfg.Profile, permissionString(board.Permissions)),
			outputFormat)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().Bool("token-stdin", false, "Read the token from standard input")
}

// readLoginToken reads the token from stdin when asked to, otherwise prompts
// on the terminal with echo disabled.
func readLoginToken(in io.Reader, fromStdin bool) (string, error) {
	if tokenFlag != "" {
		return tokenFlag, nil
	}

	if fromStdin {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read token: %w", err)
		}
		return requireToken(line)
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("%w: no terminal available for the token prompt (use --token-stdin)", config.ErrInvalidConfig)
	}

	fmt.Fprint(os.Stderr, "API token: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return requireToken(string(raw))
}

// resolveLoginConfig resolves config like every other command, except that
// --profile may name a profile that does not exist yet.
func resolveLoginConfig() (*config.ResolvedConfig, error) {
	cfg, err := config.ResolveConfig(config.Overrides{
		BaseURL: baseURLFlag,
		Timeout: timeoutFlag,
	})
	if err != nil {
		return nil, err
	}
	if profileFlag != "" {
		cfg.Profile = profileFlag
		cfg.Sources["profile"] = config.SourceFlag
	}
	return cfg, nil
}

func requireToken(raw string) (string, error) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return "", fmt.Errorf("%w: empty token", config.ErrInvalidConfig)
	}
	return token, nil
}

// saveProfileToken writes the token into the profile, keeping the profile's
// other settings. A base URL given by flag or environment is saved with it.
func saveProfileToken(home string, cfg *config.ResolvedConfig, token string) error {
	global, err := config.LoadGlobalConfigFromDir(home)
	if err != nil {
		return err
	}

	profile, _ := global.Profile(cfg.Profile)
	profile.Token = token
	if src := cfg.Sources["base_url"]; src == config.SourceFlag || src == config.SourceEnv {
		profile.BaseURL = cfg.BaseURL
	}
	global.SetProfile(cfg.Profile, profile)
	if global.DefaultProfile == "" {
		global.DefaultProfile = cfg.Profile
	}

	return config.SaveGlobalConfigToDir(home, global)
}
