package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sstent/garminconnect/internal/db"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the OAuth token pair",
	Long: `Signs in with the configured credentials, even if stored tokens exist, and
writes the token pair to the token directory and the database.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.database.Close()

		if err := s.login(cmd.Context()); err != nil {
			return err
		}

		profile, err := s.client.GetUserProfile(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get user profile: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (profile %d)\n", profile.DisplayName, profile.ProfileID)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored tokens",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := db.NewDatabase(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()

		if err := database.ClearTokens(cmd.Context()); err != nil {
			return err
		}
		for _, name := range []string{"oauth1_token.json", "oauth2_token.json"} {
			err := os.Remove(filepath.Join(cfg.TokenDir, name))
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to remove token file: %w", err)
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Tokens removed")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user's settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.Close(cmd.Context())

		settings, err := s.client.GetUserSettings(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, settings)
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}
