// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"forcecursor/cli/internal/auth"
	"forcecursor/cli/internal/config"
	"forcecursor/cli/internal/httperrors"
	"forcecursor/cli/internal/terminal"
)

const (
	envClientID     = "FORCECURSOR_CLIENT_ID"
	envClientSecret = "FORCECURSOR_CLIENT_SECRET"
)

var (
	loginUsername     string
	loginClientID     string
	loginClientSecret string
	loginURL          string
	loginSaveURL      bool
)

// loginCmd performs the OAuth2 username-password grant and keeps the
// resulting credential in the OS keychain.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Sign in with a username and password and store the session",
	Long: `The login command exchanges a username, password and connected-app client id
for an access token using the OAuth2 username-password grant. The token and the
instance URL it belongs to are stored in the OS keychain.

The password is read from the terminal with echo disabled, or from the first
line of stdin when stdin is not a terminal.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		in := bufio.NewReader(os.Stdin)
		settings := auth.Settings{
			LoginURL:     loginURL,
			ClientID:     loginClientID,
			ClientSecret: loginClientSecret,
			Username:     loginUsername,
		}
		if settings.LoginURL == "" {
			settings.LoginURL = cfg.LoginURL
		}
		if settings.ClientID == "" {
			settings.ClientID = os.Getenv(envClientID)
		}
		if settings.ClientSecret == "" {
			settings.ClientSecret = os.Getenv(envClientSecret)
		}

		if strings.TrimSpace(settings.Username) == "" {
			u, err := terminal.ReadLine(in, "Username: ")
			if err != nil {
				return err
			}
			settings.Username = strings.TrimSpace(u)
		}

		password, err := readPassword(in)
		if err != nil {
			return err
		}
		settings.Password = password

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout()+5*time.Second)
		defer cancel()

		stop := startInlineSpinner(os.Stdout, staticText("Signing in"), 120*time.Millisecond)
		cred, err := authService().Login(ctx, settings)
		stop()
		if err != nil {
			return report(err, "signing in", settings.LoginURL)
		}

		if loginSaveURL && settings.LoginURL != cfg.LoginURL {
			cfg.LoginURL = settings.LoginURL
			if err := config.Save(cfg); err != nil {
				logger.Warn("could not save login URL", logger.Args("error", err.Error()))
			}
		}

		pterm.Success.Printf("Logged in to %s as %s\n", httperrors.ExtractHostFromURL(cred.InstanceURL), settings.Username)
		return nil
	},
}

// readPassword prompts with echo off, or reads one line from a pipe.
func readPassword(in *bufio.Reader) (string, error) {
	const prompt = "Password: "
	if !terminal.IsInteractive() {
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return "", errors.New("no password on stdin")
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
	p, err := terminal.ReadPassword(prompt)
	if err != nil {
		return "", err
	}
	terminal.ClearPreviousLines(len(prompt))
	return p, nil
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username to sign in as")
	loginCmd.Flags().StringVar(&loginClientID, "client-id", "", "Connected app client id (env "+envClientID+")")
	loginCmd.Flags().StringVar(&loginClientSecret, "client-secret", "", "Connected app client secret (env "+envClientSecret+")")
	loginCmd.Flags().StringVar(&loginURL, "login-url", "", "Authorization server (default from config)")
	loginCmd.Flags().BoolVar(&loginSaveURL, "save-login-url", false, "Remember --login-url in the config file")
	rootCmd.AddCommand(loginCmd)
}
