// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// logoutCmd removes the stored credential and login record.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored credential",
	Long: `The logout command removes the access token and the login record from the OS
keychain. The token is not revoked remotely; it stays valid until it expires.

Credentials supplied through FORCECURSOR_ACCESS_TOKEN and FORCECURSOR_INSTANCE_URL
are not affected.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		if err := authService().Logout(); err != nil {
			return report(err, "removing the stored credential", "")
		}
		fmt.Println("✅ Stored credential removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
