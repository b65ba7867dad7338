package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"forcecursor/cli/internal/auth"
	"forcecursor/cli/internal/logging"
)

// whoamiCmd shows which instance and account the stored session belongs to.
// It does not contact the remote service.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, cred, src, err := authService().WhoAmI()
		if err != nil {
			if errors.Is(err, auth.ErrNotLoggedIn) {
				printNotLoggedIn()
				return nil
			}
			return report(err, "reading the stored credential", "")
		}

		lines := []string{
			fmt.Sprintf("Instance:  %s", st.InstanceURL),
		}
		if st.Username != "" {
			lines = append(lines, fmt.Sprintf("User:      %s", st.Username))
		}
		if !st.LoggedInAt.IsZero() {
			lines = append(lines, fmt.Sprintf("Since:     %s", st.LoggedInAt.Local().Format("2006-01-02 15:04")))
		}
		lines = append(lines,
			fmt.Sprintf("Token:     %s", logging.MaskToken(cred.AccessToken)),
			fmt.Sprintf("Source:    %s", src),
		)

		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Session")).
			WithPadding(1).
			Println(strings.Join(lines, "\n"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
