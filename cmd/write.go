// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"forcecursor/cli/internal/rest"
	"forcecursor/cli/internal/soql"
)

var insertCmd = &cobra.Command{
	Use:   "insert COLLECTION FIELD=VALUE...",
	Short: "Create one record",
	Long: `The insert command creates one record in COLLECTION. Each FIELD=VALUE pair
becomes a field of the request body, in the order given. Values use the same
type:value form as query parameters.`,
	Example: `  forcecursor insert Contact LastName=Smith Age=int:42 Active=bool:true`,
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := parseAssignments(args[1:])
		if err != nil {
			return err
		}
		return runWrite(cmd, rest.Insert(args[0], fields), "creating the record",
			fmt.Sprintf("Created %s record", args[0]))
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete COLLECTION ID",
	Short:   "Delete one record by id",
	Example: `  forcecursor delete Contact 003000000000001AAA`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWrite(cmd, rest.Delete(args[0], args[1]), "deleting the record",
			fmt.Sprintf("Deleted %s %s", args[0], args[1]))
	},
}

func runWrite(cmd *cobra.Command, intent rest.QueryIntent, action, done string) error {
	conn, cred, err := openConn()
	if err != nil {
		return err
	}
	stop := startInlineSpinner(cmd.ErrOrStderr(), staticText(strings.ToUpper(action[:1])+action[1:]), 120*time.Millisecond)
	_, err = conn.Execute(cmd.Context(), intent)
	stop()
	if err != nil {
		return report(err, action, cred.InstanceURL)
	}
	pterm.Success.Println(done)
	return nil
}

// parseAssignments reads FIELD=type:value pairs into ordered fields.
func parseAssignments(args []string) (*rest.Fields, error) {
	fields := rest.NewFields()
	for _, a := range args {
		name, raw, ok := strings.Cut(a, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%q is not FIELD=VALUE", a)
		}
		if _, dup := fields.Get(name); dup {
			return nil, fmt.Errorf("field %s given twice", name)
		}
		v, err := soql.ParseParam(raw)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		fields.Set(name, v)
	}
	return fields, nil
}

func init() {
	rootCmd.AddCommand(insertCmd, deleteCmd)
}
