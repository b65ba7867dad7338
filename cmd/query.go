// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"forcecursor/cli/internal/rest"
	"forcecursor/cli/internal/soql"
)

var (
	queryParams []string
	queryJSON   bool
	queryLimit  int
)

var queryCmd = &cobra.Command{
	Use:   "query TEXT",
	Short: "Run a SELECT and print the rows",
	Long: `The query command runs one SELECT statement. Each %s in TEXT is replaced, in
order, by a --param value rendered as a query literal. When parameters are
given, write %% for a literal percent sign; without them TEXT is sent as is.

Parameters are typed as type:value, for example int:42, str:O'Brien,
date:2024-01-31, datetime:2024-01-31T10:00:00Z, bool:true, decimal:12.50,
list:int:1,int:2 or null. Untyped values are strings.`,
	Example: `  forcecursor query "SELECT Id, LastName FROM Contact WHERE LastName = %s" --param str:Smith
  forcecursor query "SELECT Id FROM Account" --limit 10 --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := parseParams(queryParams)
		if err != nil {
			return err
		}

		conn, cred, err := openConn()
		if err != nil {
			return err
		}

		stop := startInlineSpinner(os.Stderr, staticText("Running query"), 120*time.Millisecond)
		cur, err := conn.Execute(cmd.Context(), rest.Select(args[0], params...))
		stop()
		if err != nil {
			return report(err, "running the query", cred.InstanceURL)
		}

		var records []rest.Record
		if queryLimit > 0 {
			records = cur.FetchMany(queryLimit)
		} else {
			records = cur.FetchAll()
		}

		if queryJSON {
			if records == nil {
				records = []rest.Record{}
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		}

		if len(records) == 0 {
			pterm.Info.Println("No records")
			return nil
		}
		data, err := tableData(records)
		if err != nil {
			return err
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}
		summary := fmt.Sprintf("%d record(s)", len(records))
		if more := cur.Remaining(); more > 0 {
			summary += fmt.Sprintf(", %d more not shown", more)
		}
		pterm.Info.Println(summary)
		return nil
	},
}

func parseParams(specs []string) ([]soql.Value, error) {
	out := make([]soql.Value, 0, len(specs))
	for _, s := range specs {
		v, err := soql.ParseParam(s)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func init() {
	queryCmd.Flags().StringArrayVarP(&queryParams, "param", "p", nil, "Positional parameter as type:value (repeatable)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "Print records as JSON")
	queryCmd.Flags().IntVar(&queryLimit, "limit", 0, "Print at most N records (0 prints all)")
	rootCmd.AddCommand(queryCmd)
}
