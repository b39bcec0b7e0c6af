package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yacobolo/cssguide/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List every rule with its group and default severity",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return printRules(cmd.OutOrStdout())
	},
}

func printRules(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tGROUP\tSEVERITY\tDESCRIPTION")
	for _, r := range rules.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ID, r.Group, r.Severity, r.Description)
	}
	return tw.Flush()
}
