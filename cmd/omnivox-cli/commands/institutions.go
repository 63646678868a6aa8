package commands

import (
	"omnivox-backend/lib/institution"
	"omnivox-backend/lib/timezone"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(institutionsCmd)
}

var institutionsCmd = &cobra.Command{
	Use:   "institutions",
	Short: "Lists the supported institutions.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Name", "Institution", "Login"})

		for _, name := range institution.Names() {
			inst, err := institution.Lookup(name, timezone.StandardClock{})
			if err != nil {
				continue
			}
			t.AppendRow(table.Row{name, inst.Portal.Institution, inst.Portal.LoginUrl})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
