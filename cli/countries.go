package cli

import (
	"github.com/spf13/cobra"
)

func newCountriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "countries [search]",
		Short: "List countries (Spanish names) for team and player forms",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			search := ""
			if len(args) == 1 {
				search = args[0]
			}
			list, err := a.api.Countries(cmd.Context(), search)
			if err != nil {
				return a.fail("country list is unavailable", err)
			}
			a.out(cmd).Print(list)
			return nil
		},
	}
}
