package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSearchCmd(root *rootOptions, newServices servicesFunc) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "search <query>",
		Short:   "Suggest places matching a name",
		Example: "  weatherctl search new york --limit 3",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := root.validate(); err != nil {
				return err
			}

			services, err := newServices(cmd.Context(), root.verbose, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = services.Close() }()

			suggestions, err := services.Location.SearchLocations(cmd.Context(), strings.Join(args, " "), limit)
			if err != nil {
				return err
			}

			if root.format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), suggestions)
			}
			for _, s := range suggestions {
				name := s.Name
				if s.State != "" {
					name += ", " + s.State
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s, %s (%s)\n", name, s.Country, s.Coords)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum suggestions (default from config)")

	return cmd
}
