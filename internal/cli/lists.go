package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newListsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Print all lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			lists, err := app.client().Lists(cmd.Context())
			if err != nil {
				return err
			}

			ids := make([]int, 0, len(lists))
			for id := range lists {
				ids = append(ids, id)
			}
			sort.Ints(ids)

			for _, id := range ids {
				info := lists[id]
				mark := ""
				if info.Deleted {
					mark = " (deleted)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s%s\n", id, info.Name, mark)
			}
			return nil
		},
	}
}

func newListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Manage lists",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "create <name>",
		Short: "Create a new list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.client().CreateList(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <name>",
		Short: "Rename the selected list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireList(app)
			if err != nil {
				return err
			}
			return app.client().PutList(cmd.Context(), id, args[0], false)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm",
		Short: "Soft-delete the selected list",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := requireList(app)
			if err != nil {
				return err
			}
			list, err := app.client().FetchList(cmd.Context(), id, -1)
			if err != nil {
				return err
			}
			return app.client().PutList(cmd.Context(), id, list.Name, true)
		},
	})

	return cmd
}

func requireList(app *App) (int, error) {
	id := app.listID()
	if id <= 0 {
		return 0, fmt.Errorf("no list selected: pass --list or set default_list in the config")
	}
	return id, nil
}
