package cli

import (
	"fmt"
	"strconv"

	"github.com/Birdy2014/einkaufszettel/internal/model"

	"github.com/spf13/cobra"
)

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage items of the selected list",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add",
		Short: "Add a blank item and print its id",
		RunE: func(cmd *cobra.Command, args []string) error {
			listID, err := requireList(app)
			if err != nil {
				return err
			}
			id, err := app.client().CreateItem(cmd.Context(), listID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	})

	cmd.AddCommand(newItemWriteCmd(app, "done <id>", "Mark an item done", func(it *model.Item) {
		it.Done = true
	}))
	cmd.AddCommand(newItemWriteCmd(app, "undone <id>", "Mark an item not done", func(it *model.Item) {
		it.Done = false
	}))
	cmd.AddCommand(newItemWriteCmd(app, "rm <id>", "Delete an item", func(it *model.Item) {
		it.Deleted = true
	}))

	cmd.AddCommand(newItemSetCmd(app))

	return cmd
}

// newItemWriteCmd builds a read-modify-write command over one item. Ids come
// from user input here, so a malformed id must abort cleanly before any
// write goes out.
func newItemWriteCmd(app *App, use, short string, mutate func(*model.Item)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listID, err := requireList(app)
			if err != nil {
				return err
			}
			itemID, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			client := app.client()
			list, err := client.FetchList(cmd.Context(), listID, -1)
			if err != nil {
				return err
			}
			it, ok := list.Items[itemID]
			if !ok || it.Deleted {
				return fmt.Errorf("no item %d in list %d", itemID, listID)
			}
			mutate(&it)
			return client.PutItem(cmd.Context(), listID, itemID, it)
		},
	}
}

func newItemSetCmd(app *App) *cobra.Command {
	var singular, plural, category string
	var amount int

	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Set item fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listID, err := requireList(app)
			if err != nil {
				return err
			}
			itemID, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			client := app.client()
			list, err := client.FetchList(cmd.Context(), listID, -1)
			if err != nil {
				return err
			}
			it, ok := list.Items[itemID]
			if !ok || it.Deleted {
				return fmt.Errorf("no item %d in list %d", itemID, listID)
			}
			if cmd.Flags().Changed("singular") {
				it.Singular = singular
			}
			if cmd.Flags().Changed("plural") {
				it.Plural = plural
			}
			if cmd.Flags().Changed("category") {
				it.Category = category
			}
			if cmd.Flags().Changed("amount") {
				it.Amount = amount
			}
			return client.PutItem(cmd.Context(), listID, itemID, it)
		},
	}

	cmd.Flags().StringVar(&singular, "singular", "", "Singular name")
	cmd.Flags().StringVar(&plural, "plural", "", "Plural name")
	cmd.Flags().StringVar(&category, "category", "", "Category")
	cmd.Flags().IntVar(&amount, "amount", 0, "Amount")
	return cmd
}

func parseItemID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid item id %q", s)
	}
	return id, nil
}
