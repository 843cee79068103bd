package cli

import (
	"log/slog"
	"net/http"

	"github.com/Birdy2014/einkaufszettel/internal/server"
	"github.com/Birdy2014/einkaufszettel/internal/store"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var addr string
	var dbPath string
	var seed string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the shopping-list server",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			if seed != "" {
				lists, err := st.Lists(cmd.Context())
				if err != nil {
					return err
				}
				if len(lists) == 0 {
					if _, err := st.CreateList(cmd.Context(), seed); err != nil {
						return err
					}
				}
			}

			srv := server.New(st)
			slog.Info("listening", "addr", addr, "db", dbPath)
			return http.ListenAndServe(addr, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:3000", "Listen address")
	cmd.Flags().StringVar(&dbPath, "db", "einkaufszettel.sqlite", "SQLite database path")
	cmd.Flags().StringVar(&seed, "seed-list", "", "Create a list with this name when the database is empty")
	return cmd
}
