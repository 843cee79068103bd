// Package server implements the HTTP side of the protocol: a long-polling
// read endpoint over generation-stamped snapshots, and the item/list/category
// write endpoints that advance those generations.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Birdy2014/einkaufszettel/internal/model"
	"github.com/Birdy2014/einkaufszettel/internal/store"

	"github.com/goccy/go-json"
)

// HoldWindow is how long the list endpoint holds a long-poll open before
// answering with the unchanged snapshot as a keep-alive. Clients enforce
// their own deadline on top of this.
const HoldWindow = 10 * time.Second

type Server struct {
	store *store.Store
	hubs  *changeHubs
	hold  time.Duration
}

func New(st *store.Store) *Server {
	return &Server{store: st, hubs: newChangeHubs(), hold: HoldWindow}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/lists", s.handleGetLists)
	mux.HandleFunc("POST /api/lists", s.handleCreateList)
	mux.HandleFunc("POST /api/list", s.handleGetList)
	mux.HandleFunc("PUT /api/list", s.handlePutList)
	mux.HandleFunc("POST /api/item", s.handleCreateItem)
	mux.HandleFunc("PUT /api/item", s.handlePutItem)
	mux.HandleFunc("PUT /api/category", s.handlePutCategory)
	return mux
}

func (s *Server) handleGetLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.store.Lists(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, lists)
}

func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decode(w, r, &req) {
		return
	}
	id, err := s.store.CreateList(r.Context(), req.Name)
	if err != nil {
		s.fail(w, err)
		return
	}
	fmt.Fprint(w, id)
}

// handleGetList is the long-poll endpoint. The route is POST rather than GET
// for the same reason the original used POST: browsers coalesce and cache
// concurrent GET long-polls across tabs.
func (s *Server) handleGetList(w http.ResponseWriter, r *http.Request) {
	listID, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, "bad list id", http.StatusBadRequest)
		return
	}
	clientGen, err := strconv.Atoi(r.URL.Query().Get("generation"))
	if err != nil {
		http.Error(w, "bad generation", http.StatusBadRequest)
		return
	}

	gen, err := s.store.Generation(r.Context(), listID)
	if err != nil {
		s.fail(w, err)
		return
	}

	// Hold only while the client is current. A stale client gets the
	// snapshot immediately; the unchanged snapshot after the hold window is
	// the protocol's keep-alive.
	if clientGen >= gen {
		s.waitForChange(r.Context(), listID)
	}

	list, err := s.store.List(r.Context(), listID)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, list)
}

func (s *Server) waitForChange(ctx context.Context, listID int) {
	ch, unsubscribe := s.hubs.subscribe(listID)
	defer unsubscribe()

	t := time.NewTimer(s.hold)
	defer t.Stop()
	select {
	case <-ch:
	case <-t.C:
	case <-ctx.Done():
	}
}

func (s *Server) handlePutList(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID      int    `json:"id"`
		Name    string `json:"name"`
		Deleted bool   `json:"deleted"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := s.store.PutList(r.Context(), req.ID, req.Name, req.Deleted); err != nil {
		s.fail(w, err)
		return
	}
	s.hubs.notify(req.ID)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShoppingListID int `json:"shopping_list_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	id, err := s.store.CreateItem(r.Context(), req.ShoppingListID)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.hubs.notify(req.ShoppingListID)
	fmt.Fprint(w, id)
}

func (s *Server) handlePutItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShoppingListID int        `json:"shopping_list_id"`
		ItemID         int        `json:"item_id"`
		Item           model.Item `json:"item"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := s.store.PutItem(r.Context(), req.ShoppingListID, req.ItemID, req.Item); err != nil {
		s.fail(w, err)
		return
	}
	s.hubs.notify(req.ShoppingListID)
}

func (s *Server) handlePutCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShoppingListID int    `json:"shopping_list_id"`
		OldName        string `json:"old_name"`
		NewName        string `json:"new_name"`
	}
	if !decode(w, r, &req) {
		return
	}
	if err := s.store.RenameCategory(r.Context(), req.ShoppingListID, req.OldName, req.NewName); err != nil {
		s.fail(w, err)
		return
	}
	s.hubs.notify(req.ShoppingListID)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	slog.Error("request failed", "err", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "err", err)
	}
}
