// Package api is the HTTP client side of the shopping-list protocol: a
// long-polling reader and fire-and-forget writers.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Birdy2014/einkaufszettel/internal/model"

	"github.com/goccy/go-json"
)

// Client talks to one einkaufszettel server.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTP: &http.Client{}}
}

// FetchList long-polls the list endpoint. The server holds the request open
// while the caller's generation is still current, so the passed context is
// expected to carry the long-poll deadline.
func (c *Client) FetchList(ctx context.Context, listID int, generation int) (model.List, error) {
	q := url.Values{}
	q.Set("id", strconv.Itoa(listID))
	q.Set("generation", strconv.Itoa(generation))

	// POST, not GET: the original client had to avoid browser-side caching
	// and request coalescing on long-polls, and the server keeps that route.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/list?"+q.Encode(), nil)
	if err != nil {
		return model.List{}, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return model.List{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.List{}, fmt.Errorf("fetch list %d: unexpected status %d", listID, resp.StatusCode)
	}

	var list model.List
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return model.List{}, fmt.Errorf("fetch list %d: decode: %w", listID, err)
	}
	return list, nil
}

// Lists fetches the id -> {name, deleted} mapping for the list selector.
func (c *Client) Lists(ctx context.Context) (map[int]model.ListInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/lists", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch lists: unexpected status %d", resp.StatusCode)
	}

	var lists map[int]model.ListInfo
	if err := json.NewDecoder(resp.Body).Decode(&lists); err != nil {
		return nil, fmt.Errorf("fetch lists: decode: %w", err)
	}
	return lists, nil
}

// CreateList makes a new empty list and returns its id.
func (c *Client) CreateList(ctx context.Context, name string) (int, error) {
	body, err := c.post(ctx, "/api/lists", map[string]any{"name": name})
	if err != nil {
		return 0, err
	}
	id, err := strconv.Atoi(string(bytes.TrimSpace(body)))
	if err != nil {
		return 0, fmt.Errorf("create list: bad id in response: %w", err)
	}
	return id, nil
}

// CreateItem adds a blank item to the list and returns its id. The server
// may hand back a reused tombstone id.
func (c *Client) CreateItem(ctx context.Context, listID int) (int, error) {
	body, err := c.post(ctx, "/api/item", map[string]any{"shopping_list_id": listID})
	if err != nil {
		return 0, err
	}
	id, err := strconv.Atoi(string(bytes.TrimSpace(body)))
	if err != nil {
		return 0, fmt.Errorf("create item: bad id in response: %w", err)
	}
	return id, nil
}

// PutItem writes the full field set of one item.
func (c *Client) PutItem(ctx context.Context, listID, itemID int, it model.Item) error {
	return c.put(ctx, "/api/item", map[string]any{
		"shopping_list_id": listID,
		"item_id":          itemID,
		"item":             it,
	})
}

// PutList renames or soft-deletes a list.
func (c *Client) PutList(ctx context.Context, listID int, name string, deleted bool) error {
	return c.put(ctx, "/api/list", map[string]any{
		"id":      listID,
		"name":    name,
		"deleted": deleted,
	})
}

// RenameCategory moves every item of the list from one category to another
// in a single server-side operation.
func (c *Client) RenameCategory(ctx context.Context, listID int, oldName, newName string) error {
	return c.put(ctx, "/api/category", map[string]any{
		"shopping_list_id": listID,
		"old_name":         oldName,
		"new_name":         newName,
	})
}

func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	return c.send(ctx, http.MethodPost, path, payload)
}

func (c *Client) put(ctx context.Context, path string, payload any) error {
	_, err := c.send(ctx, http.MethodPut, path, payload)
	return err
}

func (c *Client) send(ctx context.Context, method, path string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// FireAndForget runs a write in the background and logs a failure instead of
// returning it. A lost write is corrected by the next successful poll; the
// caller's optimistic view stays wrong only until then.
func FireAndForget(op string, write func(ctx context.Context) error) {
	go func() {
		if err := write(context.Background()); err != nil {
			slog.Warn("write failed; next poll will reconcile", "op", op, "err", err)
		}
	}()
}
