// Package store persists shopping lists in a single SQLite database.
//
// Every mutating operation bumps the owning list's generation in the same
// transaction, so a generation observed by a reader always corresponds to a
// fully applied write.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Birdy2014/einkaufszettel/internal/model"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a list or item id does not exist.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness when polls and writes overlap.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS lists (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			deleted INTEGER NOT NULL DEFAULT 0,
			generation INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS items (
			list_id INTEGER NOT NULL REFERENCES lists(id),
			id INTEGER NOT NULL,
			singular TEXT NOT NULL DEFAULT '',
			plural TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			amount INTEGER NOT NULL DEFAULT 0,
			done INTEGER NOT NULL DEFAULT 0,
			deleted INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (list_id, id)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Lists returns the id -> {name, deleted} mapping of every list, including
// soft-deleted ones (the selector decides what to show).
func (s *Store) Lists(ctx context.Context) (map[int]model.ListInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, deleted FROM lists`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := make(map[int]model.ListInfo)
	for rows.Next() {
		var id int
		var info model.ListInfo
		if err := rows.Scan(&id, &info.Name, &info.Deleted); err != nil {
			return nil, err
		}
		lists[id] = info
	}
	return lists, rows.Err()
}

// List loads the full snapshot of one list, tombstones included.
func (s *Store) List(ctx context.Context, id int) (model.List, error) {
	var list model.List
	err := s.db.QueryRowContext(ctx,
		`SELECT generation, name, deleted FROM lists WHERE id = ?`, id).
		Scan(&list.Generation, &list.Name, &list.Deleted)
	if errors.Is(err, sql.ErrNoRows) {
		return model.List{}, fmt.Errorf("list %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.List{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, singular, plural, category, amount, done, deleted FROM items WHERE list_id = ?`, id)
	if err != nil {
		return model.List{}, err
	}
	defer rows.Close()

	list.Items = make(map[int]model.Item)
	for rows.Next() {
		var itemID int
		var it model.Item
		if err := rows.Scan(&itemID, &it.Singular, &it.Plural, &it.Category, &it.Amount, &it.Done, &it.Deleted); err != nil {
			return model.List{}, err
		}
		list.Items[itemID] = it
	}
	return list, rows.Err()
}

// Generation reads just the generation counter of one list.
func (s *Store) Generation(ctx context.Context, id int) (int, error) {
	var gen int
	err := s.db.QueryRowContext(ctx, `SELECT generation FROM lists WHERE id = ?`, id).Scan(&gen)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("list %d: %w", id, ErrNotFound)
	}
	return gen, err
}

// CreateList adds a new empty list and returns its id.
func (s *Store) CreateList(ctx context.Context, name string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO lists(name, deleted, generation) VALUES(?, 0, 0)`, name)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return int(id), err
}

// PutList renames or soft-deletes a list.
func (s *Store) PutList(ctx context.Context, id int, name string, deleted bool) error {
	return s.mutate(ctx, id, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE lists SET name = ?, deleted = ? WHERE id = ?`, name, deleted, id)
		return err
	})
}

// CreateItem adds a blank item to a list and returns its id. The lowest
// tombstoned id is reused when one exists, so ids stay dense.
func (s *Store) CreateItem(ctx context.Context, listID int) (int, error) {
	var itemID int
	err := s.mutate(ctx, listID, func(tx *sql.Tx) error {
		var reuse sql.NullInt64
		if err := tx.QueryRowContext(ctx,
			`SELECT MIN(id) FROM items WHERE list_id = ? AND deleted = 1`, listID).Scan(&reuse); err != nil {
			return err
		}
		if reuse.Valid {
			itemID = int(reuse.Int64)
			_, err := tx.ExecContext(ctx,
				`UPDATE items SET singular='', plural='', category='', amount=0, done=0, deleted=0
				 WHERE list_id = ? AND id = ?`, listID, itemID)
			return err
		}

		var next sql.NullInt64
		if err := tx.QueryRowContext(ctx,
			`SELECT MAX(id) + 1 FROM items WHERE list_id = ?`, listID).Scan(&next); err != nil {
			return err
		}
		itemID = 1
		if next.Valid {
			itemID = int(next.Int64)
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO items(list_id, id) VALUES(?, ?)`, listID, itemID)
		return err
	})
	return itemID, err
}

// PutItem replaces the full field set of one item.
func (s *Store) PutItem(ctx context.Context, listID, itemID int, it model.Item) error {
	return s.mutate(ctx, listID, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE items SET singular=?, plural=?, category=?, amount=?, done=?, deleted=?
			 WHERE list_id = ? AND id = ?`,
			it.Singular, it.Plural, it.Category, it.Amount, it.Done, it.Deleted, listID, itemID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("item %d in list %d: %w", itemID, listID, ErrNotFound)
		}
		return nil
	})
}

// RenameCategory moves every item of the list from oldName to newName.
func (s *Store) RenameCategory(ctx context.Context, listID int, oldName, newName string) error {
	return s.mutate(ctx, listID, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE items SET category = ? WHERE list_id = ? AND category = ?`,
			newName, listID, oldName)
		return err
	})
}

// mutate runs fn and bumps the list's generation in one transaction.
func (s *Store) mutate(ctx context.Context, listID int, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`UPDATE lists SET generation = generation + 1 WHERE id = ?`, listID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("list %d: %w", listID, ErrNotFound)
	}

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
