package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Birdy2014/einkaufszettel/internal/model"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestStore_CreateListStartsAtGenerationZero(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	id, err := st.CreateList(ctx, "Groceries")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}

	list, err := st.List(ctx, id)
	if err != nil {
		t.Fatalf("load list: %v", err)
	}
	if list.Generation != 0 || list.Name != "Groceries" || list.Deleted {
		t.Fatalf("unexpected fresh list: %+v", list)
	}
	if len(list.Items) != 0 {
		t.Fatalf("fresh list must be empty; got %d items", len(list.Items))
	}
}

func TestStore_EveryWriteBumpsGeneration(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	listID, _ := st.CreateList(ctx, "g")

	itemID, err := st.CreateItem(ctx, listID)
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	if gen, _ := st.Generation(ctx, listID); gen != 1 {
		t.Fatalf("expected generation 1 after create; got %d", gen)
	}

	if err := st.PutItem(ctx, listID, itemID, model.Item{Singular: "Milk"}); err != nil {
		t.Fatalf("put item: %v", err)
	}
	if gen, _ := st.Generation(ctx, listID); gen != 2 {
		t.Fatalf("expected generation 2 after put; got %d", gen)
	}

	if err := st.PutList(ctx, listID, "renamed", false); err != nil {
		t.Fatalf("put list: %v", err)
	}
	if err := st.RenameCategory(ctx, listID, "", "Pantry"); err != nil {
		t.Fatalf("rename category: %v", err)
	}
	if gen, _ := st.Generation(ctx, listID); gen != 4 {
		t.Fatalf("expected generation 4; got %d", gen)
	}
}

func TestStore_CreateItemReusesLowestTombstone(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	listID, _ := st.CreateList(ctx, "g")

	first, _ := st.CreateItem(ctx, listID)
	second, _ := st.CreateItem(ctx, listID)
	third, _ := st.CreateItem(ctx, listID)
	if second == first || third == second {
		t.Fatalf("ids must be distinct: %d %d %d", first, second, third)
	}

	// Tombstone the first two, then create: the lowest id comes back blank.
	for _, id := range []int{first, second} {
		it := model.Item{Singular: "x", Deleted: true}
		if err := st.PutItem(ctx, listID, id, it); err != nil {
			t.Fatalf("tombstone %d: %v", id, err)
		}
	}

	reused, err := st.CreateItem(ctx, listID)
	if err != nil {
		t.Fatalf("create into tombstone: %v", err)
	}
	if reused != first {
		t.Fatalf("expected reuse of id %d; got %d", first, reused)
	}

	list, _ := st.List(ctx, listID)
	if it := list.Items[reused]; it.Deleted || it.Singular != "" {
		t.Fatalf("reused item must be blank: %+v", it)
	}
}

func TestStore_RenameCategoryMovesAllItems(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	listID, _ := st.CreateList(ctx, "g")

	a, _ := st.CreateItem(ctx, listID)
	b, _ := st.CreateItem(ctx, listID)
	c, _ := st.CreateItem(ctx, listID)
	_ = st.PutItem(ctx, listID, a, model.Item{Singular: "Milk", Category: "Diary"})
	_ = st.PutItem(ctx, listID, b, model.Item{Singular: "Cheese", Category: "Diary"})
	_ = st.PutItem(ctx, listID, c, model.Item{Singular: "Soap", Category: "Bathroom"})

	if err := st.RenameCategory(ctx, listID, "Diary", "Dairy"); err != nil {
		t.Fatalf("rename category: %v", err)
	}

	list, _ := st.List(ctx, listID)
	if list.Items[a].Category != "Dairy" || list.Items[b].Category != "Dairy" {
		t.Fatalf("rename did not reach all items: %+v", list.Items)
	}
	if list.Items[c].Category != "Bathroom" {
		t.Fatalf("rename touched an unrelated category: %+v", list.Items[c])
	}
}

func TestStore_NotFound(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	if _, err := st.List(ctx, 1234); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound; got %v", err)
	}
	if err := st.PutList(ctx, 1234, "x", false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound; got %v", err)
	}

	listID, _ := st.CreateList(ctx, "g")
	if err := st.PutItem(ctx, listID, 99, model.Item{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing item; got %v", err)
	}
}

func TestStore_SoftDeletedListStaysListed(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()

	id, _ := st.CreateList(ctx, "g")
	if err := st.PutList(ctx, id, "g", true); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	lists, err := st.Lists(ctx)
	if err != nil {
		t.Fatalf("lists: %v", err)
	}
	info, ok := lists[id]
	if !ok || !info.Deleted {
		t.Fatalf("soft-deleted list must stay in the mapping as deleted: %+v", lists)
	}
}
