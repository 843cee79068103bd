package view

import (
	"testing"

	"github.com/Birdy2014/einkaufszettel/internal/model"
)

func snapshot(items map[int]model.Item) model.List {
	return model.List{Generation: 3, Name: "test", Items: items}
}

func TestBuild_MatchingPattern(t *testing.T) {
	list := snapshot(map[int]model.Item{
		1: {Singular: "Milk", Category: "Dairy", Amount: 1},
	})

	p := Build(list, "milk")

	if len(p.Done) != 0 {
		t.Fatalf("expected no done groups; got %d", len(p.Done))
	}
	if len(p.Pending) != 1 {
		t.Fatalf("expected one pending group; got %d", len(p.Pending))
	}
	g := p.Pending[0]
	if g.Category != "Dairy" {
		t.Fatalf("expected group Dairy; got %q", g.Category)
	}
	if len(g.Entries) != 1 || g.Entries[0].ID != 1 {
		t.Fatalf("expected item 1 in Dairy; got %+v", g.Entries)
	}
	if got := g.Entries[0].Item.DisplayName(); got != "Milk" {
		t.Fatalf("expected display text Milk; got %q", got)
	}
	if got := g.Entries[0].Item.AmountText(); got != "1" {
		t.Fatalf("amount 1 must display \"1\"; got %q", got)
	}
}

func TestBuild_NonMatchingPatternYieldsEmptyProjection(t *testing.T) {
	list := snapshot(map[int]model.Item{
		1: {Singular: "Milk", Category: "Dairy", Amount: 1},
	})

	p := Build(list, "bread")

	if len(p.Pending) != 0 || len(p.Done) != 0 {
		t.Fatalf("expected empty projection; got %+v", p)
	}
}

func TestBuild_ExcludesTombstones(t *testing.T) {
	list := snapshot(map[int]model.Item{
		1: {Singular: "Milk"},
		2: {Singular: "Gone", Deleted: true},
	})

	p := Build(list, "")

	if ids := p.VisibleIDs(); ids[2] {
		t.Fatalf("deleted item must never be projected; got ids %v", ids)
	}
}

func TestBuild_EmptyPatternMatchesEverything(t *testing.T) {
	list := snapshot(map[int]model.Item{
		1: {Singular: "Milk"},
		2: {Singular: "Bread"},
		3: {Singular: "Hidden", Deleted: true},
	})

	p := Build(list, "")

	ids := p.VisibleIDs()
	if !ids[1] || !ids[2] || len(ids) != 2 {
		t.Fatalf("empty pattern must include every non-deleted item; got %v", ids)
	}
}

func TestBuild_MatchesOnCategory(t *testing.T) {
	list := snapshot(map[int]model.Item{
		1: {Singular: "Milk", Category: "Dairy"},
		2: {Singular: "Soap", Category: "Bathroom"},
	})

	p := Build(list, "dairy")

	ids := p.VisibleIDs()
	if !ids[1] || ids[2] {
		t.Fatalf("expected category match to include only item 1; got %v", ids)
	}
}

func TestBuild_MatchesDisplayNameNotHiddenField(t *testing.T) {
	// Amount 2 means the display name is the plural; the singular does not
	// participate in matching.
	list := snapshot(map[int]model.Item{
		1: {Singular: "Loaf", Plural: "Loaves", Amount: 2},
	})

	if ids := Build(list, "loaves").VisibleIDs(); !ids[1] {
		t.Fatalf("plural display name must match")
	}
	if ids := Build(list, "^loaf$").VisibleIDs(); ids[1] {
		t.Fatalf("singular is not the display name at amount 2; must not match")
	}
}

func TestBuild_InvalidPatternFallsBackToLiteral(t *testing.T) {
	list := snapshot(map[int]model.Item{
		1: {Singular: "a(b"},
		2: {Singular: "other"},
	})

	ids := Build(list, "a(b").VisibleIDs()
	if !ids[1] || ids[2] {
		t.Fatalf("invalid regex must match literally; got %v", ids)
	}
}

func TestBuild_SeparatesDoneFromPending(t *testing.T) {
	list := snapshot(map[int]model.Item{
		1: {Singular: "Milk", Category: "Dairy"},
		2: {Singular: "Cheese", Category: "Dairy", Done: true},
	})

	p := Build(list, "")

	if len(p.Pending) != 1 || len(p.Done) != 1 {
		t.Fatalf("expected one group per bucket; got pending=%d done=%d", len(p.Pending), len(p.Done))
	}
	if p.Pending[0].Entries[0].ID != 1 || p.Done[0].Entries[0].ID != 2 {
		t.Fatalf("items landed in wrong buckets: %+v", p)
	}
}

func TestBuild_GroupsSortedByCategory_EmptyFirst(t *testing.T) {
	list := snapshot(map[int]model.Item{
		1: {Singular: "Mystery"},
		2: {Singular: "Milk", Category: "Dairy"},
		3: {Singular: "Soap", Category: "Bathroom"},
	})

	p := Build(list, "")

	got := []string{}
	for _, g := range p.Pending {
		got = append(got, g.Category)
	}
	want := []string{"", "Bathroom", "Dairy"}
	if len(got) != len(want) {
		t.Fatalf("expected groups %v; got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected groups %v; got %v", want, got)
		}
	}
}

func TestBuild_ItemsSortedByDisplayName(t *testing.T) {
	list := snapshot(map[int]model.Item{
		1: {Singular: "Zucchini", Category: "Veg"},
		2: {Singular: "Avocado", Category: "Veg"},
		3: {Plural: "Beans", Amount: 2, Category: "Veg"},
	})

	p := Build(list, "")

	g := p.Pending[0]
	got := []int{}
	for _, e := range g.Entries {
		got = append(got, e.ID)
	}
	// Avocado, Beans, Zucchini.
	want := []int{2, 3, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v; got %v", want, got)
		}
	}
}
