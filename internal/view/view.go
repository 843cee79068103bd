// Package view derives the rendered projection of a list snapshot.
//
// A projection is recomputed from scratch on every render and carries no
// identity of its own; the reconciliation layer maps it back onto live
// nodes by item id.
package view

import (
	"regexp"
	"sort"

	"github.com/Birdy2014/einkaufszettel/internal/model"
)

// Entry is one item of a group, paired with its stable id.
type Entry struct {
	ID   int
	Item model.Item
}

// Group is the set of visible items sharing a category within one of the
// two done-state buckets. Category may be empty; it still groups and sorts
// by its empty value and is labeled separately at render time.
type Group struct {
	Category string
	Entries  []Entry
}

// Projection is the fully ordered view of a snapshot under a search filter.
// Pending and Done are two independent lists, each ordered by category.
type Projection struct {
	Pending []Group
	Done    []Group
}

// Build filters, groups and sorts a snapshot into a projection.
//
// Order is fully determined by the input: tombstones are dropped, the
// pattern is matched case-insensitively against display name and category,
// groups sort by category and entries by display name (ids break ties so
// identical names keep a stable order). An empty pattern matches everything.
func Build(list model.List, pattern string) Projection {
	re := compileFilter(pattern)

	var entries []Entry
	for id, it := range list.Items {
		if it.Deleted {
			continue
		}
		if !re.MatchString(it.DisplayName()) && !re.MatchString(it.Category) {
			continue
		}
		entries = append(entries, Entry{ID: id, Item: it})
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if an, bn := a.Item.DisplayName(), b.Item.DisplayName(); an != bn {
			return an < bn
		}
		return a.ID < b.ID
	})

	var p Projection
	for _, e := range entries {
		bucket := &p.Pending
		if e.Item.Done {
			bucket = &p.Done
		}
		g := findGroup(bucket, e.Item.Category)
		g.Entries = append(g.Entries, e)
	}

	sortGroups(p.Pending)
	sortGroups(p.Done)
	return p
}

// compileFilter builds the case-insensitive search matcher. A pattern that
// is no valid regular expression is matched literally instead of being an
// error; live search input is invalid mid-keystroke all the time.
func compileFilter(pattern string) *regexp.Regexp {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		re = regexp.MustCompile("(?i)" + regexp.QuoteMeta(pattern))
	}
	return re
}

func findGroup(groups *[]Group, category string) *Group {
	for i := range *groups {
		if (*groups)[i].Category == category {
			return &(*groups)[i]
		}
	}
	*groups = append(*groups, Group{Category: category})
	return &(*groups)[len(*groups)-1]
}

func sortGroups(groups []Group) {
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Category < groups[j].Category
	})
}

// VisibleIDs reports every item id present in the projection.
func (p Projection) VisibleIDs() map[int]bool {
	ids := make(map[int]bool)
	for _, groups := range [][]Group{p.Pending, p.Done} {
		for _, g := range groups {
			for _, e := range g.Entries {
				ids[e.ID] = true
			}
		}
	}
	return ids
}
