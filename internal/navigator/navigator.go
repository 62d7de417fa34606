// Package navigator finds or creates titled child pages in the remote page tree.
package navigator

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/notionsync/internal/logfields"
	"git.home.luguber.info/inful/notionsync/internal/notion"
	"git.home.luguber.info/inful/notionsync/internal/util/keylock"
)

// Navigator is the single point where structural pages are created.
//
// Lookups under the same parent are serialized so that concurrent callers asking
// for the same title never create duplicates. The remote store itself does not
// enforce unique titles.
type Navigator struct {
	store   notion.PageStore
	parents keylock.Locks
}

// New creates a Navigator over store.
func New(store notion.PageStore) *Navigator {
	return &Navigator{store: store}
}

// GetOrCreateChild returns the first child page of parent titled exactly title,
// creating it when none exists. created reports whether a page was created.
//
// When several children already share the title, the first one in the store's
// child order wins. The result is deterministic for a given store order but
// duplicates are neither detected nor merged.
func (n *Navigator) GetOrCreateChild(ctx context.Context, parent *notion.Page, title string) (page *notion.Page, created bool, err error) {
	unlock := n.parents.Lock(parent.ID)
	defer unlock()

	children, err := n.store.ListChildPages(ctx, parent)
	if err != nil {
		return nil, false, err
	}
	for _, child := range children {
		if child.Title == title {
			return child, false, nil
		}
	}

	page, err = n.store.CreateChildPage(ctx, parent, title)
	if err != nil {
		return nil, false, err
	}
	slog.Debug("Created page",
		logfields.Title(title),
		logfields.PageID(page.ID),
		logfields.ParentID(parent.ID))
	return page, true, nil
}
