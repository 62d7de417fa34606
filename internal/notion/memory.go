package notion

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	ferrors "git.home.luguber.info/inful/notionsync/internal/foundation/errors"
)

// MemoryStats counts mutating calls made against a MemoryStore.
type MemoryStats struct {
	PagesCreated   int
	BlocksRemoved  int
	BlocksAppended int
	AppendCalls    int
}

// Mutations is the number of calls that changed block content.
func (s MemoryStats) Mutations() int {
	return s.BlocksRemoved + s.AppendCalls
}

type memoryEntry struct {
	page  *memoryPage // set for child pages
	block Block       // set for content blocks
}

type memoryPage struct {
	page     Page
	children []memoryEntry
}

// MemoryStore is an in-process Store. It keeps child pages and content blocks in
// one ordered list per page, the way the remote service does.
type MemoryStore struct {
	mu    sync.Mutex
	pages map[string]*memoryPage
	stats MemoryStats
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pages: make(map[string]*memoryPage)}
}

// AddRoot registers a top-level page and returns it. Useful as the sync root.
func (m *MemoryStore) AddRoot(title string) *Page {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &memoryPage{page: Page{ID: uuid.NewString(), Title: title}}
	m.pages[p.page.ID] = p
	out := p.page
	return &out
}

// Stats returns a snapshot of the mutation counters.
func (m *MemoryStore) Stats() MemoryStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// ResolvePage looks a page up by id.
func (m *MemoryStore) ResolvePage(_ context.Context, ref string) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.pages[ExtractID(ref)]
	if !ok {
		p, ok = m.pages[ref]
	}
	if !ok {
		return nil, notFound(ref)
	}
	out := p.page
	return &out, nil
}

// ListChildPages returns child pages in insertion order.
func (m *MemoryStore) ListChildPages(_ context.Context, parent *Page) ([]*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.lookup(parent)
	if err != nil {
		return nil, err
	}
	var out []*Page
	for _, e := range p.children {
		if e.page != nil {
			cp := e.page.page
			out = append(out, &cp)
		}
	}
	return out, nil
}

// CreateChildPage appends a new child page. Duplicate titles are allowed.
func (m *MemoryStore) CreateChildPage(_ context.Context, parent *Page, title string) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.lookup(parent)
	if err != nil {
		return nil, err
	}
	child := &memoryPage{page: Page{ID: uuid.NewString(), Title: title}}
	m.pages[child.page.ID] = child
	p.children = append(p.children, memoryEntry{page: child})
	m.stats.PagesCreated++
	out := child.page
	return &out, nil
}

// ListBlocks returns the page's content blocks in order, child pages excluded.
func (m *MemoryStore) ListBlocks(_ context.Context, page *Page) ([]Block, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.lookup(page)
	if err != nil {
		return nil, err
	}
	var out []Block
	for _, e := range p.children {
		if e.page == nil {
			out = append(out, e.block)
		}
	}
	return out, nil
}

// RemoveBlock deletes one content block from the page.
func (m *MemoryStore) RemoveBlock(_ context.Context, page *Page, blockID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.lookup(page)
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(p.children, func(e memoryEntry) bool {
		return e.page == nil && e.block.ID == blockID
	})
	if idx < 0 {
		return notFound(blockID)
	}
	p.children = slices.Delete(p.children, idx, idx+1)
	m.stats.BlocksRemoved++
	return nil
}

// AppendBlocks adds blocks to the end of the page, assigning ids.
func (m *MemoryStore) AppendBlocks(_ context.Context, page *Page, blocks []Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, err := m.lookup(page)
	if err != nil {
		return err
	}
	for _, b := range blocks {
		b = assignIDs(b)
		p.children = append(p.children, memoryEntry{block: b})
	}
	m.stats.AppendCalls++
	m.stats.BlocksAppended += len(blocks)
	return nil
}

func (m *MemoryStore) lookup(page *Page) (*memoryPage, error) {
	if page == nil {
		return nil, notFound("<nil>")
	}
	p, ok := m.pages[page.ID]
	if !ok {
		return nil, notFound(page.ID)
	}
	return p, nil
}

func assignIDs(b Block) Block {
	b.ID = uuid.NewString()
	if len(b.Children) > 0 {
		children := make([]Block, len(b.Children))
		for i, c := range b.Children {
			children[i] = assignIDs(c)
		}
		b.Children = children
	}
	return b
}

func notFound(ref string) error {
	return ferrors.RemoteStoreError("object not found").
		WithContext("ref", ref).
		WithContext("status", 404).
		Build()
}
