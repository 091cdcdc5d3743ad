package usecase

import (
	"sort"
	"sync"

	"media-catalog/internal/data/entity"
)

type ownerKey struct {
	authorID string
	itemID   string
}

// projection is the in-memory view of the remote review collection. The
// per-item listing and the per-(author,item) uniqueness index are maintained
// in the same critical section, so "all reviews for item" and "own review
// for item" can never disagree.
type projection struct {
	mu      sync.RWMutex
	byID    map[string]entity.Review
	byItem  map[string][]string // review ids in insertion order
	byOwner map[ownerKey]string

	// gen counts local confirmed writes. A snapshot rebuild is applied
	// only if gen is unchanged since the snapshot was requested, so a
	// fetch that raced a write cannot roll the write back.
	gen uint64
}

func newProjection() *projection {
	return &projection{
		byID:    make(map[string]entity.Review),
		byItem:  make(map[string][]string),
		byOwner: make(map[ownerKey]string),
	}
}

// generation reports the local-write counter. Read it before fetching a
// snapshot and hand it to replaceAllIfUnchanged.
func (p *projection) generation() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gen
}

// replaceAll rebuilds the projection from a store snapshot. Ordering is by
// creation time with id as tie-breaker, which keeps listings stable across
// rebuilds.
func (p *projection) replaceAll(reviews []entity.Review) {
	p.rebuild(sortSnapshot(reviews))
}

// replaceAllIfUnchanged rebuilds only when no local write landed since
// sinceGen was read. A stale snapshot taken before a confirmed write would
// otherwise drop that write until the next refresh.
func (p *projection) replaceAllIfUnchanged(reviews []entity.Review, sinceGen uint64) bool {
	sorted := sortSnapshot(reviews)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gen != sinceGen {
		return false
	}
	p.rebuildLocked(sorted)
	return true
}

func (p *projection) rebuild(sorted []entity.Review) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rebuildLocked(sorted)
}

func (p *projection) rebuildLocked(sorted []entity.Review) {
	p.byID = make(map[string]entity.Review, len(sorted))
	p.byItem = make(map[string][]string)
	p.byOwner = make(map[ownerKey]string, len(sorted))

	for _, r := range sorted {
		p.byID[r.ID] = r
		p.byItem[r.ItemID] = append(p.byItem[r.ItemID], r.ID)
		p.byOwner[ownerKey{r.AuthorID, r.ItemID}] = r.ID
	}
}

func sortSnapshot(reviews []entity.Review) []entity.Review {
	sorted := make([]entity.Review, len(reviews))
	copy(sorted, reviews)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}

// upsert inserts or replaces a single review, updating every index in one
// step.
func (p *projection) upsert(r entity.Review) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byID[r.ID]; !exists {
		p.byItem[r.ItemID] = append(p.byItem[r.ItemID], r.ID)
	}
	p.byID[r.ID] = r
	p.byOwner[ownerKey{r.AuthorID, r.ItemID}] = r.ID
	p.gen++
}

// remove evicts a review, releasing the (author,item) uniqueness slot
// immediately.
func (p *projection) remove(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	r, ok := p.byID[id]
	if !ok {
		return
	}
	delete(p.byID, id)
	delete(p.byOwner, ownerKey{r.AuthorID, r.ItemID})

	ids := p.byItem[r.ItemID]
	for i, rid := range ids {
		if rid == id {
			p.byItem[r.ItemID] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	if len(p.byItem[r.ItemID]) == 0 {
		delete(p.byItem, r.ItemID)
	}
	p.gen++
}

func (p *projection) get(id string) (entity.Review, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	r, ok := p.byID[id]
	return r, ok
}

func (p *projection) listByItem(itemID string) []entity.Review {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ids := p.byItem[itemID]
	out := make([]entity.Review, 0, len(ids))
	for _, id := range ids {
		out = append(out, p.byID[id])
	}
	return out
}

func (p *projection) ownReview(authorID, itemID string) (entity.Review, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	id, ok := p.byOwner[ownerKey{authorID, itemID}]
	if !ok {
		return entity.Review{}, false
	}
	return p.byID[id], true
}

func (p *projection) listByAuthor(authorID string) []entity.Review {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []entity.Review
	for _, ids := range p.sortedItemsLocked() {
		for _, id := range ids {
			if r := p.byID[id]; r.AuthorID == authorID {
				out = append(out, r)
			}
		}
	}
	return out
}

func (p *projection) listAll() []entity.Review {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []entity.Review
	for _, ids := range p.sortedItemsLocked() {
		for _, id := range ids {
			out = append(out, p.byID[id])
		}
	}
	return out
}

// sortedItemsLocked returns per-item id slices in deterministic item order.
// Callers must hold at least the read lock.
func (p *projection) sortedItemsLocked() [][]string {
	items := make([]string, 0, len(p.byItem))
	for item := range p.byItem {
		items = append(items, item)
	}
	sort.Strings(items)

	out := make([][]string, 0, len(items))
	for _, item := range items {
		out = append(out, p.byItem[item])
	}
	return out
}
