package cache

import (
	"container/heap"
	"container/list"
)

// victimPolicy is the capability interface behind the three eviction modes.
// The store owns the identifier map and the recency list; the policy owns
// any extra bookkeeping and the victim decision. All methods are called with
// the store lock held.
type victimPolicy[V any] interface {
	// recordAdd is called after a new entry has been inserted at the
	// most-recently-used end of the order list.
	recordAdd(el *list.Element)

	// recordGet is called on every successful Get of the entry.
	recordGet(el *list.Element)

	// recordRemove is called after an entry left the store for any reason.
	recordRemove(ent *entry[V])

	// victim returns the element to evict next. The store never calls this
	// on an empty store; nil means the policy bookkeeping ran dry.
	victim() *list.Element

	// reset drops all policy bookkeeping.
	reset()
}

// lraPolicy evicts in pure insertion order. Access does not reorder, so the
// order list stays in insertion order and the back element is always the
// earliest surviving insertion.
type lraPolicy[V any] struct {
	order *list.List
}

func (p *lraPolicy[V]) recordAdd(*list.Element) {}
func (p *lraPolicy[V]) recordGet(*list.Element) {}
func (p *lraPolicy[V]) recordRemove(*entry[V])  {}
func (p *lraPolicy[V]) victim() *list.Element   { return p.order.Back() }
func (p *lraPolicy[V]) reset()                  {}

// lruPolicy evicts the entry least recently touched by Get. Every successful
// Get moves the entry to the most-recently-used end.
type lruPolicy[V any] struct {
	order *list.List
}

func (p *lruPolicy[V]) recordAdd(*list.Element) {}

func (p *lruPolicy[V]) recordGet(el *list.Element) {
	p.order.MoveToFront(el)
}

func (p *lruPolicy[V]) recordRemove(*entry[V]) {}
func (p *lruPolicy[V]) victim() *list.Element  { return p.order.Back() }
func (p *lruPolicy[V]) reset()                 {}

// lfuHeapEntry is a snapshot of an identifier's access count at bump time.
// The heap is allowed to hold stale snapshots; victim() skips them.
type lfuHeapEntry struct {
	count uint64
	seq   uint64
	id    string
}

// lfuHeap orders snapshots by access count, ties broken by oldest insertion.
type lfuHeap []lfuHeapEntry

func (h lfuHeap) Len() int { return len(h) }

func (h lfuHeap) Less(i, j int) bool {
	if h[i].count != h[j].count {
		return h[i].count < h[j].count
	}
	return h[i].seq < h[j].seq
}

func (h lfuHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *lfuHeap) Push(x any) { *h = append(*h, x.(lfuHeapEntry)) }

func (h *lfuHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// lfuPolicy evicts the identifier with the lowest cumulative access count.
// Counts bump exactly once per Add touch and per successful Get. Each bump
// pushes a fresh snapshot instead of re-heapifying; victim() pops until it
// finds a snapshot that still matches a live entry's current count.
type lfuPolicy[V any] struct {
	items   map[string]*list.Element
	counts  map[string]uint64
	seqs    map[string]uint64
	heap    lfuHeap
	nextSeq uint64
}

func newLFUPolicy[V any](items map[string]*list.Element) *lfuPolicy[V] {
	return &lfuPolicy[V]{
		items:  items,
		counts: make(map[string]uint64),
		seqs:   make(map[string]uint64),
	}
}

func (p *lfuPolicy[V]) bump(id string) {
	p.counts[id]++
	heap.Push(&p.heap, lfuHeapEntry{count: p.counts[id], seq: p.seqs[id], id: id})
}

func (p *lfuPolicy[V]) recordAdd(el *list.Element) {
	id := el.Value.(*entry[V]).id
	p.nextSeq++
	p.seqs[id] = p.nextSeq
	p.bump(id)
}

func (p *lfuPolicy[V]) recordGet(el *list.Element) {
	p.bump(el.Value.(*entry[V]).id)
}

func (p *lfuPolicy[V]) recordRemove(ent *entry[V]) {
	delete(p.counts, ent.id)
	delete(p.seqs, ent.id)
}

func (p *lfuPolicy[V]) victim() *list.Element {
	for p.heap.Len() > 0 {
		top := p.heap[0]
		el, alive := p.items[top.id]
		if !alive || p.counts[top.id] != top.count || p.seqs[top.id] != top.seq {
			// Stale snapshot: the identifier was removed, re-inserted or
			// accessed since this was pushed.
			heap.Pop(&p.heap)
			continue
		}
		return el
	}
	return nil
}

func (p *lfuPolicy[V]) reset() {
	p.counts = make(map[string]uint64)
	p.seqs = make(map[string]uint64)
	p.heap = nil
	p.nextSeq = 0
}
