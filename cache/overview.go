package cache

import (
	"fmt"
	"sort"
	"strings"
)

// ReportEntry describes one stored entry in an overview report.
type ReportEntry struct {
	Identifier string
	Kind       string // logical value kind, captured before serialization
	Size       float64
	Serialized bool
}

// Report is a read-only diagnostic snapshot of a store. No other component
// consumes it; it exists for humans.
type Report struct {
	MemoryLimit uint64
	MemoryUsed  float64
	Mode        Mode
	Entries     []ReportEntry
}

// Overview returns a report listing every entry with its identifier, logical
// value kind and accounted size in bytes, ordered by descending size.
func (s *Store[V]) Overview() Report {
	s.mu.Lock()

	report := Report{
		MemoryLimit: s.cfg.MemoryLimit,
		MemoryUsed:  float64(s.used),
		Mode:        s.cfg.Mode,
		Entries:     make([]ReportEntry, 0, len(s.items)),
	}

	for el := s.order.Back(); el != nil; el = el.Prev() {
		ent := el.Value.(*entry[V])
		report.Entries = append(report.Entries, ReportEntry{
			Identifier: ent.id,
			Kind:       ent.kind,
			Size:       float64(ent.size),
			Serialized: ent.serialized,
		})
	}

	s.mu.Unlock()

	sort.SliceStable(report.Entries, func(i, j int) bool {
		return report.Entries[i].Size > report.Entries[j].Size
	})

	return report
}

// String renders the report as a header block followed by one tab-separated
// line per entry, sizes rounded to two decimals.
func (r Report) String() string {
	var b strings.Builder

	b.WriteString("Cache Overview\n")
	if r.MemoryLimit > 0 {
		fmt.Fprintf(&b, "Memory Limit: %d bytes\n", r.MemoryLimit)
	} else {
		b.WriteString("Memory Limit: unbounded\n")
	}
	fmt.Fprintf(&b, "Memory Used: %.2f bytes\n", r.MemoryUsed)
	fmt.Fprintf(&b, "Eviction Mode: %s\n\n", r.Mode)
	b.WriteString("Identifier\tKind\tSize (bytes)\n")

	for _, e := range r.Entries {
		kind := e.Kind
		if e.Serialized {
			kind += " (serialized)"
		}
		fmt.Fprintf(&b, "%s\t%s\t%.2f\n", e.Identifier, kind, e.Size)
	}

	return b.String()
}
