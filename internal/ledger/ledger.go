package ledger

import (
	"sort"

	"leadgen-engine/internal/domain"
	"leadgen-engine/internal/source/util"
)

// Ledger gatekeeps which fetched places become leads: one set of seen place
// identity keys and one of seen website domains. It is touched only by the
// collection control goroutine, so it carries no lock.
type Ledger struct {
	ids     map[string]struct{}
	domains map[string]struct{}
}

func New() *Ledger {
	return &Ledger{
		ids:     make(map[string]struct{}),
		domains: make(map[string]struct{}),
	}
}

// Restore seeds the ledger from a checkpoint snapshot.
func (l *Ledger) Restore(ids, domains []string) {
	for _, id := range ids {
		l.ids[id] = struct{}{}
	}
	for _, d := range domains {
		if d != "" {
			l.domains[d] = struct{}{}
		}
	}
}

// Admit records and accepts a place iff its identity key is unseen and its
// website domain (if any) is unseen. A place without a website is judged on
// identity alone: the empty domain is never stored, so website-less places
// can't collide with each other.
func (l *Ledger) Admit(p domain.Place) bool {
	if _, ok := l.ids[p.ID]; ok {
		return false
	}

	dom := util.DomainForDedup(p.Website)
	if dom != "" {
		if _, ok := l.domains[dom]; ok {
			return false
		}
		l.domains[dom] = struct{}{}
	}

	l.ids[p.ID] = struct{}{}
	return true
}

// PlaceIDs returns the seen identity keys, sorted for stable snapshots.
func (l *Ledger) PlaceIDs() []string { return sortedKeys(l.ids) }

// Domains returns the seen website domains, sorted for stable snapshots.
func (l *Ledger) Domains() []string { return sortedKeys(l.domains) }

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
