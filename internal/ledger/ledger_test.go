package ledger

import (
	"testing"

	"leadgen-engine/internal/domain"
)

func place(id, website string) domain.Place {
	return domain.Place{ID: id, Name: "Biz " + id, Website: website}
}

func TestLedger_RejectsDuplicateID(t *testing.T) {
	l := New()
	if !l.Admit(place("a", "https://one.example")) {
		t.Fatal("first admit should succeed")
	}
	if l.Admit(place("a", "https://two.example")) {
		t.Fatal("same id must be rejected even with a new website")
	}
}

func TestLedger_RejectsDuplicateDomain(t *testing.T) {
	l := New()
	if !l.Admit(place("a", "https://www.acme.example/home")) {
		t.Fatal("first admit should succeed")
	}
	if l.Admit(place("b", "https://acme.example/contact")) {
		t.Fatal("same domain under a different id must be rejected")
	}
}

func TestLedger_TwoPlacesWithoutWebsites(t *testing.T) {
	// Website-less places are judged on identity alone; their (empty)
	// domain must never collide.
	l := New()
	if !l.Admit(place("a", "")) {
		t.Fatal("first website-less place should be admitted")
	}
	if !l.Admit(place("b", "")) {
		t.Fatal("second website-less place should be admitted too")
	}
	if len(l.Domains()) != 0 {
		t.Fatalf("empty domain must not be recorded, got %v", l.Domains())
	}
}

func TestLedger_Restore(t *testing.T) {
	l := New()
	l.Restore([]string{"a"}, []string{"acme.example", ""})

	if l.Admit(place("a", "")) {
		t.Fatal("restored id must be rejected")
	}
	if l.Admit(place("b", "https://acme.example")) {
		t.Fatal("restored domain must be rejected")
	}
	if !l.Admit(place("c", "")) {
		t.Fatal("restored empty domain must not block website-less places")
	}
}

func TestLedger_SnapshotsAreSorted(t *testing.T) {
	l := New()
	l.Admit(place("z", "https://zeta.example"))
	l.Admit(place("a", "https://alpha.example"))

	ids := l.PlaceIDs()
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "z" {
		t.Fatalf("ids not sorted: %v", ids)
	}
	doms := l.Domains()
	if len(doms) != 2 || doms[0] != "alpha.example" || doms[1] != "zeta.example" {
		t.Fatalf("domains not sorted: %v", doms)
	}
}
