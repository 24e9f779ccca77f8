package diag

import (
	"testing"

	"pkc/internal/source"
)

func span(file source.FileID, start, end uint32) source.Span {
	return source.Span{File: file, Start: start, End: end}
}

func TestBagCap(t *testing.T) {
	b := NewBag(2)
	if !b.Add(NewError(SemUnresolvedSymbol, span(0, 0, 1), "a")) {
		t.Fatal("first add rejected")
	}
	if !b.Add(NewError(SemUnresolvedSymbol, span(0, 1, 2), "b")) {
		t.Fatal("second add rejected")
	}
	if b.Add(NewError(SemUnresolvedSymbol, span(0, 2, 3), "c")) {
		t.Fatal("add past cap accepted")
	}
	if b.Len() != 2 {
		t.Fatalf("len = %d, want 2", b.Len())
	}
}

func TestBagSortDeterministic(t *testing.T) {
	b := NewBag(8)
	b.Add(NewError(SemUnresolvedSymbol, span(1, 5, 6), "late"))
	b.Add(NewError(SemMembership, span(0, 9, 10), "mid"))
	b.Add(NewError(SemUnresolvedSymbol, span(0, 2, 3), "early"))
	b.Sort()

	got := b.Items()
	if got[0].Message != "early" || got[1].Message != "mid" || got[2].Message != "late" {
		t.Fatalf("unexpected order: %q %q %q", got[0].Message, got[1].Message, got[2].Message)
	}
}

func TestBagDedup(t *testing.T) {
	b := NewBag(8)
	d := NewError(SemUnresolvedSymbol, span(0, 0, 5), "ghost")
	b.Add(d)
	b.Add(d)
	b.Dedup()
	if b.Len() != 1 {
		t.Fatalf("len after dedup = %d, want 1", b.Len())
	}
}

func TestBagMergeGrowsCap(t *testing.T) {
	a := NewBag(1)
	a.Add(NewError(SemMembership, span(0, 0, 1), "x"))
	other := NewBag(2)
	other.Add(NewError(SemMembership, span(0, 1, 2), "y"))
	other.Add(NewError(SemMembership, span(0, 2, 3), "z"))

	a.Merge(other)
	if a.Len() != 3 {
		t.Fatalf("len after merge = %d, want 3", a.Len())
	}
	if !a.HasErrors() {
		t.Fatal("expected errors after merge")
	}
}
