package pagination

import "testing"

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(-3); got != DefaultLimit {
		t.Fatalf("expected default limit for negative input, got %d", got)
	}
	if got := NormalizeLimit(500); got != MaxLimit {
		t.Fatalf("expected max limit, got %d", got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
}

func TestOffset(t *testing.T) {
	p := Params{Page: 3, Limit: 20}
	if got := p.Offset(); got != 40 {
		t.Fatalf("expected offset 40, got %d", got)
	}
	empty := Params{}
	if got := empty.Offset(); got != 0 {
		t.Fatalf("expected offset 0 for defaults, got %d", got)
	}
}

func TestResolve(t *testing.T) {
	page := Resolve(Params{Page: 2, Limit: 10}, 35)
	if page.TotalPages != 4 {
		t.Fatalf("expected 4 total pages, got %d", page.TotalPages)
	}
	if page.Total != 35 {
		t.Fatalf("expected total 35, got %d", page.Total)
	}
	if page.Page != 2 || page.Limit != 10 {
		t.Fatalf("unexpected normalized params: %+v", page)
	}

	empty := Resolve(Params{}, 0)
	if empty.TotalPages != 1 {
		t.Fatalf("expected 1 total page for empty set, got %d", empty.TotalPages)
	}
}
