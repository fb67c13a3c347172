package catalog

import (
	"errors"
	"testing"

	"catalog-cli/internal/model"

	"github.com/google/go-cmp/cmp"
)

func TestGenerate_LabelsAndOrder(t *testing.T) {
	t.Parallel()

	s := Generate(5)
	want := []model.Item{
		{ID: 1, Label: "Item 1"},
		{ID: 2, Label: "Item 2"},
		{ID: 3, Label: "Item 3"},
		{ID: 4, Label: "Item 4"},
		{ID: 5, Label: "Item 5"},
	}
	if diff := cmp.Diff(want, s.Filter("")); diff != "" {
		t.Fatalf("unfiltered mismatch (-want +got):\n%s", diff)
	}
	if s.Len() != 5 {
		t.Fatalf("Len = %d, want 5", s.Len())
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	s := Generate(25)
	tests := []struct {
		name string
		q    string
		want []int
	}{
		{name: "exact label", q: "Item 2", want: []int{2, 20, 21, 22, 23, 24, 25}},
		{name: "case insensitive", q: "iTEM 1", want: []int{1, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19}},
		{name: "suffix digit", q: "5", want: []int{5, 15, 25}},
		{name: "no match", q: "zzz", want: []int{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := []int{}
			for _, it := range s.Filter(tt.q) {
				got = append(got, it.ID)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Filter(%q) mismatch (-want +got):\n%s", tt.q, diff)
			}
		})
	}
}

func TestFilter_EmptyQueryDoesNotRebuild(t *testing.T) {
	t.Parallel()

	s := Generate(3)
	a := s.Filter("")
	b := s.Filter("")
	if &a[0] != &b[0] {
		t.Fatalf("expected unfiltered results to share the catalog's backing array")
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	s := Generate(10)
	it, err := s.Lookup(7)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if it.Label != "Item 7" {
		t.Fatalf("unexpected item: %+v", it)
	}
	if _, err := s.Lookup(11); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
