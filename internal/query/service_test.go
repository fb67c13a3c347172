package query

import (
	"context"
	"errors"
	"testing"

	"catalog-cli/internal/catalog"
	"catalog-cli/internal/model"

	"github.com/google/go-cmp/cmp"
)

type staticOverlay struct {
	ov  model.Overlay
	err error
}

func (s *staticOverlay) Get(context.Context) (model.Overlay, error) { return s.ov, s.err }

func labels(items []model.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Label)
	}
	return out
}

func TestServiceList_PinnedFirst(t *testing.T) {
	t.Parallel()

	src := &staticOverlay{ov: model.Overlay{SelectedIDs: []int{3}, SortedIDs: []int{3}}}
	svc := NewService(catalog.Generate(5), src)

	got, err := svc.List(context.Background(), "", 0, 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"Item 3", "Item 1", "Item 2", "Item 4", "Item 5"}
	if diff := cmp.Diff(want, labels(got)); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}

	got, err = svc.List(context.Background(), "Item 2", 0, 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if diff := cmp.Diff([]string{"Item 2"}, labels(got)); diff != "" {
		t.Fatalf("filtered list mismatch (-want +got):\n%s", diff)
	}
}

func TestServiceList_Idempotent(t *testing.T) {
	t.Parallel()

	src := &staticOverlay{ov: model.Overlay{SortedIDs: []int{40, 7, 19}}}
	svc := NewService(catalog.Generate(100), src)

	first, err := svc.List(context.Background(), "", 0, 20)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := svc.List(context.Background(), "", 0, 20)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if diff := cmp.Diff(first, again); diff != "" {
			t.Fatalf("call %d differs (-first +again):\n%s", i, diff)
		}
	}
}

func TestServiceList_PagesAcrossPinBoundary(t *testing.T) {
	t.Parallel()

	src := &staticOverlay{ov: model.Overlay{SortedIDs: []int{30, 10, 20}}}
	svc := NewService(catalog.Generate(30), src)

	var all []int
	for offset := 0; ; offset += 4 {
		page, err := svc.List(context.Background(), "", offset, 4)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		all = append(all, ids(page)...)
		if !HasMore(len(page), 4) {
			break
		}
	}
	if len(all) != 30 || all[0] != 30 || all[1] != 10 || all[2] != 20 || all[3] != 1 {
		t.Fatalf("unexpected paged order: %v", all)
	}
}

func TestServiceList_OverlayError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	svc := NewService(catalog.Generate(3), &staticOverlay{err: boom})
	if _, err := svc.List(context.Background(), "", 0, 20); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped overlay error, got %v", err)
	}
}
