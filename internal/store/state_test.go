package store

import (
	"context"
	"errors"
	"testing"

	"catalog-cli/internal/model"

	"github.com/google/go-cmp/cmp"
)

func openBackends(t *testing.T) map[string]Backend {
	t.Helper()
	ctx := context.Background()
	out := map[string]Backend{"memory": NewMemory()}
	for _, kind := range []string{BackendSQLite, BackendDiskv, BackendFile} {
		b, err := Open(ctx, Options{Kind: kind, Dir: t.TempDir()})
		if err != nil {
			t.Fatalf("open %s: %v", kind, err)
		}
		t.Cleanup(func() { _ = b.Close() })
		out[kind] = b
	}
	return out
}

func TestState_EmptyThenReplace(t *testing.T) {
	for name, b := range openBackends(t) {
		b := b
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			st, err := NewState(b, "")
			if err != nil {
				t.Fatalf("new state: %v", err)
			}
			if st.Key() != DefaultKey {
				t.Fatalf("key = %q, want %q", st.Key(), DefaultKey)
			}

			got, err := st.Get(ctx)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if diff := cmp.Diff(model.Overlay{SelectedIDs: []int{}, SortedIDs: []int{}}, got); diff != "" {
				t.Fatalf("initial state mismatch (-want +got):\n%s", diff)
			}

			if _, err := st.Set(ctx, model.Overlay{SelectedIDs: []int{3, 7}, SortedIDs: []int{7, 3}}); err != nil {
				t.Fatalf("set: %v", err)
			}
			// Replace, not merge.
			if _, err := st.Set(ctx, model.Overlay{SelectedIDs: []int{9}, SortedIDs: []int{9}}); err != nil {
				t.Fatalf("set: %v", err)
			}

			// A fresh service over the same backend sees the persisted copy.
			again, err := NewState(b, DefaultKey)
			if err != nil {
				t.Fatalf("new state: %v", err)
			}
			got, err = again.Get(ctx)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if diff := cmp.Diff(model.Overlay{SelectedIDs: []int{9}, SortedIDs: []int{9}}, got); diff != "" {
				t.Fatalf("persisted state mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestState_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	b := NewMemory()
	a, _ := NewState(b, "alpha")
	z, _ := NewState(b, "zeta")
	if _, err := a.Set(ctx, model.Overlay{SortedIDs: []int{1}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := z.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.SortedIDs) != 0 {
		t.Fatalf("expected zeta to be empty; got %+v", got)
	}
}

func TestState_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	st, _ := NewState(NewMemory(), "")
	if _, err := st.Set(ctx, model.Overlay{SortedIDs: []int{1, 2}}); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, _ := st.Get(ctx)
	got.SortedIDs[0] = 99
	again, _ := st.Get(ctx)
	if again.SortedIDs[0] != 1 {
		t.Fatalf("caller mutation leaked into the service: %+v", again)
	}
}

func TestState_CorruptDocumentIsEmpty(t *testing.T) {
	ctx := context.Background()
	b := NewMemory()
	_ = b.Put(ctx, DefaultKey, []byte("{not json"))
	st, _ := NewState(b, "")
	got, err := st.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.SelectedIDs) != 0 || len(got.SortedIDs) != 0 {
		t.Fatalf("expected empty overlay; got %+v", got)
	}
}

type failingBackend struct{ Memory }

func (*failingBackend) Put(context.Context, string, []byte) error { return errors.New("disk full") }

func TestState_SetFailureKeepsPreviousState(t *testing.T) {
	ctx := context.Background()
	fb := &failingBackend{Memory: Memory{m: map[string][]byte{}}}
	st, _ := NewState(fb, "")
	if _, err := st.Set(ctx, model.Overlay{SortedIDs: []int{1}}); err == nil {
		t.Fatalf("expected error from failing backend")
	}
	got, err := st.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.SortedIDs) != 0 {
		t.Fatalf("failed save must not change state; got %+v", got)
	}
}

func TestState_SeesWritesFromAnotherProcess(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	open := func() *State {
		b, err := Open(ctx, Options{Kind: BackendSQLite, Dir: dir})
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		t.Cleanup(func() { _ = b.Close() })
		st, err := NewState(b, DefaultKey)
		if err != nil {
			t.Fatalf("new state: %v", err)
		}
		return st
	}
	first, second := open(), open()

	// Warm the first replica before the other one writes.
	if _, err := first.Get(ctx); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := second.Set(ctx, model.Overlay{SelectedIDs: []int{3}, SortedIDs: []int{3}}); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := first.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(model.Overlay{SelectedIDs: []int{3}, SortedIDs: []int{3}}, got); diff != "" {
		t.Fatalf("first replica is stale (-want +got):\n%s", diff)
	}
}
