package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog-cli/internal/catalog"
	"catalog-cli/internal/model"
	"catalog-cli/internal/store"
	"catalog-cli/internal/web"

	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, n int) *Client {
	t.Helper()
	st, err := store.NewState(store.NewMemory(), store.DefaultKey)
	require.NoError(t, err)
	srv, err := web.NewServer(web.ServerConfig{Catalog: catalog.Generate(n), State: st})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c, err := New(ts.URL+"/", Options{})
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadURL(t *testing.T) {
	for _, raw := range []string{"", "localhost", "://x"} {
		_, err := New(raw, Options{})
		require.Error(t, err, raw)
	}
}

func TestListItems(t *testing.T) {
	c := newClient(t, 50)
	ctx := context.Background()

	items, err := c.ListItems(ctx, "", 0, 20)
	require.NoError(t, err)
	require.Len(t, items, 20)

	items, err = c.ListItems(ctx, "", 40, 20)
	require.NoError(t, err)
	require.Len(t, items, 10)

	items, err = c.ListItems(ctx, "no such label", 0, 20)
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)
}

func TestStateRoundTrip(t *testing.T) {
	c := newClient(t, 10)
	ctx := context.Background()

	require.NoError(t, c.SetState(ctx, model.Overlay{SelectedIDs: []int{3, 1}, SortedIDs: []int{3, 1}}))
	ov, err := c.GetState(ctx)
	require.NoError(t, err)
	require.Equal(t, []int{1, 3}, ov.SelectedIDs)
	require.Equal(t, []int{3, 1}, ov.SortedIDs)

	items, err := c.ListItems(ctx, "", 0, 3)
	require.NoError(t, err)
	require.Equal(t, []model.Item{{ID: 3, Label: "Item 3"}, {ID: 1, Label: "Item 1"}, {ID: 2, Label: "Item 2"}}, items)
}

func TestGetItem_NotFound(t *testing.T) {
	c := newClient(t, 10)

	_, err := c.GetItem(context.Background(), 99)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusNotFound, se.Code)
	require.Equal(t, "not found", se.Body)
}

func TestMalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	}))
	t.Cleanup(ts.Close)
	c, err := New(ts.URL, Options{HTTPClient: ts.Client()})
	require.NoError(t, err)

	_, err = c.ListItems(context.Background(), "", 0, 20)
	require.ErrorIs(t, err, ErrMalformedResponse)
}
