package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"catalog-cli/internal/catalog"
	"catalog-cli/internal/model"
	"catalog-cli/internal/store"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, n int) *httptest.Server {
	t.Helper()
	st, err := store.NewState(store.NewMemory(), store.DefaultKey)
	require.NoError(t, err)
	srv, err := NewServer(ServerConfig{Catalog: catalog.Generate(n), State: st})
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func postState(t *testing.T, base string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(base+"/state", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	return resp
}

func itemIDs(items []model.Item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestItems_DefaultPage(t *testing.T) {
	ts := newTestServer(t, 100)

	var items []model.Item
	resp := getJSON(t, ts.URL+"/items", &items)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.Len(t, items, model.DefaultPageSize)
	require.Equal(t, model.Item{ID: 1, Label: "Item 1"}, items[0])
}

func TestItems_PinnedOrderAndSearch(t *testing.T) {
	ts := newTestServer(t, 5)

	resp := postState(t, ts.URL, `{"selectedIds":[1],"sortedIds":[3,1]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []model.Item
	getJSON(t, ts.URL+"/items?offset=0&limit=20", &items)
	if diff := cmp.Diff([]int{3, 1, 2, 4, 5}, itemIDs(items)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	items = nil
	getJSON(t, ts.URL+"/items?q=Item%202", &items)
	require.Equal(t, []model.Item{{ID: 2, Label: "Item 2"}}, items)
}

func TestItems_Params(t *testing.T) {
	ts := newTestServer(t, 1000)

	cases := []struct {
		name   string
		query  string
		status int
		n      int
	}{
		{"zero limit", "limit=0", http.StatusOK, 0},
		{"clamped limit", "limit=100000", http.StatusOK, 500},
		{"negative offset", "offset=-5&limit=3", http.StatusOK, 3},
		{"past end", "offset=5000", http.StatusOK, 0},
		{"bad limit", "limit=abc", http.StatusBadRequest, 0},
		{"negative limit", "limit=-1", http.StatusBadRequest, 0},
		{"bad offset", "offset=x", http.StatusBadRequest, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var items []model.Item
			resp := getJSON(t, ts.URL+"/items?"+tc.query, &items)
			require.Equal(t, tc.status, resp.StatusCode)
			if tc.status == http.StatusOK {
				require.NotNil(t, items)
				require.Len(t, items, tc.n)
			}
		})
	}
}

func TestItem_Show(t *testing.T) {
	ts := newTestServer(t, 10)

	var it model.Item
	resp := getJSON(t, ts.URL+"/items/7", &it)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Item 7", it.Label)

	require.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/items/11", nil).StatusCode)
	require.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/items/seven", nil).StatusCode)
}

func TestState_RoundTrip(t *testing.T) {
	ts := newTestServer(t, 10)

	var ov model.Overlay
	getJSON(t, ts.URL+"/state", &ov)
	require.Empty(t, ov.SelectedIDs)
	require.Empty(t, ov.SortedIDs)

	resp := postState(t, ts.URL, `{"selectedIds":[5,2,5],"sortedIds":[4,2]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	getJSON(t, ts.URL+"/state", &ov)
	require.Equal(t, model.Overlay{SelectedIDs: []int{2, 5}, SortedIDs: []int{4, 2}}, ov)
}

func TestState_EmptyEncodesArrays(t *testing.T) {
	ts := newTestServer(t, 1)

	resp, err := http.Get(ts.URL + "/state")
	require.NoError(t, err)
	defer resp.Body.Close()
	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	require.JSONEq(t, `[]`, string(raw["selectedIds"]))
	require.JSONEq(t, `[]`, string(raw["sortedIds"]))
}

func TestState_RejectsMalformedBody(t *testing.T) {
	ts := newTestServer(t, 10)

	resp := postState(t, ts.URL, `{"selectedIds":`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, 1)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/state", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
	require.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Content-Type")
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t, 1)

	resp := getJSON(t, ts.URL+"/health", nil)
	require.NotEmpty(t, resp.Header.Get(requestIDHeader))
	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	const id = "0b8f7f2e-4f5c-4a4e-9d2a-0a3c1a0d6b11"
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set(requestIDHeader, id)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, id, resp.Header.Get(requestIDHeader))
}

func TestLandingPage(t *testing.T) {
	ts := newTestServer(t, 1)

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	var b strings.Builder
	_, err = io.Copy(&b, resp.Body)
	require.NoError(t, err)
	require.Contains(t, b.String(), "GET /items")

	require.Equal(t, http.StatusNotFound, getJSON(t, ts.URL+"/nope", nil).StatusCode)
}
