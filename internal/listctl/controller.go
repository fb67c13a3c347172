// Package listctl drives an incrementally loaded, searchable, reorderable item list against
// the catalog API. It owns the client-side view: the materialized items, the page cursor and
// the local copy of the overlay.
package listctl

import (
	"context"
	"sync"
	"time"

	"catalog-cli/internal/model"
	"catalog-cli/internal/query"

	"github.com/golang/glog"
)

// DefaultThreshold is how close to the bottom (in scroll units) a load-more fires.
const DefaultThreshold = 50

type API interface {
	ListItems(ctx context.Context, q string, offset, limit int) ([]model.Item, error)
	GetState(ctx context.Context) (model.Overlay, error)
	SetState(ctx context.Context, ov model.Overlay) error
}

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseExhausted
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseExhausted:
		return "exhausted"
	default:
		return "idle"
	}
}

type Options struct {
	PageSize  int
	Threshold float64
	Debounce  time.Duration

	// Context bounds debounced loads. Close cancels it.
	Context context.Context

	// OnChange is called, without locks held, after every observable state change.
	OnChange func()
}

// Snapshot is a copy of the controller state.
type Snapshot struct {
	Items       []model.Item
	Search      string
	Offset      int
	HasMore     bool
	Loading     bool
	Phase       Phase
	SelectedIDs []int
	SortedIDs   []int
}

func (s Snapshot) IsSelected(id int) bool { return contains(s.SelectedIDs, id) }

func (s Snapshot) IsPinned(id int) bool { return contains(s.SortedIDs, id) }

type Controller struct {
	api       API
	pageSize  int
	threshold float64
	onChange  func()
	debounce  *Debouncer

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	items   []model.Item
	search  string
	offset  int
	hasMore bool
	loading bool
	fetched bool
	overlay model.Overlay

	// gen is bumped by every reset-load; a response carrying an older gen is discarded.
	gen uint64
}

func New(api API, opts Options) *Controller {
	if opts.PageSize <= 0 {
		opts.PageSize = model.DefaultPageSize
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	ctx, cancel := context.WithCancel(opts.Context)
	return &Controller{
		api:       api,
		pageSize:  opts.PageSize,
		threshold: opts.Threshold,
		onChange:  opts.OnChange,
		debounce:  NewDebouncer(opts.Debounce),
		ctx:       ctx,
		cancel:    cancel,
		hasMore:   true,
		overlay:   model.Overlay{}.Normalize(),
	}
}

// Close drops any pending debounced search and cancels loads started by it.
func (c *Controller) Close() {
	c.debounce.Stop()
	c.cancel()
}

func (c *Controller) PageSize() int { return c.pageSize }

func (c *Controller) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}

// Bootstrap reads the persisted overlay and then loads the first page. The order matters:
// the first page must reflect the persisted pins.
func (c *Controller) Bootstrap(ctx context.Context) {
	c.LoadState(ctx)
	c.Load(ctx, true)
}

// LoadState replaces the local overlay with the persisted one. On failure the local overlay
// is kept.
func (c *Controller) LoadState(ctx context.Context) {
	ov, err := c.api.GetState(ctx)
	if err != nil {
		glog.Warningf("listctl: load state: %v", err)
		return
	}
	c.mu.Lock()
	c.overlay = ov.Normalize()
	c.mu.Unlock()
	c.notify()
}

// Load fetches the next page. A reset-load clears the list first and supersedes any load in
// flight; a plain load is skipped while loading or once the list is exhausted.
func (c *Controller) Load(ctx context.Context, reset bool) {
	c.mu.Lock()
	if reset {
		c.gen++
		c.items = nil
		c.offset = 0
		c.hasMore = true
	} else if c.loading || !c.hasMore {
		c.mu.Unlock()
		return
	}
	c.loading = true
	gen, q, offset := c.gen, c.search, c.offset
	c.mu.Unlock()
	c.notify()

	items, err := c.api.ListItems(ctx, q, offset, c.pageSize)

	c.mu.Lock()
	if gen != c.gen {
		// The newer load owns the loading flag.
		c.mu.Unlock()
		glog.V(2).Infof("listctl: dropped stale page q=%q offset=%d", q, offset)
		return
	}
	c.loading = false
	c.fetched = true
	if err != nil {
		c.mu.Unlock()
		glog.Warningf("listctl: load q=%q offset=%d: %v", q, offset, err)
		c.notify()
		return
	}
	c.items = append(c.items, items...)
	// The cursor advances by the page size, not by len(items).
	c.offset += c.pageSize
	c.hasMore = query.HasMore(len(items), c.pageSize)
	c.mu.Unlock()
	c.notify()
}

// NearBottom reports whether a viewport at scrollTop is within the threshold of the end.
func (c *Controller) NearBottom(scrollTop, viewport, content float64) bool {
	return content-(scrollTop+viewport) <= c.threshold
}

// OnScroll loads the next page when the viewport is near the bottom.
func (c *Controller) OnScroll(ctx context.Context, scrollTop, viewport, content float64) {
	if c.NearBottom(scrollTop, viewport, content) {
		c.Load(ctx, false)
	}
}

// SetSearch records q and schedules a debounced reset-load. Only the last call within the
// quiet window loads.
func (c *Controller) SetSearch(q string) {
	c.mu.Lock()
	c.search = q
	c.mu.Unlock()
	c.notify()
	c.debounce.Trigger(func() { c.Load(c.ctx, true) })
}

// ToggleSelect flips id in the selection, appending it to or removing it from the manual
// order to match, then persists.
func (c *Controller) ToggleSelect(ctx context.Context, id int) {
	c.mu.Lock()
	c.overlay = c.overlay.Toggle(id)
	c.mu.Unlock()
	c.notify()
	c.Save(ctx)
}

// Reorder moves the item at from to position to in the loaded list and pins the whole
// resulting sequence, then persists. Out-of-range indexes are ignored.
func (c *Controller) Reorder(ctx context.Context, from, to int) {
	c.mu.Lock()
	n := len(c.items)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		c.mu.Unlock()
		return
	}
	items := append([]model.Item{}, c.items...)
	moved := items[from]
	items = append(items[:from], items[from+1:]...)
	items = append(items[:to], append([]model.Item{moved}, items[to:]...)...)
	c.items = items

	sorted := make([]int, len(items))
	for i, it := range items {
		sorted[i] = it.ID
	}
	c.overlay.SortedIDs = sorted
	c.mu.Unlock()
	c.notify()
	c.Save(ctx)
}

// Save persists the local overlay. Failures are logged; local state is kept.
func (c *Controller) Save(ctx context.Context) {
	c.mu.Lock()
	ov := c.overlay.Clone()
	c.mu.Unlock()
	if err := c.api.SetState(ctx, ov); err != nil {
		glog.Warningf("listctl: save state: %v", err)
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{
		Items:       append([]model.Item{}, c.items...),
		Search:      c.search,
		Offset:      c.offset,
		HasMore:     c.hasMore,
		Loading:     c.loading,
		SelectedIDs: append([]int{}, c.overlay.SelectedIDs...),
		SortedIDs:   append([]int{}, c.overlay.SortedIDs...),
	}
	switch {
	case c.loading:
		s.Phase = PhaseLoading
	case !c.fetched:
		s.Phase = PhaseIdle
	case !c.hasMore:
		s.Phase = PhaseExhausted
	default:
		s.Phase = PhaseLoaded
	}
	return s
}

func contains(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
