package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"edudash_backend/internals/features/principal_hub/dto"
	helper "edudash_backend/internals/helpers"
)

var (
	ErrMissingOrganization = errors.New("principal hub: no organization linked to this account")
	ErrMissingUser         = errors.New("principal hub: no authenticated user")
)

const (
	DefaultDedupWindow  = 2 * time.Second
	DefaultFetchTimeout = 30 * time.Second
)

// Identity names one hub entry: who is looking at which school.
type Identity struct {
	UserID         uuid.UUID
	OrganizationID uuid.UUID
	SchoolName     string
}

func (i Identity) Key() string {
	return i.UserID.String() + ":" + i.OrganizationID.String()
}

func (i Identity) validate() error {
	switch {
	case i.OrganizationID == uuid.Nil:
		return ErrMissingOrganization
	case i.UserID == uuid.Nil:
		return ErrMissingUser
	}
	return nil
}

// DashboardRunner builds one dashboard. *Aggregator is the production runner.
type DashboardRunner interface {
	Run(ctx context.Context, id Identity) (dto.DashboardData, error)
}

type HubOptions struct {
	DedupWindow  time.Duration
	FetchTimeout time.Duration
	Store        SnapshotStore
	Now          func() time.Time
}

// Hub owns the per user:organization state machines
// (idle → fetching → ready | error). Entries are only reachable through the
// Hub, never through package state.
type Hub struct {
	runner       DashboardRunner
	store        SnapshotStore
	dedupWindow  time.Duration
	fetchTimeout time.Duration
	now          func() time.Time
	log          zerolog.Logger

	mu       sync.Mutex
	entries  map[string]*hubEntry
	inflight map[string]bool
	flight   singleflight.Group
}

type hubEntry struct {
	status       dto.HubStatus
	data         *dto.DashboardData
	err          string
	lastErr      error
	lastRefresh  time.Time
	lastDispatch time.Time
	touched      time.Time
	seeded       bool
}

func NewHub(runner DashboardRunner, opts HubOptions, logger zerolog.Logger) *Hub {
	h := &Hub{
		runner:       runner,
		store:        opts.Store,
		dedupWindow:  opts.DedupWindow,
		fetchTimeout: opts.FetchTimeout,
		now:          opts.Now,
		log:          logger.With().Str("component", "principal_hub").Logger(),
		entries:      make(map[string]*hubEntry),
		inflight:     make(map[string]bool),
	}
	if h.store == nil {
		h.store = NewMemorySnapshotStore(DefaultSnapshotTTL)
	}
	if h.dedupWindow <= 0 {
		h.dedupWindow = DefaultDedupWindow
	}
	if h.fetchTimeout <= 0 {
		h.fetchTimeout = DefaultFetchTimeout
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

// Load is the mount path: a fetch dispatched less than the dedup window ago is
// joined while in flight and reused once finished, whatever its outcome.
func (h *Hub) Load(ctx context.Context, id Identity) (dto.HubState, error) {
	return h.load(ctx, id, false)
}

// Refresh always fetches, but joins a fetch already in flight for the key.
func (h *Hub) Refresh(ctx context.Context, id Identity) (dto.HubState, error) {
	return h.load(ctx, id, true)
}

func (h *Hub) load(ctx context.Context, id Identity, force bool) (dto.HubState, error) {
	if err := id.validate(); err != nil {
		return dto.HubState{Status: dto.HubError, Error: err.Error(), IsEmpty: true}, err
	}
	key := id.Key()
	e := h.entry(key)
	h.seed(ctx, key, e)

	h.mu.Lock()
	if h.inflight[key] {
		e.status = dto.HubFetching
	} else if !force && !e.lastDispatch.IsZero() && h.now().Sub(e.lastDispatch) < h.dedupWindow {
		lastErr := e.lastErr
		h.mu.Unlock()
		return h.snapshot(e), lastErr
	}
	h.mu.Unlock()

	// The flight is keyed by user:organization alone, so an entry re-created
	// after Release joins a fetch still running for the old one.
	ch := h.flight.DoChan(key, func() (any, error) {
		return nil, h.run(ctx, key, id)
	})

	select {
	case res := <-ch:
		return h.snapshot(e), res.Err
	case <-ctx.Done():
		return h.snapshot(e), ctx.Err()
	}
}

// run executes one batch. It is detached from the caller's cancellation so an
// abandoned request does not void the shared result; only fetchTimeout bounds it.
// The result lands on whichever entry holds the key when it completes.
func (h *Hub) run(parent context.Context, key string, id Identity) error {
	h.mu.Lock()
	dispatched := h.now()
	h.inflight[key] = true
	if e, ok := h.entries[key]; ok {
		e.status = dto.HubFetching
		e.lastDispatch = dispatched
	}
	h.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), h.fetchTimeout)
	defer cancel()

	data, err := h.runner.Run(ctx, id)

	h.mu.Lock()
	delete(h.inflight, key)
	e, ok := h.entries[key]
	if !ok {
		h.mu.Unlock()
		h.log.Debug().Str("key", key).Msg("hub entry released, result discarded")
		return err
	}
	e.lastDispatch = dispatched
	if err != nil {
		e.status = dto.HubError
		e.err = helper.ErrorMessage(err)
		e.lastErr = err
		h.mu.Unlock()
		h.log.Error().Err(err).Str("key", key).Msg("❌ principal hub fetch failed, keeping last good data")
		return err
	}
	e.status = dto.HubReady
	e.data = &data
	e.err = ""
	e.lastErr = nil
	e.lastRefresh = h.now()
	h.mu.Unlock()

	if err := h.store.Save(ctx, key, data); err != nil {
		h.log.Warn().Err(err).Str("key", key).Msg("failed to store dashboard snapshot")
	}
	return nil
}

// entry returns the live entry for key, creating it on first use.
func (h *Hub) entry(key string) *hubEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.entries[key]
	if !ok {
		e = &hubEntry{status: dto.HubIdle}
		h.entries[key] = e
	}
	e.touched = h.now()
	return e
}

// seed fills a new entry with the last good dashboard from the store.
func (h *Hub) seed(ctx context.Context, key string, e *hubEntry) {
	h.mu.Lock()
	if e.seeded || e.data != nil {
		e.seeded = true
		h.mu.Unlock()
		return
	}
	e.seeded = true
	h.mu.Unlock()

	data, err := h.store.Load(ctx, key)
	if err != nil {
		h.log.Warn().Err(err).Str("key", key).Msg("failed to read dashboard snapshot")
		return
	}
	if data == nil {
		return
	}
	h.mu.Lock()
	if e.data == nil {
		e.data = data
	}
	h.mu.Unlock()
}

func (h *Hub) snapshot(e *hubEntry) dto.HubState {
	h.mu.Lock()
	defer h.mu.Unlock()

	st := dto.HubState{
		Status:  e.status,
		Data:    e.data,
		Loading: e.status == dto.HubFetching,
		Error:   e.err,
		HasData: e.data != nil,
	}
	if !e.lastRefresh.IsZero() {
		t := e.lastRefresh
		st.LastRefresh = &t
	}
	st.IsReady = !st.Loading && st.HasData
	st.IsEmpty = !st.Loading && isEmptyDashboard(e.data)
	return st
}

func isEmptyDashboard(d *dto.DashboardData) bool {
	if d == nil {
		return true
	}
	return d.Stats.Students.Total == 0 && d.Stats.Staff.Total == 0 && d.Stats.Classes.Total == 0
}

// State reads an entry without fetching.
func (h *Hub) State(id Identity) dto.HubState {
	h.mu.Lock()
	e, ok := h.entries[id.Key()]
	if ok {
		e.touched = h.now()
	}
	h.mu.Unlock()
	if !ok {
		return dto.HubState{Status: dto.HubIdle, IsEmpty: true}
	}
	return h.snapshot(e)
}

// Metrics is getMetrics(): the card list of the current dashboard.
func (h *Hub) Metrics(ctx context.Context, id Identity) ([]dto.MetricCard, dto.HubState, error) {
	st, err := h.Load(ctx, id)
	if st.Data == nil {
		return []dto.MetricCard{}, st, err
	}
	return MetricCards(*st.Data), st, err
}

// TeachersWithStatus is getTeachersWithStatus().
func (h *Hub) TeachersWithStatus(ctx context.Context, id Identity) ([]dto.TeacherStatusView, dto.HubState, error) {
	st, err := h.Load(ctx, id)
	if st.Data == nil {
		return []dto.TeacherStatusView{}, st, err
	}
	return TeachersWithStatus(*st.Data), st, err
}

// Release drops an entry. A fetch still in flight for it completes and writes
// only if the key has been loaded again in the meantime.
func (h *Hub) Release(id Identity) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	key := id.Key()
	if _, ok := h.entries[key]; !ok {
		return false
	}
	delete(h.entries, key)
	return true
}

// EvictIdle releases entries untouched for longer than maxIdle and not
// fetching, and drops their stored snapshots.
func (h *Hub) EvictIdle(ctx context.Context, maxIdle time.Duration) int {
	h.mu.Lock()
	cutoff := h.now().Add(-maxIdle)
	var evicted []string
	for key, e := range h.entries {
		if e.status != dto.HubFetching && e.touched.Before(cutoff) {
			delete(h.entries, key)
			evicted = append(evicted, key)
		}
	}
	h.mu.Unlock()

	for _, key := range evicted {
		if err := h.store.Delete(ctx, key); err != nil {
			h.log.Warn().Err(err).Str("key", key).Msg("failed to delete dashboard snapshot")
		}
	}
	return len(evicted)
}

// Len is the number of live entries.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
