// Package persistence keeps a dashboard store durable.
//
// A Manager observes a dashboard.Store and writes its state to a storage.KV
// after a quiet period, rotating a bounded set of backups and recovering from
// quota errors by discarding them. It also loads, exports and imports
// snapshots.
package persistence

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"

	"github.com/dyluth/tessera/internal/logging"
	"github.com/dyluth/tessera/internal/metrics"
	"github.com/dyluth/tessera/internal/storage"
	"github.com/dyluth/tessera/pkg/dashboard"
	"github.com/dyluth/tessera/pkg/layout"
)

const (
	// DefaultMaxBackups is the number of backups kept per dashboard.
	DefaultMaxBackups = 3

	// DefaultWriteTimeout bounds a background write.
	DefaultWriteTimeout = 2 * time.Second
)

var (
	// ErrInvalidSnapshot is returned by Import for text without the snapshot shape.
	ErrInvalidSnapshot = dashboard.ErrInvalidSnapshot

	// ErrNotAttached is returned when no store is attached to the manager.
	ErrNotAttached = errors.New("no dashboard attached")

	// ErrUnknownBackup is returned by RestoreBackup for keys that are not
	// backups of the managed dashboard.
	ErrUnknownBackup = errors.New("unknown backup")
)

// Backup describes one stored backup.
type Backup struct {
	Key     string
	SavedAt time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the clock driving the debounce timer and timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithDebounce sets the quiet period before a change is written.
func WithDebounce(d time.Duration) Option {
	return func(m *Manager) { m.debounceFor = d }
}

// WithMaxBackups sets how many backups are retained.
func WithMaxBackups(n int) Option {
	return func(m *Manager) { m.maxBackups = n }
}

// WithWriteTimeout bounds each background write.
func WithWriteTimeout(d time.Duration) Option {
	return func(m *Manager) { m.writeTimeout = d }
}

// WithLogger sets the logger for background failures.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(m *Manager) { m.recorder = r }
}

// WithGrid sets the canonical grid of stores created by Load.
func WithGrid(g layout.Grid) Option {
	return func(m *Manager) { m.grid = g }
}

// WithDefaultWidgets sets the widgets of the default dashboard used when no
// valid snapshot exists.
func WithDefaultWidgets(widgets []dashboard.Widget) Option {
	return func(m *Manager) { m.defaults = widgets }
}

// Manager persists one dashboard.
type Manager struct {
	kv          storage.KV
	dashboardID string

	clock        clockwork.Clock
	debounceFor  time.Duration
	maxBackups   int
	writeTimeout time.Duration
	logger       *log.Logger
	recorder     metrics.Recorder
	grid         layout.Grid
	defaults     []dashboard.Widget

	debouncer *Debouncer

	mu          sync.Mutex
	store       *dashboard.Store
	unsubscribe func()

	// writeMu serializes snapshot writes and backup rotation.
	writeMu sync.Mutex
}

// New creates a Manager persisting dashboardID to kv.
func New(kv storage.KV, dashboardID string, opts ...Option) (*Manager, error) {
	if kv == nil {
		return nil, fmt.Errorf("storage cannot be nil")
	}
	if err := dashboard.ValidateID(dashboardID); err != nil {
		return nil, err
	}

	m := &Manager{
		kv:           kv,
		dashboardID:  dashboardID,
		clock:        clockwork.NewRealClock(),
		debounceFor:  DefaultDebounce,
		maxBackups:   DefaultMaxBackups,
		writeTimeout: DefaultWriteTimeout,
		logger:       log.Default(),
		recorder:     metrics.NoopRecorder{},
		grid:         layout.DefaultGrid(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.maxBackups < 0 {
		m.maxBackups = 0
	}
	if m.writeTimeout <= 0 {
		m.writeTimeout = DefaultWriteTimeout
	}
	if m.recorder == nil {
		m.recorder = metrics.NoopRecorder{}
	}
	if m.logger == nil {
		m.logger = logging.Discard()
	}
	m.logger = m.logger.WithPrefix("persistence").With("dashboard", dashboardID)
	m.debouncer = NewDebouncer(m.clock, m.debounceFor)

	return m, nil
}

// DashboardID returns the managed dashboard id.
func (m *Manager) DashboardID() string {
	return m.dashboardID
}

// Store returns the attached store, or nil.
func (m *Manager) Store() *dashboard.Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store
}

// Load reconstructs the dashboard from its primary snapshot and attaches the
// resulting store. A missing or invalid snapshot yields the default
// dashboard; Load never fails.
func (m *Manager) Load(ctx context.Context) *dashboard.Store {
	store := dashboard.NewStore(m.dashboardID, m.grid)

	snap, err := m.readSnapshot(ctx, dashboard.SnapshotKey(m.dashboardID))
	switch {
	case err == nil:
		store.Dispatch(snap.Command())
		m.recorder.IncLoad(metrics.LoadSnapshot)
		m.logger.Debug("Loaded snapshot", "widgets", len(snap.Widgets), "saved", snap.LastSaved)
	default:
		if !storage.IsNotFound(err) {
			m.logger.Warn("Discarding unreadable snapshot", "error", err)
		}
		for _, w := range m.defaults {
			store.AddWidget(w)
		}
		m.recorder.IncLoad(metrics.LoadDefault)
		m.logger.Debug("Using default dashboard", "widgets", store.Len())
	}

	m.Attach(store)
	return store
}

// Attach makes m persist store, replacing any previously attached store.
// Every effective change to store schedules a debounced write.
func (m *Manager) Attach(store *dashboard.Store) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.store = store
	m.unsubscribe = store.Subscribe(func(dashboard.Change) {
		m.debouncer.Trigger(m.writeDebounced)
	})
}

// Pending reports whether a debounced write is scheduled.
func (m *Manager) Pending() bool {
	return m.debouncer.Pending()
}

func (m *Manager) writeDebounced() {
	ctx, cancel := context.WithTimeout(context.Background(), m.writeTimeout)
	defer cancel()

	if err := m.write(ctx, metrics.WriteDebounced); err != nil {
		m.logger.Error("Failed to save dashboard", "error", err)
	}
}

// SaveNow writes the current state immediately, cancelling any pending
// debounced write.
func (m *Manager) SaveNow(ctx context.Context) error {
	m.debouncer.Cancel()
	return m.write(ctx, metrics.WriteImmediate)
}

// Flush writes now if a debounced write is pending. If the debounced write
// has already started, Flush waits for it to finish instead.
func (m *Manager) Flush(ctx context.Context) error {
	if !m.debouncer.Cancel() {
		m.debouncer.Wait()
		return nil
	}
	return m.write(ctx, metrics.WriteImmediate)
}

// Close cancels any pending write, waits for a running one and detaches from
// the store. It does not close the underlying storage, which is safe to close
// once Close returns.
func (m *Manager) Close() error {
	m.debouncer.Cancel()
	m.debouncer.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.store = nil
	return nil
}

// write stores the then-current state as the primary snapshot, then records
// a backup. On a quota error all backups are purged and the primary write is
// retried once; the backup is skipped for that cycle.
func (m *Manager) write(ctx context.Context, kind metrics.WriteKind) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	store := m.Store()
	if store == nil {
		return ErrNotAttached
	}

	start := m.clock.Now()
	defer func() {
		m.recorder.ObserveWriteDuration(kind, m.clock.Since(start))
	}()

	data, err := dashboard.NewSnapshot(store.Snapshot(), start).Marshal()
	if err != nil {
		m.recorder.IncWriteResult(kind, metrics.ResultFailed)
		return err
	}
	value := string(data)
	key := dashboard.SnapshotKey(m.dashboardID)

	err = m.kv.Set(ctx, key, value)
	if err == nil {
		m.recorder.IncWriteResult(kind, metrics.ResultSuccess)
		m.rotate(ctx, value, start)
		return nil
	}
	if !storage.IsQuotaExceeded(err) {
		m.recorder.IncWriteResult(kind, metrics.ResultFailed)
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	removed, perr := m.purgeBackups(ctx)
	m.recorder.IncQuotaPurge(removed)
	m.logger.Warn("Storage quota exceeded, purged backups", "removed", removed)
	if perr != nil {
		m.logger.Error("Failed to purge backups", "error", perr)
	}

	if err := m.kv.Set(ctx, key, value); err != nil {
		m.recorder.IncWriteResult(kind, metrics.ResultFailed)
		return fmt.Errorf("failed to write snapshot after purging backups: %w", err)
	}
	m.recorder.IncWriteResult(kind, metrics.ResultRecovered)
	m.recorder.SetBackups(m.dashboardID, 0)
	return nil
}

// rotate writes a backup of value and prunes the oldest beyond maxBackups.
// Failures are logged; the primary snapshot is already durable.
func (m *Manager) rotate(ctx context.Context, value string, at time.Time) {
	if m.maxBackups == 0 {
		return
	}

	if err := m.kv.Set(ctx, dashboard.BackupKey(m.dashboardID, at), value); err != nil {
		m.logger.Warn("Failed to write backup", "error", err)
		return
	}

	backups, err := m.Backups(ctx)
	if err != nil {
		m.logger.Warn("Failed to list backups", "error", err)
		return
	}
	kept := len(backups)
	for _, b := range backups[min(len(backups), m.maxBackups):] {
		if err := m.kv.Delete(ctx, b.Key); err != nil {
			m.logger.Warn("Failed to prune backup", "key", b.Key, "error", err)
			continue
		}
		kept--
	}
	m.recorder.SetBackups(m.dashboardID, kept)
}

func (m *Manager) purgeBackups(ctx context.Context) (int, error) {
	backups, err := m.Backups(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	var errs []error
	for _, b := range backups {
		if err := m.kv.Delete(ctx, b.Key); err != nil {
			errs = append(errs, err)
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}

// Backups lists the dashboard's backups, newest first.
func (m *Manager) Backups(ctx context.Context) ([]Backup, error) {
	keys, err := m.kv.Keys(ctx, dashboard.BackupPrefix(m.dashboardID))
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}

	backups := make([]Backup, 0, len(keys))
	for _, key := range keys {
		at, ok := dashboard.BackupTime(m.dashboardID, key)
		if !ok {
			continue
		}
		backups = append(backups, Backup{Key: key, SavedAt: at})
	}
	slices.SortFunc(backups, func(a, b Backup) int {
		return cmp.Or(b.SavedAt.Compare(a.SavedAt), cmp.Compare(a.Key, b.Key))
	})
	return backups, nil
}

// RestoreBackup loads the backup stored at key into the attached store.
// The restored state becomes the primary snapshot on the next write.
func (m *Manager) RestoreBackup(ctx context.Context, key string) error {
	store := m.Store()
	if store == nil {
		return ErrNotAttached
	}
	if _, ok := dashboard.BackupTime(m.dashboardID, key); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownBackup, key)
	}

	snap, err := m.readSnapshot(ctx, key)
	if err != nil {
		if storage.IsNotFound(err) {
			return fmt.Errorf("%w: %s", ErrUnknownBackup, key)
		}
		return fmt.Errorf("failed to read backup: %w", err)
	}

	store.Dispatch(snap.Command())
	m.recorder.IncLoad(metrics.LoadBackup)
	return nil
}

// Export returns the current state as portable snapshot JSON.
func (m *Manager) Export() (string, error) {
	store := m.Store()
	if store == nil {
		return "", ErrNotAttached
	}

	data, err := dashboard.NewSnapshot(store.Snapshot(), m.clock.Now()).Marshal()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Import replaces the dashboard with the snapshot in text. Text without the
// snapshot shape returns an error wrapping ErrInvalidSnapshot and leaves the
// state untouched.
func (m *Manager) Import(text string) error {
	store := m.Store()
	if store == nil {
		return ErrNotAttached
	}

	snap, err := dashboard.ParseSnapshot([]byte(text))
	if err != nil {
		return err
	}

	store.Dispatch(snap.Command())
	m.recorder.IncLoad(metrics.LoadImport)
	return nil
}

func (m *Manager) readSnapshot(ctx context.Context, key string) (*dashboard.Snapshot, error) {
	raw, err := m.kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return dashboard.ParseSnapshot([]byte(raw))
}
