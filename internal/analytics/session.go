// Package analytics is the session facade over the analytics engine: it
// owns the versioned store, the merged view and the query cache, and
// exposes every read and write operation of the engine.
//
// A Session is a single logical owner of all derived state. Execution is
// synchronous and single-threaded; the package provides no locking, and
// concurrent use from multiple goroutines is out of contract. Every read
// reflects all mutations accepted before it because mutation invalidates
// derived state eagerly: any accepted edit flushes the whole query cache
// and rebuilds the merged view before returning.
package analytics

import (
	"fmt"
	"log/slog"

	"github.com/claimlens/claimlens/internal/cache"
	"github.com/claimlens/claimlens/internal/filter"
	"github.com/claimlens/claimlens/internal/merge"
	"github.com/claimlens/claimlens/internal/schema"
	"github.com/claimlens/claimlens/internal/store"
	"github.com/claimlens/claimlens/internal/table"
)

// AuditSink mirrors accepted change-log entries to durable storage.
// Implemented by auditdb.DB. The mirror is best-effort: a sink failure is
// logged and does not fail the edit.
type AuditSink interface {
	Append(store.ChangeEntry) error
	Clear() error
}

// Session owns the dataset copies, merged view, cache and audit log for
// one analysis session.
type Session struct {
	store  *store.Store
	cache  *cache.Cache
	merged *merge.View
	sink   AuditSink
	logger *slog.Logger

	storeOpts []store.Option
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the slog logger used by the session and its store.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// WithAuditSink attaches a durable mirror for the audit trail.
func WithAuditSink(sink AuditSink) SessionOption {
	return func(s *Session) { s.sink = sink }
}

// WithStoreOptions forwards options to the underlying store (tests use
// this to fix the clock and ID generator).
func WithStoreOptions(opts ...store.Option) SessionOption {
	return func(s *Session) { s.storeOpts = opts }
}

// New creates an empty session. Load must be called before queries.
func New(opts ...SessionOption) *Session {
	s := &Session{logger: slog.Default()}
	for _, o := range opts {
		o(s)
	}
	s.store = store.New(append([]store.Option{store.WithLogger(s.logger)}, s.storeOpts...)...)
	s.cache = cache.New(s.logger)
	return s
}

// Load replaces the session's dataset pair: snapshots originals, builds
// working copies and the merged view, clears the change log and cache.
// A load error leaves prior session state untouched.
func (s *Session) Load(sales, claims *table.Table) error {
	if sales == nil || claims == nil {
		return fmt.Errorf("load: no data source provided")
	}
	if err := s.store.Load(sales, claims); err != nil {
		return err
	}
	s.cache.Flush()
	s.rebuildMerged()
	if s.sink != nil {
		if err := s.sink.Clear(); err != nil {
			s.logger.Warn("audit sink clear failed", "error", err)
		}
	}
	return nil
}

// SetDescriptor installs a custom schema descriptor for a logical table
// and recomputes derived state under the new schema.
func (s *Session) SetDescriptor(tableName string, desc *schema.Descriptor) error {
	if err := s.store.SetDescriptor(tableName, desc); err != nil {
		return err
	}
	s.cache.Flush()
	s.rebuildMerged()
	return nil
}

// Loaded reports whether a dataset pair has been loaded.
func (s *Session) Loaded() bool { return s.store.Loaded() }

// Merged returns the current merged view.
func (s *Session) Merged() *merge.View { return s.merged }

// Working returns the working copy of a logical table.
func (s *Session) Working(tableName string) (*table.Table, bool) {
	return s.store.Working(tableName)
}

// UpdateCell validates and applies a single-cell edit. On success the
// query cache is flushed, the merged view rebuilt, and the entry mirrored
// to the audit sink if one is attached.
func (s *Session) UpdateCell(tableName string, rowID int, column string, value any) store.EditResult {
	res := s.store.UpdateCell(tableName, rowID, column, value)
	if !res.OK() {
		return res
	}
	s.afterMutation()
	if s.sink != nil {
		log := s.store.ChangeLog()
		if err := s.sink.Append(log[len(log)-1]); err != nil {
			s.logger.Warn("audit sink append failed", "error", err)
		}
	}
	return res
}

// BulkUpdate applies edits in order, one result per edit. Not atomic: a
// failure partway does not roll back prior successful edits (documented
// contract, see store.BulkUpdate).
func (s *Session) BulkUpdate(tableName string, edits []store.Edit) ([]store.EditResult, bool) {
	results := make([]store.EditResult, 0, len(edits))
	allOK := true
	for _, e := range edits {
		r := s.UpdateCell(tableName, e.RowID, e.Column, e.Value)
		if !r.OK() {
			allOK = false
		}
		results = append(results, r)
	}
	return results, allOK
}

// Reset restores the working copies from the originals, clears the change
// log and cache, rebuilds the merged view, and returns the number of
// reverted changes.
func (s *Session) Reset() int {
	reverted := s.store.Reset()
	s.afterMutation()
	if s.sink != nil {
		if err := s.sink.Clear(); err != nil {
			s.logger.Warn("audit sink clear failed", "error", err)
		}
	}
	return reverted
}

// ChangeLog returns the audit trail in insertion order.
func (s *Session) ChangeLog() []store.ChangeEntry {
	return s.store.ChangeLog()
}

func (s *Session) afterMutation() {
	s.cache.Flush()
	s.rebuildMerged()
}

func (s *Session) rebuildMerged() {
	sales, ok1 := s.store.Working(store.TableSales)
	claims, ok2 := s.store.Working(store.TableClaims)
	if !ok1 || !ok2 {
		s.merged = nil
		return
	}
	salesDesc, _ := s.store.Descriptor(store.TableSales)
	claimsDesc, _ := s.store.Descriptor(store.TableClaims)
	s.merged = merge.Build(sales, claims, salesDesc, claimsDesc)
	if s.merged.Degraded {
		s.logger.Warn("merged view degraded: policy column unresolved")
	}
}

// filteredSales applies the spec to the sales working copy.
func (s *Session) filteredSales(spec filter.Spec) *table.Table {
	t, ok := s.store.Working(store.TableSales)
	if !ok {
		return &table.Table{}
	}
	desc, _ := s.store.Descriptor(store.TableSales)
	return filter.Apply(t, spec, desc).Table
}

// filteredClaims applies the spec to the claims working copy.
func (s *Session) filteredClaims(spec filter.Spec) *table.Table {
	t, ok := s.store.Working(store.TableClaims)
	if !ok {
		return &table.Table{}
	}
	desc, _ := s.store.Descriptor(store.TableClaims)
	return filter.Apply(t, spec, desc).Table
}

// filteredMerged applies the spec to the merged view using the sales
// descriptor (the view's columns are the sales columns plus aggregates).
func (s *Session) filteredMerged(spec filter.Spec) *table.Table {
	if s.merged == nil {
		return &table.Table{}
	}
	desc, _ := s.store.Descriptor(store.TableSales)
	return filter.Apply(s.merged.Table, spec, desc).Table
}
