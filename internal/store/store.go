// Package store holds the dual-copy versioned dataset: an immutable
// original snapshot and a mutable working copy per logical table, plus the
// append-only change log that is the canonical audit trail.
//
// The store is process-local state owned by exactly one session. All
// operations are synchronous and single-threaded; concurrent mutation is
// out of contract (see the session in internal/analytics).
package store

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/claimlens/claimlens/internal/schema"
	"github.com/claimlens/claimlens/internal/table"
)

// Logical table names accepted by the mutation API.
const (
	TableSales  = "sales"
	TableClaims = "claims"
)

// ChangeEntry is one accepted mutation. Entries are append-only, ordered
// by insertion, and cleared only by Reset or a new Load.
type ChangeEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Table     string    `json:"table"`
	RowID     int       `json:"row_id"`
	Column    string    `json:"column"`
	OldValue  any       `json:"old_value"`
	NewValue  any       `json:"new_value"`
}

// Edit addresses a single cell for BulkUpdate.
type Edit struct {
	RowID  int
	Column string
	Value  any
}

// EditResult reports the outcome of one cell edit. Err is nil on success.
type EditResult struct {
	RowID    int
	Column   string
	OldValue any
	NewValue any
	Err      *MutationError
}

// OK reports whether the edit was accepted.
func (r EditResult) OK() bool { return r.Err == nil }

type versioned struct {
	original *table.Table
	working  *table.Table
	desc     *schema.Descriptor
}

// Store owns the dataset pair for each logical table and the change log.
type Store struct {
	tables map[string]*versioned
	log    []ChangeEntry
	ids    IDGenerator
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithIDGenerator overrides the audit entry ID generator (tests use a
// FixedGenerator for deterministic logs).
func WithIDGenerator(g IDGenerator) Option {
	return func(s *Store) { s.ids = g }
}

// WithClock overrides the timestamp source for change entries.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the slog logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New creates an empty store. Load must be called before any mutation.
func New(opts ...Option) *Store {
	s := &Store{
		tables: make(map[string]*versioned),
		ids:    UUIDv7Generator{},
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load snapshots the given tables as the immutable originals and copies
// them into fresh working tables, discarding any prior session state.
// Row IDs are reassigned sequentially from 0, independently per table.
// The change log is cleared.
func (s *Store) Load(sales, claims *table.Table) error {
	if sales == nil || claims == nil {
		return fmt.Errorf("load: both sales and claims tables are required")
	}
	s.tables = map[string]*versioned{
		TableSales:  load(sales, schema.Sales()),
		TableClaims: load(claims, schema.Claims()),
	}
	s.log = nil
	s.logger.Debug("store loaded",
		"sales_rows", sales.Len(),
		"claims_rows", claims.Len())
	return nil
}

func load(t *table.Table, desc *schema.Descriptor) *versioned {
	snapshot := t.Clone()
	for i := range snapshot.Rows {
		snapshot.Rows[i].ID = i
	}
	return &versioned{
		original: snapshot,
		working:  snapshot.Clone(),
		desc:     desc,
	}
}

// SetDescriptor replaces the schema descriptor for a logical table.
// Intended for callers that load a custom descriptor file.
func (s *Store) SetDescriptor(tableName string, desc *schema.Descriptor) error {
	v, ok := s.tables[tableName]
	if !ok {
		return fmt.Errorf("set descriptor: unknown table %q", tableName)
	}
	v.desc = desc
	return nil
}

// Loaded reports whether a dataset pair has been loaded.
func (s *Store) Loaded() bool {
	return len(s.tables) > 0
}

// Working returns the mutable working copy of a logical table.
// Callers other than the mutation API must treat it as read-only.
func (s *Store) Working(tableName string) (*table.Table, bool) {
	v, ok := s.tables[tableName]
	if !ok {
		return nil, false
	}
	return v.working, true
}

// Original returns the immutable load-time snapshot of a logical table.
func (s *Store) Original(tableName string) (*table.Table, bool) {
	v, ok := s.tables[tableName]
	if !ok {
		return nil, false
	}
	return v.original, true
}

// Descriptor returns the schema descriptor for a logical table.
func (s *Store) Descriptor(tableName string) (*schema.Descriptor, bool) {
	v, ok := s.tables[tableName]
	if !ok {
		return nil, false
	}
	return v.desc, true
}

// UpdateCell validates and applies a single-cell edit to the working copy
// and appends a change-log entry. Exactly one row/column is mutated per
// accepted call; a rejected call leaves the store untouched.
func (s *Store) UpdateCell(tableName string, rowID int, column string, value any) EditResult {
	res := EditResult{RowID: rowID, Column: column}

	if !s.Loaded() {
		res.Err = &MutationError{Code: ErrCodeNoData, Message: "no data loaded", Table: tableName}
		return res
	}
	v, ok := s.tables[tableName]
	if !ok {
		res.Err = &MutationError{Code: ErrCodeTableNotFound, Message: fmt.Sprintf("unknown table %q", tableName), Table: tableName}
		return res
	}
	if column == table.RowIDColumn {
		res.Err = &MutationError{Code: ErrCodeImmutableColumn, Message: "row identifier cannot be edited", Table: tableName, Column: column}
		return res
	}
	if !v.working.HasColumn(column) {
		res.Err = &MutationError{Code: ErrCodeColumnNotFound, Message: fmt.Sprintf("column %q not found", column), Table: tableName, Column: column}
		return res
	}

	idx := -1
	for i := range v.working.Rows {
		if v.working.Rows[i].ID != rowID {
			continue
		}
		if idx >= 0 {
			res.Err = &MutationError{Code: ErrCodeRowConflict, Message: fmt.Sprintf("row id %d is not unique", rowID), Table: tableName}
			return res
		}
		idx = i
	}
	if idx < 0 {
		res.Err = &MutationError{Code: ErrCodeRowNotFound, Message: fmt.Sprintf("row %d not found", rowID), Table: tableName}
		return res
	}

	coerced, verr := Validate(v.desc, tableName, column, value)
	if verr != nil {
		res.Err = verr
		return res
	}

	old := v.working.Rows[idx].Cells[column]
	v.working.Rows[idx].Cells[column] = coerced

	entry := ChangeEntry{
		ID:        s.ids.Generate(),
		Timestamp: s.now(),
		Table:     tableName,
		RowID:     rowID,
		Column:    column,
		OldValue:  old,
		NewValue:  coerced,
	}
	s.log = append(s.log, entry)
	s.logger.Debug("cell updated",
		"table", tableName, "row_id", rowID, "column", column)

	res.OldValue = old
	res.NewValue = coerced
	return res
}

// BulkUpdate applies UpdateCell once per edit, in the given order, and
// returns one result per edit plus the conjunction of their successes.
//
// Not atomic: a failure partway does NOT roll back prior successful edits
// in the same call. Each accepted edit stands on its own in the change log.
func (s *Store) BulkUpdate(tableName string, edits []Edit) ([]EditResult, bool) {
	results := make([]EditResult, 0, len(edits))
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

// Reset restores every working copy from its original snapshot and clears
// the change log. Returns the number of reverted changes (the log length
// before clearing).
func (s *Store) Reset() int {
	for _, v := range s.tables {
		v.working = v.original.Clone()
	}
	reverted := len(s.log)
	s.log = nil
	s.logger.Info("store reset", "changes_reverted", reverted)
	return reverted
}

// ChangeLog returns a copy of the audit trail in insertion order.
func (s *Store) ChangeLog() []ChangeEntry {
	out := make([]ChangeEntry, len(s.log))
	copy(out, s.log)
	return out
}
