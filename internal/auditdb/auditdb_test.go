package auditdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/claimlens/claimlens/internal/store"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func entry(id string, rowID int) store.ChangeEntry {
	return store.ChangeEntry{
		ID:        id,
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Table:     store.TableSales,
		RowID:     rowID,
		Column:    "Gross Premium",
		OldValue:  1000.0,
		NewValue:  1500.0,
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.db")

	d1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, d1.Append(entry("chg-1", 0)))
	require.NoError(t, d1.Close())

	// Reopening must not lose or duplicate anything.
	d2, err := Open(path)
	require.NoError(t, err)
	defer d2.Close()

	n, err := d2.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAppend_RoundTripsValues(t *testing.T) {
	d := openTestDB(t)

	e := entry("chg-1", 3)
	e.OldValue = "Approved"
	e.NewValue = "Rejected"
	require.NoError(t, d.Append(e))

	entries, err := d.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	got := entries[0]
	assert.Equal(t, "chg-1", got.ID)
	assert.Equal(t, store.TableSales, got.Table)
	assert.Equal(t, 3, got.RowID)
	assert.Equal(t, "Gross Premium", got.Column)
	assert.Equal(t, "Approved", got.OldValue)
	assert.Equal(t, "Rejected", got.NewValue)
	assert.True(t, got.Timestamp.Equal(e.Timestamp))
}

func TestAppend_DuplicateIDIgnored(t *testing.T) {
	d := openTestDB(t)

	require.NoError(t, d.Append(entry("chg-1", 0)))
	require.NoError(t, d.Append(entry("chg-1", 0)))

	n, err := d.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestEntries_InsertionOrder(t *testing.T) {
	d := openTestDB(t)

	require.NoError(t, d.Append(entry("chg-b", 0)))
	require.NoError(t, d.Append(entry("chg-a", 1)))
	require.NoError(t, d.Append(entry("chg-c", 2)))

	entries, err := d.Entries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "chg-b", entries[0].ID)
	assert.Equal(t, "chg-a", entries[1].ID)
	assert.Equal(t, "chg-c", entries[2].ID)
}

func TestClear(t *testing.T) {
	d := openTestDB(t)

	require.NoError(t, d.Append(entry("chg-1", 0)))
	require.NoError(t, d.Clear())

	entries, err := d.Entries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}
