package dataset

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: create a test SQLite store
func createTestSQLiteStore(t *testing.T) *SQLiteStore {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "codes.db"))
	require.NoError(t, err, "should create sqlite store")
	t.Cleanup(func() { store.Close() })
	return store
}

// TestNewSQLiteStore_InitializesSchema verifies an empty database is usable
func TestNewSQLiteStore_InitializesSchema(t *testing.T) {
	store := createTestSQLiteStore(t)

	records, err := store.Records("Ghana")
	require.NoError(t, err)
	assert.Empty(t, records)

	runs, err := store.Exports()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

// TestSave_ReplacesCountryRows verifies a second save replaces the first
func TestSave_ReplacesCountryRows(t *testing.T) {
	store := createTestSQLiteStore(t)
	records := sampleRecords()

	require.NoError(t, store.Save(uuid.New(), "Ghana", records, DefaultTimestamp))
	require.NoError(t, store.Save(uuid.New(), "Ghana", records[:1], DefaultTimestamp))

	got, err := store.Records("Ghana")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, records[0], got[0])

	runs, err := store.Exports()
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

// TestSave_KeepsCountriesSeparate verifies rows are scoped by country
func TestSave_KeepsCountriesSeparate(t *testing.T) {
	store := createTestSQLiteStore(t)
	kenya := Annotate([]Record{{
		Name: "M-Pesa", Code: "*334#", Category: "Mobile Money",
		Provider: "Safaricom", Network: "Safaricom",
	}}, "ke", "Kenya", DefaultTimestamp)

	require.NoError(t, store.Save(uuid.New(), "Ghana", sampleRecords(), DefaultTimestamp))
	require.NoError(t, store.Save(uuid.New(), "Kenya", kenya, DefaultTimestamp))

	ghana, err := store.Records("Ghana")
	require.NoError(t, err)
	assert.Len(t, ghana, 2)

	got, err := store.Records("Kenya")
	require.NoError(t, err)
	assert.Equal(t, kenya, got)
}

// TestRecords_PreservesSource verifies live records keep their source and
// fallback records have none
func TestRecords_PreservesSource(t *testing.T) {
	store := createTestSQLiteStore(t)

	require.NoError(t, store.Save(uuid.New(), "Ghana", sampleRecords(), DefaultTimestamp))

	got, err := store.Records("Ghana")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Empty(t, got[0].Source)
	assert.Equal(t, "https://www.ecg.com.gh", got[1].Source)
}
