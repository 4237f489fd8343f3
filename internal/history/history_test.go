package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The store is optional wiring: every method must be a no-op on a nil
// receiver so callers never need to branch on whether history is
// configured.
func TestNilStoreIsSafe(t *testing.T) {
	var s *Store
	ctx := context.Background()

	assert.NoError(t, s.EnsureSchema(ctx))
	assert.NoError(t, s.RecordSearch(ctx, "go engineer", "Remote", 5))
	assert.NoError(t, s.RecordDocument(ctx, "resume", "abc", "/tmp/x.md"))

	records, err := s.RecentSearches(ctx, 10)
	assert.NoError(t, err)
	assert.Nil(t, records)

	docs, err := s.DocumentsForJob(ctx, "abc")
	assert.NoError(t, err)
	assert.Nil(t, docs)

	s.Close()
}

func TestConnectRejectsBadURL(t *testing.T) {
	_, err := Connect(context.Background(), "not-a-url")
	require.Error(t, err)
}
