package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestRecordAndCount(t *testing.T) {
	a := newTestArchive(t)

	require.NoError(t, a.RecordSanction("g", "u1", "mod1", ActionCanada, "4"))
	require.NoError(t, a.RecordSanction("g", "u2", "mod1", ActionWarn, ""))
	require.NoError(t, a.RecordSanction("g", "u3", "mod2", ActionCanada, "7"))
	require.NoError(t, a.RecordSanction("other", "u4", "mod9", ActionCanada, "1"))

	total, err := a.TotalCount("g")
	require.NoError(t, err)
	assert.Equal(t, 3, total, "counts are per guild")
}

func TestModeratorStatsOrderedByActivity(t *testing.T) {
	a := newTestArchive(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, a.RecordSanction("g", "u", "busy", ActionCanada, "4"))
	}
	require.NoError(t, a.RecordSanction("g", "u", "quiet", ActionWarn, ""))

	stats, err := a.ModeratorStats("g", time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, "busy", stats[0].ModeratorID)
	assert.Equal(t, 3, stats[0].Count)
	assert.Equal(t, "quiet", stats[1].ModeratorID)
}

func TestActionCountsRespectWindow(t *testing.T) {
	a := newTestArchive(t)

	require.NoError(t, a.RecordSanction("g", "u", "mod", ActionTempBan, "8"))

	counts, err := a.ActionCounts("g", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 1, counts[ActionTempBan])

	counts, err = a.ActionCounts("g", time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, counts[ActionTempBan], "future window excludes everything")
}
