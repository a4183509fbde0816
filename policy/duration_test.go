package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in      string
		seconds int64
	}{
		{"30m", 30 * Minute},
		{"2h", 2 * Hour},
		{"1d", Day},
		{"2w", 2 * Week},
		{"6mo", 6 * Month},
		{" 12H ", 12 * Hour},
	}
	for _, c := range cases {
		seconds, indefinite, err := ParseDuration(c.in)
		require.NoError(t, err, c.in)
		assert.False(t, indefinite, c.in)
		assert.Equal(t, c.seconds, seconds, c.in)
	}
}

func TestParseDurationIndefinite(t *testing.T) {
	seconds, indefinite, err := ParseDuration("indefinite")
	require.NoError(t, err)
	assert.True(t, indefinite)
	assert.Zero(t, seconds)

	_, indefinite, err = ParseDuration("Indefinite")
	require.NoError(t, err)
	assert.True(t, indefinite)
}

func TestParseDurationRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "2", "h", "2 h", "2hours", "-2h", "2mo3d", "2s", "forever"} {
		_, _, err := ParseDuration(in)
		assert.Error(t, err, in)
	}
}

func TestFormatDurationPicksLargestUnit(t *testing.T) {
	cases := []struct {
		seconds int64
		want    string
	}{
		{30, "30s"},
		{90, "1m"},
		{3600, "1h"},
		{90000, "1d"},
		{Week, "1w"},
		{Month, "1mo"},
		{13 * Month, "13mo"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatDuration(c.seconds))
	}
}

func TestShiftReleaseClampsToNow(t *testing.T) {
	now := int64(1_700_000_000)
	release := now + Hour

	assert.Equal(t, release+2*Hour, ShiftRelease(release, 2*Hour, now))
	assert.Equal(t, now+30*Minute, ShiftRelease(release, -30*Minute, now))
	// Reducing past the present releases now rather than backdating.
	assert.Equal(t, now, ShiftRelease(release, -Day, now))
}

// Tokens that FormatDuration emits must parse back to the same number of
// seconds, otherwise an automatically computed duration could not be stored
// and re-armed faithfully.
func TestFormatOutputReparses(t *testing.T) {
	for _, seconds := range []int64{3600, 90000, 700000, 3000000, 90 * Minute, 4 * Day, 7 * Month} {
		token := FormatDuration(seconds)
		parsed, indefinite, err := ParseDuration(token)
		require.NoError(t, err, token)
		require.False(t, indefinite)
		// Re-formatting the parsed value must be a fixpoint.
		assert.Equal(t, token, FormatDuration(parsed))
	}
}
