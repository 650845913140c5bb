package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestYesterday(t *testing.T) {
	got, err := time.ParseInLocation(time.DateOnly, Yesterday(), Location)
	require.NoError(t, err)

	today := Now()
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, Location)
	require.Equal(t, midnight.AddDate(0, 0, -1), got)
}
