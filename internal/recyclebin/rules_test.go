package recyclebin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetentionBoundary(t *testing.T) {
	deletedAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		now         time.Time
		wantRestore bool
	}{
		{
			name:        "just deleted",
			now:         deletedAt.Add(time.Minute),
			wantRestore: true,
		},
		{
			name:        "six days twenty three hours",
			now:         deletedAt.Add(6*24*time.Hour + 23*time.Hour + 59*time.Minute + 59*time.Second),
			wantRestore: true,
		},
		{
			name:        "exactly seven days",
			now:         deletedAt.Add(7 * 24 * time.Hour),
			wantRestore: true,
		},
		{
			name:        "one second past seven days",
			now:         deletedAt.Add(7*24*time.Hour + time.Second),
			wantRestore: false,
		},
		{
			name:        "far past retention",
			now:         deletedAt.AddDate(0, 1, 0),
			wantRestore: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantRestore, EligibleForRestore(deletedAt, tt.now))
			// Очистка всегда строгое дополнение восстановления.
			assert.Equal(t, !tt.wantRestore, EligibleForPurge(deletedAt, tt.now))
		})
	}
}
