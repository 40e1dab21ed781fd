// Package seed fills an empty record store with sample entries.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/narvanalabs/logbook/internal/store"
)

// sampleOwners is the number of distinct "User k" owners.
const sampleOwners = 5

// SampleLogs creates n sample records, oldest first, so entry n heads the
// newest-first listing. A store that already holds records is left alone.
// It returns the number of records created.
func SampleLogs(ctx context.Context, st store.LogStore, n int, logger *slog.Logger) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	existing, err := st.List(ctx, 1, 1)
	if err != nil {
		return 0, fmt.Errorf("checking store before seeding: %w", err)
	}
	if existing.Total > 0 {
		logger.Info("store already populated, skipping seed", "total", existing.Total)
		return 0, nil
	}

	for i := 1; i <= n; i++ {
		owner := fmt.Sprintf("User %d", rand.IntN(sampleOwners)+1)
		text := fmt.Sprintf("This is a sample log entry number %d. It contains some detailed information about an event that occurred.", i)
		if _, err := st.Create(ctx, owner, text); err != nil {
			return i - 1, fmt.Errorf("creating sample log %d: %w", i, err)
		}
	}

	logger.Info("seeded sample logs", "count", n)
	return n, nil
}
