package dbmetrics

import (
	"database/sql"
	"time"
)

// PoolStatsRecorder принимает снимок состояния пула соединений
type PoolStatsRecorder interface {
	SetPoolStats(open, inUse int, waitCount int64)
}

// DefaultPoolInterval период опроса sql.DBStats
const DefaultPoolInterval = 15 * time.Second

// StartPoolCollector периодически публикует sql.DBStats, пока не закрыт stop
func StartPoolCollector(db *sql.DB, recorder PoolStatsRecorder, interval time.Duration, stop <-chan struct{}) {
	if interval <= 0 {
		interval = DefaultPoolInterval
	}

	record := func() {
		stats := db.Stats()
		recorder.SetPoolStats(stats.OpenConnections, stats.InUse, stats.WaitCount)
	}
	record()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				record()
			}
		}
	}()
}
