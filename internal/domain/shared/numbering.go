package shared

import (
	"fmt"
	"time"
)

// DocumentNumber formats business document numbers as PREFIX-YYYYMMDD-NNNN
func DocumentNumber(prefix string, at time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, at.Format("20060102"), seq)
}

// DocumentNumberDatePrefix returns the PREFIX-YYYYMMDD- part used to count today's documents
func DocumentNumberDatePrefix(prefix string, at time.Time) string {
	return fmt.Sprintf("%s-%s-", prefix, at.Format("20060102"))
}
