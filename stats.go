package objcache

// Stats is a point-in-time snapshot of backend statistics, surfaced for an
// external metrics sink or for operational dashboards.
type Stats struct {
	Hits          int64
	Misses        int64
	Evictions     int64
	EntryCount    int
	WeightBytes   int64
	CapacityBytes int64
}
