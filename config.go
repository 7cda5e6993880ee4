package objcache

import (
	"fmt"
	"time"

	"github.com/devmesh-labs/objcache/observability"
)

// Config enumerates the cache's external configuration options (spec §6).
type Config struct {
	// CapacityMb is the total byte budget, in mebibytes, for the weighted
	// store. Must be positive.
	CapacityMb int64

	// ReferenceTtl is the TTL applied to positive reference entries. Zero
	// or negative disables the entire positive reference cache: reads
	// always miss, writes are no-ops.
	ReferenceTtl time.Duration

	// ReferenceNegativeTtl is the TTL applied to negative reference
	// entries. Zero or negative disables negative reference caching.
	ReferenceNegativeTtl time.Duration

	// ClockNanos is the monotonic clock the cache uses for every expiry
	// computation. Defaults to time.Now().UnixNano when nil; tests should
	// supply a fake clock they can advance deterministically.
	ClockNanos func() int64

	// Meter, when non-nil, receives hit/miss/eviction counters and a
	// capacity gauge. Defaults to a no-op sink.
	Meter observability.MetricsClient

	// Logger defaults to a no-op logger.
	Logger observability.Logger

	// Invalidator is the peer-invalidation transport. Defaults to
	// NoopInvalidator.
	Invalidator Invalidator

	// JanitorInterval controls how often the background sweep reclaims
	// expired entries proactively, independent of lazy expiration on Get.
	// Zero defaults to 30s; a negative value disables the janitor entirely.
	JanitorInterval time.Duration
}

// Validate checks the options that have a genuine correctness constraint.
func (c *Config) Validate() error {
	if c.CapacityMb <= 0 {
		return fmt.Errorf("objcache: capacityMb must be positive, got %d", c.CapacityMb)
	}
	return nil
}

// withDefaults returns a copy of c with every optional collaborator filled
// in, so the rest of the package never has to nil-check them.
func (c *Config) withDefaults() *Config {
	cp := *c
	if cp.ClockNanos == nil {
		cp.ClockNanos = func() int64 { return time.Now().UnixNano() }
	}
	if cp.Meter == nil {
		cp.Meter = observability.NewNoopMetricsClient()
	}
	if cp.Logger == nil {
		cp.Logger = observability.NewNoopLogger()
	}
	if cp.Invalidator == nil {
		cp.Invalidator = NoopInvalidator{}
	}
	if cp.JanitorInterval == 0 {
		cp.JanitorInterval = 30 * time.Second
	}
	return &cp
}

func (c *Config) capacityBytes() int64 {
	return c.CapacityMb * 1024 * 1024
}
