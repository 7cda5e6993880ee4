package objcache

// negativeSentinel is the fixed byte string that stands in for a negative
// ("not found") entry's value when weighing it. The entry itself is marked
// by cacheValue.negative, not by these bytes, so no encoded payload can be
// mistaken for it. It never escapes this package: Get and GetReference
// report a negative entry through the Negative field of their result types.
var negativeSentinel = []byte("\x00\x00objcache:negative-entry\x00\x00")
