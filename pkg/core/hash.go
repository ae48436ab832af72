package core

// Mix64 derives a decorrelated seed for stream salt from a base seed using a
// SplitMix64 finalizer. It is stable across versions and platforms.
func Mix64(seed int64, salt int) int64 {
	v := uint64(seed) + uint64(salt)*0x9E3779B97F4A7C15
	v ^= v >> 30
	v *= 0xBF58476D1CE4E5B9
	v ^= v >> 27
	v *= 0x94D049BB133111EB
	v ^= v >> 31
	return int64(v)
}

// Hash2 returns a stable 32-bit hash of an integer coordinate pair.
func Hash2(seed uint32, x, y int32) uint32 {
	h := seed
	h ^= uint32(x) * 0x9e3779b1
	h ^= uint32(y) * 0x85ebca6b
	h ^= h >> 16
	h *= 0x7feb352d
	h ^= h >> 15
	h *= 0x846ca68b
	h ^= h >> 16
	return h
}
