package core

import "math/rand"

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// Sampler is the per-worker random source. A single *rand.Rand instance is
// owned by exactly one goroutine at a time, so no synchronization is needed.
type Sampler = *rand.Rand
