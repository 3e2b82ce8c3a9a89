package core

import "time"

// RuntimeConfig contains process-level settings handed to the simulation
// and its adapters at startup.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (0 = configured rate)
	Seed     int64 // RNG seed for deterministic gameplay
}

// ResolveSeed returns the configured seed, or a fresh one derived from the
// monotonic clock when the seed is zero.
func (c RuntimeConfig) ResolveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
