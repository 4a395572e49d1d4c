package game

// Rand is the uniform random source the engine draws from.
// *math/rand.Rand satisfies it; tests inject a seeded instance to get
// reproducible sequences.
type Rand interface {
	Intn(n int) int
}

// randInt returns a uniform integer in [min, max].
func randInt(rng Rand, min, max int) int {
	return rng.Intn(max-min+1) + min
}
