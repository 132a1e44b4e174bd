package puzzle

// Seeded pseudo-random generator shared by both clients of a match.
// The whole multiplayer design rests on this: the seed string is the only
// board state that ever travels over the network, so the generator must be
// bit-exact across independent instances. Do NOT touch the mixing constants.

// Rand is a deterministic 32-bit generator derived from a string seed.
// Two Rand values built from the same seed produce identical sequences.
type Rand struct {
	state uint32
}

// NewRand hashes the seed into the initial generator state
// (h = 31*h + char, wrapped to 32 bits).
func NewRand(seed string) *Rand {
	var h uint32
	for _, c := range seed {
		h = 31*h + uint32(c)
	}
	return &Rand{state: h}
}

// Float64 advances the generator one step and returns a float in [0,1).
// xorshift-multiply mix, twice, over the 32-bit state.
func (r *Rand) Float64() float64 {
	h := r.state
	h = (h ^ (h >> 15)) * (h | 1)
	h ^= h + (h^(h>>7))*(h|61)
	r.state = h
	return float64(h^(h>>14)) / 4294967296.0
}

// Intn returns a deterministic integer in [0,n).
func (r *Rand) Intn(n int) int {
	return int(r.Float64() * float64(n))
}
