package puzzle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandDeterminism(t *testing.T) {
	a := NewRand("abc")
	b := NewRand("abc")

	for i := 0; i < 1000; i++ {
		assert.Equal(t, a.Float64(), b.Float64(), "sequences diverged at step %d", i)
	}
}

func TestRandRange(t *testing.T) {
	r := NewRand("range-check")
	for i := 0; i < 10000; i++ {
		v := r.Float64()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestRandSeedsDiffer(t *testing.T) {
	a := NewRand("seed-one")
	b := NewRand("seed-two")

	same := true
	for i := 0; i < 20; i++ {
		if a.Float64() != b.Float64() {
			same = false
			break
		}
	}
	assert.False(t, same, "different seeds produced identical sequences")
}

func TestRandIntnBounds(t *testing.T) {
	r := NewRand("intn")
	for i := 0; i < 5000; i++ {
		v := r.Intn(11)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 11)
	}
}
