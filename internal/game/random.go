package game

import (
	"crypto/rand"
	"math/big"
)

// Rand picks reveal candidates. *math/rand.Rand satisfies it, which lets
// tests seed a deterministic sequence.
type Rand interface {
	Intn(n int) int
}

// cryptoRand draws from crypto/rand, the same source the answer picker uses.
type cryptoRand struct{}

func (cryptoRand) Intn(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// pick removes and returns a uniformly chosen element of candidates.
func pick(rng Rand, candidates []int) (int, []int) {
	i := rng.Intn(len(candidates))
	if i < 0 || i >= len(candidates) {
		i = 0
	}
	v := candidates[i]
	candidates[i] = candidates[len(candidates)-1]
	return v, candidates[:len(candidates)-1]
}
