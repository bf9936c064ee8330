package glulx

import (
	"math/rand"
	"time"
)

// randFromTime reseeds from the wall clock, matching spec.md's "random 0"
// request for a fresh, unpredictable sequence.
func randFromTime() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func randFromSeed(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
