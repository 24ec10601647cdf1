package utils

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// NewTransactionID generates a transaction identifier from the current time
// plus a random suffix. Uniqueness is best-effort, not guaranteed.
func NewTransactionID() string {
	return fmt.Sprintf("TXN-%d-%04d", time.Now().UnixMilli(), rand.IntN(10000))
}
