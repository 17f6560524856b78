package checkout

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const receiptAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewReceiptNumber generates the human-facing receipt token:
// RCP-<unix millis>-<9 random base36 chars, uppercased>.
//
// Uniqueness is probabilistic. Collisions are not detected or retried, and
// existing receipts depend on this exact shape, so don't change it.
func NewReceiptNumber() string {
	var suffix [9]byte
	for i := range suffix {
		suffix[i] = receiptAlphabet[rand.IntN(len(receiptAlphabet))]
	}
	return fmt.Sprintf("RCP-%d-%s", time.Now().UnixMilli(), suffix[:])
}
