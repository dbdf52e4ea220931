package brackets

import (
	"math/bits"
	"strconv"
)

// Rounds are the round labels shown on a printed bracket, the last one being the final.
var Rounds = []string{"1", "2", "3", "4", "FIM"}

// NumRounds is ceil(log2(n)) for n >= 1.
func NumRounds(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

// PaddedSize is the next power of two >= n.
func PaddedSize(n int) int {
	return 1 << NumRounds(n)
}

// GenerateTournamentOrder returns the seeded slot order for a bracket of the
// given power-of-two size: the order for n is the order for n/2 with every
// entry x followed by x+n/2. Seeds that are close in the order end up in
// opposite halves and meet as late as possible.
func GenerateTournamentOrder(size int) []int {
	if size <= 1 {
		return []int{1}
	}

	half := size / 2
	halfOrder := GenerateTournamentOrder(half)
	order := make([]int, 0, size)
	for _, seed := range halfOrder {
		order = append(order, seed, seed+half)
	}
	return order
}

// RoundsBySize returns the round labels of a bracket holding n players. There
// is always at least one round. Brackets deeper than the label list get
// numbered rounds followed by the final label.
func RoundsBySize(n int) []string {
	numRounds := max(NumRounds(n), 1)
	if numRounds <= len(Rounds) {
		return append([]string(nil), Rounds[:numRounds]...)
	}

	labels := make([]string, 0, numRounds)
	for i := 1; i < numRounds; i++ {
		labels = append(labels, strconv.Itoa(i))
	}
	return append(labels, Rounds[len(Rounds)-1])
}
