package utils

import (
	"math"
	"unicode/utf16"
)

// RandomGen is a small deterministic generator (cyrb128 seeding + sfc32).
// The same seed string always yields the same sequence. It is not safe for
// concurrent use and is not meant for anything security related.
type RandomGen struct {
	a, b, c, d uint32
}

func NewRandomGen(seed string) *RandomGen {
	h := cyrb128(seed)
	return &RandomGen{a: h[0], b: h[1], c: h[2], d: h[3]}
}

// Float64 returns the next value in [0,1).
func (r *RandomGen) Float64() float64 {
	t := r.a + r.b + r.d
	r.d++
	r.a = r.b ^ (r.b >> 9)
	r.b = r.c + (r.c << 3)
	r.c = (r.c << 21) | (r.c >> 11)
	r.c += t
	return float64(t) / 4294967296
}

// Intn returns a value in [0,n).
func (r *RandomGen) Intn(n int) int {
	return int(math.Floor(r.Float64() * float64(n)))
}

func cyrb128(s string) [4]uint32 {
	var h1, h2, h3, h4 uint32 = 1779033703, 3144134277, 1013904242, 2773480762
	for _, unit := range utf16.Encode([]rune(s)) {
		k := uint32(unit)
		h1 = h2 ^ ((h1 ^ k) * 597399067)
		h2 = h3 ^ ((h2 ^ k) * 2869860233)
		h3 = h4 ^ ((h3 ^ k) * 951274213)
		h4 = h1 ^ ((h4 ^ k) * 2716044179)
	}
	h1 = (h3 ^ (h1 >> 18)) * 597399067
	h2 = (h4 ^ (h2 >> 22)) * 2869860233
	h3 = (h1 ^ (h3 >> 17)) * 951274213
	h4 = (h2 ^ (h4 >> 19)) * 2716044179
	h1 ^= h2 ^ h3 ^ h4
	h2 ^= h1
	h3 ^= h1
	h4 ^= h1
	return [4]uint32{h1, h2, h3, h4}
}

// PickRandom returns a uniformly chosen element. list must not be empty.
func PickRandom[T any](list []T, gen *RandomGen) T {
	return list[gen.Intn(len(list))]
}

// ShuffleSlice shuffles list in place (Fisher–Yates) and returns it.
func ShuffleSlice[T any](list []T, gen *RandomGen) []T {
	for i := len(list); i != 0; {
		j := gen.Intn(i)
		i--
		list[i], list[j] = list[j], list[i]
	}
	return list
}

// SplitEvenly deals list round-robin into n groups.
func SplitEvenly[T any](list []T, n int) [][]T {
	if n < 1 {
		n = 1
	}
	groups := make([][]T, n)
	for i, item := range list {
		groups[i%n] = append(groups[i%n], item)
	}
	return groups
}

// RandomizedGroupSort groups items by key, shuffles the group order and the
// order inside each group, then flattens. Groups are first collected in order
// of first appearance so the result only depends on the input and gen.
func RandomizedGroupSort[T any](items []T, key func(T) string, gen *RandomGen) []T {
	grouped := make(map[string][]T)
	keys := make([]string, 0)
	for _, item := range items {
		k := key(item)
		if _, ok := grouped[k]; !ok {
			keys = append(keys, k)
		}
		grouped[k] = append(grouped[k], item)
	}

	out := make([]T, 0, len(items))
	for _, k := range ShuffleSlice(keys, gen) {
		out = append(out, ShuffleSlice(grouped[k], gen)...)
	}
	return out
}
