package util

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"sort"
)

var ErrInvalidWeights = errors.New("invalid partition weights")

// ValidateWeights checks that weights can be used to split records: at
// least one partition, every weight finite and non-negative, and a
// positive total. It does not require the total to be 1.
func ValidateWeights(weights map[string]float64) error {
	if len(weights) == 0 {
		return fmt.Errorf("%w: no partitions", ErrInvalidWeights)
	}
	for name, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidWeights, name)
		}
		if w < 0 {
			return fmt.Errorf("%w: %s is negative (%v)", ErrInvalidWeights, name, w)
		}
	}
	if SumWeights(weights) <= 0 {
		return fmt.Errorf("%w: weights sum to zero", ErrInvalidWeights)
	}
	return nil
}

func SumWeights(weights map[string]float64) float64 {
	var sum float64
	for _, w := range weights {
		sum += w
	}
	return sum
}

// NormalizeWeights returns a copy of weights scaled to sum to 1.
func NormalizeWeights(weights map[string]float64) (map[string]float64, error) {
	if err := ValidateWeights(weights); err != nil {
		return nil, err
	}
	sum := SumWeights(weights)
	out := make(map[string]float64, len(weights))
	for name, w := range weights {
		out[name] = w / sum
	}
	return out, nil
}

// PickPartition assigns key to a partition with probability proportional
// to its weight. The same key and weights always give the same partition.
func PickPartition(key string, weights map[string]float64) (string, error) {
	if err := ValidateWeights(weights); err != nil {
		return "", err
	}
	names := make([]string, 0, len(weights))
	for name, w := range weights {
		if w > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	h := fnv.New64a()
	h.Write([]byte(key))
	point := float64(mix64(h.Sum64())>>11) / (1 << 53) * SumWeights(weights)

	var acc float64
	for _, name := range names {
		acc += weights[name]
		if point < acc {
			return name, nil
		}
	}
	return names[len(names)-1], nil
}

// mix64 spreads FNV's output so that keys differing only in their last
// bytes do not cluster in the high bits.
func mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}
