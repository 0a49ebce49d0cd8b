// ABOUTME: Electrode labels and channel selection for the 16-channel montage
// ABOUTME: Index-aligned with Samples
package irecorder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Labels16 names each channel of the 16-channel cap (10-20 system)
var Labels16 = [Channels]string{
	"Fp1", "Fp2", "F3", "Fz",
	"F4", "T7", "C3", "Cz",
	"C4", "T8", "P3", "Pz",
	"P4", "O1", "Oz", "O2",
}

var ErrUnknownChannel = errors.New("unknown channel")

// AllChannels returns the indices 0..Channels-1
func AllChannels() []int {
	idx := make([]int, Channels)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

// ParseChannels resolves a comma-separated list of labels or indices,
// e.g. "Fp1,Cz,15". Labels match case-insensitively. An empty list
// selects every channel.
func ParseChannels(list string) ([]int, error) {
	if strings.TrimSpace(list) == "" {
		return AllChannels(), nil
	}

	var idx []int
	seen := make(map[int]bool)
	for _, field := range strings.Split(list, ",") {
		name := strings.TrimSpace(field)
		ch := -1
		if n, err := strconv.Atoi(name); err == nil && n >= 0 && n < Channels {
			ch = n
		} else {
			for i, l := range Labels16 {
				if strings.EqualFold(l, name) {
					ch = i
					break
				}
			}
		}
		if ch < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownChannel, name)
		}
		if !seen[ch] {
			seen[ch] = true
			idx = append(idx, ch)
		}
	}
	return idx, nil
}

// Select returns the samples at idx, in idx order
func (s Samples) Select(idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, ch := range idx {
		out[i] = s[ch]
	}
	return out
}

// Labeled maps samples to their electrode labels. With no idx every
// channel is included.
func (s Samples) Labeled(idx ...int) map[string]float64 {
	if len(idx) == 0 {
		idx = AllChannels()
	}
	out := make(map[string]float64, len(idx))
	for _, ch := range idx {
		out[Labels16[ch]] = s[ch]
	}
	return out
}
