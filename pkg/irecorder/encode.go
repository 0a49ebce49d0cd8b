// ABOUTME: Inverse of Decode
// ABOUTME: Packs calibrated samples back into 24-bit big-endian payloads
package irecorder

import "math"

// SampleTo24BitBE converts int32 to 24-bit packed bytes (big-endian)
func SampleTo24BitBE(count int32) [3]byte {
	// Take lower 24 bits, pack big-endian
	return [3]byte{
		byte(count >> 16),
		byte(count >> 8),
		byte(count),
	}
}

// Counts converts a calibrated value back to the nearest raw count,
// clamped to the 24-bit range
func Counts(v float64) int32 {
	if math.IsNaN(v) {
		return 0
	}
	c := math.Round(v / Ratio)
	if c > Max24Bit {
		return Max24Bit
	}
	if c < Min24Bit {
		return Min24Bit
	}
	return int32(c)
}

// Encode packs samples into a payload that Decode accepts
func Encode(s Samples) [PayloadSize]byte {
	var out [PayloadSize]byte
	for i, v := range s {
		b := SampleTo24BitBE(Counts(v))
		copy(out[i*BytesPerSample:], b[:])
	}
	return out
}
