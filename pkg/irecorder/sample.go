// ABOUTME: 24-bit big-endian sample decoding
// ABOUTME: Sign-extends packed samples and applies the calibration ratio
package irecorder

import (
	"errors"
	"fmt"
)

const (
	// Channels is the number of samples in one payload
	Channels = 16

	// BytesPerSample is the packed width of one sample
	BytesPerSample = 3

	// PayloadSize is the number of bytes Decode consumes
	PayloadSize = Channels * BytesPerSample

	// Ratio converts raw ADC counts to the device's physical unit.
	// The unit is not documented by the hardware vendor (likely microvolts).
	Ratio = 0.02235174

	// 24-bit range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23
)

// ErrInvalidLength is returned when a buffer is too short to decode
var ErrInvalidLength = errors.New("invalid length")

// Samples holds one calibrated value per channel, in payload order
type Samples [Channels]float64

// SampleFrom24BitBE converts 24-bit packed bytes to int32 (big-endian)
func SampleFrom24BitBE(b [3]byte) int32 {
	val := uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	if val&0x00800000 != 0 {
		val |= 0xFF000000
	} else {
		val &= 0x00FFFFFF
	}
	return int32(val)
}

// Decode converts a 48-byte payload into 16 calibrated samples.
// Bytes beyond PayloadSize are ignored.
func Decode(data []byte) (Samples, error) {
	var out Samples
	if len(data) < PayloadSize {
		return out, fmt.Errorf("%w: got %d bytes, need %d", ErrInvalidLength, len(data), PayloadSize)
	}

	for i := range out {
		head := i * BytesPerSample
		raw := SampleFrom24BitBE([3]byte{data[head], data[head+1], data[head+2]})
		out[i] = float64(raw) * Ratio
	}
	return out, nil
}
