// ABOUTME: Tests for 24-bit sample decoding
// ABOUTME: Covers sign extension, range limits, ordering and length checks
package irecorder

import (
	"errors"
	"math"
	"sync"
	"testing"
)

func payloadOf(triplet [3]byte) []byte {
	data := make([]byte, PayloadSize)
	for i := 0; i < Channels; i++ {
		copy(data[i*BytesPerSample:], triplet[:])
	}
	return data
}

func TestSampleFrom24BitBE(t *testing.T) {
	tests := []struct {
		name     string
		input    [3]byte
		expected int32
	}{
		{"zero", [3]byte{0, 0, 0}, 0},
		{"positive", [3]byte{0x12, 0x34, 0x56}, 0x123456},
		{"negative", [3]byte{0xFF, 0xFF, 0x00}, -256},
		{"all ones", [3]byte{0xFF, 0xFF, 0xFF}, -1},
		{"max positive", [3]byte{0x7F, 0xFF, 0xFF}, Max24Bit},
		{"max negative", [3]byte{0x80, 0x00, 0x00}, Min24Bit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := SampleFrom24BitBE(tt.input)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestDecodeBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		triplet  [3]byte
		expected float64
	}{
		{"zero", [3]byte{0x00, 0x00, 0x00}, 0},
		{"max positive", [3]byte{0x7F, 0xFF, 0xFF}, 8388607 * Ratio},
		{"sign bit only", [3]byte{0x80, 0x00, 0x00}, -8388608 * Ratio},
		{"minus one", [3]byte{0xFF, 0xFF, 0xFF}, -Ratio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Decode(payloadOf(tt.triplet))
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			for i, v := range out {
				if math.Abs(v-tt.expected) > 1e-9 {
					t.Errorf("channel %d: expected %v, got %v", i, tt.expected, v)
				}
			}
		})
	}
}

func TestDecodeKnownValues(t *testing.T) {
	out, err := Decode(append(payloadOf([3]byte{0x7F, 0xFF, 0xFF})[:24], payloadOf([3]byte{0x80, 0x00, 0x00})[:24]...))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if math.Abs(out[0]-187499.9626) > 0.001 {
		t.Errorf("expected max to be ~187499.9626, got %v", out[0])
	}
	if math.Abs(out[Channels-1]+187499.9850) > 0.001 {
		t.Errorf("expected min to be ~-187499.9850, got %v", out[Channels-1])
	}
}

func TestDecodeOrder(t *testing.T) {
	data := make([]byte, PayloadSize)
	for i := 0; i < Channels; i++ {
		// channel i carries count i-8 so both signs appear
		b := SampleTo24BitBE(int32(i - 8))
		copy(data[i*BytesPerSample:], b[:])
	}

	out, err := Decode(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(out) != Channels {
		t.Fatalf("expected %d samples, got %d", Channels, len(out))
	}
	for i, v := range out {
		expected := float64(i-8) * Ratio
		if v != expected {
			t.Errorf("channel %d: expected %v, got %v", i, expected, v)
		}
	}
}

func TestDecodePermutation(t *testing.T) {
	data := make([]byte, PayloadSize)
	for i := range data {
		data[i] = byte(i*37 + 11)
	}
	original, err := Decode(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	// reverse the triplets
	reversed := make([]byte, PayloadSize)
	for i := 0; i < Channels; i++ {
		src := data[i*BytesPerSample : (i+1)*BytesPerSample]
		copy(reversed[(Channels-1-i)*BytesPerSample:], src)
	}
	permuted, err := Decode(reversed)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	for i := range original {
		if permuted[Channels-1-i] != original[i] {
			t.Errorf("channel %d: expected %v, got %v", i, original[i], permuted[Channels-1-i])
		}
	}
}

func TestDecodeTrailingBytesIgnored(t *testing.T) {
	data := append(payloadOf([3]byte{0x00, 0x00, 0x01}), 0xDE, 0xAD, 0xBE, 0xEF)

	out, err := Decode(data)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	for i, v := range out {
		if v != Ratio {
			t.Errorf("channel %d: expected %v, got %v", i, Ratio, v)
		}
	}
}

func TestDecodeInvalidLength(t *testing.T) {
	for _, n := range []int{0, 1, 3, PayloadSize - 1} {
		_, err := Decode(make([]byte, n))
		if err == nil {
			t.Fatalf("expected error for %d bytes, got nil", n)
		}
		if !errors.Is(err, ErrInvalidLength) {
			t.Errorf("expected ErrInvalidLength for %d bytes, got %v", n, err)
		}
	}

	if _, err := Decode(nil); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("expected ErrInvalidLength for nil input, got %v", err)
	}
}

func TestDecodeDoesNotModifyInput(t *testing.T) {
	data := payloadOf([3]byte{0x80, 0x00, 0x01})
	before := append([]byte(nil), data...)

	if _, err := Decode(data); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	for i := range data {
		if data[i] != before[i] {
			t.Fatalf("input modified at byte %d", i)
		}
	}
}

func TestDecodeConcurrent(t *testing.T) {
	t.Parallel()

	const workers = 8
	buffers := make([][]byte, workers)
	expected := make([]Samples, workers)
	for w := range buffers {
		buffers[w] = make([]byte, PayloadSize)
		for i := range buffers[w] {
			buffers[w][i] = byte(w*31 + i*7)
		}
		var err error
		expected[w], err = Decode(buffers[w])
		if err != nil {
			t.Fatalf("decode failed: %v", err)
		}
	}

	var wg sync.WaitGroup
	results := make([]Samples, workers)
	errs := make([]error, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for n := 0; n < 100; n++ {
				results[w], errs[w] = Decode(buffers[w])
				if errs[w] != nil {
					return
				}
			}
		}(w)
	}
	wg.Wait()

	for w := range results {
		if errs[w] != nil {
			t.Fatalf("worker %d: decode failed: %v", w, errs[w])
		}
		if results[w] != expected[w] {
			t.Errorf("worker %d: expected %v, got %v", w, expected[w], results[w])
		}
	}
}
