// ABOUTME: Electrode impedance estimation
// ABOUTME: Measures the injected test tone in a window of decoded frames
package irecorder

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

const (
	// frames with |x| above this are treated as saturated
	impedanceThreshold = 4000000 * Ratio

	// test tone lies in DFT bins [62, 66]
	toneBinLow  = 62
	toneBinHigh = 66

	impedanceOffset = 5000
)

// ErrSampleRate is returned for sample rates without a usable impedance window
var ErrSampleRate = errors.New("unsupported sample rate")

// ImpedanceWindow returns how many frames one impedance estimate needs at fs Hz
func ImpedanceWindow(fs int) int {
	return 512 * 2 * fs / 500
}

// CheckImpedanceRate reports whether fs gives a window long enough to
// resolve the test tone
func CheckImpedanceRate(fs int) error {
	if fs <= 0 || ImpedanceWindow(fs) <= toneBinHigh {
		return fmt.Errorf("%w: %d Hz", ErrSampleRate, fs)
	}
	return nil
}

// Impedance estimates per-channel electrode impedance from the first
// ImpedanceWindow(fs) frames. Channels that are saturated in more than
// 80% of the window report +Inf.
func Impedance(frames []Samples, fs int) ([Channels]float64, error) {
	var out [Channels]float64

	if err := CheckImpedanceRate(fs); err != nil {
		return out, err
	}
	n := ImpedanceWindow(fs)
	if len(frames) < n {
		return out, fmt.Errorf("%w: got %d frames, need %d", ErrInvalidLength, len(frames), n)
	}
	frames = frames[:n]

	factor := 1000.0 / 6 / (float64(n) / 2) * math.Pi / 4
	for ch := range out {
		inRange := 0
		for _, f := range frames {
			if math.Abs(f[ch]) <= impedanceThreshold {
				inRange++
			}
		}
		if float64(inRange)/float64(n) <= 0.2 {
			out[ch] = math.Inf(1)
			continue
		}

		var peak float64
		for k := toneBinLow; k <= toneBinHigh; k++ {
			peak = math.Max(peak, cmplx.Abs(dftBin(frames, ch, k)))
		}
		out[ch] = math.Trunc(math.Abs(peak*factor - impedanceOffset))
	}
	return out, nil
}

// dftBin computes bin k of the DFT of one channel
func dftBin(frames []Samples, ch, k int) complex128 {
	n := len(frames)
	var sum complex128
	for t, f := range frames {
		s, c := math.Sincos(-2 * math.Pi * float64(k*t%n) / float64(n))
		sum += complex(f[ch]*c, f[ch]*s)
	}
	return sum
}
