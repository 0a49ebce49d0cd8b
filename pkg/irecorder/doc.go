// ABOUTME: iRecorder sample decoding package
// ABOUTME: Converts packed 24-bit acquisition payloads to calibrated float64 samples
// Package irecorder decodes data packets produced by 16-channel iRecorder
// acquisition hardware.
//
// Each packet carries 16 big-endian, two's-complement 24-bit samples. Decode
// sign-extends every sample and scales it by Ratio:
//
//	samples, err := irecorder.Decode(payload)
//	if errors.Is(err, irecorder.ErrInvalidLength) {
//	    // payload shorter than PayloadSize
//	}
//
// ParsePacket handles a complete framed packet including header, checksum,
// trigger, battery and sequence bytes. Impedance estimates electrode
// impedance from a window of decoded frames.
package irecorder
