// ABOUTME: Framed iRecorder packet parsing
// ABOUTME: Validates header and checksum and extracts trigger, battery and sequence
package irecorder

import (
	"errors"
	"fmt"
)

// Packet layout: header(2) | payload(48) | checksum | trigger | battery | seq
const (
	headerSize    = 2
	checksumIndex = headerSize + PayloadSize
	triggerIndex  = checksumIndex + 1
	batteryIndex  = checksumIndex + 2
	seqIndex      = checksumIndex + 3

	// PacketSize is the length of one framed packet
	PacketSize = seqIndex + 1
)

// Header marks the start of every packet
var Header = [headerSize]byte{0xBB, 0xAA}

var (
	ErrBadHeader = errors.New("bad packet header")
	ErrChecksum  = errors.New("checksum mismatch")
)

// Packet is one decoded acquisition frame
type Packet struct {
	Samples Samples
	Trigger uint8
	Battery uint8
	Seq     uint8
}

// checksum is the inverted low byte of the payload sum
func checksum(payload []byte) byte {
	var sum byte
	for _, b := range payload {
		sum += b
	}
	return ^sum
}

// ParsePacket validates and decodes exactly one framed packet
func ParsePacket(pkt []byte) (Packet, error) {
	if len(pkt) != PacketSize {
		return Packet{}, fmt.Errorf("%w: got %d bytes, need %d", ErrInvalidLength, len(pkt), PacketSize)
	}
	if pkt[0] != Header[0] || pkt[1] != Header[1] {
		return Packet{}, fmt.Errorf("%w: % x", ErrBadHeader, pkt[:headerSize])
	}

	payload := pkt[headerSize:checksumIndex]
	if want := checksum(payload); pkt[checksumIndex] != want {
		return Packet{}, fmt.Errorf("%w: got 0x%02x, expected 0x%02x", ErrChecksum, pkt[checksumIndex], want)
	}

	samples, err := Decode(payload)
	if err != nil {
		return Packet{}, err
	}

	return Packet{
		Samples: samples,
		Trigger: pkt[triggerIndex],
		Battery: pkt[batteryIndex],
		Seq:     pkt[seqIndex],
	}, nil
}

// Marshal builds the wire form of p with a valid checksum
func (p Packet) Marshal() [PacketSize]byte {
	var out [PacketSize]byte
	copy(out[:], Header[:])
	payload := Encode(p.Samples)
	copy(out[headerSize:], payload[:])
	out[checksumIndex] = checksum(payload[:])
	out[triggerIndex] = p.Trigger
	out[batteryIndex] = p.Battery
	out[seqIndex] = p.Seq
	return out
}

// SeqGap returns how many packets were lost between last and cur.
// Sequence numbers wrap at 256. A repeated sequence number is a
// duplicate, not a loss, and reports 0.
func SeqGap(last, cur uint8) int {
	if cur == last {
		return 0
	}
	return int(cur - last - 1)
}
