// ABOUTME: Capture decoding for the irecorder-decode command
// ABOUTME: Finds packets in a capture by header and writes samples or impedance as text or JSON
package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/eConEXG/irecorder-go/pkg/irecorder"
	"github.com/rs/zerolog/log"
)

// Config controls how a capture is read and written
type Config struct {
	Hex    bool
	Format string
	Labels bool

	// Channels selects output channels by index; nil means all
	Channels []int

	// Impedance replaces per-packet output with one impedance
	// estimate per ImpedanceWindow(SampleRate) packets
	Impedance  bool
	SampleRate int
}

// Stats summarizes one Run
type Stats struct {
	Decoded    int
	Dropped    int // packets rejected by ParsePacket or truncated
	Lost       int // packets missing according to sequence numbers
	Duplicates int // packets repeating the previous sequence number
	Skipped    int // bytes outside any packet
	Estimates  int // impedance estimates written
}

type record struct {
	Seq      uint8              `json:"seq"`
	Trigger  uint8              `json:"trigger"`
	Battery  uint8              `json:"battery"`
	Samples  []float64          `json:"samples,omitempty"`
	Channels map[string]float64 `json:"channels,omitempty"`
}

// impedanceRecord uses null for channels without a reading
type impedanceRecord struct {
	Impedance []*float64          `json:"impedance,omitempty"`
	Channels  map[string]*float64 `json:"channels,omitempty"`
}

// Run decodes every packet in r and writes one line per packet to w.
// Packets are located by their header, so bytes between packets are skipped.
func Run(cfg Config, r io.Reader, w io.Writer) (Stats, error) {
	var stats Stats

	if cfg.Impedance {
		if err := irecorder.CheckImpedanceRate(cfg.SampleRate); err != nil {
			return stats, err
		}
	}
	if cfg.Channels == nil {
		cfg.Channels = irecorder.AllChannels()
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return stats, fmt.Errorf("failed to read capture: %w", err)
	}
	if cfg.Hex {
		data, err = hex.DecodeString(strings.Join(strings.Fields(string(data)), ""))
		if err != nil {
			return stats, fmt.Errorf("invalid hex input: %w", err)
		}
	}

	enc := json.NewEncoder(w)
	var last uint8
	haveLast := false

	var window []irecorder.Samples
	if cfg.Impedance {
		window = make([]irecorder.Samples, 0, irecorder.ImpedanceWindow(cfg.SampleRate))
	}

	off := 0
	for off < len(data) {
		i := bytes.Index(data[off:], irecorder.Header[:])
		if i < 0 {
			log.Debug().Int("offset", off).Int("bytes", len(data)-off).Msg("Trailing bytes without header")
			stats.Skipped += len(data) - off
			break
		}
		if i > 0 {
			log.Debug().Int("offset", off).Int("bytes", i).Msg("Skipped bytes before header")
			stats.Skipped += i
		}

		start := off + i
		end := start + irecorder.PacketSize
		if end > len(data) {
			log.Warn().
				Int("offset", start).
				Int("bytes", len(data)-start).
				Msg("Truncated packet at end of capture")
			stats.Dropped++
			break
		}
		off = end

		pkt, err := irecorder.ParsePacket(data[start:end])
		if err != nil {
			log.Warn().Err(err).Int("offset", start).Msg("Packet dropped")
			stats.Dropped++
			continue
		}

		if haveLast {
			if pkt.Seq == last {
				log.Warn().Uint8("seq", pkt.Seq).Msg("Duplicate packet")
				stats.Duplicates++
			} else if gap := irecorder.SeqGap(last, pkt.Seq); gap > 0 {
				log.Warn().
					Uint8("last", last).
					Uint8("cur", pkt.Seq).
					Int("lost", gap).
					Msg("Sequence gap")
				stats.Lost += gap
			}
		}
		last, haveLast = pkt.Seq, true
		stats.Decoded++

		if !cfg.Impedance {
			if err := writePacket(cfg, enc, w, pkt); err != nil {
				return stats, err
			}
			continue
		}

		window = append(window, pkt.Samples)
		if len(window) < cap(window) {
			continue
		}
		imp, err := irecorder.Impedance(window, cfg.SampleRate)
		if err != nil {
			return stats, err
		}
		if err := writeImpedance(cfg, enc, w, imp); err != nil {
			return stats, err
		}
		stats.Estimates++
		window = window[:0]
	}

	if len(window) > 0 {
		log.Info().
			Int("frames", len(window)).
			Int("need", cap(window)).
			Msg("Not enough packets left for an impedance estimate")
	}
	log.Debug().Int("bytes", len(data)).Msg("Capture processed")
	return stats, nil
}

func writePacket(cfg Config, enc *json.Encoder, w io.Writer, pkt irecorder.Packet) error {
	if cfg.Format == "json" {
		rec := record{Seq: pkt.Seq, Trigger: pkt.Trigger, Battery: pkt.Battery}
		if cfg.Labels {
			rec.Channels = pkt.Samples.Labeled(cfg.Channels...)
		} else {
			rec.Samples = pkt.Samples.Select(cfg.Channels)
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to write packet %d: %w", pkt.Seq, err)
		}
		return nil
	}

	var line bytes.Buffer
	fmt.Fprintf(&line, "%d\t%d\t%d", pkt.Seq, pkt.Trigger, pkt.Battery)
	for _, v := range pkt.Samples.Select(cfg.Channels) {
		fmt.Fprintf(&line, "\t%.6f", v)
	}
	line.WriteByte('\n')
	if _, err := w.Write(line.Bytes()); err != nil {
		return fmt.Errorf("failed to write packet %d: %w", pkt.Seq, err)
	}
	return nil
}

func writeImpedance(cfg Config, enc *json.Encoder, w io.Writer, imp [irecorder.Channels]float64) error {
	if cfg.Format == "json" {
		var rec impedanceRecord
		if cfg.Labels {
			rec.Channels = make(map[string]*float64, len(cfg.Channels))
			for _, ch := range cfg.Channels {
				rec.Channels[irecorder.Labels16[ch]] = finite(imp[ch])
			}
		} else {
			for _, ch := range cfg.Channels {
				rec.Impedance = append(rec.Impedance, finite(imp[ch]))
			}
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("failed to write impedance: %w", err)
		}
		return nil
	}

	var line bytes.Buffer
	line.WriteString("impedance")
	for _, ch := range cfg.Channels {
		fmt.Fprintf(&line, "\t%.0f", imp[ch])
	}
	line.WriteByte('\n')
	if _, err := w.Write(line.Bytes()); err != nil {
		return fmt.Errorf("failed to write impedance: %w", err)
	}
	return nil
}

// finite returns nil for infinite readings so they encode as JSON null
func finite(v float64) *float64 {
	if math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// writeSynthetic emits n valid packets with a 10 Hz tone at 500 Hz
// sampling, channel i scaled by i+1
func writeSynthetic(w io.Writer, n int) error {
	const sampleRate = 500
	const amplitude = 50.0

	for i := 0; i < n; i++ {
		var s irecorder.Samples
		phase := 2 * math.Pi * 10 * float64(i) / float64(sampleRate)
		for ch := range s {
			s[ch] = amplitude * float64(ch+1) * math.Sin(phase)
		}
		pkt := irecorder.Packet{Samples: s, Seq: uint8(i), Battery: 100}
		if i%sampleRate == 0 {
			pkt.Trigger = 1
		}
		wire := pkt.Marshal()
		if _, err := w.Write(wire[:]); err != nil {
			return fmt.Errorf("failed to write synthetic packet %d: %w", i, err)
		}
	}
	return nil
}
