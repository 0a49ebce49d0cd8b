// ABOUTME: Entry point for the iRecorder capture decoder
// ABOUTME: Parses CLI flags and decodes a capture file of framed packets
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/eConEXG/irecorder-go/internal/logger"
	"github.com/eConEXG/irecorder-go/internal/version"
	"github.com/eConEXG/irecorder-go/pkg/irecorder"
	"github.com/rs/zerolog/log"
)

var (
	inPath      = flag.String("in", "-", "Capture file of framed packets (- for stdin)")
	hexInput    = flag.Bool("hex", false, "Input is hex text instead of raw bytes")
	format      = flag.String("format", "text", "Output format: text or json")
	labels      = flag.Bool("labels", false, "Key JSON samples by electrode label")
	channels    = flag.String("channels", "", "Comma-separated channel labels or indices to output (default all)")
	impedance   = flag.Bool("impedance", false, "Output impedance estimates instead of samples")
	sampleRate  = flag.Int("fs", 500, "Device sample rate in Hz, used for impedance windows")
	synth       = flag.Int("synth", 0, "Write N synthetic packets instead of decoding")
	logLevel    = flag.String("log-level", "", "Log level: debug, info, warn, error (default $LOG_LEVEL or info)")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	logger.Init(os.Stderr, *logLevel)

	if *synth > 0 {
		if err := writeSynthetic(os.Stdout, *synth); err != nil {
			log.Fatal().Err(err).Msg("Failed to write synthetic packets")
		}
		return
	}

	if *format != "text" && *format != "json" {
		log.Fatal().Str("format", *format).Msg("Unknown output format")
	}

	chs, err := irecorder.ParseChannels(*channels)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid channel list")
	}

	var in io.Reader = os.Stdin
	if *inPath != "-" {
		f, err := os.Open(*inPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *inPath).Msg("Failed to open capture")
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	cfg := Config{
		Hex:    *hexInput,
		Format: *format,
		Labels: *labels,

		Channels:   chs,
		Impedance:  *impedance,
		SampleRate: *sampleRate,
	}
	stats, err := Run(cfg, in, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("Decode failed")
	}

	log.Info().
		Int("decoded", stats.Decoded).
		Int("dropped", stats.Dropped).
		Int("lost", stats.Lost).
		Int("duplicates", stats.Duplicates).
		Int("skipped_bytes", stats.Skipped).
		Int("estimates", stats.Estimates).
		Msg("Done")
}
