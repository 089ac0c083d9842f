// Package capture loads recorded UDP datagrams from pcap/pcapng captures and hex dumps.
package capture

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"
)

// Format selects how an input file is read.
type Format string

// Input formats.
const (
	FormatAuto Format = "auto"
	FormatPcap Format = "pcap"
	FormatHex  Format = "hex"
)

// Datagram is one UDP payload as seen on the wire.
type Datagram struct {
	// Time is the capture timestamp, zero for hex dumps.
	Time time.Time `json:"time,omitzero"`

	// Source and Destination are host:port, Source may be empty for hex dumps.
	Source      string `json:"source,omitempty"`
	Destination string `json:"destination,omitempty"`

	Data []byte `json:"-"`
}

// pcap and pcapng magic numbers, as read little endian.
var captureMagic = map[uint32]struct{}{
	0xA1B2C3D4: {},
	0xD4C3B2A1: {},
	0xA1B23C4D: {},
	0x4D3CB2A1: {},
	0x0A0D0D0A: {},
}

// ReadFile opens path and reads its datagrams. Ports, when given, restrict pcap input
// to UDP traffic from or to one of them.
func ReadFile(path string, format Format, ports ...uint16) ([]Datagram, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	dgs, err := Read(f, format, ports...)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return dgs, nil
}

// Read reads datagrams from r. FormatAuto sniffs the capture file magic and falls back to hex.
func Read(r io.Reader, format Format, ports ...uint16) ([]Datagram, error) {
	br := bufio.NewReader(r)

	if format == FormatAuto || format == "" {
		format = FormatHex
		if head, err := br.Peek(4); err == nil {
			if _, ok := captureMagic[binary.LittleEndian.Uint32(head)]; ok {
				format = FormatPcap
			}
		}
	}

	switch format {
	case FormatPcap:
		return ReadPcap(br, ports...)
	case FormatHex:
		return ReadHex(br)
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
}
