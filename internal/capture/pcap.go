package capture

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"slices"
	"strconv"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

const pcapngMagic = 0x0A0D0D0A

type packetSource interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	LinkType() layers.LinkType
}

// ReadPcap extracts UDP payloads from a pcap or pcapng stream.
// Packets without a UDP layer are skipped.
func ReadPcap(r io.Reader, ports ...uint16) ([]Datagram, error) {
	src, err := openPcap(r)
	if err != nil {
		return nil, err
	}

	var out []Datagram
	for {
		data, ci, err := src.ReadPacketData()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return out, fmt.Errorf("read packet %d: %w", len(out)+1, err)
		}

		packet := gopacket.NewPacket(data, src.LinkType(), gopacket.Default)
		udp, ok := packet.Layer(layers.LayerTypeUDP).(*layers.UDP)
		if !ok {
			continue
		}
		if len(ports) > 0 &&
			!slices.Contains(ports, uint16(udp.SrcPort)) &&
			!slices.Contains(ports, uint16(udp.DstPort)) {
			continue
		}

		dg := Datagram{
			Time: ci.Timestamp,
			Data: append([]byte(nil), udp.Payload...),
		}
		if nl := packet.NetworkLayer(); nl != nil {
			flow := nl.NetworkFlow()
			dg.Source = net.JoinHostPort(flow.Src().String(), strconv.Itoa(int(udp.SrcPort)))
			dg.Destination = net.JoinHostPort(flow.Dst().String(), strconv.Itoa(int(udp.DstPort)))
		}

		out = append(out, dg)
	}

	return out, nil
}

func openPcap(r io.Reader) (packetSource, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	head, err := br.Peek(4)
	if err != nil {
		return nil, fmt.Errorf("read capture header: %w", err)
	}

	if binary.LittleEndian.Uint32(head) == pcapngMagic {
		ng, err := pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
		if err != nil {
			return nil, fmt.Errorf("open pcapng: %w", err)
		}
		return ng, nil
	}

	pr, err := pcapgo.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("open pcap: %w", err)
	}

	return pr, nil
}
