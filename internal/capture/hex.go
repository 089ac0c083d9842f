package capture

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
)

// ReadHex reads one hex encoded datagram per line.
// Blank lines and lines starting with '#' are ignored. A line may be prefixed
// with "source>" to name the sender; whitespace inside the hex is allowed.
func ReadHex(r io.Reader) ([]Datagram, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		out  []Datagram
		line int
	)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var dg Datagram
		if src, rest, ok := strings.Cut(text, ">"); ok {
			dg.Source = strings.TrimSpace(src)
			text = rest
		}

		data, err := hex.DecodeString(strings.Join(strings.Fields(text), ""))
		if err != nil {
			return out, fmt.Errorf("line %d: %w", line, err)
		}
		dg.Data = data

		out = append(out, dg)
	}
	if err := sc.Err(); err != nil {
		return out, err
	}

	return out, nil
}
