package a2s

import "fmt"

// Packet header values, the first four bytes of every datagram.
const (
	HeaderSingle int32 = -1
	HeaderSplit  int32 = -2
)

// headerSize is the packet header length in bytes.
const headerSize = 4

// Kind tells single packets from fragments.
type Kind int

// Packet kinds.
const (
	KindSingle Kind = iota + 1
	KindFragment
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindSingle:
		return "single"
	case KindFragment:
		return "fragment"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Packet is a decoded datagram envelope: either *Single or *Fragment.
type Packet interface {
	Kind() Kind
}

// Single is a complete message carried by one datagram.
type Single struct {
	// Payload borrows the datagram bytes after the message tag.
	Payload []byte `json:"-"`

	Type MessageType `json:"type"`
}

// Kind implements Packet.
func (*Single) Kind() Kind { return KindSingle }

// Classify reads the packet header and returns the packet kind and the bytes after the header.
func Classify(datagram []byte) (Kind, []byte, error) {
	r := newReader(datagram)
	header, err := r.int32("packet header")
	if err != nil {
		return 0, nil, err
	}

	switch header {
	case HeaderSingle:
		return KindSingle, r.rest(), nil
	case HeaderSplit:
		return KindFragment, r.rest(), nil
	default:
		e := newError(ErrMalformedEnvelope, 0, "packet header")
		e.Detail = fmt.Sprintf("0x%08X", uint32(header))
		return 0, nil, e
	}
}

// ParseSingle decodes the message tag of a single packet body (the bytes after the header).
// An unknown tag fails with ErrUnrecognizedMessageType.
func ParseSingle(body []byte) (*Single, error) {
	return parseSingleAt(body, 0)
}

func parseSingleAt(body []byte, base int) (*Single, error) {
	r := newReaderAt(body, base)
	at := r.pos()
	tag, err := r.uint8("message type")
	if err != nil {
		return nil, err
	}

	mt := MessageType(tag)
	if !mt.Known() {
		e := newError(ErrUnrecognizedMessageType, at, "message type")
		e.Detail = fmt.Sprintf("0x%02X", tag)
		return nil, e
	}

	return &Single{Type: mt, Payload: r.rest()}, nil
}

// Decode classifies a raw datagram and decodes its envelope.
// Fragments are decoded with the layout selected by opts.
func Decode(datagram []byte, opts FragmentOptions) (Packet, error) {
	kind, body, err := Classify(datagram)
	if err != nil {
		return nil, err
	}

	if kind == KindSingle {
		return parseSingleAt(body, headerSize)
	}

	switch opts.Dialect {
	case FragmentGoldSource:
		return parseGoldSourceFragmentAt(body, headerSize)
	default:
		return parseSourceFragmentAt(body, headerSize, !opts.OmitSize)
	}
}

// DecodeSingle decodes a datagram that must be a single packet.
func DecodeSingle(datagram []byte) (*Single, error) {
	kind, body, err := Classify(datagram)
	if err != nil {
		return nil, err
	}
	if kind != KindSingle {
		e := newError(ErrMalformedEnvelope, 0, "packet header")
		e.Detail = "split packet where single packet expected"
		return nil, e
	}

	return parseSingleAt(body, headerSize)
}
