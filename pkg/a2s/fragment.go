package a2s

// FragmentDialect selects the split packet header layout.
// The layouts are not self describing, the caller knows which engine it queried.
type FragmentDialect int

// Split packet layouts.
const (
	FragmentSource FragmentDialect = iota
	FragmentGoldSource
)

// String implements fmt.Stringer.
func (d FragmentDialect) String() string {
	if d == FragmentGoldSource {
		return "goldsource"
	}

	return "source"
}

// FragmentOptions controls how split packet headers are decoded.
type FragmentOptions struct {
	// Dialect selects the GoldSource or Source header layout.
	Dialect FragmentDialect

	// OmitSize is set for Source apps that do not send the per-fragment size field.
	OmitSize bool
}

// Compression is the metadata carried by the first fragment of a compressed Source response.
type Compression struct {
	DecompressedSize int32  `json:"decompressed_size"`
	CRC32            uint32 `json:"crc32"`
}

// Fragment is one datagram of a multi-packet response.
type Fragment struct {
	// Size is the maximum fragment size announced by Source servers, nil when not transmitted.
	Size *uint16 `json:"size,omitempty"`

	// Compression is set only on fragment 0 of a compressed response.
	Compression *Compression `json:"compression,omitempty"`

	// Payload borrows the datagram bytes after the fragment header.
	Payload []byte `json:"-"`

	// ID identifies the response; the sign bit marks compression on Source.
	ID int32 `json:"id"`

	// Total is the number of fragments in the response.
	Total uint8 `json:"total"`

	// Number is the zero based position of this fragment.
	Number uint8 `json:"number"`
}

// Kind implements Packet.
func (*Fragment) Kind() Kind { return KindFragment }

// Compressed reports whether the response this fragment belongs to is compressed.
func (f *Fragment) Compressed() bool {
	return f.ID < 0
}

// sizeException lists a Source app that sends fragments without the size field.
// protocol 0 matches every protocol version.
type sizeException struct {
	appID    uint32
	protocol uint8
}

// sizeExceptions is maintained as data: new entries need confirmation against real captures.
var sizeExceptions = []sizeException{
	{appID: 215},
	{appID: 17550},
	{appID: 17700},
	{appID: 240, protocol: 7},
}

// SourceOmitsSize reports whether fragments from appID with the given protocol version lack the size field.
func SourceOmitsSize(appID uint32, protocol uint8) bool {
	for _, ex := range sizeExceptions {
		if ex.appID != appID {
			continue
		}
		if ex.protocol == 0 || ex.protocol == protocol {
			return true
		}
	}

	return false
}

// OptionsForApp returns Source fragment options for a known app id and protocol version.
func OptionsForApp(appID uint32, protocol uint8) FragmentOptions {
	return FragmentOptions{
		Dialect:  FragmentSource,
		OmitSize: SourceOmitsSize(appID, protocol),
	}
}

// ParseGoldSourceFragment decodes a GoldSource split header from body (the bytes after the -2 header).
// The packet byte holds the fragment number in the high nibble and the total in the low nibble.
func ParseGoldSourceFragment(body []byte) (*Fragment, error) {
	return parseGoldSourceFragmentAt(body, 0)
}

func parseGoldSourceFragmentAt(body []byte, base int) (*Fragment, error) {
	r := newReaderAt(body, base)

	id, err := r.int32("fragment id")
	if err != nil {
		return nil, err
	}
	packet, err := r.uint8("fragment number")
	if err != nil {
		return nil, err
	}

	return &Fragment{
		ID:      id,
		Number:  packet >> 4,
		Total:   packet & 0x0F,
		Payload: r.rest(),
	}, nil
}

// ParseSourceFragment decodes a Source split header from body (the bytes after the -2 header).
// sizeIncluded must be false for apps listed by SourceOmitsSize.
func ParseSourceFragment(body []byte, sizeIncluded bool) (*Fragment, error) {
	return parseSourceFragmentAt(body, 0, sizeIncluded)
}

func parseSourceFragmentAt(body []byte, base int, sizeIncluded bool) (*Fragment, error) {
	r := newReaderAt(body, base)
	f := &Fragment{}

	var err error
	if f.ID, err = r.int32("fragment id"); err != nil {
		return nil, err
	}
	if f.Total, err = r.uint8("fragment total"); err != nil {
		return nil, err
	}
	if f.Number, err = r.uint8("fragment number"); err != nil {
		return nil, err
	}

	if sizeIncluded {
		size, err := r.uint16("fragment size")
		if err != nil {
			return nil, err
		}
		f.Size = &size
	}

	if f.Number == 0 && f.ID < 0 {
		c := &Compression{}
		if c.DecompressedSize, err = r.int32("decompressed size"); err != nil {
			return nil, err
		}
		if c.CRC32, err = r.uint32("crc32"); err != nil {
			return nil, err
		}
		f.Compression = c
	}

	f.Payload = r.rest()

	return f, nil
}
