// Package inspect runs captured datagrams through envelope decoding, reassembly and record decoding.
package inspect

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/a2sdecode/internal/assemble"
	"github.com/woozymasta/a2sdecode/internal/capture"
	"github.com/woozymasta/a2sdecode/pkg/a2s"
)

// Options configures a Pipeline.
type Options struct {
	// Fragments is used for sources whose app is not known yet.
	Fragments a2s.FragmentOptions

	// Completion is applied to INFO responses.
	Completion a2s.Completion

	// FragmentTTL bounds how long incomplete split responses are kept.
	FragmentTTL time.Duration
}

// Result is the outcome of decoding one datagram.
type Result struct {
	// Time is the capture time of the datagram.
	Time time.Time `json:"time,omitzero"`

	// Record is the decoded message, e.g. a2s.InfoRecord or *a2s.Players. It stays nil
	// for fragments that did not complete a response and for failures.
	Record any `json:"record,omitempty"`

	// Fragment is set when the datagram was part of a split response.
	Fragment *a2s.Fragment `json:"fragment,omitempty"`

	Err error `json:"-"`

	Source      string `json:"source,omitempty"`
	Destination string `json:"destination,omitempty"`

	// Error mirrors Err for serialization.
	Error string `json:"error,omitempty"`

	// Payload is the message payload after the tag, joined across fragments when reassembled.
	Payload []byte `json:"-"`

	Size int `json:"size"`

	Kind        a2s.Kind        `json:"kind,omitempty"`
	MessageType a2s.MessageType `json:"message_type,omitempty"`

	// Reassembled is set on the fragment that completed a split response.
	Reassembled bool `json:"reassembled,omitempty"`
}

// Decoded reports whether the result carries a complete message.
func (r Result) Decoded() bool {
	return r.Err == nil && r.MessageType != 0
}

// Pipeline decodes datagrams from one capture. Split responses are reassembled
// per source, and the fragment layout of a server is refined once its INFO
// response revealed the app id. It is safe for concurrent use.
type Pipeline struct {
	assembler *assemble.Assembler
	learned   map[string]a2s.FragmentOptions
	opts      Options
	mu        sync.RWMutex
}

// New returns a Pipeline with the given options.
func New(opts Options) *Pipeline {
	asm := assemble.New(opts.Fragments.Dialect)
	asm.TTL = opts.FragmentTTL

	return &Pipeline{
		assembler: asm,
		learned:   make(map[string]a2s.FragmentOptions),
		opts:      opts,
	}
}

// Process decodes a single datagram.
func (p *Pipeline) Process(dg capture.Datagram) Result {
	res := Result{
		Time:        dg.Time,
		Source:      dg.Source,
		Destination: dg.Destination,
		Size:        len(dg.Data),
	}

	pkt, err := a2s.Decode(dg.Data, p.fragmentOptions(dg.Source))
	if err != nil {
		return p.fail(res, err)
	}
	res.Kind = pkt.Kind()

	switch v := pkt.(type) {
	case *a2s.Single:
		return p.message(res, v)

	case *a2s.Fragment:
		res.Fragment = v

		at := dg.Time
		if at.IsZero() {
			at = time.Now()
		}
		if n := p.assembler.Expire(at); n > 0 {
			log.Debug().Int("dropped", n).Msg("Expired incomplete split responses")
		}

		joined, done, err := p.assembler.Add(dg.Source, v, at)
		if err != nil {
			return p.fail(res, err)
		}
		if !done {
			return res
		}

		single, err := a2s.DecodeSingle(joined)
		if err != nil {
			return p.fail(res, err)
		}
		res.Reassembled = true

		return p.message(res, single)
	}

	return res
}

// ProcessAll decodes datagrams in order.
func (p *Pipeline) ProcessAll(dgs []capture.Datagram) []Result {
	out := make([]Result, 0, len(dgs))
	for _, dg := range dgs {
		out = append(out, p.Process(dg))
	}

	return out
}

func (p *Pipeline) message(res Result, s *a2s.Single) Result {
	res.MessageType = s.Type
	res.Payload = s.Payload

	rec, err := DecodeMessage(s, p.opts.Completion)
	if err != nil {
		return p.fail(res, err)
	}
	res.Record = rec

	if info, ok := rec.(*a2s.SourceInfo); ok {
		p.learn(res.Source, info)
	}

	log.Trace().
		Str("source", res.Source).
		Str("type", s.Type.String()).
		Int("size", len(s.Payload)).
		Msg("Message decoded")

	return res
}

func (p *Pipeline) fail(res Result, err error) Result {
	res.Err = err
	res.Error = err.Error()

	if a2s.IsRecoverable(err) {
		log.Trace().Str("source", res.Source).Err(err).Msg("Dropped unrecognized message")
		return res
	}

	log.Debug().
		Err(err).
		Str("source", res.Source).
		Int("offset", a2s.ErrorOffset(err)).
		Int("size", res.Size).
		Msg("Datagram decode failed")

	return res
}

func (p *Pipeline) fragmentOptions(source string) a2s.FragmentOptions {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if o, ok := p.learned[source]; ok {
		return o
	}

	return p.opts.Fragments
}

func (p *Pipeline) learn(source string, info *a2s.SourceInfo) {
	if source == "" || p.opts.Fragments.Dialect != a2s.FragmentSource {
		return
	}

	appID := info.Summary().AppID
	opts := a2s.OptionsForApp(appID, info.Protocol)

	p.mu.Lock()
	p.learned[source] = opts
	p.mu.Unlock()
}
