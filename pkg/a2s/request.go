package a2s

// InfoQuery is the payload every A2S_INFO request carries.
const InfoQuery = "Source Engine Query"

// InfoRequest is a decoded A2S_INFO request.
type InfoRequest struct {
	// Challenge is set when the client answered a challenge, -1 asks for one.
	Challenge *int32 `json:"challenge,omitempty"`

	Payload string `json:"payload"`

	// Extra keeps bytes after the known fields; future games may put data there.
	Extra []byte `json:"extra,omitempty"`
}

// ChallengeRequest is a decoded A2S_PLAYER or A2S_RULES request.
type ChallengeRequest struct {
	Challenge int32 `json:"challenge"`
}

// DecodeInfoRequest decodes an A2S_INFO request payload (the bytes after the 'T' tag).
func DecodeInfoRequest(payload []byte) (*InfoRequest, error) {
	r := newReader(payload)

	query, err := r.cstring("query")
	if err != nil {
		return nil, err
	}
	if query != InfoQuery {
		e := newError(ErrUnexpectedValue, 0, "query")
		e.Detail = query
		return nil, e
	}

	req := &InfoRequest{Payload: query}
	if challenge, ok := r.optInt32(); ok {
		req.Challenge = &challenge
	}
	if rest := r.rest(); len(rest) > 0 {
		req.Extra = append([]byte(nil), rest...)
	}

	return req, nil
}

// DecodeChallengeRequest decodes a PLAYER or RULES request payload: exactly one int32.
func DecodeChallengeRequest(payload []byte) (*ChallengeRequest, error) {
	return decodeChallenge(payload, "challenge")
}

// DecodeChallengeResponse decodes an 'A' challenge response payload.
func DecodeChallengeResponse(payload []byte) (*ChallengeRequest, error) {
	return decodeChallenge(payload, "challenge response")
}

func decodeChallenge(payload []byte, field string) (*ChallengeRequest, error) {
	r := newReader(payload)

	v, err := r.int32(field)
	if err != nil {
		return nil, err
	}
	if err := r.finish(field); err != nil {
		return nil, err
	}

	return &ChallengeRequest{Challenge: v}, nil
}

// DecodePing decodes an A2A_PING response payload (the bytes after the 'j' tag).
// Source servers answer "00000000000000", GoldSource servers an empty string.
func DecodePing(payload []byte) (string, error) {
	r := newReader(payload)

	s, err := r.cstring("ping payload")
	if err != nil {
		return "", err
	}
	if err := r.finish("end of PING"); err != nil {
		return "", err
	}

	return s, nil
}
