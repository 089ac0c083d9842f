package a2s

import "fmt"

// MessageType is the one byte tag that follows the single packet header.
// Unknown tags keep their raw value; Known reports whether the tag is defined.
type MessageType byte

// Message tags defined by the query protocol.
const (
	MessageInfoRequest       MessageType = 'T'
	MessageInfoSource        MessageType = 'I'
	MessageInfoGoldSource    MessageType = 'm'
	MessagePlayerRequest     MessageType = 'U'
	MessagePlayerResponse    MessageType = 'D'
	MessageRulesRequest      MessageType = 'V'
	MessageRulesResponse     MessageType = 'E'
	MessagePingRequest       MessageType = 'i'
	MessagePingResponse      MessageType = 'j'
	MessageChallengeRequest  MessageType = 'W'
	MessageChallengeResponse MessageType = 'A'
)

var messageNames = map[MessageType]string{
	MessageInfoRequest:       "A2S_INFO request",
	MessageInfoSource:        "A2S_INFO response (Source)",
	MessageInfoGoldSource:    "A2S_INFO response (GoldSource)",
	MessagePlayerRequest:     "A2S_PLAYER request",
	MessagePlayerResponse:    "A2S_PLAYER response",
	MessageRulesRequest:      "A2S_RULES request",
	MessageRulesResponse:     "A2S_RULES response",
	MessagePingRequest:       "A2A_PING request",
	MessagePingResponse:      "A2A_PING response",
	MessageChallengeRequest:  "A2S_SERVERQUERY_GETCHALLENGE request",
	MessageChallengeResponse: "S2C_CHALLENGE response",
}

// Known reports whether m is one of the defined tags.
func (m MessageType) Known() bool {
	_, ok := messageNames[m]
	return ok
}

// String returns a readable name, or the raw byte for unknown tags.
func (m MessageType) String() string {
	if name, ok := messageNames[m]; ok {
		return name
	}

	return fmt.Sprintf("unrecognized(0x%02X)", byte(m))
}

// MarshalText renders the tag as its protocol character.
func (m MessageType) MarshalText() ([]byte, error) {
	if m.Known() {
		return []byte{byte(m)}, nil
	}

	return []byte(fmt.Sprintf("0x%02X", byte(m))), nil
}
