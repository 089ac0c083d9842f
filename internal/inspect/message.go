package inspect

import (
	"fmt"

	"github.com/woozymasta/a2sdecode/pkg/a2s"
)

// DecodeMessage decodes the payload of a single packet according to its message type.
// Messages without a body, such as PING requests, yield a nil record.
func DecodeMessage(s *a2s.Single, c a2s.Completion) (any, error) {
	switch s.Type {
	case a2s.MessageInfoSource, a2s.MessageInfoGoldSource:
		return a2s.DecodeInfo(s.Type, s.Payload, c)
	case a2s.MessagePlayerResponse:
		return a2s.DecodePlayers(s.Payload)
	case a2s.MessageRulesResponse:
		return a2s.DecodeRules(s.Payload)
	case a2s.MessagePingResponse:
		return a2s.DecodePing(s.Payload)
	case a2s.MessageInfoRequest:
		return a2s.DecodeInfoRequest(s.Payload)
	case a2s.MessagePlayerRequest, a2s.MessageRulesRequest:
		return a2s.DecodeChallengeRequest(s.Payload)
	case a2s.MessageChallengeResponse:
		return a2s.DecodeChallengeResponse(s.Payload)
	case a2s.MessageChallengeRequest, a2s.MessagePingRequest:
		// Old clients send these bare, newer ones append a challenge.
		if len(s.Payload) == 0 {
			return nil, nil
		}
		return a2s.DecodeChallengeRequest(s.Payload)
	default:
		return nil, fmt.Errorf("no decoder for %s", s.Type)
	}
}
