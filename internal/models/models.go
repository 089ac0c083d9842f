// Package models defines the data structures used for API responses and database persistence.
package models

import (
	"encoding/json"
	"time"
)

// Record is an archived decode result.
type Record struct {
	FirstSeen time.Time `json:"first_seen"`
	LastSeen  time.Time `json:"last_seen"`

	// Record is the decoded message as JSON, empty for failures.
	Record json.RawMessage `json:"record,omitempty"`

	// Payload is the message payload after the tag, kept for re-decoding.
	Payload []byte `json:"-"`

	Session     string `json:"session"`
	Fingerprint string `json:"fingerprint"`
	Source      string `json:"source"`
	CountryCode string `json:"country_code"`
	Kind        string `json:"kind"`
	MessageType string `json:"message_type"`
	Dialect     string `json:"dialect,omitempty"`
	ServerName  string `json:"server_name,omitempty"`
	MapName     string `json:"map_name,omitempty"`
	GameName    string `json:"game_name,omitempty"`
	Error       string `json:"error,omitempty"`

	ID         int64  `json:"id"`
	Count      int64  `json:"count"`
	Size       int    `json:"size"`
	AppID      uint32 `json:"app_id,omitempty"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"max_players,omitempty"`
}

// RecordFilter narrows ListRecords. Zero values match everything.
type RecordFilter struct {
	Session     string
	MessageType string
	Source      string
	Limit       int
	FailedOnly  bool
}

// DecodeRequest is the query of POST /api/decode.
type DecodeRequest struct {
	// Source overrides the client address as the datagram sender.
	Source string

	// Hex is set when the body holds hex lines instead of a raw datagram.
	Hex bool
}
