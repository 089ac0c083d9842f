// Package a2s decodes Source and GoldSource server query (A2S) messages.
//
// The package performs no I/O. Callers hand it datagrams exactly as received:
// Classify or Decode reads the packet envelope, ParseGoldSourceFragment and
// ParseSourceFragment expose split packet metadata, and once a logical payload
// is complete the record decoders (DecodeSourceInfo, DecodeGoldSourceInfo,
// DecodePlayers, DecodeRules, DecodePing and the request decoders) turn it into
// typed values.
//
// Reassembly of split responses and decompression are left to the caller.
// Every decoder is a pure function of its input and safe for concurrent use.
// Errors are *DecodeError values wrapping one of the Err* sentinels.
package a2s
