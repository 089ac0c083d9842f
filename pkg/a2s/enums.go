package a2s

import "fmt"

// ServerType is the hosting type of a server.
// Known values are normalized to the lower case letter, anything else keeps the raw byte.
type ServerType byte

// Server types.
const (
	ServerDedicated    ServerType = 'd'
	ServerNonDedicated ServerType = 'l'
	ServerSourceTV     ServerType = 'p'
)

func parseServerType(b byte) ServerType {
	switch b {
	case 'd', 'D':
		return ServerDedicated
	case 'l', 'L':
		return ServerNonDedicated
	case 'p', 'P':
		return ServerSourceTV
	default:
		return ServerType(b)
	}
}

// Known reports whether t is one of the defined server types.
func (t ServerType) Known() bool {
	return t == ServerDedicated || t == ServerNonDedicated || t == ServerSourceTV
}

// String implements fmt.Stringer.
func (t ServerType) String() string {
	switch t {
	case ServerDedicated:
		return "dedicated"
	case ServerNonDedicated:
		return "non-dedicated"
	case ServerSourceTV:
		return "sourcetv"
	default:
		return unknownByte(byte(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t ServerType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Environment is the operating system a server runs on.
type Environment byte

// Environments.
const (
	EnvLinux   Environment = 'l'
	EnvWindows Environment = 'w'
	EnvMac     Environment = 'm'
)

func parseEnvironment(b byte) Environment {
	switch b {
	case 'l', 'L':
		return EnvLinux
	case 'w', 'W':
		return EnvWindows
	case 'm', 'M', 'o', 'O':
		return EnvMac
	default:
		return Environment(b)
	}
}

// Known reports whether e is one of the defined environments.
func (e Environment) Known() bool {
	return e == EnvLinux || e == EnvWindows || e == EnvMac
}

// String implements fmt.Stringer.
func (e Environment) String() string {
	switch e {
	case EnvLinux:
		return "Linux"
	case EnvWindows:
		return "Windows"
	case EnvMac:
		return "Mac"
	default:
		return unknownByte(byte(e))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (e Environment) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// ModType tells whether a Half-Life mod is single and multiplayer or multiplayer only.
type ModType byte

// Mod types.
const (
	ModSingleAndMultiplayer ModType = 0
	ModMultiplayerOnly      ModType = 1
)

// Known reports whether t is a defined mod type.
func (t ModType) Known() bool {
	return t <= ModMultiplayerOnly
}

// String implements fmt.Stringer.
func (t ModType) String() string {
	switch t {
	case ModSingleAndMultiplayer:
		return "single and multiplayer"
	case ModMultiplayerOnly:
		return "multiplayer only"
	default:
		return unknownByte(byte(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t ModType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ModDLL tells whether a mod ships its own DLL.
type ModDLL byte

// Mod DLL kinds.
const (
	ModDLLHalfLife ModDLL = 0
	ModDLLCustom   ModDLL = 1
)

// Known reports whether d is a defined DLL kind.
func (d ModDLL) Known() bool {
	return d <= ModDLLCustom
}

// String implements fmt.Stringer.
func (d ModDLL) String() string {
	switch d {
	case ModDLLHalfLife:
		return "half-life"
	case ModDLLCustom:
		return "custom"
	default:
		return unknownByte(byte(d))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d ModDLL) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// ShipMode is The Ship game mode.
type ShipMode byte

// The Ship game modes.
const (
	ShipHunt ShipMode = iota
	ShipElimination
	ShipDuel
	ShipDeathmatch
	ShipVIPTeam
	ShipTeamElimination
)

var shipModeNames = [...]string{
	ShipHunt:            "hunt",
	ShipElimination:     "elimination",
	ShipDuel:            "duel",
	ShipDeathmatch:      "deathmatch",
	ShipVIPTeam:         "vip team",
	ShipTeamElimination: "team elimination",
}

// Known reports whether m is a defined game mode.
func (m ShipMode) Known() bool {
	return int(m) < len(shipModeNames)
}

// String implements fmt.Stringer.
func (m ShipMode) String() string {
	if m.Known() {
		return shipModeNames[m]
	}

	return unknownByte(byte(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m ShipMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func unknownByte(b byte) string {
	return fmt.Sprintf("unknown(0x%02X)", b)
}
