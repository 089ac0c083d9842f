package a2s

// Extra Data Flag bits. Each bit is tested on its own, any subset can be set.
const (
	EDFPort     byte = 0x80
	EDFSteamID  byte = 0x10
	EDFSourceTV byte = 0x40
	EDFKeywords byte = 0x20
	EDFGameID   byte = 0x01
)

// shipApps lists the app ids of The Ship builds that append the ship fields.
// It is a closed list, the ids are not contiguous.
var shipApps = map[uint16]struct{}{
	2400: {},
	2401: {},
	2402: {},
	2412: {},
	2430: {},
	2405: {},
	2406: {},
}

// IsShipApp reports whether appID is a build of The Ship.
func IsShipApp(appID uint16) bool {
	_, ok := shipApps[appID]
	return ok
}

// TheShip holds the game settings The Ship servers send.
type TheShip struct {
	Mode      ShipMode `json:"mode"`
	Witnesses uint8    `json:"witnesses"`
	// Duration is the time in seconds a witnessed player has before being arrested.
	Duration uint8 `json:"duration"`
}

// ExtraData holds the optional trailing fields selected by the EDF byte.
// A field is non-nil iff its flag bit is set.
type ExtraData struct {
	Port         *uint16 `json:"port,omitempty"`
	SteamID      *uint64 `json:"steam_id,omitempty"`
	SourceTVPort *uint16 `json:"source_tv_port,omitempty"`
	SourceTVName *string `json:"source_tv_name,omitempty"`
	Keywords     *string `json:"keywords,omitempty"`
	GameID       *uint64 `json:"game_id,omitempty"`
}

// AppID returns the untruncated app id held in the low 24 bits of GameID.
func (e ExtraData) AppID() (uint32, bool) {
	if e.GameID == nil {
		return 0, false
	}

	return uint32(*e.GameID & 0xFFFFFF), true
}

// SourceInfo is the Source engine 'I' response.
type SourceInfo struct {
	// TheShip is set iff AppID is a build of The Ship.
	TheShip *TheShip `json:"the_ship,omitempty"`

	Name    string `json:"name"`
	Map     string `json:"map"`
	Folder  string `json:"folder"`
	Game    string `json:"game"`
	Version string `json:"version"`

	Extra ExtraData `json:"extra"`

	AppID       uint16      `json:"app_id"`
	Protocol    uint8       `json:"protocol"`
	Players     uint8       `json:"players"`
	MaxPlayers  uint8       `json:"max_players"`
	Bots        uint8       `json:"bots"`
	ServerType  ServerType  `json:"server_type"`
	Environment Environment `json:"environment"`
	Private     bool        `json:"private"`
	VAC         bool        `json:"vac"`

	// EDF is the Extra Data Flag byte, 0 when the server did not send one.
	EDF byte `json:"edf"`
}

// Dialect implements InfoRecord.
func (*SourceInfo) Dialect() Dialect { return DialectSource }

// Summary implements InfoRecord.
func (i *SourceInfo) Summary() Summary {
	appID := uint32(i.AppID)
	if full, ok := i.Extra.AppID(); ok {
		appID = full
	}

	return Summary{
		Dialect:     DialectSource,
		Name:        i.Name,
		Map:         i.Map,
		Folder:      i.Folder,
		Game:        i.Game,
		Version:     i.Version,
		AppID:       appID,
		Players:     i.Players,
		MaxPlayers:  i.MaxPlayers,
		Bots:        i.Bots,
		ServerType:  i.ServerType,
		Environment: i.Environment,
		Private:     i.Private,
		VAC:         i.VAC,
	}
}

// DecodeSourceInfo decodes a Source INFO payload (the bytes after the 'I' tag).
func DecodeSourceInfo(payload []byte, c Completion) (*SourceInfo, error) {
	r := newReader(payload)
	info := &SourceInfo{}

	var err error
	if info.Protocol, err = r.uint8("protocol"); err != nil {
		return nil, err
	}
	if info.Name, err = r.cstring("name"); err != nil {
		return nil, err
	}
	if info.Map, err = r.cstring("map"); err != nil {
		return nil, err
	}
	if info.Folder, err = r.cstring("folder"); err != nil {
		return nil, err
	}
	if info.Game, err = r.cstring("game"); err != nil {
		return nil, err
	}
	if info.AppID, err = r.uint16("app id"); err != nil {
		return nil, err
	}
	if info.Players, err = r.uint8("players"); err != nil {
		return nil, err
	}
	if info.MaxPlayers, err = r.uint8("max players"); err != nil {
		return nil, err
	}
	if info.Bots, err = r.uint8("bots"); err != nil {
		return nil, err
	}

	st, err := r.uint8("server type")
	if err != nil {
		return nil, err
	}
	info.ServerType = parseServerType(st)

	env, err := r.uint8("environment")
	if err != nil {
		return nil, err
	}
	info.Environment = parseEnvironment(env)

	if info.Private, err = r.bool("visibility"); err != nil {
		return nil, err
	}
	if info.VAC, err = r.bool("vac"); err != nil {
		return nil, err
	}

	if IsShipApp(info.AppID) {
		if info.TheShip, err = readTheShip(r); err != nil {
			return nil, err
		}
	}

	if info.Version, err = r.cstring("version"); err != nil {
		return nil, err
	}

	// Legacy servers stop after the version string.
	if edf, ok := r.optUint8(); ok {
		info.EDF = edf
	}

	if info.Extra, err = readExtraData(r, info.EDF); err != nil {
		return nil, err
	}

	if err := complete(r, c); err != nil {
		return nil, err
	}

	return info, nil
}

func readTheShip(r *reader) (*TheShip, error) {
	mode, err := r.uint8("ship mode")
	if err != nil {
		return nil, err
	}
	s := &TheShip{Mode: ShipMode(mode)}

	if s.Witnesses, err = r.uint8("ship witnesses"); err != nil {
		return nil, err
	}
	if s.Duration, err = r.uint8("ship duration"); err != nil {
		return nil, err
	}

	return s, nil
}

func readExtraData(r *reader, edf byte) (ExtraData, error) {
	var e ExtraData

	if edf&EDFPort != 0 {
		v, err := r.uint16("edf port")
		if err != nil {
			return e, err
		}
		e.Port = &v
	}

	if edf&EDFSteamID != 0 {
		v, err := r.uint64("edf steam id")
		if err != nil {
			return e, err
		}
		e.SteamID = &v
	}

	if edf&EDFSourceTV != 0 {
		port, err := r.uint16("edf sourcetv port")
		if err != nil {
			return e, err
		}
		name, err := r.cstring("edf sourcetv name")
		if err != nil {
			return e, err
		}
		e.SourceTVPort = &port
		e.SourceTVName = &name
	}

	if edf&EDFKeywords != 0 {
		v, err := r.cstring("edf keywords")
		if err != nil {
			return e, err
		}
		e.Keywords = &v
	}

	if edf&EDFGameID != 0 {
		v, err := r.uint64("edf game id")
		if err != nil {
			return e, err
		}
		e.GameID = &v
	}

	return e, nil
}
