package a2s

// HalfLifeMod describes the mod a GoldSource server runs, present when the mod flag is set.
type HalfLifeMod struct {
	Link         string  `json:"link"`
	DownloadLink string  `json:"download_link"`
	Version      int32   `json:"version"`
	Size         int32   `json:"size"`
	Type         ModType `json:"type"`
	DLL          ModDLL  `json:"dll"`
}

// PreGoldSourceInfo is the obsolete 'm' response as sent by servers that predate the VAC and bot fields.
type PreGoldSourceInfo struct {
	// Mod is set iff IsMod is true.
	Mod *HalfLifeMod `json:"mod,omitempty"`

	// Address is the server IP:port as the server sees itself.
	Address string `json:"address"`

	Name        string      `json:"name"`
	Map         string      `json:"map"`
	Folder      string      `json:"folder"`
	Game        string      `json:"game"`
	Players     uint8       `json:"players"`
	MaxPlayers  uint8       `json:"max_players"`
	Protocol    uint8       `json:"protocol"`
	ServerType  ServerType  `json:"server_type"`
	Environment Environment `json:"environment"`
	Private     bool        `json:"private"`
	IsMod       bool        `json:"is_mod"`
}

// Dialect implements InfoRecord.
func (*PreGoldSourceInfo) Dialect() Dialect { return DialectPreGoldSource }

// Summary implements InfoRecord.
func (i *PreGoldSourceInfo) Summary() Summary {
	return Summary{
		Dialect:     DialectPreGoldSource,
		Name:        i.Name,
		Map:         i.Map,
		Folder:      i.Folder,
		Game:        i.Game,
		Players:     i.Players,
		MaxPlayers:  i.MaxPlayers,
		ServerType:  i.ServerType,
		Environment: i.Environment,
		Private:     i.Private,
	}
}

// GoldSourceInfo is the obsolete GoldSource 'm' response.
type GoldSourceInfo struct {
	PreGoldSourceInfo

	VAC  bool  `json:"vac"`
	Bots uint8 `json:"bots"`
}

// Dialect implements InfoRecord.
func (*GoldSourceInfo) Dialect() Dialect { return DialectGoldSource }

// Summary implements InfoRecord.
func (i *GoldSourceInfo) Summary() Summary {
	s := i.PreGoldSourceInfo.Summary()
	s.Dialect = DialectGoldSource
	s.VAC = i.VAC
	s.Bots = i.Bots

	return s
}

// DecodeGoldSourceInfo decodes a GoldSource INFO payload (the bytes after the 'm' tag).
func DecodeGoldSourceInfo(payload []byte, c Completion) (*GoldSourceInfo, error) {
	r := newReader(payload)

	info := &GoldSourceInfo{}
	if err := readGoldSourceBody(r, &info.PreGoldSourceInfo); err != nil {
		return nil, err
	}

	var err error
	if info.VAC, err = r.bool("vac"); err != nil {
		return nil, err
	}
	if info.Bots, err = r.uint8("bots"); err != nil {
		return nil, err
	}

	if err := complete(r, c); err != nil {
		return nil, err
	}

	return info, nil
}

// DecodePreGoldSourceInfo decodes an 'm' payload that ends after the mod block.
func DecodePreGoldSourceInfo(payload []byte, c Completion) (*PreGoldSourceInfo, error) {
	r := newReader(payload)

	info := &PreGoldSourceInfo{}
	if err := readGoldSourceBody(r, info); err != nil {
		return nil, err
	}

	if err := complete(r, c); err != nil {
		return nil, err
	}

	return info, nil
}

func readGoldSourceBody(r *reader, info *PreGoldSourceInfo) error {
	var err error

	if info.Address, err = r.cstring("address"); err != nil {
		return err
	}
	if info.Name, err = r.cstring("name"); err != nil {
		return err
	}
	if info.Map, err = r.cstring("map"); err != nil {
		return err
	}
	if info.Folder, err = r.cstring("folder"); err != nil {
		return err
	}
	if info.Game, err = r.cstring("game"); err != nil {
		return err
	}
	if info.Players, err = r.uint8("players"); err != nil {
		return err
	}
	if info.MaxPlayers, err = r.uint8("max players"); err != nil {
		return err
	}
	if info.Protocol, err = r.uint8("protocol"); err != nil {
		return err
	}

	st, err := r.uint8("server type")
	if err != nil {
		return err
	}
	info.ServerType = parseServerType(st)

	env, err := r.uint8("environment")
	if err != nil {
		return err
	}
	info.Environment = parseEnvironment(env)

	if info.Private, err = r.bool("visibility"); err != nil {
		return err
	}
	if info.IsMod, err = r.bool("mod"); err != nil {
		return err
	}

	if info.IsMod {
		info.Mod, err = readHalfLifeMod(r)
		if err != nil {
			return err
		}
	}

	return nil
}

func readHalfLifeMod(r *reader) (*HalfLifeMod, error) {
	m := &HalfLifeMod{}

	var err error
	if m.Link, err = r.cstring("mod link"); err != nil {
		return nil, err
	}
	if m.DownloadLink, err = r.cstring("mod download link"); err != nil {
		return nil, err
	}
	if err = r.null("mod placeholder"); err != nil {
		return nil, err
	}
	if m.Version, err = r.int32("mod version"); err != nil {
		return nil, err
	}
	if m.Size, err = r.int32("mod size"); err != nil {
		return nil, err
	}

	t, err := r.uint8("mod type")
	if err != nil {
		return nil, err
	}
	m.Type = ModType(t)

	dll, err := r.uint8("mod dll")
	if err != nil {
		return nil, err
	}
	m.DLL = ModDLL(dll)

	return m, nil
}
