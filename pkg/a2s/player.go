package a2s

import (
	"math"
	"time"
)

// ShipPlayer holds the per-player fields The Ship appends after the regular player list.
type ShipPlayer struct {
	Deaths int32 `json:"deaths"`
	Money  int32 `json:"money"`
}

// Player is one entry of an A2S_PLAYER response.
type Player struct {
	// Ship is set only when the response carried exactly one ship record per player.
	Ship *ShipPlayer `json:"ship,omitempty"`

	Name string `json:"name"`

	Score int32 `json:"score"`

	// Duration is the time connected in seconds.
	Duration float32 `json:"duration"`

	Index uint8 `json:"index"`
}

// Online returns Duration as a time.Duration; negative and non-finite values yield zero.
func (p Player) Online() time.Duration {
	d := float64(p.Duration)
	if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
		return 0
	}

	return time.Duration(d * float64(time.Second))
}

// Players is a decoded A2S_PLAYER response.
type Players struct {
	// Players may be shorter than Count: connecting players are counted but not described.
	Players []Player `json:"players"`

	Count uint8 `json:"count"`
}

// DecodePlayers decodes an A2S_PLAYER payload (the bytes after the 'D' tag).
// An empty payload decodes to zero players. Bytes left once both passes
// are exhausted fail with ErrTrailingData.
func DecodePlayers(payload []byte) (*Players, error) {
	r := newReader(payload)

	count, ok := r.optUint8()
	if !ok {
		return &Players{Players: []Player{}}, nil
	}

	res := &Players{
		Count:   count,
		Players: make([]Player, 0, count),
	}

	for i := 0; i < int(count); i++ {
		mark := r.off
		p, err := readPlayer(r)
		if err != nil {
			r.off = mark
			break
		}
		res.Players = append(res.Players, p)
	}

	ships := make([]ShipPlayer, 0, len(res.Players))
	for i := 0; i < int(count); i++ {
		mark := r.off
		s, err := readShipPlayer(r)
		if err != nil {
			r.off = mark
			break
		}
		ships = append(ships, s)
	}

	// No marker ties ship records to players, only an exact count match does.
	if len(ships) == len(res.Players) {
		for i := range res.Players {
			s := ships[i]
			res.Players[i].Ship = &s
		}
	}

	if err := r.finish("end of PLAYER"); err != nil {
		return nil, err
	}

	return res, nil
}

func readPlayer(r *reader) (Player, error) {
	var (
		p   Player
		err error
	)

	if p.Index, err = r.uint8("player index"); err != nil {
		return p, err
	}
	if p.Name, err = r.cstring("player name"); err != nil {
		return p, err
	}
	if p.Score, err = r.int32("player score"); err != nil {
		return p, err
	}
	if p.Duration, err = r.float32("player duration"); err != nil {
		return p, err
	}

	return p, nil
}

func readShipPlayer(r *reader) (ShipPlayer, error) {
	var (
		s   ShipPlayer
		err error
	)

	if s.Deaths, err = r.int32("ship deaths"); err != nil {
		return s, err
	}
	if s.Money, err = r.int32("ship money"); err != nil {
		return s, err
	}

	return s, nil
}
