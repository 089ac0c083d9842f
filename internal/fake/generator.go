// Package fake builds A2S wire payloads and fills the archive with synthetic decode results
// for testing and development purposes.
package fake

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/a2sdecode/internal/capture"
	"github.com/woozymasta/a2sdecode/internal/inspect"
	"github.com/woozymasta/a2sdecode/internal/storage"
	"github.com/woozymasta/a2sdecode/pkg/a2s"
)

// maxSingle is the payload size above which servers split responses.
const maxSingle = 1248

var (
	maps     = []string{"de_dust2", "cs_office", "ttt_minecraft_b5", "gm_construct", "ctf_2fort", "c1m1_hotel", "batavier"}
	games    = []string{"Counter-Strike: Source", "Garry's Mod", "Team Fortress", "Left 4 Dead 2", "The Ship"}
	folders  = []string{"cstrike", "garrysmod", "tf", "left4dead2", "ship"}
	apps     = []uint16{240, 4000, 440, 550, 2400}
	versions = []string{"1.0.0.22", "2023.06.28", "8622567", "2.0.2.7", "1.0.0.4"}
	nicks    = []string{"Shipmate", "LandLubber", "[D]---->T.N.W<----", "Killer !!!", "noob", "sniper_wolf"}

	countriesHigh = []string{"US", "DE", "RU", "CN", "BR", "FR", "GB", "PL", "CZ", "KZ", "UA"}
	countriesMid  = []string{"CA", "AU", "IT", "ES", "NL", "SE", "JP", "KR", "TR", "BE", "RO"}
	countriesLow  = []string{"ZA", "AR", "MX", "IN", "ID", "VN", "CH", "NO", "FI", "DK", "PT"}
)

// RandomSourceInfo returns a plausible Source INFO response.
func RandomSourceInfo() *a2s.SourceInfo {
	g := rand.Intn(len(games))
	port := uint16(27015 + rand.Intn(10))
	gameID := uint64(apps[g])
	keywords := "alltalk,increased_maxplayers"

	info := &a2s.SourceInfo{
		Protocol:    17,
		Name:        fmt.Sprintf("%s Server #%d", games[g], rand.Intn(1000)),
		Map:         maps[rand.Intn(len(maps))],
		Folder:      folders[g],
		Game:        games[g],
		AppID:       apps[g],
		MaxPlayers:  uint8(16 + rand.Intn(48)),
		Bots:        uint8(rand.Intn(4)),
		ServerType:  a2s.ServerDedicated,
		Environment: []a2s.Environment{a2s.EnvLinux, a2s.EnvWindows}[rand.Intn(2)],
		VAC:         rand.Float32() < 0.8,
		Version:     versions[g],
		Extra: a2s.ExtraData{
			Port:     &port,
			Keywords: &keywords,
			GameID:   &gameID,
		},
	}
	info.Players = uint8(rand.Intn(int(info.MaxPlayers) + 1))

	if a2s.IsShipApp(info.AppID) {
		info.Protocol = 7
		info.TheShip = &a2s.TheShip{
			Mode:      a2s.ShipMode(rand.Intn(6)),
			Witnesses: uint8(rand.Intn(5)),
			Duration:  uint8(3 + rand.Intn(10)),
		}
	}

	return info
}

// RandomPlayers returns a PLAYER response with n players; ship stats are added when ship is set.
func RandomPlayers(n int, ship bool) *a2s.Players {
	p := &a2s.Players{Count: uint8(n), Players: make([]a2s.Player, 0, n)}

	for i := 0; i < n; i++ {
		pl := a2s.Player{
			Index:    uint8(i),
			Name:     fmt.Sprintf("%s%d", nicks[rand.Intn(len(nicks))], i+1),
			Score:    int32(rand.Intn(50)),
			Duration: rand.Float32() * 7200,
		}
		if ship {
			pl.Ship = &a2s.ShipPlayer{Deaths: int32(rand.Intn(10)), Money: 2500}
		}
		p.Players = append(p.Players, pl)
	}

	return p
}

// Exchange returns the datagrams a server sends for info and players, splitting
// responses larger than one packet.
func Exchange(id int32, info *a2s.SourceInfo, players *a2s.Players) [][]byte {
	out := [][]byte{Single(a2s.MessageInfoSource, SourceInfo(info))}

	opts := a2s.OptionsForApp(uint32(info.AppID), info.Protocol)
	dg := Single(a2s.MessagePlayerResponse, Players(players))
	if len(dg) <= maxSingle {
		return append(out, dg)
	}

	return append(out, SourceSplit(id, dg, maxSingle, !opts.OmitSize)...)
}

// GenerateData archives count synthetic server exchanges in a new session and returns the session id.
// It simulates various games, maps, countries, split responses and broken datagrams.
func GenerateData(store *storage.Repository, count int) string {
	session := storage.NewSession()
	pipeline := inspect.New(inspect.Options{})

	type cachedIP struct {
		Address string
		Country string
	}
	var ipHistory []cachedIP

	saved, failed := 0, 0
	for i := 0; i < count; i++ {
		daysAgo := rand.Intn(30)
		seenTime := time.Now().Add(-time.Duration(daysAgo) * 24 * time.Hour).
			Add(-time.Duration(rand.Intn(1440)) * time.Minute)

		var ip, country string

		// 20% chance for reuse IP address
		if len(ipHistory) > 0 && rand.Float32() < 0.2 {
			cached := ipHistory[rand.Intn(len(ipHistory))]
			ip = cached.Address
			country = cached.Country
		} else {
			ip = fmt.Sprintf("%d.%d.%d.%d", rand.Intn(220)+1, rand.Intn(255), rand.Intn(255), rand.Intn(255))

			roll := rand.Float32()
			switch {
			case roll < 0.70:
				country = countriesHigh[rand.Intn(len(countriesHigh))]
			case roll < 0.90:
				country = countriesMid[rand.Intn(len(countriesMid))]
			default:
				country = countriesLow[rand.Intn(len(countriesLow))]
			}

			ipHistory = append(ipHistory, cachedIP{Address: ip, Country: country})
		}

		info := RandomSourceInfo()
		players := RandomPlayers(int(info.Players), info.TheShip != nil)
		source := fmt.Sprintf("%s:%d", ip, *info.Extra.Port)

		datagrams := Exchange(int32(i+1), info, players)
		if rand.Float32() < 0.05 {
			// Truncated in transit
			datagrams[0] = datagrams[0][:len(datagrams[0])/2]
		}

		for n, data := range datagrams {
			res := pipeline.Process(capture.Datagram{
				Time:   seenTime.Add(time.Duration(n) * time.Millisecond),
				Source: source,
				Data:   data,
			})
			if res.Err != nil {
				failed++
			}

			if err := store.SaveResult(session, res, country); err != nil {
				log.Warn().Err(err).Msg("Failed to save fake result")
				continue
			}
			saved++

			if rand.Float32() < 0.3 { // 30% chance the same response is seen again
				_ = store.SaveResult(session, res, country)
			}
		}
	}

	log.Info().
		Str("session", session).
		Int("saved", saved).
		Int("failed", failed).
		Msg("Fake data generated")

	return session
}
