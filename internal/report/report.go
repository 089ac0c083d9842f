// Package report renders decode results as terminal tables or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
	"github.com/olekukonko/tablewriter"
	"github.com/woozymasta/a2sdecode/internal/inspect"
	"github.com/woozymasta/a2sdecode/pkg/a2s"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// Render writes the results of every file to w in the given format.
func Render(w io.Writer, files []inspect.FileResult, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(files)
	case FormatTable, "":
		for _, f := range files {
			if err := renderFile(w, f); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func renderFile(w io.Writer, f inspect.FileResult) error {
	if f.Err != nil {
		_, err := fmt.Fprintf(w, "%s: %v\n\n", f.Path, f.Err)
		return err
	}

	var total uint64
	for _, r := range f.Results {
		total += uint64(r.Size)
	}
	if _, err := fmt.Fprintf(w, "%s: %d datagrams, %s\n", f.Path, len(f.Results), humanize.Bytes(total)); err != nil {
		return err
	}

	Datagrams(w, f.Results)

	for _, r := range f.Results {
		switch v := r.Record.(type) {
		case a2s.InfoRecord:
			Info(w, v)
		case *a2s.Players:
			PlayerTable(w, v)
		case *a2s.Rules:
			RuleTable(w, v)
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}

// Datagrams writes one row per result.
func Datagrams(w io.Writer, results []inspect.Result) {
	table := newTable(w, []string{"#", "Time", "Source", "Kind", "Message", "Size", "Detail"})

	for i, r := range results {
		ts := ""
		if !r.Time.IsZero() {
			ts = r.Time.Format("15:04:05.000")
		}

		msg := ""
		if r.MessageType != 0 {
			msg = r.MessageType.String()
		}

		kind := ""
		if r.Kind != 0 {
			kind = r.Kind.String()
		}

		table.Append([]string{
			strconv.Itoa(i + 1),
			ts,
			r.Source,
			kind,
			msg,
			humanize.Bytes(uint64(r.Size)),
			detail(r),
		})
	}

	table.Render()
}

func detail(r inspect.Result) string {
	if r.Err != nil {
		return "error: " + r.Err.Error()
	}

	if r.Fragment != nil && !r.Reassembled {
		return fmt.Sprintf("fragment %d/%d (id %d)", r.Fragment.Number+1, r.Fragment.Total, r.Fragment.ID)
	}

	switch v := r.Record.(type) {
	case a2s.InfoRecord:
		s := v.Summary()
		return fmt.Sprintf("%s | %s | %d/%d", s.Name, s.Map, s.Players, s.MaxPlayers)
	case *a2s.Players:
		return fmt.Sprintf("%d players, %d listed", v.Count, len(v.Players))
	case *a2s.Rules:
		return fmt.Sprintf("%d rules", len(v.Rules))
	case *a2s.InfoRequest:
		if v.Challenge != nil {
			return fmt.Sprintf("challenge %d", *v.Challenge)
		}
		return v.Payload
	case *a2s.ChallengeRequest:
		return fmt.Sprintf("challenge %d", v.Challenge)
	case string:
		return strconv.Quote(v)
	default:
		return ""
	}
}

// Info writes the summary of an INFO response as a two column table.
func Info(w io.Writer, rec a2s.InfoRecord) {
	s := rec.Summary()
	table := newTable(w, []string{"Field", "Value"})

	table.Append([]string{"Dialect", s.Dialect.String()})
	table.Append([]string{"Name", s.Name})
	table.Append([]string{"Map", s.Map})
	table.Append([]string{"Game", s.Game})
	table.Append([]string{"Folder", s.Folder})
	if s.AppID != 0 {
		table.Append([]string{"App ID", strconv.FormatUint(uint64(s.AppID), 10)})
	}
	table.Append([]string{"Players", fmt.Sprintf("%d/%d (%d bots)", s.Players, s.MaxPlayers, s.Bots)})
	table.Append([]string{"Server", fmt.Sprintf("%s, %s", s.ServerType, s.Environment)})
	table.Append([]string{"Private", strconv.FormatBool(s.Private)})
	table.Append([]string{"VAC", strconv.FormatBool(s.VAC)})
	if s.Version != "" {
		table.Append([]string{"Version", s.Version})
	}

	if src, ok := rec.(*a2s.SourceInfo); ok && src.Extra.Keywords != nil {
		table.Append([]string{"Keywords", *src.Extra.Keywords})
	}

	table.Render()
}

// PlayerTable writes a PLAYER response, with The Ship columns when present.
func PlayerTable(w io.Writer, p *a2s.Players) {
	ship := len(p.Players) > 0 && p.Players[0].Ship != nil

	header := []string{"Index", "Name", "Score", "Online"}
	if ship {
		header = append(header, "Deaths", "Money")
	}
	table := newTable(w, header)

	for _, pl := range p.Players {
		row := []string{
			strconv.Itoa(int(pl.Index)),
			pl.Name,
			strconv.Itoa(int(pl.Score)),
			online(pl.Online()),
		}
		if ship && pl.Ship != nil {
			row = append(row, strconv.Itoa(int(pl.Ship.Deaths)), strconv.Itoa(int(pl.Ship.Money)))
		}
		table.Append(row)
	}

	table.Render()
}

// RuleTable writes an A2S_RULES response.
func RuleTable(w io.Writer, r *a2s.Rules) {
	table := newTable(w, []string{"Rule", "Value"})
	for _, rule := range r.Rules {
		table.Append([]string{rule.Name, rule.Value})
	}
	if r.Remaining != "" {
		table.Append([]string{"(truncated)", strconv.Quote(r.Remaining)})
	}

	table.Render()
}

func online(d time.Duration) string {
	if d <= 0 {
		return "-"
	}

	return durafmt.Parse(d.Truncate(time.Second)).LimitFirstN(2).String()
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetAutoWrapText(false)

	return table
}
