package inspect

import (
	"github.com/remeh/sizedwaitgroup"
	"github.com/rs/zerolog/log"
	"github.com/woozymasta/a2sdecode/internal/capture"
)

// FileResult holds the decoded datagrams of one input file.
type FileResult struct {
	Err     error    `json:"-"`
	Path    string   `json:"path"`
	Error   string   `json:"error,omitempty"`
	Results []Result `json:"results"`
}

// FileOptions selects how input files are read.
type FileOptions struct {
	Format capture.Format

	// Ports restricts pcap input to the given UDP ports.
	Ports []uint16

	// Workers bounds how many files are decoded at once.
	Workers int
}

// DecodeFiles reads and decodes files concurrently. Each file gets its own
// Pipeline since fragments never span captures. Results keep the order of paths.
func DecodeFiles(paths []string, opts Options, fopts FileOptions) []FileResult {
	workers := fopts.Workers
	if workers <= 0 {
		workers = 1
	}

	out := make([]FileResult, len(paths))
	swg := sizedwaitgroup.New(workers)

	for i, path := range paths {
		swg.Add()
		go func(i int, path string) {
			defer swg.Done()
			out[i] = decodeFile(path, opts, fopts)
		}(i, path)
	}
	swg.Wait()

	return out
}

func decodeFile(path string, opts Options, fopts FileOptions) FileResult {
	fr := FileResult{Path: path}

	dgs, err := capture.ReadFile(path, fopts.Format, fopts.Ports...)
	if err != nil {
		fr.Err = err
		fr.Error = err.Error()
		log.Error().Err(err).Str("path", path).Msg("Failed to read input")
		return fr
	}

	fr.Results = New(opts).ProcessAll(dgs)

	failed := 0
	for _, r := range fr.Results {
		if r.Err != nil {
			failed++
		}
	}
	log.Info().
		Str("path", path).
		Int("datagrams", len(dgs)).
		Int("failed", failed).
		Msg("Input decoded")

	return fr
}
