// Package config handles the parsing and validation of application configuration
// from command-line arguments and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/woozymasta/a2sdecode/internal/capture"
	"github.com/woozymasta/a2sdecode/internal/inspect"
	"github.com/woozymasta/a2sdecode/internal/logger"
	"github.com/woozymasta/a2sdecode/internal/vars"
	"github.com/woozymasta/a2sdecode/pkg/a2s"
)

// Config represents the complete application flags configuration.
type Config struct {
	// betteralign:ignore

	Input     Input         `group:"Input Options" namespace:"input" env-namespace:"A2S_INPUT"`
	Decode    Decode        `group:"Decode Options" namespace:"decode" env-namespace:"A2S_DECODE"`
	Output    Output        `group:"Output Options" namespace:"output" env-namespace:"A2S_OUTPUT"`
	Server    Server        `group:"Server Options" env-namespace:"A2S"`
	Storage   Storage       `group:"Storage Options" namespace:"db" env-namespace:"A2S_DB"`
	GeoIP     GeoIP         `group:"GeoIP Options" namespace:"geoip" env-namespace:"A2S_GEOIP"`
	RateLimit RateLimit     `group:"Rate Limit Options" namespace:"rate-limit" env-namespace:"A2S_RATE_LIMIT"`
	Logger    logger.Config `group:"Logger Options" namespace:"log" env-namespace:"A2S_LOG"`

	Args struct {
		Files []string `positional-arg-name:"FILE" description:"pcap, pcapng or hex dump files to decode"`
	} `positional-args:"yes"`

	Version bool `short:"v" long:"version" description:"Print version and build info"`
}

// Input holds capture reading configuration.
type Input struct {
	Format  string   `short:"f" long:"format" env:"FORMAT" description:"Input format" choice:"auto" choice:"pcap" choice:"hex" default:"auto"`
	Ports   []uint16 `short:"p" long:"port" env:"PORTS" env-delim:"," description:"Only read pcap UDP traffic from or to these ports"`
	Workers int      `short:"w" long:"workers" env:"WORKERS" description:"Files decoded in parallel" default:"4"`
}

// Decode holds A2S decoding configuration.
type Decode struct {
	Dialect     string        `long:"fragments" env:"FRAGMENTS" description:"Split packet header layout" choice:"source" choice:"goldsource" default:"source"`
	AppID       uint32        `long:"app-id" env:"APP_ID" description:"App id of the queried server, selects the fragment size exception"`
	Protocol    uint8         `long:"protocol" env:"PROTOCOL" description:"Protocol version of the queried server, used with --decode-app-id"`
	OmitSize    bool          `long:"omit-size" env:"OMIT_SIZE" description:"Source fragments carry no size field"`
	Lenient     bool          `long:"lenient" env:"LENIENT" description:"Accept bytes after the last INFO field"`
	FragmentTTL time.Duration `long:"fragment-ttl" env:"FRAGMENT_TTL" description:"Drop incomplete split responses after" default:"5s"`
}

// Output holds report configuration.
type Output struct {
	Format string `short:"o" long:"format" env:"FORMAT" description:"Report format" choice:"table" choice:"json" default:"table"`
}

// Server holds web server configuration.
type Server struct {
	// betteralign:ignore

	Serve       bool   `short:"s" long:"serve" env:"SERVE" description:"Run the decode HTTP API instead of decoding files"`
	Address     string `short:"l" long:"address" env:"LISTEN_ADDRESS" description:"Server listen address" default:":8080"`
	AuthToken   string `short:"t" long:"auth-token" env:"AUTH_TOKEN" description:"Admin authentication token"`
	MaxBodySize int64  `long:"max-body-size" env:"MAX_BODY_SIZE" description:"Max body size for incoming requests" default:"65536"`
	TrustProxy  bool   `long:"trust-proxy" env:"TRUST_PROXY" description:"Trust X-Forwarded-For headers"`
}

// Storage holds database configuration.
type Storage struct {
	// betteralign:ignore

	Path          string        `short:"d" long:"path" env:"PATH" description:"Path to SQLite database" default:"a2sdecode.db"`
	Archive       bool          `long:"archive" env:"ARCHIVE" description:"Store decode results in the database"`
	PruneBefore   time.Duration `long:"prune-before" description:"Delete records last seen longer ago than this"`
	PruneFailed   bool          `long:"prune-failed" description:"Delete records of datagrams that failed to decode"`
	Redecode      bool          `long:"redecode" description:"Decode archived payloads again with this build"`
	GenerateCount int           `long:"gen-fake-data" hidden:"true"`
}

// GeoIP holds MaxMind GeoIP configuration.
type GeoIP struct {
	// betteralign:ignore

	Path     string        `short:"g" long:"path" env:"PATH" description:"Path to MMDB file" default:"a2sdecode.mmdb"`
	URL      string        `long:"url" env:"URL" description:"URL to download MMDB" default:"https://git.io/GeoLite2-Country.mmdb"`
	Interval time.Duration `long:"interval" env:"INTERVAL" description:"Update interval check" default:"24h"`
	Disable  bool          `long:"disable" env:"DISABLE" description:"Skip country lookup of datagram sources"`
}

// RateLimit holds API rate limiting configuration.
type RateLimit struct {
	// betteralign:ignore

	HardLimitCount int           `long:"hard-count" env:"HARD_COUNT" description:"Hard IP limit: requests count" default:"120"`
	HardLimitWin   time.Duration `long:"hard-window" env:"HARD_WINDOW" description:"Hard IP limit: window duration" default:"1m"`
	SoftLimitDur   time.Duration `long:"soft" env:"SOFT" description:"Soft limit: do not archive an identical datagram again within duration" default:"1m"`
}

// Parse reads the configuration from flags and environment variables.
// It terminates the application if the configuration is invalid or if the help flag is invoked.
func Parse() *Config {
	cfg, err := ParseArgs(os.Args[1:])
	if err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	if cfg.Version {
		vars.Print(os.Stdout)
		os.Exit(0)
	}

	return cfg
}

// ParseArgs parses args and environment variables and validates the result.
func ParseArgs(args []string) (*Config, error) {
	var cfg Config
	parser := flags.NewParser(&cfg, flags.Default)
	parser.NamespaceDelimiter = "-"

	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}

	if cfg.Version {
		return &cfg, nil
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Serve && c.Server.AuthToken == "" {
		return errors.New("required flag `-t, --auth-token' or environment variable `A2S_AUTH_TOKEN` was not specified")
	}

	if !c.Server.Serve && !c.Maintenance() && len(c.Args.Files) == 0 {
		return errors.New("no input files given")
	}

	return nil
}

// Maintenance reports whether a database task was requested instead of decoding.
func (c *Config) Maintenance() bool {
	return c.Storage.PruneBefore > 0 || c.Storage.PruneFailed || c.Storage.Redecode || c.Storage.GenerateCount > 0
}

// FragmentOptions returns the split packet layout for servers whose app is not known from an INFO response.
func (c *Config) FragmentOptions() a2s.FragmentOptions {
	opts := a2s.FragmentOptions{Dialect: a2s.FragmentSource}
	if c.Decode.Dialect == "goldsource" {
		opts.Dialect = a2s.FragmentGoldSource
		return opts
	}

	if c.Decode.AppID != 0 {
		opts = a2s.OptionsForApp(c.Decode.AppID, c.Decode.Protocol)
	}
	if c.Decode.OmitSize {
		opts.OmitSize = true
	}

	return opts
}

// Pipeline returns the decoding options.
func (c *Config) Pipeline() inspect.Options {
	completion := a2s.Strict
	if c.Decode.Lenient {
		completion = a2s.Lenient
	}

	return inspect.Options{
		Fragments:   c.FragmentOptions(),
		Completion:  completion,
		FragmentTTL: c.Decode.FragmentTTL,
	}
}

// Files returns the options for reading input files.
func (c *Config) Files() inspect.FileOptions {
	return inspect.FileOptions{
		Format:  capture.Format(c.Input.Format),
		Ports:   c.Input.Ports,
		Workers: c.Input.Workers,
	}
}
