package server

import (
	"sync"
	"time"

	"github.com/woozymasta/a2sdecode/internal/geoip"
	"github.com/woozymasta/a2sdecode/internal/inspect"
	"github.com/woozymasta/a2sdecode/internal/storage"
)

// Server holds the dependencies, configuration, and runtime state required
// to handle HTTP requests and background archiving.
type Server struct {
	// storage archives decode results. It is nil when archiving is disabled.
	storage *storage.Repository

	// geoip resolves datagram sources to country codes. It can be nil.
	geoip *geoip.Provider

	// pipeline decodes posted datagrams. Split responses posted one fragment
	// per request are joined per source.
	pipeline *inspect.Pipeline

	// queue passes results from HTTP handlers to the archive workers.
	queue chan archiveJob

	// shutdown is closed to stop background goroutines.
	shutdown chan struct{}

	// queueMu guards sends on queue against StopWorkers closing it.
	queueMu sync.RWMutex
	closed  bool

	// seenCache maps result fingerprints to the time they were last archived.
	// It backs the soft limit that keeps a polling client from writing the same response over and over.
	seenCache sync.Map

	// authToken is the secret token required to access the records API.
	authToken string

	// session groups every record archived by this process.
	session string

	wg sync.WaitGroup

	// maxBody is the maximum accepted request body in bytes.
	maxBody int64

	// hardLimitCount is the maximum number of requests allowed per IP address
	// within the hardLimitWin duration.
	hardLimitCount int

	// hardLimitWin is the time window duration for the hard rate limiter.
	hardLimitWin time.Duration

	// softLimitDur is how long an identical result is not archived again.
	softLimitDur time.Duration

	// trustProxy indicates whether the server should trust headers like X-Forwarded-For
	// or CF-Connecting-IP when determining the client's real IP address.
	trustProxy bool

	// archive is set when results are written to storage.
	archive bool
}

// archiveJob is a decoded result waiting to be written to storage.
type archiveJob struct {
	Result inspect.Result
}
