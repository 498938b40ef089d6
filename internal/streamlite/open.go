package streamlite

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/dsjohal14/transitlaw/internal/offline"
	"github.com/dsjohal14/transitlaw/internal/scope/db"
	"github.com/rs/zerolog"
)

// Options selects and configures a Source
type Options struct {
	// Location is "embed", "postgres", an http(s) base URL or a directory
	Location    string
	DatabaseURL string
	Embedded    fs.FS

	// CacheEntries > 0 puts HTTP sources behind the offline cache
	CacheEntries int
	Timeout      time.Duration
	Logger       zerolog.Logger
}

// Open builds the Source described by opts. The returned close function
// releases any connection the source holds and is never nil.
func Open(ctx context.Context, opts Options) (Source, func(), error) {
	noop := func() {}
	location := strings.TrimSpace(opts.Location)

	switch {
	case location == "" || strings.EqualFold(location, "embed"):
		if opts.Embedded == nil {
			return nil, noop, fmt.Errorf("no embedded corpus available")
		}
		return &FSSource{FS: opts.Embedded, Label: "embed"}, noop, nil

	case strings.EqualFold(location, "postgres"):
		if opts.DatabaseURL == "" {
			return nil, noop, fmt.Errorf("postgres source requires a database URL")
		}
		d, err := db.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, noop, err
		}
		return &PostgresSource{DB: d}, d.Close, nil

	case strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://"):
		client, err := httpClient(location, opts)
		if err != nil {
			return nil, noop, err
		}
		return &HTTPSource{BaseURL: location, Client: client}, noop, nil

	default:
		info, err := os.Stat(location)
		if err != nil {
			return nil, noop, fmt.Errorf("corpus directory: %w", err)
		}
		if !info.IsDir() {
			return nil, noop, fmt.Errorf("corpus source %s is not a directory", location)
		}
		return &FileSource{Dir: location}, noop, nil
	}
}

func httpClient(location string, opts Options) (*http.Client, error) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if opts.CacheEntries <= 0 {
		return &http.Client{Timeout: timeout}, nil
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("invalid corpus URL: %w", err)
	}
	tr, err := offline.NewTransport(u.Scheme+"://"+u.Host, opts.CacheEntries, offline.WithLogger(opts.Logger))
	if err != nil {
		return nil, err
	}
	return tr.Client(timeout), nil
}
