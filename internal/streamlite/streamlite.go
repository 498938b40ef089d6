// Package streamlite provides the connectors that fetch raw corpus bytes
// from local files, the embedded bundle, HTTP or Postgres.
package streamlite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dsjohal14/transitlaw/internal/scope/db"
)

// ErrInvalidName is returned for names that would escape the source root
var ErrInvalidName = errors.New("invalid corpus name")

// maxBodySize bounds an HTTP corpus download
const maxBodySize = 64 << 20

// Source fetches raw corpus bytes by name
type Source interface {
	Name() string
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// FileSource reads corpus files from a local directory
type FileSource struct {
	Dir string
}

// Name returns the connector name
func (s *FileSource) Name() string {
	return "file:" + s.Dir
}

// Fetch reads Dir/name
func (s *FileSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.Dir, filepath.FromSlash(clean)))
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file: %w", err)
	}
	return data, nil
}

// FSSource reads corpus files from an fs.FS, typically the embedded bundle
type FSSource struct {
	FS    fs.FS
	Label string
}

// Name returns the connector name
func (s *FSSource) Name() string {
	if s.Label != "" {
		return s.Label
	}
	return "fs"
}

// Fetch reads name from the file system
func (s *FSSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(s.FS, clean)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded corpus: %w", err)
	}
	return data, nil
}

// HTTPSource downloads corpus files relative to a base URL
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// Name returns the connector name
func (s *HTTPSource) Name() string {
	return s.BaseURL
}

// Fetch GETs BaseURL/name; any status other than 200 is an error
func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	base, err := url.Parse(strings.TrimSuffix(s.BaseURL, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	clean, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	target := base.ResolveReference(&url.URL{Path: clean})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/x-ndjson, application/json;q=0.9, */*;q=0.1")

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch corpus: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch corpus: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus body: %w", err)
	}
	return data, nil
}

// CorpusStore is the read side of the database used by PostgresSource
type CorpusStore interface {
	CorpusFile(ctx context.Context, name string) ([]byte, error)
}

var _ CorpusStore = (*db.DB)(nil)

// PostgresSource reads corpus files stored in the corpus_files table
type PostgresSource struct {
	DB CorpusStore
}

// Name returns the connector name
func (s *PostgresSource) Name() string {
	return "postgres"
}

// Fetch loads the stored content for name
func (s *PostgresSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if s.DB == nil {
		return nil, errors.New("postgres source has no database")
	}
	return s.DB.CorpusFile(ctx, name)
}

// cleanName rejects absolute names and names that climb out of the root
func cleanName(name string) (string, error) {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	clean := path.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, "../") || !fs.ValidPath(clean) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return clean, nil
}
