package zipcode

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/spencer-p/lowtide/pkg/metrics"
)

const (
	GAZETTEER_URL    = "https://www2.census.gov/geo/docs/maps-data/data/gazetteer/2022_Gazetteer/2022_Gaz_zcta_national.zip"
	GAZETTEER_MEMBER = "2022_Gaz_zcta_national.txt"

	archiveName = "zipcode.zip"
	extractDir  = "zipcode"
)

// ErrTransport covers failures to download the gazetteer.
var ErrTransport = errors.New("gazetteer download error")

// Loader fetches the Census gazetteer once and keeps it under CacheDir.
type Loader struct {
	URL      string
	Member   string
	CacheDir string
	Client   *http.Client
}

// Load returns a Locator over the cached gazetteer, downloading and extracting
// it first if the cache does not hold it yet.
func (l *Loader) Load(ctx context.Context) (*Locator, error) {
	tsv := filepath.Join(l.CacheDir, extractDir, l.member())
	if _, err := os.Stat(tsv); err != nil {
		log.Printf("No cached gazetteer at %s, downloading %s", tsv, l.url())
		if err := l.download(ctx); err != nil {
			return nil, err
		}
		if err := l.extract(tsv); err != nil {
			return nil, err
		}
	}

	f, err := os.Open(tsv)
	if err != nil {
		return nil, fmt.Errorf("opening gazetteer: %w", err)
	}
	defer f.Close()

	rows, err := ParseGazetteer(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", tsv, err)
	}
	return NewLocator(rows)
}

func (l *Loader) download(ctx context.Context) error {
	if err := os.MkdirAll(l.CacheDir, 0o755); err != nil {
		return fmt.Errorf("creating cache: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url(), nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", l.url(), err)
	}
	resp, err := l.client().Do(req)
	if err != nil {
		metrics.ObserveUpstream("census_gazetteer", "error")
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		metrics.ObserveUpstream("census_gazetteer", "status")
		return fmt.Errorf("%w: %s answered %s", ErrTransport, l.url(), resp.Status)
	}

	// Only a complete archive is renamed into place.
	tmp, err := os.CreateTemp(l.CacheDir, archiveName+".*")
	if err != nil {
		return fmt.Errorf("creating cache file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		metrics.ObserveUpstream("census_gazetteer", "error")
		return fmt.Errorf("%w: reading body: %w", ErrTransport, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(l.CacheDir, archiveName)); err != nil {
		return fmt.Errorf("saving cache file: %w", err)
	}
	metrics.ObserveUpstream("census_gazetteer", "ok")
	log.Println("Downloaded gazetteer archive")
	return nil
}

// extract copies the gazetteer member out of the cached archive to dst.
func (l *Loader) extract(dst string) error {
	zr, err := zip.OpenReader(filepath.Join(l.CacheDir, archiveName))
	if err != nil {
		return fmt.Errorf("opening gazetteer archive: %v: %w", err, ErrInvalid)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if path.Base(f.Name) != l.member() {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("creating cache: %w", err)
		}
		return copyMember(f, dst)
	}
	return fmt.Errorf("archive has no %q: %w", l.member(), ErrInvalid)
}

func copyMember(f *zip.File, dst string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("opening %s: %v: %w", f.Name, err, ErrInvalid)
	}
	defer rc.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("extracting %s: %w", f.Name, err)
	}
	log.Println("Unzipped gazetteer")
	return out.Close()
}

func (l *Loader) url() string {
	if l.URL == "" {
		return GAZETTEER_URL
	}
	return l.URL
}

func (l *Loader) member() string {
	if l.Member == "" {
		return GAZETTEER_MEMBER
	}
	return l.Member
}

func (l *Loader) client() *http.Client {
	if l.Client == nil {
		return http.DefaultClient
	}
	return l.Client
}
