package tzif

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/aalvaropc/wallclock/internal/domain"
)

const Name = "tzif"

// Source serves offsets from the TZif files under one directory, such as
// /usr/share/zoneinfo. Decoded zones are cached; Source is safe for
// concurrent use.
type Source struct {
	dir string

	mu    sync.RWMutex
	zones map[domain.ZoneID]*Zone
}

func New(dir string) *Source {
	return &Source{dir: dir, zones: map[domain.ZoneID]*Zone{}}
}

func (s *Source) Dir() string { return s.dir }

func (s *Source) LookupOffset(zone domain.ZoneID, at domain.Instant) (domain.ZoneOffset, error) {
	z, err := s.Zone(zone)
	if err != nil {
		return domain.ZoneOffset{}, err
	}
	return z.Lookup(at), nil
}

// Zone loads and decodes the file for id.
func (s *Source) Zone(id domain.ZoneID) (*Zone, error) {
	const op = "tzif.load"

	s.mu.RLock()
	z, ok := s.zones[id]
	s.mu.RUnlock()
	if ok {
		return z, nil
	}

	if !validName(string(id)) {
		return nil, domain.UnknownZone(op, id, fmt.Errorf("%q is not a zone identifier", string(id)))
	}

	path := filepath.Join(s.dir, filepath.FromSlash(string(id)))
	data, err := readFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, errIsDir) {
			return nil, domain.UnknownZone(op, id, err)
		}
		return nil, &domain.OpError{Op: op, Kind: domain.KindExecution, Zone: id, Path: path, Err: err}
	}

	z, err = Decode(id, data)
	if err != nil {
		return nil, &domain.OpError{
			Op:   op,
			Kind: domain.KindInvalidConfig,
			Zone: id,
			Path: path,
			Err:  fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err),
		}
	}

	s.mu.Lock()
	s.zones[id] = z
	s.mu.Unlock()
	return z, nil
}

// ListZones walks the directory and returns every file that starts with
// the TZif magic. Following the tz database convention, entries whose name
// does not start with an upper-case letter (posixrules, localtime, the
// posix/ and right/ trees, *.tab files) are skipped.
func (s *Source) ListZones() ([]domain.ZoneID, error) {
	const op = "tzif.list"

	var out []domain.ZoneID
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == s.dir {
			return nil
		}
		if !startsUpper(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || strings.Contains(d.Name(), ".") {
			return nil
		}
		if !hasMagic(path) {
			return nil
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		out = append(out, domain.ZoneID(filepath.ToSlash(rel)))
		return nil
	})
	if err != nil {
		return nil, &domain.OpError{Op: op, Kind: domain.KindNotFound, Path: s.dir, Err: fmt.Errorf("%w: %v", domain.ErrNotFound, err)}
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

var errIsDir = errors.New("is a directory")

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, errIsDir
	}
	return io.ReadAll(io.LimitReader(f, maxFileSize+1))
}

func hasMagic(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, len(magic))
	if _, err := io.ReadFull(f, buf); err != nil {
		return false
	}
	return string(buf) == magic
}

// validName accepts relative slash-separated names without dot segments.
func validName(id string) bool {
	if id == "" || strings.HasPrefix(id, "/") || strings.Contains(id, "\\") {
		return false
	}
	for _, part := range strings.Split(id, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}

func startsUpper(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}
