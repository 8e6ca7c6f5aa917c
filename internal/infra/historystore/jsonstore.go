package historystore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aalvaropc/wallclock/internal/domain"
	"github.com/aalvaropc/wallclock/internal/ports"
)

const (
	defaultHistoryDir = "history"
	indexFile         = "index.jsonl"
)

type JSONStore struct {
	rootDir    string
	historyDir string
	writeIndex bool
	now        func() time.Time
}

type Option func(*JSONStore)

// WithIndex enables a JSONL index: history/index.jsonl
func WithIndex(enabled bool) Option {
	return func(s *JSONStore) { s.writeIndex = enabled }
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(s *JSONStore) { s.now = now }
}

func NewJSONStore(root string, cfg domain.Config, opts ...Option) *JSONStore {
	dir := cfg.Paths.HistoryDir
	if strings.TrimSpace(dir) == "" {
		dir = defaultHistoryDir
	}

	s := &JSONStore{
		rootDir:    root,
		historyDir: dir,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.HistoryStore = (*JSONStore)(nil)

// Dir is where runs are written.
func (s *JSONStore) Dir() string {
	if filepath.IsAbs(s.historyDir) {
		return s.historyDir
	}
	return filepath.Join(s.rootDir, s.historyDir)
}

func (s *JSONStore) SaveRun(run domain.BatchRun) (string, error) {
	dir := s.Dir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &domain.OpError{
			Op:   "historystore.mkdir",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	ts := run.StartedAt
	if ts.IsZero() {
		ts = s.now()
		run.StartedAt = ts
	}
	ts = ts.UTC()

	name := run.BatchName
	if strings.TrimSpace(name) == "" {
		name = strings.TrimSuffix(filepath.Base(run.BatchPath), filepath.Ext(run.BatchPath))
	}
	slug := slugify(name)
	if slug == "" {
		slug = "run"
	}

	b, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return "", &domain.OpError{
			Op:   "historystore.marshal",
			Kind: domain.KindExecution,
			Err:  err,
		}
	}

	id, path, err := reserve(dir, fmt.Sprintf("%s_%s", ts.Format("20060102T150405Z"), slug))
	if err != nil {
		return "", &domain.OpError{
			Op:   "historystore.reserve",
			Kind: domain.KindExecution,
			Path: dir,
			Err:  err,
		}
	}

	// tmp then rename, so readers never see a partial file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		_ = os.Remove(path)
		return "", &domain.OpError{
			Op:   "historystore.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		_ = os.Remove(path)
		return "", &domain.OpError{
			Op:   "historystore.rename",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	if s.writeIndex {
		_ = s.appendIndex(dir, IndexEntry{
			ID:        id,
			File:      filepath.Base(path),
			Batch:     run.BatchName,
			Source:    run.Source,
			Entries:   len(run.Results),
			Failures:  run.Failures(),
			StartedAt: run.StartedAt,
		})
	}

	return id, nil
}

// reserve claims base.json, or base_2.json, base_3.json... when taken.
func reserve(dir, base string) (string, string, error) {
	for n := 1; n < 1000; n++ {
		id := base
		if n > 1 {
			id = fmt.Sprintf("%s_%d", base, n)
		}
		path := filepath.Join(dir, id+".json")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", "", err
		}
		_ = f.Close()
		return id, path, nil
	}
	return "", "", fmt.Errorf("too many runs named %s", base)
}

// IndexEntry is one line of index.jsonl.
type IndexEntry struct {
	ID        string    `json:"id"`
	File      string    `json:"file"`
	Batch     string    `json:"batch"`
	Source    string    `json:"source"`
	Entries   int       `json:"entries"`
	Failures  int       `json:"failures"`
	StartedAt time.Time `json:"started_at"`
}

func (s *JSONStore) appendIndex(dir string, e IndexEntry) error {
	line, err := json.Marshal(e)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, indexFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}

// LoadRun reads a saved run back by id.
func (s *JSONStore) LoadRun(id string) (domain.BatchRun, error) {
	path := filepath.Join(s.Dir(), id+".json")
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.BatchRun{}, &domain.OpError{
			Op:   "historystore.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}
	var run domain.BatchRun
	if err := json.Unmarshal(b, &run); err != nil {
		return domain.BatchRun{}, &domain.OpError{
			Op:   "historystore.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}
	return run, nil
}

// slugify produces a safe filename component.
func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
