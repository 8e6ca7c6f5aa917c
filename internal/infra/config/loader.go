package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aalvaropc/wallclock/internal/domain"
)

// LoadBatch reads and validates a batch file.
func LoadBatch(path string) (domain.Batch, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Batch{}, &domain.OpError{
			Op:   "config.load_batch",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var dto YAMLBatch
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return domain.Batch{}, &domain.OpError{
			Op:   "config.load_batch",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return MapBatch(path, dto)
}
