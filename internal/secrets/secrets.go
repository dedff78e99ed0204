// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials from a directory of plain-text files.
// The file name is the key and the trimmed contents are the value, so
// credentials stay out of seqref.yaml and shell history.
//
// Recognized keys: ncbi-api-key, ncbi-email.
package secrets

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/pdiddy/seqref/pkg/types"
)

const (
	// NCBIAPIKey raises the E-utilities rate ceiling when present.
	NCBIAPIKey = "ncbi-api-key"
	// NCBIEmail identifies the caller to NCBI.
	NCBIEmail = "ncbi-email"
)

// Secrets maps key names to values.
type Secrets map[string]string

// Load reads every regular, non-hidden file in dir. A missing directory
// yields an empty set. Files that cannot be read are logged and skipped.
func Load(dir string, logger *zap.Logger) (Secrets, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Secrets{}, nil
		}
		return nil, errors.Wrapf(err, "reading secrets directory %s", dir)
	}

	s := make(Secrets)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", zap.String("key", name), zap.Error(err))
			continue
		}
		if v := strings.TrimSpace(string(data)); v != "" {
			s[name] = v
		}
	}
	return s, nil
}

// ApplyNCBI fills the NCBI credentials in cfg that are not already set.
// Values from configuration or environment take precedence.
func (s Secrets) ApplyNCBI(cfg *types.NCBIConfig) {
	if cfg.APIKey == "" {
		cfg.APIKey = s[NCBIAPIKey]
	}
	if cfg.Email == "" {
		cfg.Email = s[NCBIEmail]
	}
}
