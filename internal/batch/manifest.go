// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"go.yaml.in/yaml/v3"
)

// Manifest lists the datasets swept in one batch invocation.
//
//	input_dir: proteins_screening
//	datasets:
//	  - name: TJL_S
//	  - name: DDS_I
//	    input: custom/dds_inhibitors.csv
type Manifest struct {
	InputDir string    `yaml:"input_dir"`
	Datasets []Dataset `yaml:"datasets"`
}

// Dataset is one input table and the name its artifacts are written under.
type Dataset struct {
	Name  string `yaml:"name"`
	Input string `yaml:"input,omitempty"`
}

// InputPath resolves the dataset's CSV. Without an explicit input the path
// is <input_dir>/<prefix>/<name>.csv, where prefix is the name up to its
// first underscore ("TJL_S" → "TJL/TJL_S.csv").
func (d Dataset) InputPath(inputDir string) string {
	if d.Input != "" {
		if filepath.IsAbs(d.Input) {
			return d.Input
		}
		return filepath.Join(inputDir, d.Input)
	}
	prefix, _, _ := strings.Cut(d.Name, "_")
	return filepath.Join(inputDir, prefix, d.Name+".csv")
}

// LoadManifest reads and validates a manifest YAML file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading manifest %s", path)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "parsing manifest %s", path)
	}
	if err := m.Validate(); err != nil {
		return nil, errors.Wrapf(err, "manifest %s", path)
	}
	return &m, nil
}

// Validate checks that every dataset has a unique, path-safe name.
func (m *Manifest) Validate() error {
	if len(m.Datasets) == 0 {
		return errors.New("no datasets listed")
	}
	seen := make(map[string]bool, len(m.Datasets))
	for i, d := range m.Datasets {
		if strings.TrimSpace(d.Name) == "" {
			return errors.Newf("dataset %d has no name", i+1)
		}
		if strings.ContainsAny(d.Name, `/\`) {
			return errors.Newf("dataset name %q must not contain path separators", d.Name)
		}
		if seen[d.Name] {
			return errors.Newf("dataset %q listed twice", d.Name)
		}
		seen[d.Name] = true
	}
	return nil
}
