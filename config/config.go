// Package config loads runner invocations from YAML job files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/perfgo/readyrun/model"
	"gopkg.in/yaml.v3"
)

// Load reads a job file. Relative paths in the file are resolved against
// the file's directory.
func Load(path string) (model.Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Params{}, fmt.Errorf("failed to read job file: %w", err)
	}

	var p model.Params
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return model.Params{}, fmt.Errorf("failed to parse job file %s: %w", path, err)
	}

	base := filepath.Dir(path)
	p.Workspace = resolve(base, p.Workspace)
	p.TestRunner = resolve(base, p.TestRunner)
	p.Project = resolve(base, p.Project)
	return p, nil
}

// Merge returns base with every non-empty field of override applied.
func Merge(base, override model.Params) model.Params {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&base.Workspace, override.Workspace)
	set(&base.TestRunner, override.TestRunner)
	set(&base.Project, override.Project)
	set(&base.ProjectPassword, override.ProjectPassword)
	set(&base.Environment, override.Environment)
	set(&base.TestSuite, override.TestSuite)
	set(&base.TestCase, override.TestCase)
	return base
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
