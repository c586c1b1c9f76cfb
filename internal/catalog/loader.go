// Reelmatch - Film Search and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Seed file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// LoadFile reads a seed catalog. The format follows the file extension:
// .json, .yaml or .yml.
func LoadFile(path string) (Data, error) {
	format, err := formatFor(path)
	if err != nil {
		return Data{}, err
	}

	f, err := os.Open(path) //nolint:gosec // path comes from operator configuration
	if err != nil {
		return Data{}, fmt.Errorf("open seed catalog: %w", err)
	}
	defer f.Close()

	d, err := Decode(f, format)
	if err != nil {
		return Data{}, fmt.Errorf("load %s: %w", path, err)
	}
	return d, nil
}

// Decode reads catalog data in the given format. Unknown JSON fields are
// rejected.
func Decode(r io.Reader, format string) (Data, error) {
	var d Data
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return Data{}, fmt.Errorf("%w: decode json catalog: %v", ErrInvalidInput, err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&d); err != nil && !errors.Is(err, io.EOF) {
			return Data{}, fmt.Errorf("%w: decode yaml catalog: %v", ErrInvalidInput, err)
		}
	default:
		return Data{}, fmt.Errorf("%w: unknown catalog format %q", ErrInvalidInput, format)
	}
	return d, nil
}

func formatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unsupported seed catalog extension %q", ErrInvalidInput, filepath.Ext(path))
	}
}
