package configutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// localName turns omnivox.json5 into omnivox.local.json5.
func localName(name string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + ".local" + ext
}

// readFile decodes a single json5 file into out, it reports false without
// an error when the file doesn't exist.
func readFile[T any](path string, out *T) (bool, error) {
	contents, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	err = json5.Unmarshal(contents, out)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

// ReadConfig reads <name>.<ext> and then <name>.local.<ext> on top of it, the
// local file is meant to stay out of version control (it holds credentials).
// It fails with os.ErrNotExist if neither exists.
func ReadConfig[T any](name string) (T, error) {
	var out T
	found, err := readFile(name, &out)
	if err != nil {
		return out, err
	}

	var local T
	localPath := localName(name)
	foundLocal, err := readFile(localPath, &local)
	if err != nil {
		return out, err
	}
	if foundLocal {
		out, err = Overlay(out, local)
		if err != nil {
			return out, err
		}
		slog.Debug("merged config with local overrides", "local", localPath)
	}

	if !found && !foundLocal {
		return out, os.ErrNotExist
	}
	return out, nil
}

// ReadRecursively looks for name in the working directory and then in each of
// its parents up to the root.
func ReadRecursively[T any](name string) (T, error) {
	var empty T

	current, err := os.Getwd()
	if err != nil {
		return empty, err
	}
	for {
		config, err := ReadConfig[T](filepath.Join(current, name))
		if !errors.Is(err, os.ErrNotExist) {
			return config, err
		}
		parent := filepath.Dir(current)
		if parent == current {
			return empty, os.ErrNotExist
		}
		current = parent
	}
}

// Overlay merges every non-zero field of override on top of base.
func Overlay[T any](base T, override T) (T, error) {
	err := mergo.Merge(&base, override, mergo.WithOverride)
	return base, err
}

// Load reads the configuration file if there is one, a bare file name is
// searched for upward from the working directory. The layers are applied on
// top of it in order, so the last one wins.
func Load[T any](name string, layers ...T) (T, error) {
	read := ReadConfig[T]
	if filepath.Base(name) == name {
		read = ReadRecursively[T]
	}
	cfg, err := read(name)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, err
	}

	for _, layer := range layers {
		cfg, err = Overlay(cfg, layer)
		if err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}
