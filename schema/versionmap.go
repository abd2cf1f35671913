package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadVersionMap reads a YAML file mapping specification versions to schema
// file paths.
func LoadVersionMap(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read version map %s: %w", path, err)
	}

	versions := make(map[string]string)
	if err := yaml.Unmarshal(data, &versions); err != nil {
		return nil, fmt.Errorf("%s is not a valid YAML mapping 'version: path': %w", path, err)
	}
	return versions, nil
}

// ResolveVersion returns the schema file path for a version. Relative paths
// in the map are resolved against the directory containing the map file.
// An unknown version error lists the available versions sorted.
func ResolveVersion(mapPath, version string) (string, error) {
	versions, err := LoadVersionMap(mapPath)
	if err != nil {
		return "", err
	}

	target, ok := versions[version]
	if !ok {
		keys := make([]string, 0, len(versions))
		for k := range versions {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		available := "(no entries)"
		if len(keys) > 0 {
			available = strings.Join(keys, ", ")
		}
		return "", fmt.Errorf("version '%s' was not found in %s; available versions: %s",
			version, mapPath, available)
	}

	if filepath.IsAbs(target) {
		return target, nil
	}
	return filepath.Join(filepath.Dir(mapPath), target), nil
}

// FindVersionMap searches for the version map file in several locations so
// validation works regardless of the working directory: the given path as-is
// (absolute, or relative to the current directory), the input document's
// directory, then the executable's directory and its ancestors. The first
// existing candidate wins; the error lists every path tried.
func FindVersionMap(original, inputPath string) (string, error) {
	var candidates []string

	if filepath.IsAbs(original) {
		candidates = append(candidates, original)
	} else {
		if cwd, err := os.Getwd(); err == nil {
			candidates = append(candidates, filepath.Join(cwd, original))
		}
		candidates = append(candidates, original)

		if dir := filepath.Dir(inputPath); inputPath != "" && dir != "" {
			candidates = append(candidates, filepath.Join(dir, original))
		}

		if exe, err := os.Executable(); err == nil {
			dir := filepath.Dir(exe)
			for {
				candidates = append(candidates, filepath.Join(dir, original))
				parent := filepath.Dir(dir)
				if parent == dir {
					break
				}
				dir = parent
			}
		}
	}

	// Remove duplicates while keeping order.
	seen := make(map[string]struct{}, len(candidates))
	unique := candidates[:0]
	for _, candidate := range candidates {
		if _, dup := seen[candidate]; dup {
			continue
		}
		seen[candidate] = struct{}{}
		unique = append(unique, candidate)
	}

	tried := make([]string, 0, len(unique))
	for _, candidate := range unique {
		tried = append(tried, candidate)
		if _, err := os.Stat(candidate); err == nil {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return "", fmt.Errorf("failed to resolve path %s: %w", candidate, err)
			}
			return abs, nil
		}
	}

	return "", fmt.Errorf("could not find the version map '%s' in any location; checked: %s",
		original, strings.Join(tried, ", "))
}
