package generator

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"

	"github.com/klothoplatform/displaygen/pkg/set"
)

// Inputs expands paths into the Go source files to process. Directories contribute the files matching any include
// pattern; explicitly named files are always taken. Files matching an exclude pattern, either by their path relative
// to the directory or by their base name, are left out.
func Inputs(paths, include, exclude []string) ([]string, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	seen := make(set.Set[string])
	var inputs []string
	add := func(path string) {
		path = filepath.Clean(path)
		if seen.AddNew(path) {
			inputs = append(inputs, path)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, errors.Wrapf(err, "could not read input %s", p)
		}
		if !info.IsDir() {
			if !excluded(exclude, filepath.Base(p), filepath.Base(p)) {
				add(p)
			}
			continue
		}

		for _, pattern := range include {
			matches, err := doublestar.Glob(os.DirFS(p), filepath.ToSlash(pattern))
			if err != nil {
				return nil, errors.Wrapf(err, "invalid include pattern %q", pattern)
			}
			for _, m := range matches {
				if !strings.HasSuffix(m, ".go") || excluded(exclude, m, filepath.Base(m)) {
					continue
				}
				add(filepath.Join(p, filepath.FromSlash(m)))
			}
		}
	}
	sort.Strings(inputs)
	return inputs, nil
}

func excluded(patterns []string, rel, base string) bool {
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.Match(pattern, filepath.ToSlash(rel)); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}

// OutputPath is where the code generated for the source file path is written.
func OutputPath(path, suffix string) string {
	base := strings.TrimSuffix(filepath.Base(path), ".go")
	return filepath.Join(filepath.Dir(path), base+suffix)
}
