package domain

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"traitmut.dev/pkg/traitmut/internal/adapter"
	m "traitmut.dev/pkg/traitmut/internal/model"
)

const (
	rustExt          = ".rs"
	recursiveSuffix  = "/..."
	defaultSeedsPath = "./..."
	gitignoreFile    = ".gitignore"
)

// skippedDirs are never descended into when collecting seeds.
var skippedDirs = map[string]bool{
	"target":       true,
	".git":         true,
	"node_modules": true,
}

// collectSeeds resolves path patterns into the sorted, de-duplicated list of
// Rust seed files. A path ending in "/..." is scanned recursively, a
// directory only at its top level, and a file is taken as is. Files whose
// path or base name matches one of the exclude regexes are dropped, and so
// are walked files ignored by the .gitignore at the root of their pattern.
func collectSeeds(fs adapter.SourceFSAdapter, paths []m.Path, exclude []string) ([]m.File, error) {
	if len(paths) == 0 {
		paths = []m.Path{defaultSeedsPath}
	}

	excludes, err := compileExcludes(exclude)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]m.Path)

	for _, p := range paths {
		root, recursive := splitPattern(string(p))

		info, err := fs.FileInfo(m.Path(root))
		if err != nil {
			return nil, fmt.Errorf("root path error: %w", err)
		}

		if !info.IsDir() {
			if !isExcluded(root, excludes) {
				seen[filepath.Clean(root)] = m.Path(filepath.Base(root))
			}

			continue
		}

		gi := loadGitignore(fs, root)

		err = fs.Walk(m.Path(root), recursive, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() {
				if path != root && skippedDirs[info.Name()] {
					return filepath.SkipDir
				}

				return nil
			}

			if filepath.Ext(path) != rustExt || isExcluded(path, excludes) {
				return nil
			}

			short, relErr := fs.RelPath(m.Path(root), m.Path(path))
			if relErr != nil {
				short = m.Path(path)
			}

			if gi != nil && gi.MatchesPath(filepath.ToSlash(string(short))) {
				slog.Debug("seed ignored by gitignore", "path", path)
				return nil
			}

			seen[filepath.Clean(path)] = short

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	seeds := make([]m.File, 0, len(keys))

	for _, k := range keys {
		hash, err := fs.HashFile(m.Path(k))
		if err != nil {
			return nil, fmt.Errorf("hash error for %s: %w", k, err)
		}

		seeds = append(seeds, m.File{Path: m.Path(k), ShortPath: seen[k], Hash: hash})
	}

	slog.Debug("seeds collected", "paths", paths, "count", len(seeds))

	return seeds, nil
}

// loadGitignore compiles root/.gitignore, or returns nil when there is none.
func loadGitignore(fs adapter.SourceFSAdapter, root string) *ignore.GitIgnore {
	content, err := fs.ReadFile(fs.JoinPath(root, gitignoreFile))
	if err != nil {
		return nil
	}

	return ignore.CompileIgnoreLines(strings.Split(string(content), "\n")...)
}

func splitPattern(p string) (string, bool) {
	if p == "..." {
		return ".", true
	}

	if root, ok := strings.CutSuffix(p, recursiveSuffix); ok {
		if root == "" {
			root = "/"
		}

		return root, true
	}

	return p, false
}

func compileExcludes(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))

	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}

		out = append(out, re)
	}

	return out, nil
}

func isExcluded(path string, excludes []*regexp.Regexp) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)

	for _, re := range excludes {
		if re.MatchString(slashed) || re.MatchString(base) {
			return true
		}
	}

	return false
}
