package connectors

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
)

var (
	// ErrNoInputs is returned when a directory holds no rankable files.
	ErrNoInputs = errors.New("no input files found")
	// ErrInvalidPattern is returned for an include or exclude pattern that
	// does not compile.
	ErrInvalidPattern = errors.New("invalid glob pattern")
)

// DefaultExtensions are the delimited-text extensions picked up in
// directory mode.
var DefaultExtensions = []string{".csv", ".tsv", ".txt"}

type FileMeta struct {
	Path     string
	Size     int64
	Modified time.Time
}

type DiscoveryOptions struct {
	Recursive  bool
	Extensions []string
	MinSize    int64
	MaxSize    int64
	// SkipSuffix excludes files whose base name (without extension) ends
	// with it, so earlier outputs are not ranked again.
	SkipSuffix string
	// Include and Exclude are glob patterns matched against the slash
	// separated path relative to the root, e.g. "drops/**.csv". A file must
	// match some Include pattern when any is given, and no Exclude pattern.
	Include []string
	Exclude []string
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	matchers := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		matcher, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, errors.Join(ErrInvalidPattern, err)
		}
		matchers = append(matchers, matcher)
	}
	return matchers, nil
}

func matchAny(matchers []glob.Glob, path string) bool {
	for _, m := range matchers {
		if m.Match(path) {
			return true
		}
	}
	return false
}

// DiscoverInputs lists the attribute tables under root in lexical order.
func DiscoverInputs(root string, options DiscoveryOptions) ([]FileMeta, error) {
	if root == "" {
		return nil, fmt.Errorf("root directory cannot be empty")
	}

	stat, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", root)
	}
	if err != nil {
		return nil, err
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	exts := options.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	include, err := compileGlobs(options.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compileGlobs(options.Exclude)
	if err != nil {
		return nil, err
	}

	var files []FileMeta
	walkFunc := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if d.IsDir() {
			if path != root && !options.Recursive {
				return filepath.SkipDir
			}
			return nil
		}

		if !matchExtension(path, exts) || skipped(path, options.SkipSuffix) {
			return nil
		}
		if rel, err := filepath.Rel(root, path); err == nil {
			rel = filepath.ToSlash(rel)
			if len(include) > 0 && !matchAny(include, rel) {
				return nil
			}
			if matchAny(exclude, rel) {
				return nil
			}
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("error getting file info for %s: %w", path, err)
		}
		if options.MinSize > 0 && info.Size() < options.MinSize {
			return nil
		}
		if options.MaxSize > 0 && info.Size() > options.MaxSize {
			return nil
		}

		files = append(files, FileMeta{
			Path:     path,
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
		return nil
	}

	if err := filepath.WalkDir(root, walkFunc); err != nil {
		return nil, fmt.Errorf("directory walk error: %w", err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInputs, root)
	}

	return files, nil
}

func matchExtension(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if strings.EqualFold(ext, "."+strings.TrimPrefix(e, ".")) {
			return true
		}
	}
	return false
}

func skipped(path, suffix string) bool {
	if suffix == "" {
		return false
	}
	base := filepath.Base(path)
	return strings.HasSuffix(strings.TrimSuffix(base, filepath.Ext(base)), suffix)
}
