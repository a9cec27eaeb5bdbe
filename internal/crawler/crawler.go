package crawler

import (
	"fmt"
	"io/fs"
	"log"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"
)

// skippedDirs are never walked regardless of the configured patterns.
var skippedDirs = []string{".git", ".testmig"}

// compiledPattern keeps the source pattern next to its compiled form. For
// patterns with a `**/` prefix a simplified variant is compiled too so that
// `**/*.java` also matches files sitting directly in the root.
type compiledPattern struct {
	pattern  string
	glob     glob.Glob
	rootGlob glob.Glob
}

func compilePatterns(kind string, patterns []string) ([]compiledPattern, error) {
	out := make([]compiledPattern, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s pattern %q: %w", kind, pattern, err)
		}
		cp := compiledPattern{pattern: pattern, glob: g}
		if strings.HasPrefix(pattern, "**/") {
			simplified, err := glob.Compile(strings.TrimPrefix(pattern, "**/"), '/')
			if err == nil {
				cp.rootGlob = simplified
			}
		}
		out = append(out, cp)
	}
	return out, nil
}

// Crawler discovers source files under a project root. Paths are matched
// relative to the root with forward slashes, include first, exclude second.
type Crawler struct {
	includes []compiledPattern
	excludes []compiledPattern
}

func NewCrawler(includes, excludes []string) (*Crawler, error) {
	inc, err := compilePatterns("include", includes)
	if err != nil {
		return nil, err
	}
	exc, err := compilePatterns("exclude", excludes)
	if err != nil {
		return nil, err
	}
	return &Crawler{includes: inc, excludes: exc}, nil
}

// Discover walks root and returns the matching file paths sorted
// lexicographically. An unreadable root is fatal; unreadable subdirectories
// are skipped with a warning so one bad permission bit cannot sink a run.
func (c *Crawler) Discover(root string) ([]string, error) {
	files := []string{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return fmt.Errorf("failed to read project root %s: %w", root, err)
			}
			log.Printf("⚠️ Skipping unreadable path %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if containsName(skippedDirs, d.Name()) {
				return filepath.SkipDir
			}
			if rel != "." && c.excluded(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if c.excluded(rel) {
			return nil
		}
		if matchesAny(rel, c.includes) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// excluded reports whether rel, or the subtree rooted at rel, matches an
// exclude pattern. The `/**` probe lets a directory short-circuit patterns
// written as `**/target/**`.
func (c *Crawler) excluded(rel string) bool {
	if matchesAny(rel, c.excludes) {
		return true
	}
	return matchesAny(rel+"/**", c.excludes)
}

// matchesAny tries the full pattern first, then the simplified variant. The
// simplified glob covers root-level entries, which `**/`-prefixed patterns
// never match because the leading separator has nothing to consume.
func matchesAny(path string, patterns []compiledPattern) bool {
	for _, cp := range patterns {
		if cp.glob.Match(path) {
			return true
		}
		if cp.rootGlob != nil && cp.rootGlob.Match(path) {
			return true
		}
	}
	return false
}

func containsName(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}
