// Package scanner finds the Python sources under a set of paths, honoring
// the configured exclusions and .gitignore files.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/panbanda/pymetrics/pkg/config"
	"github.com/panbanda/pymetrics/pkg/parser"
)

// Scanner finds Python files in a directory.
type Scanner struct {
	config *config.Config
}

// NewScanner creates a new file scanner.
func NewScanner(cfg *config.Config) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Scanner{config: cfg}
}

// findGitRoot finds the root of the git repository by looking for .git directory.
// Returns empty string if not in a git repository.
func findGitRoot(start string) string {
	dir := start
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// matcher decides exclusion for paths below base.
type matcher struct {
	base string
	m    gitignore.Matcher
}

func (m *matcher) excluded(absPath string, isDir bool) bool {
	rel, err := filepath.Rel(m.base, absPath)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return false
	}
	return m.m.Match(strings.Split(rel, string(filepath.Separator)), isDir)
}

// newMatcher combines the config exclusions with every .gitignore of the
// enclosing repository. Config patterns use gitignore syntax and excluded
// directories match at any depth.
func (s *Scanner) newMatcher(absRoot string) *matcher {
	var patterns []gitignore.Pattern
	for _, dir := range s.config.Exclude.Dirs {
		patterns = append(patterns, gitignore.ParsePattern(strings.TrimSuffix(dir, "/")+"/", nil))
	}
	for _, pattern := range s.config.Exclude.Patterns {
		patterns = append(patterns, gitignore.ParsePattern(pattern, nil))
	}

	base := absRoot
	if s.config.Exclude.Gitignore {
		if gitRoot := findGitRoot(absRoot); gitRoot != "" {
			base = gitRoot
			if gitPatterns, err := gitignore.ReadPatterns(osfs.New(gitRoot), nil); err == nil {
				patterns = append(patterns, gitPatterns...)
			}
		}
	}

	return &matcher{base: base, m: gitignore.NewMatcher(patterns)}
}

// ScanDir recursively scans a directory for Python files. Symlinks that
// resolve outside root are skipped.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	walkRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	absRoot, err := filepath.EvalSymlinks(walkRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	m := s.newMatcher(walkRoot)
	files := make([]string, 0, 256)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				return nil
			}
		}

		if d.IsDir() {
			if path != root && m.excluded(abs, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if m.excluded(abs, false) {
			return nil
		}
		if parser.DetectLanguage(path) == parser.LangPython {
			files = append(files, path)
		}
		return nil
	})

	return files, walkErr
}

// isWithinRoot checks if a path is contained within the root directory.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)
	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}

// ScanFile checks if a single file should be analyzed. Files named
// explicitly are only subject to the config patterns, not to .gitignore.
func (s *Scanner) ScanFile(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, nil
	}
	if s.config.ShouldExclude(path) {
		return false, nil
	}
	return parser.DetectLanguage(path) == parser.LangPython, nil
}

// ScanPaths expands a mix of files and directories into a sorted,
// de-duplicated list of Python files.
func (s *Scanner) ScanPaths(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, clean)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", path, err)
		}
		if !info.IsDir() {
			ok, err := s.ScanFile(path)
			if err != nil {
				return nil, err
			}
			if ok {
				add(path)
			}
			continue
		}

		found, err := s.ScanDir(path)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", path, err)
		}
		for _, f := range found {
			add(f)
		}
	}

	sort.Strings(files)
	return files, nil
}

// FilterBySize filters files that exceed the configured maximum size.
// Returns the filtered list and the count of files that were skipped.
// If maxSize is 0, returns the original list unchanged.
func FilterBySize(files []string, maxSize int64) ([]string, int) {
	if maxSize <= 0 {
		return files, 0
	}

	filtered := make([]string, 0, len(files))
	skipped := 0
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil || info.Size() > maxSize {
			skipped++
			continue
		}
		filtered = append(filtered, f)
	}
	return filtered, skipped
}
