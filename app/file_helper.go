package app

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// FileHelper collects source files for verification
type FileHelper struct {
	// extensions are the lowercase extensions treated as source
	extensions map[string]bool

	// respectGitignore skips files matched by a .gitignore at the
	// directory root being walked
	respectGitignore bool
}

// NewFileHelper creates a FileHelper for the given source extensions
func NewFileHelper(sourceExtensions []string, respectGitignore bool) *FileHelper {
	extensions := make(map[string]bool, len(sourceExtensions))
	for _, ext := range sourceExtensions {
		extensions[strings.ToLower(ext)] = true
	}
	return &FileHelper{
		extensions:       extensions,
		respectGitignore: respectGitignore,
	}
}

// CollectSourceFiles collects source files from the given paths.
// Explicit file paths are kept as-is when they carry a source
// extension; directories are expanded, honoring exclude patterns and,
// when enabled, a .gitignore at the directory root.
func (h *FileHelper) CollectSourceFiles(paths []string, recursive bool, excludePatterns []string) ([]string, error) {
	var files []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if h.IsSourceFile(path) && !h.isExcluded(path, excludePatterns) {
				files = append(files, path)
			}
			continue
		}

		collected, err := h.collectFromDir(path, recursive, excludePatterns)
		if err != nil {
			return nil, err
		}
		files = append(files, collected...)
	}

	return files, nil
}

// collectFromDir expands one directory
func (h *FileHelper) collectFromDir(root string, recursive bool, excludePatterns []string) ([]string, error) {
	var matcher *ignore.GitIgnore
	if h.respectGitignore {
		if gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore")); err == nil {
			matcher = gi
		}
	}

	ignored := func(path string) bool {
		if matcher == nil {
			return false
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return false
		}
		return matcher.MatchesPath(rel)
	}

	var files []string
	if recursive {
		err := filepath.Walk(root, func(filePath string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() {
				if filePath != root && (h.isExcludedDir(filePath, excludePatterns) || ignored(filePath)) {
					return filepath.SkipDir
				}
				return nil
			}

			if h.IsSourceFile(filePath) && !h.isExcluded(filePath, excludePatterns) && !ignored(filePath) {
				files = append(files, filePath)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return files, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		filePath := filepath.Join(root, entry.Name())
		if h.IsSourceFile(filePath) && !h.isExcluded(filePath, excludePatterns) && !ignored(filePath) {
			files = append(files, filePath)
		}
	}
	return files, nil
}

// IsSourceFile checks the extension against the configured source set
func (h *FileHelper) IsSourceFile(path string) bool {
	return h.extensions[strings.ToLower(filepath.Ext(path))]
}

// FileExists checks if a file exists and is not a directory
func (h *FileHelper) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// ReadFile reads file content
func (h *FileHelper) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// isExcludedDir checks a directory against the exclude patterns
func (h *FileHelper) isExcludedDir(path string, excludePatterns []string) bool {
	dirName := filepath.Base(path)
	for _, pattern := range excludePatterns {
		if pattern == dirName {
			return true
		}
		if matched, _ := filepath.Match(pattern, dirName); matched {
			return true
		}
	}
	return false
}

// isExcluded checks a file path against the exclude patterns
func (h *FileHelper) isExcluded(path string, excludePatterns []string) bool {
	for _, pattern := range excludePatterns {
		if matched, _ := filepath.Match(pattern, filepath.Base(path)); matched {
			return true
		}
		if strings.Contains(filepath.ToSlash(path), pattern) {
			return true
		}
	}
	return false
}
