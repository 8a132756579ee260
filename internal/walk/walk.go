package walk

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	doublestar "github.com/bmatcuk/doublestar/v4"
)

type FileInfo struct {
	Path string
	Size int64
}

// Walker lists the files under a root directory that have one of the
// wanted extensions and match none of the exclude globs.
type Walker struct {
	rootDir    string
	extensions []string
	exclude    []string
}

func New(rootDir string, extensions ...string) *Walker {
	return &Walker{
		rootDir:    rootDir,
		extensions: extensions,
	}
}

// Exclude adds doublestar globs such as "**/vendor/**". A glob is tried
// against the slash-separated path relative to the root and against the
// base name.
func (w *Walker) Exclude(globs ...string) *Walker {
	for _, g := range globs {
		g = strings.TrimSpace(g)
		if g != "" {
			w.exclude = append(w.exclude, g, trimGlobPrefix(g))
		}
	}
	return w
}

// Scan walks the tree and returns the selected files sorted by path.
func (w *Walker) Scan() ([]FileInfo, error) {
	var (
		files []FileInfo
		mutex sync.Mutex
		wg    sync.WaitGroup
	)

	err := filepath.WalkDir(w.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if path != w.rootDir && w.isExcluded(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !w.isTargetFile(path) {
			return nil
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			info, err := d.Info()
			if err != nil {
				return
			}
			mutex.Lock()
			files = append(files, FileInfo{Path: path, Size: info.Size()})
			mutex.Unlock()
		}()
		return nil
	})

	wg.Wait()
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, err
}

// Paths is Scan without the sizes.
func (w *Walker) Paths() ([]string, error) {
	files, err := w.Scan()
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.Path
	}
	return paths, err
}

// Match reports whether path would be selected by the walker, ignoring
// whether it exists.
func (w *Walker) Match(path string) bool {
	return w.isTargetFile(path) && !w.isExcluded(path)
}

func (w *Walker) isTargetFile(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}

	ext := filepath.Ext(path)
	for _, targetExt := range w.extensions {
		if strings.EqualFold(ext, targetExt) {
			return true
		}
	}
	return false
}

func (w *Walker) isExcluded(path string) bool {
	if len(w.exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(w.rootDir, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)
	for _, g := range w.exclude {
		if ok, _ := doublestar.Match(g, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, base); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}
