package connectors

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type FileMeta struct {
	Path string
	Size int64
}

type DiscoveryOptions struct {
	Recursive bool
	MinSize   int64
}

// DiscoverFiles lists the files under root with extension ext
func DiscoverFiles(root string, ext string, options DiscoveryOptions) ([]FileMeta, error) {
	if root == "" {
		return nil, fmt.Errorf("root directory cannot be empty")
	}

	stat, err := os.Stat(root)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", root)
	}
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", root, err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return nil, fmt.Errorf("file extension cannot be empty")
	}

	var files []FileMeta
	walkFunc := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if d.IsDir() && path != root && !options.Recursive {
			return filepath.SkipDir
		}

		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), "."+ext) {
			info, err := d.Info()
			if err != nil {
				return fmt.Errorf("error getting file info for %s: %w", path, err)
			}
			if options.MinSize > 0 && info.Size() < options.MinSize {
				return nil
			}
			files = append(files, FileMeta{Path: path, Size: info.Size()})
		}

		return nil
	}

	if err := filepath.WalkDir(root, walkFunc); err != nil {
		return nil, fmt.Errorf("directory walk error: %w", err)
	}

	return files, nil
}

// LocateSources finds each named export under root, matching base names
// case-insensitively. The first match in walk order wins.
func LocateSources(root string, names ...string) (map[string]string, error) {
	files, err := DiscoverFiles(root, "csv", DiscoveryOptions{Recursive: true})
	if err != nil {
		return nil, err
	}

	found := make(map[string]string, len(names))
	for _, name := range names {
		for _, f := range files {
			if strings.EqualFold(filepath.Base(f.Path), filepath.Base(name)) {
				found[name] = f.Path
				break
			}
		}
		if _, ok := found[name]; !ok {
			return nil, fmt.Errorf("no %s found in %s", filepath.Base(name), root)
		}
	}
	return found, nil
}
