package util

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// ImageFile represents a raster file discovered in an input directory.
type ImageFile struct {
	// Path is the path to the image file.
	Path string
	// Name is the file name including its extension, used as the image identifier.
	Name string
	// Base is the file name without its extension, used to name derived outputs.
	Base string
}

// LoadDirectoryImageFiles lists the raster files in a directory.
//
// The scan is non-recursive, skips directories and matches the extension
// exactly (".pgm" does not match ".PGM"). Results are sorted by name so batch
// output is stable across file systems.
//
// Arguments:
// - dir: Directory path containing image files.
// - ext: The extension to match, including the leading dot.
//
// Returns:
// - []ImageFile: The matching files.
// - error: Error if the directory cannot be read.
func LoadDirectoryImageFiles(dir, ext string) ([]ImageFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "read directory %s", dir)
	}

	var files []ImageFile
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		if filepath.Ext(name) != ext {
			continue
		}
		files = append(files, ImageFile{
			Path: filepath.Join(dir, name),
			Name: name,
			Base: strings.TrimSuffix(name, ext),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}
