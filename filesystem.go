package main

import (
	"io/fs"
	"os"
	"path/filepath"
)

type walkFunc func(string) (map[string]os.FileInfo, error)

// walkDirectory returns every regular file under dirPath keyed by path.
func walkDirectory(dirPath string) (map[string]os.FileInfo, error) {
	fileMap := make(map[string]os.FileInfo)
	walkErr := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}
		fileMap[path] = info

		return nil
	})

	return fileMap, walkErr
}
