// Package fileutils holds small afero helpers.
package fileutils

import (
	"github.com/spf13/afero"
)

// FileExists reports whether path exists and is a regular file. It defaults to the OS filesystem.
func FileExists(path string, filesystem ...afero.Fs) bool {
	fs := InitFilesystem(filesystem...)

	info, err := fs.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func InitFilesystem(filesystem ...afero.Fs) afero.Fs {
	if len(filesystem) > 0 && filesystem[0] != nil {
		return filesystem[0]
	}

	return afero.NewOsFs()
}
