package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureSubdDir creates dirName under the current working directory if it
// does not exist yet and returns its absolute path.
func EnsureSubdDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// SaveToSubDir writes data as fileName inside dirName (see EnsureSubdDir).
// The file is written to a temporary name first and renamed into place, so a
// failed write never leaves a truncated export behind.
func SaveToSubDir(dirName, fileName string, data []byte) (string, error) {
	if fileName == "" || fileName != filepath.Base(fileName) || strings.HasPrefix(fileName, ".") {
		return "", fmt.Errorf("invalid file name %q", fileName)
	}

	dir, err := EnsureSubdDir(dirName)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, ".part-*")
	if err != nil {
		return "", fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", tmp.Name(), err)
	}

	path := filepath.Join(dir, fileName)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("rename to %s: %w", path, err)
	}
	return path, nil
}
