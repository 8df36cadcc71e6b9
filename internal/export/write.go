package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ErrExists is returned by WriteFile when the target exists and overwrite is false.
var ErrExists = errors.New("file exists (use --overwrite)")

// ResolvePath returns the output path for to: a directory gets DefaultFileName appended.
func ResolvePath(to string) string {
	to = strings.TrimSpace(to)
	if to == "" {
		return DefaultFileName
	}
	if st, err := os.Stat(to); err == nil && st.IsDir() {
		return filepath.Join(to, DefaultFileName)
	}
	if strings.HasSuffix(to, string(os.PathSeparator)) {
		return filepath.Join(to, DefaultFileName)
	}
	return filepath.Clean(to)
}

func WriteFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return &os.PathError{Op: "write", Path: path, Err: ErrExists}
		}
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, b, 0o644)
}
