package news

import (
	"os"
	"path/filepath"
	"strconv"
)

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func mkdirFor(path string) error { return os.MkdirAll(filepath.Dir(path), 0o755) }
