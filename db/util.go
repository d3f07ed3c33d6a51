package db

import (
	"bytes"
	"os"
	"runtime"
	"strconv"
)

func canstat(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func isdir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func mkdir(dir string) (err error) {
	if _, err = os.Stat(dir); os.IsNotExist(err) {
		err = os.MkdirAll(dir, 0755)
	}
	return
}

// GetGID returns the goroutine ID of its calling function, for logging purposes.
func GetGID() uint64 {
	b := make([]byte, 64)
	b = b[:runtime.Stack(b, false)]
	b = bytes.TrimPrefix(b, []byte("goroutine "))
	b = b[:bytes.IndexByte(b, ' ')]
	n, _ := strconv.ParseUint(string(b), 10, 64)
	return n
}
