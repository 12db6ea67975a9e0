package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

var (
	errInvalidOutput = errors.New("invalid output directory")
	errFileExists    = errors.New("file already exists")
)

// pathKind 决定输出路径本身是目录，还是目录中文件名的前缀
type pathKind uint8

const (
	pathFiles pathKind = iota
	pathDirectory
)

// prepareOutputDirectory 返回输出目录的绝对路径，不存在时创建
func prepareOutputDirectory(path string, kind pathKind) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	dir := abs
	if kind == pathFiles {
		dir = filepath.Dir(abs)
	}
	info, err := os.Stat(dir)
	switch {
	case err == nil && !info.IsDir():
		return "", fmt.Errorf("%w: a file named '%s' already exists", errInvalidOutput, dir)
	case errors.Is(err, fs.ErrNotExist):
		logger.Info("output directory does not exist")
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
		logger.Info("directory created", slog.String("path", dir))
	case err != nil:
		return "", err
	}
	return dir, nil
}

// notifyOverwrite 文件已存在且不允许覆盖时返回错误
func notifyOverwrite(path string, allowed bool) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if !allowed {
		return fmt.Errorf("%w: '%s'. use the -o flag to enable overwriting", errFileExists, path)
	}
	logger.Info("overwriting file", slog.String("path", path))
	return nil
}

func countOverwrites(paths []string) int {
	n := 0
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			n++
		}
	}
	return n
}

// appendToFilename 在扩展名之前插入 suffix，例如 a.png -> a_(copy).png
func appendToFilename(path, suffix string) string {
	ext := filepath.Ext(path)
	if ext == filepath.Base(path) {
		ext = ""
	}
	return strings.TrimSuffix(path, ext) + suffix + ext
}
