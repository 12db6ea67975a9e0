package main

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"atlaspack/atlas"
	"atlaspack/rectpack"

	"github.com/disintegration/imaging"
)

// Parallel 将 [start, end) 分批交给 runtime.NumCPU() 个 goroutine 执行
func Parallel(start, end int, fn func(i int)) {
	numGoroutines := runtime.NumCPU()
	if end-start < numGoroutines {
		// 如果任务数量少于CPU核心数，直接顺序执行
		for i := start; i < end; i++ {
			fn(i)
		}
		return
	}
	var wg sync.WaitGroup
	batchSize := (end - start + numGoroutines - 1) / numGoroutines
	for i := start; i < end; i += batchSize {
		wg.Add(1)
		go func(from, to int) {
			defer wg.Done()
			for j := from; j < to && j < end; j++ {
				fn(j)
			}
		}(i, i+batchSize)
	}
	wg.Wait()
}

// unpackedPage 是一张图集图片及其中的纹理
type unpackedPage struct {
	image    string
	textures []rectpack.SourceTexture
}

func unpack(opts UnpackOptions, progress io.Writer) error {
	defer debugInfo.track(&debugInfo.UnpackTime)()
	if opts.Quiet {
		progress = nil
	}
	sourceDir, pages, err := readDescription(opts.Description)
	if err != nil {
		return err
	}
	pages = skipMissingPages(sourceDir, pages)
	fixNameConflicts(pages)

	outputDir, err := prepareOutputDirectory(opts.OutputDir, pathDirectory)
	if err != nil {
		return err
	}
	var paths []string
	for _, page := range pages {
		for _, t := range page.textures {
			paths = append(paths, filepath.Join(outputDir, t.Path))
		}
	}
	if n := countOverwrites(paths); n > 0 {
		if !opts.Overwrite {
			return fmt.Errorf("%w in output directory. use the -o flag to overwrite", errFileExists)
		}
		logger.Info("files will be overwritten", slog.Int("count", n))
	}
	return unpackWithProgressBar(sourceDir, outputDir, pages, len(paths), progress)
}

// readDescription 读取描述文件，返回其所在目录和其中的页面
func readDescription(path string) (string, []unpackedPage, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return "", nil, err
	}
	desc, err := atlas.Read(data)
	if err != nil {
		return "", nil, err
	}
	pages := make([]unpackedPage, 0, len(desc))
	for _, page := range desc {
		pages = append(pages, unpackedPage{image: page.Texture, textures: page.Sources()})
	}
	return filepath.Dir(abs), pages, nil
}

// skipMissingPages 去掉图片文件不存在的页面
func skipMissingPages(dir string, pages []unpackedPage) []unpackedPage {
	kept := pages[:0]
	for _, page := range pages {
		if _, err := os.Stat(filepath.Join(dir, page.image)); err != nil {
			logger.Warn("image not found, skipping", slog.String("image", page.image))
			continue
		}
		kept = append(kept, page)
	}
	return kept
}

// fixNameConflicts 重复的输出路径依次添加 "_(copy)" 后缀直到唯一
func fixNameConflicts(pages []unpackedPage) {
	for {
		seen := make(map[string]struct{})
		conflict := false
		for p := range pages {
			for i := range pages[p].textures {
				t := &pages[p].textures[i]
				if _, ok := seen[t.Path]; ok {
					t.Path = appendToFilename(t.Path, "_(copy)")
					conflict = true
					continue
				}
				seen[t.Path] = struct{}{}
			}
		}
		if !conflict {
			return
		}
	}
}

func unpackWithProgressBar(src, dst string, pages []unpackedPage, count int, progress io.Writer) error {
	ch := make(chan int, count)
	done := make(chan error, 1)
	go func() {
		defer close(ch)
		for _, page := range pages {
			if err := unpackPage(filepath.Join(src, page.image), dst, page.textures, ch); err != nil {
				done <- err
				return
			}
		}
		done <- nil
	}()
	newProgressBar(progress, count, progress != nil).Drain(ch)
	return <-done
}

// unpackPage 从图集图片中裁剪出每个纹理，旋转过的纹理逆时针旋转90度还原
func unpackPage(imagePath, dst string, textures []rectpack.SourceTexture, progress chan<- int) error {
	atlasImage, err := imaging.Open(imagePath)
	if err != nil {
		return fmt.Errorf("%s: %w", imagePath, err)
	}
	errs := make([]error, len(textures))
	Parallel(0, len(textures), func(i int) {
		t := textures[i]
		pos := t.Packing.Position
		sub := imaging.Crop(atlasImage, image.Rect(pos.X, pos.Y, pos.X+pos.Width, pos.Y+pos.Height))
		if t.Packing.Rotated {
			sub = imaging.Rotate90(sub)
		}
		errs[i] = saveImage(sub, filepath.Join(dst, t.Path))
		progress <- 1
	})
	return errors.Join(errs...)
}
