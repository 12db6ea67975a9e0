package main

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"atlaspack/rectpack"
)

// extensions 是作为源纹理读取的文件扩展名
var extensions = []string{".png"}

var (
	errNoSources       = errors.New("no source provided")
	errSourceNotFound  = errors.New("source not found")
	errNoTextures      = errors.New("no textures found")
	errTextureTooLarge = errors.New("the following images can't be packed with the current settings")
)

// scanSources 递归扫描 paths 中所有扩展名匹配的图片并读取尺寸。
// 返回的纹理按路径排序，无法读取的图片会被跳过。
func scanSources(paths []string, exts []string) ([]rectpack.SourceTexture, error) {
	defer debugInfo.track(&debugInfo.ScanTime)()
	if len(paths) == 0 {
		return nil, errNoSources
	}
	var files []string
	for _, src := range paths {
		abs, err := filepath.Abs(src)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(abs); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: '%s'", errSourceNotFound, src)
			}
			return nil, err
		}
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() && slices.Contains(exts, strings.ToLower(filepath.Ext(path))) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	if len(files) == 0 {
		return nil, errNoTextures
	}
	slices.Sort(files)
	files = slices.Compact(files)

	// 只解码图片头部以获取尺寸信息
	textures := make([]rectpack.SourceTexture, len(files))
	valid := make([]bool, len(files))
	Parallel(0, len(files), func(i int) {
		w, h, err := imageDimensions(files[i])
		if err != nil {
			logger.Warn("skipping unreadable image", slog.String("path", files[i]), slog.Any("error", err))
			return
		}
		textures[i] = rectpack.NewSourceTexture(filepath.Base(files[i]), files[i], w, h)
		valid[i] = true
	})
	sources := make([]rectpack.SourceTexture, 0, len(files))
	for i := range textures {
		if valid[i] {
			sources = append(sources, textures[i])
		}
	}
	return sources, nil
}

func imageDimensions(path string) (int, int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()
	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// prepareSources 扫描、排序并处理重名和重复的源纹理
func prepareSources(paths []string, sortFn rectpack.SortFunc, dedup bool) ([]rectpack.SourceTexture, error) {
	sources, err := scanSources(paths, extensions)
	if err != nil {
		return nil, err
	}
	rectpack.SortSources(sources, sortFn)
	solveNameCollisions(sources)
	if dedup {
		if err := deduplicateTextures(sources); err != nil {
			return nil, err
		}
	}
	return sources, nil
}

// specializeName 将路径中的上一级目录加入纹理名称
func specializeName(t *rectpack.SourceTexture) {
	parts := strings.Split(filepath.ToSlash(t.Path), "/")
	suffix := ""
	for i := len(parts) - 1; i >= 0; i-- {
		suffix = parts[i] + suffix
		if !strings.HasSuffix(t.Name, suffix) {
			t.Name = suffix
			return
		}
		suffix = "/" + suffix
	}
}

// solveNameCollisions 重复执行直到所有名称唯一，每组重名中第一个保留原名
func solveNameCollisions(sources []rectpack.SourceTexture) {
	for {
		names := make(map[string][]int, len(sources))
		for i := range sources {
			names[sources[i].Name] = append(names[sources[i].Name], i)
		}
		collision := false
		for _, holders := range names {
			if len(holders) < 2 {
				continue
			}
			collision = true
			for _, i := range holders[1:] {
				specializeName(&sources[i])
			}
		}
		if !collision {
			return
		}
	}
}

// deduplicateTextures 将内容完全相同的纹理标记为第一个纹理的副本
func deduplicateTextures(sources []rectpack.SourceTexture) error {
	groups := make(map[rectpack.Size][]int)
	var order []rectpack.Size
	for i := range sources {
		size := sources[i].Dimensions.Size
		if _, ok := groups[size]; !ok {
			order = append(order, size)
		}
		groups[size] = append(groups[size], i)
	}
	for _, size := range order {
		group := groups[size]
		for n, first := range group {
			if sources[first].IsReplica() {
				continue
			}
			for _, second := range group[n+1:] {
				if sources[second].IsReplica() {
					continue
				}
				same, err := sameFile(sources[first].Path, sources[second].Path)
				if err != nil {
					return err
				}
				if same {
					sources[second].ReplicaOf = sources[first].Name
				}
			}
		}
	}
	return nil
}

// sameFile 依次比较文件长度和内容
func sameFile(a, b string) (bool, error) {
	infoA, err := os.Stat(a)
	if err != nil {
		return false, err
	}
	infoB, err := os.Stat(b)
	if err != nil {
		return false, err
	}
	if infoA.Size() != infoB.Size() {
		return false, nil
	}
	fa, err := os.Open(a)
	if err != nil {
		return false, err
	}
	defer fa.Close()
	fb, err := os.Open(b)
	if err != nil {
		return false, err
	}
	defer fb.Close()

	const chunk = 1024
	bufA, bufB := make([]byte, chunk), make([]byte, chunk)
	for {
		na, errA := io.ReadFull(fa, bufA)
		nb, errB := io.ReadFull(fb, bufB)
		if !bytes.Equal(bufA[:na], bufB[:nb]) {
			return false, nil
		}
		doneA := errors.Is(errA, io.EOF) || errors.Is(errA, io.ErrUnexpectedEOF)
		doneB := errors.Is(errB, io.EOF) || errors.Is(errB, io.ErrUnexpectedEOF)
		if doneA || doneB {
			return doneA == doneB, nil
		}
		if errA != nil {
			return false, errA
		}
		if errB != nil {
			return false, errB
		}
	}
}

// validateDimensions 检查固定尺寸的页面能否容纳每一个纹理（含间距）
func validateDimensions(sources []rectpack.SourceTexture, pageSize rectpack.Size, spacing int) error {
	var misfits []int
	for i := range sources {
		d := sources[i].Dimensions
		if d.Width+spacing > pageSize.Width || d.Height+spacing > pageSize.Height {
			misfits = append(misfits, i)
		}
	}
	if len(misfits) == 0 {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\n\tpage size: %s, spacing: %dpx", pageSize, spacing)
	for _, i := range misfits {
		fmt.Fprintf(&b, "\n\t%s [%s]", sources[i].Name, sources[i].Dimensions.Size)
	}
	var required rectpack.Size
	for i := range sources {
		required.Width = max(required.Width, sources[i].Dimensions.Width+spacing)
		required.Height = max(required.Height, sources[i].Dimensions.Height+spacing)
	}
	fmt.Fprintf(&b, "\nminimum required page size for these settings: %s", required)
	return fmt.Errorf("%w:%s", errTextureTooLarge, b.String())
}

// reportDuplicates 输出所有副本纹理及其原始纹理，返回副本数量
func reportDuplicates(log *slog.Logger, sources []rectpack.SourceTexture) int {
	count := 0
	for i := range sources {
		if sources[i].IsReplica() {
			count++
		}
	}
	if count == 0 {
		return 0
	}
	plural := ""
	if count > 1 {
		plural = "s"
	}
	log.Info(fmt.Sprintf("found %d duplicate%s", count, plural))
	for i := range sources {
		if sources[i].IsReplica() {
			log.Info("duplicate", slog.String("texture", sources[i].Name), slog.String("original", sources[i].ReplicaOf))
		}
	}
	return count
}
