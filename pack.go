package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"atlaspack/atlas"
	"atlaspack/rectpack"
)

func pack(opts Options, progress io.Writer) error {
	format, err := atlas.ParseFormat(opts.Format)
	if err != nil {
		return err
	}
	if opts.Quiet {
		progress = nil
	}
	packer, err := packTextures(opts, logger, progress)
	if err != nil {
		return err
	}
	printPackingReport(packer)
	return generateOutputFiles(opts, format, packer)
}

func packingSettings(opts Options) (rectpack.Settings, error) {
	pageSize, err := rectpack.ParsePageSize(opts.PageSize)
	if err != nil {
		return rectpack.Settings{}, err
	}
	method := rectpack.MethodDistance
	if opts.ByArea {
		method = rectpack.MethodArea
	}
	return rectpack.NewSettings(method, opts.Spacing, opts.Rotate, pageSize), nil
}

// outputLabel 取输出路径的文件名（不含扩展名）作为图集名称
func outputLabel(output string) (string, error) {
	base := filepath.Base(output)
	label := strings.TrimSuffix(base, filepath.Ext(base))
	if label == "" {
		label = base
	}
	if label == "." || label == string(filepath.Separator) {
		return "", fmt.Errorf("unable to extract filename from '%s'", output)
	}
	return label, nil
}

// packTextures 准备源纹理并在后台 goroutine 中打包。progress 为 nil 时不显示进度条
func packTextures(opts Options, log *slog.Logger, progress io.Writer) (*rectpack.Packer, error) {
	settings, err := packingSettings(opts)
	if err != nil {
		return nil, err
	}
	sources, err := prepareSources(opts.Sources, rectpack.ResolveSort(opts.ShortSide), !opts.NoDedup)
	if err != nil {
		return nil, err
	}
	if settings.PageSize != nil {
		if err := validateDimensions(sources, *settings.PageSize, settings.Spacing); err != nil {
			return nil, err
		}
	}
	reportDuplicates(log, sources)
	label, err := outputLabel(opts.Output)
	if err != nil {
		return nil, err
	}
	packer := rectpack.NewPacker(label, sources, settings)
	return packWithProgressBar(packer, progress)
}

func packWithProgressBar(packer *rectpack.Packer, progress io.Writer) (*rectpack.Packer, error) {
	defer debugInfo.track(&debugInfo.PackTime)()
	total := packer.Count() - packer.Duplicates()
	job := rectpack.StartPacking(packer)
	newProgressBar(progress, total, progress != nil).Drain(job.Progress())
	return job.Wait()
}

// printPackingReport 输出打包结果
func printPackingReport(packer *rectpack.Packer) {
	size := packer.PageSize()
	logger.Info("packing finished",
		slog.Int("pages", len(packer.Pages())),
		slog.String("size", size.String()),
		slog.String("efficiency", fmt.Sprintf("%.2f%%", packer.Efficiency())))
}

// generateOutputFiles 写入描述文件和每个页面的图片
func generateOutputFiles(opts Options, format atlas.Format, packer *rectpack.Packer) error {
	destination, err := prepareOutputDirectory(opts.Output, pathFiles)
	if err != nil {
		return err
	}
	pages := atlas.Describe(packer, opts.PowerOfTwo)

	descriptionPath := filepath.Join(destination, packer.Label()+"."+format.Extension())
	if err := notifyOverwrite(descriptionPath, opts.Overwrite); err != nil {
		return err
	}
	if err := writeDescription(descriptionPath, format, pages); err != nil {
		return fmt.Errorf("unable to generate description file: %w", err)
	}

	for i, page := range packer.Pages() {
		imagePath := filepath.Join(destination, pages[i].Texture)
		if err := notifyOverwrite(imagePath, opts.Overwrite); err != nil {
			return err
		}
		if err := generateImage(page, pages[i].Width, pages[i].Height, imagePath); err != nil {
			return err
		}
		logger.Debug("page written", slog.String("path", imagePath))
	}
	return nil
}

func writeDescription(path string, format atlas.Format, pages []atlas.Page) error {
	defer debugInfo.track(&debugInfo.CreateDescriptionTime)()
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(file)
	if err := format.Formatter().Write(w, pages); err != nil {
		file.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
