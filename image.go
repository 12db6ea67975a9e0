package main

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"runtime"
	"sync"

	"atlaspack/rectpack"

	"github.com/disintegration/imaging"
)

// generateImage 将页面中的纹理绘制到 width x height 的透明画布上并保存为 PNG。
// 副本纹理与原始纹理位置相同，不需要重复绘制。
func generateImage(page *rectpack.Page, width, height int, path string) error {
	defer debugInfo.track(&debugInfo.CreateAtlasImageTime)()

	dstImage := imaging.New(width, height, color.NRGBA{0, 0, 0, 0})
	// 创建互斥锁保护对dstImage的并发访问
	var mu sync.Mutex
	var wg sync.WaitGroup
	errChan := make(chan error, len(page.Textures))
	// 添加并发控制
	semaphore := make(chan struct{}, runtime.NumCPU())
	for _, texture := range page.Textures {
		if texture.IsReplica() || texture.Packing == nil {
			continue
		}
		wg.Add(1)
		semaphore <- struct{}{} // 获取信号量
		go func(t rectpack.SourceTexture) {
			defer wg.Done()
			defer func() { <-semaphore }() // 释放信号量
			srcImage, err := imaging.Open(t.Path)
			if err != nil {
				errChan <- fmt.Errorf("%s: %w", t.Path, err)
				return
			}
			// 顺时针旋转90度
			if t.Packing.Rotated {
				srcImage = imaging.Rotate270(srcImage)
			}
			pos := t.Packing.Position
			bounds := srcImage.Bounds()
			dstRect := image.Rect(pos.X, pos.Y, pos.X+bounds.Dx(), pos.Y+bounds.Dy())
			mu.Lock()
			draw.Draw(dstImage, dstRect, srcImage, bounds.Min, draw.Src)
			mu.Unlock()
		}(texture)
	}
	wg.Wait()
	close(errChan)
	for err := range errChan {
		return err
	}
	return saveImage(dstImage, path)
}

// saveImage 以最高压缩率保存 PNG
func saveImage(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(file)
	if err := imaging.Encode(w, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		file.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
