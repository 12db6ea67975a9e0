// Package atlas 描述打包结果：每个页面对应的图片文件以及其中每个纹理所在的区域。
package atlas

import (
	"strings"

	"atlaspack/rectpack"
)

// RegionExtra 仅在允许旋转时输出。
type RegionExtra struct {
	OriginalWidth  int  `json:"original_width"`
	OriginalHeight int  `json:"original_height"`
	Rotated        bool `json:"rotated"`
}

// Region 是纹理在页面图片中的像素区域，不包含间距。
type Region struct {
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	*RegionExtra
}

// IsRotated 表示区域中的像素是否顺时针旋转过90度。
func (r Region) IsRotated() bool {
	return r.RegionExtra != nil && r.Rotated
}

// Page 描述一张输出图片。
type Page struct {
	Texture string   `json:"texture"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Regions []Region `json:"regions"`
}

// Describe 根据打包结果生成描述，页面顺序与 p.Pages() 一致。
// 副本纹理也会出现在描述中，与原始纹理共享同一区域。
func Describe(p *rectpack.Packer, powerOfTwo bool) []Page {
	settings := p.Settings()
	pages := make([]Page, 0, len(p.Pages()))
	for _, page := range p.Pages() {
		size := page.Size()
		if powerOfTwo {
			size.Width = NextPowerOfTwo(size.Width)
			size.Height = NextPowerOfTwo(size.Height)
		}
		desc := Page{
			Texture: page.Name + ".png",
			Width:   size.Width,
			Height:  size.Height,
			Regions: make([]Region, 0, len(page.Textures)),
		}
		for _, t := range page.Textures {
			if t.Packing == nil {
				continue
			}
			r := t.Packing.Region(settings.Spacing)
			region := Region{
				Name:   t.Name,
				X:      r.X,
				Y:      r.Y,
				Width:  r.Width,
				Height: r.Height,
			}
			if settings.Rotation {
				region.RegionExtra = &RegionExtra{
					OriginalWidth:  t.Dimensions.Width,
					OriginalHeight: t.Dimensions.Height,
					Rotated:        t.Packing.Rotated,
				}
			}
			desc.Regions = append(desc.Regions, region)
		}
		pages = append(pages, desc)
	}
	return pages
}

// Sources 将页面中的区域还原为已放置的源纹理，用于解包。
// 名称中的 "/" 会被替换为 "-"，Path 即输出文件的相对路径。
func (pg Page) Sources() []rectpack.SourceTexture {
	sources := make([]rectpack.SourceTexture, 0, len(pg.Regions))
	for _, r := range pg.Regions {
		name := strings.ReplaceAll(r.Name, "/", "-")
		rotated := r.IsRotated()
		w, h := r.Width, r.Height
		if rotated {
			w, h = h, w
		}
		t := rectpack.NewSourceTexture(name, name, w, h)
		t.Packing = &rectpack.PackingData{
			Position: rectpack.NewRect(r.X, r.Y, r.Width, r.Height),
			Rotated:  rotated,
		}
		sources = append(sources, t)
	}
	return sources
}

// NextPowerOfTwo 返回不小于 n 的最小2的幂。
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
