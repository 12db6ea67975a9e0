package rectpack

import (
	"errors"
	"fmt"
	"log/slog"
)

// State 描述 Packer 所处的阶段。
type State uint8

const (
	StateUnpacked State = iota
	StatePacking
	StatePacked
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnpacked:
		return "unpacked"
	case StatePacking:
		return "packing"
	case StatePacked:
		return "packed"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", s)
}

var (
	// ErrPackingFailed 表示一个预先校验过尺寸的纹理仍然无法放置。
	ErrPackingFailed = errors.New("failed to pack texture")
	// ErrAlreadyPacked 表示 Packer 已经执行过打包。
	ErrAlreadyPacked = errors.New("packer has already run")
)

// Packer 包含图集打包器的状态
type Packer struct {
	label    string
	pages    []*Page
	settings Settings
	// unplaced 包含尚未放置的源纹理，打包过程中被逐个取出
	unplaced []SourceTexture
	state    State
}

// NewPacker 创建一个打包器。sources 的顺序即放置顺序，
// 调用者需要在此之前完成排序。打包器总是以一个空页面开始。
func NewPacker(label string, sources []SourceTexture, settings Settings) *Packer {
	return &Packer{
		label:    label,
		pages:    []*Page{newPage(label, settings.PageSize)},
		settings: settings,
		unplaced: sources,
	}
}

// Label 返回图集名称。
func (p *Packer) Label() string {
	return p.label
}

// Pages 返回所有页面(由内部管理，如需修改请复制)
func (p *Packer) Pages() []*Page {
	return p.pages
}

// Settings 返回打包参数。
func (p *Packer) Settings() Settings {
	return p.settings
}

// State 返回当前阶段。
func (p *Packer) State() State {
	return p.state
}

// Count 返回源纹理总数，包括已放置和未放置的。
func (p *Packer) Count() int {
	n := len(p.unplaced)
	for _, page := range p.pages {
		n += len(page.Textures)
	}
	return n
}

// Duplicates 返回副本纹理的数量。
func (p *Packer) Duplicates() int {
	n := 0
	for i := range p.unplaced {
		if p.unplaced[i].IsReplica() {
			n++
		}
	}
	for _, page := range p.pages {
		for i := range page.Textures {
			if page.Textures[i].IsReplica() {
				n++
			}
		}
	}
	return n
}

// pendingOriginals 返回尚未放置的非副本纹理数量。
func (p *Packer) pendingOriginals() int {
	n := 0
	for i := range p.unplaced {
		if !p.unplaced[i].IsReplica() {
			n++
		}
	}
	return n
}

// PageSize 返回页面尺寸：固定尺寸直接返回，动态尺寸返回第一页的包围尺寸。
func (p *Packer) PageSize() Size {
	if p.settings.PageSize != nil {
		return *p.settings.PageSize
	}
	if len(p.pages) == 0 {
		return Size{}
	}
	return p.pages[0].PackedBounds()
}

// TotalSourceArea 返回所有已放置的非副本纹理的面积之和。
func (p *Packer) TotalSourceArea() int64 {
	var total int64
	for _, page := range p.pages {
		for i := range page.Textures {
			t := &page.Textures[i]
			if t.IsReplica() {
				continue
			}
			total += int64(t.Dimensions.Area())
		}
	}
	return total
}

// TotalPackedArea 返回页面占用的总面积。固定尺寸为页数乘以页面面积，
// 动态尺寸为唯一页面的包围盒面积。
func (p *Packer) TotalPackedArea() int64 {
	if size := p.settings.PageSize; size != nil {
		return int64(len(p.pages)) * int64(size.Width) * int64(size.Height)
	}
	if len(p.pages) == 0 {
		return 0
	}
	bounds := p.pages[0].PackedBounds()
	return int64(bounds.Width) * int64(bounds.Height)
}

// Efficiency 返回空间利用率的百分比。页面面积为 0 时返回 0。
func (p *Packer) Efficiency() float64 {
	packed := p.TotalPackedArea()
	if packed == 0 {
		return 0
	}
	return float64(p.TotalSourceArea()) / float64(packed) * 100
}

func (p *Packer) addPage() *Page {
	page := newPage(p.label, p.settings.PageSize)
	p.pages = append(p.pages, page)
	Logger().Debug("page added", slog.String("atlas", p.label), slog.Int("pages", len(p.pages)))
	return page
}

// adjustPageNames 单页保留原名，多页依次添加 "-0"、"-1" 等后缀。
func (p *Packer) adjustPageNames() {
	if len(p.pages) == 1 {
		p.pages[0].Name = p.label
		return
	}
	for i, page := range p.pages {
		page.Name = fmt.Sprintf("%s-%d", p.label, i)
	}
}

// PackEverything 放置所有源纹理。每放置一个非副本纹理向 progress 发送 1，
// progress 可以为 nil。副本纹理在所有原始纹理放置完成后复制原始纹理的放置结果。
//
// 任何纹理无法放置时返回包装了 ErrPackingFailed 的错误，打包器进入失败状态。
func (p *Packer) PackEverything(progress chan<- int) error {
	if p.state != StateUnpacked {
		return ErrAlreadyPacked
	}
	p.state = StatePacking

	sources := p.unplaced
	p.unplaced = nil
	var replicas []SourceTexture

	for _, texture := range sources {
		if texture.IsReplica() {
			replicas = append(replicas, texture)
			continue
		}
		dimensions := texture.Dimensions.Size

		var target *Page
		var packing PackingData
		for _, page := range p.pages {
			if pd, ok := page.Pack(dimensions, p.settings); ok {
				target, packing = page, pd
				break
			}
		}
		// 所有现有页面都放不下，创建新页面后再试一次
		if target == nil {
			page := p.addPage()
			if pd, ok := page.Pack(dimensions, p.settings); ok {
				target, packing = page, pd
			}
		}
		if progress != nil {
			progress <- 1
		}
		if target == nil {
			p.state = StateFailed
			Logger().Debug("placement failed",
				slog.String("texture", texture.Name),
				slog.String("size", dimensions.String()))
			return fmt.Errorf("%w '%s'", ErrPackingFailed, texture.Name)
		}
		texture.Packing = &packing
		target.Textures = append(target.Textures, texture)
	}

	p.resolveReplicas(replicas)
	p.adjustPageNames()
	p.state = StatePacked
	return nil
}

// resolveReplicas 将副本纹理放入其原始纹理所在的页面，并复制放置结果。
// 找不到原始纹理的副本会被丢弃。
func (p *Packer) resolveReplicas(replicas []SourceTexture) {
	for _, texture := range replicas {
		placed := false
		for _, page := range p.pages {
			original := findTexture(page.Textures, texture.ReplicaOf)
			if original == nil || original.Packing == nil {
				continue
			}
			packing := *original.Packing
			texture.Packing = &packing
			page.Textures = append(page.Textures, texture)
			placed = true
			Logger().Debug("replica resolved",
				slog.String("texture", texture.Name),
				slog.String("original", texture.ReplicaOf))
			break
		}
		if !placed {
			Logger().Debug("replica dropped", slog.String("texture", texture.Name))
		}
	}
}

func findTexture(textures []SourceTexture, name string) *SourceTexture {
	for i := range textures {
		if textures[i].Name == name {
			return &textures[i]
		}
	}
	return nil
}
