package rectpack

import "slices"

// Page 是一张图集页面，拥有已放置的纹理和空闲矩形列表。
type Page struct {
	// Name 是页面名称，打包完成后由 Packer 统一调整。
	Name string
	// Textures 是按放置顺序排列的纹理，副本纹理排在最后。
	Textures []SourceTexture

	size      *Size
	freeSlots []Rect
}

// newPage 创建一个新页面。固定尺寸的页面以一个覆盖整页的空闲矩形开始，
// 动态页面的空闲列表为空，按需增长。
func newPage(name string, size *Size) *Page {
	p := &Page{Name: name}
	if size != nil {
		sz := *size
		p.size = &sz
		p.freeSlots = []Rect{NewRect(0, 0, sz.Width, sz.Height)}
	}
	return p
}

// IsFixed 表示页面尺寸是否固定。
func (p *Page) IsFixed() bool {
	return p.size != nil
}

// Size 返回固定的页面尺寸；动态页面返回已放置纹理的包围尺寸。
func (p *Page) Size() Size {
	if p.size != nil {
		return *p.size
	}
	return p.PackedBounds()
}

// PackedBounds 返回包含所有已放置纹理（含间距）的最小尺寸。
func (p *Page) PackedBounds() Size {
	var size Size
	for _, t := range p.Textures {
		if t.Packing == nil {
			continue
		}
		size.Width = max(size.Width, t.Packing.Position.Right())
		size.Height = max(size.Height, t.Packing.Position.Bottom())
	}
	return size
}

// FreeSlots 返回当前空闲矩形列表的副本。
func (p *Page) FreeSlots() []Rect {
	return slices.Clone(p.freeSlots)
}

// Pack 尝试在页面中为指定尺寸的纹理找到位置。
// 成功时更新空闲矩形列表并返回放置结果；固定尺寸页面放不下时返回 false。
// 动态页面总是成功。
func (p *Page) Pack(dimensions Size, settings Settings) (PackingData, bool) {
	r := NewRect(0, 0, dimensions.Width+settings.Spacing, dimensions.Height+settings.Spacing)
	bounds := p.PackedBounds()

	// 收集可以容纳 r 的空闲矩形的索引
	candidates := make([]int, 0, len(p.freeSlots))
	for i, slot := range p.freeSlots {
		if slot.CanContain(r) {
			candidates = append(candidates, i)
		}
	}
	if settings.Rotation {
		rotated := NewRect(0, 0, r.Height, r.Width)
		n := len(candidates)
		for i, slot := range p.freeSlots {
			if slot.CanContain(rotated) && !slices.Contains(candidates[:n], i) {
				candidates = append(candidates, i)
			}
		}
	}

	if len(candidates) == 0 {
		if p.IsFixed() {
			return PackingData{}, false
		}
		// 动态页面：在当前包围盒的下方或右侧扩展出一个新的空闲矩形，
		// 选择使页面更接近正方形的方向
		if bounds.Width+r.Width >= bounds.Height+r.Height {
			p.freeSlots = append(p.freeSlots, NewRect(0, bounds.Height, max(bounds.Width, r.Width), r.Height))
		} else {
			p.freeSlots = append(p.freeSlots, NewRect(bounds.Width, 0, r.Width, max(bounds.Height, r.Height)))
		}
		candidates = append(candidates, len(p.freeSlots)-1)
	}

	// 按设置的方法选出最佳候选，相等时保留先出现的
	best := candidates[0]
	for _, idx := range candidates[1:] {
		if settings.Method.compare(p.freeSlots[idx], p.freeSlots[best]) < 0 {
			best = idx
		}
	}
	pick := p.freeSlots[best]
	p.freeSlots = slices.Delete(p.freeSlots, best, best+1)

	// 选中的空闲矩形放不下原方向的 r，说明只能旋转后放入
	rotated := false
	if !pick.CanContain(r) {
		r.Rotate()
		rotated = true
	}
	r.PlaceAt(pick.X, pick.Y)
	p.freeSlots = append(p.freeSlots, pick.SliceOut(r)...)

	// 切割所有仍与 r 重叠的空闲矩形，保证空闲区域不覆盖已放置的纹理
	for i := len(p.freeSlots) - 1; i >= 0; i-- {
		slot := p.freeSlots[i]
		if slot.Intersect(r).Area() > 0 {
			p.freeSlots = slices.Delete(p.freeSlots, i, i+1)
			p.freeSlots = append(p.freeSlots, slot.SliceOut(r)...)
		}
	}

	p.pruneFreeSlots()

	return PackingData{Position: r, Rotated: rotated}, true
}

// pruneFreeSlots 删除被其他空闲矩形完全包含的空闲矩形。
// 内层循环不与紧邻的前一个矩形比较，因此不能保证删除所有冗余项，
// 剩余的冗余只影响性能，不影响正确性。
func (p *Page) pruneFreeSlots() {
	for a := len(p.freeSlots) - 1; a >= 0; a-- {
		for b := a - 2; b >= 0; b-- {
			if p.freeSlots[b].ContainsRect(p.freeSlots[a]) {
				p.freeSlots = slices.Delete(p.freeSlots, a, a+1)
				break
			}
		}
	}
}
