package rectpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSettings(w, h int) Settings {
	size := NewSize(w, h)
	return NewSettings(MethodDistance, 0, false, &size)
}

// place 模拟 Packer 的行为，把结果记录到页面中
func place(t *testing.T, page *Page, name string, w, h int, settings Settings) PackingData {
	t.Helper()
	pd, ok := page.Pack(NewSize(w, h), settings)
	require.True(t, ok, "%s (%dx%d) should fit", name, w, h)
	texture := NewSourceTexture(name, name+".png", w, h)
	texture.Packing = &pd
	page.Textures = append(page.Textures, texture)
	return pd
}

// assertFreeSlotsClear 验证没有空闲矩形覆盖已放置的纹理
func assertFreeSlotsClear(t *testing.T, page *Page) {
	t.Helper()
	for _, slot := range page.FreeSlots() {
		for _, texture := range page.Textures {
			assert.False(t, slot.Intersects(texture.Packing.Position),
				"free slot %s overlaps %s at %s", slot.String(), texture.Name, texture.Packing.Position.String())
		}
	}
}

func TestNewPage_SeedsFreeSlots(t *testing.T) {
	size := NewSize(64, 32)
	fixed := newPage("fixed", &size)
	assert.True(t, fixed.IsFixed())
	assert.Equal(t, []Rect{NewRect(0, 0, 64, 32)}, fixed.FreeSlots())
	assert.Equal(t, size, fixed.Size())

	dynamic := newPage("dynamic", nil)
	assert.False(t, dynamic.IsFixed())
	assert.Empty(t, dynamic.FreeSlots())
	assert.Equal(t, Size{}, dynamic.Size())
}

func TestPage_FixedFillsExactly(t *testing.T) {
	settings := fixedSettings(20, 20)
	page := newPage("p", settings.PageSize)

	assert.Equal(t, NewRect(0, 0, 10, 10), place(t, page, "a", 10, 10, settings).Position)
	assert.Equal(t, NewRect(0, 10, 10, 10), place(t, page, "b", 10, 10, settings).Position)
	assert.Equal(t, NewRect(10, 0, 10, 10), place(t, page, "c", 10, 10, settings).Position)
	assert.Equal(t, NewRect(10, 10, 10, 10), place(t, page, "d", 10, 10, settings).Position)
	assertFreeSlotsClear(t, page)

	_, ok := page.Pack(NewSize(1, 1), settings)
	assert.False(t, ok, "a full page must reject further textures")
}

func TestPage_FixedRejectsOversized(t *testing.T) {
	settings := fixedSettings(40, 40)
	page := newPage("p", settings.PageSize)
	_, ok := page.Pack(NewSize(50, 50), settings)
	assert.False(t, ok)
	assert.Equal(t, []Rect{NewRect(0, 0, 40, 40)}, page.FreeSlots(), "a failed placement leaves the page untouched")
}

func TestPage_SpacingIsAddedToPlacement(t *testing.T) {
	size := NewSize(100, 100)
	settings := NewSettings(MethodDistance, 2, false, &size)
	page := newPage("p", settings.PageSize)
	pd := place(t, page, "a", 10, 20, settings)
	assert.Equal(t, NewRect(0, 0, 12, 22), pd.Position)
	assert.Equal(t, NewRect(0, 0, 10, 20), pd.Region(settings.Spacing))
}

func TestPage_RotatesIntoLeftoverSlot(t *testing.T) {
	settings := NewSettings(MethodDistance, 0, true, nil)
	page := newPage("p", nil)
	page.freeSlots = []Rect{NewRect(0, 0, 10, 30)}

	pd, ok := page.Pack(NewSize(30, 10), settings)
	require.True(t, ok)
	assert.True(t, pd.Rotated)
	assert.Equal(t, NewRect(0, 0, 10, 30), pd.Position)
	assert.Empty(t, page.FreeSlots())
}

func TestPage_NoRotationGrowsAndReconcilesOverlap(t *testing.T) {
	settings := NewSettings(MethodDistance, 0, false, nil)
	page := newPage("p", nil)
	page.freeSlots = []Rect{NewRect(0, 0, 10, 30)}

	pd := place(t, page, "wide", 30, 10, settings)
	assert.False(t, pd.Rotated)
	assert.Equal(t, NewRect(0, 0, 30, 10), pd.Position)
	// 原有的空闲矩形被新放置的矩形切掉了上半部分
	assert.Equal(t, []Rect{NewRect(0, 10, 10, 20)}, page.FreeSlots())
	assertFreeSlotsClear(t, page)
}

func TestPage_DynamicGrowthKeepsSquare(t *testing.T) {
	settings := NewSettings(MethodDistance, 0, false, nil)
	page := newPage("p", nil)

	assert.Equal(t, NewRect(0, 0, 10, 10), place(t, page, "a", 10, 10, settings).Position)
	assert.Equal(t, NewRect(0, 10, 10, 10), place(t, page, "b", 10, 10, settings).Position)
	// 包围盒为 10x20，再向下扩展会更狭长，因此向右扩展
	assert.Equal(t, NewRect(10, 0, 10, 20), place(t, page, "c", 10, 20, settings).Position)
	assert.Equal(t, NewSize(20, 20), page.PackedBounds())
	assertFreeSlotsClear(t, page)
}

func TestPage_MethodChoosesSlot(t *testing.T) {
	// 一个离原点近但很大的空闲矩形，一个离原点远但很小的空闲矩形
	slots := []Rect{NewRect(0, 50, 100, 50), NewRect(60, 0, 20, 20)}

	byDistance := newPage("d", nil)
	byDistance.freeSlots = append([]Rect(nil), slots...)
	pd, ok := byDistance.Pack(NewSize(10, 10), NewSettings(MethodDistance, 0, false, nil))
	require.True(t, ok)
	assert.Equal(t, NewPoint(0, 50), pd.Position.Point)

	byArea := newPage("a", nil)
	byArea.freeSlots = append([]Rect(nil), slots...)
	pd, ok = byArea.Pack(NewSize(10, 10), NewSettings(MethodArea, 0, false, nil))
	require.True(t, ok)
	assert.Equal(t, NewPoint(60, 0), pd.Position.Point)
}

func TestPage_TieBreaks(t *testing.T) {
	// 距离相同时面积小者优先
	page := newPage("d", nil)
	page.freeSlots = []Rect{NewRect(30, 40, 50, 50), NewRect(40, 30, 10, 10)}
	pd, ok := page.Pack(NewSize(5, 5), NewSettings(MethodDistance, 0, false, nil))
	require.True(t, ok)
	assert.Equal(t, NewPoint(40, 30), pd.Position.Point)

	// 面积相同时距离近者优先
	page = newPage("a", nil)
	page.freeSlots = []Rect{NewRect(50, 50, 10, 10), NewRect(5, 5, 10, 10)}
	pd, ok = page.Pack(NewSize(5, 5), NewSettings(MethodArea, 0, false, nil))
	require.True(t, ok)
	assert.Equal(t, NewPoint(5, 5), pd.Position.Point)
}

func TestPage_PruneRemovesContainedSlots(t *testing.T) {
	page := newPage("p", nil)
	page.freeSlots = []Rect{
		NewRect(0, 0, 100, 100),
		NewRect(200, 200, 5, 5),
		NewRect(10, 10, 10, 10),
	}
	page.pruneFreeSlots()
	assert.Equal(t, []Rect{NewRect(0, 0, 100, 100), NewRect(200, 200, 5, 5)}, page.FreeSlots())
}

func TestPage_PruneSkipsAdjacentPredecessor(t *testing.T) {
	page := newPage("p", nil)
	page.freeSlots = []Rect{
		NewRect(0, 0, 100, 100),
		NewRect(10, 10, 10, 10),
	}
	page.pruneFreeSlots()
	// 内层循环不检查紧邻的前一个矩形，冗余项保留
	assert.Len(t, page.FreeSlots(), 2)
}
