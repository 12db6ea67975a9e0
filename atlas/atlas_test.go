package atlas

import (
	"testing"

	"atlaspack/rectpack"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func packed(t *testing.T, settings rectpack.Settings, sources ...rectpack.SourceTexture) *rectpack.Packer {
	t.Helper()
	p := rectpack.NewPacker("sheet", sources, settings)
	require.NoError(t, p.PackEverything(nil))
	return p
}

func TestDescribe_SinglePageExcludesSpacing(t *testing.T) {
	p := packed(t, rectpack.NewSettings(rectpack.MethodDistance, 2, false, nil),
		rectpack.NewSourceTexture("a.png", "a.png", 10, 20))

	pages := Describe(p, false)
	require.Len(t, pages, 1)
	assert.Equal(t, "sheet.png", pages[0].Texture)
	assert.Equal(t, 12, pages[0].Width)
	assert.Equal(t, 22, pages[0].Height)
	require.Len(t, pages[0].Regions, 1)
	assert.Equal(t, Region{Name: "a.png", X: 0, Y: 0, Width: 10, Height: 20}, pages[0].Regions[0])
}

func TestDescribe_PowerOfTwo(t *testing.T) {
	p := packed(t, rectpack.NewSettings(rectpack.MethodDistance, 2, false, nil),
		rectpack.NewSourceTexture("a.png", "a.png", 10, 20))

	pages := Describe(p, true)
	assert.Equal(t, 16, pages[0].Width)
	assert.Equal(t, 32, pages[0].Height)
}

func TestDescribe_MultiplePages(t *testing.T) {
	size := rectpack.NewSize(20, 20)
	var sources []rectpack.SourceTexture
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		sources = append(sources, rectpack.NewSourceTexture(name, name, 10, 10))
	}
	p := packed(t, rectpack.NewSettings(rectpack.MethodDistance, 0, false, &size), sources...)

	pages := Describe(p, false)
	require.Len(t, pages, 2)
	assert.Equal(t, "sheet-0.png", pages[0].Texture)
	assert.Equal(t, "sheet-1.png", pages[1].Texture)
	for _, page := range pages {
		assert.Equal(t, 20, page.Width)
		assert.Equal(t, 20, page.Height)
	}
	assert.Len(t, pages[0].Regions, 4)
	assert.Len(t, pages[1].Regions, 1)
}

func TestDescribe_RotationExtras(t *testing.T) {
	p := packed(t, rectpack.NewSettings(rectpack.MethodDistance, 0, true, nil),
		rectpack.NewSourceTexture("a", "a", 30, 10),
		rectpack.NewSourceTexture("b", "b", 10, 20))

	pages := Describe(p, false)
	require.Len(t, pages, 1)
	for _, r := range pages[0].Regions {
		require.NotNil(t, r.RegionExtra, r.Name)
		if r.Rotated {
			assert.Equal(t, r.OriginalWidth, r.Height, r.Name)
			assert.Equal(t, r.OriginalHeight, r.Width, r.Name)
		} else {
			assert.Equal(t, r.OriginalWidth, r.Width, r.Name)
			assert.Equal(t, r.OriginalHeight, r.Height, r.Name)
		}
	}
}

func TestDescribe_ReplicasShareRegion(t *testing.T) {
	replica := rectpack.NewSourceTexture("copy", "copy", 8, 8)
	replica.ReplicaOf = "orig"
	p := packed(t, rectpack.NewSettings(rectpack.MethodDistance, 0, false, nil),
		rectpack.NewSourceTexture("orig", "orig", 8, 8), replica)

	pages := Describe(p, false)
	require.Len(t, pages[0].Regions, 2)
	a, b := pages[0].Regions[0], pages[0].Regions[1]
	assert.Equal(t, "orig", a.Name)
	assert.Equal(t, "copy", b.Name)
	assert.Equal(t, []int{a.X, a.Y, a.Width, a.Height}, []int{b.X, b.Y, b.Width, b.Height})
}

func TestPageSources(t *testing.T) {
	page := Page{
		Texture: "sheet.png",
		Regions: []Region{
			{Name: "ui/button.png", X: 4, Y: 8, Width: 10, Height: 30,
				RegionExtra: &RegionExtra{OriginalWidth: 30, OriginalHeight: 10, Rotated: true}},
			{Name: "icon.png", X: 0, Y: 0, Width: 4, Height: 4},
		},
	}
	sources := page.Sources()
	require.Len(t, sources, 2)

	assert.Equal(t, "ui-button.png", sources[0].Name)
	assert.Equal(t, "ui-button.png", sources[0].Path)
	assert.Equal(t, rectpack.NewSize(30, 10), sources[0].Dimensions.Size)
	require.NotNil(t, sources[0].Packing)
	assert.True(t, sources[0].Packing.Rotated)
	assert.Equal(t, rectpack.NewRect(4, 8, 10, 30), sources[0].Packing.Position)

	assert.False(t, sources[1].Packing.Rotated)
	assert.Equal(t, rectpack.NewSize(4, 4), sources[1].Dimensions.Size)
}

func TestNextPowerOfTwo(t *testing.T) {
	for n, want := range map[int]int{0: 1, 1: 1, 2: 2, 3: 4, 64: 64, 65: 128, 1000: 1024} {
		assert.Equal(t, want, NextPowerOfTwo(n), "n=%d", n)
	}
}
