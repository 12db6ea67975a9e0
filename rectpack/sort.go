package rectpack

import (
	"cmp"
	"slices"

	"github.com/maruel/natural"
)

// SortFunc 定义源纹理比较函数的原型
// 返回值:
//
//	-1: a 排在 b 之前
//	 0: a == b
//	 1: a 排在 b 之后
type SortFunc func(a, b SourceTexture) int

// SortLongSide 按最长边降序排序，其次按最短边降序，最后按名称自然顺序
func SortLongSide(a, b SourceTexture) int {
	if c := cmp.Compare(b.Dimensions.MaxSide(), a.Dimensions.MaxSide()); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Dimensions.MinSide(), a.Dimensions.MinSide()); c != 0 {
		return c
	}
	return compareNatural(a.Name, b.Name)
}

// SortShortSide 按最短边降序排序，其次按最长边降序，最后按名称自然顺序
func SortShortSide(a, b SourceTexture) int {
	if c := cmp.Compare(b.Dimensions.MinSide(), a.Dimensions.MinSide()); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Dimensions.MaxSide(), a.Dimensions.MaxSide()); c != 0 {
		return c
	}
	return compareNatural(a.Name, b.Name)
}

// ResolveSort 返回对应的排序函数，short 为 true 时按最短边排序。
func ResolveSort(short bool) SortFunc {
	if short {
		return SortShortSide
	}
	return SortLongSide
}

// SortSources 使用 fn 对源纹理进行稳定排序。
func SortSources(sources []SourceTexture, fn SortFunc) {
	slices.SortStableFunc(sources, fn)
}

// compareNatural 按自然顺序比较字符串，例如 "a2" 排在 "a10" 之前。
func compareNatural(a, b string) int {
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	}
	return 0
}
