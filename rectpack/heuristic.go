package rectpack

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// MaxDimensions 是固定页面尺寸的上限（不含）。
	MaxDimensions = 65535
	// MaxSpacing 是纹理间距的上限，超出的值会被截断。
	MaxSpacing = 1024
)

// Method 决定从候选空闲矩形中挑选放置位置的排序规则。
type Method uint8

const (
	// MethodDistance 优先选择距离原点最近的空闲矩形，面积较小者优先。
	MethodDistance Method = iota
	// MethodArea 优先选择面积最小的空闲矩形，距离原点较近者优先。
	MethodArea
)

func (m Method) String() string {
	switch m {
	case MethodDistance:
		return "Distance"
	case MethodArea:
		return "Area"
	}
	return fmt.Sprintf("Method(%d)", m)
}

// compare 返回该方法对应的空闲矩形比较函数。
func (m Method) compare(a, b Rect) int {
	if m == MethodArea {
		if c := CompareArea(a, b); c != 0 {
			return c
		}
		return CompareDistance(a, b)
	}
	if c := CompareDistance(a, b); c != 0 {
		return c
	}
	return CompareArea(a, b)
}

var (
	ErrInvalidMethod    = errors.New("invalid packing method")
	ErrInvalidPageSize  = errors.New("invalid page size")
	ErrPageSizeTooLarge = fmt.Errorf("largest supported page size is %dx%d", MaxDimensions, MaxDimensions)
)

// ParseMethod 将字符串（不区分大小写）解析为打包方法。
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(s) {
	case "distance", "":
		return MethodDistance, nil
	case "area":
		return MethodArea, nil
	}
	return 0, fmt.Errorf("%w: '%s'", ErrInvalidMethod, s)
}

// Settings 描述了一次打包使用的参数。
type Settings struct {
	// Method 是候选空闲矩形的排序规则。
	Method Method
	// Spacing 是添加到每个矩形右侧和下侧的间距。
	Spacing int
	// Rotation 表示是否允许将矩形旋转90度。
	Rotation bool
	// PageSize 为 nil 时页面随内容增长，否则为固定的页面尺寸。
	PageSize *Size
}

// NewSettings 创建打包参数，间距被限制在 [0, MaxSpacing] 范围内。
func NewSettings(method Method, spacing int, rotation bool, pageSize *Size) Settings {
	return Settings{
		Method:   method,
		Spacing:  min(max(spacing, 0), MaxSpacing),
		Rotation: rotation,
		PageSize: pageSize,
	}
}

// IsFixed 表示页面尺寸是否固定。
func (s Settings) IsFixed() bool {
	return s.PageSize != nil
}

// ParsePageSize 解析 "宽x高" 形式的页面尺寸，例如 "1024x512"。
// 空字符串表示动态尺寸，返回 nil。
func ParsePageSize(s string) (*Size, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: failed to read dimensions from '%s'", ErrInvalidPageSize, s)
	}
	w, errW := strconv.ParseUint(parts[0], 10, 32)
	h, errH := strconv.ParseUint(parts[1], 10, 32)
	if errW != nil || errH != nil {
		return nil, fmt.Errorf("%w: failed to read dimensions from '%s'", ErrInvalidPageSize, s)
	}
	if w >= MaxDimensions || h >= MaxDimensions {
		return nil, ErrPageSizeTooLarge
	}
	size := NewSize(int(w), int(h))
	return &size, nil
}
