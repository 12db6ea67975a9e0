package rectpack

import (
	"cmp"
	"fmt"
	"math"
)

// Point 描述了二维空间中的一个位置。
type Point struct {
	// X 是在水平 x 轴上的位置。
	X int `json:"x"`
	// Y 是在垂直 y 轴上的位置。
	Y int `json:"y"`
}

// NewPoint 初始化一个具有指定坐标的新点。
func NewPoint(x, y int) Point {
	return Point{X: x, Y: y}
}

// Eq 判断接收者和另一个点是否具有相同的值。
func (p Point) Eq(point Point) bool {
	return p.X == point.X && p.Y == point.Y
}

// Size 描述了二维空间中实体的尺寸。
type Size struct {
	// Width 是在水平 x 轴上的尺寸。
	Width int `json:"width"`
	// Height 是在垂直 y 轴上的尺寸。
	Height int `json:"height"`
}

// NewSize 创建具有指定尺寸的新尺寸对象。
func NewSize(width, height int) Size {
	return Size{Width: width, Height: height}
}

// Eq 判断接收者和另一个尺寸是否具有相同的值。
func (sz Size) Eq(size Size) bool {
	return sz.Width == size.Width && sz.Height == size.Height
}

// String 返回 "宽x高" 形式的字符串。
func (sz Size) String() string {
	return fmt.Sprintf("%dx%d", sz.Width, sz.Height)
}

// Area 返回总面积（宽度 * 高度），溢出时饱和到 math.MaxInt。
func (sz Size) Area() int {
	return saturatingMul(sz.Width, sz.Height)
}

// MaxSide 返回较大边的值。
func (sz Size) MaxSide() int {
	return max(sz.Width, sz.Height)
}

// MinSide 返回较小边的值。
func (sz Size) MinSide() int {
	return min(sz.Width, sz.Height)
}

// Rotated 返回宽高互换后的尺寸。
func (sz Size) Rotated() Size {
	return Size{Width: sz.Height, Height: sz.Width}
}

// Rect 描述了二维空间中的一个位置（左上角）和尺寸。
type Rect struct {
	// Point 表示矩形的左上角坐标。
	Point
	// Size 表示矩形的宽度和高度。
	Size
}

// NewRect 初始化一个使用指定点和尺寸值的新矩形。
func NewRect(x, y, w, h int) Rect {
	return Rect{
		Point: Point{X: x, Y: y},
		Size:  Size{Width: w, Height: h},
	}
}

// Eq 比较两个矩形以确定位置和尺寸是否相等。
func (r Rect) Eq(rect Rect) bool {
	return r.Point.Eq(rect.Point) && r.Size.Eq(rect.Size)
}

// String 返回描述矩形的字符串。
func (r Rect) String() string {
	return fmt.Sprintf("[%v, %v, %v, %v]", r.X, r.Y, r.Width, r.Height)
}

// Right 返回矩形右边缘在 x 轴上的坐标。
func (r Rect) Right() int {
	return saturatingAdd(r.X, r.Width)
}

// Bottom 返回矩形下边缘在 y 轴上的坐标。
func (r Rect) Bottom() int {
	return saturatingAdd(r.Y, r.Height)
}

// IsEmpty 测试矩形的宽度或高度是否小于1。
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// PlaceAt 将矩形移动到指定的绝对坐标。
func (r *Rect) PlaceAt(x, y int) {
	r.X = x
	r.Y = y
}

// Rotate 交换矩形的宽和高（旋转90度）。
func (r *Rect) Rotate() {
	r.Width, r.Height = r.Height, r.Width
}

// CanContain 判断接收者的尺寸是否足以容纳 rect，不考虑位置。
func (r Rect) CanContain(rect Rect) bool {
	return r.Width >= rect.Width && r.Height >= rect.Height
}

// ContainsRect 测试指定的矩形是否包含在当前接收者的边界内。
func (r Rect) ContainsRect(rect Rect) bool {
	return r.X <= rect.X &&
		rect.Right() <= r.Right() &&
		r.Y <= rect.Y &&
		rect.Bottom() <= r.Bottom()
}

// Intersects 测试接收者是否与指定的矩形有任何重叠。
func (r Rect) Intersects(rect Rect) bool {
	return rect.X < r.Right() &&
		r.X < rect.Right() &&
		rect.Y < r.Bottom() &&
		r.Y < rect.Bottom()
}

// Intersect 返回一个仅表示此矩形与另一个矩形重叠区域的矩形，
// 如果没有重叠，则返回一个空矩形。
func (r Rect) Intersect(rect Rect) (result Rect) {
	x1 := max(r.X, rect.X)
	x2 := min(r.Right(), rect.Right())
	y1 := max(r.Y, rect.Y)
	y2 := min(r.Bottom(), rect.Bottom())
	if x2 >= x1 && y2 >= y1 {
		result.Point = Point{X: x1, Y: y1}
		result.Size = Size{Width: x2 - x1, Height: y2 - y1}
	}
	return
}

// Union 返回一个包含目标和自己的最小矩形
func (r Rect) Union(rect Rect) Rect {
	x1 := min(r.X, rect.X)
	x2 := max(r.Right(), rect.Right())
	y1 := min(r.Y, rect.Y)
	y2 := max(r.Bottom(), rect.Bottom())
	return NewRect(x1, y1, x2-x1, y2-y1)
}

// DistanceFromOrigin 返回左上角到原点 (0, 0) 的欧几里得距离。
func (r Rect) DistanceFromOrigin() float64 {
	x, y := float64(r.X), float64(r.Y)
	return math.Sqrt(x*x + y*y)
}

// SliceOut 假定接收者是一个空闲矩形，occupied 是刚刚放入其中的矩形，
// 返回切割后剩余的空闲部分：上、下、右、左，最多四块。
//
// 这是一种重叠式的断头台切割，各块之间可能相互重叠，冗余部分由
// Page 的修剪步骤处理。面积为 0 的块会被丢弃；两者不相交时返回 nil。
func (r Rect) SliceOut(occupied Rect) []Rect {
	if r.Intersect(occupied).Area() <= 0 {
		return nil
	}
	relX := saturatingSub(occupied.X, r.X)
	relY := saturatingSub(occupied.Y, r.Y)
	candidates := [4]Rect{
		// 上
		NewRect(r.X, r.Y, r.Width, relY),
		// 下
		NewRect(r.X, occupied.Bottom(), r.Width, saturatingSub(r.Height, saturatingAdd(relY, occupied.Height))),
		// 右
		NewRect(occupied.Right(), r.Y, saturatingSub(r.Width, saturatingAdd(relX, occupied.Width)), r.Height),
		// 左
		NewRect(r.X, r.Y, relX, r.Height),
	}
	pieces := make([]Rect, 0, len(candidates))
	for _, piece := range candidates {
		if piece.Area() > 0 {
			pieces = append(pieces, piece)
		}
	}
	return pieces
}

// CompareDistance 按到原点的距离比较两个矩形。
func CompareDistance(a, b Rect) int {
	return cmp.Compare(a.DistanceFromOrigin(), b.DistanceFromOrigin())
}

// CompareArea 按面积比较两个矩形。
func CompareArea(a, b Rect) int {
	return cmp.Compare(a.Area(), b.Area())
}

func saturatingAdd(a, b int) int {
	if b > 0 && a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

// saturatingSub 对非负整数做减法，结果不会小于 0。
func saturatingSub(a, b int) int {
	if b >= a {
		return 0
	}
	return a - b
}

func saturatingMul(a, b int) int {
	if a <= 0 || b <= 0 {
		return 0
	}
	if a > math.MaxInt/b {
		return math.MaxInt
	}
	return a * b
}
