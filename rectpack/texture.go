package rectpack

// PackingData 记录纹理在页面中的放置结果。
type PackingData struct {
	// Position 是纹理在页面中占用的区域，宽高已包含间距。
	Position Rect
	// Rotated 表示纹理放置时宽高互换（顺时针旋转90度）。
	Rotated bool
}

// Region 返回去掉尾部间距后纹理像素实际所在的区域。
func (pd PackingData) Region(spacing int) Rect {
	r := pd.Position
	r.Width = saturatingSub(r.Width, spacing)
	r.Height = saturatingSub(r.Height, spacing)
	return r
}

// SourceTexture 是一张待打包的源图片。
type SourceTexture struct {
	// Name 是纹理的唯一显示名称。
	Name string
	// Path 是源图片文件的路径。
	Path string
	// Dimensions 是纹理的像素尺寸，X 和 Y 始终为 0。
	Dimensions Rect
	// ReplicaOf 非空时表示该纹理与指定名称的纹理完全相同。
	ReplicaOf string
	// Packing 在纹理放置之前为 nil。
	Packing *PackingData
}

// NewSourceTexture 创建一个尚未放置的源纹理。
func NewSourceTexture(name, path string, width, height int) SourceTexture {
	return SourceTexture{
		Name:       name,
		Path:       path,
		Dimensions: NewRect(0, 0, width, height),
	}
}

// IsReplica 表示该纹理是否是另一个纹理的副本。
func (t *SourceTexture) IsReplica() bool {
	return t.ReplicaOf != ""
}
