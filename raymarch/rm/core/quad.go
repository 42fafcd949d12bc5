package core

// QuadVertex is one vertex of the fullscreen effect quad. Corner names the
// frustum slot whose ray the vertex stage fetches; the rasterizer then
// interpolates the fetched ray, not the index.
type QuadVertex struct {
	UV     [2]float32
	Pos    [2]float32
	Corner uint32
}

// ScreenQuad returns the fixed fullscreen quad in emit order bottom-left,
// bottom-right, top-right, top-left. Pure and stateless; callers own the
// returned copy.
func ScreenQuad() [4]QuadVertex {
	return [4]QuadVertex{
		{UV: [2]float32{0, 0}, Pos: [2]float32{0, 0}, Corner: CornerBottomLeft},
		{UV: [2]float32{1, 0}, Pos: [2]float32{1, 0}, Corner: CornerBottomRight},
		{UV: [2]float32{1, 1}, Pos: [2]float32{1, 1}, Corner: CornerTopRight},
		{UV: [2]float32{0, 1}, Pos: [2]float32{0, 1}, Corner: CornerTopLeft},
	}
}

// QuadIndices splits the quad into two CCW triangles covering the same area
// with the same interpolation a hardware quad would produce.
func QuadIndices() [6]uint32 {
	return [6]uint32{0, 1, 2, 0, 2, 3}
}
