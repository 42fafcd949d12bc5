package core

import "testing"

func TestScreenQuad_Table(t *testing.T) {
	quad := ScreenQuad()

	want := []struct {
		uv     [2]float32
		pos    [2]float32
		corner uint32
	}{
		{[2]float32{0, 0}, [2]float32{0, 0}, CornerBottomLeft},
		{[2]float32{1, 0}, [2]float32{1, 0}, CornerBottomRight},
		{[2]float32{1, 1}, [2]float32{1, 1}, CornerTopRight},
		{[2]float32{0, 1}, [2]float32{0, 1}, CornerTopLeft},
	}

	for i, w := range want {
		v := quad[i]
		if v.UV != w.uv || v.Pos != w.pos || v.Corner != w.corner {
			t.Errorf("vertex %d: expected uv=%v pos=%v corner=%d, got uv=%v pos=%v corner=%d",
				i, w.uv, w.pos, w.corner, v.UV, v.Pos, v.Corner)
		}
	}
}

func TestScreenQuad_Pure(t *testing.T) {
	a := ScreenQuad()
	b := ScreenQuad()
	if a != b {
		t.Fatalf("two calls returned different quads: %v vs %v", a, b)
	}

	a[0].UV = [2]float32{9, 9}
	a[2].Corner = 7
	if c := ScreenQuad(); c != b {
		t.Errorf("mutating a returned copy leaked into later calls: %v", c)
	}
}

func TestQuadIndices_TwoTriangles(t *testing.T) {
	idx := QuadIndices()
	want := [6]uint32{0, 1, 2, 0, 2, 3}
	if idx != want {
		t.Fatalf("expected indices %v, got %v", want, idx)
	}

	used := [4]bool{}
	for _, i := range idx {
		used[i] = true
	}
	for v, ok := range used {
		if !ok {
			t.Errorf("vertex %d is not referenced by any triangle", v)
		}
	}
}

// Interpolating corner slots by the bilinear weights of a vertex's uv must
// pick the same slot the vertex's corner tag names. This is what lets the
// vertex stage fetch rays by tag while the fragment stage thinks in uv.
func TestScreenQuad_TagMatchesBilinearWeights(t *testing.T) {
	weightBySlot := func(u, v float32) [4]float32 {
		var w [4]float32
		w[CornerTopLeft] = (1 - u) * v
		w[CornerTopRight] = u * v
		w[CornerBottomRight] = u * (1 - v)
		w[CornerBottomLeft] = (1 - u) * (1 - v)
		return w
	}

	for i, vert := range ScreenQuad() {
		w := weightBySlot(vert.UV[0], vert.UV[1])
		for slot, weight := range w {
			expected := float32(0)
			if uint32(slot) == vert.Corner {
				expected = 1
			}
			if weight != expected {
				t.Errorf("vertex %d: slot %d has weight %v, tag %d demands %v",
					i, slot, weight, vert.Corner, expected)
			}
		}
	}
}
