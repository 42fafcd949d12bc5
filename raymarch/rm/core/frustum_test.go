package core

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCornerRays_SquareReference(t *testing.T) {
	// fov 90 with aspect 1: tan(45 deg) = 1, so every corner is (+-1, +-1, -1).
	b, err := CornerRays(90, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := CornerBasis{
		CornerTopLeft:     mgl32.Vec3{-1, 1, -1},
		CornerTopRight:    mgl32.Vec3{1, 1, -1},
		CornerBottomRight: mgl32.Vec3{1, -1, -1},
		CornerBottomLeft:  mgl32.Vec3{-1, -1, -1},
	}
	for i := range b {
		if b[i].Sub(want[i]).Len() > 1e-6 {
			t.Errorf("corner %d: expected %v, got %v", i, want[i], b[i])
		}
	}
}

func TestCornerRays_NeverNormalized(t *testing.T) {
	fovs := []float32{10, 30, 60, 90, 120, 179}
	aspects := []float32{0.5, 1, 16.0 / 9.0, 2.35}

	for _, fov := range fovs {
		for _, aspect := range aspects {
			b, err := CornerRays(fov, aspect)
			if err != nil {
				t.Fatalf("fov=%v aspect=%v: unexpected error: %v", fov, aspect, err)
			}
			for i, c := range b {
				if c.Z() != -1 {
					t.Errorf("fov=%v aspect=%v corner %d: z = %v, want exactly -1", fov, aspect, i, c.Z())
				}
			}
		}
	}
}

func TestCornerRays_Symmetry(t *testing.T) {
	b, err := CornerRays(72.5, 1.6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tl := b[CornerTopLeft]
	tr := b[CornerTopRight]
	br := b[CornerBottomRight]
	bl := b[CornerBottomLeft]

	if tl.X() != -tr.X() {
		t.Errorf("top corners not mirrored in x: %v vs %v", tl.X(), tr.X())
	}
	if tl.Y() != tr.Y() {
		t.Errorf("top corners differ in y: %v vs %v", tl.Y(), tr.Y())
	}
	if bl.X() != -br.X() {
		t.Errorf("bottom corners not mirrored in x: %v vs %v", bl.X(), br.X())
	}
	if bl.Y() != -tl.Y() {
		t.Errorf("bottom y is not the negated top y: %v vs %v", bl.Y(), tl.Y())
	}
}

func TestCornerRays_AspectScalesOnlyX(t *testing.T) {
	narrow, err := CornerRays(60, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wide, err := CornerRays(60, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range narrow {
		if wide[i].X() != narrow[i].X()*2 {
			t.Errorf("corner %d: doubling aspect should double x: %v vs %v", i, narrow[i].X(), wide[i].X())
		}
		if wide[i].Y() != narrow[i].Y() {
			t.Errorf("corner %d: aspect change moved y: %v vs %v", i, narrow[i].Y(), wide[i].Y())
		}
	}
}

func TestCornerRays_RejectsBadIntrinsics(t *testing.T) {
	tests := []struct {
		name   string
		fov    float32
		aspect float32
	}{
		{"fov zero", 0, 1},
		{"fov 180", 180, 1},
		{"fov negative", -10, 1},
		{"fov above 180", 200, 1},
		{"aspect zero", 60, 0},
		{"aspect negative", 60, -1.5},
	}

	for _, tt := range tests {
		b, err := CornerRays(tt.fov, tt.aspect)
		if err == nil {
			t.Errorf("%s: expected an error, got basis %v", tt.name, b)
			continue
		}
		if !errors.Is(err, ErrInvalidIntrinsics) {
			t.Errorf("%s: error %v does not wrap ErrInvalidIntrinsics", tt.name, err)
		}
		if b != (CornerBasis{}) {
			t.Errorf("%s: rejected input returned nonzero basis %v", tt.name, b)
		}
	}
}

func TestCornerBasis_Mat4Slots(t *testing.T) {
	b, err := CornerRays(60, 16.0/9.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := b.Mat4()
	for i, c := range b {
		got := m.Col(i)
		want := c.Vec4(0)
		if got != want {
			t.Errorf("slot %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestCornerBasis_TransformedIgnoresTranslation(t *testing.T) {
	b, err := CornerRays(60, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	moved := b.Transformed(mgl32.Translate3D(5, -3, 12))
	for i := range b {
		if moved[i].Sub(b[i]).Len() > 1e-6 {
			t.Errorf("corner %d moved under pure translation: %v vs %v", i, b[i], moved[i])
		}
	}

	spun := b.Transformed(mgl32.HomogRotate3DY(mgl32.DegToRad(90)))
	for i := range spun {
		if mgl32.Abs(spun[i].Len()-b[i].Len()) > 1e-5 {
			t.Errorf("corner %d changed length under rotation: %v vs %v", i, b[i].Len(), spun[i].Len())
		}
	}
}

func TestCornerBasis_NormalizedIsACopy(t *testing.T) {
	b, err := CornerRays(100, 1.5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n := b.Normalized()
	for i := range n {
		if mgl32.Abs(n[i].Len()-1) > 1e-6 {
			t.Errorf("corner %d not unit length: %v", i, n[i].Len())
		}
		if b[i].Z() != -1 {
			t.Errorf("corner %d of the source basis was mutated: %v", i, b[i])
		}
	}
}
