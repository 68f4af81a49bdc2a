package landmark

import (
	"errors"
	"math"
	"testing"
)

const epsilon = 1e-9

func TestPoint3D_Arithmetic(t *testing.T) {
	p := Point3D{X: 4, Y: 6, Z: 12}
	q := Point3D{X: 1, Y: 2, Z: 0}

	d := p.Sub(q)
	if d != (Point3D{X: 3, Y: 4, Z: 12}) {
		t.Errorf("unexpected difference %+v", d)
	}
	if math.Abs(d.Norm()-13) > epsilon {
		t.Errorf("expected norm 13, got %v", d.Norm())
	}
	if math.Abs(d.Norm2D()-5) > epsilon {
		t.Errorf("expected 2D norm 5, got %v", d.Norm2D())
	}
}

func TestHandLandmarks_Scale(t *testing.T) {
	var h HandLandmarks
	for i := range h.Points {
		h.Points[i] = Point3D{X: 0.5, Y: 0.5}
	}
	h.Points[IndexTip] = Point3D{X: 0.8, Y: 0.1}

	want := math.Hypot(0.3, 0.4) + 1e-6
	if got := h.Scale(); math.Abs(got-want) > epsilon {
		t.Errorf("expected scale %v, got %v", want, got)
	}

	var degenerate HandLandmarks
	if degenerate.Scale() <= 0 {
		t.Error("expected degenerate hand scale to stay positive")
	}
}

func TestFixtures(t *testing.T) {
	t.Run("thumbs up thumb above wrist", func(t *testing.T) {
		h := ThumbsUpLandmarks()
		if h.Points[ThumbTip].Y >= h.Points[Wrist].Y {
			t.Error("expected thumb tip above wrist")
		}
		if h.Handedness != "Right" {
			t.Errorf("expected handedness Right, got %s", h.Handedness)
		}
	})

	t.Run("thumbs down mirrors thumbs up", func(t *testing.T) {
		up := ThumbsUpLandmarks()
		down := ThumbsDownLandmarks()
		for i := range up.Points {
			if math.Abs(up.Points[i].Y+down.Points[i].Y-1.2) > epsilon {
				t.Fatalf("point %d not mirrored", i)
			}
		}
		if down.Points[ThumbTip].Y <= down.Points[Wrist].Y {
			t.Error("expected thumb tip below wrist")
		}
	})

	t.Run("open palm fingertips above knuckles", func(t *testing.T) {
		h := OpenPalmLandmarks()
		for _, f := range Fingers {
			tip := f.DIP + 1
			if h.Points[tip].Y >= h.Points[f.MCP].Y {
				t.Errorf("expected %s tip above its MCP", f.Name)
			}
		}
	})
}

func TestFaceFromMesh(t *testing.T) {
	mesh := make([]Point3D, MinMeshPoints)
	for i := range mesh {
		mesh[i] = Point3D{X: float64(i)}
	}

	face, err := FaceFromMesh(mesh)
	if err != nil {
		t.Fatalf("FaceFromMesh failed: %v", err)
	}
	if face.Nose.X != MeshNoseTip || face.RightCheek.X != MeshRightCheek || face.Chin.X != MeshChin {
		t.Errorf("unexpected landmark selection %+v", face)
	}

	_, err = FaceFromMesh(mesh[:100])
	if !errors.Is(err, ErrShortMesh) {
		t.Errorf("expected ErrShortMesh, got %v", err)
	}
}
