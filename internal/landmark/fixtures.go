package landmark

// Canned poses for tests and demos. Each row lists a digit's joints from
// the base outwards; the thumb row is CMC, MCP, IP, tip and finger rows are
// MCP, PIP, DIP, tip.

func buildHand(wrist Point3D, rows [5][4]Point3D) HandLandmarks {
	h := HandLandmarks{Handedness: "Right", Score: 0.95}
	h.Points[Wrist] = wrist
	for r, row := range rows {
		for j, p := range row {
			h.Points[1+r*4+j] = p
		}
	}
	return h
}

func pt(x, y float64) Point3D { return Point3D{X: x, Y: y} }

// curledFingers are four fingers folded against the palm.
var curledFingers = [4][4]Point3D{
	{pt(0.55, 0.70), pt(0.55, 0.68), pt(0.52, 0.70), pt(0.50, 0.72)},
	{pt(0.50, 0.68), pt(0.50, 0.66), pt(0.47, 0.68), pt(0.45, 0.70)},
	{pt(0.45, 0.70), pt(0.45, 0.68), pt(0.42, 0.70), pt(0.40, 0.72)},
	{pt(0.40, 0.72), pt(0.40, 0.70), pt(0.37, 0.72), pt(0.35, 0.74)},
}

func withThumb(thumb [4]Point3D, fingers [4][4]Point3D) [5][4]Point3D {
	return [5][4]Point3D{thumb, fingers[0], fingers[1], fingers[2], fingers[3]}
}

// ThumbsUpLandmarks returns a fist with the thumb pointing straight up.
func ThumbsUpLandmarks() HandLandmarks {
	thumb := [4]Point3D{pt(0.55, 0.75), pt(0.58, 0.65), pt(0.58, 0.50), pt(0.58, 0.35)}
	return buildHand(pt(0.5, 0.8), withThumb(thumb, curledFingers))
}

// ThumbsDownLandmarks returns ThumbsUpLandmarks flipped vertically.
func ThumbsDownLandmarks() HandLandmarks {
	h := ThumbsUpLandmarks()
	for i := range h.Points {
		h.Points[i].Y = 1.2 - h.Points[i].Y
	}
	return h
}

// FistLandmarks returns a closed fist with the thumb tucked across the
// fingers.
func FistLandmarks() HandLandmarks {
	thumb := [4]Point3D{pt(0.55, 0.75), pt(0.55, 0.70), pt(0.52, 0.66), pt(0.50, 0.70)}
	return buildHand(pt(0.5, 0.8), withThumb(thumb, curledFingers))
}

// OpenPalmLandmarks returns a hand with every finger spread and extended.
func OpenPalmLandmarks() HandLandmarks {
	rows := [5][4]Point3D{
		{pt(0.55, 0.75), pt(0.62, 0.70), pt(0.68, 0.65), pt(0.73, 0.60)},
		{pt(0.55, 0.68), pt(0.57, 0.55), pt(0.58, 0.45), pt(0.58, 0.35)},
		{pt(0.50, 0.66), pt(0.50, 0.52), pt(0.50, 0.40), pt(0.50, 0.28)},
		{pt(0.45, 0.68), pt(0.43, 0.55), pt(0.42, 0.45), pt(0.42, 0.35)},
		{pt(0.40, 0.70), pt(0.37, 0.60), pt(0.35, 0.50), pt(0.34, 0.42)},
	}
	return buildHand(pt(0.5, 0.8), rows)
}

// FrontalFace returns a face looking straight into the camera.
func FrontalFace() FaceLandmarks {
	return FaceLandmarks{
		Nose:       pt(0.50, 0.50),
		Forehead:   pt(0.50, 0.30),
		Chin:       pt(0.50, 0.72),
		LeftCheek:  pt(0.35, 0.50),
		RightCheek: pt(0.65, 0.50),
		LeftEye:    pt(0.42, 0.42),
		RightEye:   pt(0.58, 0.42),
	}
}

// TurnedFace returns a face rotated well to one side.
func TurnedFace() FaceLandmarks {
	f := FrontalFace()
	f.Nose.X = 0.60
	f.LeftEye.Z = 0.05
	f.RightEye.Z = -0.05
	return f
}

// PitchedFace returns FrontalFace with the chin pushed towards the camera
// by dz, which tilts the forehead-to-chin axis.
func PitchedFace(dz float64) FaceLandmarks {
	f := FrontalFace()
	f.Chin.Z = dz
	return f
}
