// Package landmark defines the per-frame geometry delivered by an upstream
// pose extractor: the 21-joint hand model and the face-mesh subset used for
// head angles and eye contact. Coordinates are normalized image space with
// y growing downwards.
package landmark

import "math"

// Hand joint indices following the MediaPipe hand landmarker layout.
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Finger groups the MCP, PIP and DIP joint indices of a non-thumb finger.
type Finger struct {
	Name          string
	MCP, PIP, DIP int
}

// Fingers lists the four non-thumb fingers, index to pinky.
var Fingers = [4]Finger{
	{Name: "index", MCP: IndexMCP, PIP: IndexPIP, DIP: IndexDIP},
	{Name: "middle", MCP: MiddleMCP, PIP: MiddlePIP, DIP: MiddleDIP},
	{Name: "ring", MCP: RingMCP, PIP: RingPIP, DIP: RingDIP},
	{Name: "pinky", MCP: PinkyMCP, PIP: PinkyPIP, DIP: PinkyDIP},
}

// Point3D is a landmark position. Hand predicates only read X and Y.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Sub returns p - q.
func (p Point3D) Sub(q Point3D) Point3D {
	return Point3D{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Norm returns the Euclidean length of p.
func (p Point3D) Norm() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// Norm2D returns the length of p projected onto the image plane.
func (p Point3D) Norm2D() float64 {
	return math.Hypot(p.X, p.Y)
}

// HandLandmarks is one detected hand. It is owned by the caller and only
// read for the duration of a frame.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness,omitempty"` // "Left" or "Right"
	Score      float64               `json:"score,omitempty"`
}

// Scale returns the diagonal of the hand's 2D bounding box, used to make
// distance thresholds independent of how close the hand is to the camera.
// A tiny constant keeps the result strictly positive.
func (h *HandLandmarks) Scale() float64 {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range h.Points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return math.Hypot(maxX-minX, maxY-minY) + 1e-6
}
