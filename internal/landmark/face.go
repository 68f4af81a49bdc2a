package landmark

import (
	"errors"
	"fmt"
)

// Face-mesh indices of the points the face predicates read.
const (
	MeshNoseTip    = 1
	MeshForehead   = 10
	MeshLeftEye    = 33
	MeshChin       = 152
	MeshLeftCheek  = 234
	MeshRightEye   = 263
	MeshRightCheek = 454

	// MinMeshPoints is the smallest mesh that contains every index above.
	MinMeshPoints = MeshRightCheek + 1
)

// ErrShortMesh is returned when a face mesh lacks a required index.
var ErrShortMesh = errors.New("face mesh too short")

// FaceLandmarks is the subset of a face mesh used for head angles and
// eye contact.
type FaceLandmarks struct {
	Nose       Point3D `json:"nose"`
	Forehead   Point3D `json:"forehead"`
	Chin       Point3D `json:"chin"`
	LeftCheek  Point3D `json:"left_cheek"`
	RightCheek Point3D `json:"right_cheek"`
	LeftEye    Point3D `json:"left_eye"`
	RightEye   Point3D `json:"right_eye"`
}

// FaceFromMesh picks the named points out of a full face mesh.
func FaceFromMesh(mesh []Point3D) (FaceLandmarks, error) {
	if len(mesh) < MinMeshPoints {
		return FaceLandmarks{}, fmt.Errorf("%w: need %d points, got %d", ErrShortMesh, MinMeshPoints, len(mesh))
	}
	return FaceLandmarks{
		Nose:       mesh[MeshNoseTip],
		Forehead:   mesh[MeshForehead],
		Chin:       mesh[MeshChin],
		LeftCheek:  mesh[MeshLeftCheek],
		RightCheek: mesh[MeshRightCheek],
		LeftEye:    mesh[MeshLeftEye],
		RightEye:   mesh[MeshRightEye],
	}, nil
}
