package common

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// WorldUp is the world-space up direction used by the left-handed camera convention.
var WorldUp = mgl32.Vec3{0, 1, 0}

// parallelEpsilon is the cross product length below which two unit vectors count as parallel.
const parallelEpsilon = 1e-6

// PerspectiveLH creates a left-handed perspective projection matrix with a [0, 1] depth range.
// With c = 1 / tan(fov/2) the columns are (c/aspect, 0, 0, 0), (0, c, 0, 0),
// (0, 0, far/(far-near), 1) and (0, 0, -(far*near)/(far-near), 0).
//
// Parameters:
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//   - aspect: viewport aspect ratio (width/height)
//   - fov: vertical field of view in radians
//
// Returns:
//   - mgl32.Mat4: the projection matrix (column-major)
func PerspectiveLH(near, far, aspect, fov float32) mgl32.Mat4 {
	c := 1.0 / math32.Tan(fov/2.0)
	depth := far - near
	return mgl32.Mat4FromCols(
		mgl32.Vec4{c / aspect, 0, 0, 0},
		mgl32.Vec4{0, c, 0, 0},
		mgl32.Vec4{0, 0, far / depth, 1},
		mgl32.Vec4{0, 0, -(far * near) / depth, 0},
	)
}

// LookAtLH creates a left-handed view matrix. The camera looks down its local +Z axis,
// with +X to the right and +Y up. When the view direction is parallel to up, another world
// axis stands in for up so the matrix stays invertible.
//
// Parameters:
//   - eye: camera position in world space
//   - center: point the camera looks at
//   - up: up vector defining camera orientation (typically WorldUp)
//
// Returns:
//   - mgl32.Mat4: the view matrix mapping world space to camera space
func LookAtLH(eye, center, up mgl32.Vec3) mgl32.Mat4 {
	z := SafeNormalize(center.Sub(eye))
	if z.Len() == 0 {
		z = mgl32.Vec3{0, 0, 1}
	}
	x := up.Cross(z)
	if x.Len() < parallelEpsilon {
		x = fallbackUp(z).Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)

	return mgl32.Mat4{
		x[0], y[0], z[0], 0,
		x[1], y[1], z[1], 0,
		x[2], y[2], z[2], 0,
		-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1,
	}
}

// fallbackUp returns the world axis least aligned with dir, +Z unless dir is mostly along Z.
func fallbackUp(dir mgl32.Vec3) mgl32.Vec3 {
	if math32.Abs(dir.Z()) < 0.9 {
		return mgl32.Vec3{0, 0, 1}
	}
	return mgl32.Vec3{0, 1, 0}
}

// IsVertical reports whether dir is parallel to WorldUp, or zero.
//
// Parameters:
//   - dir: the direction to test, any length
//
// Returns:
//   - bool: true when a look-at along dir has no defined yaw
func IsVertical(dir mgl32.Vec3) bool {
	n := SafeNormalize(dir)
	return n.Cross(WorldUp).Len() < parallelEpsilon
}

// SafeNormalize returns v scaled to unit length, or v unchanged when its length is zero.
//
// Parameters:
//   - v: the vector to normalize
//
// Returns:
//   - mgl32.Vec3: the normalized vector
func SafeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l == 0 {
		return v
	}
	return v.Mul(1.0 / l)
}

// TranslationFromView extracts the world-space eye position encoded in a rigid view matrix.
// The rotation part is orthonormal, so its inverse is the transpose.
func TranslationFromView(view mgl32.Mat4) mgl32.Vec3 {
	rot := view.Mat3()
	t := mgl32.Vec3{view[12], view[13], view[14]}
	return rot.Transpose().Mul3x1(t).Mul(-1)
}

// DegreesToRadians converts an angle in degrees to radians.
func DegreesToRadians(deg float32) float32 {
	return deg * math32.Pi / 180.0
}
