// Copyright (c) 2025, The Visual Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package visual

import (
	"fmt"

	"cogentcore.org/core/math32"
)

// Pose is the full specification of position, orientation, and scale,
// always relative to the parent element. The matrix fields are caches
// recomputed from Pos, Quat, and Scale during each update pass;
// they are never read across frames without being refreshed.
type Pose struct {
	// Pos is the position of the center of the element, relative to parent.
	Pos math32.Vector3

	// Quat is the rotation, relative to parent, kept normalized.
	Quat math32.Quat

	// Scale is the scale, relative to parent. All factors must be nonzero.
	Scale math32.Vector3

	// Matrix is the local matrix, computed from Pos, Quat, Scale.
	Matrix math32.Matrix4 `display:"-"`

	// ParMatrix is the parent's world matrix, cached during traversal
	// so this pose can update its own world matrix independently.
	ParMatrix math32.Matrix4 `display:"-"`

	// WorldMatrix is the full world matrix: ParMatrix * Matrix.
	WorldMatrix math32.Matrix4 `display:"-"`

	// MVMatrix is the model * view matrix, into camera-centered coords.
	MVMatrix math32.Matrix4 `display:"-"`

	// MVPMatrix is the model * view * projection matrix, the final
	// render matrix.
	MVPMatrix math32.Matrix4 `display:"-"`

	// NormMatrix is the normal matrix based on MVMatrix.
	NormMatrix math32.Matrix3 `display:"-"`

	// exact means Matrix was set directly and can hold components,
	// such as the shear arising from rotation under non-uniform scale,
	// that Pos, Quat, and Scale cannot represent. UpdateMatrix leaves
	// the matrix untouched until a component is changed.
	exact bool
}

// Defaults sets defaults only if current values are degenerate (zero).
func (ps *Pose) Defaults() {
	if ps.Scale == (math32.Vector3{}) {
		ps.Scale.Set(1, 1, 1)
	}
	if ps.Quat.IsNil() {
		ps.Quat.SetIdentity()
	}
}

// CopyFrom copies the Pos, Quat, and Scale from the other pose,
// critically not copying ParMatrix, which is preserved in the receiver.
func (ps *Pose) CopyFrom(op *Pose) {
	ps.Pos = op.Pos
	ps.Quat = op.Quat
	ps.Scale = op.Scale
	ps.Matrix = op.Matrix
	ps.exact = op.exact
	ps.UpdateMatrix()
}

// UpdateMatrix updates the local matrix from Pos, Quat, and Scale,
// after checking for degenerate zero values.
func (ps *Pose) UpdateMatrix() {
	ps.Defaults()
	if ps.exact {
		return
	}
	ps.Matrix.SetTransform(ps.Pos, ps.Quat, ps.Scale)
}

// UpdateWorldMatrix updates the world matrix from the local Matrix and
// the given parent world matrix, which is cached in ParMatrix.
// Does not call UpdateMatrix, so other factors can be included first.
func (ps *Pose) UpdateWorldMatrix(parWorld *math32.Matrix4) {
	if parWorld != nil {
		ps.ParMatrix = *parWorld
	}
	ps.WorldMatrix.MulMatrices(&ps.ParMatrix, &ps.Matrix)
}

// UpdateMVPMatrix updates the model-view and model-view-projection
// matrices from the given camera view and projection matrices.
// Assumes WorldMatrix is current.
func (ps *Pose) UpdateMVPMatrix(viewMat, projMat *math32.Matrix4) {
	ps.MVMatrix.MulMatrices(viewMat, &ps.WorldMatrix)
	ps.NormMatrix.SetNormalMatrix(&ps.MVMatrix)
	ps.MVPMatrix.MulMatrices(projMat, &ps.MVMatrix)
}

// Mul returns the composition of the given parent pose with this pose,
// such that the result maps local coordinates first through this pose
// and then through the parent (world = parent * local).
func (ps *Pose) Mul(par *Pose) Pose {
	ps.UpdateMatrix()
	par.UpdateMatrix()
	np := Pose{}
	np.Defaults()
	var m math32.Matrix4
	m.MulMatrices(&par.Matrix, &ps.Matrix)
	np.SetMatrix(&m)
	return np
}

// Inverse returns the pose that undoes this pose:
// composing a pose with its inverse yields the identity
// (up to float tolerance).
func (ps *Pose) Inverse() Pose {
	ps.UpdateMatrix()
	np := Pose{}
	np.Defaults()
	inv, _ := ps.Matrix.Inverse()
	np.SetMatrix(inv)
	return np
}

// SetMatrix sets the local matrix exactly and decomposes it into Pos,
// Quat, and Scale. The matrix remains authoritative until a component
// is changed, so composition and inversion are not subject to
// decomposition loss.
func (ps *Pose) SetMatrix(m *math32.Matrix4) {
	ps.Matrix = *m
	ps.Pos, ps.Quat, ps.Scale = ps.Matrix.Decompose()
	ps.exact = true
}

// Translate adds the given delta to the position.
func (ps *Pose) Translate(delta math32.Vector3) {
	ps.Pos.SetAdd(delta)
	ps.exact = false
}

// MoveOnAxis moves the given distance on the given local axis,
// relative to the current rotation orientation.
func (ps *Pose) MoveOnAxis(x, y, z, dist float32) {
	ps.Pos.SetAdd(math32.Vec3(x, y, z).Normal().MulQuat(ps.Quat).MulScalar(dist))
	ps.exact = false
}

// MoveOnAxisAbs moves the given distance on the given axis
// in absolute X, Y, Z coordinates, ignoring the current rotation.
func (ps *Pose) MoveOnAxisAbs(x, y, z, dist float32) {
	ps.Pos.SetAdd(math32.Vec3(x, y, z).Normal().MulScalar(dist))
	ps.exact = false
}

// SetScale sets the scale factors, which must all be nonzero;
// returns ErrInvalidParameter otherwise, leaving the pose unchanged.
func (ps *Pose) SetScale(x, y, z float32) error {
	if x == 0 || y == 0 || z == 0 {
		return fmt.Errorf("pose scale (%g, %g, %g): %w", x, y, z, ErrInvalidParameter)
	}
	ps.Scale.Set(x, y, z)
	ps.exact = false
	return nil
}

// RotateQuat applies the given rotation relative to the existing
// rotation, keeping the result normalized.
func (ps *Pose) RotateQuat(q math32.Quat) {
	ps.Quat.SetMul(q)
	ps.Quat.Normalize()
	ps.exact = false
}

// SetEulerRotation sets the rotation in Euler angles (degrees).
func (ps *Pose) SetEulerRotation(x, y, z float32) {
	ps.Quat.SetFromEuler(math32.Vec3(x, y, z).MulScalar(math32.DegToRadFactor))
	ps.exact = false
}

// SetAxisRotation sets the rotation from a local axis and angle in degrees.
func (ps *Pose) SetAxisRotation(x, y, z, angle float32) {
	ps.Quat.SetFromAxisAngle(math32.Vec3(x, y, z), math32.DegToRad(angle))
	ps.exact = false
}

// RotateOnAxis rotates around the given local axis by the given angle
// in degrees, relative to the existing rotation.
func (ps *Pose) RotateOnAxis(x, y, z, angle float32) {
	ps.RotateQuat(math32.NewQuatAxisAngle(math32.Vec3(x, y, z), math32.DegToRad(angle)))
}

// LookAt points the element at the given target location using the
// given up direction.
func (ps *Pose) LookAt(target, upDir math32.Vector3) {
	ps.Quat.SetFromRotationMatrix(math32.NewLookAt(ps.Pos, target, upDir))
	ps.exact = false
}

// WorldPos returns the position component of the world matrix.
func (ps *Pose) WorldPos() math32.Vector3 {
	pos := math32.Vector3{}
	pos.SetFromMatrixPos(&ps.WorldMatrix)
	return pos
}

// WorldQuat returns the rotation component of the world matrix.
func (ps *Pose) WorldQuat() math32.Quat {
	_, quat, _ := ps.WorldMatrix.Decompose()
	return quat
}

// WorldScale returns the scale component of the world matrix.
func (ps *Pose) WorldScale() math32.Vector3 {
	_, _, scale := ps.WorldMatrix.Decompose()
	return scale
}
