// Copyright (c) 2025, The Visual Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package visual

import (
	"fmt"
	"image"

	"cogentcore.org/core/math32"
)

// Camera defines the viewpoint of a scene: a [Pose] relative to
// pointing at negative Z with positive Y up, a perspective or
// orthographic projection, and the pixel viewport it projects to.
//
// Screen coordinates have their origin at the top-left corner of the
// viewport with +Y down, matching image coordinates.
type Camera struct {
	// Pose is the overall position and orientation of the camera.
	Pose Pose

	// Target is where the camera is pointing; moves with panning
	// and is reset by LookAt.
	Target math32.Vector3

	// UpDir is which way is up; defaults to positive Y,
	// reset by LookAt.
	UpDir math32.Vector3

	// Ortho switches from the default perspective projection to
	// orthographic.
	Ortho bool

	// FOV is the vertical field of view in degrees.
	FOV float32

	// Aspect is the width / height ratio; updated by SetViewport.
	Aspect float32

	// Near plane z coordinate. Must be positive for perspective.
	Near float32

	// Far plane z coordinate. Must be greater than Near.
	Far float32

	// Size is the viewport size in pixels; zero until SetViewport.
	Size image.Point `set:"-"`

	// ViewMatrix is the inverse of the camera pose matrix.
	ViewMatrix math32.Matrix4 `display:"-"`

	// ProjectionMatrix defines the perspective or ortho projection.
	ProjectionMatrix math32.Matrix4 `display:"-"`

	// InvProjectionMatrix is the inverse of ProjectionMatrix.
	InvProjectionMatrix math32.Matrix4 `display:"-"`

	// Frustum is the viewable space of the current projection.
	Frustum *math32.Frustum `display:"-"`
}

func (cm *Camera) Defaults() {
	cm.FOV = 30
	cm.Aspect = 1.5
	cm.Near = .01
	cm.Far = 1000
	cm.DefaultPose()
}

// DefaultPose resets the camera to the default location and
// orientation: looking at the origin from (0, 0, 10) with up +Y.
func (cm *Camera) DefaultPose() {
	cm.Pose.Defaults()
	cm.Pose.Pos.Set(0, 0, 10)
	cm.LookAtOrigin()
}

// SetClipPlanes sets the near and far clip distances, validating that
// near is positive and less than far. Returns ErrInvalidParameter and
// leaves the camera unchanged otherwise.
func (cm *Camera) SetClipPlanes(near, far float32) error {
	if near <= 0 || near >= far {
		return fmt.Errorf("camera clip planes near=%g far=%g: %w", near, far, ErrInvalidParameter)
	}
	cm.Near = near
	cm.Far = far
	return nil
}

// SetViewport sets the pixel size of the viewport the camera renders
// to, updating the aspect ratio. Dimensions must be positive.
func (cm *Camera) SetViewport(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("camera viewport %dx%d: %w", width, height, ErrInvalidParameter)
	}
	cm.Size = image.Point{width, height}
	cm.Aspect = float32(width) / float32(height)
	return nil
}

// UpdateMatrix updates the view and projection matrices.
func (cm *Camera) UpdateMatrix() {
	cm.Pose.UpdateMatrix()
	cm.ViewMatrix.SetInverse(&cm.Pose.Matrix)
	if cm.Ortho {
		height := 2 * cm.Far * math32.Tan(math32.DegToRad(cm.FOV*0.5))
		width := cm.Aspect * height
		cm.ProjectionMatrix.SetOrthographic(width, height, cm.Near, cm.Far)
	} else {
		cm.ProjectionMatrix.SetPerspective(cm.FOV, cm.Aspect, cm.Near, cm.Far)
	}
	cm.InvProjectionMatrix.SetInverse(&cm.ProjectionMatrix)
	var proj math32.Matrix4
	proj.MulMatrices(&cm.ProjectionMatrix, &cm.ViewMatrix)
	cm.Frustum = math32.NewFrustumFromMatrix(&proj)
}

// LookAt points the camera at the given target location using the
// given up direction, and stores them for future camera movements.
func (cm *Camera) LookAt(target, upDir math32.Vector3) {
	cm.Target = target
	if upDir == (math32.Vector3{}) {
		upDir = math32.Vec3(0, 1, 0)
	}
	cm.UpDir = upDir
	cm.Pose.LookAt(target, upDir)
	cm.UpdateMatrix()
}

// LookAtOrigin points the camera at the origin with +Y up.
func (cm *Camera) LookAtOrigin() {
	cm.LookAt(math32.Vector3{}, math32.Vec3(0, 1, 0))
}

// LookAtTarget points the camera at the current target using the
// current up direction.
func (cm *Camera) LookAtTarget() {
	cm.LookAt(cm.Target, cm.UpDir)
}

// ViewVector is the vector from the target to the camera position.
func (cm *Camera) ViewVector() math32.Vector3 {
	return cm.Pose.Pos.Sub(cm.Target)
}

////////////////////////////////////////////////////////////////////
//  Screen mapping

// ndc returns the normalized device coordinates of the given pixel
// position: x in [-1, 1] left to right, y in [-1, 1] bottom to top
// (pixel origin is top-left with +Y down).
func (cm *Camera) ndc(x, y float32) (float32, float32) {
	nx := 2*x/float32(cm.Size.X) - 1
	ny := 1 - 2*y/float32(cm.Size.Y)
	return nx, ny
}

// ScreenToRay returns the world-space ray passing through the given
// pixel position (origin top-left, +Y down). Pixel centers are at
// half-integer coordinates. Returns ErrUninitializedViewport if
// SetViewport has not been called.
func (cm *Camera) ScreenToRay(x, y float32) (math32.Ray, error) {
	if cm.Size == (image.Point{}) {
		return math32.Ray{}, fmt.Errorf("camera ScreenToRay: %w", ErrUninitializedViewport)
	}
	cm.UpdateMatrix()
	var vp math32.Matrix4
	vp.MulMatrices(&cm.ProjectionMatrix, &cm.ViewMatrix)
	inv, err := vp.Inverse()
	if err != nil {
		return math32.Ray{}, fmt.Errorf("camera ScreenToRay: %w: %w", ErrInvalidParameter, err)
	}
	nx, ny := cm.ndc(x, y)
	near := math32.Vec4(nx, ny, -0.9, 1).MulMatrix4(inv).PerspDiv()
	far := math32.Vec4(nx, ny, 0.9, 1).MulMatrix4(inv).PerspDiv()
	dir := far.Sub(near).Normal()
	origin := near
	if !cm.Ortho {
		origin = cm.Pose.Pos
	}
	return math32.Ray{Origin: origin, Dir: dir}, nil
}

// WorldToScreen projects the given world point to pixel coordinates
// (origin top-left, +Y down). Points on the camera's focal plane
// round-trip with ScreenToRay within float tolerance. Returns
// ErrUninitializedViewport if SetViewport has not been called.
func (cm *Camera) WorldToScreen(pt math32.Vector3) (math32.Vector2, error) {
	if cm.Size == (image.Point{}) {
		return math32.Vector2{}, fmt.Errorf("camera WorldToScreen: %w", ErrUninitializedViewport)
	}
	cm.UpdateMatrix()
	var vp math32.Matrix4
	vp.MulMatrices(&cm.ProjectionMatrix, &cm.ViewMatrix)
	ndc := math32.Vector4FromVector3(pt, 1).MulMatrix4(&vp).PerspDiv()
	sx := (ndc.X + 1) / 2 * float32(cm.Size.X)
	sy := (1 - ndc.Y) / 2 * float32(cm.Size.Y)
	return math32.Vec2(sx, sy), nil
}

////////////////////////////////////////////////////////////////////
//  Navigation

// Orbit rotates the camera around the target by the given increments
// in degrees (delX = left/right around the up vector, delY = up/down
// around the right vector), keeping the same distance from the target
// and rotating the up direction to keep looking at the target.
func (cm *Camera) Orbit(delX, delY float32) {
	ctdir := cm.ViewVector()
	if ctdir == (math32.Vector3{}) {
		ctdir.Set(0, 0, 1)
	}

	// yaw around the up vector, then pitch around the right vector
	// recomputed from the yawed direction, so the target-to-camera
	// vector is only ever rotated and its length is preserved exactly.
	dxq := math32.NewQuatAxisAngle(cm.UpDir, math32.DegToRad(delX))
	ctdir = ctdir.MulQuat(dxq)
	right := cm.UpDir.Cross(ctdir).Normal()
	dyq := math32.NewQuatAxisAngle(right, math32.DegToRad(delY))
	ctdir = ctdir.MulQuat(dyq)

	cm.Pose.Pos = cm.Target.Add(ctdir)
	cm.UpDir = cm.UpDir.MulQuat(dyq)

	cm.LookAtTarget()
}

// Pan moves the camera and target along the 2D axes of the current
// window view (left/right, up/down), keeping the view direction.
func (cm *Camera) Pan(delX, delY float32) {
	dx := math32.Vec3(-delX, 0, 0).MulQuat(cm.Pose.Quat)
	dy := math32.Vec3(0, -delY, 0).MulQuat(cm.Pose.Quat)
	td := dx.Add(dy)
	cm.Pose.Pos.SetAdd(td)
	cm.Target.SetAdd(td)
}

// PanAxis moves the camera and target along the world X, Y axes.
func (cm *Camera) PanAxis(delX, delY float32) {
	td := math32.Vec3(-delX, -delY, 0)
	cm.Pose.Pos.SetAdd(td)
	cm.Target.SetAdd(td)
}

// PanTarget moves the target along world X, Y, Z axes and re-points
// the camera at the new target location.
func (cm *Camera) PanTarget(delX, delY, delZ float32) {
	td := math32.Vec3(-delX, -delY, delZ)
	cm.Target.SetAdd(td)
	cm.LookAtTarget()
}

// Zoom moves the camera along the view axis by the given fraction of
// the current distance to the target: positive moves away, negative
// moves closer. The target is pushed back when the camera gets within
// unit distance while zooming in, so the camera never crosses it.
func (cm *Camera) Zoom(zoomPct float32) {
	ctaxis := cm.ViewVector()
	if ctaxis == (math32.Vector3{}) {
		ctaxis.Set(0, 0, 1)
	}
	dist := ctaxis.Length()
	del := ctaxis.MulScalar(zoomPct)
	cm.Pose.Pos.SetAdd(del)
	if zoomPct < 0 && dist < 1 {
		cm.Target.SetAdd(del)
	}
}

// Roll rotates the camera around its view axis by the given angle in
// degrees, keeping the position and target. Positive angles roll
// counter-clockwise from the camera's point of view.
func (cm *Camera) Roll(angle float32) {
	axis := cm.ViewVector()
	if axis == (math32.Vector3{}) {
		axis.Set(0, 0, 1)
	}
	rq := math32.NewQuatAxisAngle(axis.Normal(), math32.DegToRad(angle))
	cm.UpDir = cm.UpDir.MulQuat(rq)
	cm.LookAtTarget()
}

// Fit points the camera at the center of the given world bounding box
// and dollies it along its current view direction until the box's
// bounding sphere fills the frame in the narrower of the two view
// angles. scale in (0, 1] is the fraction of the frame the sphere
// occupies, with 1 being full frame. Returns ErrInvalidParameter for
// an empty box or a scale outside (0, 1].
func (cm *Camera) Fit(bbox math32.Box3, scale float32) error {
	if bbox.IsEmpty() || scale <= 0 || scale > 1 {
		return fmt.Errorf("camera fit (scale=%g): %w", scale, ErrInvalidParameter)
	}
	sph := bbox.GetBoundingSphere()
	radius := sph.Radius / scale
	if radius == 0 { // degenerate single-point box
		radius = 1
	}
	halfV := math32.DegToRad(cm.FOV * 0.5)
	halfMin := halfV
	if cm.Aspect < 1 {
		halfMin = math32.Atan(math32.Tan(halfV) * cm.Aspect)
	}
	dist := radius / math32.Sin(halfMin)
	dir := cm.ViewVector()
	if dir == (math32.Vector3{}) {
		dir.Set(0, 0, 1)
	}
	cm.Target = sph.Center
	cm.Pose.Pos = sph.Center.Add(dir.Normal().MulScalar(dist))
	cm.LookAtTarget()
	return nil
}
