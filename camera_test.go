// Copyright (c) 2025, The Visual Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package visual

import (
	"testing"

	"cogentcore.org/core/base/tolassert"
	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameraDefaults(t *testing.T) {
	cm := Camera{}
	cm.Defaults()
	assert.Equal(t, float32(30), cm.FOV)
	tolAssertEqualVector3(t, standardTol, math32.Vec3(0, 0, 10), cm.Pose.Pos)
	tolAssertEqualVector3(t, standardTol, math32.Vec3(0, 0, 10), cm.ViewVector())
}

func TestCameraSetClipPlanes(t *testing.T) {
	cm := Camera{}
	cm.Defaults()

	assert.ErrorIs(t, cm.SetClipPlanes(0, 100), ErrInvalidParameter)
	assert.ErrorIs(t, cm.SetClipPlanes(-1, 100), ErrInvalidParameter)
	assert.ErrorIs(t, cm.SetClipPlanes(10, 10), ErrInvalidParameter)
	assert.ErrorIs(t, cm.SetClipPlanes(10, 1), ErrInvalidParameter)
	// unchanged on failure
	assert.Equal(t, float32(.01), cm.Near)
	assert.Equal(t, float32(1000), cm.Far)

	require.NoError(t, cm.SetClipPlanes(0.1, 100))
	assert.Equal(t, float32(0.1), cm.Near)
	assert.Equal(t, float32(100), cm.Far)
}

func TestCameraSetViewport(t *testing.T) {
	cm := Camera{}
	cm.Defaults()

	assert.ErrorIs(t, cm.SetViewport(0, 480), ErrInvalidParameter)
	assert.ErrorIs(t, cm.SetViewport(640, -1), ErrInvalidParameter)

	require.NoError(t, cm.SetViewport(640, 480))
	tolassert.EqualTol(t, 640.0/480.0, cm.Aspect, standardTol)
}

func TestCameraScreenToRay(t *testing.T) {
	cm := Camera{}
	cm.Defaults()

	_, err := cm.ScreenToRay(10, 10)
	assert.ErrorIs(t, err, ErrUninitializedViewport)

	// a zero-size viewport is rejected and leaves the camera unusable
	// for ray casting
	assert.ErrorIs(t, cm.SetViewport(0, 0), ErrInvalidParameter)
	_, err = cm.ScreenToRay(10, 10)
	assert.ErrorIs(t, err, ErrUninitializedViewport)

	require.NoError(t, cm.SetViewport(640, 480))

	// the center of the viewport looks straight down -Z
	ray, err := cm.ScreenToRay(320, 240)
	require.NoError(t, err)
	tolAssertEqualVector3(t, 1.0e-4, math32.Vec3(0, 0, -1), ray.Dir)
	tolAssertEqualVector3(t, 1.0e-3, cm.Pose.Pos, ray.Origin)

	// pixel origin is top-left: above center points up, left of
	// center points left
	ray, err = cm.ScreenToRay(320, 0)
	require.NoError(t, err)
	assert.Greater(t, ray.Dir.Y, float32(0))
	ray, err = cm.ScreenToRay(0, 240)
	require.NoError(t, err)
	assert.Less(t, ray.Dir.X, float32(0))
}

func TestCameraWorldToScreen(t *testing.T) {
	cm := Camera{}
	cm.Defaults()

	_, err := cm.WorldToScreen(math32.Vector3{})
	assert.ErrorIs(t, err, ErrUninitializedViewport)

	require.NoError(t, cm.SetViewport(640, 480))

	// the look-at target projects to the viewport center
	pt, err := cm.WorldToScreen(math32.Vector3{})
	require.NoError(t, err)
	tolassert.EqualTol(t, 320, pt.X, 1.0e-2)
	tolassert.EqualTol(t, 240, pt.Y, 1.0e-2)

	// +Y in the world is up on screen, so a smaller pixel y
	pt, err = cm.WorldToScreen(math32.Vec3(0, 1, 0))
	require.NoError(t, err)
	assert.Less(t, pt.Y, float32(240))
}

func TestCameraRoundTrip(t *testing.T) {
	cm := Camera{}
	cm.Defaults()
	require.NoError(t, cm.SetViewport(640, 480))

	pts := []math32.Vector3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0.5, Z: 0},
		{X: -2, Y: 1, Z: 3},
		{X: 0.5, Y: -1.5, Z: -4},
	}
	for _, pt := range pts {
		scr, err := cm.WorldToScreen(pt)
		require.NoError(t, err)
		ray, err := cm.ScreenToRay(scr.X, scr.Y)
		require.NoError(t, err)
		// the ray from the projected pixel passes through the point
		toPt := pt.Sub(ray.Origin)
		along := ray.Dir.MulScalar(toPt.Dot(ray.Dir))
		dist := toPt.Sub(along).Length()
		tolassert.EqualTol(t, 0, dist, 1.0e-2)
	}
}

func TestCameraOrthoRay(t *testing.T) {
	cm := Camera{}
	cm.Defaults()
	cm.Ortho = true
	require.NoError(t, cm.SetViewport(640, 480))

	ray, err := cm.ScreenToRay(320, 240)
	require.NoError(t, err)
	tolAssertEqualVector3(t, 1.0e-3, math32.Vec3(0, 0, -1), ray.Dir)
	// ortho rays originate on the near plane, not at the camera
	tolassert.EqualTol(t, 0, ray.Origin.X, 1.0e-2)
	tolassert.EqualTol(t, 0, ray.Origin.Y, 1.0e-2)
}

func TestCameraOrbitKeepsDistance(t *testing.T) {
	cm := Camera{}
	cm.Defaults()
	d0 := cm.ViewVector().Length()
	cm.Orbit(15, 10)
	tolassert.EqualTol(t, d0, cm.ViewVector().Length(), standardTol)
	// still looking at the target
	fwd := math32.Vec3(0, 0, -1).MulQuat(cm.Pose.Quat)
	want := cm.Target.Sub(cm.Pose.Pos).Normal()
	tolAssertEqualVector3(t, 1.0e-3, want, fwd)
	// repeated orbits do not drift off the sphere
	for i := 0; i < 20; i++ {
		cm.Orbit(7, -3)
	}
	tolassert.EqualTol(t, d0, cm.ViewVector().Length(), 1.0e-4)
}

func TestCameraPanTarget(t *testing.T) {
	cm := Camera{}
	cm.Defaults()
	cm.PanTarget(1, 2, 0)
	tolAssertEqualVector3(t, 1.0e-4, math32.Vec3(-1, -2, 0), cm.Target)
	// camera stays put but re-points at the moved target
	tolAssertEqualVector3(t, 1.0e-4, math32.Vec3(0, 0, 10), cm.Pose.Pos)
	fwd := math32.Vec3(0, 0, -1).MulQuat(cm.Pose.Quat)
	want := cm.Target.Sub(cm.Pose.Pos).Normal()
	tolAssertEqualVector3(t, 1.0e-3, want, fwd)
}

func TestCameraRoll(t *testing.T) {
	cm := Camera{}
	cm.Defaults()
	pos := cm.Pose.Pos
	tgt := cm.Target

	// rolling about the +Z view axis by 90 degrees takes +Y up to -X
	cm.Roll(90)
	tolAssertEqualVector3(t, standardTol, math32.Vec3(-1, 0, 0), cm.UpDir)
	tolAssertEqualVector3(t, standardTol, pos, cm.Pose.Pos)
	tolAssertEqualVector3(t, standardTol, tgt, cm.Target)
	fwd := math32.Vec3(0, 0, -1).MulQuat(cm.Pose.Quat)
	tolAssertEqualVector3(t, 1.0e-3, cm.Target.Sub(cm.Pose.Pos).Normal(), fwd)

	// three more quarter turns come back around
	cm.Roll(90)
	cm.Roll(90)
	cm.Roll(90)
	tolAssertEqualVector3(t, 1.0e-4, math32.Vec3(0, 1, 0), cm.UpDir)
}

func TestCameraFit(t *testing.T) {
	cm := Camera{}
	cm.Defaults()

	bb := math32.B3(4, 4, 4, 6, 6, 6)
	require.NoError(t, cm.Fit(bb, 1))
	ctr := bb.Center()
	tolAssertEqualVector3(t, standardTol, ctr, cm.Target)

	// Aspect is 1.5, so the vertical half-angle is the narrower one
	r := bb.GetBoundingSphere().Radius
	want := r / math32.Sin(math32.DegToRad(cm.FOV/2))
	tolassert.EqualTol(t, want, cm.ViewVector().Length(), 1.0e-4)

	// view direction is preserved: camera started on +Z of the target
	dir := cm.ViewVector().Normal()
	tolAssertEqualVector3(t, 1.0e-4, math32.Vec3(0, 0, 1), dir)

	// half scale leaves twice the margin
	require.NoError(t, cm.Fit(bb, 0.5))
	tolassert.EqualTol(t, 2*want, cm.ViewVector().Length(), 1.0e-4)

	// tall viewport: the horizontal half-angle limits instead
	require.NoError(t, cm.SetViewport(100, 300))
	require.NoError(t, cm.Fit(bb, 1))
	halfH := math32.Atan(math32.Tan(math32.DegToRad(cm.FOV/2)) * cm.Aspect)
	tolassert.EqualTol(t, r/math32.Sin(halfH), cm.ViewVector().Length(), 1.0e-4)
}

func TestCameraFitInvalid(t *testing.T) {
	cm := Camera{}
	cm.Defaults()
	assert.ErrorIs(t, cm.Fit(math32.B3Empty(), 1), ErrInvalidParameter)
	bb := math32.B3(0, 0, 0, 1, 1, 1)
	assert.ErrorIs(t, cm.Fit(bb, 0), ErrInvalidParameter)
	assert.ErrorIs(t, cm.Fit(bb, 1.5), ErrInvalidParameter)
}
