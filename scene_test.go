// Copyright (c) 2025, The Visual Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package visual

import (
	"testing"

	"cogentcore.org/core/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSceneSavedCameras(t *testing.T) {
	sc := NewScene("test")
	err := sc.SetCamera("nope")
	assert.ErrorIs(t, err, ErrNotFound)

	sc.SaveCamera("home")
	sc.Camera.Pose.Pos.Set(5, 5, 5)
	sc.Camera.LookAtOrigin()

	require.NoError(t, sc.SetCamera("home"))
	tolAssertEqualVector3(t, standardTol, math32.Vec3(0, 0, 10), sc.Camera.Pose.Pos)
}

func TestSceneDefaultCameraSaved(t *testing.T) {
	sc, _, mb := renderScene(t)
	NewSolid(sc).SetMesh(mb)

	require.NoError(t, sc.RenderFrame())
	sc.Camera.Pose.Pos.Set(3, 3, 3)
	require.NoError(t, sc.SetCamera("default"))
	tolAssertEqualVector3(t, standardTol, math32.Vec3(0, 0, 10), sc.Camera.Pose.Pos)
}

func TestScenePick(t *testing.T) {
	sc, _, mb := renderScene(t)

	near := NewSolid(sc).SetMesh(mb).SetPos(0, 0, 5)
	near.Name = "near"
	far := NewSolid(sc).SetMesh(mb)
	far.Name = "far"
	off := NewSolid(sc).SetMesh(mb).SetPos(50, 0, 0)
	off.Name = "off"

	// a pixel that projects inside both stacked boxes
	sc.updateNodes()
	scr, err := sc.Camera.WorldToScreen(math32.Vec3(0.25, 0.25, 5))
	require.NoError(t, err)

	sp, err := sc.Pick(scr.X, scr.Y)
	require.NoError(t, err)
	require.Len(t, sp, 2)
	assert.Equal(t, "near", sp[0].Solid.Name)
	assert.Equal(t, "far", sp[1].Solid.Name)

	// invisible solids are not picked
	near.SetInvisible(true)
	sp, err = sc.Pick(scr.X, scr.Y)
	require.NoError(t, err)
	require.Len(t, sp, 1)
	assert.Equal(t, "far", sp[0].Solid.Name)
}

func TestScenePickNoViewport(t *testing.T) {
	sc := NewScene("test")
	_, err := sc.Pick(10, 10)
	assert.ErrorIs(t, err, ErrUninitializedViewport)
}

func TestScenePickThroughGroups(t *testing.T) {
	sc, _, mb := renderScene(t)
	gp := NewGroup(sc).SetPos(0, 0, 2)
	inner := NewSolid(gp).SetMesh(mb)
	inner.Name = "inner"

	scr, err := sc.Camera.WorldToScreen(math32.Vec3(0.5, 0.5, 2))
	require.NoError(t, err)
	sp, err := sc.Pick(scr.X, scr.Y)
	require.NoError(t, err)
	require.Len(t, sp, 1)
	assert.Equal(t, "inner", sp[0].Solid.Name)
}

func TestSceneSolidsIntersectingPoint(t *testing.T) {
	sc, _, mb := renderScene(t)
	a := NewSolid(sc).SetMesh(mb)
	b := NewSolid(sc).SetMesh(mb).SetPos(10, 0, 0)

	objs := sc.SolidsIntersectingPoint(math32.Vec3(0.5, 0.5, 0))
	require.Len(t, objs, 1)
	assert.Same(t, a, objs[0])

	objs = sc.SolidsIntersectingPoint(math32.Vec3(10.5, 0.5, 0))
	require.Len(t, objs, 1)
	assert.Same(t, b, objs[0])

	objs = sc.SolidsIntersectingPoint(math32.Vec3(5, 5, 5))
	assert.Empty(t, objs)
}

func TestSceneLibrary(t *testing.T) {
	sc, fd, mb := renderScene(t)

	gp := sc.NewInLibrary("thing")
	require.NoError(t, NewSolid(gp).SetMeshName("tri"))
	s2 := NewSolid(gp).SetPos(2, 0, 0)
	require.NoError(t, s2.SetMeshName("tri"))
	refs0 := mb.Refs()

	_, err := sc.AddFromLibrary("nope", sc)
	assert.ErrorIs(t, err, ErrNotFound)

	inst1, err := sc.AddFromLibrary("thing", sc)
	require.NoError(t, err)
	inst2, err := sc.AddFromLibrary("thing", sc)
	require.NoError(t, err)
	inst2.SetPos(0, 5, 0)

	// each clone's solids take their own mesh references
	assert.Equal(t, refs0+4, mb.Refs())
	assert.NotSame(t, inst1, inst2)

	require.NoError(t, sc.RenderFrame())
	assert.Len(t, fd.drawn, 4)

	sc.RemoveChild(inst1)
	assert.Equal(t, refs0+2, mb.Refs())
}

func TestSceneValidate(t *testing.T) {
	sc, _, mb := renderScene(t)
	NewSolid(sc).SetMesh(mb)
	require.NoError(t, sc.Validate())

	// a solid with no mesh name is invalid
	NewSolid(sc)
	assert.Error(t, sc.Validate())
}

func TestSceneDestroyReleasesDrawer(t *testing.T) {
	sc, fd, mb := renderScene(t)
	NewSolid(sc).SetMesh(mb)
	sc.Destroy()
	assert.True(t, fd.released)
}

func TestSceneLights(t *testing.T) {
	sc, fd, _ := renderScene(t)
	NewAmbientLight(sc, "ambient", 0.3)
	dir := NewDirLight(sc, "sun", 1)
	assert.Equal(t, 2, sc.Lights.Len())
	assert.Same(t, dir, sc.LightByName("sun"))
	assert.Nil(t, sc.LightByName("nope"))

	require.NoError(t, sc.RenderFrame())
	assert.Equal(t, 1, fd.frames)
}

func TestGroupRaySolidIntersections(t *testing.T) {
	sc, _, mb := renderScene(t)
	gp := NewGroup(sc)
	a := NewSolid(gp).SetMesh(mb).SetPos(0, 0, 0)
	b := NewSolid(gp).SetMesh(mb).SetPos(0, 0, 4)
	sc.updateNodes()

	ray := math32.Ray{Origin: math32.Vec3(0.5, 0.5, 10), Dir: math32.Vec3(0, 0, -1)}
	sp := gp.RaySolidIntersections(ray)
	require.Len(t, sp, 2)
	assert.Same(t, b, sp[0].Solid)
	assert.Same(t, a, sp[1].Solid)
}

func TestSceneWorldBBox(t *testing.T) {
	sc, _, mb := renderScene(t)
	NewSolid(sc).SetMesh(mb)
	far := NewSolid(sc).SetMesh(mb).SetPos(10, 0, 0)

	bb := sc.WorldBBox()
	require.False(t, bb.IsEmpty())
	tolAssertEqualVector3(t, standardTol, math32.Vec3(0, 0, 0), bb.Min)
	tolAssertEqualVector3(t, standardTol, math32.Vec3(11, 1, 0), bb.Max)

	// invisible subtrees are excluded
	far.SetInvisible(true)
	bb = sc.WorldBBox()
	tolAssertEqualVector3(t, standardTol, math32.Vec3(1, 1, 0), bb.Max)

	// framing the scene points the camera at its center
	require.NoError(t, sc.Camera.Fit(bb, 1))
	tolAssertEqualVector3(t, standardTol, bb.Center(), sc.Camera.Target)
}
