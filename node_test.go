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

// testSceneWithMesh returns a scene with one registered triangle mesh.
func testSceneWithMesh(t *testing.T) (*Scene, *MeshBuffer) {
	t.Helper()
	sc := NewScene("test")
	vertex, normal, texcoord, index := triangle()
	mb, err := sc.NewMeshBuffer("tri", vertex, normal, texcoord, index)
	require.NoError(t, err)
	return sc, mb
}

func TestNodeScenePointer(t *testing.T) {
	sc, mb := testSceneWithMesh(t)
	gp := NewGroup(sc)
	sld := NewSolid(gp).SetMesh(mb)
	assert.Same(t, sc, gp.Scene)
	assert.Same(t, sc, sld.Scene)

	// subtrees built detached get the scene pointer when attached
	lone := NewGroup()
	inner := NewSolid(lone)
	assert.Nil(t, inner.Scene)
	require.NoError(t, sc.AddChild(lone))
	assert.Same(t, sc, lone.Scene)
	assert.Same(t, sc, inner.Scene)
}

func TestNodeCycleRejected(t *testing.T) {
	sc, _ := testSceneWithMesh(t)
	g1 := NewGroup(sc)
	g2 := NewGroup(g1)
	g3 := NewGroup(g2)

	err := g3.AddChild(g1)
	assert.ErrorIs(t, err, ErrCycleDetected)
	err = g1.AddChild(g1)
	assert.ErrorIs(t, err, ErrCycleDetected)

	// graph unchanged after the failed inserts
	assert.Equal(t, 1, g1.NumChildren())
	assert.Equal(t, 1, g2.NumChildren())
	assert.Equal(t, 0, g3.NumChildren())
	assert.Same(t, sc.This, g1.Parent)
}

func TestNodeWorldMatrixComposition(t *testing.T) {
	sc, mb := testSceneWithMesh(t)
	outer := NewGroup(sc).SetPos(1, 0, 0)
	inner := NewGroup(outer).SetPos(0, 2, 0).SetAxisRotation(0, 1, 0, 90)
	sld := NewSolid(inner).SetMesh(mb).SetPos(0, 0, -3)

	sc.updateNodes()

	// solid local (0,0,-3): rotate +90 about Y -> (-3,0,0),
	// then +(0,2,0) and +(1,0,0)
	tolAssertEqualVector3(t, standardTol, math32.Vec3(-2, 2, 0), sld.Pose.WorldPos())
	tolAssertEqualVector3(t, standardTol, math32.Vec3(1, 2, 0), inner.Pose.WorldPos())
}

func TestNodeVisibility(t *testing.T) {
	sc, mb := testSceneWithMesh(t)
	gp := NewGroup(sc)
	sld := NewSolid(gp).SetMesh(mb)

	assert.True(t, sld.IsVisible())

	// invisibility inherits down the graph
	gp.SetInvisible(true)
	assert.False(t, sld.IsVisible())
	gp.SetInvisible(false)
	assert.True(t, sld.IsVisible())

	sld.SetInvisible(true)
	assert.False(t, sld.IsVisible())
	assert.True(t, gp.IsVisible())

	// a solid with no mesh is never visible
	sld.SetInvisible(false)
	empty := NewSolid(gp)
	assert.False(t, empty.IsVisible())
}

func TestGroupMeshBBox(t *testing.T) {
	sc, mb := testSceneWithMesh(t)
	gp := NewGroup(sc)
	NewSolid(gp).SetMesh(mb)
	NewSolid(gp).SetMesh(mb).SetPos(5, 0, 0)

	sc.updateNodes()

	// group box spans both solids in group-local coordinates
	tolAssertEqualVector3(t, standardTol, math32.Vec3(0, 0, 0), gp.MeshBBox.Min)
	tolAssertEqualVector3(t, standardTol, math32.Vec3(6, 1, 0), gp.MeshBBox.Max)
}

func TestNodeRemoveChild(t *testing.T) {
	sc, mb := testSceneWithMesh(t)
	gp := NewGroup(sc)
	sld := NewSolid(gp).SetMesh(mb)
	assert.Equal(t, 1, mb.Refs())

	assert.True(t, gp.RemoveChild(sld))
	assert.Equal(t, 0, gp.NumChildren())
	assert.Equal(t, 0, mb.Refs())
}

func TestNodeReparent(t *testing.T) {
	sc, mb := testSceneWithMesh(t)
	g1 := NewGroup(sc)
	g2 := NewGroup(sc)
	sld := NewSolid(g1).SetMesh(mb)
	assert.Equal(t, 1, mb.Refs())

	// adding to a new parent detaches from the old one, so the node
	// is never listed twice and its mesh reference is untouched
	require.NoError(t, g2.AddChild(sld))
	assert.Equal(t, 0, g1.NumChildren())
	assert.Equal(t, 1, g2.NumChildren())
	assert.Same(t, g2, sld.AsTree().Parent)
	assert.Equal(t, 1, mb.Refs())

	// same for moving up to the scene root
	require.NoError(t, sc.AddChild(sld))
	assert.Equal(t, 0, g2.NumChildren())
	assert.Same(t, sc, sld.Scene)
	assert.Equal(t, 1, mb.Refs())
}
