// Copyright (c) 2025, The Visual Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package visual

import (
	"slices"

	"cogentcore.org/core/math32"
	"cogentcore.org/core/tree"
)

// Group collects individual elements in a scene but has no mesh or
// material of its own. Its transform applies to everything under it.
type Group struct {
	NodeBase
}

// NewGroup adds a new group to the given parent.
func NewGroup(parent ...tree.Node) *Group {
	return tree.New[Group](parent...)
}

func (gp *Group) Init() {
	gp.Pose.Defaults()
}

// UpdateMeshBBox aggregates the mesh bounding boxes of the children,
// in this group's local coordinates.
func (gp *Group) UpdateMeshBBox() {
	gp.MeshBBox.SetEmpty()
	for _, kid := range gp.Children {
		ni, nb := AsNode(kid)
		if ni == nil {
			continue
		}
		nbb := nb.MeshBBox.MulMatrix4(&nb.Pose.Matrix)
		gp.MeshBBox.ExpandByBox(nbb)
	}
}

// SetPos sets the [Pose.Pos] position of the group.
func (gp *Group) SetPos(x, y, z float32) *Group {
	gp.Pose.Pos.Set(x, y, z)
	return gp
}

// SetAxisRotation sets the [Pose.Quat] rotation of the group,
// from local axis and angle in degrees.
func (gp *Group) SetAxisRotation(x, y, z, angle float32) *Group {
	gp.Pose.SetAxisRotation(x, y, z, angle)
	return gp
}

// SetEulerRotation sets the [Pose.Quat] rotation of the group,
// from euler angles in degrees.
func (gp *Group) SetEulerRotation(x, y, z float32) *Group {
	gp.Pose.SetEulerRotation(x, y, z)
	return gp
}

// SolidPoint is a [Solid] and a point on that solid.
type SolidPoint struct {
	Solid *Solid
	Point math32.Vector3
}

// RaySolidIntersections returns the solids under this group whose
// world bounding box intersects the given ray, with the point of
// intersection, sorted from closest to furthest. Ties are broken by
// traversal order.
func (gp *Group) RaySolidIntersections(ray math32.Ray) []*SolidPoint {
	var sp []*SolidPoint
	gp.WalkDown(func(k tree.Node) bool {
		ni, nb := AsNode(k)
		if ni == nil {
			return tree.Break
		}
		pt, has := ray.IntersectBox(nb.WorldBBox)
		if !has {
			return tree.Break
		}
		if !ni.IsSolid() {
			return tree.Continue
		}
		sp = append(sp, &SolidPoint{ni.AsSolid(), pt})
		return tree.Break
	})

	slices.SortStableFunc(sp, func(a, b *SolidPoint) int {
		da := a.Point.DistanceTo(ray.Origin)
		db := b.Point.DistanceTo(ray.Origin)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		default:
			return 0
		}
	})
	return sp
}

var _ Node = &Group{}
