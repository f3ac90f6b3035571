// Copyright (c) 2025, The Visual Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package visual

import (
	"fmt"

	"cogentcore.org/core/math32"
	"cogentcore.org/core/tree"
)

// Node is the interface for all scene graph nodes. [Solid] and [Group]
// implement it; [Scene] is the root and holds them as children.
type Node interface {
	tree.Node

	// AsNodeBase returns the [NodeBase] for this node,
	// which provides the core scene graph functionality.
	AsNodeBase() *NodeBase

	// IsSolid returns whether this node is a [Solid] that renders.
	IsSolid() bool

	// AsSolid returns the node as a [Solid], or nil if it is not one.
	AsSolid() *Solid

	// Validate checks that the node configuration is valid;
	// errors are logged and returned.
	Validate() error

	// IsVisible returns whether this node and all of its ancestors
	// are visible. An invisible ancestor hides the whole subtree.
	IsVisible() bool

	// IsTransparent returns whether the node renders with transparency,
	// requiring deferred back-to-front drawing.
	IsTransparent() bool

	// UpdateWorldMatrix updates the node's world matrix from the given
	// parent world matrix.
	UpdateWorldMatrix(parWorld *math32.Matrix4)

	// UpdateMVPMatrix updates the node's model-view-projection matrices
	// from the given camera matrices.
	UpdateMVPMatrix(viewMat, projMat *math32.Matrix4)

	// UpdateMeshBBox updates the mesh-based bounding box;
	// groups aggregate over their children.
	UpdateMeshBBox()

	// Render issues the node's draw calls through the given Drawer.
	Render(dw Drawer) error
}

// NodeBase provides the core implementation of the [Node] interface.
// It holds the local [Pose] and the bounding boxes derived from meshes
// during update passes.
type NodeBase struct {
	tree.NodeBase

	// Pose is the complete position, orientation, and scale
	// of the node, relative to its parent.
	Pose Pose

	// Invisible hides this node and everything under it.
	Invisible bool

	// Scene is the cached owning scene, set when the node is added.
	Scene *Scene `copier:"-" json:"-" display:"-"`

	// MeshBBox is the mesh-based bounding box in local coordinates;
	// groups aggregate over children.
	MeshBBox math32.Box3 `set:"-"`

	// WorldBBox is MeshBBox transformed into world coordinates,
	// valid after an update pass.
	WorldBBox math32.Box3 `set:"-"`
}

func (nb *NodeBase) AsNodeBase() *NodeBase {
	return nb
}

func (nb *NodeBase) IsSolid() bool {
	return false
}

func (nb *NodeBase) AsSolid() *Solid {
	return nil
}

func (nb *NodeBase) Validate() error {
	return nil
}

func (nb *NodeBase) IsTransparent() bool {
	return false
}

// IsVisible returns whether this node and all of its ancestors are
// visible: an invisible ancestor hides the whole subtree.
func (nb *NodeBase) IsVisible() bool {
	if nb.Invisible {
		return false
	}
	if nb.Parent == nil {
		return true
	}
	if pn, ok := nb.Parent.(Node); ok {
		return pn.IsVisible()
	}
	return true
}

// SetInvisible sets the Invisible flag.
func (nb *NodeBase) SetInvisible(inv bool) {
	nb.Invisible = inv
}

// OnAdd caches the owning [Scene] when the node is added to a parent.
func (nb *NodeBase) OnAdd() {
	nb.Scene = sceneOf(nb.This)
}

// sceneOf walks up from the given node to find the owning Scene,
// either as the graph root or cached on an ancestor (library groups
// hold a scene pointer without being in the graph).
func sceneOf(n tree.Node) *Scene {
	for p := n; p != nil; p = p.AsTree().Parent {
		if sc, ok := p.(*Scene); ok {
			return sc
		}
		if p == n {
			continue
		}
		if ni, ok := p.(Node); ok && ni.AsNodeBase().Scene != nil {
			return ni.AsNodeBase().Scene
		}
	}
	return nil
}

// AddChild adds the given node at the end of the children list,
// rejecting self and ancestors with ErrCycleDetected; the graph is
// unchanged in that case. A node that already has a parent is detached
// from it first, so a node is never listed under two parents. The
// scene pointer is propagated through the added subtree.
func (nb *NodeBase) AddChild(kid Node) error {
	if kid.AsTree() == &nb.NodeBase || kid == nb.This {
		return fmt.Errorf("add %q to itself: %w", kid.AsTree().Name, ErrCycleDetected)
	}
	for p := nb.Parent; p != nil; p = p.AsTree().Parent {
		if p == tree.Node(kid) {
			return fmt.Errorf("add ancestor %q under %q: %w", kid.AsTree().Name, nb.Name, ErrCycleDetected)
		}
	}
	if kid.AsTree().Parent != nil {
		tree.MoveToParent(kid, nb.This)
	} else {
		nb.NodeBase.AddChild(kid)
	}
	setSceneAll(kid, nb.Scene)
	return nil
}

// RemoveChild detaches and destroys the given child subtree, dropping
// the mesh references held by its Solids. Returns false if the node is
// not a child.
func (nb *NodeBase) RemoveChild(kid Node) bool {
	return nb.DeleteChild(kid)
}

// setSceneAll sets the Scene pointer on the node and everything below it.
func setSceneAll(n tree.Node, sc *Scene) {
	n.AsTree().WalkDown(func(cn tree.Node) bool {
		ni, ok := cn.(Node)
		if !ok {
			return tree.Break
		}
		ni.AsNodeBase().Scene = sc
		return tree.Continue
	})
}

// WorldTransform returns the node's world matrix as computed by the
// last update pass (parent world matrix times local matrix).
func (nb *NodeBase) WorldTransform() *math32.Matrix4 {
	return &nb.Pose.WorldMatrix
}

// UpdateWorldMatrix updates the world matrix from the local pose and
// the given parent world matrix.
func (nb *NodeBase) UpdateWorldMatrix(parWorld *math32.Matrix4) {
	nb.Pose.UpdateMatrix()
	nb.Pose.UpdateWorldMatrix(parWorld)
}

// UpdateMVPMatrix updates the model-view-projection matrices and the
// world bounding box.
func (nb *NodeBase) UpdateMVPMatrix(viewMat, projMat *math32.Matrix4) {
	nb.Pose.UpdateMVPMatrix(viewMat, projMat)
	nb.WorldBBox = nb.MeshBBox.MulMatrix4(&nb.Pose.WorldMatrix)
}

func (nb *NodeBase) UpdateMeshBBox() {
}

func (nb *NodeBase) Render(dw Drawer) error {
	return nil
}

// AsNode returns the given tree node as a [Node] and [NodeBase],
// or nil if it is not a scene graph node.
func AsNode(n tree.Node) (Node, *NodeBase) {
	ni, ok := n.(Node)
	if !ok {
		return nil, nil
	}
	return ni, ni.AsNodeBase()
}

// UpdateWorldMatrix updates the world matrices for the given node and
// everything inside it, depth-first in insertion order.
func UpdateWorldMatrix(n tree.Node) {
	idmtx := math32.Identity4()
	n.AsTree().WalkDown(func(cn tree.Node) bool {
		ni, _ := AsNode(cn)
		if ni == nil {
			return tree.Continue
		}
		_, pd := AsNode(cn.AsTree().Parent)
		if pd == nil {
			ni.UpdateWorldMatrix(idmtx)
		} else {
			ni.UpdateWorldMatrix(&pd.Pose.WorldMatrix)
		}
		return tree.Continue
	})
}
