// Copyright (c) 2025, The Visual Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package visual

import (
	"fmt"
	"image/color"
	"log"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/tree"
)

// Solid is an individual rendered element: it has its own spatial
// transform and material properties, and references a [MeshBuffer]
// on the [Scene] by name for its shape.
type Solid struct {
	NodeBase

	// MeshName is the name of the mesh used for rendering this solid;
	// all meshes are collected on the Scene.
	MeshName MeshName `set:"-"`

	// Material contains the surface properties (color, shininess).
	Material Material

	// Mesh is the cached [MeshBuffer] resolved from MeshName.
	// Not copied on Clone; clones re-resolve and re-reference by name.
	Mesh *MeshBuffer `set:"-" display:"-" copier:"-"`
}

// NewSolid adds a new solid to the given parent.
func NewSolid(parent ...tree.Node) *Solid {
	return tree.New[Solid](parent...)
}

func (sld *Solid) Init() {
	sld.Defaults()
}

func (sld *Solid) IsSolid() bool {
	return true
}

func (sld *Solid) AsSolid() *Solid {
	return sld
}

// Defaults sets default initial settings for solid parameters.
// Called automatically from Init.
func (sld *Solid) Defaults() {
	sld.Pose.Defaults()
	sld.Material.Defaults()
}

// Destroy drops the mesh reference before destroying the subtree, so
// that removing a solid from the graph releases its share of the mesh.
func (sld *Solid) Destroy() {
	if sld.Mesh != nil && sld.Scene != nil {
		sld.Scene.releaseMeshRef(sld.Mesh)
		sld.Mesh = nil
	}
	sld.NodeBase.Destroy()
}

// SetMeshName resolves the given mesh name on the Scene and takes a
// reference to it, dropping any reference to a previously set mesh.
func (sld *Solid) SetMeshName(meshName string) error {
	if meshName == "" {
		return nil
	}
	if sld.Scene == nil {
		err := fmt.Errorf("visual.Solid: %s not attached to a scene", sld.Path())
		log.Println(err)
		return err
	}
	ms, err := sld.Scene.MeshByNameTry(meshName)
	if err != nil {
		log.Println(err)
		return err
	}
	return sld.setMesh(ms)
}

// SetMesh sets the mesh, managing the reference counts of the old and
// new buffers.
func (sld *Solid) SetMesh(ms *MeshBuffer) *Solid {
	errors.Log(sld.setMesh(ms))
	return sld
}

func (sld *Solid) setMesh(ms *MeshBuffer) error {
	if ms == sld.Mesh {
		return nil
	}
	if old := sld.Mesh; old != nil && !old.Alive() && ms != nil && old.Name == ms.Name {
		// same-name replacement: the reference carried over to the new buffer
		sld.Mesh = ms
		return nil
	}
	if ms != nil {
		ms.retain() // panics if released
	}
	if sld.Mesh != nil && sld.Scene != nil {
		sld.Scene.releaseMeshRef(sld.Mesh)
	}
	sld.Mesh = ms
	if ms != nil {
		sld.MeshName = MeshName(ms.Name)
	} else {
		sld.MeshName = ""
	}
	return nil
}

// SetColor sets the [Material.Color].
func (sld *Solid) SetColor(v color.RGBA) *Solid {
	sld.Material.Color = v
	return sld
}

// SetEmissive sets the [Material.Emissive] glow color.
func (sld *Solid) SetEmissive(v color.RGBA) *Solid {
	sld.Material.Emissive = v
	return sld
}

// SetShiny sets the [Material.Shiny] specular exponent.
func (sld *Solid) SetShiny(v float32) *Solid {
	sld.Material.Shiny = v
	return sld
}

// SetPos sets the [Pose.Pos] position of the solid.
func (sld *Solid) SetPos(x, y, z float32) *Solid {
	sld.Pose.Pos.Set(x, y, z)
	return sld
}

// SetAxisRotation sets the [Pose.Quat] rotation of the solid,
// from local axis and angle in degrees.
func (sld *Solid) SetAxisRotation(x, y, z, angle float32) *Solid {
	sld.Pose.SetAxisRotation(x, y, z, angle)
	return sld
}

// SetEulerRotation sets the [Pose.Quat] rotation of the solid,
// from euler angles in degrees.
func (sld *Solid) SetEulerRotation(x, y, z float32) *Solid {
	sld.Pose.SetEulerRotation(x, y, z)
	return sld
}

// Validate checks that the solid has a valid mesh reference.
func (sld *Solid) Validate() error {
	if sld.MeshName == "" {
		err := fmt.Errorf("visual.Solid: %s mesh name is empty", sld.Path())
		log.Println(err)
		return err
	}
	if sld.Mesh == nil || !sld.Mesh.Alive() || sld.Mesh.Name != string(sld.MeshName) {
		if err := sld.SetMeshName(string(sld.MeshName)); err != nil {
			return err
		}
	}
	return sld.Material.Validate()
}

func (sld *Solid) IsVisible() bool {
	if sld.Mesh == nil {
		return false
	}
	return sld.NodeBase.IsVisible()
}

func (sld *Solid) IsTransparent() bool {
	if sld.Mesh == nil {
		return false
	}
	if sld.Mesh.HasColor() {
		return sld.Mesh.Transparent
	}
	return sld.Material.IsTransparent()
}

// UpdateMeshBBox sets the local bounding box from the mesh.
func (sld *Solid) UpdateMeshBBox() {
	if sld.Mesh != nil {
		sld.MeshBBox = sld.Mesh.BBox
	}
}

// Render binds the mesh if it is not already bound and issues the draw
// call with the solid's world matrix and material.
func (sld *Solid) Render(dw Drawer) error {
	if !sld.Mesh.Alive() { // stale cache after a same-name replacement
		if err := sld.Validate(); err != nil {
			return err
		}
	}
	sld.Mesh.checkAlive()
	if sld.Scene.boundMesh != string(sld.MeshName) {
		if err := dw.UseMesh(string(sld.MeshName)); err != nil {
			return err
		}
		sld.Scene.boundMesh = string(sld.MeshName)
	}
	dw.SetModelMatrix(&sld.Pose.WorldMatrix)
	sld.Material.Render(dw)
	return dw.Draw()
}

var _ Node = &Solid{}
