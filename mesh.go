// Copyright (c) 2025, The Visual Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package visual

import (
	"fmt"

	"cogentcore.org/core/gpu/shape"
	"cogentcore.org/core/math32"
	"cogentcore.org/core/tree"
)

// MeshName is a [MeshBuffer] name, used on [Solid] to link to meshes
// by name. All meshes are collected on the [Scene].
type MeshName string

// MeshBuffer holds one indexed triangle mesh: per-vertex positions and
// normals, optional texture coordinates and per-vertex colors, and the
// index list. The vertex data is treated as immutable once registered;
// shape changes go through [Scene.NewMeshBuffer] which re-uploads.
// MeshBuffers are shared by reference across [Solid]s and reference
// counted: device storage is freed when the last reference is dropped
// after [Scene.ReleaseMesh] has been called.
type MeshBuffer struct {
	// Name is the registry key. Solids link to meshes by this name.
	Name string

	// Vertex are the vertex positions, 3 floats per vertex.
	Vertex math32.ArrayF32

	// Normal are the vertex normals, 3 floats per vertex,
	// same count as Vertex.
	Normal math32.ArrayF32

	// TexCoord are the texture coordinates, 2 floats per vertex; optional.
	TexCoord math32.ArrayF32

	// Color are per-vertex colors, 4 floats per vertex; optional.
	Color math32.ArrayF32

	// Index is the triangle index list into Vertex.
	Index math32.ArrayU32

	// BBox is the bounding box computed from the vertex positions.
	BBox math32.Box3

	// Transparent is whether any per-vertex color has alpha < 1.
	// Only meaningful when Color is present.
	Transparent bool

	// refs counts the Solids currently using this mesh.
	refs int

	// pendingRelease is set when ReleaseMesh is called while refs > 0;
	// the device storage is freed when the last reference drops.
	pendingRelease bool

	// released means device storage is gone; any further use is a
	// programming error and panics.
	released bool
}

// NumVertex returns the number of vertex points.
func (mb *MeshBuffer) NumVertex() int {
	return len(mb.Vertex) / 3
}

// HasColor returns whether the mesh has per-vertex colors.
func (mb *MeshBuffer) HasColor() bool {
	return len(mb.Color) > 0
}

// Refs returns the number of Solids currently referencing this mesh.
func (mb *MeshBuffer) Refs() int {
	return mb.refs
}

// Alive returns whether the mesh still has device storage.
func (mb *MeshBuffer) Alive() bool {
	return !mb.released
}

// checkAlive panics if the mesh has been released. Binding or
// re-referencing a released mesh is a programming error, not a
// recoverable condition.
func (mb *MeshBuffer) checkAlive() {
	if mb.released {
		panic("visual.MeshBuffer: use of released mesh " + mb.Name)
	}
}

// retain adds a reference.
func (mb *MeshBuffer) retain() {
	mb.checkAlive()
	mb.refs++
}

////////////////////////////////////////////////////////////////////
//  shape.Mesh interface

func (mb *MeshBuffer) MeshSize() (numVertex, numIndex int, hasColor bool) {
	return mb.NumVertex(), len(mb.Index), mb.HasColor()
}

func (mb *MeshBuffer) MeshBBox() math32.Box3 {
	return mb.BBox
}

func (mb *MeshBuffer) Offsets() (vtxOffset, idxOffset int) {
	return 0, 0
}

func (mb *MeshBuffer) SetOffsets(vtxOffset, idxOffset int) {
	// single mesh per buffer
}

func (mb *MeshBuffer) Set(vertex, normal, texcoord, clrs math32.ArrayF32, index math32.ArrayU32) {
	copy(vertex, mb.Vertex)
	copy(normal, mb.Normal)
	copy(texcoord, mb.TexCoord)
	if mb.HasColor() {
		copy(clrs, mb.Color)
	}
	copy(index, mb.Index)
}

// validate checks the attribute lengths and index bounds.
func (mb *MeshBuffer) validate() error {
	nv := len(mb.Vertex)
	if nv == 0 || nv%3 != 0 {
		return fmt.Errorf("mesh %q: vertex length %d not a positive multiple of 3: %w", mb.Name, nv, ErrInvalidGeometry)
	}
	if len(mb.Normal) != nv {
		return fmt.Errorf("mesh %q: normal length %d != vertex length %d: %w", mb.Name, len(mb.Normal), nv, ErrInvalidGeometry)
	}
	n := nv / 3
	if tc := len(mb.TexCoord); tc != 0 && tc != 2*n {
		return fmt.Errorf("mesh %q: texcoord length %d != 2 per vertex: %w", mb.Name, tc, ErrInvalidGeometry)
	}
	if cl := len(mb.Color); cl != 0 && cl != 4*n {
		return fmt.Errorf("mesh %q: color length %d != 4 per vertex: %w", mb.Name, cl, ErrInvalidGeometry)
	}
	if len(mb.Index) == 0 || len(mb.Index)%3 != 0 {
		return fmt.Errorf("mesh %q: index length %d not a positive multiple of 3: %w", mb.Name, len(mb.Index), ErrInvalidGeometry)
	}
	for i, ix := range mb.Index {
		if int(ix) >= n {
			return fmt.Errorf("mesh %q: index %d at %d out of range (%d vertices): %w", mb.Name, ix, i, n, ErrInvalidGeometry)
		}
	}
	return nil
}

// updateBBox recomputes BBox and per-vertex transparency.
func (mb *MeshBuffer) updateBBox() {
	bb := shape.BBoxFromVtxs(mb.Vertex, 0, mb.NumVertex())
	mb.BBox = bb
	mb.Transparent = false
	for i := 3; i < len(mb.Color); i += 4 {
		if mb.Color[i] < 1 {
			mb.Transparent = true
			break
		}
	}
}

////////////////////////////////////////////////////////////////////
//  Scene registry

// NewMeshBuffer validates and registers a new mesh under the given
// name, replacing any existing mesh of that name, and uploads it to
// the device. The texcoord argument may be nil. Returns
// ErrInvalidGeometry for inconsistent data and ErrDeviceAllocation
// (wrapped) if the upload fails; the registry is unchanged on failure.
func (sc *Scene) NewMeshBuffer(name string, vertex, normal, texcoord math32.ArrayF32, index math32.ArrayU32) (*MeshBuffer, error) {
	mb := &MeshBuffer{Name: name, Vertex: vertex, Normal: normal, TexCoord: texcoord, Index: index}
	if err := mb.validate(); err != nil {
		return nil, err
	}
	mb.updateBBox()
	if err := sc.setMesh(mb); err != nil {
		return nil, err
	}
	return mb, nil
}

// NewMeshColorBuffer is [Scene.NewMeshBuffer] plus per-vertex colors,
// 4 floats per vertex.
func (sc *Scene) NewMeshColorBuffer(name string, vertex, normal, texcoord, clrs math32.ArrayF32, index math32.ArrayU32) (*MeshBuffer, error) {
	mb := &MeshBuffer{Name: name, Vertex: vertex, Normal: normal, TexCoord: texcoord, Color: clrs, Index: index}
	if err := mb.validate(); err != nil {
		return nil, err
	}
	mb.updateBBox()
	if err := sc.setMesh(mb); err != nil {
		return nil, err
	}
	return mb, nil
}

// NewMeshFromShape registers a mesh generated by one of the gpu/shape
// generators (box, sphere, plane, ...) under the given name.
func (sc *Scene) NewMeshFromShape(name string, sh shape.Mesh) (*MeshBuffer, error) {
	nv, ni, hasColor := sh.MeshSize()
	mb := &MeshBuffer{Name: name}
	mb.Vertex = make(math32.ArrayF32, 3*nv)
	mb.Normal = make(math32.ArrayF32, 3*nv)
	mb.TexCoord = make(math32.ArrayF32, 2*nv)
	if hasColor {
		mb.Color = make(math32.ArrayF32, 4*nv)
	}
	mb.Index = make(math32.ArrayU32, ni)
	sh.Set(mb.Vertex, mb.Normal, mb.TexCoord, mb.Color, mb.Index)
	if err := mb.validate(); err != nil {
		return nil, err
	}
	mb.updateBBox()
	if err := sc.setMesh(mb); err != nil {
		return nil, err
	}
	return mb, nil
}

// setMesh uploads and registers, keeping the registry unchanged when
// the device rejects the data. A replaced mesh keeps its reference
// count: the Solids pointing at the name now render the new shape.
func (sc *Scene) setMesh(mb *MeshBuffer) error {
	if sc.Drawer != nil {
		if err := sc.Drawer.SetMesh(mb.Name, mb); err != nil {
			return fmt.Errorf("mesh %q: %w: %w", mb.Name, ErrDeviceAllocation, err)
		}
	}
	if old, ok := sc.Meshes.ValueByKeyTry(mb.Name); ok {
		mb.refs = old.refs
		mb.pendingRelease = old.pendingRelease
		old.released = true
		sc.relinkMesh(mb)
	}
	sc.Meshes.Add(mb.Name, mb) // replaces existing
	return nil
}

// relinkMesh points all solids using the given mesh name at the new
// buffer, after a replacement. References carry over as-is.
func (sc *Scene) relinkMesh(mb *MeshBuffer) {
	sc.WalkDown(func(n tree.Node) bool {
		if sld, ok := n.(*Solid); ok && string(sld.MeshName) == mb.Name {
			sld.Mesh = mb
		}
		return tree.Continue
	})
}

// MeshByName looks up a mesh by name, returning nil if not found.
func (sc *Scene) MeshByName(name string) *MeshBuffer {
	mb, ok := sc.Meshes.ValueByKeyTry(name)
	if ok {
		return mb
	}
	return nil
}

// MeshByNameTry looks up a mesh by name, returning an error wrapping
// ErrNotFound if absent.
func (sc *Scene) MeshByNameTry(name string) (*MeshBuffer, error) {
	mb, ok := sc.Meshes.ValueByKeyTry(name)
	if ok {
		return mb, nil
	}
	return nil, fmt.Errorf("mesh %q in scene %q: %w", name, sc.Name, ErrNotFound)
}

// MeshList returns the names of all registered meshes, in registration order.
func (sc *Scene) MeshList() []string {
	return sc.Meshes.Keys()
}

// ReleaseMesh removes the named mesh from the registry. If Solids
// still reference it, the release is deferred until the last reference
// is dropped; the request is never lost. Once released, any further
// use of the buffer panics.
func (sc *Scene) ReleaseMesh(name string) {
	mb, ok := sc.Meshes.ValueByKeyTry(name)
	if !ok {
		return
	}
	if mb.refs > 0 {
		mb.pendingRelease = true
		return
	}
	sc.freeMesh(mb)
}

// releaseMeshRef drops one Solid reference, freeing the device storage
// if a release is pending and this was the last reference.
func (sc *Scene) releaseMeshRef(mb *MeshBuffer) {
	if mb == nil || mb.released {
		return
	}
	if mb.refs > 0 {
		mb.refs--
	}
	if mb.refs == 0 && mb.pendingRelease {
		sc.freeMesh(mb)
	}
}

func (sc *Scene) freeMesh(mb *MeshBuffer) {
	if sc.Drawer != nil {
		sc.Drawer.ReleaseMesh(mb.Name)
	}
	sc.Meshes.DeleteKey(mb.Name)
	mb.released = true
}

// setAllMeshes re-uploads every registered mesh; called when the
// Drawer is first attached or rebuilt.
func (sc *Scene) setAllMeshes() error {
	for _, kv := range sc.Meshes.Order {
		mb := kv.Value
		if err := sc.Drawer.SetMesh(mb.Name, mb); err != nil {
			return fmt.Errorf("mesh %q: %w: %w", mb.Name, ErrDeviceAllocation, err)
		}
	}
	return nil
}
