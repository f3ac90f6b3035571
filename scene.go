// Copyright (c) 2025, The Visual Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package visual

import (
	"fmt"
	"image/color"
	"slices"

	"cogentcore.org/core/base/ordmap"
	"cogentcore.org/core/math32"
	"cogentcore.org/core/tree"
)

// Scene is the root of the scene graph, containing nodes as children.
// It owns all shared resources: the mesh registry, the lights, the
// active [Camera], the background color, and the [Drawer] that issues
// the actual device calls.
//
// A Scene is single-threaded: mutate the graph and resources between
// frames, then call [Scene.RenderFrame].
type Scene struct {
	tree.NodeBase

	// Camera determines the view onto the scene.
	// There is always exactly one active camera.
	Camera Camera `set:"-"`

	// Background color of the frame.
	Background color.RGBA

	// Lights used in the scene, in insertion order.
	Lights ordmap.Map[string, Light] `set:"-"`

	// Meshes is the registry of all mesh data, shared by name
	// across Solids, in insertion order.
	Meshes ordmap.Map[string, *MeshBuffer] `set:"-"`

	// Library of objects that can be cloned into the scene.
	Library map[string]*Group `set:"-"`

	// SavedCams are saved camera views that can be restored by name.
	SavedCams map[string]Camera `set:"-"`

	// Drawer is the device backend. Nil until SetDrawer; a scene
	// without a drawer can be built and traversed but not rendered.
	Drawer Drawer `set:"-" display:"-"`

	// boundMesh is the name of the mesh currently bound on the device,
	// so consecutive solids sharing a mesh skip the rebind.
	boundMesh string
}

// NewScene creates a new Scene to contain a 3D scene graph.
func NewScene(name ...string) *Scene {
	sc := tree.New[Scene]()
	if len(name) > 0 {
		sc.Name = name[0]
	}
	return sc
}

func (sc *Scene) Init() {
	sc.Defaults()
}

// Defaults sets default scene parameters: default camera,
// dark gray background.
func (sc *Scene) Defaults() {
	sc.Camera.Defaults()
	sc.Background = color.RGBA{30, 30, 30, 255}
}

// SetDrawer attaches the device backend and uploads all currently
// registered meshes and lights to it. Upload failures are returned
// wrapping ErrDeviceAllocation, and the drawer is not attached.
func (sc *Scene) SetDrawer(dw Drawer) error {
	sc.Drawer = dw
	if err := sc.setAllMeshes(); err != nil {
		sc.Drawer = nil
		return err
	}
	sc.configLights()
	return nil
}

// SetViewport sets the pixel size the scene renders at, updating the
// camera viewport and aspect ratio.
func (sc *Scene) SetViewport(width, height int) error {
	return sc.Camera.SetViewport(width, height)
}

// AddChild adds a top-level node to the scene graph, propagating the
// scene pointer through the added subtree. A node that already has a
// parent is detached from it first. The cycle check is trivial here
// since the scene is the root, but the signature matches
// [NodeBase.AddChild].
func (sc *Scene) AddChild(kid Node) error {
	if tree.Node(kid) == sc.This {
		return fmt.Errorf("add scene %q to itself: %w", sc.Name, ErrCycleDetected)
	}
	if kid.AsTree().Parent != nil {
		tree.MoveToParent(kid, sc.This)
	} else {
		sc.NodeBase.AddChild(kid)
	}
	setSceneAll(kid, sc)
	return nil
}

// RemoveChild detaches and destroys the given top-level subtree,
// dropping the mesh references held by its Solids.
func (sc *Scene) RemoveChild(kid Node) bool {
	return sc.DeleteChild(kid)
}

// SaveCamera saves the current camera under the given name, to be
// restored later with SetCamera. "default" is saved automatically on
// first render.
func (sc *Scene) SaveCamera(name string) {
	if sc.SavedCams == nil {
		sc.SavedCams = make(map[string]Camera)
	}
	sc.SavedCams[name] = sc.Camera
}

// SetCamera restores the saved camera of the given name;
// error wrapping ErrNotFound if not present.
func (sc *Scene) SetCamera(name string) error {
	cam, ok := sc.SavedCams[name]
	if !ok {
		return fmt.Errorf("saved camera %q in scene %q: %w", name, sc.Name, ErrNotFound)
	}
	sc.Camera = cam
	return nil
}

// Validate traverses the scene and validates all the elements;
// errors are logged and a non-nil return indicates at least one.
func (sc *Scene) Validate() error {
	hasError := false
	sc.WalkDown(func(k tree.Node) bool {
		if k == sc.This {
			return tree.Continue
		}
		ni, _ := AsNode(k)
		if ni == nil {
			return tree.Break
		}
		if err := ni.Validate(); err != nil {
			hasError = true
		}
		return tree.Continue
	})
	if hasError {
		return fmt.Errorf("visual.Scene: %v validate found at least one error (see log)", sc.Path())
	}
	return nil
}

// Destroy releases the device resources and destroys the graph.
func (sc *Scene) Destroy() {
	if sc.Drawer != nil {
		sc.Drawer.Release()
		sc.Drawer = nil
	}
	sc.NodeBase.Destroy()
}

////////////////////////////////////////////////////////////////////
//  Library

// AddToLibrary adds the given group to the library, keyed by the
// group's name, for later clone-instancing with AddFromLibrary.
func (sc *Scene) AddToLibrary(gp *Group) {
	if sc.Library == nil {
		sc.Library = make(map[string]*Group)
	}
	sc.Library[gp.Name] = gp
	gp.Scene = sc
}

// NewInLibrary makes a new group in the library under the given name.
func (sc *Scene) NewInLibrary(name string) *Group {
	gp := NewGroup()
	gp.Name = name
	sc.AddToLibrary(gp)
	return gp
}

// AddFromLibrary adds a clone of the named library item under the
// given parent in the scene graph, resolving and referencing the
// meshes of the cloned solids.
func (sc *Scene) AddFromLibrary(name string, parent tree.Node) (*Group, error) {
	gp, ok := sc.Library[name]
	if !ok {
		return nil, fmt.Errorf("library item %q: %w", name, ErrNotFound)
	}
	nwgp := gp.Clone().(*Group)
	switch p := parent.(type) {
	case *Scene:
		if err := p.AddChild(nwgp); err != nil {
			return nil, err
		}
	case Node:
		if err := p.AsNodeBase().AddChild(nwgp); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("library parent %q: %w", parent.AsTree().Name, ErrInvalidParameter)
	}
	setSceneAll(nwgp, sc)
	nwgp.WalkDown(func(k tree.Node) bool {
		ni, _ := AsNode(k)
		if ni == nil {
			return tree.Break
		}
		if sld := ni.AsSolid(); sld != nil {
			sld.Validate() // resolves and references the mesh by name
		}
		return tree.Continue
	})
	return nwgp, nil
}

////////////////////////////////////////////////////////////////////
//  Picking

// Pick casts a ray through the given pixel position (origin top-left,
// +Y down) and returns the visible solids whose world bounding box it
// intersects, closest first, with traversal order breaking ties.
// Returns ErrUninitializedViewport before SetViewport.
func (sc *Scene) Pick(x, y float32) ([]*SolidPoint, error) {
	ray, err := sc.Camera.ScreenToRay(x, y)
	if err != nil {
		return nil, err
	}
	sc.updateNodes()
	var sp []*SolidPoint
	for _, kid := range sc.Children {
		ni, _ := AsNode(kid)
		if ni == nil {
			continue
		}
		ni.AsTree().WalkDown(func(k tree.Node) bool {
			cni, cnb := AsNode(k)
			if cni == nil || cnb.Invisible {
				return tree.Break
			}
			pt, has := ray.IntersectBox(cnb.WorldBBox)
			if !has {
				return tree.Break
			}
			if !cni.IsSolid() {
				return tree.Continue
			}
			sp = append(sp, &SolidPoint{cni.AsSolid(), pt})
			return tree.Break
		})
	}
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
	return sp, nil
}

// updateNodes recomputes world matrices root-to-leaf, aggregates mesh
// bounding boxes leaf-to-root, and updates the per-node view matrices
// and world bounding boxes for the current camera.
func (sc *Scene) updateNodes() {
	UpdateWorldMatrix(sc.This)
	for _, kid := range sc.Children {
		cn, _ := AsNode(kid)
		if cn == nil {
			continue
		}
		cn.AsTree().WalkDownPost(func(k tree.Node) bool {
			ni, _ := AsNode(k)
			return ni != nil
		}, func(k tree.Node) bool {
			ni, _ := AsNode(k)
			if ni == nil {
				return tree.Break
			}
			ni.UpdateMeshBBox()
			return tree.Continue
		})
	}
	sc.Camera.UpdateMatrix()
	sc.WalkDown(func(k tree.Node) bool {
		if k == sc.This {
			return tree.Continue
		}
		ni, _ := AsNode(k)
		if ni == nil {
			return tree.Break
		}
		ni.UpdateMVPMatrix(&sc.Camera.ViewMatrix, &sc.Camera.ProjectionMatrix)
		return tree.Continue
	})
}

// SolidsIntersectingPoint returns the visible solids whose world
// bounding box contains the world-space point.
// WorldBBox returns the bounding box of all visible scene content in
// world coordinates, after refreshing node matrices. The box is empty
// when the scene has no solid content. Feed it to [Camera.Fit] to
// frame the whole scene.
func (sc *Scene) WorldBBox() math32.Box3 {
	sc.updateNodes()
	bb := math32.B3Empty()
	for _, kid := range sc.Children {
		ni, nb := AsNode(kid)
		if ni == nil || nb.Invisible || nb.MeshBBox.IsEmpty() {
			continue
		}
		bb.ExpandByBox(nb.WorldBBox)
	}
	return bb
}

func (sc *Scene) SolidsIntersectingPoint(pos math32.Vector3) []*Solid {
	sc.updateNodes()
	var objs []*Solid
	sc.WalkDown(func(k tree.Node) bool {
		if k == sc.This {
			return tree.Continue
		}
		ni, nb := AsNode(k)
		if ni == nil || nb.Invisible {
			return tree.Break
		}
		if !ni.IsSolid() {
			return tree.Continue
		}
		if nb.WorldBBox.ContainsPoint(pos) {
			objs = append(objs, ni.AsSolid())
		}
		return tree.Continue
	})
	return objs
}
