// Copyright (c) 2025, The Visual Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package visual

import (
	"errors"
	"fmt"
	"slices"

	"cogentcore.org/core/tree"
)

// RenderFrame renders one frame of the scene through the Drawer:
//
//  1. Camera view and projection matrices are updated, and node world
//     matrices are recomputed root-to-leaf.
//  2. The graph is traversed depth-first in insertion order; an
//     invisible node prunes its whole subtree.
//  3. Opaque solids are drawn in traversal order. The mesh bind is
//     state-cached: consecutive solids sharing a mesh skip the rebind.
//  4. Transparent solids are deferred and drawn after all opaque ones,
//     back-to-front by camera-space depth, with traversal order
//     breaking ties.
//
// A draw-call failure for one solid is recorded as a [RenderError] and
// rendering continues with the remaining solids; all failures are
// joined in the returned error.
func (sc *Scene) RenderFrame() error {
	if sc.Drawer == nil {
		return fmt.Errorf("scene %q render: no drawer attached: %w", sc.Name, ErrInvalidParameter)
	}
	if len(sc.SavedCams) == 0 {
		sc.SaveCamera("default")
	}
	sc.updateNodes()
	dw := sc.Drawer
	dw.SetCamera(&sc.Camera.ViewMatrix, &sc.Camera.ProjectionMatrix)
	sc.configLights()

	opaque, transparent := sc.collectSolids()
	sc.sortTransparent(transparent)

	if err := dw.Begin(sc.Background); err != nil {
		return fmt.Errorf("scene %q render: %w: %w", sc.Name, ErrDeviceAllocation, err)
	}
	defer dw.End()

	sc.boundMesh = ""
	var errs []error
	for _, sld := range opaque {
		if err := sld.Render(dw); err != nil {
			errs = append(errs, &RenderError{NodePath: sld.Path(), Err: err})
		}
	}
	for _, sld := range transparent {
		if err := sld.Render(dw); err != nil {
			errs = append(errs, &RenderError{NodePath: sld.Path(), Err: err})
		}
	}
	return errors.Join(errs...)
}

// collectSolids gathers the visible solids in depth-first insertion
// order, split into opaque and transparent. An invisible node prunes
// its subtree.
func (sc *Scene) collectSolids() (opaque, transparent []*Solid) {
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
		sld := ni.AsSolid()
		if sld.Mesh == nil {
			return tree.Continue
		}
		if sld.IsTransparent() {
			transparent = append(transparent, sld)
		} else {
			opaque = append(opaque, sld)
		}
		return tree.Continue
	})
	return opaque, transparent
}

// sortTransparent stable-sorts the deferred solids back-to-front by
// the camera-space depth of their world origin. The camera looks down
// negative Z, so more negative depth is farther away and drawn first.
// The stable sort preserves traversal order for equal depths.
func (sc *Scene) sortTransparent(solids []*Solid) {
	depth := func(sld *Solid) float32 {
		return sld.Pose.WorldPos().MulMatrix4AsVector4(&sc.Camera.ViewMatrix, 1).Z
	}
	slices.SortStableFunc(solids, func(a, b *Solid) int {
		da, db := depth(a), depth(b)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		default:
			return 0
		}
	})
}
