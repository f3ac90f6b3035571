// Copyright (c) 2025, The Visual Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package visual

import (
	"image/color"

	"cogentcore.org/core/gpu/shape"
	"cogentcore.org/core/math32"
)

// Drawer is the device backend that the renderer drives. It owns the
// GPU-side copies of all mesh data and the per-frame pipeline state.
// [phongdraw.Drawer] implements it on the gpu/phong Blinn-Phong
// pipelines; tests substitute a recording fake.
//
// Mesh data flows in once through SetMesh and is referenced thereafter
// by name via UseMesh; the renderer only calls UseMesh when the bound
// mesh actually changes.
type Drawer interface {
	// SetMesh uploads (or re-uploads) the named mesh data to the device.
	// Errors indicate a device allocation failure.
	SetMesh(name string, mesh shape.Mesh) error

	// ReleaseMesh frees the device storage for the named mesh.
	ReleaseMesh(name string)

	// UseMesh binds the named mesh for subsequent Draw calls.
	UseMesh(name string) error

	// SetCamera sets the view and projection matrices for the frame.
	SetCamera(view, proj *math32.Matrix4)

	// SetLights configures the frame's lights.
	SetLights(lights []Light)

	// SetModelMatrix sets the model (world) matrix for the next Draw.
	SetModelMatrix(mtx *math32.Matrix4)

	// UseColor sets the surface color parameters for the next Draw.
	UseColor(clr, emissive color.RGBA, shiny, reflective, bright float32)

	// Draw issues a draw call with the currently bound mesh and state.
	Draw() error

	// Begin starts a frame with the given background color.
	Begin(background color.RGBA) error

	// End submits the frame.
	End()

	// Release frees all device resources.
	Release()
}
