// Copyright (c) 2025, The Visual Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package phongdraw implements the [visual.Drawer] device backend on
// the gpu/phong Blinn-Phong rendering pipelines over WebGPU.
package phongdraw

import (
	"fmt"
	"image"
	"image/color"

	"cogentcore.org/core/base/errors"
	"cogentcore.org/core/gpu"
	"cogentcore.org/core/gpu/phong"
	"cogentcore.org/core/gpu/shape"
	"cogentcore.org/core/math32"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/visualgl/visual"
)

// Drawer renders through a [phong.Phong] pipeline into a
// [gpu.RenderTexture] frame, which can be offscreen or backed by a
// window surface's GPU and device.
//
// phong requires all per-object data to be uploaded before the render
// pass starts, so Draw calls record object and mesh bindings during
// the frame and End encodes them in one pass.
type Drawer struct {
	// Phong is the Blinn-Phong rendering system.
	Phong *phong.Phong

	// Frame is the render target.
	Frame *gpu.RenderTexture

	// MultiSample is the number of multisampling samples;
	// must be a power of 2. Defaults to 4.
	MultiSample int

	// meshes holds the source data for each uploaded mesh, so that
	// releasing one can re-upload the survivors.
	meshes map[string]shape.Mesh

	// model and colors accumulate the state for the next Draw.
	model  math32.Matrix4
	colors phong.Colors

	// curMesh is the mesh bound by the last UseMesh.
	curMesh string

	// draws are the recorded bindings for the current frame.
	draws []drawItem
}

type drawItem struct {
	object string
	mesh   string
}

// NewOffscreen returns a Drawer rendering to an offscreen texture of
// the given size, using the given GPU and device.
func NewOffscreen(gp *gpu.GPU, dev *gpu.Device, size image.Point) *Drawer {
	dw := &Drawer{MultiSample: 4, meshes: make(map[string]shape.Mesh)}
	dw.Frame = gpu.NewRenderTexture(gp, dev, size, dw.MultiSample, gpu.Depth32)
	dw.Phong = phong.NewPhong(gp, dw.Frame)
	dw.model.SetIdentity()
	dw.colors.Defaults()
	return dw
}

// NewFromSurface returns a Drawer rendering with the GPU and device of
// the given window surface.
func NewFromSurface(surf *gpu.Surface, size image.Point) *Drawer {
	return NewOffscreen(surf.GPU, surf.Device(), size)
}

// SetSize resizes the render target; a no-op if unchanged.
func (dw *Drawer) SetSize(size image.Point) {
	dw.Frame.SetSize(size)
}

func (dw *Drawer) SetMesh(name string, mesh shape.Mesh) error {
	dw.meshes[name] = mesh
	dw.Phong.SetMesh(name, mesh)
	return nil
}

// ReleaseMesh frees the device storage for the named mesh.
// phong only supports resetting all meshes, so the remaining ones
// are re-uploaded.
func (dw *Drawer) ReleaseMesh(name string) {
	if _, ok := dw.meshes[name]; !ok {
		return
	}
	delete(dw.meshes, name)
	dw.Phong.ResetMeshes()
	for nm, ms := range dw.meshes {
		dw.Phong.SetMesh(nm, ms)
	}
}

func (dw *Drawer) UseMesh(name string) error {
	if _, ok := dw.meshes[name]; !ok {
		return fmt.Errorf("phongdraw: mesh not found: %s", name)
	}
	dw.curMesh = name
	return nil
}

func (dw *Drawer) SetCamera(view, proj *math32.Matrix4) {
	dw.Phong.SetCamera(view, proj)
}

// SetLights resets and reconfigures the pipeline lights. Light colors
// are scaled by their lumens and converted to linear color space.
func (dw *Drawer) SetLights(lights []visual.Light) {
	ph := dw.Phong
	ph.ResetLights()
	for _, lt := range lights {
		lb := lt.AsLightBase()
		clr := math32.NewVector3Color(lb.Color).MulScalar(lb.Lumens).SRGBToLinear()
		switch l := lt.(type) {
		case *visual.AmbientLight:
			ph.AddAmbient(clr)
		case *visual.DirLight:
			ph.AddDirectional(clr, l.Pos)
		case *visual.PointLight:
			ph.AddPoint(clr, l.Pos, l.LinDecay, l.QuadDecay)
		}
	}
}

func (dw *Drawer) SetModelMatrix(mtx *math32.Matrix4) {
	dw.model = *mtx
}

func (dw *Drawer) UseColor(clr, emissive color.RGBA, shiny, reflective, bright float32) {
	dw.colors.SetColors(clr, emissive, shiny, reflective, bright)
}

// Draw records a draw of the bound mesh with the current model matrix
// and colors. Object data goes to phong now, under a name reused at
// the same draw position every frame; encoding happens in End.
func (dw *Drawer) Draw() error {
	if dw.curMesh == "" {
		return fmt.Errorf("phongdraw: Draw with no mesh bound")
	}
	nm := fmt.Sprintf("obj%03d", len(dw.draws))
	dw.Phong.SetObject(nm, phong.NewObject(&dw.model, &dw.colors))
	dw.draws = append(dw.draws, drawItem{object: nm, mesh: dw.curMesh})
	return nil
}

func (dw *Drawer) Begin(background color.RGBA) error {
	dw.Frame.Render().ClearColor = background
	dw.draws = dw.draws[:0]
	dw.curMesh = ""
	return nil
}

// End uploads the accumulated object data, encodes the recorded draws
// in a single render pass, and submits the frame.
func (dw *Drawer) End() {
	rp, err := dw.Phong.RenderStart()
	if errors.Log(err) != nil {
		return
	}
	for _, d := range dw.draws {
		dw.encode(rp, d)
	}
	dw.Phong.RenderEnd(rp)
}

// encode encodes one recorded draw into the given render pass.
func (dw *Drawer) encode(rp *wgpu.RenderPassEncoder, d drawItem) {
	ph := dw.Phong
	ph.UseObject(d.object)
	ph.UseMesh(d.mesh)
	ph.UseNoTexture()
	ph.Render(rp)
}

func (dw *Drawer) Release() {
	if dw.Phong != nil {
		dw.Phong.Release()
		dw.Phong = nil
	}
	if dw.Frame != nil {
		dw.Frame.Release()
		dw.Frame = nil
	}
}

var _ visual.Drawer = &Drawer{}
