// Copyright (c) 2025, The Visual Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package visual

import (
	"image/color"

	"cogentcore.org/core/math32"
)

// Light illuminates a scene. Lights are stored on the [Scene] and not
// within the node tree.
type Light interface {

	// AsLightBase returns the [LightBase] for this light,
	// which provides the core functionality of a light.
	AsLightBase() *LightBase
}

// LightBase provides the core implementation of the [Light] interface.
type LightBase struct {
	// Name of the light; lights are accessed by name on the Scene.
	Name string

	// On is whether the light is turned on.
	On bool

	// Lumens is the brightness in normalized 0-1 units,
	// multiplied by the color.
	Lumens float32

	// Color of the light at full intensity.
	Color color.RGBA
}

func (lb *LightBase) AsLightBase() *LightBase {
	return lb
}

// AmbientLight provides diffuse uniform lighting;
// typically only one per scene.
type AmbientLight struct {
	LightBase
}

// NewAmbientLight adds an ambient light to the scene with the given
// name, white color, and lumens (0-1 normalized).
func NewAmbientLight(sc *Scene, name string, lumens float32) *AmbientLight {
	lt := &AmbientLight{}
	lt.Name = name
	lt.On = true
	lt.Color = color.RGBA{255, 255, 255, 255}
	lt.Lumens = lumens
	sc.AddLight(lt)
	return lt
}

// DirLight is a directional light assumed to project toward the origin
// from its position with no attenuation, like the sun. Only the
// direction matters; absolute distance does not.
type DirLight struct {
	LightBase

	// Pos of the light; points at the origin, so this sets the direction.
	Pos math32.Vector3
}

// NewDirLight adds a directional light to the scene with the given
// name, white color, and lumens. By default it is overhead and toward
// the default camera (0, 1, 1); change Pos otherwise.
func NewDirLight(sc *Scene, name string, lumens float32) *DirLight {
	lt := &DirLight{}
	lt.Name = name
	lt.On = true
	lt.Color = color.RGBA{255, 255, 255, 255}
	lt.Lumens = lumens
	lt.Pos.Set(0, 1, 1)
	sc.AddLight(lt)
	return lt
}

// PointLight is an omnidirectional light with a position and decay
// factors that divide the intensity by linear and quadratic distance.
// The quadratic factor dominates at longer distances.
type PointLight struct {
	LightBase

	// Pos of the light in world coordinates.
	Pos math32.Vector3

	// LinDecay is the linear distance decay factor; defaults to .1.
	LinDecay float32

	// QuadDecay is the quadratic distance decay factor; defaults to .01.
	QuadDecay float32
}

// NewPointLight adds a point light to the scene with the given name,
// white color, and lumens. By default it is at (0, 5, 5); set Pos to change.
func NewPointLight(sc *Scene, name string, lumens float32) *PointLight {
	lt := &PointLight{}
	lt.Name = name
	lt.On = true
	lt.Color = color.RGBA{255, 255, 255, 255}
	lt.Lumens = lumens
	lt.LinDecay = .1
	lt.QuadDecay = .01
	lt.Pos.Set(0, 5, 5)
	sc.AddLight(lt)
	return lt
}

// AddLight adds the given light to the scene's lights, by name.
func (sc *Scene) AddLight(lt Light) {
	sc.Lights.Add(lt.AsLightBase().Name, lt)
}

// LightByName looks up a light by name, returning nil if not found.
func (sc *Scene) LightByName(name string) Light {
	lt, ok := sc.Lights.ValueByKeyTry(name)
	if ok {
		return lt
	}
	return nil
}

// configLights pushes the current lights to the Drawer.
func (sc *Scene) configLights() {
	if sc.Drawer == nil {
		return
	}
	lts := make([]Light, 0, sc.Lights.Len())
	for _, kv := range sc.Lights.Order {
		if kv.Value.AsLightBase().On {
			lts = append(lts, kv.Value)
		}
	}
	sc.Drawer.SetLights(lts)
}
