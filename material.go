// Copyright (c) 2025, The Visual Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package visual

import "image/color"

// Material describes the surface properties used by the Blinn-Phong
// lighting model. The main color serves as both ambient and diffuse
// color; its alpha component is the opacity. Emissive is for glowing
// objects. The specular color is always white times the light color.
type Material struct {

	// Color is the main surface color. Alpha < 255 makes the
	// solid transparent, which defers it to back-to-front rendering.
	Color color.RGBA

	// Emissive is the color the surface emits independent of lighting.
	Emissive color.RGBA

	// Shiny is the specular shininess exponent: 0 is broad diffuse
	// reflection, higher values (up to 128 or so) are more focal.
	Shiny float32

	// Reflective is the specular reflectiveness factor.
	Reflective float32

	// Bright is an overall multiplier on the final computed color.
	Bright float32
}

// Defaults sets default surface parameters.
func (mt *Material) Defaults() {
	mt.Color = color.RGBA{128, 128, 128, 255}
	mt.Emissive = color.RGBA{0, 0, 0, 0}
	mt.Shiny = 30
	mt.Reflective = 1
	mt.Bright = 1
}

// IsTransparent returns true if the color alpha is below full opacity.
func (mt *Material) IsTransparent() bool {
	return mt.Color.A < 255
}

// Validate fixes degenerate values.
func (mt *Material) Validate() error {
	if mt.Bright == 0 {
		mt.Bright = 1
	}
	return nil
}

// Render sets the surface parameters on the Drawer for the next draw.
func (mt *Material) Render(dw Drawer) {
	dw.UseColor(mt.Color, mt.Emissive, mt.Shiny, mt.Reflective, mt.Bright)
}
