// Copyright (c) 2025, The Visual Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package visual

import (
	"errors"
	"fmt"
)

// Sentinel errors returned (wrapped) by scene operations.
// Test with [errors.Is].
var (
	// ErrInvalidParameter indicates an argument outside its valid range,
	// such as a zero scale factor or a non-positive near plane.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidGeometry indicates inconsistent mesh data, such as
	// mismatched attribute lengths or an index past the last vertex.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrDeviceAllocation indicates that the device backend failed to
	// allocate or upload a resource.
	ErrDeviceAllocation = errors.New("device allocation failed")

	// ErrCycleDetected indicates an attempt to re-parent a node under
	// itself or one of its descendants.
	ErrCycleDetected = errors.New("cycle detected")

	// ErrUninitializedViewport indicates a camera operation that needs
	// pixel dimensions before SetViewport has been called.
	ErrUninitializedViewport = errors.New("uninitialized viewport")

	// ErrNotFound indicates a name lookup failure in a scene registry.
	ErrNotFound = errors.New("not found")
)

// RenderError reports a draw-call failure for a single node.
// Rendering continues past the failing node; all RenderErrors from a
// frame are joined and returned together by [Scene.RenderFrame].
type RenderError struct {
	// NodePath is the tree path of the failing node.
	NodePath string

	// Err is the underlying device error.
	Err error
}

func (re *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", re.NodePath, re.Err)
}

func (re *RenderError) Unwrap() error {
	return re.Err
}
