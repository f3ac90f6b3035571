// Copyright (c) 2025, The Visual Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package visual provides the core of a retained-mode 3D visualization
engine: a scene graph of transformable nodes, shared mesh buffers,
cameras, lights, and a renderer that traverses the graph and issues
draw calls through a device-independent [Drawer].

The [Scene] is the root of the graph and owns all shared resources:
the mesh registry, the lights, the active [Camera], and the Drawer.
[Solid] nodes reference meshes by name and carry surface [Material]
properties; [Group] nodes carry only a transform that applies to
everything beneath them.

Rendering is single-threaded: mutate the graph between frames, then
call [Scene.RenderFrame]. The [phongdraw] subpackage implements Drawer
on the gpu/phong Blinn-Phong pipelines; tests can substitute any other
implementation.
*/
package visual
