// Package quarkgl provides a minimal, predictable software 3D engine for vecviz.
//
// QuarkGL is intended for visualization: a handful of meshes, a camera and an orbit
// controller. It is not a game engine and does not provide a GPU abstraction.
//
// Pipeline (fixed):
//
//	Scene → Transform → Projection → Trivial reject → Band rasterization → Lines → Frame output.
//
// Besides drawing, the package is the picking collaborator of the interaction core:
// Camera.RayFromNDC turns a normalized pointer position into a world-space ray and
// Scene.Raycast returns the tagged meshes that ray crosses, nearest first.
//
// Math is float64 throughout and built on mgl64. Meshes keep their geometry in local
// space; only the Transform changes per frame.
package quarkgl
