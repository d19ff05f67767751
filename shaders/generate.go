// Package shaders holds the GLSL sources of the triangle. The SPIR-V is
// not kept in the repository: go generate ./shaders compiles it with glslc
// and cmd/compound bundles the result with packr.
package shaders

//go:generate glslc triangle.vert -o triangle.vert.spv
//go:generate glslc triangle.frag -o triangle.frag.spv
