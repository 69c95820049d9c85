package shader

import _ "embed"

// PhongVertex is the vertex shader for lit meshes. Attribute locations
// match the interleaved OBJ layout: 0 position, 1 color, 2 normal, 3 texcoord.
//
//go:embed glsl/phong.vert
var PhongVertex string

// PhongFragment is the fragment shader for lit meshes.
//
//go:embed glsl/phong.frag
var PhongFragment string
