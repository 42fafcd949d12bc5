// Package shaders embeds the WGSL sources of the render passes.
package shaders

import _ "embed"

//go:embed raymarch.wgsl
var RaymarchWGSL string

//go:embed passthrough.wgsl
var PassthroughWGSL string

//go:embed background.wgsl
var BackgroundWGSL string

//go:embed gizmo.wgsl
var GizmoWGSL string

//go:embed text.wgsl
var TextWGSL string
