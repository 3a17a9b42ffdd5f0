package gpudriver

import _ "embed"

//go:embed shaders/pathtrace.wgsl
var pathtraceWGSL string
