//go:build firengo_debug

package logger

const buildDebug = true
