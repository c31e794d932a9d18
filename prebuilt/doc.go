// Package prebuilt offers ready-made graphs for common agent patterns so
// applications can start from a working model-plus-tools loop instead of
// wiring nodes and routers by hand.
package prebuilt
