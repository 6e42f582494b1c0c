// ABOUTME: Main trigc package providing version information and package documentation
// ABOUTME: This is the root package for the tri-color garbage collector library

// Package trigc provides an embeddable concurrent tri-color mark-and-sweep
// garbage collector. The collector engine lives in the gc subpackage; graph
// and dump provide live-heap introspection (paths-to-roots, dominator tree,
// retained sizes, JSON snapshots) on top of it.
package trigc

// Version is the semantic version of the trigc library
const Version = "0.1.0-dev"
