// Package tools owns the tool contract shared by every utility in devkit.
//
// Ownership boundary:
// - tool metadata and operation shape
// - tool execution interface and result helpers
// - registry and executor primitives
//
// Tools never depend on one another; each one only imports this package.
package tools
