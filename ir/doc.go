// Package ir defines the control-flow-graph intermediate
// representation for nir.
//
// The IR is designed to be:
//   - Source-agnostic: Not tied to any specific shading language
//   - SSA-based: Every value is defined exactly once and uses are
//     tracked on the definition
//   - Mutable in place: Passes rewrite instructions inside existing
//     blocks without rebuilding the graph
//
// # Structure
//
// The IR is organized around a Shader type that contains:
//   - Info and Options: Compile-time metadata (compute workgroup
//     size, driver lowering flags)
//   - Variables: Declared inputs, outputs, uniforms, and system
//     values
//   - Functions: Definitions (with a FunctionImpl body) and external
//     declarations (nil body)
//
// A FunctionImpl owns an ordered list of basic blocks linked by CFG
// edges. Each block holds instructions in execution order. Value
// producers carry a Def; every consumer holds a Src registered in the
// def's use set, so rewriting a definition redirects all of its uses
// exactly.
//
// # Pass support
//
// Builder inserts new instructions at a cursor position, preserving
// program order for composed computations. Cached analyses (block
// indices, the dominator tree) are tracked per body via
// MetadataFlags: a finished pass calls Preserve with what it kept
// intact, and consumers call RequireMetadata to recompute on demand.
//
// # References
//
// This IR design is inspired by:
//   - NIR from Mesa: https://docs.mesa3d.org/nir.html
//   - The Go compiler's SSA backend
package ir
