// Package compilation implements the root container of spec section
// 4.5's elaboration model: one Compilation owns the arenas, interned
// types, built-in symbols and compilation units that a binder,
// evaluator and serializer all consult by reference.
package compilation

import (
	"encoding/binary"

	"github.com/minio/highwayhash"

	"github.com/viant/svlang/diag"
	"github.com/viant/svlang/source"
	"github.com/viant/svlang/symbols"
	"github.com/viant/svlang/syntax"
	"github.com/viant/svlang/types"
)

// SyntaxTree is one parsed compilation unit: its arena-owned root node,
// the buffer it was parsed from, and any diagnostics raised while
// parsing it.
type SyntaxTree struct {
	Root        *syntax.Node
	Arena       *syntax.Arena
	Buffer      source.BufferID
	Diagnostics *diag.Bag
}

// Compilation is the root container described by spec section 4.5's
// introduction and the public API surface of section 6.1: it owns the
// source manager, accumulated syntax trees, the package registry, the
// interned primitive-integral-type table, and the lazily-populated
// $unit scope that every compilation unit's top-level symbols are
// declared into.
type Compilation struct {
	Options Options
	Manager *source.Manager

	trees []*SyntaxTree

	unitScope *symbols.Scope
	packages  symbols.Packages

	interned map[uint64]*types.Type

	errorType *types.Type
}

var internKey = []byte("svlang-compilation-intern-key-32")

// New returns an empty Compilation over mgr (nil creates a fresh
// private source.Manager), configured per opts.
func New(opts Options, mgr *source.Manager) *Compilation {
	if mgr == nil {
		mgr = source.NewManager()
	}
	c := &Compilation{
		Options:   opts,
		Manager:   mgr,
		unitScope: symbols.NewScope(symbols.CompilationUnitScope, "$unit", nil),
		packages:  symbols.Packages{},
		interned:  map[uint64]*types.Type{},
		errorType: types.NewScalar(types.ErrorType),
	}
	return c
}

// AddSyntaxTree registers a parsed compilation unit, declaring nothing
// by itself — scope population (spec section 4.5 phase 1) is the
// binder's job, consuming tree.Root against c.GetRoot().
func (c *Compilation) AddSyntaxTree(tree *SyntaxTree) {
	c.trees = append(c.trees, tree)
}

// SyntaxTrees returns every tree added so far, in addition order.
func (c *Compilation) SyntaxTrees() []*SyntaxTree {
	return c.trees
}

// GetRoot returns the enclosing compilation-unit scope ($unit) that
// every top-level symbol is declared into.
func (c *Compilation) GetRoot() *symbols.Scope {
	return c.unitScope
}

// DeclarePackage registers scope as the named package's scope, making
// it reachable from pkg::name lookups anywhere in the compilation.
func (c *Compilation) DeclarePackage(name string, scope *symbols.Scope) {
	c.packages[name] = scope
}

// Resolve runs symbols.Resolve against this compilation's $unit scope
// and package registry.
func (c *Compilation) Resolve(at *symbols.Scope, name string) (*symbols.Symbol, bool) {
	return symbols.Resolve(at, name, c.packages)
}

// ErrorType is the shared ErrorType singleton symbolic values and
// expressions are marked with after a semantic error, per spec section
// 7's "error types/values are assignment-compatible with everything to
// suppress cascades".
func (c *Compilation) ErrorType() *types.Type {
	return c.errorType
}

// InternIntegral returns the canonical *types.Type for the given
// primitive integral shape, allocating it on first request and
// returning the same pointer for every subsequent request with the
// same shape (spec section 3.4: "primitive integral types of each
// canonical shape are interned once per Compilation; matching then
// reduces to pointer equality").
func (c *Compilation) InternIntegral(kind types.IntegralKind, width int, signed, fourState bool) *types.Type {
	key := internShapeKey(kind, width, signed, fourState)
	if t, ok := c.interned[key]; ok {
		return t
	}
	t := types.NewIntegral(kind, width, signed, fourState)
	c.interned[key] = t
	return t
}

func internShapeKey(kind types.IntegralKind, width int, signed, fourState bool) uint64 {
	var buf [11]byte
	buf[0] = byte(kind)
	binary.LittleEndian.PutUint32(buf[1:5], uint32(width))
	if signed {
		buf[5] = 1
	}
	if fourState {
		buf[6] = 1
	}
	h, err := highwayhash.New64(internKey)
	if err != nil {
		// highwayhash.New64 only errors on a malformed key, which
		// internKey's fixed 32 bytes never trigger; fall back to a
		// degenerate shared bucket rather than panicking.
		return 0
	}
	h.Write(buf[:])
	return h.Sum64()
}
