package source_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/svlang/source"
)

func TestAssignTextAndLineNumbers(t *testing.T) {
	mgr := source.NewManager()

	buf := mgr.AssignText("top.sv", []byte("module a;\nendmodule\n"), source.NoLocation)
	assert.True(t, buf.Valid())

	lineStart := source.NewLocation(buf.ID(), 0)
	assert.Equal(t, 1, mgr.GetLineNumber(lineStart))
	assert.Equal(t, 1, mgr.GetColumnNumber(lineStart))

	secondLine := source.NewLocation(buf.ID(), 10) // start of "endmodule"
	assert.Equal(t, 2, mgr.GetLineNumber(secondLine))
	assert.Equal(t, 1, mgr.GetColumnNumber(secondLine))
}

func TestLineDirectiveRemap(t *testing.T) {
	mgr := source.NewManager()
	buf := mgr.AssignText("gen.sv", []byte("a\nb\nc\nd\n"), source.NoLocation)

	// `line 100 "orig.sv" 1 installed as if seen on raw line 2 (the "b" line)
	lineTwo := source.NewLocation(buf.ID(), 2)
	mgr.AddLineDirective(lineTwo, 100, "orig.sv", 1)

	lineThree := source.NewLocation(buf.ID(), 4) // "c", the line right after the directive
	assert.Equal(t, 100, mgr.GetLineNumber(lineThree))
	assert.Equal(t, "orig.sv", mgr.RemappedFileName(lineThree))
}

func TestExpansionProvenance(t *testing.T) {
	mgr := source.NewManager()
	buf := mgr.AssignText("top.sv", []byte("`FOO\n"), source.NoLocation)

	invokeLoc := source.NewLocation(buf.ID(), 0)
	defLoc := mgr.AssignText("", []byte("1+1"), source.NoLocation)
	defStart := source.NewLocation(defLoc.ID(), 0)

	expLoc := mgr.CreateExpansionLoc(defStart, source.NewRange(invokeLoc, invokeLoc.WithOffset(4)), false, "FOO")

	assert.True(t, mgr.IsMacroLoc(expLoc))
	assert.Equal(t, "FOO", mgr.GetMacroName(expLoc))
	assert.Equal(t, invokeLoc, mgr.GetExpansionLoc(expLoc))
	assert.Equal(t, defStart, mgr.GetOriginalLoc(expLoc))
	assert.Equal(t, invokeLoc, mgr.GetFullyExpandedLoc(expLoc))
}

func TestIsBeforeInCompilationUnit(t *testing.T) {
	mgr := source.NewManager()
	buf := mgr.AssignText("top.sv", []byte("aaaa"), source.NoLocation)

	l1 := source.NewLocation(buf.ID(), 0)
	l2 := source.NewLocation(buf.ID(), 2)
	assert.True(t, mgr.IsBeforeInCompilationUnit(l1, l2))
	assert.False(t, mgr.IsBeforeInCompilationUnit(l2, l1))
}

func TestReadSourceDedupesByCanonicalPath(t *testing.T) {
	mgr := source.NewManager(source.WithLoader(memLoader{"rel.sv": []byte("module m; endmodule")}))
	ctx := context.Background()

	b1 := mgr.ReadSource(ctx, "rel.sv")
	b2 := mgr.ReadSource(ctx, "rel.sv")
	assert.True(t, b1.Valid())
	assert.Equal(t, b1.ID(), b2.ID())
}

func TestReadSourceRejectsInvalidUTF8(t *testing.T) {
	mgr := source.NewManager(source.WithLoader(memLoader{"bad.sv": {0xff, 0xfe, 0x00}}))
	buf := mgr.ReadSource(context.Background(), "bad.sv")
	assert.False(t, buf.Valid())
}

type memLoader map[string][]byte

func (m memLoader) ReadFile(_ context.Context, path string) ([]byte, error) {
	if data, ok := m[path]; ok {
		return data, nil
	}
	return nil, assert.AnError
}

func (m memLoader) Exists(_ context.Context, path string) bool {
	_, ok := m[path]
	return ok
}
