package diag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/svlang/diag"
	"github.com/viant/svlang/source"
)

func rangeAt(buf source.BufferID, offset int) source.SourceRange {
	loc := source.NewLocation(buf, offset)
	return source.NewRange(loc, loc.WithOffset(1))
}

func TestBagAddAndAll(t *testing.T) {
	var bag diag.Bag
	mgr := source.NewManager()
	buf := mgr.AssignText("t.sv", []byte("module m; endmodule"), source.NoLocation)

	bag.Errorf("sem-undeclared-id", rangeAt(buf.ID(), 0), "foo")
	bag.Warnf("sem-unused-net", rangeAt(buf.ID(), 5))

	all := bag.All()
	assert.Len(t, all, 2)
	assert.Equal(t, "sem-undeclared-id", all[0].Code)
	assert.Equal(t, diag.Error, all[0].Severity)
	assert.Equal(t, []interface{}{"foo"}, all[0].Args)
	assert.Equal(t, "sem-unused-net", all[1].Code)
	assert.Equal(t, diag.Warning, all[1].Severity)
}

func TestBagHasErrors(t *testing.T) {
	var bag diag.Bag
	mgr := source.NewManager()
	buf := mgr.AssignText("t.sv", []byte("x"), source.NoLocation)

	assert.False(t, bag.HasErrors())

	bag.Warnf("sem-unused-net", rangeAt(buf.ID(), 0))
	assert.False(t, bag.HasErrors())

	bag.Add(diag.Diagnostic{Code: "sem-fatal-overflow", Severity: diag.Fatal, Range: rangeAt(buf.ID(), 0)})
	assert.True(t, bag.HasErrors())
}

func TestBagSortedOrdersByLocation(t *testing.T) {
	var bag diag.Bag
	mgr := source.NewManager()
	buf := mgr.AssignText("t.sv", []byte("0123456789"), source.NoLocation)

	bag.Errorf("sem-b", rangeAt(buf.ID(), 8))
	bag.Errorf("sem-a", rangeAt(buf.ID(), 2))

	sorted := bag.Sorted(mgr.IsBeforeInCompilationUnit)
	assert.Equal(t, "sem-a", sorted[0].Code)
	assert.Equal(t, "sem-b", sorted[1].Code)

	// Sorted returns a copy; insertion order of the original bag is untouched.
	assert.Equal(t, "sem-b", bag.All()[0].Code)
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "note", diag.Note.String())
	assert.Equal(t, "warning", diag.Warning.String())
	assert.Equal(t, "error", diag.Error.String())
	assert.Equal(t, "fatal", diag.Fatal.String())
}
