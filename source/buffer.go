package source

// bufferKind distinguishes a file buffer from a macro-expansion buffer.
type bufferKind uint8

const (
	bufferFile bufferKind = iota
	bufferExpansion
)

// SourceBuffer is a lightweight handle to a buffer owned by a SourceManager.
// The zero value is the "empty" buffer returned on read failure (spec
// section 4.1: file read errors, non-UTF-8 bytes, and canonicalization
// failures return an empty SourceBuffer, boolean-false).
type SourceBuffer struct {
	id BufferID
}

// Valid reports whether this handle refers to a real buffer.
func (b SourceBuffer) Valid() bool {
	return b.id != NoBufferID
}

// ID returns the underlying BufferID.
func (b SourceBuffer) ID() BufferID {
	return b.id
}

// lineDirective records one `line directive installed by add_line_directive.
type lineDirective struct {
	rawLine int    // the in-file (physical) line the directive appears on
	newLine int     // the line number to report from this point forward
	newName string  // the file name to report from this point forward, "" keeps current
	level   int     // 0 = no change, 1 = push (entering include), 2 = pop (returning)
}

// bufferEntry is the manager-internal representation of one buffer.
type bufferEntry struct {
	id   BufferID
	kind bufferKind

	// File buffer fields.
	name         string
	text         []byte
	includedFrom SourceLocation

	lineOffsets    []int // byte offset of the start of each line; computed lazily
	lineDirectives []lineDirective

	// Expansion buffer fields.
	originalLoc    SourceLocation
	expansionRange SourceRange
	isMacroArg     bool
	macroName      string
}
