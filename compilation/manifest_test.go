package compilation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/viant/svlang/compilation"
)

// fakeLoader serves a fixed set of in-memory files, standing in for an
// afs-backed source.FileLoader without touching the real filesystem.
type fakeLoader struct {
	files map[string][]byte
}

func (f *fakeLoader) ReadFile(_ context.Context, path string) ([]byte, error) {
	content, ok := f.files[path]
	if !ok {
		return nil, errors.New("not found")
	}
	return content, nil
}

func (f *fakeLoader) Exists(_ context.Context, path string) bool {
	_, ok := f.files[path]
	return ok
}

func TestLoadOptionsOverridesOnlyNamedFields(t *testing.T) {
	loader := &fakeLoader{files: map[string][]byte{
		"svlang.yaml": []byte(`
language_version: "1800-2012"
include_dirs:
  - ./rtl
  - ./tb
predefined_macros:
  - name: SIMULATION
    body: "1"
timescale:
  unit: -9
  precision: -12
`),
	}}

	opts, err := compilation.LoadOptions(context.Background(), loader, "svlang.yaml")
	assert.NoError(t, err)
	assert.Equal(t, compilation.LanguageVersion2012, opts.LanguageVersion)
	assert.Equal(t, []string{"./rtl", "./tb"}, opts.IncludeDirsUser)
	assert.Equal(t, []compilation.Macro{{Name: "SIMULATION", Body: "1"}}, opts.PredefinedMacros)
	assert.Equal(t, -9, opts.DefaultTimescale.UnitExponent)
	assert.Equal(t, -12, opts.DefaultTimescale.PrecisionExponent)

	// Fields the manifest never mentions keep DefaultOptions' values.
	defaults := compilation.DefaultOptions()
	assert.Equal(t, defaults.MaxIncludeDepth, opts.MaxIncludeDepth)
	assert.Equal(t, defaults.DefaultNetType, opts.DefaultNetType)
}

func TestLoadOptionsRejectsUnknownLanguageVersion(t *testing.T) {
	loader := &fakeLoader{files: map[string][]byte{
		"svlang.yaml": []byte(`language_version: "not-a-version"`),
	}}

	_, err := compilation.LoadOptions(context.Background(), loader, "svlang.yaml")
	assert.Error(t, err)
}

func TestLoadOptionsPropagatesReadError(t *testing.T) {
	loader := &fakeLoader{files: map[string][]byte{}}

	_, err := compilation.LoadOptions(context.Background(), loader, "missing.yaml")
	assert.Error(t, err)
}
