package compilation

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/viant/svlang/source"
)

// manifest is the on-disk shape of an `svlang.yaml` project file: the
// subset of Options a project checks in, the way a go.mod/package.json
// is checked in for a build tool (spec section 6.2's option table).
type manifest struct {
	LanguageVersion string   `yaml:"language_version"`
	IncludeDirs     []string `yaml:"include_dirs"`
	SystemIncludeDirs []string `yaml:"system_include_dirs"`
	DefaultNetType  string   `yaml:"default_nettype"`
	Timescale       struct {
		Unit      int `yaml:"unit"`
		Precision int `yaml:"precision"`
	} `yaml:"timescale"`
	PredefinedMacros []manifestMacro `yaml:"predefined_macros"`
	MaxIncludeDepth   int `yaml:"max_include_depth"`
	MaxMacroDepth     int `yaml:"max_macro_depth"`
	MaxConstExprDepth int `yaml:"max_const_expr_depth"`
}

type manifestMacro struct {
	Name string `yaml:"name"`
	Body string `yaml:"body"`
}

var languageVersionNames = map[string]LanguageVersion{
	"1800-2005": LanguageVersion2005,
	"1800-2009": LanguageVersion2009,
	"1800-2012": LanguageVersion2012,
	"1800-2017": LanguageVersion2017,
	"1800-2023": LanguageVersion2023,
}

var netTypeNames = map[string]NetType{
	"wire": NetTypeWire,
	"tri":  NetTypeTri,
	"none": NetTypeNone,
}

// LoadOptions reads an `svlang.yaml` project manifest through loader and
// unmarshals it into Options, starting from DefaultOptions so a manifest
// only needs to name what it overrides (spec section 6.2's option
// table). A manifest naming an unrecognized `language_version` or
// `default_nettype` value is an error rather than a silently-ignored
// field, since those two options change parsing/elaboration semantics.
func LoadOptions(ctx context.Context, loader source.FileLoader, path string) (Options, error) {
	opts := DefaultOptions()

	raw, err := loader.ReadFile(ctx, path)
	if err != nil {
		return Options{}, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	var m manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return Options{}, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	if m.LanguageVersion != "" {
		v, ok := languageVersionNames[m.LanguageVersion]
		if !ok {
			return Options{}, fmt.Errorf("manifest %s: unrecognized language_version %q", path, m.LanguageVersion)
		}
		opts.LanguageVersion = v
	}
	if m.DefaultNetType != "" {
		nt, ok := netTypeNames[m.DefaultNetType]
		if !ok {
			return Options{}, fmt.Errorf("manifest %s: unrecognized default_nettype %q", path, m.DefaultNetType)
		}
		opts.DefaultNetType = nt
	}
	if len(m.IncludeDirs) > 0 {
		opts.IncludeDirsUser = m.IncludeDirs
	}
	if len(m.SystemIncludeDirs) > 0 {
		opts.IncludeDirsSystem = m.SystemIncludeDirs
	}
	if m.Timescale.Unit != 0 || m.Timescale.Precision != 0 {
		opts.DefaultTimescale = Timescale{UnitExponent: m.Timescale.Unit, PrecisionExponent: m.Timescale.Precision}
	}
	if m.MaxIncludeDepth != 0 {
		opts.MaxIncludeDepth = m.MaxIncludeDepth
	}
	if m.MaxMacroDepth != 0 {
		opts.MaxMacroDepth = m.MaxMacroDepth
	}
	if m.MaxConstExprDepth != 0 {
		opts.MaxConstExprDepth = m.MaxConstExprDepth
	}
	for _, mm := range m.PredefinedMacros {
		opts.PredefinedMacros = append(opts.PredefinedMacros, Macro{Name: mm.Name, Body: mm.Body})
	}

	return opts, nil
}
