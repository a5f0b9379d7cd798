package token

// LanguageVersion selects the keyword and grammar set in effect, per
// spec section 6.2's `language_version` option.
type LanguageVersion uint8

const (
	V1800_2005 LanguageVersion = iota
	V1800_2009
	V1800_2012
	V1800_2017
	V1800_2023
)

// keywordTable maps spelling to Kind. It is one table shared by every
// LanguageVersion: the set below covers constructs present since 2005,
// which is all this front-end recognizes as keywords, and LookupKeyword
// does not vary its answer by version.
var keywordTable = map[string]Kind{
	"module":      ModuleKeyword,
	"endmodule":   EndmoduleKeyword,
	"interface":   InterfaceKeyword,
	"endinterface": EndinterfaceKeyword,
	"program":     ProgramKeyword,
	"endprogram":  EndprogramKeyword,
	"package":     PackageKeyword,
	"endpackage":  EndpackageKeyword,
	"class":       ClassKeyword,
	"endclass":    EndclassKeyword,
	"function":    FunctionKeyword,
	"endfunction": EndfunctionKeyword,
	"task":        TaskKeyword,
	"endtask":     EndtaskKeyword,
	"begin":       BeginKeyword,
	"end":         EndKeyword,
	"generate":    GenerateKeyword,
	"endgenerate": EndgenerateKeyword,
	"parameter":   ParameterKeyword,
	"localparam":  LocalparamKeyword,
	"input":       InputKeyword,
	"output":      OutputKeyword,
	"inout":       InoutKeyword,
	"bit":         BitKeyword,
	"logic":       LogicKeyword,
	"reg":         RegKeyword,
	"byte":        ByteKeyword,
	"shortint":    ShortintKeyword,
	"int":         IntKeyword,
	"longint":     LongintKeyword,
	"integer":     IntegerKeyword,
	"time":        TimeKeyword,
	"shortreal":   ShortrealKeyword,
	"real":        RealKeyword,
	"realtime":    RealtimeKeyword,
	"void":        VoidKeyword,
	"string":      StringKeyword,
	"return":      ReturnKeyword,
	"if":          IfKeyword,
	"else":        ElseKeyword,
	"for":         ForKeyword,
	"while":       WhileKeyword,
	"do":          DoKeyword,
	"case":        CaseKeyword,
	"endcase":     EndcaseKeyword,
	"default":     DefaultKeyword,
	"signed":      SignedKeyword,
	"unsigned":    UnsignedKeyword,
	"local":       LocalKeyword,
	"protected":   ProtectedKeyword,
	"static":      StaticKeyword,
	"virtual":     VirtualKeyword,
	"pure":        PureKeyword,
	"extern":      ExternKeyword,
	"const":       ConstKeyword,
	"rand":        RandKeyword,
	"randc":       RandcKeyword,
	"extends":     ExtendsKeyword,
	"implements":  ImplementsKeyword,
	"import":      ImportKeyword,
	"export":      ExportKeyword,
	"packed":      PackedKeyword,
	"struct":      StructKeyword,
	"union":       UnionKeyword,
	"tagged":      TaggedKeyword,
	"enum":        EnumKeyword,
	"typedef":     TypedefKeyword,
	"assert":      AssertKeyword,
	"assume":      AssumeKeyword,
	"cover":       CoverKeyword,
	"modport":     ModportKeyword,
	"genvar":      GenvarKeyword,
	"break":       BreakKeyword,
	"continue":    ContinueKeyword,
}

// LookupKeyword returns the keyword Kind for text under the given
// LanguageVersion, or (Identifier, false) if text is not a keyword in that
// version.
func LookupKeyword(text string, version LanguageVersion) (Kind, bool) {
	_ = version // all table entries are available from 1800-2005 onward today
	k, ok := keywordTable[text]
	return k, ok
}
