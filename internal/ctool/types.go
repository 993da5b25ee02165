package ctool

// Defaults applied when the corresponding request field is absent. An
// explicitly supplied empty string is honored as-is, not defaulted.
const (
	DefaultOutputFile         = "output.o"
	DefaultCompileOptions     = "-O0 -std=c17"
	DefaultDisassembleOptions = "-d -M intel -S"
)

// Pipeline stages reported by DisassembleResult.Stage. A result names the
// first stage that failed; stages never execute after a failure.
const (
	StageValidation  = "validation"
	StageReadSource  = "read_source"
	StageCompilation = "compilation"
	StageDisassembly = "disassembly"
)

// CompileRequest is a validated compile invocation. Options holds the
// whitespace-split compiler flags, tokenized once during validation.
type CompileRequest struct {
	Code       string
	OutputFile string
	Options    []string
	Verbose    bool
}

// DisassembleRequest is a validated disassemble invocation. Input is either
// C source (literal or file path) when IsSourceCode is true, or the path of
// an existing object file when false.
type DisassembleRequest struct {
	Input        string
	IsSourceCode bool
	Options      []string
}

// CompileResult is the compile outcome delivered to the MCP host. Exactly
// one of the success and failure field groups is populated.
type CompileResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Stdout     string `json:"stdout,omitempty"`
	OutputFile string `json:"output_file,omitempty"`
	Error      string `json:"error,omitempty"`
	Returncode int    `json:"returncode,omitempty"`
}

// DisassembleResult is the disassemble outcome delivered to the MCP host.
// Assembly is the disassembler's stdout, uncut. Stage is set on failures
// that are attributable to a pipeline stage.
type DisassembleResult struct {
	Success  bool   `json:"success"`
	Assembly string `json:"assembly,omitempty"`
	Error    string `json:"error,omitempty"`
	Stage    string `json:"stage,omitempty"`
}
