package config

// SourceFileExt is the canonical extension for Vanta specification modules.
const SourceFileExt = ".vnt"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".vnt", ".vanta"}

// IsTestMode indicates test mode. cmd/vanta sets it once at startup when the
// VANTA_TEST_MODE environment variable is "1". internal/effect consults it
// so quantified-name output stays deterministic across runs regardless of
// the fresh-name counter's starting value; internal/repl hides its prompt
// while it is set.
var IsTestMode = false

// IsLSPMode indicates the process is the language server. Consulted by
// internal/effect to normalize quantified names in hover text, and by
// internal/repl to hide its prompt.
var IsLSPMode = false

// Built-in opcode names recognized by the seeded signature table
// (internal/sigtable).
const (
	AndOpName      = "and"
	OrOpName       = "or"
	NotOpName      = "not"
	PrimeOpName    = "prime"
	AddOpName      = "add"
	SubOpName      = "sub"
	MulOpName      = "mul"
	EqOpName       = "eq"
	InOpName       = "in"
	UnionOpName    = "union"
	IfThenElseName = "ifThenElse"
)
