package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess = "✓" // Check passed
	SymbolFail    = "✗" // Check failed
	SymbolWarn    = "!" // Check passed with caveats
	SymbolInfo    = "●" // Informational note
)
