package compiler

const (
	// Config stage
	ErrCodeConfigNamingPolicy = "CONFIG_NAMING_POLICY_ERROR"
	ErrCodeConfigPathPolicy   = "CONFIG_PATH_POLICY_ERROR"

	// CUE stage
	ErrCodeCUELoad      = "CUE_LOAD_ERROR"
	ErrCodeCUENormalize = "CUE_NORMALIZE_ERROR"
	ErrCodeCUEHash      = "CUE_HASH_ERROR"

	// Extract, link and synth stages report through diagnostics; these codes
	// wrap a failed plan when the caller needs an error value.
	ErrCodeExtractRejected = "EXTRACT_REJECTED_ERROR"
	ErrCodeLinkRejected    = "LINK_REJECTED_ERROR"
	ErrCodeSynthRejected   = "SYNTH_REJECTED_ERROR"

	// Emit stage
	ErrCodeEmitRender   = "EMIT_RENDER_ERROR"
	ErrCodeEmitFormat   = "EMIT_FORMAT_ERROR"
	ErrCodeEmitWrite    = "EMIT_WRITE_ERROR"
	ErrCodeEmitFailPlan = "EMIT_FAILED_PLAN_ERROR"
)

// StableErrorCodes is the canonical registry of compiler/CLI stage error codes.
var StableErrorCodes = []string{
	ErrCodeConfigNamingPolicy,
	ErrCodeConfigPathPolicy,
	ErrCodeCUELoad,
	ErrCodeCUENormalize,
	ErrCodeCUEHash,
	ErrCodeExtractRejected,
	ErrCodeLinkRejected,
	ErrCodeSynthRejected,
	ErrCodeEmitRender,
	ErrCodeEmitFormat,
	ErrCodeEmitWrite,
	ErrCodeEmitFailPlan,
}
