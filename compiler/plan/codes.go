package plan

// Diagnostic codes. They are part of the tool's output contract and must not
// be renamed.
const (
	CodeMalformedTarget    = "E_MALFORMED_TARGET"
	CodeUnsupportedItem    = "E_UNSUPPORTED_ITEM"
	CodeUnknownOption      = "E_UNKNOWN_OPTION"
	CodeDuplicateOperation = "E_DUPLICATE_OPERATION"
	CodeMalformedParam     = "E_MALFORMED_PARAM"
	CodeBodySyntax         = "E_BODY_SYNTAX"
	CodeUnknownOperation   = "E_UNKNOWN_OPERATION"
	CodeForeignOperation   = "E_FOREIGN_OPERATION"
	CodeUnknownService     = "E_UNKNOWN_SERVICE"
	CodeDuplicateService   = "E_DUPLICATE_SERVICE"
	CodeNameCollision      = "E_NAME_COLLISION"
	CodeVariantCollision   = "E_VARIANT_COLLISION"
	CodeMalformedDecl      = "E_MALFORMED_DECL"
	CodeUnlistedOperation  = "W_UNLISTED_OPERATION"
	CodeEmptyService       = "W_EMPTY_SERVICE"
)

// DiagnosticCodes lists every code above.
var DiagnosticCodes = []string{
	CodeMalformedTarget,
	CodeUnsupportedItem,
	CodeUnknownOption,
	CodeDuplicateOperation,
	CodeMalformedParam,
	CodeBodySyntax,
	CodeUnknownOperation,
	CodeForeignOperation,
	CodeUnknownService,
	CodeDuplicateService,
	CodeNameCollision,
	CodeVariantCollision,
	CodeMalformedDecl,
	CodeUnlistedOperation,
	CodeEmptyService,
}
