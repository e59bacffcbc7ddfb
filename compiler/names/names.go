// Package names derives every identifier the generator emits.
//
// Case conversion lives here next to the derivation rules so that two
// independent derivations of the same (service, operation) pair always agree.
package names

import (
	"strings"
	"unicode"
)

// KnownAcronyms are common abbreviations that should stay uppercase
var KnownAcronyms = map[string]string{
	"id": "ID", "api": "API", "ttl": "TTL",
	"url": "URL", "http": "HTTP", "https": "HTTPS", "sql": "SQL",
	"json": "JSON", "xml": "XML", "html": "HTML",
	"uuid": "UUID", "uri": "URI", "ip": "IP", "tcp": "TCP", "udp": "UDP",
	"io": "IO", "db": "DB", "rpc": "RPC",
}

// ExportName converts an operation or service name to an exported Go name
// (UpperCamel with acronym normalization).
func ExportName(name string) string {
	words := splitWords(name)
	for i, w := range words {
		lower := strings.ToLower(w)
		if acronym, ok := KnownAcronyms[lower]; ok {
			words[i] = acronym
			continue
		}
		r := []rune(lower)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, "")
}

// ToSnakeCase converts a name to lower snake case. Acronym runs stay
// together: "GetID" -> "get_id", "APIKey" -> "api_key".
func ToSnakeCase(s string) string {
	if s == "" {
		return ""
	}

	pascal := ExportName(s)
	runes := []rune(pascal)
	var res strings.Builder

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				res.WriteRune('_')
			} else if i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
				res.WriteRune('_')
			}
		}
		res.WriteRune(unicode.ToLower(r))
	}

	return res.String()
}

// splitWords breaks a name on separators and case boundaries.
func splitWords(name string) []string {
	runes := []rune(name)
	var words []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	for i, r := range runes {
		if r == '_' || r == '.' || r == '-' || r == ' ' {
			flush()
			continue
		}

		if i > 0 && unicode.IsUpper(r) && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
			flush()
		}

		// "HTTPServer": split before the last upper of an acronym run.
		if i > 1 && unicode.IsUpper(runes[i-1]) && unicode.IsLower(r) && unicode.IsUpper(runes[i-2]) {
			str := []rune(current.String())
			if len(str) > 1 {
				words = append(words, string(str[:len(str)-1]))
				current.Reset()
				current.WriteRune(runes[i-1])
			}
		}

		current.WriteRune(r)
	}
	flush()
	return words
}
