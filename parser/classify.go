package parser

import (
	"strings"

	"steptrace/ast"
)

// Classify decides the command kind from literal prefixes and the position
// of an assignment '='. It has no side effects.
func Classify(command string) ast.Kind {
	switch {
	case command == "start":
		return ast.KindStart
	case command == "stop":
		return ast.KindStop
	case strings.HasPrefix(command, "print "):
		return ast.KindPrint
	case strings.HasPrefix(command, "read "):
		return ast.KindRead
	case strings.HasPrefix(command, "goto "):
		return ast.KindGoto
	case strings.HasPrefix(command, "if "):
		return ast.KindIf
	case AssignIndex(command) >= 0:
		return ast.KindAssign
	default:
		return ast.KindUnknown
	}
}

// AssignIndex returns the byte offset of the first '=' outside a string
// literal that is not part of a comparison operator, or -1.
func AssignIndex(command string) int {
	inQuote := false
	for i := 0; i < len(command); i++ {
		c := command[i]
		switch {
		case c == '\\' && inQuote:
			i++
		case c == '"':
			inQuote = !inQuote
		case c == '=' && !inQuote:
			if i+1 < len(command) && command[i+1] == '=' {
				i++
				continue
			}
			if i > 0 && strings.IndexByte("!<>", command[i-1]) >= 0 {
				continue
			}
			return i
		}
	}
	return -1
}
