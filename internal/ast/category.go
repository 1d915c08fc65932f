package ast

// Category is a syntactic category a grammar rule can ask for. Expected
// errors list the categories that would have been accepted.
type Category uint8

const (
	CatIdentifier Category = iota
	CatLCurly
	CatRCurly
	CatWhitespace
	CatLiteral
	CatNumber
	CatDigit
	CatKeywordFn
	CatQuote
	CatEscapeSequence
	CatColon
	CatTypeName
	CatConstructorArrow
)

var categoryNames = [...]string{
	CatIdentifier:       "identifier",
	CatLCurly:           "'{'",
	CatRCurly:           "'}'",
	CatWhitespace:       "whitespace",
	CatLiteral:          "literal",
	CatNumber:           "number",
	CatDigit:            "digit",
	CatKeywordFn:        "'fn'",
	CatQuote:            "'\"'",
	CatEscapeSequence:   "escape sequence",
	CatColon:            "':'",
	CatTypeName:         "type name",
	CatConstructorArrow: "'->'",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// Construct names the grammar rule that was running when an error was
// raised.
type Construct uint8

const (
	ConstructNone Construct = iota
	ConstructModule
	ConstructFunction
	ConstructStruct
	ConstructEnum
	ConstructIdentifier
	ConstructLiteral
	ConstructConstructor
	ConstructFieldAccess
)

var constructNames = [...]string{
	ConstructNone:        "",
	ConstructModule:      "module",
	ConstructFunction:    "function",
	ConstructStruct:      "struct",
	ConstructEnum:        "enum",
	ConstructIdentifier:  "identifier",
	ConstructLiteral:     "literal",
	ConstructConstructor: "constructor",
	ConstructFieldAccess: "field access",
}

func (c Construct) String() string {
	if int(c) < len(constructNames) {
		return constructNames[c]
	}
	return "unknown"
}
