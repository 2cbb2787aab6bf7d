package anvil

// Operator is a fixed source symbol recognized by the cursor. Defining
// the table once avoids string-literal drift between the parser's
// dispatch logic and its lookahead checks.
type Operator struct {
	Name   string
	Symbol string
}

var (
	OpAssign    = Operator{"ASSIGN", ":="}
	OpEqual     = Operator{"EQUAL", "="}
	OpComma     = Operator{"COMMA", ","}
	OpAt        = Operator{"AT", "@"}
	OpQuote     = Operator{"QUOTE", "\""}
	OpBacktick  = Operator{"BACKTICK", "`"}
	OpRocket    = Operator{"ROCKET", "=>"}
	OpColon     = Operator{"COLON", ":"}
	OpLBrace    = Operator{"LBRACE", "{"}
	OpRBrace    = Operator{"RBRACE", "}"}
	OpLBracket  = Operator{"LBRACKET", "["}
	OpRBracket  = Operator{"RBRACKET", "]"}
	OpLParen    = Operator{"LPAREN", "("}
	OpRParen    = Operator{"RPAREN", ")"}
	OpAttrOpen  = Operator{"ATTR_OPEN", "@["}
	OpShebangML = Operator{"SHEBANG_AML", "#!aml"}
	OpShebangSL = Operator{"SHEBANG_ASL", "#!asl"}
)

// reservedWords are never accepted as identifiers, bare values, object
// keys, or module keys.
var reservedWords = map[string]bool{
	"true":    true,
	"false":   true,
	"null":    true,
	"vars":    true,
	"include": true,
}

func isReserved(s string) bool {
	return reservedWords[s]
}
