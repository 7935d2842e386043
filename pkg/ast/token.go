package ast

// TokenKind identifies the category of a scanned token.
type TokenKind string

const (
	EOF        TokenKind = "EOF"
	IDENTIFIER TokenKind = "IDENTIFIER"
	CHAR       TokenKind = "CHAR"
	INTEGER    TokenKind = "INTEGER"
	FLOAT      TokenKind = "FLOAT"
	NEWLINE    TokenKind = "NEWLINE"
	INDENT     TokenKind = "INDENT"
	DEDENT     TokenKind = "DEDENT"

	LPAR         TokenKind = "LPAR"
	RPAR         TokenKind = "RPAR"
	LSQB         TokenKind = "LSQB"
	RSQB         TokenKind = "RSQB"
	COLON        TokenKind = "COLON"
	COMMA        TokenKind = "COMMA"
	SEMI         TokenKind = "SEMI"
	STAR         TokenKind = "STAR"
	VBAR         TokenKind = "VBAR"
	AMBER        TokenKind = "AMBER"
	CIRCUMFLEX   TokenKind = "CIRCUMFLEX"
	EQEQUAL      TokenKind = "EQEQUAL"
	NOTEQUAL     TokenKind = "NOTEQUAL"
	LESSEQUAL    TokenKind = "LESSEQUAL"
	GREATEREQUAL TokenKind = "GREATEREQUAL"
	LESS         TokenKind = "LESS"
	GREATER      TokenKind = "GREATER"
	EQUAL        TokenKind = "EQUAL"
	STAREQUAL    TokenKind = "STAREQUAL"
	VBAREQUAL    TokenKind = "VBAREQUAL"
	AMBEREQUAL   TokenKind = "AMBEREQUAL"
	TILDE        TokenKind = "TILDE"

	// Keywords.
	FUNCDEF  TokenKind = "FUNCDEF"
	IMPORT   TokenKind = "IMPORT"
	RETURN   TokenKind = "RETURN"
	IF       TokenKind = "IF"
	ELIF     TokenKind = "ELIF"
	ELSE     TokenKind = "ELSE"
	WHILE    TokenKind = "WHILE"
	CONTINUE TokenKind = "CONTINUE"
	BREAK    TokenKind = "BREAK"
	PASS     TokenKind = "PASS"
	AND      TokenKind = "AND"
	OR       TokenKind = "OR"
	NOT      TokenKind = "NOT"
	TRUE     TokenKind = "TRUE"
	FALSE    TokenKind = "FALSE"
	NONE     TokenKind = "NONE"
)

var keywords = map[string]TokenKind{
	"def":      FUNCDEF,
	"import":   IMPORT,
	"return":   RETURN,
	"if":       IF,
	"elif":     ELIF,
	"else":     ELSE,
	"while":    WHILE,
	"continue": CONTINUE,
	"break":    BREAK,
	"pass":     PASS,
	"and":      AND,
	"or":       OR,
	"not":      NOT,
	"True":     TRUE,
	"False":    FALSE,
	"None":     NONE,
}

// LookupIdent returns the keyword kind for ident, or IDENTIFIER.
func LookupIdent(ident string) TokenKind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENTIFIER
}

// Token is a single lexical unit. Lexeme is empty for EOF.
type Token struct {
	Kind     TokenKind
	Lexeme   string
	Location Location
}

// NewToken builds a token from its parts.
func NewToken(kind TokenKind, lexeme string, loc Location) Token {
	return Token{Kind: kind, Lexeme: lexeme, Location: loc}
}

// Equal compares kind and lexeme, ignoring location.
func (t Token) Equal(other Token) bool {
	return t.Kind == other.Kind && t.Lexeme == other.Lexeme
}

func (t Token) String() string {
	return "Token(" + string(t.Kind) + ", " + quoteLexeme(t.Lexeme) + ")"
}

func quoteLexeme(lexeme string) string {
	if lexeme == "" {
		return "None"
	}
	return "'" + lexeme + "'"
}

var spellings = map[TokenKind]string{
	LPAR:         "(",
	RPAR:         ")",
	LSQB:         "[",
	RSQB:         "]",
	COLON:        ":",
	COMMA:        ",",
	SEMI:         ";",
	STAR:         "*",
	VBAR:         "|",
	AMBER:        "&",
	CIRCUMFLEX:   "^",
	EQEQUAL:      "==",
	NOTEQUAL:     "!=",
	LESSEQUAL:    "<=",
	GREATEREQUAL: ">=",
	LESS:         "<",
	GREATER:      ">",
	EQUAL:        "=",
	STAREQUAL:    "*=",
	VBAREQUAL:    "|=",
	AMBEREQUAL:   "&=",
	TILDE:        "~",
	NEWLINE:      "\n",
	INDENT:       "INDENT",
	DEDENT:       "DEDENT",
}

func init() {
	for word, kind := range keywords {
		spellings[kind] = word
	}
}

// Spelling returns the fixed source text of a punctuation or keyword kind,
// or "" for kinds whose lexeme varies.
func (k TokenKind) Spelling() string {
	return spellings[k]
}

// Op returns a location-less token of the given fixed-spelling kind.
func Op(kind TokenKind) Token {
	return Token{Kind: kind, Lexeme: kind.Spelling()}
}
