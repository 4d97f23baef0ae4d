package msize

// A Token is a distinct marker value with an optional description, the
// nearest Go analog of an interned host symbol. Tokens constructed by
// separate calls to NewToken are never identical, even when their
// descriptions are equal.
type Token struct {
	desc string
	id   *int
}

// NewToken constructs a fresh Token with the given description, which may
// be empty.
func NewToken(desc string) Token { return Token{desc: desc, id: new(int)} }

// TokenDescription reports the token's description.
func (t Token) TokenDescription() string { return t.desc }

func (t Token) String() string {
	if t.desc == "" {
		return "Token"
	}
	return "Token(" + t.desc + ")"
}
