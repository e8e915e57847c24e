package lexer

// Lexer tokenizes a single expression or condition. Anything that is not a
// string literal, operator, parenthesis or space is collected into a word
// token: words starting with a digit are numbers, every other word is a variable name.
type Lexer struct {
	input []rune
	pos   int
	line  int
	col   int
}

func New(input string) *Lexer {
	return &Lexer{
		input: []rune(input),
		line:  1,
		col:   1,
	}
}

// Tokenize returns every token up to and including EOF.
func Tokenize(input string) []Token {
	lx := New(input)
	out := []Token{}
	for {
		tok := lx.NextToken()
		out = append(out, tok)
		if tok.Type == EOF {
			return out
		}
	}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) advance() rune {
	ch := l.peek()
	if ch == 0 {
		return 0
	}
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) NextToken() Token {
	for isSpace(l.peek()) {
		l.advance()
	}

	startLine := l.line
	startCol := l.col
	ch := l.peek()

	if ch == 0 {
		return Token{Type: EOF, Line: startLine, Col: startCol}
	}

	// strings "..." with \" and \n escapes; other backslashes stay literal
	if ch == '"' {
		l.advance()
		lex := []rune{}
		for {
			c := l.peek()
			if c == 0 {
				return Token{Type: ILLEGAL, Lexeme: "Unterminated string", Line: startLine, Col: startCol}
			}
			if c == '"' {
				l.advance()
				break
			}
			if c == '\\' {
				l.advance()
				switch l.peek() {
				case 'n':
					l.advance()
					lex = append(lex, '\n')
				case '"':
					l.advance()
					lex = append(lex, '"')
				default:
					lex = append(lex, '\\')
				}
				continue
			}
			lex = append(lex, l.advance())
		}
		return Token{Type: STRING, Lexeme: string(lex), Line: startLine, Col: startCol}
	}

	// two-char comparison operators first
	switch ch {
	case '=':
		l.advance()
		if l.peek() == '=' {
			l.advance()
			return Token{Type: EQ, Lexeme: "==", Line: startLine, Col: startCol}
		}
		return Token{Type: ILLEGAL, Lexeme: "=", Line: startLine, Col: startCol}
	case '!':
		l.advance()
		if l.peek() == '=' {
			l.advance()
			return Token{Type: NEQ, Lexeme: "!=", Line: startLine, Col: startCol}
		}
		return Token{Type: ILLEGAL, Lexeme: "!", Line: startLine, Col: startCol}
	case '<':
		l.advance()
		if l.peek() == '=' {
			l.advance()
			return Token{Type: LTE, Lexeme: "<=", Line: startLine, Col: startCol}
		}
		return Token{Type: LT, Lexeme: "<", Line: startLine, Col: startCol}
	case '>':
		l.advance()
		if l.peek() == '=' {
			l.advance()
			return Token{Type: GTE, Lexeme: ">=", Line: startLine, Col: startCol}
		}
		return Token{Type: GT, Lexeme: ">", Line: startLine, Col: startCol}
	}

	if tt, ok := singles[ch]; ok {
		l.advance()
		return Token{Type: tt, Lexeme: string(ch), Line: startLine, Col: startCol}
	}

	word := []rune{}
	for c := l.peek(); c != 0 && !isDelimiter(c); c = l.peek() {
		word = append(word, l.advance())
	}
	tt := IDENT
	if startsWithDigit(word) {
		tt = NUMBER
	}
	return Token{Type: tt, Lexeme: string(word), Line: startLine, Col: startCol}
}

var singles = map[rune]TokenType{
	'+': PLUS,
	'-': MINUS,
	'*': STAR,
	'/': SLASH,
	'%': PERCENT,
	'(': LPAREN,
	')': RPAREN,
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}

func isDelimiter(r rune) bool {
	if isSpace(r) {
		return true
	}
	if _, ok := singles[r]; ok {
		return true
	}
	switch r {
	case '"', '=', '!', '<', '>':
		return true
	}
	return false
}

// startsWithDigit marks a number; trailing non-digits are ignored when the
// number is evaluated, so "12abc" is 12.
func startsWithDigit(word []rune) bool {
	return len(word) > 0 && word[0] >= '0' && word[0] <= '9'
}
