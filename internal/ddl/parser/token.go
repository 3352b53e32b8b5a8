package parser

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rqlite/sql"
)

// TokenKind represents the type of a lexical token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenWord
	TokenQuotedWord
	TokenNumber
	TokenString
	TokenLParen    // (
	TokenRParen    // )
	TokenComma     // ,
	TokenEq        // =
	TokenSemicolon // ;
	TokenPeriod    // .
	TokenMinus     // -
	TokenPlus      // +
	TokenIllegal
)

var tokenKindNames = [...]string{
	TokenEOF:        "EOF",
	TokenWord:       "WORD",
	TokenQuotedWord: "QUOTED_WORD",
	TokenNumber:     "NUMBER",
	TokenString:     "STRING",
	TokenLParen:     "(",
	TokenRParen:     ")",
	TokenComma:      ",",
	TokenEq:         "=",
	TokenSemicolon:  ";",
	TokenPeriod:     ".",
	TokenMinus:      "-",
	TokenPlus:       "+",
	TokenIllegal:    "ILLEGAL",
}

// String returns the name of the token kind.
func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "UNKNOWN"
}

// Token is a lexical token. Text holds the source spelling for words and
// numbers, and the unescaped contents for strings and quoted words.
type Token struct {
	Kind  TokenKind
	Text  string
	Quote rune
	Pos   sql.Pos
}

// String renders the token the way it appears in diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case TokenEOF:
		return "EOF"
	case TokenString:
		return "'" + strings.ReplaceAll(t.Text, "'", "''") + "'"
	case TokenQuotedWord:
		q := string(t.Quote)
		return q + strings.ReplaceAll(t.Text, q, q+q) + q
	default:
		return t.Text
	}
}

// tokenize scans the whole statement text once and converts every scanner
// token into the closed token set the grammar works with. The returned slice
// always ends with a TokenEOF token.
func tokenize(text string, d Dialect) []Token {
	normalized, quotes := normalize(text, d)
	s := sql.NewScanner(strings.NewReader(normalized))

	var tokens []Token
	for {
		pos, tok, lit := s.Scan()
		if lit == "" {
			lit = tok.String()
		}

		t := Token{Text: lit, Pos: pos}
		switch tok {
		case sql.EOF:
			t.Kind = TokenEOF
			t.Text = ""
			return append(tokens, t)
		case sql.IDENT:
			t.Kind = TokenWord
		case sql.QIDENT:
			t.Kind = TokenQuotedWord
			t.Quote = '"'
			if len(quotes) > 0 {
				t.Quote, quotes = quotes[0], quotes[1:]
			}
			// quoted by normalize, bare in the source
			if t.Quote == 0 {
				t.Kind = TokenWord
			}
		case sql.STRING:
			t.Kind = TokenString
		case sql.INTEGER, sql.FLOAT:
			t.Kind = TokenNumber
		case sql.LP:
			t.Kind = TokenLParen
		case sql.RP:
			t.Kind = TokenRParen
		case sql.COMMA:
			t.Kind = TokenComma
		case sql.EQ:
			t.Kind = TokenEq
		case sql.SEMI:
			t.Kind = TokenSemicolon
		case sql.DOT:
			t.Kind = TokenPeriod
		case sql.MINUS:
			t.Kind = TokenMinus
		case sql.PLUS:
			t.Kind = TokenPlus
		case sql.ILLEGAL, sql.BLOB, sql.BIND:
			t.Kind = TokenIllegal
		default:
			if strings.TrimSpace(lit) == "" {
				continue
			}
			// Keywords of the base grammar come back as their own tokens but
			// keep the source spelling; to this grammar they are plain words.
			if isWord(lit) {
				t.Kind = TokenWord
			} else {
				t.Kind = TokenIllegal
			}
		}
		tokens = append(tokens, t)
	}
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isWord(lit string) bool {
	if lit == "" {
		return false
	}
	for i, r := range lit {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}

// normalize prepares statement text for the scanner. Comments are blanked
// out with spaces, and identifiers quoted with a dialect specific quote are
// rewritten into double quotes. The scanner ends a bare word at the first
// non-ASCII rune, so bare words holding non-ASCII letters are double quoted
// too and recorded with quote 0. The original quote of every quoted
// identifier is returned in order of appearance.
func normalize(text string, d Dialect) (string, []rune) {
	var (
		sb     strings.Builder
		quotes []rune
	)
	sb.Grow(len(text))

	rs := []rune(text)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '\'':
			i = copyQuoted(&sb, rs, i, '\'')
		case r == '"':
			quotes = append(quotes, '"')
			i = copyQuoted(&sb, rs, i, '"')
		case r != '"' && d.IsIdentifierQuote(r):
			quotes = append(quotes, r)
			i = requote(&sb, rs, i, r)
		case r == '-' && i+1 < len(rs) && rs[i+1] == '-':
			for ; i < len(rs) && rs[i] != '\n'; i++ {
				sb.WriteByte(' ')
			}
			if i < len(rs) {
				sb.WriteRune('\n')
			}
		case r == '/' && i+1 < len(rs) && rs[i+1] == '*':
			sb.WriteString("  ")
			i += 2
			for ; i < len(rs); i++ {
				if rs[i] == '*' && i+1 < len(rs) && rs[i+1] == '/' {
					sb.WriteString("  ")
					i++
					break
				}
				blank(&sb, rs[i])
			}
		case (r == '_' || unicode.IsLetter(r)) && (i == 0 || !isWordRune(rs[i-1])):
			i = copyWord(&sb, rs, i, &quotes)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String(), quotes
}

// copyQuoted copies a quoted run starting at rs[start] verbatim and returns
// the index of its closing quote, or the last index when unterminated.
func copyQuoted(sb *strings.Builder, rs []rune, start int, q rune) int {
	sb.WriteRune(q)
	for i := start + 1; i < len(rs); i++ {
		sb.WriteRune(rs[i])
		if rs[i] != q {
			continue
		}
		if i+1 < len(rs) && rs[i+1] == q {
			sb.WriteRune(q)
			i++
			continue
		}
		return i
	}
	return len(rs) - 1
}

// copyWord copies the bare word starting at rs[start] and returns the index
// of its last rune.
func copyWord(sb *strings.Builder, rs []rune, start int, quotes *[]rune) int {
	end, ascii := start, true
	for ; end < len(rs) && isWordRune(rs[end]); end++ {
		if rs[end] >= utf8.RuneSelf {
			ascii = false
		}
	}
	if ascii {
		sb.WriteString(string(rs[start:end]))
		return end - 1
	}
	*quotes = append(*quotes, 0)
	sb.WriteRune('"')
	sb.WriteString(string(rs[start:end]))
	sb.WriteRune('"')
	return end - 1
}

// requote rewrites an identifier quoted with q into double quotes.
// An unterminated identifier is left unterminated so the scanner rejects it.
func requote(sb *strings.Builder, rs []rune, start int, q rune) int {
	sb.WriteRune('"')
	for i := start + 1; i < len(rs); i++ {
		switch {
		case rs[i] == q && i+1 < len(rs) && rs[i+1] == q:
			sb.WriteRune(q)
			i++
		case rs[i] == q:
			sb.WriteRune('"')
			return i
		case rs[i] == '"':
			sb.WriteString(`""`)
		default:
			sb.WriteRune(rs[i])
		}
	}
	return len(rs) - 1
}

func blank(sb *strings.Builder, r rune) {
	if r == '\n' {
		sb.WriteRune('\n')
		return
	}
	sb.WriteByte(' ')
}
