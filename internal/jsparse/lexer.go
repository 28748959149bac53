package jsparse

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tEOF tokenKind = iota
	tName
	tNumber
	tString
	tNoSubTemplate
	tTemplateHead
	tTemplateMiddle
	tTemplateTail
	tRegExp
	tPunct
	tPrivateName
	tJSXText
)

// token is one lexical token. Value holds the identifier name, the decoded
// string value, the punctuator text or the raw template segment.
type token struct {
	kind     tokenKind
	value    string
	raw      string
	start    int
	end      int
	nlBefore bool
}

func (t token) is(punct string) bool {
	return t.kind == tPunct && t.value == punct
}

func (t token) isName(name string) bool {
	return t.kind == tName && t.value == name
}

// punctuators ordered longest first.
var punctuators = []string{
	">>>=",
	"...", "===", "!==", "**=", "<<=", ">>=", ">>>", "&&=", "||=", "??=",
	"=>", "==", "!=", "<=", ">=", "&&", "||", "??", "?.", "++", "--",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "**", "<<", ">>",
	"{", "}", "(", ")", "[", "]", ";", ",", "<", ">", "+", "-", "*", "/",
	"%", "&", "|", "^", "!", "~", "?", ":", "=", ".", "@",
}

// lexer scans source text on demand. It is a plain value so the parser can
// snapshot and restore it for lookahead.
type lexer struct {
	src string
	pos int
}

func newLexer(src string) lexer {
	return lexer{src: src}
}

func (l *lexer) fail(pos int, format string, args ...any) {
	line, col := l.position(pos)
	panic(&SyntaxError{Line: line, Column: col, Message: fmt.Sprintf(format, args...)})
}

// position computes the 1-based line and column of a byte offset.
func (l *lexer) position(pos int) (int, int) {
	if pos > len(l.src) {
		pos = len(l.src)
	}
	line := 1 + strings.Count(l.src[:pos], "\n")
	lineStart := strings.LastIndexByte(l.src[:pos], '\n') + 1
	return line, utf8.RuneCountInString(l.src[lineStart:pos]) + 1
}

func (l *lexer) peekByte(off int) byte {
	if l.pos+off < len(l.src) {
		return l.src[l.pos+off]
	}
	return 0
}

// skipSpace skips whitespace and comments and reports whether a line
// terminator was crossed.
func (l *lexer) skipSpace() bool {
	nl := false
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\n' || c == '\r':
			nl = true
			l.pos++
		case c == ' ' || c == '\t' || c == '\f' || c == '\v':
			l.pos++
		case c == '/' && l.peekByte(1) == '/':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == '/' && l.peekByte(1) == '*':
			end := strings.Index(l.src[l.pos+2:], "*/")
			if end < 0 {
				l.fail(l.pos, "unterminated comment")
			}
			if strings.ContainsAny(l.src[l.pos:l.pos+2+end], "\n\r") {
				nl = true
			}
			l.pos += end + 4
		case c >= utf8.RuneSelf:
			r, size := utf8.DecodeRuneInString(l.src[l.pos:])
			if r == '\u2028' || r == '\u2029' {
				nl = true
			} else if !unicode.IsSpace(r) && r != '\uFEFF' {
				return nl
			}
			l.pos += size
		default:
			return nl
		}
	}
	return nl
}

func (l *lexer) makeToken(kind tokenKind, start int, value string, nl bool) token {
	return token{
		kind:     kind,
		value:    value,
		raw:      l.src[start:l.pos],
		start:    start,
		end:      l.pos,
		nlBefore: nl,
	}
}

// next scans one token in regular expression-free mode. The parser asks
// for a regexp rescan when a slash appears in operand position.
func (l *lexer) next() token {
	nl := l.skipSpace()
	start := l.pos
	if l.pos >= len(l.src) {
		return l.makeToken(tEOF, start, "", nl)
	}
	c := l.src[l.pos]
	switch {
	case isIdentStart(c) || c >= utf8.RuneSelf || c == '\\':
		name := l.scanIdent()
		if name == "" {
			l.fail(start, "unexpected character")
		}
		return l.makeToken(tName, start, name, nl)
	case c == '#':
		l.pos++
		name := l.scanIdent()
		return l.makeToken(tPrivateName, start, "#"+name, nl)
	case isDigit(c) || (c == '.' && isDigit(l.peekByte(1))):
		l.scanNumber()
		return l.makeToken(tNumber, start, l.src[start:l.pos], nl)
	case c == '"' || c == '\'':
		value := l.scanString(c)
		return l.makeToken(tString, start, value, nl)
	case c == '`':
		l.pos++
		kind, raw := l.scanTemplate(true)
		return l.makeToken(kind, start, raw, nl)
	}
	for _, p := range punctuators {
		if strings.HasPrefix(l.src[l.pos:], p) {
			if p == "?." && isDigit(l.peekByte(2)) {
				continue
			}
			l.pos += len(p)
			return l.makeToken(tPunct, start, p, nl)
		}
	}
	l.fail(start, "unexpected character %q", c)
	return token{}
}

func isIdentStart(c byte) bool {
	return c == '$' || c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func (l *lexer) scanIdent() string {
	var b strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case isIdentPart(c):
			b.WriteByte(c)
			l.pos++
		case c == '\\':
			if l.peekByte(1) != 'u' {
				l.fail(l.pos, "invalid identifier escape")
			}
			l.pos += 2
			b.WriteRune(l.scanUnicodeEscape())
		case c >= utf8.RuneSelf:
			r, size := utf8.DecodeRuneInString(l.src[l.pos:])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.Is(unicode.Mn, r) && !unicode.Is(unicode.Mc, r) && r != '\u200c' && r != '\u200d' {
				return b.String()
			}
			b.WriteRune(r)
			l.pos += size
		default:
			return b.String()
		}
	}
	return b.String()
}

// scanUnicodeEscape reads the part after `\u`: either four hex digits or a
// braced code point.
func (l *lexer) scanUnicodeEscape() rune {
	if l.peekByte(0) == '{' {
		end := strings.IndexByte(l.src[l.pos:], '}')
		if end < 0 {
			l.fail(l.pos, "unterminated unicode escape")
		}
		v, err := strconv.ParseUint(l.src[l.pos+1:l.pos+end], 16, 32)
		if err != nil {
			l.fail(l.pos, "invalid unicode escape")
		}
		l.pos += end + 1
		return rune(v)
	}
	if l.pos+4 > len(l.src) {
		l.fail(l.pos, "invalid unicode escape")
	}
	v, err := strconv.ParseUint(l.src[l.pos:l.pos+4], 16, 32)
	if err != nil {
		l.fail(l.pos, "invalid unicode escape")
	}
	l.pos += 4
	return rune(v)
}

func (l *lexer) scanNumber() {
	if l.src[l.pos] == '0' && l.pos+1 < len(l.src) && strings.ContainsRune("xXoObB", rune(l.src[l.pos+1])) {
		l.pos += 2
		for l.pos < len(l.src) && (isHex(l.src[l.pos]) || l.src[l.pos] == '_') {
			l.pos++
		}
	} else {
		for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
			l.pos++
		}
		if l.peekByte(0) == '.' {
			l.pos++
			for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
				l.pos++
			}
		}
		if c := l.peekByte(0); c == 'e' || c == 'E' {
			l.pos++
			if c := l.peekByte(0); c == '+' || c == '-' {
				l.pos++
			}
			for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
				l.pos++
			}
		}
	}
	if l.peekByte(0) == 'n' {
		l.pos++
	}
	if l.pos < len(l.src) && isIdentStart(l.src[l.pos]) {
		l.fail(l.pos, "identifier directly after number")
	}
}

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// scanString scans a quoted string and returns its decoded value.
func (l *lexer) scanString(quote byte) string {
	start := l.pos
	l.pos++
	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			l.fail(start, "unterminated string literal")
		}
		c := l.src[l.pos]
		switch c {
		case quote:
			l.pos++
			return b.String()
		case '\n', '\r':
			l.fail(start, "unterminated string literal")
		case '\\':
			l.pos++
			l.scanEscape(&b)
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
}

func (l *lexer) scanEscape(b *strings.Builder) {
	if l.pos >= len(l.src) {
		l.fail(l.pos, "unterminated escape sequence")
	}
	c := l.src[l.pos]
	l.pos++
	switch c {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case '0':
		b.WriteByte(0)
	case 'x':
		if l.pos+2 > len(l.src) {
			l.fail(l.pos, "invalid hex escape")
		}
		v, err := strconv.ParseUint(l.src[l.pos:l.pos+2], 16, 8)
		if err != nil {
			l.fail(l.pos, "invalid hex escape")
		}
		l.pos += 2
		b.WriteRune(rune(v))
	case 'u':
		b.WriteRune(l.scanUnicodeEscape())
	case '\r':
		if l.peekByte(0) == '\n' {
			l.pos++
		}
	case '\n':
	default:
		l.pos--
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		b.WriteRune(r)
		l.pos += size
	}
}

// scanTemplate scans template text after a backtick or a closing brace and
// returns the token kind and the raw text segment.
func (l *lexer) scanTemplate(head bool) (tokenKind, string) {
	start := l.pos
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\\':
			l.pos += 2
		case c == '`':
			raw := l.src[start:l.pos]
			l.pos++
			if head {
				return tNoSubTemplate, raw
			}
			return tTemplateTail, raw
		case c == '$' && l.peekByte(1) == '{':
			raw := l.src[start:l.pos]
			l.pos += 2
			if head {
				return tTemplateHead, raw
			}
			return tTemplateMiddle, raw
		default:
			l.pos++
		}
	}
	l.fail(start, "unterminated template literal")
	return tEOF, ""
}

// rescanTemplate continues a template literal from the closing brace of a
// substitution.
func (l *lexer) rescanTemplate(brace token) token {
	l.pos = brace.start + 1
	kind, raw := l.scanTemplate(false)
	return l.makeToken(kind, brace.start, raw, brace.nlBefore)
}

// rescanRegExp rescans a slash token as a regular expression literal. The
// value of the returned token is the pattern; raw holds the whole literal.
func (l *lexer) rescanRegExp(slash token) token {
	l.pos = slash.start + 1
	inClass := false
	for {
		if l.pos >= len(l.src) {
			l.fail(slash.start, "unterminated regular expression")
		}
		c := l.src[l.pos]
		switch {
		case c == '\n' || c == '\r':
			l.fail(slash.start, "unterminated regular expression")
		case c == '\\':
			l.pos += 2
			continue
		case c == '[':
			inClass = true
		case c == ']':
			inClass = false
		case c == '/' && !inClass:
			pattern := l.src[slash.start+1 : l.pos]
			l.pos++
			for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
				l.pos++
			}
			return l.makeToken(tRegExp, slash.start, pattern, slash.nlBefore)
		}
		l.pos++
	}
}

// nextJSXTag scans one token inside a JSX tag: names may contain dashes,
// strings carry no escapes, and every other character is a single
// punctuator.
func (l *lexer) nextJSXTag() token {
	nl := l.skipSpace()
	start := l.pos
	if l.pos >= len(l.src) {
		return l.makeToken(tEOF, start, "", nl)
	}
	c := l.src[l.pos]
	switch {
	case isIdentStart(c) || c >= utf8.RuneSelf:
		for l.pos < len(l.src) && (isIdentPart(l.src[l.pos]) || l.src[l.pos] == '-' || l.src[l.pos] >= utf8.RuneSelf) {
			l.pos++
		}
		return l.makeToken(tName, start, l.src[start:l.pos], nl)
	case c == '"' || c == '\'':
		end := strings.IndexByte(l.src[l.pos+1:], c)
		if end < 0 {
			l.fail(start, "unterminated string literal")
		}
		l.pos += end + 2
		return l.makeToken(tString, start, l.src[start+1:l.pos-1], nl)
	}
	l.pos++
	return l.makeToken(tPunct, start, string(c), nl)
}

// nextJSXChild scans element content: raw text up to the next brace or
// angle bracket, or one of those two punctuators.
func (l *lexer) nextJSXChild() token {
	start := l.pos
	if l.pos >= len(l.src) {
		l.fail(start, "unterminated JSX contents")
	}
	if c := l.src[l.pos]; c == '{' || c == '<' {
		l.pos++
		return l.makeToken(tPunct, start, string(c), false)
	}
	for l.pos < len(l.src) && l.src[l.pos] != '{' && l.src[l.pos] != '<' {
		l.pos++
	}
	return l.makeToken(tJSXText, start, l.src[start:l.pos], false)
}
