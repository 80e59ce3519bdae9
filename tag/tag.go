// ----------------------------------------------------------------------------
// FILE: tag/tag.go
// ----------------------------------------------------------------------------
// PACKAGE: tag
// PURPOSE: Component B, the tagger. Classifies the flat token.Token stream
//          produced by package lexer into a flat []Tag stream: one typed,
//          discriminated record per token, ready for the parser to walk.
//          Every tagType spec names, and its exact payload, is represented
//          as one field on a single Tag struct (a statically typed stand-in
//          for the source tagger's per-type dict-of-vals).
// ----------------------------------------------------------------------------
package tag

import (
	"fmt"
	"strconv"

	"github.com/cstuartroe/goteko/token"
)

// Type enumerates every tagType the tagger produces.
type Type int

const (
	Label Type = iota
	StringTag
	IntTag
	RealTag
	BoolTag
	If
	Else
	For
	While
	In
	Let
	Class
	Visibility
	Semicolon
	Colon
	Comma
	QMark
	Bang
	Dot
	Open
	Close
	LAngle
	RAngle
	BinOp
	Setter
	Comparison
	Conversion
)

func (t Type) String() string {
	switch t {
	case Label:
		return "LabelTag"
	case StringTag:
		return "StringTag"
	case IntTag:
		return "IntTag"
	case RealTag:
		return "RealTag"
	case BoolTag:
		return "BoolTag"
	case If:
		return "IfTag"
	case Else:
		return "ElseTag"
	case For:
		return "ForTag"
	case While:
		return "WhileTag"
	case In:
		return "InTag"
	case Let:
		return "LetTag"
	case Class:
		return "ClassTag"
	case Visibility:
		return "VisibilityTag"
	case Semicolon:
		return "SemicolonTag"
	case Colon:
		return "ColonTag"
	case Comma:
		return "CommaTag"
	case QMark:
		return "QMarkTag"
	case Bang:
		return "BangTag"
	case Dot:
		return "DotTag"
	case Open:
		return "OpenTag"
	case Close:
		return "CloseTag"
	case LAngle:
		return "LAngleTag"
	case RAngle:
		return "RAngleTag"
	case BinOp:
		return "BinOpTag"
	case Setter:
		return "SetterTag"
	case Comparison:
		return "ComparisonTag"
	case Conversion:
		return "ConversionTag"
	}
	return "UnknownTag"
}

// Brace distinguishes which of the four brace families an Open/Close tag
// belongs to.
type Brace int

const (
	Paren Brace = iota
	Curly
	Square
	AngleBrace
)

var openLiterals = map[Brace]string{Paren: "(", Curly: "{", Square: "[", AngleBrace: "<"}
var closeLiterals = map[Brace]string{Paren: ")", Curly: "}", Square: "]", AngleBrace: ">"}

// Visibility distinguishes the four field-visibility keywords.
type Visib int

const (
	Public Visib = iota
	Protected
	Private
	Readonly
)

// Tag is one classified token: a Type discriminator plus whichever of
// the payload fields that Type uses. Unused fields are simply left at
// their zero value - the Type tells a reader which ones are meaningful,
// exactly as the source tagger's tagTypes table enumerates one fixed set
// of value keys per tagType.
type Tag struct {
	Type       Type
	Token      token.Token
	Label      string
	Str        string
	Int        int64
	Real       float64
	Bool       bool
	Brace      Brace
	BinOp      string
	Setter     string
	Comparison string
	Conversion string
	Visibility Visib
}

func (t Tag) Line() int { return t.Token.Line }

var staticTags = map[string]Type{
	";": Semicolon, ",": Comma, "?": QMark, ":": Colon, "!": Bang,
	"if": If, "else": Else, "for": For, "while": While, "in": In,
	"let": Let, "class": Class,
}

var visibilities = map[string]Visib{
	"public": Public, "protected": Protected, "private": Private, "readonly": Readonly,
}

var binops = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "^": true, "%": true,
	"&&": true, "||": true, ":": true,
}

var setters = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "^=": true, "%=": true,
}

var comparisons = map[string]bool{
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true, "<:": true,
}

var conversions = map[string]bool{
	".": true, "$": true, "[]": true, "{}": true, "<>": true,
}

// escapeSeqs maps a two-byte escape sequence (as it appears literally in
// source, backslash included) to the single rune it represents. Teko
// supports one more escape than the distilled spec text names (\') -
// supplemented from the original tagger's ESCAPE_SEQS table.
var escapeSeqs = map[string]rune{
	`\"`: '"', `\n`: '\n', `\'`: '\'', `\t`: '\t', `\\`: '\\',
}

// digestString un-escapes a raw string token's literal (which still
// carries its delimiting quotes and un-decoded backslash escapes) into
// the literal string value it denotes.
func digestString(tok token.Token) (string, error) {
	s := tok.Literal
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("Teko interpreter exception (line %d): malformed string literal", tok.Line)
	}
	body := s[1 : len(s)-1]
	var out []rune
	i := 0
	for i < len(body) {
		if body[i] == '\\' && i+1 < len(body) {
			if r, ok := escapeSeqs[body[i:i+2]]; ok {
				out = append(out, r)
				i += 2
				continue
			}
		}
		out = append(out, rune(body[i]))
		i++
	}
	return string(out), nil
}

// GetTags classifies a flat token stream into a flat tag stream, in the
// exact dispatch order the source tagger uses: static keyword/punct
// tags first, then visibility words, then brace/angle/dot punctuation,
// then the four operator-class sets, then literal fallbacks.
func GetTags(tokens []token.Token) ([]Tag, error) {
	tags := make([]Tag, 0, len(tokens))
	for _, tok := range tokens {
		s := tok.Literal

		switch {
		case staticTagOf(s, tok, &tags):
			continue
		case visibilityTagOf(s, tok, &tags):
			continue
		}

		switch s {
		case "(":
			tags = append(tags, Tag{Type: Open, Token: tok, Brace: Paren})
			continue
		case ")":
			tags = append(tags, Tag{Type: Close, Token: tok, Brace: Paren})
			continue
		case "{":
			tags = append(tags, Tag{Type: Open, Token: tok, Brace: Curly})
			continue
		case "}":
			tags = append(tags, Tag{Type: Close, Token: tok, Brace: Curly})
			continue
		case "[":
			tags = append(tags, Tag{Type: Open, Token: tok, Brace: Square})
			continue
		case "]":
			tags = append(tags, Tag{Type: Close, Token: tok, Brace: Square})
			continue
		case "<":
			tags = append(tags, Tag{Type: LAngle, Token: tok})
			continue
		case ">":
			tags = append(tags, Tag{Type: RAngle, Token: tok})
			continue
		case ".":
			tags = append(tags, Tag{Type: Dot, Token: tok})
			continue
		}

		switch {
		case binops[s]:
			tags = append(tags, Tag{Type: BinOp, Token: tok, BinOp: s})
			continue
		case setters[s]:
			tags = append(tags, Tag{Type: Setter, Token: tok, Setter: s})
			continue
		case comparisons[s]:
			tags = append(tags, Tag{Type: Comparison, Token: tok, Comparison: s})
			continue
		case conversions[s]:
			tags = append(tags, Tag{Type: Conversion, Token: tok, Conversion: s})
			continue
		}

		switch s {
		case "true":
			tags = append(tags, Tag{Type: BoolTag, Token: tok, Bool: true})
			continue
		case "false":
			tags = append(tags, Tag{Type: BoolTag, Token: tok, Bool: false})
			continue
		}

		if len(s) > 0 && s[0] == '"' {
			str, err := digestString(tok)
			if err != nil {
				return nil, err
			}
			tags = append(tags, Tag{Type: StringTag, Token: tok, Str: str})
			continue
		}

		if len(s) > 0 && isAlpha(rune(s[0])) {
			tags = append(tags, Tag{Type: Label, Token: tok, Label: s})
			continue
		}

		if len(s) > 0 && isDigit(rune(s[0])) {
			if containsDot(s) {
				f, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return nil, fmt.Errorf("Teko interpreter exception (line %d): invalid real literal %q", tok.Line, s)
				}
				tags = append(tags, Tag{Type: RealTag, Token: tok, Real: f})
			} else {
				n, err := strconv.ParseInt(s, 10, 64)
				if err != nil {
					return nil, fmt.Errorf("Teko interpreter exception (line %d): invalid int literal %q", tok.Line, s)
				}
				tags = append(tags, Tag{Type: IntTag, Token: tok, Int: n})
			}
			continue
		}

		return nil, fmt.Errorf("Teko interpreter exception (line %d): unreadable token: %s", tok.Line, s)
	}
	return tags, nil
}

func staticTagOf(s string, tok token.Token, tags *[]Tag) bool {
	if typ, ok := staticTags[s]; ok {
		*tags = append(*tags, Tag{Type: typ, Token: tok})
		return true
	}
	return false
}

func visibilityTagOf(s string, tok token.Token, tags *[]Tag) bool {
	if v, ok := visibilities[s]; ok {
		*tags = append(*tags, Tag{Type: Visibility, Token: tok, Visibility: v})
		return true
	}
	return false
}

func isAlpha(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func containsDot(s string) bool {
	for _, c := range s {
		if c == '.' {
			return true
		}
	}
	return false
}

// OpenLiteral and CloseLiteral render the opening/closing punctuation for a Brace, for
// use in diagnostics and in Tag.String().
func (b Brace) OpenLiteral() string  { return openLiterals[b] }
func (b Brace) CloseLiteral() string { return closeLiterals[b] }

func (t Tag) String() string {
	switch t.Type {
	case Label:
		return "<LabelTag " + t.Label + " >"
	case StringTag:
		return "<StringTag \"" + t.Str + "\" >"
	case IntTag:
		return fmt.Sprintf("<IntTag %d >", t.Int)
	case RealTag:
		return fmt.Sprintf("<RealTag %v >", t.Real)
	case BoolTag:
		return fmt.Sprintf("<BoolTag %v >", t.Bool)
	case BinOp:
		return "<BinOpTag " + t.BinOp + " >"
	case Setter:
		return "<SetterTag " + t.Setter + " >"
	case Comparison:
		return "<ComparisonTag " + t.Comparison + " >"
	case Conversion:
		return "<ConversionTag " + t.Conversion + " >"
	case Open:
		return "<OpenTag " + t.Brace.OpenLiteral() + " >"
	case Close:
		return "<CloseTag " + t.Brace.CloseLiteral() + " >"
	default:
		return "<" + t.Type.String() + " >"
	}
}
