// ----------------------------------------------------------------------------
// FILE: tag/tag_unit_test.go
// ----------------------------------------------------------------------------
// PURPOSE: Validates GetTags classifies tokens into the right tagType per
//          the dispatch order documented on GetTags: keywords/visibility
//          first, then braces/angles/dot, then the four operator-class
//          sets, then literal fallbacks.
// ----------------------------------------------------------------------------
package tag

import (
	"testing"

	"github.com/cstuartroe/goteko/lexer"
)

func getTagsFor(t *testing.T, src string) []Tag {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize(%q) error: %v", src, err)
	}
	tags, err := GetTags(toks)
	if err != nil {
		t.Fatalf("GetTags(%q) error: %v", src, err)
	}
	return tags
}

func TestGetTags_Keywords(t *testing.T) {
	tags := getTagsFor(t, "if else for while in let class")
	want := []Type{If, Else, For, While, In, Let, Class}
	if len(tags) != len(want) {
		t.Fatalf("got %d tags, want %d", len(tags), len(want))
	}
	for i, w := range want {
		if tags[i].Type != w {
			t.Errorf("tag %d = %v, want %v", i, tags[i].Type, w)
		}
	}
}

func TestGetTags_Visibility(t *testing.T) {
	tags := getTagsFor(t, "public protected private readonly")
	want := []Visib{Public, Protected, Private, Readonly}
	for i, w := range want {
		if tags[i].Type != Visibility {
			t.Fatalf("tag %d type = %v, want VisibilityTag", i, tags[i].Type)
		}
		if tags[i].Visibility != w {
			t.Errorf("tag %d visibility = %v, want %v", i, tags[i].Visibility, w)
		}
	}
}

func TestGetTags_Braces(t *testing.T) {
	tags := getTagsFor(t, "( ) { } [ ]")
	wantType := []Type{Open, Close, Open, Close, Open, Close}
	wantBrace := []Brace{Paren, Paren, Curly, Curly, Square, Square}
	for i := range wantType {
		if tags[i].Type != wantType[i] {
			t.Errorf("tag %d type = %v, want %v", i, tags[i].Type, wantType[i])
		}
		if tags[i].Brace != wantBrace[i] {
			t.Errorf("tag %d brace = %v, want %v", i, tags[i].Brace, wantBrace[i])
		}
	}
}

func TestGetTags_BareAngleIsNeutral(t *testing.T) {
	tags := getTagsFor(t, "< >")
	if tags[0].Type != LAngle {
		t.Errorf("first tag = %v, want LAngleTag", tags[0].Type)
	}
	if tags[1].Type != RAngle {
		t.Errorf("second tag = %v, want RAngleTag", tags[1].Type)
	}
}

func TestGetTags_OperatorClasses(t *testing.T) {
	tags := getTagsFor(t, "+ == = <: $ .")
	wantType := []Type{BinOp, Comparison, Setter, Comparison, Conversion, Dot}
	for i, w := range wantType {
		if tags[i].Type != w {
			t.Errorf("tag %d type = %v, want %v", i, tags[i].Type, w)
		}
	}
}

func TestGetTags_StringEscapes(t *testing.T) {
	tags := getTagsFor(t, `"line1\nline2\ttab\\backslash"`)
	if tags[0].Type != StringTag {
		t.Fatalf("tag type = %v, want StringTag", tags[0].Type)
	}
	want := "line1\nline2\ttab\\backslash"
	if tags[0].Str != want {
		t.Errorf("Str = %q, want %q", tags[0].Str, want)
	}
}

func TestGetTags_IntAndRealLiterals(t *testing.T) {
	tags := getTagsFor(t, "42 3.5")
	if tags[0].Type != IntTag || tags[0].Int != 42 {
		t.Errorf("first tag = %+v, want IntTag 42", tags[0])
	}
	if tags[1].Type != RealTag || tags[1].Real != 3.5 {
		t.Errorf("second tag = %+v, want RealTag 3.5", tags[1])
	}
}

func TestGetTags_BoolAndLabel(t *testing.T) {
	tags := getTagsFor(t, "true false myVar")
	if tags[0].Type != BoolTag || tags[0].Bool != true {
		t.Errorf("first tag = %+v, want BoolTag true", tags[0])
	}
	if tags[1].Type != BoolTag || tags[1].Bool != false {
		t.Errorf("second tag = %+v, want BoolTag false", tags[1])
	}
	if tags[2].Type != Label || tags[2].Label != "myVar" {
		t.Errorf("third tag = %+v, want Label myVar", tags[2])
	}
}
