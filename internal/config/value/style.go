package value

import (
	"fmt"
	"strings"
)

// SyntaxStyle is the rendering rule for one token category.
type SyntaxStyle struct {
	Color  Color
	Italic bool
	Bold   bool
}

// Unset reports whether the style carries no color.
func (s SyntaxStyle) Unset() bool {
	return !s.Color.Valid()
}

// String returns "color[,bold][,italic]".
func (s SyntaxStyle) String() string {
	var b strings.Builder
	b.WriteString(s.Color.String())
	if s.Bold {
		b.WriteString(",bold")
	}
	if s.Italic {
		b.WriteString(",italic")
	}
	return b.String()
}

// ParseSyntaxStyle parses the form produced by String.
func ParseSyntaxStyle(s string) (SyntaxStyle, error) {
	parts := strings.Split(s, ",")
	c, err := ParseColor(parts[0])
	if err != nil {
		return SyntaxStyle{}, err
	}
	style := SyntaxStyle{Color: c}
	for _, flag := range parts[1:] {
		switch strings.ToLower(strings.TrimSpace(flag)) {
		case "bold":
			style.Bold = true
		case "italic":
			style.Italic = true
		case "":
		default:
			return SyntaxStyle{}, fmt.Errorf("invalid style flag %q", flag)
		}
	}
	return style, nil
}

// Token identifies a syntax highlighting category.
type Token int

// Token categories produced by the source tokenizer.
const (
	TokenNull Token = iota
	TokenComment1
	TokenComment2
	TokenLiteral1
	TokenLiteral2
	TokenLabel
	TokenKeyword1
	TokenKeyword2
	TokenKeyword3
	TokenOperator
	TokenInvalid
	TokenMacroArg

	// TokenCount is the number of token categories.
	TokenCount = int(iota)
)

var tokenNames = [...]string{
	"null", "comment1", "comment2", "literal1", "literal2", "label",
	"keyword1", "keyword2", "keyword3", "operator", "invalid", "macroArg",
}

// String returns the token name.
func (t Token) String() string {
	if t >= 0 && int(t) < len(tokenNames) {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", int(t))
}
