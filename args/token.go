package args

import "regexp"

var (
	longFlagPattern  = regexp.MustCompile(`^--([\w-]+)$`)
	shortFlagPattern = regexp.MustCompile(`^-(\w+)$`)
	bareWordPattern  = regexp.MustCompile(`^(\w+)$`)
)

// Kind classifies a raw argument.
type Kind int

const (
	// Text is any token that is not a flag. It may still become a value.
	Text Kind = iota
	// LongFlag is --name.
	LongFlag
	// ShortFlag is -name.
	ShortFlag
	// BareWord is a plain identifier such as help.
	BareWord
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case LongFlag:
		return "long-flag"
	case ShortFlag:
		return "short-flag"
	case BareWord:
		return "bare-word"
	default:
		return "text"
	}
}

// Token is one classified raw argument.
//
// Name is the flag name without dashes for flags and bare words.
// Raw is always the untouched input.
type Token struct {
	Kind Kind
	Name string
	Raw  string
}

// IsFlag reports whether the token opens a flag that may take a value.
func (t Token) IsFlag() bool { return t.Kind == LongFlag || t.Kind == ShortFlag }

// Classify matches raw against the flag patterns, long form first.
func Classify(raw string) Token {
	if m := longFlagPattern.FindStringSubmatch(raw); m != nil {
		return Token{Kind: LongFlag, Name: m[1], Raw: raw}
	}
	if m := shortFlagPattern.FindStringSubmatch(raw); m != nil {
		return Token{Kind: ShortFlag, Name: m[1], Raw: raw}
	}
	if m := bareWordPattern.FindStringSubmatch(raw); m != nil {
		return Token{Kind: BareWord, Name: m[1], Raw: raw}
	}
	return Token{Kind: Text, Raw: raw}
}
