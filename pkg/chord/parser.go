package chord

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a parse failure
type ErrorKind int

const (
	// UnrecognizedRoot means the symbol does not start with a note name
	UnrecognizedRoot ErrorKind = iota + 1
)

func (k ErrorKind) String() string {
	switch k {
	case UnrecognizedRoot:
		return "unrecognized root"
	default:
		return "unknown"
	}
}

// ErrUnrecognizedRoot is matched by errors.Is for every UnrecognizedRoot ParseError
var ErrUnrecognizedRoot = errors.New("unrecognized root")

// ParseError reports a chord symbol that could not be parsed
type ParseError struct {
	Symbol string
	Kind   ErrorKind
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid chord format: %q (%s)", e.Symbol, e.Kind)
}

func (e *ParseError) Unwrap() error {
	if e.Kind == UnrecognizedRoot {
		return ErrUnrecognizedRoot
	}
	return nil
}

// Parse decomposes a chord symbol into root, canonical quality and optional bass.
//
// A "/" followed by an extension (9, 11, 13, optionally flat or sharp) is read
// as an added tone rather than a bass note: "C/9" parses as "Cadd9". "6/9" is
// kept together as a quality. When the normalized symbol is in the override
// table the curated voicing is attached and no intervals need deriving.
func Parse(raw string) (Parsed, error) {
	symbol := rewriteSlashExtensions(strings.TrimSpace(raw))

	p := Parsed{Symbol: symbol}
	if v, ok := LookupOverride(symbol); ok {
		p.Override = v
	}

	segments := splitSlashes(symbol)
	main := strings.TrimSpace(segments[0])

	rootName, root, rest, ok := splitRoot(main)
	if !ok {
		if p.HasOverride() {
			return p, nil
		}
		return Parsed{}, &ParseError{Symbol: raw, Kind: UnrecognizedRoot}
	}
	p.Root = root
	p.RootName = rootName
	p.Quality = ResolveAlias(strings.ToLower(rest))

	if len(segments) > 1 {
		if bassName, bass, _, ok := splitRoot(strings.TrimSpace(segments[1])); ok {
			p.Bass = &bass
			p.BassName = bassName
		}
	}

	return p, nil
}

// rewriteSlashExtensions turns "/9"-style added tones into "add9"
func rewriteSlashExtensions(s string) string {
	segments := splitSlashes(s)
	if len(segments) == 1 {
		return s
	}

	base := segments[0]
	var kept []string
	for _, seg := range segments[1:] {
		tok := strings.TrimSpace(seg)
		if !isNoteToken(tok) && isExtensionToken(tok) {
			base += "add" + tok
			continue
		}
		kept = append(kept, seg)
	}

	if len(kept) == 0 {
		return base
	}
	return base + "/" + strings.Join(kept, "/")
}

// splitSlashes splits on "/" except where the slash is part of a "6/9" quality
func splitSlashes(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != '/' || isSixNineSlash(s, i) {
			continue
		}
		out = append(out, s[start:i])
		start = i + 1
	}
	return append(out, s[start:])
}

func isSixNineSlash(s string, i int) bool {
	if i == 0 || s[i-1] != '6' {
		return false
	}
	after := s[i+1:]
	return after == "9" || strings.HasPrefix(after, "9/")
}
