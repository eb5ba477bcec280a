package transform

import (
	"fmt"
	"regexp"
	"strings"
)

// Pre-transformation safety checks over recognized argument strings. A
// rejected construct is emitted as a comment preserving the original line
// and recorded as E_UNSAFE_ARG.

const (
	maxArgLength        = 4096
	maxIdentifierLength = 256
)

// forbiddenFragments are substrings never allowed inside captured groups.
var forbiddenFragments = []string{"exec", "__import__", "`", "\x00"}

var identifierRe = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)

// checkArg validates one captured group. A nil return means safe.
func checkArg(arg string) error {
	if len(arg) > maxArgLength {
		return fmt.Errorf("argument exceeds %d characters", maxArgLength)
	}
	for _, frag := range forbiddenFragments {
		if strings.Contains(arg, frag) {
			printable := frag
			if frag == "\x00" {
				printable = "NUL"
			}
			return fmt.Errorf("argument contains forbidden %q", printable)
		}
	}
	for _, ident := range identifierRe.FindAllString(arg, -1) {
		if len(ident) > maxIdentifierLength {
			return fmt.Errorf("identifier exceeds %d characters", maxIdentifierLength)
		}
	}
	return nil
}

// checkGroups validates every captured group of a matched construct.
func checkGroups(groups []string) error {
	for _, g := range groups[1:] {
		if err := checkArg(g); err != nil {
			return err
		}
	}
	return nil
}
