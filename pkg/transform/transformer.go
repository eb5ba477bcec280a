// Package transform implements the line-oriented kinda-to-host translator:
// construct recognition, inline rewrites, block tracking by brace or
// dedent, helper collection, and runtime module emission.
//
// The transformer is fully deterministic and uses no RNG.
package transform

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jihwankim/kinda-lang/pkg/construct"
	"github.com/jihwankim/kinda-lang/pkg/reporting"
)

// Result is the outcome of one transformation unit.
type Result struct {
	// Output is the emitted host source, prologue included.
	Output string

	// Diagnostics are reported in source-line order.
	Diagnostics []Diagnostic

	// UsedHelpers are the runtime helper names the output references,
	// sorted.
	UsedHelpers []string

	// ExitStatus is 0 iff no error-severity diagnostics were recorded.
	ExitStatus int
}

// HasErrors reports whether any error diagnostics were recorded.
func (r *Result) HasErrors() bool { return r.ExitStatus != 0 }

// Transformer scans kinda source and emits host source. One instance is
// reusable across files; per-unit state lives on the scan.
type Transformer struct {
	registry *construct.Registry
	logger   *reporting.Logger
}

// New creates a transformer over a construct registry.
func New(registry *construct.Registry, logger *reporting.Logger) *Transformer {
	return &Transformer{registry: registry, logger: logger}
}

// frame is one open block context on the scan stack.
type frame struct {
	desc      *construct.Descriptor
	indentLen int
	line      int
}

// scan is the per-compilation-unit state.
type scan struct {
	emitted []string
	used    map[string]bool
	stack   []frame
	diags   []Diagnostic
}

func (s *scan) diag(line, column int, severity Severity, code, message string) {
	s.diags = append(s.diags, Diagnostic{
		Line: line, Column: column, Severity: severity, Code: code, Message: message,
	})
}

var (
	inlineWelpRe     = regexp.MustCompile(`^((?:.*?=\s*)?)(.+?)\s*~welp\s+(.+?)\s*$`)
	inlineIshValueRe = regexp.MustCompile(`^(.*?=\s*)~ish\s+(.+?)\s*$`)
	inlineIshCmpRe   = regexp.MustCompile(`^(.*?)(\S+)\s+~ish\s+(.+?)\s*(:?)$`)
	tildeIdentRe     = regexp.MustCompile(`~([A-Za-z_][A-Za-z0-9_]*)`)
)

// Transform translates kinda source into host source. Line endings are
// normalized to \n; transformation continues past errors with best-effort
// emission.
func (t *Transformer) Transform(src string) *Result {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	if src == "" {
		return &Result{}
	}

	s := &scan{used: make(map[string]bool)}
	lines := strings.Split(src, "\n")

	for i, raw := range lines {
		lineNo := i + 1
		indent := leadingWhitespace(raw)
		rest := strings.TrimRight(raw[len(indent):], " \t")

		if rest == "" {
			s.emitted = append(s.emitted, raw)
			continue
		}

		// Host comments pass through untouched, even when they mention
		// construct names.
		if strings.HasPrefix(rest, "#") {
			s.emitted = append(s.emitted, raw)
			continue
		}

		// Dedent back to (or past) an opener's indentation closes its block.
		for len(s.stack) > 0 {
			top := s.stack[len(s.stack)-1]
			if top.desc.Close == construct.CloseDedent && len(indent) <= top.indentLen {
				s.stack = s.stack[:len(s.stack)-1]
				continue
			}
			break
		}

		// A bare closing brace terminates the innermost brace block. The
		// brace belongs to kinda syntax, so nothing is emitted for it.
		if rest == "}" {
			if len(s.stack) > 0 && s.stack[len(s.stack)-1].desc.Close == construct.CloseBrace {
				s.stack = s.stack[:len(s.stack)-1]
				continue
			}
			s.emitted = append(s.emitted, raw)
			continue
		}

		if t.matchWholeLine(s, lineNo, indent, rest) {
			continue
		}
		if t.rewriteInline(s, lineNo, indent, rest) {
			continue
		}

		// Leftover ~identifier is either a malformed known construct or an
		// unknown one; the line passes through either way.
		if m := tildeIdentRe.FindStringSubmatchIndex(rest); m != nil {
			ident := rest[m[2]:m[3]]
			column := len(indent) + m[0] + 1
			if t.isKnownKeyword(ident) {
				s.diag(lineNo, column, SeverityError, ErrBadPattern,
					fmt.Sprintf("malformed ~%s construct", ident))
			} else {
				s.diag(lineNo, column, SeverityWarning, WarnUnknown,
					fmt.Sprintf("unknown construct ~%s", ident))
			}
		}
		s.emitted = append(s.emitted, raw)
	}

	// Brace blocks must be explicitly closed; dedent blocks close at EOF.
	for _, fr := range s.stack {
		if fr.desc.Close == construct.CloseBrace {
			s.diag(fr.line, 1, SeverityError, ErrBlockUnclosed,
				fmt.Sprintf("~%s block opened here is never closed", fr.desc.Name))
		}
	}

	return t.assemble(s)
}

// matchWholeLine attempts full-line construct matching in priority order.
// Inline expression forms are excluded; they are rewrites, not whole-line
// statements.
func (t *Transformer) matchWholeLine(s *scan, lineNo int, indent, rest string) bool {
	for _, d := range t.registry.ByPriority() {
		if d.Kind == construct.KindExpression {
			continue
		}
		m := d.Pattern.FindStringSubmatch(rest)
		if m == nil {
			continue
		}
		if err := checkGroups(m); err != nil {
			s.diag(lineNo, len(indent)+1, SeverityError, ErrUnsafeArg,
				fmt.Sprintf("~%s: %v", d.Name, err))
			s.emitted = append(s.emitted, indent+"# "+rest)
			return true
		}
		for _, line := range d.Expand(m) {
			s.emitted = append(s.emitted, indent+line)
		}
		for _, h := range d.Helpers {
			s.used[h] = true
		}
		if d.Close != construct.CloseNone {
			s.stack = append(s.stack, frame{desc: d, indentLen: len(indent), line: lineNo})
		}
		if t.logger != nil {
			t.logger.Debug("matched construct", "construct", d.Name, "line", lineNo)
		}
		return true
	}
	return false
}

// rewriteInline applies the expression rewrites (~welp, ~ish value, ~ish
// comparison) to a line no whole-line construct claimed.
func (t *Transformer) rewriteInline(s *scan, lineNo int, indent, rest string) bool {
	out := rest
	var helpers []string

	if strings.Contains(out, "~welp") {
		if m := inlineWelpRe.FindStringSubmatch(out); m != nil {
			if err := checkGroups(m); err != nil {
				s.diag(lineNo, len(indent)+1, SeverityError, ErrUnsafeArg, fmt.Sprintf("~welp: %v", err))
				s.emitted = append(s.emitted, indent+"# "+rest)
				return true
			}
			out = m[1] + "welp(lambda: " + m[2] + ", " + m[3] + ")"
			helpers = append(helpers, "welp")
		}
	}

	if strings.Contains(out, "~ish") {
		// Assignment form only when ~ish directly follows "="; everywhere
		// else ~ish is a comparison.
		if m := inlineIshValueRe.FindStringSubmatch(out); m != nil {
			if err := checkGroups(m); err != nil {
				s.diag(lineNo, len(indent)+1, SeverityError, ErrUnsafeArg, fmt.Sprintf("~ish: %v", err))
				s.emitted = append(s.emitted, indent+"# "+rest)
				return true
			}
			out = m[1] + "ish_value(" + m[2] + ")"
			helpers = append(helpers, "ish_value")
		} else if m := inlineIshCmpRe.FindStringSubmatch(out); m != nil {
			if err := checkGroups(m); err != nil {
				s.diag(lineNo, len(indent)+1, SeverityError, ErrUnsafeArg, fmt.Sprintf("~ish: %v", err))
				s.emitted = append(s.emitted, indent+"# "+rest)
				return true
			}
			out = m[1] + "ish_comparison(" + m[2] + ", " + m[3] + ")" + m[4]
			helpers = append(helpers, "ish_comparison")
		}
	}

	if out == rest {
		return false
	}
	s.emitted = append(s.emitted, indent+out)
	for _, h := range helpers {
		s.used[h] = true
	}
	return true
}

// isKnownKeyword reports whether ident names a registered construct or one
// of the multi-word construct prefixes.
func (t *Transformer) isKnownKeyword(ident string) bool {
	if _, ok := t.registry.Get(ident); ok {
		return true
	}
	switch ident {
	case "kinda", "sorta", "ish", "welp":
		return true
	}
	return false
}

// assemble builds the final Result: one import line per used helper, in
// stable order, then the body.
func (t *Transformer) assemble(s *scan) *Result {
	helpers := make([]string, 0, len(s.used))
	for h := range s.used {
		helpers = append(helpers, h)
	}
	sort.Strings(helpers)

	var out strings.Builder
	if len(helpers) > 0 {
		out.WriteString("from kinda.runtime import ")
		out.WriteString(strings.Join(helpers, ", "))
		out.WriteString("\n")
	}
	out.WriteString(strings.Join(s.emitted, "\n"))

	exit := 0
	for _, d := range s.diags {
		if d.IsError() {
			exit = 1
			break
		}
	}
	return &Result{
		Output:      out.String(),
		Diagnostics: s.diags,
		UsedHelpers: helpers,
		ExitStatus:  exit,
	}
}

// leadingWhitespace returns the indentation prefix of a line.
func leadingWhitespace(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return line[:i]
		}
	}
	return line
}
