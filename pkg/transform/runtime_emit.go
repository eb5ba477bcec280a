package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jihwankim/kinda-lang/pkg/construct"
)

// EmitRuntime assembles the kinda/runtime.py module for a transformed
// program: the shared personality preamble plus the bodies of exactly the
// used helpers and their transitive body dependencies, in stable order.
func EmitRuntime(usedHelpers []string) (string, error) {
	closure := construct.HelperClosure(usedHelpers)
	sort.Strings(closure)

	var out strings.Builder
	out.WriteString("# Generated by kinda transform. Do not edit.\n")
	out.WriteString(construct.RuntimePreamble)
	for _, h := range closure {
		body, ok := construct.RuntimeBody(h)
		if !ok {
			return "", fmt.Errorf("no runtime body for helper %q", h)
		}
		out.WriteString("\n\n")
		out.WriteString(body)
	}
	return out.String(), nil
}
