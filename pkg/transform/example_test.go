package transform_test

import (
	"fmt"

	"github.com/jihwankim/kinda-lang/pkg/construct"
	"github.com/jihwankim/kinda-lang/pkg/reporting"
	"github.com/jihwankim/kinda-lang/pkg/transform"
)

// Example demonstrates transforming a small kinda program.
func Example() {
	t := transform.New(construct.Builtin(), reporting.Discard())

	result := t.Transform("~kinda int x = 5\n~sorta print(x)\n")
	fmt.Print(result.Output)

	// Output:
	// from kinda.runtime import kinda_int, sorta_print
	// x = kinda_int(5)
	// sorta_print(x)
}

// Example_blocks shows a probabilistic conditional and loop.
func Example_blocks() {
	t := transform.New(construct.Builtin(), reporting.Discard())

	src := "~sometimes (ready) {\n" +
		"    ~maybe_for item in queue:\n" +
		"        process(item)\n" +
		"}\n"
	result := t.Transform(src)
	fmt.Print(result.Output)

	// Output:
	// from kinda.runtime import maybe, sometimes
	// if sometimes(ready):
	//     for item in queue:
	//         if not maybe(True): continue
	//         process(item)
}
