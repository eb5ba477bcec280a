package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Args:  cobra.NoArgs,
	Short: "Show example kinda programs",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(examplesText)
	},
}

var syntaxCmd = &cobra.Command{
	Use:   "syntax",
	Args:  cobra.NoArgs,
	Short: "Show the kinda construct reference",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(syntaxText)
	},
}

const examplesText = `Example kinda programs

Fuzzy declaration and print:

    ~kinda int x = 5
    ~sorta print(x)

Probabilistic conditional:

    ~sometimes (x > 3) {
        print("x is kinda big")
    }

Probabilistic loops:

    ~maybe_for item in [1, 2, 3, 4, 5]:
        ~sorta print(item)

    ~kinda_repeat(3):
        print("again, probably")

    ~sometimes_while x < 10:
        x = x + 1

Approximate comparison and fallback:

    if x ~ish 5.0:
        print("close enough")

    result = risky() ~welp 0

Run any of these with:

    kinda run program.py.knda --mood playful --chaos-level 5 --seed 42
`

const syntaxText = `Kinda construct reference

Declarations
    ~kinda int NAME = EXPR        fuzzy integer (rounds, then drifts by -1/0/+1)
    ~kinda float NAME = EXPR      fuzzy float (relative gaussian noise)
    ~kinda bool NAME = EXPR       fuzzy boolean (mood-dependent flip chance)

Conditionals (brace blocks)
    ~sometimes (COND) { ... }     runs with the "sometimes" probability
    ~maybe (COND) { ... }         runs with the "maybe" probability
    ~rarely (COND) { ... }        runs with the "rarely" probability
    ~probably (COND) { ... }      runs with the "probably" probability

Loops (colon blocks, closed by dedent)
    ~sometimes_while COND:        while COND holds and the gate keeps firing
    ~maybe_for VAR in ITERABLE:   per-iteration probabilistic skip
    ~kinda_repeat(N):             roughly N iterations (mood-dependent spread)
    ~eventually_until COND:       loops until COND holds with statistical confidence

Expressions
    A ~ish B                      approximate comparison (relative tolerance 0.1)
    NAME = ~ish B                 fuzzy value near B
    EXPR ~welp FALLBACK           FALLBACK when EXPR raises or is None

Output
    ~sorta print(ARGS)            prints "[print] ..." or shrugs

Personality
    --mood reliable|cautious|playful|chaotic
    --chaos-level 1..10
    --seed N                      deterministic replay
    (environment: KINDA_MOOD, KINDA_CHAOS_LEVEL, KINDA_SEED)
`
