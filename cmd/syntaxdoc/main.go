/*
syntaxdoc is a console utility extracting documentation and railroad diagram graphs from grammar files.
Usage is

	syntaxdoc rules [flags] <grammar>
	syntaxdoc diagram [flags] <grammar> <rule>
	syntaxdoc describe [flags] <description>

rules lists documented rules of an ANTLR4 (.g4), Bison (.y), or llx (.llx) grammar along with their diagram graphs;

diagram outputs the diagram graph of a single rule, <rule> may be qualified with a grammar name;

describe converts an ad-hoc diagram description (.hcl, .yaml, .yml, or .json) to a diagram graph.

Output is JSON written to standard output or to the file given with -o flag.
Settings are taken from the HCL file given with --config flag, then from SYNTAXDOC_* environment
variables (e.g. SYNTAXDOC_LOG_LEVEL), then from command line flags.
*/
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
