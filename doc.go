/*
Package reduce is a fault-tolerant bottom-up parser engine for context-free
grammars augmented with predicate-based semantic constraints.

Unlike a recognizer for a single unambiguous grammar, the engine keeps
producing trees when a grammar is ambiguous, boxes characters no terminal
matched as trash and carries on, and reports which predicates failed on an
otherwise complete parse rather than simply rejecting the input.

Package structure:

■ grammar: the grammar declaration surface (Builder), atoms, rules, leaves
and the compiled Grammar, including the starter/branch/literal tables,
commit-time consistency checks and the unary loop detector.

■ forest: the Node/Parse data model — clone-on-extend parses, derived
memoized attributes (height, size, position, summary) and attribute
propagation for structural tests.

■ predicate: the four predicate roles (preconditions, node tests,
structural tests, processors) and their registries.

■ lex: the tokenizer, producing maximal lex-variant forests plus trash.

■ search: the Iterator/Hopper/Picker reduction search and the unary-branch
guard it applies when the grammar's loop detector has found a cycle.

■ segment: boundary-driven splitting of a tokenized parse into
independently searched segments, and composition of their results.

■ engine: the parse entry points, tying tokenizing, segmenting, search and
composition together over a compiled grammar.

The base package contains data types used throughout all other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package reduce
