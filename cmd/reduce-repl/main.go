/*
reduce-repl is an interactive CLI for experimenting with a grammar and a
stream of input lines. It loads a small demo grammar (see makeDemoGrammar
below), accepts one line of input at a time, runs it through the engine,
and prints the resulting forest as a tree.

Intended as a sandbox for experimenting with rule bodies, predicates and
dominance filters during early grammar development — mirrors the role
T.REPL plays for the teacher's term-rewriting language
(terex/terexlang/trepl/repl.go), adapted to a reduction-parse engine
instead of a term evaluator.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/nbpillar/reduce/engine"
	"github.com/nbpillar/reduce/forest"
	"github.com/nbpillar/reduce/grammar"
)

func tracer() tracing.Trace {
	return tracing.Select("reduce.repl")
}

// makeDemoGrammar builds a small arithmetic-expression grammar, good
// enough to poke at the reduction engine interactively: sums and products
// of numbers, with parentheses. Each rule is left-recursive rather than
// using a repeated group, since a rule body only ever repeats a single
// atom ("factor+") — the reduction search itself supplies the repetition
// by applying "term star factor -> term" over and over.
func makeDemoGrammar() (*grammar.Grammar, error) {
	b := grammar.NewBuilder()
	b.Leaf("number", `[0-9]+`)
	b.Leaf("lparen", `\(`)
	b.Leaf("rparen", `\)`)
	b.Leaf("plus", `\+`)
	b.Leaf("minus", `-`)
	b.Leaf("star", `\*`)
	b.Leaf("slash", `/`)
	b.Rule("factor", "number | lparen expr rparen")
	b.Rule("term", "factor | term star factor | term slash factor")
	b.Rule("expr", "term | expr plus term | expr minus term")
	b.Start("expr")
	return b.Commit()
}

func main() {
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	flag.Parse()
	tracer().SetTraceLevel(tracing.TraceLevelFromString(*tlevel))

	initDisplay()
	pterm.Info.Println("Welcome to reduce-repl")

	g, err := makeDemoGrammar()
	if err != nil {
		tracer().Errorf("could not build demo grammar: %v", err)
		os.Exit(2)
	}
	eng := engine.New(g)

	input := strings.Join(flag.Args(), " ")
	if input = strings.TrimSpace(input); input != "" {
		runOnce(eng, input)
		return
	}

	repl, err := readline.New("reduce> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()
	tracer().Infof("Quit with <ctrl>D")
	for {
		line, err := repl.Readline()
		if err != nil {
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		runOnce(eng, line)
	}
	pterm.Info.Println("Good bye!")
}

func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func runOnce(eng *engine.Engine, line string) {
	result, err := eng.First(line, nil)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	if result == nil {
		pterm.Error.Println("no parse found")
		return
	}
	pterm.Info.Println(fmt.Sprintf("summary: %s  (errors=%d pending=%d size=%d)",
		result.Summary(), result.IncorrectnessCount(), result.PendingCount(), result.Size()))
	root := pterm.NewTreeFromLeveledList(leveledNodes(result.Roots(), 0))
	pterm.DefaultTree.WithRoot(root).Render()
}

func leveledNodes(nodes []*forest.Node, level int) pterm.LeveledList {
	var ll pterm.LeveledList
	for _, n := range nodes {
		if n.IsLeaf() || n.Trash() || n.Boundary() {
			ll = append(ll, pterm.LeveledListItem{Level: level, Text: fmt.Sprintf("%s %q", n.Name(), n.Text())})
			continue
		}
		ll = append(ll, pterm.LeveledListItem{Level: level, Text: n.Name()})
		ll = append(ll, leveledNodes(n.ChildNodes(), level+1)...)
	}
	return ll
}
