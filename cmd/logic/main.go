// Command logic is the proof checker's entry point: it loads a rules
// file, loads a theory file against it, and verifies every lemma's proof.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/go-proof/logic/internal/cli"
	"github.com/go-proof/logic/internal/diagnostics"
	"github.com/go-proof/logic/internal/parser"
	"github.com/go-proof/logic/internal/position"
	"github.com/go-proof/logic/internal/theory"
	"github.com/go-proof/logic/internal/verify"
	"github.com/go-proof/logic/internal/watch"
)

// defaultRulesFile is tried when the caller doesn't name a rules file of
// their own, mirroring the original tool's "basic/rules.lth" fallback. If
// it doesn't exist, verification proceeds with an empty rules theory: a
// theory file with no lemma proof steps (axioms and long proofs only)
// still has something to verify.
const defaultRulesFile = "rules.logic"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	sub := os.Args[1]
	args := os.Args[2:]

	switch sub {
	case "help", "-h", "--help":
		usage()
	case "version", "-v", "--version":
		cli.PrintVersion("logic", hasFlag(args, "--json"))
	case "verify":
		runVerify(args)
	default:
		usage()
		cli.HandleError(fmt.Errorf("unknown subcommand: %s", sub), nil)
	}
}

func usage() {
	fmt.Println("logic verify <theory-file> [<rules-file>] [--watch] [--abort-on-failure] [--json]")
}

func hasFlag(args []string, name string) bool {
	for _, a := range args {
		if a == name {
			return true
		}
	}

	return false
}

func runVerify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	watchFlag := fs.Bool("watch", false, "re-verify whenever the theory or rules file changes on disk")
	abortOnFailure := fs.Bool("abort-on-failure", false, "stop at the first statement whose proof fails")
	jsonOutput := fs.Bool("json", false, "emit a machine-readable report instead of plain text")
	verboseFlag := fs.Bool("verbose", false, "log progress messages in --watch mode")
	_ = fs.Parse(args)

	rest := fs.Args()
	cli.HandleError(cli.ValidateArgs(rest, 1,
		"logic verify <theory-file> [<rules-file>] [--watch] [--abort-on-failure] [--json]"), nil)

	theoryPath := rest[0]

	rulesPath := defaultRulesFile
	rulesExplicit := false

	if len(rest) >= 2 {
		rulesPath = rest[1]
		rulesExplicit = true
	}

	opts := verify.Options{AbortOnFailure: *abortOnFailure}

	runOnce := func() int {
		return verifyOnce(theoryPath, rulesPath, rulesExplicit, opts, *jsonOutput)
	}

	if !*watchFlag {
		if code := runOnce(); code != 0 {
			os.Exit(code)
		}

		return
	}

	watchVerifyLoop(theoryPath, rulesPath, cli.NewLogger(*verboseFlag), runOnce)
}

// watchVerifyLoop runs runOnce immediately, then again each time theoryPath
// or rulesPath changes on disk, until interrupted. Each re-run is a fresh,
// sequential call; verification is never run concurrently with itself. The
// process itself doesn't exit on a failing run here, only on a fatal
// watcher error — that's the point of watch mode.
func watchVerifyLoop(theoryPath, rulesPath string, logger *cli.Logger, runOnce func() int) {
	w, err := watch.New()
	if err != nil {
		cli.ExitWithError("could not start watcher: %v", err)
	}
	defer w.Close()

	for _, p := range []string{theoryPath, rulesPath} {
		if err := w.Add(p); err != nil {
			cli.ExitWithError("could not watch %s: %v", p, err)
		}
	}

	runOnce()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err = w.Run(ctx, 200*time.Millisecond, func() {
		logger.Info("file changed, re-verifying")
		runOnce()
	})

	if err != nil && err != context.Canceled {
		cli.ExitWithError("watcher stopped: %v", err)
	}
}

// verifyOnce loads rulesPath (if present), loads theoryPath against it, and
// verifies the result, printing a report to stdout. It returns the process
// exit code spec.md §6.3 specifies: 0 on success, the parser's error count
// on a parse failure, or 1 when parsing succeeded but verification failed.
func verifyOnce(theoryPath, rulesPath string, rulesExplicit bool, opts verify.Options, jsonOutput bool) int {
	sourceMap := position.NewSourceMap()
	diags := diagnostics.NewManager(sourceMap)

	rulesTheory, ok := loadRulesTheory(rulesPath, rulesExplicit, diags, sourceMap)
	if !ok {
		return 1
	}

	if diags.HasErrors() {
		report(diags, jsonOutput, false, nil)
		return diags.ErrorCount()
	}

	content, err := os.ReadFile(theoryPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not read %s: %v\n", theoryPath, err)
		return 1
	}

	theoryFile := sourceMap.AddFile(theoryPath, string(content))
	doc := parser.ParseDocument(theoryFile, diags, rulesTheory)
	diags.Sort()

	if diags.HasErrors() {
		report(diags, jsonOutput, false, nil)
		return diags.ErrorCount()
	}

	ok2, failures := verify.Verify(doc, opts)
	report(diags, jsonOutput, ok2, failures)

	if !ok2 {
		return 1
	}

	return 0
}

// loadRulesTheory parses rulesPath as a rules file. When the caller did not
// name one explicitly and the default doesn't exist, it returns an empty
// theory instead of failing: a rules-free theory file is still legal.
func loadRulesTheory(rulesPath string, explicit bool, diags *diagnostics.Manager, sourceMap *position.SourceMap) (*theory.Theory, bool) {
	if !explicit {
		if _, err := os.Stat(rulesPath); err != nil {
			return theory.NewTheory(), true
		}
	}

	content, err := os.ReadFile(rulesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not read rules file %s: %v\n", rulesPath, err)
		return nil, false
	}

	rulesFile := sourceMap.AddFile(rulesPath, string(content))
	rulesTheory := parser.ParseRules(rulesFile, diags)
	diags.Sort()

	return rulesTheory, true
}

func report(diags *diagnostics.Manager, jsonOutput bool, verified bool, failures []verify.Failure) {
	if jsonOutput {
		reportJSON(diags, verified, failures)
		return
	}

	if len(diags.Diagnostics()) > 0 {
		fmt.Print(diags.Render())
	}

	if diags.HasErrors() {
		return
	}

	if verified {
		fmt.Println("Verified theory!")
		return
	}

	fmt.Println("Could not verify theory.")

	for _, f := range failures {
		fmt.Printf("  %s\n", f)
	}
}

type jsonReport struct {
	Verified    bool     `json:"verified"`
	Diagnostics []string `json:"diagnostics,omitempty"`
	Failures    []string `json:"failures,omitempty"`
}

func reportJSON(diags *diagnostics.Manager, verified bool, failures []verify.Failure) {
	rep := jsonReport{Verified: verified && !diags.HasErrors()}

	for _, d := range diags.Diagnostics() {
		rep.Diagnostics = append(rep.Diagnostics, d.String())
	}

	for _, f := range failures {
		rep.Failures = append(rep.Failures, f.String())
	}

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to marshal report to JSON: %v\n", err)
		return
	}

	fmt.Println(string(data))
}
