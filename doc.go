/*
Package senglish is an interpreter for a tiny English-like command language that
drives a document-like tree of addressable elements.

An instruction is a chain of commands joined by "..". Commands can bind nested
chains to element events with "when <id> is <event> do ... end". The interpreter
splits the chain into top-level segments, routes each segment to the handler
registered for its first word, and keeps going when a segment fails.

# Concept

Every Interpreter owns a registry of handlers, an environment (by default an
in-memory document), a shared state bag and a single execution loop. All chains,
including the ones re-submitted by event listeners, run on that loop one at a
time, so handlers never race each other.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/senglish"
	)

	func main() {
		in, err := senglish.New()
		if err != nil {
			log.Fatal(err)
		}
		defer in.Close()

		ctx := context.Background()
		report, err := in.Cmd(ctx, `create div named box with text "Hi" .. style box with color:red`)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(report.OK())

		// Events re-enter the loop and run after the current chain.
		_, _ = in.Cmd(ctx, `create button named btn .. when btn is click do addClass active to box end`)
		_ = in.Trigger(ctx, "btn", "click", "")
	}

# Extending the vocabulary

Handlers implement domain.Handler. Register them with Interpreter.Register; names
and aliases are case-insensitive and later registrations overwrite earlier ones.
*/
package senglish
