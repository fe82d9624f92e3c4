/*
Package commands implements the built-in Senglish vocabulary.

Each command is a small type implementing domain.Handler and domain.Describer.
Handlers share an *Env that grants them the environment, the state bag, the
fetcher and a way to re-submit instruction chains from event listeners.

Patterns are matched case-insensitively; captured text keeps its case and
identifiers are canonicalized by the environment.

	create div named box in body with text "Hello"
	style box with color:red and padding:4px
	when btn is click do addClass active to box end
*/
package commands
