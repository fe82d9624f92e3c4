/*
Package dsl implements the command-chain segmenter of the Senglish language.

An instruction is a flat piece of English-like text that may contain several sibling
commands joined by the chain separator "..", quoted literals, and nested blocks bounded
by "when" ... "end". Segment turns such an instruction into an ordered list of complete
single commands:

	dsl.Segment(`create div named box .. when box is click do style box with color:red .. wait 1s end`)
	// []string{
	//   "create div named box",
	//   "when box is click do style box with color:red .. wait 1s end",
	// }

Separators inside a block body are left in place: the block is re-segmented by whatever
handler later runs its body. Separators and keywords inside double quotes are opaque.
Block keywords must be written in lower case; command names are case-insensitive, but
an upper-case "WHEN" or "END" does not open or close a block.

The segmenter is a pure function with no dependencies on the rest of the interpreter.
Nesting is tracked with a plain depth counter because the grammar has a single kind of
block; a second nestable construct would require a stack of block kinds instead.
*/
package dsl
