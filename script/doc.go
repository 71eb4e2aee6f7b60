/*
Package script compiles source text into hastack Quotes.

Source is a sequence of whitespace separated terms, each pushing a value or
applying a word:

	42          push Int 42; only digits, "-" is a word
	'x' '\n'    push a Char; <NL> <ESC> ^C and other control mnemonics too
	True False  push a Bool
	{ ... }     push a Quote of the enclosed terms
	[ ... ]     push a List, built by running the enclosed terms on a fresh
	            nested stack
	+ - * / < > <= >= = not . <: print type? ~ if while
	            apply the builtin of that name, see hastack.Builtins

Macros are defined with "define NAME ... end"; later uses of NAME expand to
its body. Words never contain digits, so "x1" is the word "x" followed by 1.
*/
package script
