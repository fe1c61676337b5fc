/*
Package antelope implements token quantities as they are represented on
Antelope-style ledgers.
An [Asset] is a signed 64-bit amount paired with a [Symbol], which carries
the token code and the number of digits after the decimal point.

# Features

  - Exact fixed-point amounts, no floating-point arithmetic
  - Range checks on every arithmetic operation
  - Assets with different symbols can never be compared or combined
  - Canonical text format, such as "1.0000 SYS"
  - Conversion of assets using exchange rates

# Representation

The amount of an asset is an integer scaled by 10^precision of its symbol,
so "1.0000 SYS" is stored as the amount 10000 with the symbol "4,SYS".
The magnitude of a valid amount never exceeds [MaxAmount] (2^62 - 1).

A [Symbol] packs a [SymbolCode] and a precision into a single uint64,
a [SymbolCode] packs up to 7 letters A-Z into a uint64.
Both are comparable values, two symbols are equal only if their codes and
their precisions are equal.

# Text Format

The text format of an asset is the amount, a single space and the symbol code.
The precision is not written explicitly, it is the number of digits after
the decimal point:

	1.0000 SYS       amount 10000, symbol 4,SYS
	-100.0001 SYS    amount -1000001, symbol 4,SYS
	-0.0005 SYS      amount -5, symbol 4,SYS
	100 SYS          amount 100, symbol 0,SYS

# Errors

Parsing functions return a [*ParseError] wrapping [ErrBadFormat],
[ErrBadAmount], [ErrBadSymbolCode] or [ErrBadPrecision].

Arithmetic and comparison methods panic if their operands have different
symbols or if the result is out of range, because these conditions are bugs
in the calling code rather than bad input.
The panic value is an error wrapping one of the exported sentinel errors,
such as [ErrSymbolMismatch] or [ErrAdditionOverflow].
Use [Asset.SameSymbol] and [Asset.IsAmountWithinRange] to check operands
in advance.
*/
package antelope
