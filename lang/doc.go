// Package lang implements vscript, a small expression language for
// arithmetic, comparison, boolean logic, and string concatenation over
// dynamically-typed values.
//
// An expression is parsed once into an [Equation] and evaluated any number of
// times against a [Store] of named variables:
//
//	eq, err := lang.New(ctx, "3 + movie.price * sqrt(4)")
//	if err != nil {
//		return err
//	}
//
//	store := lang.MapStore{"movie.price": lang.Int(5)}
//	v, err := eq.EvaluateStore(ctx, store) // Numeric 13
//
// # Grammar
//
// Informal EBNF, weakest binding first:
//
//	Expr       → Or ('=' Expr)?             // right-associative
//	Or         → And ('||' And)*
//	And        → Compare ('&&' Compare)*
//	Compare    → Sum (('=='|'!='|'<'|'<='|'>'|'>=') Sum)*
//	Sum        → Product (('+'|'-') Product)*
//	Product    → Unary (('*'|'/') Unary)*
//	Unary      → ('-'|'!') Unary | Primary
//	Primary    → Number | String | 'true' | 'false'
//	           | Ident | Ident '(' (Expr (',' Expr)*)? ')' | '(' Expr ')'
//
// Identifiers may contain dots, so "movie.price" names a single variable.
// Strings are double-quoted and have no escape sequences.
//
// # Values
//
// A [Value] is Numeric, Boolean, or String. Arithmetic accepts numbers and
// numeric text; "+" concatenates when either side is non-numeric text.
// Booleans never take part in arithmetic: "true + true" fails with [ErrType].
//
// # Time
//
// The date functions read a [Clock] bound when the equation is constructed,
// either explicitly with [WithClock] or from the process-wide provider set by
// [SetClockProvider].
package lang
