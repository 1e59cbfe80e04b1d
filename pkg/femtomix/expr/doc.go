/*
Package expr evaluates boolean selection expressions over named numeric
scalars.

ExpressionEventCut uses it to select events with conditions such as

	multiplicity >= 50 and vertex_z > -8
	centrality < 10 or not physics_selected

# Syntax

	<expr> := <expr> 'or' <expr>
	        | <expr> 'and' <expr>
	        | 'not' <expr>
	        | '!' <expr>
	        | <comparison>
	        | <value>

	<comparison> := <value> <op> <value>
	<op> := '==' | '!=' | '<' | '>' | '<=' | '>='
	<value> := number | true | false | null | identifier

'or' binds loosest, then 'and', then 'not'. There are no parentheses.
Booleans compare as 1 and 0.

# Variables

Identifiers are looked up through a Resolver. An identifier the resolver
does not know fails with *UnknownVariableError, so a typo in a scalar name
cannot silently select nothing.

	e := expr.New()
	ok, err := e.EvaluateWith("multiplicity > 10", func(name string) (any, bool) {
	    v, err := ev.Scalar(name)
	    return v, err == nil
	})

A lone value is true unless it is nil, false or zero.
*/
package expr
