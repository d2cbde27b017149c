package compile

import (
	"bytes"

	"github.com/blockberries/gluino/pkg/spec"
)

// compileCtx threads the three pieces of ambient state the compiler needs
// through the recursive descent. context and namesUsed accumulate
// permanently; nonOptional is swapped out (not mutated) whenever a node
// admits a finite inhabitant through indirection, so the swap naturally
// unwinds when that subtree's compile call returns.
type compileCtx struct {
	context     map[string]bool
	nonOptional map[string]bool
	namesUsed   map[string]bool
	env         map[string]Node
}

// Compile validates a schema AST and produces a CompiledSpec: a structure
// safe to walk without revisiting an unbounded type, paired with the named
// environment its Named leaves share.
func Compile(s spec.Spec) (*CompiledSpec, error) {
	ctx := &compileCtx{
		context:     make(map[string]bool),
		nonOptional: make(map[string]bool),
		namesUsed:   make(map[string]bool),
		env:         make(map[string]Node),
	}
	structure, err := compileNode(s, ctx)
	if err != nil {
		return nil, err
	}
	return &CompiledSpec{
		Structure: structure,
		Env:       ctx.env,
		NamesUsed: ctx.namesUsed,
	}, nil
}

func compileNode(s spec.Spec, ctx *compileCtx) (Node, error) {
	switch v := s.(type) {
	case spec.Bool:
		return Bool{}, nil
	case spec.Void:
		return Void{}, nil
	case spec.Uint:
		return Uint{K: v.K}, nil
	case spec.Int:
		return Int{K: v.K}, nil
	case spec.BinaryFP:
		return BinaryFP{Format: v.Format}, nil
	case spec.DecimalFP:
		return DecimalFP{Format: v.Format}, nil
	case spec.Decimal:
		if v.Scale > v.Precision {
			return nil, &Error{Kind: IllegalDecimalFmt}
		}
		return Decimal{Scale: v.Scale, Precision: v.Precision}, nil

	case spec.Bytes:
		return Bytes{Size: v.Size}, nil

	case spec.String:
		return String{Size: v.Size, Encoding: v.Encoding}, nil

	case spec.Optional:
		elem, err := withClearedRecursionGuard(ctx, func() (Node, error) {
			return compileNode(v.Elem, ctx)
		}, true)
		if err != nil {
			return nil, err
		}
		return Optional{Elem: elem}, nil

	case spec.List:
		value, err := withClearedRecursionGuard(ctx, func() (Node, error) {
			return compileNode(v.Value, ctx)
		}, true)
		if err != nil {
			return nil, err
		}
		return List{Size: v.Size, Value: value}, nil

	case spec.Map:
		var key, value Node
		_, err := withClearedRecursionGuard(ctx, func() (Node, error) {
			k, err := compileNode(v.Key, ctx)
			if err != nil {
				return nil, err
			}
			val, err := compileNode(v.Value, ctx)
			if err != nil {
				return nil, err
			}
			key, value = k, val
			return nil, nil
		}, true)
		if err != nil {
			return nil, err
		}
		return Map{Size: v.Size, Key: key, Value: value}, nil

	case spec.Record:
		seen := make(map[string]int, len(v.Fields))
		dup := make(map[string]bool)
		fields := make([]Field, 0, len(v.Fields))
		index := make(map[string]int, len(v.Fields))
		for _, f := range v.Fields {
			seen[f.Name]++
			if seen[f.Name] > 1 {
				dup[f.Name] = true
			}
			node, err := compileNode(f.Spec, ctx)
			if err != nil {
				return nil, err
			}
			index[f.Name] = len(fields)
			fields = append(fields, Field{Name: f.Name, Node: node})
		}
		if len(dup) > 0 {
			return nil, &Error{Kind: DuplicateRecordFieldNames, Names: sortedKeys(dup)}
		}
		return Record{Fields: fields, FieldIndex: index}, nil

	case spec.Tuple:
		elems := make([]Node, 0, len(v.Elems))
		for _, e := range v.Elems {
			node, err := compileNode(e, ctx)
			if err != nil {
				return nil, err
			}
			elems = append(elems, node)
		}
		return Tuple{Elems: elems}, nil

	case spec.Enum:
		seen := make(map[string]int, len(v.Variants))
		dup := make(map[string]bool)
		variants := make([]Variant, 0, len(v.Variants))
		index := make(map[string]int, len(v.Variants))
		allRecursed, forgiven, err := compileSumSiblings(len(v.Variants), func(i int) (Node, bool, map[string]bool, error) {
			return compileSumVariant(v.Variants[i].Spec, ctx)
		}, func(i int, node Node) {
			name := v.Variants[i].Name
			seen[name]++
			if seen[name] > 1 {
				dup[name] = true
			}
			index[name] = len(variants)
			variants = append(variants, Variant{Name: name, Node: node})
		})
		if err != nil {
			return nil, err
		}
		if allRecursed {
			return nil, infinitelyRecursiveErr(forgiven)
		}
		if len(dup) > 0 {
			return nil, &Error{Kind: DuplicateEnumVariantNames, Names: sortedKeys(dup)}
		}
		return Enum{Variants: variants, VariantIndex: index}, nil

	case spec.Union:
		variants := make([]Node, 0, len(v.Variants))
		var seenEncodings [][]byte
		collisions := 0
		allRecursed, forgiven, err := compileSumSiblings(len(v.Variants), func(i int) (Node, bool, map[string]bool, error) {
			return compileSumVariant(v.Variants[i], ctx)
		}, func(i int, node Node) {
			enc := canonicalEncoding(node, ctx.env)
			for _, prior := range seenEncodings {
				if bytes.Equal(prior, enc) {
					collisions++
					break
				}
			}
			seenEncodings = append(seenEncodings, enc)
			variants = append(variants, node)
		})
		if err != nil {
			return nil, err
		}
		if allRecursed {
			return nil, infinitelyRecursiveErr(forgiven)
		}
		if collisions > 0 {
			return nil, &Error{Kind: DuplicateUnionVariantSpecs, VariantCount: collisions}
		}
		return Union{Variants: variants}, nil

	case spec.Name:
		if ctx.context[v.Name] {
			return nil, duplicateNameErr(v.Name)
		}
		ctx.context[v.Name] = true
		ctx.nonOptional[v.Name] = true
		body, err := compileNode(v.Body, ctx)
		delete(ctx.nonOptional, v.Name)
		if err != nil {
			return nil, err
		}
		ctx.env[v.Name] = body
		ctx.namesUsed[v.Name] = true
		return Named{Name: v.Name}, nil

	case spec.Ref:
		if ctx.nonOptional[v.Name] {
			return nil, infinitelyRecursiveErr(map[string]bool{v.Name: true})
		}
		if !ctx.context[v.Name] {
			return nil, undefinedNameErr(v.Name)
		}
		ctx.namesUsed[v.Name] = true
		return Named{Name: v.Name}, nil

	default:
		panic("compile: unreachable Spec variant")
	}
}

// withClearedRecursionGuard runs fn with ctx.nonOptional swapped out for a
// fresh empty set when clear is true — the caller's indirection (Optional,
// List, or Map) admits a finite inhabitant
// through absence or emptiness, so any name on the outer recursion-guard
// stack is no longer "infinitely recursive" inside this subtree.
func withClearedRecursionGuard(ctx *compileCtx, fn func() (Node, error), clear bool) (Node, error) {
	if !clear {
		return fn()
	}
	saved := ctx.nonOptional
	ctx.nonOptional = make(map[string]bool)
	node, err := fn()
	ctx.nonOptional = saved
	return node, err
}

// compileSumVariant implements one variant's "loop checking" pass: a variant
// that is infinitely recursive on its own is retried with the offending
// names stripped from its local recursion guard, since a sibling variant
// may still make the sum as a whole finite. Each retry strictly shrinks the
// guard and undoes the name definitions of the failed attempt, so the loop
// ends: the variant compiles, or it fails for an unrelated reason, or its
// recursion error names nothing in the guard (a name defined and recursed
// on inside the variant itself); the last two propagate immediately.
// dependedOnRecursion reports whether any name had to be forgiven for this
// variant to compile.
func compileSumVariant(s spec.Spec, ctx *compileCtx) (node Node, dependedOnRecursion bool, forgiven map[string]bool, err error) {
	localOK := make(map[string]bool, len(ctx.nonOptional))
	for k := range ctx.nonOptional {
		localOK[k] = true
	}
	defined := make(map[string]bool, len(ctx.context))
	for k := range ctx.context {
		defined[k] = true
	}
	forgiven = make(map[string]bool)
	for {
		saved := ctx.nonOptional
		ctx.nonOptional = localOK
		n, cerr := compileNode(s, ctx)
		ctx.nonOptional = saved
		if cerr == nil {
			return n, dependedOnRecursion, forgiven, nil
		}
		ce, ok := cerr.(*Error)
		if !ok || ce.Kind != InfinitelyRecursiveType {
			return nil, false, nil, cerr
		}
		shrunk := false
		for _, name := range ce.Names {
			if localOK[name] {
				delete(localOK, name)
				shrunk = true
			}
			forgiven[name] = true
		}
		if !shrunk {
			return nil, false, nil, cerr
		}
		dependedOnRecursion = true
		for k := range ctx.context {
			if !defined[k] {
				delete(ctx.context, k)
			}
		}
	}
}

// compileSumSiblings drives compileSumVariant across an Enum or Union's
// variants, then applies the sum-level rule: the sum is itself infinitely
// recursive only if every variant needed recursion forgiven to compile.
// accept is called once per variant, in order, only when at least one
// sibling escaped recursion (i.e. the sum as a whole is being kept).
func compileSumSiblings(n int, compileAt func(i int) (Node, bool, map[string]bool, error), accept func(i int, node Node)) (allDependedOnRecursion bool, forgivenAll map[string]bool, err error) {
	type result struct {
		node     Node
		depended bool
	}
	results := make([]result, n)
	forgivenAll = make(map[string]bool)
	allDependedOnRecursion = n > 0
	for i := 0; i < n; i++ {
		node, depended, forgiven, cerr := compileAt(i)
		if cerr != nil {
			return false, nil, cerr
		}
		for name := range forgiven {
			forgivenAll[name] = true
		}
		if !depended {
			allDependedOnRecursion = false
		}
		results[i] = result{node: node, depended: depended}
	}
	if allDependedOnRecursion {
		return true, forgivenAll, nil
	}
	for i, r := range results {
		accept(i, r.node)
	}
	return false, nil, nil
}
