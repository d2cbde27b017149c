package compile

import (
	"crypto/sha256"

	"github.com/blockberries/gluino/pkg/spec"
)

// Fingerprint returns the SHA-256 digest of cs's canonical (longform, never
// aliased) wire encoding. Two compiled schemas with identical shape —
// regardless of which alias forms were used to write them, or which
// occurrence of a name came first in the source — produce identical
// fingerprints.
func (cs *CompiledSpec) Fingerprint() [32]byte {
	if !cs.fingerprintSet {
		cs.fingerprint = FingerprintOf(cs.Structure, cs.Env)
		cs.fingerprintSet = true
	}
	return cs.fingerprint
}

// FingerprintOf computes the fingerprint of an arbitrary compiled node
// rooted anywhere in a schema, given the environment its Named leaves
// resolve against. CompiledSpec.Fingerprint is the case where node is the
// whole schema's Structure; callers that need the fingerprint of one
// field, variant, or element — e.g. to recognize that two occurrences of
// the same name denote the same schema regardless of which one happened to
// be the definition site — call this directly.
func FingerprintOf(node Node, env map[string]Node) [32]byte {
	return sha256.Sum256(canonicalEncoding(node, env))
}

// ToSpec recovers an AST form of cs: a spec.Spec tree equivalent to what
// compiled to produce cs, suitable for re-compiling or for wire transport.
// Each Named leaf expands to a full spec.Name definition on its first
// appearance in a left-to-right walk and to a spec.Ref afterward.
func (cs *CompiledSpec) ToSpec() spec.Spec {
	return astForm(cs.Structure, cs.Env, make(map[string]bool))
}

// canonicalEncoding is the fingerprint input: the longform wire bytes of
// structure's AST form, expanding named leaves exactly as ToSpec does.
func canonicalEncoding(structure Node, env map[string]Node) []byte {
	return spec.EncodeLongform(astForm(structure, env, make(map[string]bool)))
}

// astForm walks a compiled Node and produces the equivalent spec.Spec,
// expanding each Named leaf into a full spec.Name the first time visited
// visits it and into a bare spec.Ref on every subsequent occurrence.
func astForm(node Node, env map[string]Node, visited map[string]bool) spec.Spec {
	switch v := node.(type) {
	case Bool:
		return spec.Bool{}
	case Void:
		return spec.Void{}
	case Uint:
		return spec.Uint{K: v.K}
	case Int:
		return spec.Int{K: v.K}
	case BinaryFP:
		return spec.BinaryFP{Format: v.Format}
	case DecimalFP:
		return spec.DecimalFP{Format: v.Format}
	case Decimal:
		return spec.Decimal{Scale: v.Scale, Precision: v.Precision}
	case Bytes:
		return spec.Bytes{Size: v.Size}
	case String:
		return spec.String{Size: v.Size, Encoding: v.Encoding}
	case Optional:
		return spec.Optional{Elem: astForm(v.Elem, env, visited)}
	case List:
		return spec.List{Size: v.Size, Value: astForm(v.Value, env, visited)}
	case Map:
		return spec.Map{Size: v.Size, Key: astForm(v.Key, env, visited), Value: astForm(v.Value, env, visited)}
	case Record:
		fields := make([]spec.Field, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = spec.Field{Name: f.Name, Spec: astForm(f.Node, env, visited)}
		}
		return spec.Record{Fields: fields}
	case Tuple:
		elems := make([]spec.Spec, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = astForm(e, env, visited)
		}
		return spec.Tuple{Elems: elems}
	case Enum:
		variants := make([]spec.Variant, len(v.Variants))
		for i, variant := range v.Variants {
			variants[i] = spec.Variant{Name: variant.Name, Spec: astForm(variant.Node, env, visited)}
		}
		return spec.Enum{Variants: variants}
	case Union:
		variants := make([]spec.Spec, len(v.Variants))
		for i, variant := range v.Variants {
			variants[i] = astForm(variant, env, visited)
		}
		return spec.Union{Variants: variants}
	case Named:
		if visited[v.Name] {
			return spec.Ref{Name: v.Name}
		}
		visited[v.Name] = true
		return spec.Name{Name: v.Name, Body: astForm(env[v.Name], env, visited)}
	default:
		panic("compile: unreachable compiled Node variant")
	}
}
