package ir

import "strings"

// ConstValue is a minimal stand-in for const-generic values. The solver
// treats consts as opaque comparable payloads; only equality and
// substitution ever touch them. No example in this engine's test suite
// exercises const generics beyond round-tripping, matching the "optionally
// const" qualifier in SPEC_FULL.md §3.
type ConstValue struct {
	Ty    Type
	Value int64
}

func (c ConstValue) Equal(o ConstValue) bool {
	return c.Value == o.Value && TypesEqual(c.Ty, o.Ty)
}

// GenericArg is a tagged union over a type, a lifetime, or a const,
// carrying its own Kind (SPEC_FULL.md §3: "Generic argument").
type GenericArg struct {
	Kind     Kind
	Type     Type
	Lifetime Lifetime
	Const    *ConstValue
}

func TypeArg(t Type) GenericArg         { return GenericArg{Kind: KindType, Type: t} }
func LifetimeArg(l Lifetime) GenericArg { return GenericArg{Kind: KindLifetime, Lifetime: l} }
func ConstArg(c ConstValue) GenericArg  { return GenericArg{Kind: KindConst, Const: &c} }

func (g GenericArg) String() string {
	switch g.Kind {
	case KindType:
		if g.Type == nil {
			return "<type:nil>"
		}
		return g.Type.String()
	case KindLifetime:
		if g.Lifetime == nil {
			return "<lifetime:nil>"
		}
		return g.Lifetime.String()
	case KindConst:
		if g.Const == nil {
			return "<const:nil>"
		}
		return strings32(g.Const.Value)
	default:
		return "<generic-arg:invalid-kind>"
	}
}

func strings32(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf []byte
	for v > 0 {
		buf = append([]byte{byte('0' + v%10)}, buf...)
		v /= 10
	}
	if neg {
		buf = append([]byte{'-'}, buf...)
	}
	return string(buf)
}

// GenericArgsEqual is structural equality respecting Kind.
func GenericArgsEqual(a, b GenericArg) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindType:
		return TypesEqual(a.Type, b.Type)
	case KindLifetime:
		return LifetimesEqual(a.Lifetime, b.Lifetime)
	case KindConst:
		if a.Const == nil || b.Const == nil {
			return a.Const == b.Const
		}
		return a.Const.Equal(*b.Const)
	default:
		return false
	}
}

// Substitution is an ordered sequence of generic arguments; slot i binds
// bound-variable index i (SPEC_FULL.md §3: "index i binds variable i").
type Substitution []GenericArg

func (s Substitution) String() string {
	parts := make([]string, len(s))
	for i, a := range s {
		parts[i] = a.String()
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// SubstitutionsEqual compares two substitutions positionally.
func SubstitutionsEqual(a, b Substitution) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !GenericArgsEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Clone returns a shallow copy safe to extend independently of s.
func (s Substitution) Clone() Substitution {
	out := make(Substitution, len(s))
	copy(out, s)
	return out
}
