// Package hgtype is the semantic hypergraph type lattice: the eight atomic
// and composite type codes, the argument-role alphabet, and the inference
// rules that derive a composite hyperedge's type from its connector and
// argument types (spec.md §4.1).
package hgtype

// Code is one of the eight type codes. Unlike a generic type-kind
// hierarchy, SH's code set is closed and flat: every Code is either
// atomic (C, P, M, B, T, J) or composite-only (R, S). Atoms never carry
// R or S.
type Code string

const (
	Concept     Code = "C"
	Predicate   Code = "P"
	Modifier    Code = "M"
	Builder     Code = "B"
	Trigger     Code = "T"
	Conjunction Code = "J"
	Relation    Code = "R"
	Specifier   Code = "S"
)

// IsAtomic reports whether c is a valid type code for an Atom. R and S
// never appear on atoms (spec.md §3, Atom entity).
func (c Code) IsAtomic() bool {
	switch c {
	case Concept, Predicate, Modifier, Builder, Trigger, Conjunction:
		return true
	default:
		return false
	}
}

// IsConnector reports whether c is a valid connector type (invariant I1:
// every non-atomic hyperedge's connector type is in {P, M, B, T, J}).
func (c Code) IsConnector() bool {
	switch c {
	case Predicate, Modifier, Builder, Trigger, Conjunction:
		return true
	default:
		return false
	}
}

func (c Code) String() string { return string(c) }

// Role is a single-letter argument-role annotation. The alphabet is fixed
// by spec.md §9 Open Questions decision 2: {s,p,a,c,o,i,t,j,x,r,m}.
type Role string

const (
	RoleSubject    Role = "s"
	RolePredicate  Role = "p"
	RoleActor      Role = "a"
	RoleAttribute  Role = "c"
	RoleObject     Role = "o"
	RoleIndirect   Role = "i"
	RoleTemporal   Role = "t"
	RoleJunction   Role = "j"
	RoleModifier2  Role = "x" // spec.md's catch-all/secondary role letter
	RoleRelational Role = "r"
	RoleModifier   Role = "m"
)

// predicateRoles is the allowed role set for a P-connector argument.
var predicateRoles = map[Role]bool{
	RoleSubject: true, RolePredicate: true, RoleActor: true,
	RoleAttribute: true, RoleObject: true, RoleIndirect: true,
	RoleTemporal: true, RoleJunction: true, RoleModifier2: true,
	RoleRelational: true,
}

// builderRoles is the allowed role set for a B-connector argument.
var builderRoles = map[Role]bool{
	RoleModifier: true, RoleActor: true,
}

// ValidRoleFor reports whether role is a legal role annotation for an
// argument owned by a connector of type owner (spec.md §3: role codes are
// valid only when type_code ∈ {P, B}; for P the allowed roles are
// {s,p,a,c,o,i,t,j,x,r}, for B they are {m,a}).
func ValidRoleFor(owner Code, role Role) bool {
	switch owner {
	case Predicate:
		return predicateRoles[role]
	case Builder:
		return builderRoles[role]
	default:
		return false
	}
}

// AllRoles is the full alphabet, used by validation and by pattern
// role-set parsing.
var AllRoles = []Role{
	RoleSubject, RolePredicate, RoleActor, RoleAttribute, RoleObject,
	RoleIndirect, RoleTemporal, RoleJunction, RoleModifier2, RoleRelational,
	RoleModifier,
}

// IsKnownRole reports whether r is in the fixed alphabet.
func IsKnownRole(r Role) bool {
	for _, k := range AllRoles {
		if k == r {
			return true
		}
	}
	return false
}
