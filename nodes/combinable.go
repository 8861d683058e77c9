package nodes

// Combinable provides logical composition to the predicate types that embed
// it. The self field must be set to the embedding node. Composition always
// allocates a new parent and never modifies either operand.
type Combinable struct {
	self Predicate
}

// And creates (self AND other).
func (c Combinable) And(other Predicate) *AndPredicate {
	return And(c.self, other)
}

// Or creates (self OR other).
func (c Combinable) Or(other Predicate) *OrPredicate {
	return Or(c.self, other)
}

// Exclude creates NOT (self).
func (c Combinable) Exclude() *ExcludePredicate {
	return Exclude(c.self)
}
