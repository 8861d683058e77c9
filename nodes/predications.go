package nodes

// Predications provides predicate constructors to typed expressions that
// embed it. The self field must be set to the embedding node so that each
// predicate references the correct left-hand side. Plain values passed to
// these methods are bound; the *Expr variants take other typed expressions,
// which render directly.
type Predications[T any] struct {
	self TypedExpression[T]
}

// PredicationsOf returns the predicate constructors for any typed
// expression, including ones that do not embed Predications.
func PredicationsOf[T any](e TypedExpression[T]) Predications[T] {
	return Predications[T]{self: e}
}

// Is creates self = v.
func (p Predications[T]) Is(v T) *IsPredicate {
	return Is[T](p.self, Val(v))
}

// IsExpr creates self = e.
func (p Predications[T]) IsExpr(e TypedExpression[T]) *IsPredicate {
	return Is[T](p.self, e)
}

// IsNot creates self <> v.
func (p Predications[T]) IsNot(v T) *IsPredicate {
	return IsNot[T](p.self, Val(v))
}

// IsNotExpr creates self <> e.
func (p Predications[T]) IsNotExpr(e TypedExpression[T]) *IsPredicate {
	return IsNot[T](p.self, e)
}

// IsNull creates self IS NULL.
func (p Predications[T]) IsNull() *IsNullPredicate {
	return IsNull(p.self)
}

// IsNotNull creates self IS NOT NULL.
func (p Predications[T]) IsNotNull() *IsNullPredicate {
	return IsNotNull(p.self)
}

// In creates self IN (vals...). No values renders an always-false condition.
func (p Predications[T]) In(vals ...T) *InPredicate {
	return In[T](p.self, bindAll(vals)...)
}

// NotIn creates self NOT IN (vals...).
func (p Predications[T]) NotIn(vals ...T) *InPredicate {
	return NotIn[T](p.self, bindAll(vals)...)
}

// InExprs creates self IN (exprs...).
func (p Predications[T]) InExprs(exprs ...TypedExpression[T]) *InPredicate {
	return In[T](p.self, exprs...)
}

// InRange creates from <= self <= to.
func (p Predications[T]) InRange(from, to T) *InRangePredicate {
	return p.InRangeBounded(from, to, IncludeBoth)
}

// InRangeExcludeLeft creates from < self <= to.
func (p Predications[T]) InRangeExcludeLeft(from, to T) *InRangePredicate {
	return p.InRangeBounded(from, to, ExcludeLeft)
}

// InRangeExcludeRight creates from <= self < to.
func (p Predications[T]) InRangeExcludeRight(from, to T) *InRangePredicate {
	return p.InRangeBounded(from, to, ExcludeRight)
}

// InRangeExclude creates from < self < to.
func (p Predications[T]) InRangeExclude(from, to T) *InRangePredicate {
	return p.InRangeBounded(from, to, ExcludeBoth)
}

// InRangeBounded creates a range test with explicit bounds.
func (p Predications[T]) InRangeBounded(from, to T, bounds InRangeBounds) *InRangePredicate {
	return InRange[T](p.self, Val(from), Val(to), bounds)
}

// InRangeExpr creates a range test whose endpoints are expressions.
func (p Predications[T]) InRangeExpr(from, to TypedExpression[T], bounds InRangeBounds) *InRangePredicate {
	return InRange[T](p.self, from, to, bounds)
}

// Like creates self LIKE pattern.
func (p Predications[T]) Like(pattern T) *LikePredicate {
	return Like[T](p.self, Val(pattern))
}

// NotLike creates self NOT LIKE pattern.
func (p Predications[T]) NotLike(pattern T) *LikePredicate {
	return NotLike[T](p.self, Val(pattern))
}

// Lt creates self < v.
func (p Predications[T]) Lt(v T) *InequalityPredicate { return p.Cmp(LessThan, v) }

// Lte creates self <= v.
func (p Predications[T]) Lte(v T) *InequalityPredicate { return p.Cmp(LessThanEqual, v) }

// Gt creates self > v.
func (p Predications[T]) Gt(v T) *InequalityPredicate { return p.Cmp(GreaterThan, v) }

// Gte creates self >= v.
func (p Predications[T]) Gte(v T) *InequalityPredicate { return p.Cmp(GreaterThanEqual, v) }

// NotEq creates self <> v as an inequality.
func (p Predications[T]) NotEq(v T) *InequalityPredicate { return p.Cmp(NotEqual, v) }

// Cmp creates self <op> v.
func (p Predications[T]) Cmp(op Inequality, v T) *InequalityPredicate {
	return Compare[T](p.self, op, Val(v))
}

// CmpExpr creates self <op> e.
func (p Predications[T]) CmpExpr(op Inequality, e TypedExpression[T]) *InequalityPredicate {
	return Compare[T](p.self, op, e)
}

func bindAll[T any](vals []T) []TypedExpression[T] {
	out := make([]TypedExpression[T], len(vals))
	for i, v := range vals {
		out[i] = Val(v)
	}
	return out
}
