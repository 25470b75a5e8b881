package ty

// BoundChecker observes the terminal types reached by a bound traversal.
type BoundChecker interface {
	// Collect receives a type that carries no further bounds.
	Collect(t Ty, pol bool)
	// BoundOfVar resolves a variable's accumulated bounds, nil if unknown.
	BoundOfVar(v *Var, pol bool) *Bounds
}

// HasBounds reports whether t needs a bound traversal to be read.
func HasBounds(t Ty) bool {
	switch t.(type) {
	case *Union, *Let, *Var:
		return true
	}
	return false
}

// Sources collects every type variable reachable from t.
func Sources(t Ty) []*Var {
	var results []*Var
	stack := []Ty{t}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch v := cur.(type) {
		case *Var:
			results = append(results, v)
		case *Field:
			stack = append(stack, v.Ty)
		case *Union:
			for i := len(v.Types) - 1; i >= 0; i-- {
				stack = append(stack, v.Types[i])
			}
		case *Let:
			for i := len(v.Lbs) - 1; i >= 0; i-- {
				stack = append(stack, v.Lbs[i])
			}
			for i := len(v.Ubs) - 1; i >= 0; i-- {
				stack = append(stack, v.Ubs[i])
			}
		case *With:
			stack = append(stack, v.Sig)
		case *Select:
			stack = append(stack, v.Ty)
		}
	}
	return results
}

// CheckBounds drives checker through t's bound structure: union members
// keep polarity, upper bounds keep it, lower bounds flip it. Uses an
// explicit stack; nesting depth is user-controlled.
func CheckBounds(t Ty, pol bool, checker BoundChecker) {
	type item struct {
		t   Ty
		pol bool
	}
	push := func(stack []item, types []Ty, pol bool) []item {
		for i := len(types) - 1; i >= 0; i-- {
			stack = append(stack, item{types[i], pol})
		}
		return stack
	}

	stack := []item{{t, pol}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch v := cur.t.(type) {
		case *Union:
			stack = push(stack, v.Types, cur.pol)
		case *Let:
			stack = push(stack, v.Lbs, !cur.pol)
			stack = push(stack, v.Ubs, cur.pol)
		case *Var:
			bounds := checker.BoundOfVar(v, cur.pol)
			if bounds == nil {
				continue
			}
			stack = push(stack, bounds.Lbs, !cur.pol)
			stack = push(stack, bounds.Ubs, cur.pol)
		default:
			checker.Collect(cur.t, cur.pol)
		}
	}
}
