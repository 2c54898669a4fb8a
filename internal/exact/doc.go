// Package exact implements an exact-arithmetic number tower.
//
// Values live in one of three layers: Integer, Rational and Algebraic, with
// Root as the common radical form of an algebraic number. Arithmetic never
// rounds; a result that happens to be representable in a narrower layer is
// collapsed back into it by Simplify.
//
// Every value is immutable. Fields are unexported and accessors return
// copies, so values can be shared freely between goroutines.
//
//	half := exact.MustRational(1, 2)
//	x, _ := half.Add(exact.Decimal("0.25"))   // 3/4
//	r, _ := exact.NewRoot(exact.Int(2), exact.Int(2))
//	p, _ := r.Mul(exact.Int(8))               // 8*sqrt(2)
//	s, _ := exact.Simplify(p)
//
// Operands are a closed set: the literal types Int, Float and Decimal plus
// the tower types themselves. Comprehend is the single conversion into a
// Rational; FromGo maps native Go values onto the set.
package exact
