package calc

import "strings"

// Node is a parsed expression. String renders the canonical form that
// Parse reads back to the same tree; the cache keys on it.
type Node interface {
	String() string
	precedence() int
}

const (
	precSum = iota + 1
	precProduct
	precUnary
	precPower
	precAtom
)

// Literal is a number as written: "12", "0.125" or "0.1(6)".
type Literal struct {
	Text string
}

// Unary is a sign applied to X.
type Unary struct {
	Op string
	X  Node
}

// Binary is Left Op Right for one of + - * / ^.
type Binary struct {
	Op    string
	Left  Node
	Right Node
}

// Call is a built-in function application. A bare name such as "pi"
// parses to a Call with no arguments.
type Call struct {
	Name string
	Args []Node
}

func (n *Literal) String() string  { return n.Text }
func (n *Literal) precedence() int { return precAtom }

func (n *Unary) String() string {
	return n.Op + wrap(n.X, n.X.precedence() < precUnary)
}
func (n *Unary) precedence() int { return precUnary }

func (n *Binary) String() string {
	p := n.precedence()
	lp, rp := n.Left.precedence(), n.Right.precedence()
	var left, right string
	if n.Op == "^" {
		left = wrap(n.Left, lp <= p)
		right = wrap(n.Right, rp < p)
		return left + "^" + right
	}
	left = wrap(n.Left, lp < p)
	right = wrap(n.Right, rp <= p)
	return left + " " + n.Op + " " + right
}

func (n *Binary) precedence() int {
	switch n.Op {
	case "+", "-":
		return precSum
	case "*", "/":
		return precProduct
	}
	return precPower
}

func (n *Call) String() string {
	if len(n.Args) == 0 {
		return n.Name
	}
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return n.Name + "(" + strings.Join(args, ", ") + ")"
}
func (n *Call) precedence() int { return precAtom }

func wrap(n Node, paren bool) string {
	if paren {
		return "(" + n.String() + ")"
	}
	return n.String()
}
