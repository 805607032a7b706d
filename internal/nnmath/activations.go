// Package nnmath bundles the elementary math used by the nets: activation
// functions with their first derivatives and random weight sources
package nnmath

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Names under which the activation functions are known to the text codec and the configuration
const (
	IdentityFunc       = "identity"
	SignFunc           = "sign"
	ErfFunc            = "erf"
	ArctanFunc         = "arctan"
	TanhFunc           = "tanh"
	BipolarSigmoidFunc = "bipolar-sigmoid"
	LogisticFunc       = "logistic"
	ConstantFunc       = "const"
)

// Activation is the transfer function of a neuron. Derivative is required by backpropagation,
// functions that aren't differentiable everywhere return the convention 0 there. Encode returns
// the text form that Parse understands, it's what ends up in the param stores
type Activation interface {
	Apply(x float64) float64
	Derivative(x float64) float64
	Encode() string
}

// Identity passes the weighted input sum through unchanged, useful for linear nets and tests
type Identity struct{}

// Apply returns x
func (Identity) Apply(x float64) float64 { return x }

// Derivative returns 1
func (Identity) Derivative(x float64) float64 { return 1 }

// Encode returns the text form of the function
func (Identity) Encode() string { return IdentityFunc }

// Sign is the signum function
type Sign struct{}

// Apply returns -1, 0 or 1 depending on the sign of x
func (Sign) Apply(x float64) float64 {
	if x < 0 {
		return -1
	}
	if x == 0 {
		return 0
	}
	return 1
}

// Derivative returns 0 (the function is flat everywhere it's differentiable)
func (Sign) Derivative(x float64) float64 { return 0 }

// Encode returns the text form of the function
func (Sign) Encode() string { return SignFunc }

// Erf is the Gauss error function
type Erf struct{}

// Apply returns erf(x)
func (Erf) Apply(x float64) float64 { return math.Erf(x) }

// Derivative returns 2/sqrt(pi) * e^(-x^2)
func (Erf) Derivative(x float64) float64 { return 2 / math.Sqrt(math.Pi) * math.Exp(-x*x) }

// Encode returns the text form of the function
func (Erf) Encode() string { return ErfFunc }

// Arctan is the inverse tangent
type Arctan struct{}

// Apply returns atan(x)
func (Arctan) Apply(x float64) float64 { return math.Atan(x) }

// Derivative returns 1/(1+x^2)
func (Arctan) Derivative(x float64) float64 { return 1 / (1 + x*x) }

// Encode returns the text form of the function
func (Arctan) Encode() string { return ArctanFunc }

// Tanh is the hyperbolic tangent
type Tanh struct{}

// Apply returns 2/(1+e^(-2x)) - 1
func (Tanh) Apply(x float64) float64 { return 2/(1+math.Exp(-2*x)) - 1 }

// Derivative returns 1 - tanh(x)^2
func (t Tanh) Derivative(x float64) float64 {
	fx := t.Apply(x)
	return 1 - fx*fx
}

// Encode returns the text form of the function
func (Tanh) Encode() string { return TanhFunc }

// BipolarSigmoid maps the input sum to the (-1, 1) range
type BipolarSigmoid struct{}

// Apply returns 2/(1+e^(-x)) - 1
func (BipolarSigmoid) Apply(x float64) float64 { return 2/(1+math.Exp(-x)) - 1 }

// Derivative returns 0.5 * (1+f(x)) * (1-f(x))
func (s BipolarSigmoid) Derivative(x float64) float64 {
	fx := s.Apply(x)
	return 0.5 * (1 + fx) * (1 - fx)
}

// Encode returns the text form of the function
func (BipolarSigmoid) Encode() string { return BipolarSigmoidFunc }

// Logistic is the general logistic function with midpoint X0, maximum L and steepness K.
// The zero value isn't usable, get one through NewLogistic or Parse
type Logistic struct {
	X0 float64
	L  float64
	K  float64
}

// NewLogistic returns the standard sigmoid (X0=0, L=1, K=1)
func NewLogistic() Logistic {
	return Logistic{X0: 0, L: 1, K: 1}
}

// Apply returns L/(1+e^(-K(x-X0)))
func (l Logistic) Apply(x float64) float64 {
	return l.L / (1 + math.Exp(-l.K*(x-l.X0)))
}

// Derivative returns K * (1 - f(x)/L) * f(x)
func (l Logistic) Derivative(x float64) float64 {
	fx := l.Apply(x)
	return l.K * (1 - fx/l.L) * fx
}

// Encode returns the text form of the function with its parameters
func (l Logistic) Encode() string {
	return fmt.Sprintf("%s(%g,%g,%g)", LogisticFunc, l.X0, l.L, l.K)
}

// Constant ignores its argument, it's how bias units carry an activation of their own
type Constant struct {
	V float64
}

// Apply returns the constant regardless of x
func (c Constant) Apply(x float64) float64 { return c.V }

// Derivative returns 0
func (Constant) Derivative(x float64) float64 { return 0 }

// Encode returns the text form of the function with its value
func (c Constant) Encode() string { return fmt.Sprintf("%s(%g)", ConstantFunc, c.V) }

// Parse turns the text form produced by Encode back into an activation function
func Parse(s string) (Activation, error) {
	switch s {
	case IdentityFunc:
		return Identity{}, nil
	case SignFunc:
		return Sign{}, nil
	case ErfFunc:
		return Erf{}, nil
	case ArctanFunc:
		return Arctan{}, nil
	case TanhFunc:
		return Tanh{}, nil
	case BipolarSigmoidFunc:
		return BipolarSigmoid{}, nil
	case LogisticFunc:
		return NewLogistic(), nil
	}
	if strings.HasPrefix(s, LogisticFunc+"(") && strings.HasSuffix(s, ")") {
		var l Logistic
		_, err := fmt.Sscanf(s, LogisticFunc+"(%g,%g,%g)", &l.X0, &l.L, &l.K)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
	if strings.HasPrefix(s, ConstantFunc+"(") && strings.HasSuffix(s, ")") {
		var c Constant
		_, err := fmt.Sscanf(s, ConstantFunc+"(%g)", &c.V)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return nil, errors.New(s + " is not a valid activation function")
}
