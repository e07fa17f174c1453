package ops

import "errors"

// Errors raised by guards and by operand-count checks.
var (
	ErrArity               = errors.New("fwdiff: wrong number of operands")
	ErrDomain              = errors.New("fwdiff: argument outside the real domain")
	ErrComplexResult       = errors.New("fwdiff: result is not real")
	ErrDerivativeUndefined = errors.New("fwdiff: derivative undefined at this point")
)
