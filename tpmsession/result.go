package tpmsession

import "fmt"

// ResultCode is the outcome of a provisioning pass. Setup never lets an
// error or panic escape; callers inspect the code and, when it is
// nonzero, consume the diagnostic with [Session.LastError].
type ResultCode int

const (
	// ResultOK means the pass completed.
	ResultOK ResultCode = 0
	// ResultModuleError means a failure this package raised itself
	// (powerup, context acquisition, startup).
	ResultModuleError ResultCode = 1
	// ResultRuntimeError means a collaborator failure this package did
	// not anticipate specifically.
	ResultRuntimeError ResultCode = 2
	// ResultUnclassified means anything else, including a recovered
	// panic; no underlying detail is available.
	ResultUnclassified ResultCode = 3
)

func (rc ResultCode) String() string {
	switch rc {
	case ResultOK:
		return "ok"
	case ResultModuleError:
		return "module error"
	case ResultRuntimeError:
		return "runtime error"
	case ResultUnclassified:
		return "unclassified failure"
	default:
		return fmt.Sprintf("unknown(%d)", int(rc))
	}
}

// ErrorKind tags an [Error] with its tier in the result taxonomy.
type ErrorKind int

const (
	// KindModule marks failures raised by this package's own logic.
	KindModule ErrorKind = iota + 1
	// KindRuntime marks collaborator failures passed through.
	KindRuntime
	// KindUnclassified marks failures with no usable detail.
	KindUnclassified
)

// Error is a tagged session failure. Setup converts every internal
// failure into one of these before mapping it to a [ResultCode].
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code maps the error's kind to the numeric result contract.
func (e *Error) Code() ResultCode {
	switch e.Kind {
	case KindModule:
		return ResultModuleError
	case KindRuntime:
		return ResultRuntimeError
	default:
		return ResultUnclassified
	}
}

func moduleError(msg string, err error) *Error {
	return &Error{Kind: KindModule, Msg: msg, Err: err}
}
