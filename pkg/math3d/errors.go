package math3d

import "fmt"

// DomainError reports a matrix builder parameter outside its valid range.
type DomainError struct {
	Param  string
	Value  float32
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("math3d: %s = %g: %s", e.Param, e.Value, e.Reason)
}

func domainErr(param string, value float32, reason string) *DomainError {
	return &DomainError{Param: param, Value: value, Reason: reason}
}
