// Package errors defines the domain error values returned by the service
// layer. Handlers map DomainError codes onto HTTP responses; anything that
// is not a DomainError is an unexpected failure.
package errors

import goerrors "errors"

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// AsDomain unwraps err into a *DomainError when possible.
func AsDomain(err error) (*DomainError, bool) {
	var de *DomainError
	if goerrors.As(err, &de) {
		return de, true
	}
	return nil, false
}
