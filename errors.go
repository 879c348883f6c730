package quarry

import "errors"

// Sentinel errors for the failure modes of building and executing a query.
// Empty result sets, missing aggregations and exhausted scrolls are not
// errors; they are returned as empty values.
//
// Use the Is*Err helpers to test for them through any wrapping.
var (
	// ErrUnsupportedOperator is returned when Where or WhereRange receives an
	// operator outside the supported set. No clause is added.
	ErrUnsupportedOperator = errors.New("quarry: unsupported operator")

	// ErrInvalidValue is returned when an operator receives a value of the
	// wrong shape, such as a scalar for "in".
	ErrInvalidValue = errors.New("quarry: invalid value for operator")

	// ErrInvalidRetrieverResult is returned when a Retriever returns something
	// that is not list-like.
	ErrInvalidRetrieverResult = errors.New("quarry: retriever should return a slice or an Items() []any collection")

	// ErrTransport wraps every failure reported by the Transport.
	ErrTransport = errors.New("quarry: transport failure")

	// ErrNoTransport is returned when a query is executed without a Transport.
	ErrNoTransport = errors.New("quarry: no transport configured")
)

// IsUnsupportedOperatorErr returns true if err is or wraps ErrUnsupportedOperator.
func IsUnsupportedOperatorErr(err error) bool {
	return errors.Is(err, ErrUnsupportedOperator)
}

// IsInvalidValueErr returns true if err is or wraps ErrInvalidValue.
func IsInvalidValueErr(err error) bool {
	return errors.Is(err, ErrInvalidValue)
}

// IsInvalidRetrieverResultErr returns true if err is or wraps ErrInvalidRetrieverResult.
func IsInvalidRetrieverResultErr(err error) bool {
	return errors.Is(err, ErrInvalidRetrieverResult)
}

// IsTransportErr returns true if err is or wraps ErrTransport.
func IsTransportErr(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsNoTransportErr returns true if err is or wraps ErrNoTransport.
func IsNoTransportErr(err error) bool {
	return errors.Is(err, ErrNoTransport)
}
