package graph

import "errors"

var (
	// ErrUnknownType is returned when a node kind is not declared by the policy.
	ErrUnknownType = errors.New("unknown type")

	// ErrPolicyViolation is returned when a (from, arc, to) kind triple is not declared by the policy.
	ErrPolicyViolation = errors.New("policy violation")

	ErrNodeNotFound     = errors.New("node not found")
	ErrArcNotFound      = errors.New("arc not found")
	ErrPropertyNotFound = errors.New("property not found")
)

func IsErrNotFound(err error) bool {
	return errors.Is(err, ErrNodeNotFound) || errors.Is(err, ErrArcNotFound)
}

func IsErrPropertyNotFound(err error) bool {
	return errors.Is(err, ErrPropertyNotFound)
}
