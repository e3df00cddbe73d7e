package apperr

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Code maps err's Kind to a gRPC code. Unclassified errors are Internal.
func Code(err error) codes.Code {
	switch KindOf(err) {
	case KindValidation:
		return codes.InvalidArgument
	case KindNotFound:
		return codes.NotFound
	case KindInvalidState:
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}

// ToStatus converts a service error to a gRPC status error. nil stays nil.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(Code(err), err.Error())
}
