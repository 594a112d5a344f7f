package apperr

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"riderDelivery/models"
)

// Error kinds.
const (
	KindValidation   = "validation"
	KindConflict     = "conflict"
	KindNotFound     = "not_found"
	KindForbidden    = "forbidden"
	KindUnauthorized = "unauthorized"
	KindIntegrity    = "integrity"
	KindTimeout      = "timeout"
	KindCanceled     = "canceled"
	KindInternal     = "internal"
)

func Kind(err error) string {
	switch {
	case err == nil:
		return ""

	case errors.Is(err, models.ErrIntegrity):
		return KindIntegrity

	case errors.Is(err, models.ErrValidation):
		return KindValidation

	case errors.Is(err, models.ErrNotCancelable),
		errors.Is(err, models.ErrAlreadyAssigned),
		errors.Is(err, models.ErrAlreadyFinalized),
		errors.Is(err, models.ErrInsufficientBatch),
		errors.Is(err, models.ErrNotEligible),
		errors.Is(err, models.ErrInvalidTransition),
		errors.Is(err, models.ErrConcurrentUpdate):
		return KindConflict

	case errors.Is(err, models.ErrNotFound):
		return KindNotFound

	case errors.Is(err, models.ErrForbidden):
		return KindForbidden

	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout

	case errors.Is(err, context.Canceled):
		return KindCanceled
	}

	// errors raised by the auth layer already carry a gRPC code
	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.Unauthenticated:
			return KindUnauthorized
		case codes.PermissionDenied:
			return KindForbidden
		case codes.InvalidArgument:
			return KindValidation
		case codes.NotFound:
			return KindNotFound
		case codes.FailedPrecondition, codes.AlreadyExists, codes.Aborted:
			return KindConflict
		}
	}
	return KindInternal
}

// Code maps err to a gRPC status code.
func Code(err error) codes.Code {
	switch Kind(err) {
	case "":
		return codes.OK
	case KindValidation:
		return codes.InvalidArgument
	case KindConflict:
		if errors.Is(err, models.ErrAlreadyAssigned) {
			return codes.AlreadyExists
		}
		if errors.Is(err, models.ErrConcurrentUpdate) {
			return codes.Aborted
		}
		return codes.FailedPrecondition
	case KindNotFound:
		return codes.NotFound
	case KindForbidden:
		return codes.PermissionDenied
	case KindUnauthorized:
		return codes.Unauthenticated
	case KindIntegrity:
		return codes.DataLoss
	case KindTimeout:
		return codes.DeadlineExceeded
	case KindCanceled:
		return codes.Canceled
	default:
		return codes.Internal
	}
}

func HTTPStatus(err error) int {
	switch Kind(err) {
	case "":
		return http.StatusOK
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindTimeout:
		return http.StatusGatewayTimeout
	case KindCanceled:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Level is the log level for err. Expected user-facing outcomes stay at debug.
func Level(err error) zapcore.Level {
	switch Kind(err) {
	case "", KindValidation, KindConflict, KindNotFound, KindForbidden, KindUnauthorized, KindCanceled:
		return zapcore.DebugLevel
	case KindTimeout:
		return zapcore.WarnLevel
	default:
		return zapcore.ErrorLevel
	}
}

// ToStatus converts err into a gRPC status error. Internal details are not leaked.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	code := Code(err)
	msg := err.Error()
	if code == codes.Internal {
		msg = "internal error"
	}
	if code == codes.DataLoss {
		msg = "ledger integrity violation, reconciliation required"
	}
	return status.Error(code, msg)
}

// Log writes err at its level; integrity violations are tagged for alerting.
func Log(l *zap.Logger, msg string, err error, fields ...zap.Field) {
	if l == nil || err == nil {
		return
	}
	fields = append(fields, zap.Error(err), zap.String("kind", Kind(err)))
	if Kind(err) == KindIntegrity {
		fields = append(fields, zap.Bool("integrity", true))
	}
	if ce := l.Check(Level(err), msg); ce != nil {
		ce.Write(fields...)
	}
}
