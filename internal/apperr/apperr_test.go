package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"riderDelivery/models"
)

func TestKind(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("cancel order 7: %w", models.ErrNotCancelable)

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "validation", err: models.ErrValidation, want: KindValidation},
		{name: "not_cancelable_wrapped", err: wrapped, want: KindConflict},
		{name: "already_assigned", err: models.ErrAlreadyAssigned, want: KindConflict},
		{name: "insufficient_batch", err: models.ErrInsufficientBatch, want: KindConflict},
		{name: "not_found", err: models.ErrNotFound, want: KindNotFound},
		{name: "integrity", err: fmt.Errorf("x: %w", models.ErrIntegrity), want: KindIntegrity},
		{name: "grpc_unauthenticated", err: status.Error(codes.Unauthenticated, "no"), want: KindUnauthorized},
		{name: "grpc_permission", err: status.Error(codes.PermissionDenied, "no"), want: KindForbidden},
		{name: "deadline", err: context.DeadlineExceeded, want: KindTimeout},
		{name: "canceled", err: context.Canceled, want: KindCanceled},
		{name: "unknown", err: errors.New("unknown"), want: KindInternal},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}

func TestHTTPStatusAndCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err      error
		wantHTTP int
		wantCode codes.Code
	}{
		{nil, http.StatusOK, codes.OK},
		{models.ErrValidation, http.StatusBadRequest, codes.InvalidArgument},
		{models.ErrNotCancelable, http.StatusConflict, codes.FailedPrecondition},
		{models.ErrAlreadyAssigned, http.StatusConflict, codes.AlreadyExists},
		{models.ErrConcurrentUpdate, http.StatusConflict, codes.Aborted},
		{models.ErrNotFound, http.StatusNotFound, codes.NotFound},
		{models.ErrForbidden, http.StatusForbidden, codes.PermissionDenied},
		{models.ErrIntegrity, http.StatusInternalServerError, codes.DataLoss},
		{context.DeadlineExceeded, http.StatusGatewayTimeout, codes.DeadlineExceeded},
		{errors.New("boom"), http.StatusInternalServerError, codes.Internal},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.wantHTTP, HTTPStatus(tt.err), "http status for %v", tt.err)
		assert.Equal(t, tt.wantCode, Code(tt.err), "grpc code for %v", tt.err)
	}
}

func TestToStatusHidesInternals(t *testing.T) {
	t.Parallel()

	st, _ := status.FromError(ToStatus(errors.New("sql: connection refused")))
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, "internal error", st.Message())

	st, _ = status.FromError(ToStatus(models.ErrInsufficientBatch))
	assert.Equal(t, codes.FailedPrecondition, st.Code())
	assert.Contains(t, st.Message(), "not enough")

	orig := status.Error(codes.Unauthenticated, "missing principal")
	assert.Equal(t, orig, ToStatus(orig))
}

func TestLogLevels(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(core)

	Log(l, "cancel rejected", models.ErrNotCancelable)
	Log(l, "deliver failed", fmt.Errorf("deliver: %w", models.ErrIntegrity), zap.Int64("order_id", 9))

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
		assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
		assert.Equal(t, true, entries[1].ContextMap()["integrity"])
		assert.Equal(t, int64(9), entries[1].ContextMap()["order_id"])
	}
}
