package grpc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/expensetracker/internal/common"
	"github.com/dmitrijs2005/expensetracker/internal/docrpc"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestToStatus(t *testing.T) {
	tests := []struct {
		err  error
		want codes.Code
	}{
		{fmt.Errorf("%w: collection is required", common.ErrInvalidArgument), codes.InvalidArgument},
		{fmt.Errorf("%w: missing id", docrpc.ErrMalformed), codes.InvalidArgument},
		{common.ErrUnauthorized, codes.Unauthenticated},
		{common.ErrPermissionDenied, codes.PermissionDenied},
		{common.ErrNotFound, codes.NotFound},
		{common.ErrAlreadyExists, codes.AlreadyExists},
		{common.ErrInternal, codes.Internal},
		{errors.New("anything else"), codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, status.Code(toStatus(tt.err)))
		})
	}
}

func TestToStatus_HidesInternalCause(t *testing.T) {
	st, _ := status.FromError(toStatus(errors.New("password_hash column missing")))
	assert.Equal(t, "internal error", st.Message())
}
