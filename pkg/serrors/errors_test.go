package serrors_test

import (
	"net/http"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/require"

	"github.com/mozartiade/archive/pkg/serrors"
)

func TestConstructorsCarryStatusAndCode(t *testing.T) {
	cases := []struct {
		err    *serrors.ServiceError
		status int
		code   string
	}{
		{serrors.Authentication("m"), http.StatusUnauthorized, "UNAUTHENTICATED"},
		{serrors.Authorization("m"), http.StatusForbidden, "FORBIDDEN"},
		{serrors.Validation("m"), http.StatusBadRequest, "INVALID_BODY"},
		{serrors.NotFound("m"), http.StatusNotFound, "NOT_FOUND"},
		{serrors.BucketMismatch("m"), http.StatusBadRequest, "BUCKET_MISMATCH"},
		{serrors.NotReorderable("m"), http.StatusBadRequest, "NOT_REORDERABLE"},
		{serrors.InvalidIndex("m"), http.StatusBadRequest, "INVALID_INDEX"},
		{serrors.Conflict("m"), http.StatusConflict, "CONFLICT"},
		{serrors.Persistence("m", nil), http.StatusInternalServerError, "PERSISTENCE"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.status, tc.err.Status, tc.code)
		require.Equal(t, tc.code, tc.err.Code)
	}
}

func TestErrorIncludesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := serrors.Persistence("saving order", cause)

	require.Contains(t, err.Error(), "saving order")
	require.Contains(t, err.Error(), "connection reset")
	require.ErrorIs(t, err, cause)
}

func TestAsServiceErrorPassesThrough(t *testing.T) {
	original := serrors.NotFound("work not found")
	wrapped := errors.Wrap(original, "loading work")

	got := serrors.AsServiceError(wrapped)
	require.Same(t, original, got)
}

func TestAsServiceErrorWrapsUnknown(t *testing.T) {
	got := serrors.AsServiceError(errors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, got.Status)
	require.Equal(t, "PERSISTENCE", got.Code)
}
