package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errSample = stderrors.New("sample kind")

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  New(CodeInvalidArg, "url is required"),
			want: "INVALID_ARGUMENT: url is required",
		},
		{
			name: "with cause",
			err:  Wrap(fmt.Errorf("dial tcp: refused"), CodeUnavailable, "service unreachable"),
			want: "UPSTREAM_UNAVAILABLE: service unreachable (caused by: dial tcp: refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_KindMatching(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := Wrap(cause, CodeRejected, "provider failed").WithKind(errSample)
	wrapped := fmt.Errorf("pipeline: %w", err)

	assert.True(t, stderrors.Is(wrapped, errSample))
	assert.True(t, stderrors.Is(wrapped, cause))
	assert.False(t, stderrors.Is(New(CodeRejected, "x"), errSample))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNotFound, CodeOf(fmt.Errorf("wrap: %w", New(CodeNotFound, "missing"))))
	assert.Equal(t, CodeInternal, CodeOf(stderrors.New("plain")))
	assert.Equal(t, "missing", MessageOf(New(CodeNotFound, "missing")))
	assert.Equal(t, "plain", MessageOf(stderrors.New("plain")))
}
