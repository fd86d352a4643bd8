package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap(nil, "ignored"))

	base := stderrors.New("disk full")
	err := Wrap(base, "failed to insert entry")
	assert.EqualError(t, err, "failed to insert entry: disk full")
	assert.True(t, Is(err, base))
}

func TestIs_Sentinels(t *testing.T) {
	err := Wrap(Wrap(ErrUnsupportedVersion, "load"), "restore failed")
	assert.True(t, Is(err, ErrUnsupportedVersion))
	assert.False(t, Is(err, ErrPermissionDenied))
}
