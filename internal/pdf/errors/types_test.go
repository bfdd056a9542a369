package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcquisitionErrorMessage(t *testing.T) {
	cause := errors.New("malformed xref")
	err := Wrap(ErrorTypeUnreadable, "failed to parse pdf", cause).WithPage(2).WithFile("labels.pdf")

	assert.Equal(t, "[UNREADABLE] failed to parse pdf (page 2): malformed xref", err.Error())
	assert.Equal(t, "labels.pdf", err.FilePath)
	assert.ErrorIs(t, err, cause)
	assert.False(t, err.Recoverable)
}

func TestTypeOfWrapped(t *testing.T) {
	inner := New(ErrorTypeNoImage, "page has no embedded image")
	wrapped := fmt.Errorf("ocr: %w", inner)

	assert.Equal(t, ErrorTypeNoImage, TypeOf(wrapped))
	assert.True(t, IsRecoverable(wrapped))
	assert.False(t, IsUnreadable(wrapped))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(errors.New("plain")))
}

func TestIsUnreadable(t *testing.T) {
	tests := []struct {
		errType ErrorType
		want    bool
	}{
		{ErrorTypeInvalidFile, true},
		{ErrorTypeUnreadable, true},
		{ErrorTypeNoPages, true},
		{ErrorTypeNoImage, false},
		{ErrorTypeOCR, false},
	}

	for _, tt := range tests {
		t.Run(tt.errType.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, IsUnreadable(New(tt.errType, "x")))
		})
	}
	assert.False(t, IsUnreadable(nil))
}
