package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

var allCodes = []Code{Validation, Storage, Clipboard, Share, NotFound, Ads, Internal}

func testCodeOf_WrappedTypedError(t *rapid.T) {
	code := rapid.SampledFrom(allCodes).Draw(t, "code")
	message := rapid.StringMatching(`[a-zA-Z0-9 _:\-]{1,80}`).Draw(t, "message")
	cause := errors.New(rapid.StringMatching(`[a-z]{1,20}`).Draw(t, "cause"))

	err := fmt.Errorf("outer: %w", Wrap(code, message, cause))

	if got := CodeOf(err); got != code {
		t.Fatalf("CodeOf mismatch: got=%q want=%q", got, code)
	}
	if !Is(err, code) {
		t.Fatalf("Is(%q) = false", code)
	}
	if got := MessageOf(err); got != message {
		t.Fatalf("MessageOf mismatch: got=%q want=%q", got, message)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause lost in chain")
	}
}

func TestCodeOf_WrappedTypedError(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testCodeOf_WrappedTypedError)
}

func TestWrapNilCause(t *testing.T) {
	assert.NoError(t, Wrap(Storage, "save note", nil))
}

func TestIsInnerCode(t *testing.T) {
	inner := New(Storage, "disk full")
	outer := Wrap(Share, "export", inner)

	assert.Equal(t, Share, CodeOf(outer))
	assert.True(t, Is(outer, Storage))
	assert.False(t, Is(outer, Validation))
	assert.Equal(t, "export: disk full", outer.Error())
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, Internal, CodeOf(errors.New("boom")))
	assert.Equal(t, "boom", MessageOf(errors.New("boom")))
	assert.False(t, Is(errors.New("boom"), Internal))
}
