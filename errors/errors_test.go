package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesSentinel(t *testing.T) {
	err := Wrap(ErrNotFound, "struct VkFoo")
	err = Wrap(err, "rendering marker")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrDuplicateDefinition))
	assert.Equal(t, "rendering marker: struct VkFoo: not found", err.Error())
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", New("disk on fire"), false},
		{"not found", Wrap(ErrNotFound, "x"), true},
		{"duplicate", Wrapf(ErrDuplicateDefinition, "type %s", "VkFoo"), true},
		{"shape", ErrUnexpectedShape, true},
		{"identifier", Wrap(ErrUnresolvableIdentifier, "VK_FOO"), true},
		{"cycle", ErrCycleDetected, true},
		{"marker", Wrap(ErrMarkerMismatch, "/api/structs/a.adoc"), true},
		{"config", ErrInvalidConfig, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFatal(tt.err))
		})
	}
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("command %s", "vkCmdDraw")
	require.Error(t, err)
	assert.True(t, IsNotFoundError(err))
	assert.Contains(t, err.Error(), "command vkCmdDraw")
	assert.False(t, IsNotFoundError(nil))
}

func TestWithHint(t *testing.T) {
	err := WithHint(ErrNotFound, "run 'vkdoc fetch' first")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "run 'vkdoc fetch' first", hints[0])
	assert.True(t, Is(err, ErrNotFound))
}

func TestWithDetailf(t *testing.T) {
	err := WithDetailf(ErrMarkerMismatch, "left=%s right=%s", "a", "b")

	details := GetAllDetails(err)
	require.Len(t, details, 1)
	assert.Equal(t, "left=a right=b", details[0])
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithStack(nil))
	assert.Nil(t, WithHint(nil, "hint"))
	assert.Nil(t, WithDetail(nil, "detail"))
}

func ExampleWrap() {
	err := Wrap(ErrCycleDetected, "alias VkFooKHR")
	fmt.Println(err)
	// Output: alias VkFooKHR: alias cycle detected
}
