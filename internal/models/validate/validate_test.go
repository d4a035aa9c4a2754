package validate_test

import (
	"errors"
	"testing"

	"taskManager/internal/models/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color string

const (
	red   color = "RED"
	green color = "GREEN"
)

// TestEnum checks case-insensitive parsing and the allowed set in the error
func TestEnum(t *testing.T) {
	got, err := validate.Enum("color", " green ", red, green)
	require.NoError(t, err)
	assert.Equal(t, green, got)

	_, err = validate.Enum("color", "blue", red, green)
	require.Error(t, err)

	var enumErr *validate.EnumError
	require.True(t, errors.As(err, &enumErr))
	assert.Equal(t, "blue", enumErr.Value)
	assert.Equal(t, []string{"RED", "GREEN"}, enumErr.Allowed)
	assert.Equal(t, "Invalid color. Must be one of: RED, GREEN", err.Error())
}

func TestIndex_Empty(t *testing.T) {
	i, err := validate.Index("status", "", []string{"A"})
	assert.Equal(t, -1, i)
	assert.Error(t, err)
}
