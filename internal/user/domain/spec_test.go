package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterWithPagination(t *testing.T) {
	t.Run("Success_WindowedAndOrdered", func(t *testing.T) {
		spec := FilterWithPagination(3, 10, []string{"operators"}, "jo")

		assert.True(t, spec.OrderByIDDesc)
		assert.True(t, spec.Paged())
		assert.Equal(t, 20, spec.Offset())
		assert.Equal(t, []string{"operators"}, spec.Groups)
		assert.Equal(t, "jo", spec.UsernameContains)
		assert.True(t, spec.ReadOnly)
	})

	t.Run("Success_NoWindowWithoutPositivePage", func(t *testing.T) {
		spec := FilterWithPagination(0, 10, nil, "")

		assert.False(t, spec.Paged())
		assert.Equal(t, 0, spec.Offset())
	})

	t.Run("Success_OffsetSaturates", func(t *testing.T) {
		spec := FilterWithPagination(math.MaxInt, 10, nil, "")

		assert.True(t, spec.Paged())
		assert.Equal(t, math.MaxInt, spec.Offset())
	})

	t.Run("Success_LargestExactOffset", func(t *testing.T) {
		spec := FilterWithPagination(math.MaxInt/100+1, 100, nil, "")

		assert.Equal(t, math.MaxInt/100*100, spec.Offset())
	})

	t.Run("Success_BlankUsernameDisablesFilter", func(t *testing.T) {
		spec := Filter(nil, "   ")

		assert.Empty(t, spec.UsernameContains)
		assert.False(t, spec.OrderByIDDesc)
	})
}

func TestByID(t *testing.T) {
	spec := ByID(5)
	assert.Equal(t, int64(5), *spec.ID)
	assert.False(t, spec.ReadOnly)

	readOnly := ByIDReadOnly(5)
	assert.True(t, readOnly.ReadOnly)
}
