package engine

import (
	"testing"

	"github.com/piwi3910/StackLoad/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemOf(t *testing.T, label string, w, h, d float64) model.Item {
	t.Helper()
	it, err := model.NewItem(label, w, h, d)
	require.NoError(t, err)
	return it
}

func TestCanStack_FloorAcceptsEverything(t *testing.T) {
	for _, it := range []model.Item{
		itemOf(t, "light", 0.2, 0.2, 0.2),
		itemOf(t, "medium", 0.3, 0.2, 0.3),
		itemOf(t, "heavy", 0.4, 0.4, 0.4),
	} {
		assert.True(t, CanStack(it, nil), "%s should rest on the floor", it.Category)
		assert.Empty(t, StackError(it, nil))
	}
}

func TestCanStack_ReflexiveAndAntisymmetric(t *testing.T) {
	items := []model.Item{
		itemOf(t, "light", 0.2, 0.2, 0.2),
		itemOf(t, "medium", 0.3, 0.2, 0.3),
		itemOf(t, "heavy", 0.4, 0.4, 0.4),
	}

	for i := range items {
		for j := range items {
			a, b := items[i], items[j]
			if a.Category == b.Category {
				assert.True(t, CanStack(a, &b), "equal categories must stack (%s)", a.Category)
				continue
			}
			// Exactly one direction is legal across distinct categories
			assert.NotEqual(t, CanStack(a, &b), CanStack(b, &a),
				"%s/%s should be legal in exactly one direction", a.Category, b.Category)
		}
	}
}

func TestCanStack_HeavierNeverOnLighter(t *testing.T) {
	light := itemOf(t, "light", 0.2, 0.2, 0.2)
	medium := itemOf(t, "medium", 0.3, 0.2, 0.3)
	heavy := itemOf(t, "heavy", 0.4, 0.4, 0.4)

	assert.False(t, CanStack(heavy, &light))
	assert.False(t, CanStack(heavy, &medium))
	assert.False(t, CanStack(medium, &light))
	assert.True(t, CanStack(light, &heavy))
	assert.True(t, CanStack(light, &medium))
	assert.True(t, CanStack(medium, &heavy))
}

func TestStackError_NamesBothCategories(t *testing.T) {
	light := itemOf(t, "light", 0.2, 0.2, 0.2)
	heavy := itemOf(t, "heavy", 0.4, 0.4, 0.4)

	msg := StackError(heavy, &light)
	assert.Contains(t, msg, "Heavy")
	assert.Contains(t, msg, "Light")
	assert.Empty(t, StackError(light, &heavy))
}
