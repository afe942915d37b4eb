package engine

import (
	"fmt"

	"github.com/piwi3910/StackLoad/internal/model"
)

// CanStack reports whether candidate may rest directly on support.
// A nil support is the container floor, which accepts anything.
// Otherwise the candidate must not be heavier than the box beneath it.
func CanStack(candidate model.Item, support *model.Item) bool {
	if support == nil {
		return true
	}
	return candidate.Category.Weight() <= support.Category.Weight()
}

// StackError explains why candidate cannot rest on support, or returns ""
// when the stacking is legal.
func StackError(candidate model.Item, support *model.Item) string {
	if CanStack(candidate, support) {
		return ""
	}
	return fmt.Sprintf("Cannot place a %s box on top of a %s box", candidate.Category, support.Category)
}
