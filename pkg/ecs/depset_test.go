package ecs

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestDepSet_UnionIsBitwiseOr(t *testing.T) {
	a := depSetResRead(0)
	b := depSetResRead(3)

	union := a.Union(b)

	assert.True(t, union.resRead.test(0))
	assert.True(t, union.resRead.test(3))
	assert.False(t, union.resRead.test(1))
}

func TestDepSet_ReadReadNeverConflicts(t *testing.T) {
	a := depSetCompRead(5)
	b := depSetCompRead(5)

	assert.False(t, a.ConflictsWith(b))
	assert.False(t, b.ConflictsWith(a))
}

func TestDepSet_WriteWriteConflicts(t *testing.T) {
	a := depSetCompWrite(2)
	b := depSetCompWrite(2)

	assert.True(t, a.ConflictsWith(b))
}

func TestDepSet_WriteReadConflicts(t *testing.T) {
	w := depSetResWrite(1)
	r := depSetResRead(1)

	assert.True(t, w.ConflictsWith(r))
	assert.True(t, r.ConflictsWith(w))
}

func TestDepSet_DisjointIndicesNeverConflict(t *testing.T) {
	a := depSetCompWrite(0)
	b := depSetCompWrite(1)

	assert.False(t, a.ConflictsWith(b))
}

func TestDepSet_ResourceAndComponentCategoriesAreIndependent(t *testing.T) {
	// A resource write at index 0 must not conflict with a component read
	// at index 0: the categories are orthogonal bit spaces.
	resW := depSetResWrite(0)
	compR := depSetCompRead(0)

	assert.False(t, resW.ConflictsWith(compR))
}

func TestDepSet_EqualViaGoCmp(t *testing.T) {
	a := depSetCompRead(10).Union(depSetResWrite(2))
	b := depSetResWrite(2).Union(depSetCompRead(10))

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("DepSets built in different union order should be equal (-a +b):\n%s", diff)
	}
}

func TestDepSet_NotEqualViaGoCmp(t *testing.T) {
	a := depSetCompRead(10)
	b := depSetCompRead(11)

	assert.False(t, cmp.Equal(a, b))
}
