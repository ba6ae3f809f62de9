package catalog

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/specialistvlad/reqgraph/internal/requirement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNewDiscipline(t *testing.T) {
	d := NewDiscipline("MC", "mc202", "Estruturas de Dados", strPtr("MC102 ou *MC202"))
	assert.Equal(t, "MC202", d.Code)
	assert.Equal(t, "MC", d.Group)
	assert.Equal(t, requirement.Present, d.Requirements.Presence)
	assert.Empty(t, d.RequiredBy())

	none := NewDiscipline("MC", "MC102", "Algoritmos", nil)
	assert.Equal(t, requirement.Absent, none.Requirements.Presence)

	bad := NewDiscipline("MC", "MC322", "Programação OO", strPtr("AB12+XY999"))
	assert.Equal(t, requirement.Invalid, bad.Requirements.Presence)
}

func TestDiscipline_AddRequiredBy(t *testing.T) {
	d := NewDiscipline("MC", "MC102", "Algoritmos", nil)

	assert.True(t, d.AddRequiredBy("MC202"))
	assert.False(t, d.AddRequiredBy("MC202"), "adding the same edge twice must be a no-op")
	assert.True(t, d.AddRequiredBy("MC122"))

	assert.Equal(t, []string{"MC122", "MC202"}, d.RequiredBy())
}

func TestDiscipline_AddRequiredByConcurrent(t *testing.T) {
	d := NewDiscipline("MC", "MC102", "Algoritmos", nil)
	numGoroutines := 100
	var wg sync.WaitGroup

	wg.Add(numGoroutines)
	for i := range numGoroutines {
		go func(i int) {
			defer wg.Done()
			// Every code is added by two goroutines.
			d.AddRequiredBy(fmt.Sprintf("XX%03d", i%50))
		}(i)
	}
	wg.Wait()

	assert.Len(t, d.RequiredBy(), 50)
}

func TestIndex_Merge(t *testing.T) {
	t.Run("union of shards", func(t *testing.T) {
		ix := NewIndex()
		require.NoError(t, ix.Merge([]*Discipline{
			NewDiscipline("MC", "MC102", "Algoritmos", nil),
			NewDiscipline("MC", "MC202", "Estruturas de Dados", strPtr("MC102")),
		}))
		require.NoError(t, ix.Merge([]*Discipline{
			NewDiscipline("MA", "MA111", "Cálculo I", nil),
		}))

		assert.Equal(t, 3, ix.Len())
		d, ok := ix.Get("MC202")
		require.True(t, ok)
		assert.Equal(t, "MC202", d.Code)

		_, ok = ix.Get("ZZ999")
		assert.False(t, ok)
	})

	t.Run("identical duplicate is kept once", func(t *testing.T) {
		ix := NewIndex()
		require.NoError(t, ix.Merge([]*Discipline{NewDiscipline("MC", "MC102", "Algoritmos", nil)}))
		require.NoError(t, ix.Merge([]*Discipline{NewDiscipline("MC", "MC102", "Algoritmos", nil)}))
		assert.Equal(t, 1, ix.Len())
	})

	t.Run("conflicting duplicate across shards", func(t *testing.T) {
		ix := NewIndex()
		require.NoError(t, ix.Merge([]*Discipline{NewDiscipline("MC", "MC102", "Algoritmos", nil)}))

		err := ix.Merge([]*Discipline{
			NewDiscipline("MA", "MA111", "Cálculo I", nil),
			NewDiscipline("MA", "MC102", "Algoritmos e Programação", nil),
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrIntegrity))

		var integrityErr *IntegrityError
		require.ErrorAs(t, err, &integrityErr)
		assert.Equal(t, "MC102", integrityErr.Code)
		assert.Equal(t, []string{"MC", "MA"}, integrityErr.Groups)

		// The failed shard must not have been partially merged.
		_, ok := ix.Get("MA111")
		assert.False(t, ok)
		assert.Equal(t, 1, ix.Len())
	})

	t.Run("conflicting duplicate inside one shard", func(t *testing.T) {
		ix := NewIndex()
		err := ix.Merge([]*Discipline{
			NewDiscipline("MC", "MC102", "Algoritmos", strPtr("MA111")),
			NewDiscipline("MC", "MC102", "Algoritmos", strPtr("MA141")),
		})
		assert.ErrorIs(t, err, ErrIntegrity)
		assert.Zero(t, ix.Len())
	})

	t.Run("sealed index rejects merges", func(t *testing.T) {
		ix := NewIndex()
		ix.Seal()
		assert.True(t, ix.Sealed())
		err := ix.Merge([]*Discipline{NewDiscipline("MC", "MC102", "Algoritmos", nil)})
		assert.ErrorIs(t, err, ErrSealed)
	})
}

func TestIndex_AllAndGroups(t *testing.T) {
	ix := NewIndex()
	require.NoError(t, ix.Merge([]*Discipline{
		NewDiscipline("MC", "MC202", "Estruturas de Dados", nil),
		NewDiscipline("MC", "MC102", "Algoritmos", nil),
		NewDiscipline("F ", "F 000", "Física Geral", nil),
		NewDiscipline("MA", "MA111", "Cálculo I", nil),
	}))

	var codes []string
	for _, d := range ix.All() {
		codes = append(codes, d.Code)
	}
	assert.Equal(t, []string{"F 000", "MA111", "MC102", "MC202"}, codes)

	names, byGroup := ix.Groups()
	assert.Equal(t, []string{"F ", "MA", "MC"}, names)
	require.Len(t, byGroup["MC"], 2)
	assert.Equal(t, "MC102", byGroup["MC"][0].Code)
	assert.Contains(t, ix.String(), "disciplines: 4")
}
