package app

import (
	"math"
	"testing"

	"github.com/joacominatel/phonebook/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPagerTransitions(t *testing.T) {
	var p Pager
	assert.Equal(t, StateAwaitPageSizeAndSort, p.State())

	require.NoError(t, p.Start(2, "phone_num", 5))
	assert.Equal(t, StateShowingPage, p.State())
	assert.Equal(t, 3, p.Pages())
	assert.Equal(t, database.PageQuery{Limit: 2, Offset: 0, Sort: database.SortByPhone}, p.Query())

	assert.False(t, p.Prev(), "previous floors at page 1")
	assert.Equal(t, 1, p.Page())

	require.NoError(t, p.Next())
	require.NoError(t, p.Next())
	assert.Equal(t, 4, p.Offset())
	require.ErrorIs(t, p.Next(), ErrNoMorePages)
	assert.Equal(t, 3, p.Page())

	p.SetSort(database.SortByName)
	assert.Equal(t, 1, p.Page())

	p.Quit()
	assert.Equal(t, StateDone, p.State())
	assert.Equal(t, "done", p.State().String())
}

func TestPagerObserveEmptyPageEnds(t *testing.T) {
	var p Pager
	require.NoError(t, p.Start(10, "user_id", 0))
	assert.Equal(t, 0, p.Pages())
	p.observe(3)
	assert.Equal(t, StateShowingPage, p.State())
	p.observe(0)
	assert.Equal(t, StateDone, p.State())
}

func TestPagerStartRejectsBadInput(t *testing.T) {
	var p Pager
	require.ErrorIs(t, p.Start(-1, "user_id", 0), ErrInvalidPageSize)
	require.ErrorIs(t, p.Start(MaxPageSize+1, "user_id", 0), ErrInvalidPageSize)
	require.ErrorIs(t, p.Start(math.MaxInt, "user_id", 10), ErrInvalidPageSize)
	require.ErrorIs(t, p.Start(3, "1; DROP TABLE phone_book", 0), ErrInvalidSort)
	assert.Equal(t, StateAwaitPageSizeAndSort, p.State())
}

func TestPagerPagesNeverOverflows(t *testing.T) {
	var p Pager
	require.NoError(t, p.Start(MaxPageSize, "user_id", math.MaxInt64))
	assert.Positive(t, p.Pages())
	assert.Equal(t, int(math.MaxInt64/MaxPageSize+1), p.Pages())

	// Pages stays non-negative for any size, even one Start would refuse.
	p = Pager{state: StateShowingPage, size: math.MaxInt, total: 10}
	assert.Equal(t, 1, p.Pages())
	p.total = math.MaxInt64
	assert.Equal(t, 1, p.Pages())
}

func TestPagerQueryCarriesPhoneFilter(t *testing.T) {
	p := Pager{phone: "%77%"}
	require.NoError(t, p.Start(5, "user_name", 12))
	assert.Equal(t, database.PageQuery{Limit: 5, Sort: database.SortByName, Phone: "%77%"}, p.Query())
	assert.Equal(t, database.ByPhonePattern("%77%"), p.match())
}
