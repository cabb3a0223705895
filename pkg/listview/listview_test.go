package listview

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/caregrid/admin-api/pkg/datefilter"
	"github.com/caregrid/admin-api/pkg/pagination"
)

type rec struct {
	Name  string
	Email string
	At    time.Time
}

func fields(r rec) []string { return []string{r.Name, r.Email} }

func TestSearchMatchesSingleRecord(t *testing.T) {
	records := []rec{
		{Name: "Asha Verma", Email: "asha@example.com"},
		{Name: "Ravi Kumar", Email: "ravi@example.com"},
		{Name: "Meena Shah", Email: "meena@example.com"},
	}

	out := Apply(records, Query{Search: "RAVI"}, fields, nil)
	assert.Equal(t, 1, out.Total)
	assert.Equal(t, "Ravi Kumar", out.Items[0].Name)
}

func TestSearchChecksAllAllowListedFields(t *testing.T) {
	records := []rec{
		{Name: "Asha Verma", Email: "asha@example.com"},
		{Name: "Ravi Kumar", Email: "special@foo.com"},
	}

	out := Apply(records, Query{Search: "special"}, fields, nil)
	assert.Equal(t, 1, out.Total)
	assert.Equal(t, "Ravi Kumar", out.Items[0].Name)
}

func TestPaginationSlice(t *testing.T) {
	var records []rec
	for i := 0; i < 12; i++ {
		records = append(records, rec{Name: string(rune('a' + i))})
	}

	out := Apply(records, Query{Page: pagination.Params{Page: 1, Size: 5}}, fields, nil)
	assert.Len(t, out.Items, 5)
	assert.Equal(t, "a", out.Items[0].Name)
	assert.Equal(t, "e", out.Items[4].Name)

	out = Apply(records, Query{Page: pagination.Params{Page: 3, Size: 5}}, fields, nil)
	assert.Len(t, out.Items, 2)
	assert.Equal(t, "k", out.Items[0].Name)
	assert.Equal(t, "l", out.Items[1].Name)
	assert.Equal(t, 3, out.Pages)
}

func TestPageClampedToFilteredSet(t *testing.T) {
	var records []rec
	for i := 0; i < 12; i++ {
		records = append(records, rec{Name: "x"})
	}

	out := Apply(records, Query{Page: pagination.Params{Page: 9, Size: 5}}, fields, nil)
	assert.Equal(t, 3, out.Page)
	assert.Len(t, out.Items, 2)
}

func TestDateFilterAndCounts(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	records := []rec{
		{Name: "today", At: time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)},
		{Name: "yesterday", At: time.Date(2024, 3, 14, 8, 0, 0, 0, time.UTC)},
		{Name: "old", At: time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)},
	}
	dateOf := func(r rec) time.Time { return r.At }

	out := Apply(records, Query{
		Date: datefilter.Filter{Mode: datefilter.ModeToday, Now: now},
	}, fields, dateOf)
	assert.Equal(t, 1, out.Total)
	assert.Equal(t, "today", out.Items[0].Name)

	// Counts cover the search-matched set regardless of date mode.
	assert.Equal(t, 3, out.Counts.All)
	assert.Equal(t, 1, out.Counts.Today)
	assert.Equal(t, 1, out.Counts.Yesterday)
	assert.Equal(t, 2, out.Counts.ThisMonth)
}

func TestEmptySearchMatchesEverything(t *testing.T) {
	records := []rec{{Name: "a"}, {Name: "b"}}
	out := Apply(records, Query{}, fields, nil)
	assert.Equal(t, 2, out.Total)
}
