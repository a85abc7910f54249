package patients

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func visit(name, gender, date string) Visit {
	return Visit{Name: name, Gender: gender, VisitDate: date}
}

func TestDeriveSortAscDesc(t *testing.T) {
	set := []Visit{
		{Name: "A", Phone: "1", VisitDate: "2024-01-10"},
		{Name: "B", Phone: "2", VisitDate: "2024-01-05"},
	}

	desc := Derive(set, Query{Sort: SortDesc})
	require.Len(t, desc, 2)
	assert.Equal(t, "A", desc[0].Name)
	assert.Equal(t, "B", desc[1].Name)

	asc := Derive(set, Query{Sort: SortAsc})
	require.Len(t, asc, 2)
	assert.Equal(t, "B", asc[0].Name)
	assert.Equal(t, "A", asc[1].Name)
}

func TestDeriveSearchAndGenderFilter(t *testing.T) {
	set := []Visit{
		visit("John", GenderMale, "2024-02-01"),
		visit("Joanna", GenderFemale, "2024-02-02"),
	}

	got := Derive(set, Query{Search: "jo", Gender: GenderFemale, Sort: SortDesc})
	require.Len(t, got, 1)
	assert.Equal(t, "Joanna", got[0].Name)
}

func TestDeriveSearchIsCaseInsensitive(t *testing.T) {
	set := []Visit{
		visit("Ramesh Kumar", GenderMale, "2024-03-01"),
		visit("Sita", GenderFemale, "2024-03-02"),
	}

	for _, search := range []string{"RAMESH", "ramesh", "mesh", "Ku"} {
		got := Derive(set, Query{Search: search, Sort: SortAsc})
		require.Len(t, got, 1, "search %q", search)
		assert.Equal(t, "Ramesh Kumar", got[0].Name)
	}
}

func TestDeriveGenderFilterIsExact(t *testing.T) {
	set := []Visit{visit("Pat", "male", "2024-01-01")}

	// Lowercase stored gender must not match the canonical filter value.
	assert.Empty(t, Derive(set, Query{Gender: GenderMale}))
	assert.Len(t, Derive(set, Query{Gender: "male"}), 1)
}

func TestDeriveStability(t *testing.T) {
	// Three visits on the same day must keep their input order under both
	// sort directions.
	set := []Visit{
		visit("first", GenderMale, "2024-05-01"),
		visit("second", GenderMale, "2024-05-01"),
		visit("third", GenderMale, "2024-05-01"),
	}

	for _, order := range []SortOrder{SortAsc, SortDesc} {
		got := Derive(set, Query{Sort: order})
		require.Len(t, got, 3)
		assert.Equal(t, "first", got[0].Name, "order %s", order)
		assert.Equal(t, "second", got[1].Name, "order %s", order)
		assert.Equal(t, "third", got[2].Name, "order %s", order)
	}
}

func TestDeriveDoesNotMutateInput(t *testing.T) {
	set := []Visit{
		visit("B", GenderMale, "2024-01-02"),
		visit("A", GenderMale, "2024-01-01"),
	}

	_ = Derive(set, Query{Sort: SortAsc})

	assert.Equal(t, "B", set[0].Name)
	assert.Equal(t, "A", set[1].Name)
}

func TestDeriveIdempotent(t *testing.T) {
	set := []Visit{
		visit("Asha", GenderFemale, "2024-04-03"),
		visit("Ravi", GenderMale, "2024-04-01"),
		visit("Anu", GenderFemale, "2024-04-02"),
	}
	q := Query{Search: "a", Gender: GenderFemale, Sort: SortAsc}

	first := Derive(set, q)
	second := Derive(set, q)
	assert.Equal(t, first, second)
}

func TestDeriveEmptySet(t *testing.T) {
	got := Derive(nil, Query{Search: "x", Sort: SortDesc})
	assert.Empty(t, got)
}

func TestDeriveKeepsMalformedDates(t *testing.T) {
	set := []Visit{
		visit("good", GenderMale, "2024-01-10"),
		visit("bad", GenderMale, "not-a-date"),
	}

	asc := Derive(set, Query{Sort: SortAsc})
	require.Len(t, asc, 2, "malformed dates must not be dropped")
	// Zero-time sentinel sorts before any real date.
	assert.Equal(t, "bad", asc[0].Name)

	desc := Derive(set, Query{Sort: SortDesc})
	require.Len(t, desc, 2)
	assert.Equal(t, "bad", desc[1].Name)
}

func TestDeriveResultIsPermutationOfMatches(t *testing.T) {
	set := []Visit{
		visit("Maya", GenderFemale, "2024-01-03"),
		visit("Mohan", GenderMale, "2024-01-01"),
		visit("Meera", GenderFemale, "2024-01-02"),
		visit("Arjun", GenderMale, "2024-01-04"),
	}
	q := Query{Search: "m", Sort: SortAsc}

	got := Derive(set, q)

	want := map[string]int{}
	for _, v := range set {
		if q.Matches(v) {
			want[v.Name]++
		}
	}
	have := map[string]int{}
	for _, v := range got {
		have[v.Name]++
	}
	assert.Equal(t, want, have)
}

func TestParseSortOrder(t *testing.T) {
	assert.Equal(t, SortAsc, ParseSortOrder("asc"))
	assert.Equal(t, SortDesc, ParseSortOrder("desc"))
	assert.Equal(t, SortDesc, ParseSortOrder(""))
	assert.Equal(t, SortDesc, ParseSortOrder("garbage"))
	assert.Equal(t, SortAsc, SortDesc.Toggle())
	assert.Equal(t, SortDesc, SortAsc.Toggle())
}

func TestParseVisitDateLayouts(t *testing.T) {
	for _, s := range []string{
		"2024-01-10",
		"2024-01-10T00:00:00Z",
		"2024-01-10T00:00:00.000Z",
	} {
		got, ok := ParseVisitDate(s)
		require.True(t, ok, "parse %q", s)
		assert.Equal(t, "2024-01-10", DayString(got))
	}

	_, ok := ParseVisitDate("10/01/2024")
	assert.False(t, ok)
}
