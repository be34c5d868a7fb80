package core

import "testing"

func donation(id, date string, satang int64) Donation {
	d, _ := ParseDate(date)
	return Donation{ID: id, FullName: "n", Amount: Money{Satang: satang}, Date: d}
}

func TestTotalSumsAllRegardlessOfOrder(t *testing.T) {
	list := []Donation{
		donation("1", "2024-01-01", 10000),
		donation("2", "2024-03-01", 2500),
		donation("3", "2023-12-31", 75),
	}
	if got := Total(list); got.Satang != 12575 {
		t.Fatalf("total = %d, want 12575", got.Satang)
	}

	// Reversed order, same sum
	rev := []Donation{list[2], list[1], list[0]}
	if got := Total(rev); got.Satang != 12575 {
		t.Fatalf("reversed total = %d, want 12575", got.Satang)
	}

	if got := Total(nil); got.Satang != 0 {
		t.Fatalf("empty total = %d, want 0", got.Satang)
	}
}

func TestTotalOnMatchesExactDayOnly(t *testing.T) {
	day := NewDate(2024, 5, 10)
	list := []Donation{
		donation("1", "2024-05-10", 100),
		donation("2", "2024-05-09", 200), // yesterday contributes 0
		donation("3", "2024-05-11", 400), // tomorrow contributes 0
		donation("4", "2024-05-10", 50),
	}
	if got := TotalOn(list, day); got.Satang != 150 {
		t.Fatalf("today total = %d, want 150", got.Satang)
	}
}

func TestSummarize(t *testing.T) {
	day := NewDate(2024, 5, 10)
	list := []Donation{
		donation("1", "2024-05-10", 100),
		donation("2", "2024-01-01", 900),
	}
	got := Summarize(list, day)
	if got.All.Satang != 1000 || got.Today.Satang != 100 {
		t.Fatalf("unexpected totals: %+v", got)
	}
}

func TestSortByDateDescPlacesNewestFirst(t *testing.T) {
	list := []Donation{
		donation("1", "2024-01-01", 1),
		donation("2", "2024-03-01", 1),
	}
	SortByDateDesc(list)
	if list[0].ID != "2" || list[1].ID != "1" {
		t.Fatalf("unexpected order: %s, %s", list[0].ID, list[1].ID)
	}
}

func TestSortByDateDescIsStableForTies(t *testing.T) {
	list := []Donation{
		donation("a", "2024-02-01", 1),
		donation("b", "2024-02-01", 1),
		donation("c", "2024-02-02", 1),
	}
	SortByDateDesc(list)
	if list[0].ID != "c" || list[1].ID != "a" || list[2].ID != "b" {
		t.Fatalf("unexpected order: %s %s %s", list[0].ID, list[1].ID, list[2].ID)
	}
}

func TestRecentCapsLength(t *testing.T) {
	var list []Donation
	for i := 0; i < 15; i++ {
		list = append(list, donation("x", "2024-01-01", 1))
	}
	if got := Recent(list, 10); len(got) != 10 {
		t.Fatalf("recent length = %d, want 10", len(got))
	}
	if got := Recent(list[:3], 10); len(got) != 3 {
		t.Fatalf("short list length = %d, want 3", len(got))
	}
}
