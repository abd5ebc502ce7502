// Package domain contains the core data structures and domain logic for the application.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// Repo identifies a GitHub repository by its owner and name.
// It is used both as a lookup key and as a chart legend label.
type Repo struct {
	Owner string
	Name  string
}

// ParseRepo parses an "owner/name" string into a Repo.
func ParseRepo(s string) (Repo, error) {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return Repo{}, fmt.Errorf("invalid repository format %q: expected owner/repo", s)
	}
	owner := strings.TrimSpace(parts[0])
	name := strings.TrimSpace(parts[1])
	if owner == "" || name == "" || owner != parts[0] || name != parts[1] {
		return Repo{}, fmt.Errorf("invalid repository format %q: expected owner/repo", s)
	}
	return Repo{Owner: owner, Name: name}, nil
}

// FullName returns the "owner/name" form.
func (r Repo) FullName() string {
	return r.Owner + "/" + r.Name
}

// ShortName returns the repository name without the owner,
// used for chart legends and table headers.
func (r Repo) ShortName() string {
	return r.Name
}

// DateRange is an inclusive calendar date range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange validates that start is not after end.
func NewDateRange(start, end time.Time) (DateRange, error) {
	if end.Before(start) {
		return DateRange{}, fmt.Errorf("end date %s is before start date %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return DateRange{Start: start, End: end}, nil
}

// WeekStart returns the Monday at 00:00 UTC that begins the ISO calendar
// week containing t. The week start day is fixed to Monday.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return day.AddDate(0, 0, -offset)
}

// WeeklyTable maps (week-start date, repository) to a commit count.
// Rows cover every Monday from the week containing the range start through
// the week containing the range end, with zero-filled cells so the rendered
// chart has contiguous, evenly spaced bars. Columns keep the order the
// repositories were supplied in; supplying the same repository twice maps
// both to one column whose counts accumulate.
type WeeklyTable struct {
	weeks  []time.Time
	repos  []Repo
	cols   map[string]int // FullName -> column index
	counts [][]int        // counts[row][col]
}

// NewWeeklyTable builds a zero-filled table for the given range and
// repository list. An empty repository list yields an empty table with no
// rows and no columns.
func NewWeeklyTable(rng DateRange, repos []Repo) *WeeklyTable {
	t := &WeeklyTable{cols: make(map[string]int)}
	if len(repos) == 0 {
		return t
	}
	for _, r := range repos {
		if _, ok := t.cols[r.FullName()]; ok {
			continue
		}
		t.cols[r.FullName()] = len(t.repos)
		t.repos = append(t.repos, r)
	}
	for w := WeekStart(rng.Start); !w.After(WeekStart(rng.End)); w = w.AddDate(0, 0, 7) {
		t.weeks = append(t.weeks, w)
	}
	for range t.weeks {
		t.counts = append(t.counts, make([]int, len(t.repos)))
	}
	return t
}

// Weeks returns the row axis: week-start dates in ascending order.
func (t *WeeklyTable) Weeks() []time.Time {
	return t.weeks
}

// Repos returns the column axis in its stable supplied order.
func (t *WeeklyTable) Repos() []Repo {
	return t.repos
}

// Add increments the cell for the week containing date. Dates whose week
// falls outside the row range, and repositories not in the column set,
// are ignored.
func (t *WeeklyTable) Add(repo Repo, date time.Time) {
	col, ok := t.cols[repo.FullName()]
	if !ok || len(t.weeks) == 0 {
		return
	}
	week := WeekStart(date)
	row := int(week.Sub(t.weeks[0]).Hours() / (24 * 7))
	if row < 0 || row >= len(t.weeks) || !t.weeks[row].Equal(week) {
		return
	}
	t.counts[row][col]++
}

// Count returns the commit count for a week row and repository column.
func (t *WeeklyTable) Count(row, col int) int {
	return t.counts[row][col]
}

// Column returns all weekly counts for one repository column, in row order.
func (t *WeeklyTable) Column(col int) []int {
	out := make([]int, len(t.weeks))
	for row := range t.weeks {
		out[row] = t.counts[row][col]
	}
	return out
}

// Empty reports whether the table has no rows or no columns.
func (t *WeeklyTable) Empty() bool {
	return len(t.weeks) == 0 || len(t.repos) == 0
}
