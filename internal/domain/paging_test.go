package domain_test

import (
	"testing"

	"meddiary/internal/domain"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		from, to string
		want     int
	}{
		{"2024-01-01", "2024-01-01", 1},
		{"2024-01-01", "2024-01-30", 1},
		{"2024-01-01", "2024-01-31", 2},
		{"2024-01-01", "2024-03-30", 3},
		{"2024-01-02", "2024-01-01", 1},
	}
	for _, tc := range tests {
		if got := domain.TotalPages(tc.from, tc.to, domain.PageDays); got != tc.want {
			t.Errorf("TotalPages(%q, %q) = %d; want %d", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestPageWindow(t *testing.T) {
	from, to := "2024-01-01", "2024-03-10" // 70 days

	tests := []struct {
		page   int
		want   domain.Window
		wantOK bool
	}{
		{0, domain.Window{From: "2024-02-10", To: "2024-03-10"}, true},
		{1, domain.Window{From: "2024-01-11", To: "2024-02-09"}, true},
		{2, domain.Window{From: "2024-01-01", To: "2024-01-10"}, true},
		{3, domain.Window{}, false},
		{-1, domain.Window{}, false},
		{400000000000000000, domain.Window{}, false},
		{int(^uint(0) >> 1), domain.Window{}, false},
	}
	for _, tc := range tests {
		got, ok := domain.PageWindow(from, to, tc.page, domain.PageDays)
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("PageWindow(page=%d) = %+v, %v; want %+v, %v", tc.page, got, ok, tc.want, tc.wantOK)
		}
	}
}
