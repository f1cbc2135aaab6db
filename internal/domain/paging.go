package domain

// PageDays is the size of one history page.
const PageDays = 30

// Window is an inclusive date range.
type Window struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// RangeDays returns the number of dates in [from, to], at least 1.
func RangeDays(from, to string) int {
	return max(1, DaysBetween(from, to)+1)
}

// TotalPages returns how many pages of size days cover [from, to].
func TotalPages(from, to string, size int) int {
	if size <= 0 {
		size = PageDays
	}
	n := RangeDays(from, to)
	return max(1, (n+size-1)/size)
}

// PageWindow returns the sub-window of [from, to] shown on page, counting
// pages from the newest date backwards. ok is false past the last page.
func PageWindow(from, to string, page, size int) (w Window, ok bool) {
	if size <= 0 {
		size = PageDays
	}
	if page < 0 || !ValidDay(to) {
		return Window{}, false
	}
	total := RangeDays(from, to)
	if page > (total-1)/size {
		return Window{}, false
	}
	offset := page * size
	winTo := AddDays(to, -offset)
	n := min(size, total-offset)
	return Window{From: AddDays(winTo, -(n - 1)), To: winTo}, true
}
