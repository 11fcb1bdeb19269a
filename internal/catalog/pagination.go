package catalog

// PageLink is one entry of the pager. Gap entries render as an ellipsis.
type PageLink struct {
	Number  int
	Query   Query
	Current bool
	Gap     bool
}

const pagerWindow = 2

// Pages builds the pager for q given the server's last page: first, last, and a window
// around the current page, with gaps between.
func Pages(q Query, last int) []PageLink {
	if last <= 1 {
		return nil
	}
	cur := q.Page
	if cur > last {
		cur = last
	}
	if cur < 1 {
		cur = 1
	}
	numbers := make([]int, 0, 2*pagerWindow+3)
	numbers = append(numbers, 1)
	for n := max(2, cur-pagerWindow); n <= min(last-1, cur+pagerWindow); n++ {
		numbers = append(numbers, n)
	}
	numbers = append(numbers, last)

	links := make([]PageLink, 0, 2*len(numbers))
	for i, n := range numbers {
		if i > 0 && n-numbers[i-1] > 1 {
			links = append(links, PageLink{Gap: true})
		}
		links = append(links, PageLink{Number: n, Query: q.WithPage(n), Current: n == cur})
	}
	return links
}
