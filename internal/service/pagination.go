package service

const PAGE_SIZE = 10

// clampPage applies paginator semantics: pages start at 1 and a page past
// the end resolves to the last valid page, never an error.
func clampPage(total int64, page int) (clamped int, numPages int, offset int) {
	numPages = int((total + PAGE_SIZE - 1) / PAGE_SIZE)
	if numPages < 1 {
		numPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > numPages {
		page = numPages
	}

	return page, numPages, (page - 1) * PAGE_SIZE
}
