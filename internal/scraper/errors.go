package scraper

import "errors"

var (
	// ErrStructural means the page could not be read as a listing table at all: the
	// table body is missing, the rows shrank below the requested count after a reload,
	// a row has too few cells, or the document could not be obtained from the driver.
	ErrStructural = errors.New("listing table structure is not as expected")
	// ErrInsufficientData means the page renders fewer rows than requested.
	ErrInsufficientData = errors.New("listing has fewer rows than requested")
)
