package crud

import "strconv"

const (
	PageSize         = 20
	RelationPageSize = 10
)

type Page struct {
	Count       int  `json:"count"`
	Number      int  `json:"page"`
	NumPages    int  `json:"num_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
	size        int
}

// NewPage clamps the requested page into range. Unparseable input means page 1.
func NewPage(raw string, count, size int) Page {
	if size <= 0 {
		size = PageSize
	}
	numPages := (count + size - 1) / size
	if numPages == 0 {
		numPages = 1
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		n = 1
	}
	if n > numPages {
		n = numPages
	}

	return Page{
		Count:       count,
		Number:      n,
		NumPages:    numPages,
		HasNext:     n < numPages,
		HasPrevious: n > 1,
		size:        size,
	}
}

func (p Page) Limit() int  { return p.size }
func (p Page) Offset() int { return (p.Number - 1) * p.size }
