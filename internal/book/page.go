package book

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// SortOrder orders results by one API property.
type SortOrder struct {
	Property  string
	Direction Direction
}

func (o SortOrder) String() string {
	return o.Property + ": " + string(o.Direction)
}

var (
	sortByID            = SortOrder{Property: "id", Direction: Asc}
	sortByPublishedDate = SortOrder{Property: "publishedDate", Direction: Asc}
)

// sortColumns maps sortable API properties to their column names.
var sortColumns = map[string]string{
	"id":            "id",
	"title":         "title",
	"author":        "author",
	"publishedDate": "published_date",
}

// PageRequest selects one zero-based page of an ordered result.
type PageRequest struct {
	Page int
	Size int
	Sort []SortOrder
}

// ParsePageRequest reads page, size and sort from query parameters.
// Unparseable page and size values fall back to defaults later; an unknown
// sort property is an error.
func ParsePageRequest(q url.Values) (PageRequest, error) {
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("size"))

	sort, err := ParseSort(q["sort"])
	if err != nil {
		return PageRequest{}, err
	}
	return PageRequest{Page: page, Size: size, Sort: sort}, nil
}

// ParseSort parses sort parameters of the form "property[,property...][,asc|desc]".
func ParseSort(values []string) ([]SortOrder, error) {
	var orders []SortOrder
	for _, v := range values {
		parts := strings.Split(v, ",")
		dir := Asc
		if last := strings.TrimSpace(parts[len(parts)-1]); len(parts) > 1 {
			switch strings.ToUpper(last) {
			case string(Asc):
				parts = parts[:len(parts)-1]
			case string(Desc):
				dir = Desc
				parts = parts[:len(parts)-1]
			}
		}
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if _, ok := sortColumns[p]; !ok {
				return nil, &InvalidSortError{Value: v}
			}
			orders = append(orders, SortOrder{Property: p, Direction: dir})
		}
	}
	return orders, nil
}

// withDefaults clamps page and size and fills in the default sort.
func (p PageRequest) withDefaults(def SortOrder) (PageRequest, error) {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	// Offset must not overflow.
	if maxPage := math.MaxInt / p.Size; p.Page > maxPage {
		p.Page = maxPage
	}
	if len(p.Sort) == 0 {
		p.Sort = []SortOrder{def}
	}
	for _, o := range p.Sort {
		if _, ok := sortColumns[o.Property]; !ok {
			return PageRequest{}, &InvalidSortError{Value: o.Property}
		}
		if o.Direction != Asc && o.Direction != Desc {
			return PageRequest{}, &InvalidSortError{Value: o.Property + "," + string(o.Direction)}
		}
	}
	return p, nil
}

func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// OrderBy renders an ORDER BY list for the requested sort. Rows with equal
// keys are ordered by id so pages never overlap.
func (p PageRequest) OrderBy() string {
	terms := make([]string, 0, len(p.Sort)+1)
	hasID := false
	for _, o := range p.Sort {
		col := sortColumns[o.Property]
		if col == "id" {
			hasID = true
		}
		terms = append(terms, col+" "+string(o.Direction))
	}
	if !hasID {
		terms = append(terms, "id ASC")
	}
	return strings.Join(terms, ", ")
}

func (p PageRequest) sortDescriptor() string {
	parts := make([]string, len(p.Sort))
	for i, o := range p.Sort {
		parts[i] = o.String()
	}
	return strings.Join(parts, ", ")
}

// Page is one slice of an ordered result plus pagination metadata.
type Page[T any] struct {
	Content       []T    `json:"content"`
	TotalElements int64  `json:"totalElements"`
	TotalPages    int    `json:"totalPages"`
	PageNumber    int    `json:"number"`
	PageSize      int    `json:"size"`
	IsFirst       bool   `json:"first"`
	IsLast        bool   `json:"last"`
	Sort          string `json:"sort"`
}

// NewPage builds the envelope for content fetched with req out of total
// matching rows.
func NewPage[T any](content []T, total int64, req PageRequest) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		PageNumber:    req.Page,
		PageSize:      req.Size,
		IsFirst:       req.Page == 0,
		IsLast:        req.Page+1 >= totalPages,
		Sort:          req.sortDescriptor(),
	}
}
