package store

import (
	"context"
	"time"
)

var (
	ContextTimeout = time.Duration(20) * time.Second
)

type Pagination struct {
	Offset int
	Limit  int
}

func DefaultPagination() Pagination {
	return Pagination{
		Offset: 0,
		Limit:  100,
	}
}

func (p Pagination) WithLimit(limit int) Pagination {
	p.Limit = limit
	return p
}

type Sort struct {
	Attribute string
	Ascending bool
}

func (s *Sort) Order() string {
	if s.Ascending {
		return "ASC"
	}
	return "DESC"
}

func NewDbContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), ContextTimeout)
}
