package search

import (
	"context"

	"footprint/pkg/domain"
)

//go:generate mockgen -package mocksearch -source=interface.go -destination=mock/mocksearch.go *
type Searcher interface {
	Search(ctx context.Context, identifier string) (*domain.Report, error)
}
