package domain

import "context"

// VisitSource serves pages of visit records
type VisitSource interface {
	Visits(ctx context.Context, q Query) (VisitPage, error)
}

// ReferenceSource serves the filter option lists
type ReferenceSource interface {
	Categories(ctx context.Context) ([]string, error)
	DMAs(ctx context.Context) ([]string, error)
}

// Source is the full visits API surface
type Source interface {
	VisitSource
	ReferenceSource
}
