package catalog

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "tool not found" }

// Repo persists catalog tools and submissions.
type Repo interface {
	List(ctx context.Context) ([]Tool, error)
	ListByCategory(ctx context.Context, category string) ([]Tool, error)
	Get(ctx context.Context, id string) (Tool, error)
	Upsert(ctx context.Context, tool Tool) error
	CategoryStats(ctx context.Context) ([]CategoryStat, error)
	CreateSubmission(ctx context.Context, sub Submission) error
}
