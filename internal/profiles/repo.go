package profiles

import "context"

var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "profile not found" }

type Repo interface {
	UpsertIdentity(ctx context.Context, id Identity) error
	Get(ctx context.Context, userID string) (Profile, error)
	Save(ctx context.Context, p Profile) error
}
