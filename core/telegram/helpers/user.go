package helpers

import "context"

// CurrentUser resolves a Telegram user ID to a domain entity via a
// repository that implements ByTelegramID. The generic type T allows
// different projects to supply their own user model.
func CurrentUser[T any](
	ctx context.Context,
	repo interface {
		ByTelegramID(context.Context, int64) (T, error)
	},
	tgID int64,
) (T, error) {
	var zero T
	if repo == nil {
		return zero, nil
	}
	return repo.ByTelegramID(ctx, tgID)
}
