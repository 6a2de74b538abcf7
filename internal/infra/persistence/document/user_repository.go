package document

import (
	"context"
	"log/slog"
	"strings"

	"portal/internal/domain/entity"
	"portal/internal/domain/repository"
	"portal/internal/errors"

	"github.com/google/uuid"
)

// userRepository keeps accounts as documents when no relational database is configured.
// Users live under NamespaceUsers keyed by email, with an ID index under NamespaceUserIDs.
type userRepository struct {
	codec *codec
}

// NewUserRepository builds a UserRepository on top of a DocumentStore.
func NewUserRepository(store repository.DocumentStore, logger *slog.Logger) repository.UserRepository {
	return &userRepository{codec: newCodec(store, logger)}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, ok, err := loadValue[entity.User](ctx, r.codec, NamespaceUsers, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	if err := r.codec.validate.StructCtx(ctx, &user); err != nil {
		r.codec.corrupt(ctx, NamespaceUsers, normalizeEmail(email), err)

		return nil, repository.ErrUserNotFound
	}

	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	email, ok, err := loadValue[string](ctx, r.codec, NamespaceUserIDs, id.String())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return r.FindByEmail(ctx, email)
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	user.Email = normalizeEmail(user.Email)

	_, err := r.FindByEmail(ctx, user.Email)
	if err == nil {
		return repository.ErrUserExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	if err := r.codec.put(ctx, NamespaceUsers, user.Email, user); err != nil {
		return err
	}

	return r.codec.put(ctx, NamespaceUserIDs, user.ID.String(), user.Email)
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	existing, err := r.FindByID(ctx, user.ID)
	if err != nil {
		return err
	}
	if existing.Email != normalizeEmail(user.Email) {
		return errors.New("changing the account email is not supported")
	}

	return r.codec.put(ctx, NamespaceUsers, existing.Email, user)
}
