package auth

import (
	"context"
	"errors"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
)

// トークンはあるがユーザーが消えている
var ErrUserNotFound = errors.New("user not found")

type GetMeUsecase struct {
	userRepo repository.UserRepository
}

func NewGetMeUsecase(userRepo repository.UserRepository) *GetMeUsecase {
	return &GetMeUsecase{userRepo: userRepo}
}

func (u *GetMeUsecase) Execute(ctx context.Context, userID int64) (model.User, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	return safeUser(user), nil
}
