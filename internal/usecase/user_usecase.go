package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"vira/internal/domain/entity"
	"vira/internal/domain/repository"
	"vira/pkg/errors"
	"vira/pkg/logger"
)

const minUsernameLength = 3

type UserUseCase struct {
	userRepo  repository.UserRepository
	orderRepo repository.OrderRepository
}

func NewUserUseCase(userRepo repository.UserRepository, orderRepo repository.OrderRepository) *UserUseCase {
	return &UserUseCase{
		userRepo:  userRepo,
		orderRepo: orderRepo,
	}
}

type UpdateProfileInput struct {
	Username  string
	FirstName string
	LastName  string
	Phone     string
	Address   string
	Bio       string
	AvatarURL string
}

func (uc *UserUseCase) GetProfile(ctx context.Context, device string) (*entity.User, error) {
	return uc.userRepo.Get(ctx, device)
}

// UpdateProfile overwrites the fields that are non-empty in input.
func (uc *UserUseCase) UpdateProfile(ctx context.Context, device string, input UpdateProfileInput) (*entity.User, error) {
	user, err := uc.userRepo.Get(ctx, device)
	if err != nil {
		return nil, err
	}

	if username := strings.TrimSpace(input.Username); username != "" {
		if utf8.RuneCountInString(username) < minUsernameLength {
			return nil, errors.BadRequest("Username must be at least 3 characters", nil)
		}
		user.Username = username
	}

	set := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	set(&user.FirstName, input.FirstName)
	set(&user.LastName, input.LastName)
	set(&user.Phone, input.Phone)
	set(&user.Address, input.Address)
	set(&user.Bio, input.Bio)
	set(&user.AvatarURL, input.AvatarURL)

	user.UpdatedAt = time.Now().UnixMilli()
	if err := uc.userRepo.Save(ctx, device, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *UserUseCase) UpdatePassword(ctx context.Context, device, current, next string) error {
	stored, err := uc.userRepo.GetPassword(ctx, device)
	if err != nil && !errors.Is(err, errors.CodeNotFound) {
		return err
	}
	if ok, _ := passwordMatches(stored, current); stored == "" || !ok {
		return errors.BadRequest("Current password is incorrect", nil)
	}
	if utf8.RuneCountInString(next) < minPasswordLength {
		return errors.BadRequest("Password must be at least 6 characters", nil)
	}

	credential, err := hashPassword(next)
	if err != nil {
		return errors.Internal("Failed to secure password", err)
	}
	if err := uc.userRepo.SavePassword(ctx, device, credential); err != nil {
		return err
	}

	logger.Info("Password changed: device=%s", device)
	return nil
}

// OpenStore turns the account into a seller. Calling it again only updates
// the store name.
func (uc *UserUseCase) OpenStore(ctx context.Context, device, storeName string) (*entity.User, error) {
	user, err := uc.userRepo.Get(ctx, device)
	if err != nil {
		return nil, err
	}

	user.HasStore = true
	user.Role = entity.RoleSeller
	if name := strings.TrimSpace(storeName); name != "" {
		user.StoreName = name
	}
	user.UpdatedAt = time.Now().UnixMilli()

	if err := uc.userRepo.Save(ctx, device, user); err != nil {
		return nil, err
	}

	logger.Info("Store opened: device=%s, store=%s", device, user.SellerStoreName())
	return user, nil
}

// Activity lists wallet movements derived from the device's orders, newest
// first. Every order is a purchase; a cancelled order adds a refund.
func (uc *UserUseCase) Activity(ctx context.Context, device string) ([]entity.ActivityEntry, error) {
	orders, err := uc.orderRepo.List(ctx, device)
	if err != nil {
		return nil, err
	}

	entries := make([]entity.ActivityEntry, 0, len(orders))
	for _, o := range orders {
		if o.Status == entity.OrderStatusCancelled {
			date := o.Date
			if o.CancelledAt > 0 {
				date = time.UnixMilli(o.CancelledAt).Format(dateLayout)
			}
			entries = append(entries, entity.ActivityEntry{
				Type:    entity.ActivityRefund,
				OrderID: o.ID,
				Store:   o.Store,
				Amount:  o.Total,
				Date:    date,
				Status:  o.Status,
			})
		}
		entries = append(entries, entity.ActivityEntry{
			Type:    entity.ActivityPurchase,
			OrderID: o.ID,
			Store:   o.Store,
			Amount:  o.Total.Neg(),
			Date:    o.Date,
			Status:  o.Status,
		})
	}
	return entries, nil
}
