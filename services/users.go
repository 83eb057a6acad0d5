package services

import (
	"context"
	"errors"
	"strings"

	"github.com/meinhoongagan/bizmatch/models"
	"github.com/meinhoongagan/bizmatch/sessions"
	"github.com/meinhoongagan/bizmatch/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateUserInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	Role        string `json:"role" validate:"required,oneof=COMPANY BUYER ADMIN"`
	Description string `json:"description" validate:"max=2000"`
	Website     string `json:"website" validate:"omitempty,url"`
}

type UpdateUserInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Password    *string `json:"password" validate:"omitempty,min=8,max=72"`
	Role        *string `json:"role"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Website     *string `json:"website" validate:"omitempty,url"`
}

func (in *CreateUserInput) Normalize() {
	in.Email = utils.NormalizeEmail(in.Email)
}

func (in *UpdateUserInput) Normalize() {
	if in.Email != nil {
		email := utils.NormalizeEmail(*in.Email)
		in.Email = &email
	}
}

type UserService struct {
	db       *gorm.DB
	cost     int
	sessions sessions.Store
}

func NewUserService(db *gorm.DB, cost int, store sessions.Store) *UserService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &UserService{db: db, cost: cost, sessions: store}
}

// HashPassword bcrypt-hashes with the configured cost.
func (s *UserService) HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), s.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Authenticate returns the user for valid credentials. Unknown email and
// wrong password produce the same error.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", utils.NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.Unauthorized("Invalid email or password")
	}
	if err != nil {
		return nil, utils.FromDB(err, "User")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, utils.Unauthorized("Invalid email or password")
	}
	return &user, nil
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if err := utils.Validate(&in); err != nil {
		return nil, err
	}

	email := in.Email
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, utils.FromDB(err, "User")
	}
	if count > 0 {
		return nil, utils.Conflict("Email already in use")
	}

	hashed, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, utils.Internal("Failed to hash password", err)
	}

	user := &models.User{
		Name:        strings.TrimSpace(in.Name),
		Email:       email,
		Password:    hashed,
		Role:        models.Role(in.Role),
		Description: in.Description,
		Website:     in.Website,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, utils.Conflict("Email already in use")
		}
		return nil, utils.FromDB(err, "User")
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, utils.FromDB(err, "User")
	}
	return &user, nil
}

// List returns users ordered by name, optionally restricted to one role.
func (s *UserService) List(ctx context.Context, role string) ([]models.User, error) {
	q := s.db.WithContext(ctx).Order("name")
	if role != "" {
		if !models.Role(role).Valid() {
			return nil, utils.Validation("role must be one of [COMPANY BUYER ADMIN]")
		}
		q = q.Where("role = ?", role)
	}
	users := []models.User{}
	if err := q.Find(&users).Error; err != nil {
		return nil, utils.FromDB(err, "User")
	}
	return users, nil
}

// Update applies the non-nil fields. The role of an existing user is fixed.
func (s *UserService) Update(ctx context.Context, id uint, in UpdateUserInput) (*models.User, error) {
	if err := utils.Validate(&in); err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Role != nil && models.Role(*in.Role) != user.Role {
		return nil, utils.Validation("role cannot be changed")
	}

	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := *in.Email
		if email != user.Email {
			var count int64
			if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ? AND id <> ?", email, id).Count(&count).Error; err != nil {
				return nil, utils.FromDB(err, "User")
			}
			if count > 0 {
				return nil, utils.Conflict("Email already in use")
			}
			updates["email"] = email
		}
	}
	if in.Password != nil {
		hashed, err := s.HashPassword(*in.Password)
		if err != nil {
			return nil, utils.Internal("Failed to hash password", err)
		}
		updates["password"] = hashed
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Website != nil {
		updates["website"] = *in.Website
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, utils.Conflict("Email already in use")
			}
			return nil, utils.FromDB(err, "User")
		}
	}
	if in.Password != nil && s.sessions != nil {
		_ = s.sessions.RevokeUser(ctx, id)
	}
	return s.Get(ctx, id)
}

// Delete removes the user with their slots, meetings and notifications.
// Slots at other companies held by the user's active meetings are reopened.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, id).Error; err != nil {
			return err
		}

		var heldSlots []uint
		if err := tx.Model(&models.Meeting{}).
			Where("buyer_id = ? AND status IN ?", id, models.ActiveMeetingStatuses).
			Pluck("time_slot_id", &heldSlots).Error; err != nil {
			return err
		}
		if len(heldSlots) > 0 {
			if err := tx.Model(&models.TimeSlot{}).Where("id IN ?", heldSlots).
				Update("status", models.SlotOpen).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("company_id = ? OR buyer_id = ?", id, id).Delete(&models.Meeting{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.TimeSlot{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return utils.FromDB(err, "User")
	}

	if s.sessions != nil {
		_ = s.sessions.RevokeUser(ctx, id)
	}
	return nil
}

// Companies lists COMPANY users with their slots.
func (s *UserService) Companies(ctx context.Context) ([]models.User, error) {
	companies := []models.User{}
	err := s.db.WithContext(ctx).
		Preload("TimeSlots", func(db *gorm.DB) *gorm.DB { return db.Order("start_time") }).
		Where("role = ?", models.RoleCompany).
		Order("name").
		Find(&companies).Error
	return companies, utils.FromDB(err, "Company")
}

func (s *UserService) Company(ctx context.Context, id uint) (*models.User, error) {
	var company models.User
	err := s.db.WithContext(ctx).
		Preload("TimeSlots", func(db *gorm.DB) *gorm.DB { return db.Order("start_time") }).
		Where("id = ? AND role = ?", id, models.RoleCompany).
		First(&company).Error
	if err != nil {
		return nil, utils.FromDB(err, "Company")
	}
	return &company, nil
}
