package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"task_manager/internal/model"
	"task_manager/internal/repository"
	"task_manager/internal/utils"
)

// AdminService provides the administration panel operations
type AdminService interface {
	Login(ctx context.Context, identification, password string) (*model.Account, string, error)
	Profile(ctx context.Context, adminID int64) (*model.Account, error)
	UpdateProfile(ctx context.Context, adminID int64, req model.UpdateAccountRequest) (*model.Account, error)

	ListUsers(ctx context.Context, filter model.AccountFilter) (*model.AccountPage, error)
	GetUser(ctx context.Context, userID int64) (*model.Account, error)
	CreateUser(ctx context.Context, req model.CreateAccountRequest) (*model.Account, error)
	UpdateUser(ctx context.Context, userID int64, req model.UpdateAccountRequest) (*model.Account, error)
	DeleteUser(ctx context.Context, userID int64) error
	ExportUsersCSV(ctx context.Context, filter model.AccountFilter) (*bytes.Buffer, error)

	// EnsureAdmin creates the admin unless one with the same identification
	// exists. created is false when the account was already there.
	EnsureAdmin(ctx context.Context, req model.CreateAccountRequest) (admin *model.Account, created bool, err error)
}

type adminService struct {
	store   repository.Store
	jwtUtil *utils.JWTUtil
}

// NewAdminService creates a new AdminService
func NewAdminService(store repository.Store, jwtUtil *utils.JWTUtil) AdminService {
	return &adminService{store: store, jwtUtil: jwtUtil}
}

func (s *adminService) Login(ctx context.Context, identification, password string) (*model.Account, string, error) {
	admin, err := authenticate(ctx, s.store.Admins(), identification, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.jwtUtil.GenerateToken(admin.ID, model.RoleAdmin)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return admin, token, nil
}

func (s *adminService) Profile(ctx context.Context, adminID int64) (*model.Account, error) {
	return findAccount(ctx, s.store.Admins(), adminID)
}

// UpdateProfile treats an empty password as "keep the current one"
func (s *adminService) UpdateProfile(ctx context.Context, adminID int64, req model.UpdateAccountRequest) (*model.Account, error) {
	if req.Password != nil && *req.Password == "" {
		req.Password = nil
	}
	return updateAccount(ctx, s.store, adminsTable, adminID, req, false, MsgAdminIdentification)
}

func (s *adminService) ListUsers(ctx context.Context, filter model.AccountFilter) (*model.AccountPage, error) {
	page, err := s.store.Users().List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return page, nil
}

func (s *adminService) GetUser(ctx context.Context, userID int64) (*model.Account, error) {
	return findAccount(ctx, s.store.Users(), userID)
}

func (s *adminService) CreateUser(ctx context.Context, req model.CreateAccountRequest) (*model.Account, error) {
	user, err := createAccount(ctx, s.store, usersTable, req, MsgUserIdentification)
	if err != nil {
		return nil, err
	}
	log.Printf("INFO: User %s created by an administrator with ID %d", user.Identification, user.ID)
	return user, nil
}

func (s *adminService) UpdateUser(ctx context.Context, userID int64, req model.UpdateAccountRequest) (*model.Account, error) {
	return updateAccount(ctx, s.store, usersTable, userID, req, false, MsgUserIdentification)
}

// DeleteUser removes the user together with all of its tasks
func (s *adminService) DeleteUser(ctx context.Context, userID int64) error {
	return s.store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		rows, err := tx.Users().Delete(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to delete user in repository: %w", err)
		}
		if rows == 0 {
			return ErrAccountNotFound
		}
		return nil
	})
}

// ExportUsersCSV writes every user matching filter, ignoring its paging
func (s *adminService) ExportUsersCSV(ctx context.Context, filter model.AccountFilter) (*bytes.Buffer, error) {
	buffer := &bytes.Buffer{}
	writer := csv.NewWriter(buffer)

	header := []string{"ID", "Identificacion", "Nombre", "Apellido", "Tareas", "CreadoEn", "ActualizadoEn"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	filter.PerPage = repository.MaxPerPage
	for page := 1; ; page++ {
		filter.Page = page
		result, err := s.store.Users().List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch users for CSV export: %w", err)
		}

		for _, u := range result.Items {
			tasks, err := s.store.Tasks().CountByOwner(ctx, u.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to count tasks for CSV export: %w", err)
			}
			row := []string{
				strconv.FormatInt(u.ID, 10),
				u.Identification,
				u.FirstName,
				u.LastName,
				strconv.FormatInt(tasks, 10),
				u.CreatedAt.Format(time.RFC3339),
				u.UpdatedAt.Format(time.RFC3339),
			}
			if err := writer.Write(row); err != nil {
				return nil, fmt.Errorf("failed to write CSV row: %w", err)
			}
		}

		if page >= result.Pages {
			break
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("error flushing CSV writer: %w", err)
	}
	return buffer, nil
}

func (s *adminService) EnsureAdmin(ctx context.Context, req model.CreateAccountRequest) (*model.Account, bool, error) {
	req.Identification = strings.TrimSpace(req.Identification)
	existing, err := s.store.Admins().FindByIdentification(ctx, req.Identification)
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up admin: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	admin, err := createAccount(ctx, s.store, adminsTable, req, MsgAdminIdentification)
	if err != nil {
		return nil, false, err
	}
	log.Printf("INFO: Administrator %s created with ID %d", admin.Identification, admin.ID)
	return admin, true, nil
}
