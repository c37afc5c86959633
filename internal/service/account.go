package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"task_manager/internal/model"
	"task_manager/internal/repository"
	"task_manager/internal/utils"
)

// accountTable picks the users or the admins repository out of a store
type accountTable func(repository.Store) repository.AccountRepository

var (
	usersTable  accountTable = repository.Store.Users
	adminsTable accountTable = repository.Store.Admins
)

// validateNewAccount trims the text fields of req in place and checks every field
func validateNewAccount(req *model.CreateAccountRequest) error {
	req.Identification = strings.TrimSpace(req.Identification)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	verr := &ValidationError{}
	if req.Identification == "" {
		verr.Add(FieldIdentification, msgIdentificationRequired)
	} else {
		checkIdentification(req.Identification, verr)
	}
	if req.FirstName == "" {
		verr.Add(FieldFirstName, msgFirstNameRequired)
	} else {
		checkName(FieldFirstName, req.FirstName, msgFirstNameShort, msgFirstNameTooLong, verr)
	}
	if req.LastName == "" {
		verr.Add(FieldLastName, msgLastNameRequired)
	} else {
		checkName(FieldLastName, req.LastName, msgLastNameShort, msgLastNameTooLong, verr)
	}
	switch {
	case req.Password == "":
		verr.Add(FieldPassword, msgPasswordRequired)
	case !utils.ValidatePassword(req.Password):
		verr.Add(FieldPassword, msgPasswordWeak)
	}

	if verr.Empty() {
		return nil
	}
	return verr
}

func checkIdentification(v string, verr *ValidationError) {
	switch {
	case utf8.RuneCountInString(v) > utils.MaxIdentificationLength:
		verr.Add(FieldIdentification, msgIdentificationTooLong)
	case !utils.ValidateIdentification(v):
		verr.Add(FieldIdentification, msgIdentificationFormat)
	}
}

func checkName(field, v, shortMsg, longMsg string, verr *ValidationError) {
	switch {
	case utf8.RuneCountInString(v) > utils.MaxNameLength:
		verr.Add(field, longMsg)
	case !utils.ValidateName(v):
		verr.Add(field, shortMsg)
	}
}

// validateAccountChanges checks the fields present in a partial update.
// selfService switches the password fields to the current/new pair.
func validateAccountChanges(req *model.UpdateAccountRequest, selfService bool) *ValidationError {
	verr := &ValidationError{}

	if req.Identification != nil {
		v := strings.TrimSpace(*req.Identification)
		req.Identification = &v
		if v == "" {
			verr.Add(FieldIdentification, msgIdentificationEmpty)
		} else {
			checkIdentification(v, verr)
		}
	}
	if req.FirstName != nil {
		v := strings.TrimSpace(*req.FirstName)
		req.FirstName = &v
		if v == "" {
			verr.Add(FieldFirstName, msgFirstNameEmpty)
		} else {
			checkName(FieldFirstName, v, msgFirstNameShort, msgFirstNameTooLong, verr)
		}
	}
	if req.LastName != nil {
		v := strings.TrimSpace(*req.LastName)
		req.LastName = &v
		if v == "" {
			verr.Add(FieldLastName, msgLastNameEmpty)
		} else {
			checkName(FieldLastName, v, msgLastNameShort, msgLastNameTooLong, verr)
		}
	}

	if selfService {
		if req.NewPassword != nil {
			if !utils.ValidatePassword(*req.NewPassword) {
				verr.Add(FieldNewPassword, msgNewPasswordWeak)
			}
			if req.CurrentPassword == nil || *req.CurrentPassword == "" {
				verr.Add(FieldCurrentPassword, msgCurrentPasswordMissing)
			}
		}
	} else if req.Password != nil {
		switch {
		case *req.Password == "":
			verr.Add(FieldPassword, msgPasswordEmpty)
		case !utils.ValidatePassword(*req.Password):
			verr.Add(FieldPassword, msgPasswordWeak)
		}
	}
	return verr
}

// authenticate returns the account when the password matches its hash.
// Unknown identification and wrong password yield the same error.
func authenticate(ctx context.Context, repo repository.AccountRepository, identification, password string) (*model.Account, error) {
	verr := &ValidationError{}
	if strings.TrimSpace(identification) == "" {
		verr.Add(FieldIdentification, msgIdentificationRequired)
	}
	if password == "" {
		verr.Add(FieldPassword, msgPasswordRequired)
	}
	if !verr.Empty() {
		return nil, verr
	}

	account, err := repo.FindByIdentification(ctx, strings.TrimSpace(identification))
	if err != nil {
		return nil, fmt.Errorf("error finding account by identification: %w", err)
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

// createAccount validates req, checks the identification is free and inserts
// the account in one transaction.
func createAccount(ctx context.Context, store repository.Store, table accountTable, req model.CreateAccountRequest, conflictMsg string) (*model.Account, error) {
	if err := validateNewAccount(&req); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	account := &model.Account{
		Identification: req.Identification,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		PasswordHash:   hashedPassword,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		repo := table(tx)
		taken, err := repo.IdentificationExists(ctx, account.Identification, 0)
		if err != nil {
			return err
		}
		if taken {
			return &ConflictError{Field: FieldIdentification, Message: conflictMsg}
		}
		if err := repo.Create(ctx, account); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return &ConflictError{Field: FieldIdentification, Message: conflictMsg}
			}
			return fmt.Errorf("failed to create account in repository: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// updateAccount applies a partial update to the account id in one transaction
func updateAccount(ctx context.Context, store repository.Store, table accountTable, id int64, req model.UpdateAccountRequest, selfService bool, conflictMsg string) (*model.Account, error) {
	verr := validateAccountChanges(&req, selfService)

	var updated *model.Account
	err := store.WithTx(ctx, func(ctx context.Context, tx repository.Store) error {
		repo := table(tx)
		account, err := repo.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to find account for update: %w", err)
		}
		if account == nil {
			return ErrAccountNotFound
		}

		if selfService && req.NewPassword != nil && req.CurrentPassword != nil && *req.CurrentPassword != "" {
			if !utils.CheckPasswordHash(*req.CurrentPassword, account.PasswordHash) {
				verr.Add(FieldCurrentPassword, msgCurrentPasswordWrong)
			}
		}
		if !verr.Empty() {
			return verr
		}

		if req.Identification != nil && *req.Identification != account.Identification {
			taken, err := repo.IdentificationExists(ctx, *req.Identification, account.ID)
			if err != nil {
				return err
			}
			if taken {
				return &ConflictError{Field: FieldIdentification, Message: conflictMsg}
			}
			account.Identification = *req.Identification
		}
		if req.FirstName != nil {
			account.FirstName = *req.FirstName
		}
		if req.LastName != nil {
			account.LastName = *req.LastName
		}

		newPassword := req.Password
		if selfService {
			newPassword = req.NewPassword
		}
		if newPassword != nil {
			hashed, err := utils.HashPassword(*newPassword)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			account.PasswordHash = hashed
		}
		account.UpdatedAt = time.Now()

		rows, err := repo.Update(ctx, account)
		if err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return &ConflictError{Field: FieldIdentification, Message: conflictMsg}
			}
			return fmt.Errorf("failed to update account in repository: %w", err)
		}
		if rows == 0 {
			return ErrAccountNotFound
		}
		updated = account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func findAccount(ctx context.Context, repo repository.AccountRepository, id int64) (*model.Account, error) {
	account, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find account by ID: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}
