package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/idil/placematch/internal/app/models"
	"github.com/idil/placematch/internal/pkg/apperrors"
)

// In-memory repository fakes backing the service tests. They mirror the
// error contracts of the real repositories.

type memUserRepo struct {
	mu    sync.Mutex
	seq   int64
	users map[int64]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[int64]*models.User)}
}

func (r *memUserRepo) CreateUser(_ context.Context, user *models.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.StudentID == user.StudentID {
			return 0, apperrors.ErrIdentifierExists
		}
	}
	r.seq++
	stored := *user
	stored.ID = r.seq
	stored.CreatedAt = time.Now()
	r.users[stored.ID] = &stored
	return stored.ID, nil
}

func (r *memUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepo) GetByStudentID(_ context.Context, studentID string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.StudentID == studentID {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (r *memUserRepo) GetAll(_ context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*models.User, 0, len(r.users))
	for _, user := range r.users {
		copied := *user
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].StudentID < all[j].StudentID })
	return all, nil
}

func (r *memUserRepo) UpdateChoices(_ context.Context, userID int64, choices []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	user.Choices = append([]string(nil), choices...)
	return nil
}

func (r *memUserRepo) UpdateLastLogin(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	now := time.Now()
	user.LastLoginAt = &now
	return nil
}

type memAdminRepo struct {
	mu     sync.Mutex
	seq    int64
	admins map[int64]*models.Admin
}

func newMemAdminRepo() *memAdminRepo {
	return &memAdminRepo{admins: make(map[int64]*models.Admin)}
}

func (r *memAdminRepo) CreateAdmin(_ context.Context, admin *models.Admin) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.admins {
		if existing.Username == admin.Username {
			return 0, apperrors.ErrUsernameExists
		}
	}
	r.seq++
	stored := *admin
	stored.ID = r.seq
	stored.CreatedAt = time.Now()
	r.admins[stored.ID] = &stored
	return stored.ID, nil
}

func (r *memAdminRepo) GetByID(_ context.Context, id int64) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	admin, ok := r.admins[id]
	if !ok {
		return nil, apperrors.ErrAdminNotFound
	}
	copied := *admin
	return &copied, nil
}

func (r *memAdminRepo) GetByUsername(_ context.Context, username string) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, admin := range r.admins {
		if admin.Username == username {
			copied := *admin
			return &copied, nil
		}
	}
	return nil, apperrors.ErrAdminNotFound
}

func (r *memAdminRepo) UpdateCompanyChoices(_ context.Context, adminID int64, choices []models.CompanyChoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	admin, ok := r.admins[adminID]
	if !ok {
		return apperrors.ErrAdminNotFound
	}
	admin.CompanyChoices = append([]models.CompanyChoice(nil), choices...)
	return nil
}

func (r *memAdminRepo) UpdateLastLogin(_ context.Context, adminID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	admin, ok := r.admins[adminID]
	if !ok {
		return apperrors.ErrAdminNotFound
	}
	now := time.Now()
	admin.LastLoginAt = &now
	return nil
}

type tokenRow struct {
	kind        models.PrincipalKind
	principalID int64
}

type memTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]tokenRow
}

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{tokens: make(map[string]tokenRow)}
}

func (r *memTokenRepo) Insert(_ context.Context, token string, kind models.PrincipalKind, principalID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tokens[token]; exists {
		return apperrors.ErrTokenInvalid
	}
	r.tokens[token] = tokenRow{kind: kind, principalID: principalID}
	return nil
}

func (r *memTokenRepo) Resolve(_ context.Context, token string, kind models.PrincipalKind) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.tokens[token]
	if !ok || row.kind != kind {
		return 0, apperrors.ErrTokenNotFound
	}
	return row.principalID, nil
}

func (r *memTokenRepo) Delete(_ context.Context, token string, kind models.PrincipalKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.tokens[token]; ok && row.kind == kind {
		delete(r.tokens, token)
	}
	return nil
}

type memCompanyRepo struct {
	mu        sync.Mutex
	seq       int64
	companies map[string]*models.Company
}

func newMemCompanyRepo(names ...string) *memCompanyRepo {
	repo := &memCompanyRepo{companies: make(map[string]*models.Company)}
	for _, name := range names {
		repo.seq++
		repo.companies[name] = &models.Company{ID: repo.seq, Name: name, CreatedAt: time.Now()}
	}
	return repo
}

func (r *memCompanyRepo) Create(_ context.Context, company *models.Company) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.companies[company.Name]; exists {
		return 0, apperrors.ErrCompanyAlreadyExists
	}
	r.seq++
	stored := *company
	stored.ID = r.seq
	stored.CreatedAt = time.Now()
	r.companies[stored.Name] = &stored
	return stored.ID, nil
}

func (r *memCompanyRepo) GetAll(_ context.Context) ([]*models.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]*models.Company, 0, len(r.companies))
	for _, company := range r.companies {
		copied := *company
		all = append(all, &copied)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}
