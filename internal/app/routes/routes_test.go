package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idil/placematch/internal/app/controllers"
	"github.com/idil/placematch/internal/app/models"
	"github.com/idil/placematch/internal/app/services"
	"github.com/idil/placematch/internal/middleware"
	"github.com/idil/placematch/internal/pkg/apperrors"
	"github.com/idil/placematch/internal/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// In-memory stores standing in for the postgres repositories.

type stubUserRepo struct {
	mu    sync.Mutex
	seq   int64
	users map[int64]*models.User
}

func (r *stubUserRepo) CreateUser(_ context.Context, user *models.User) (int64, error) {
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
	r.users[stored.ID] = &stored
	return stored.ID, nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *stubUserRepo) GetByStudentID(_ context.Context, studentID string) (*models.User, error) {
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

func (r *stubUserRepo) GetAll(_ context.Context) ([]*models.User, error) {
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

func (r *stubUserRepo) UpdateChoices(_ context.Context, userID int64, choices []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return apperrors.ErrStudentNotFound
	}
	user.Choices = append([]string(nil), choices...)
	return nil
}

func (r *stubUserRepo) UpdateLastLogin(_ context.Context, userID int64) error {
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

type stubAdminRepo struct {
	mu     sync.Mutex
	seq    int64
	admins map[int64]*models.Admin
}

func (r *stubAdminRepo) CreateAdmin(_ context.Context, admin *models.Admin) (int64, error) {
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
	r.admins[stored.ID] = &stored
	return stored.ID, nil
}

func (r *stubAdminRepo) GetByID(_ context.Context, id int64) (*models.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	admin, ok := r.admins[id]
	if !ok {
		return nil, apperrors.ErrAdminNotFound
	}
	copied := *admin
	return &copied, nil
}

func (r *stubAdminRepo) GetByUsername(_ context.Context, username string) (*models.Admin, error) {
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

func (r *stubAdminRepo) UpdateCompanyChoices(_ context.Context, adminID int64, choices []models.CompanyChoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	admin, ok := r.admins[adminID]
	if !ok {
		return apperrors.ErrAdminNotFound
	}
	admin.CompanyChoices = append([]models.CompanyChoice(nil), choices...)
	return nil
}

func (r *stubAdminRepo) UpdateLastLogin(_ context.Context, adminID int64) error {
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

type stubTokenRow struct {
	kind        models.PrincipalKind
	principalID int64
}

type stubTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]stubTokenRow
}

func (r *stubTokenRepo) Insert(_ context.Context, token string, kind models.PrincipalKind, principalID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tokens[token]; exists {
		return apperrors.ErrTokenInvalid
	}
	r.tokens[token] = stubTokenRow{kind: kind, principalID: principalID}
	return nil
}

func (r *stubTokenRepo) Resolve(_ context.Context, token string, kind models.PrincipalKind) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.tokens[token]
	if !ok || row.kind != kind {
		return 0, apperrors.ErrTokenNotFound
	}
	return row.principalID, nil
}

func (r *stubTokenRepo) Delete(_ context.Context, token string, kind models.PrincipalKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if row, ok := r.tokens[token]; ok && row.kind == kind {
		delete(r.tokens, token)
	}
	return nil
}

type stubCompanyRepo struct {
	mu        sync.Mutex
	seq       int64
	companies map[string]*models.Company
}

func (r *stubCompanyRepo) Create(_ context.Context, company *models.Company) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.companies[company.Name]; exists {
		return 0, apperrors.ErrCompanyAlreadyExists
	}
	r.seq++
	stored := *company
	stored.ID = r.seq
	r.companies[stored.Name] = &stored
	return stored.ID, nil
}

func (r *stubCompanyRepo) GetAll(_ context.Context) ([]*models.Company, error) {
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

type testApp struct {
	router    *gin.Engine
	userRepo  *stubUserRepo
	adminRepo *stubAdminRepo
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	userRepo := &stubUserRepo{users: make(map[int64]*models.User)}
	adminRepo := &stubAdminRepo{admins: make(map[int64]*models.Admin)}
	tokenRepo := &stubTokenRepo{tokens: make(map[string]stubTokenRow)}
	companyRepo := &stubCompanyRepo{companies: make(map[string]*models.Company)}

	for _, name := range []string{"Aselsan", "Havelsan", "Siemens"} {
		_, err := companyRepo.Create(context.Background(), &models.Company{Name: name})
		require.NoError(t, err)
	}

	hash, err := auth.HashPassword("admin-pass")
	require.NoError(t, err)
	_, err = adminRepo.CreateAdmin(context.Background(), &models.Admin{Username: "admin", Password: hash})
	require.NoError(t, err)

	lgr := zerolog.Nop()
	tokens := auth.NewTokenService(auth.TokenConfig{SecretKey: "routes-test-secret", Issuer: "placematch.test"})

	authService := services.NewAuthService(userRepo, adminRepo, tokenRepo, tokens, lgr)
	catalogService := services.NewCatalogService(companyRepo, lgr)
	choiceService := services.NewChoiceService(userRepo, companyRepo, lgr)
	adminService := services.NewAdminService(userRepo, adminRepo, companyRepo, lgr)
	sorterService := services.NewSorterService(userRepo, lgr)

	router := gin.New()
	SetupRouter(router,
		controllers.NewAuthController(authService, lgr),
		controllers.NewProfileController(catalogService, choiceService, lgr),
		controllers.NewAdminController(authService, adminService, lgr),
		controllers.NewCatalogController(catalogService, lgr),
		controllers.NewSorterController(sorterService, lgr),
		middleware.NewAuthMiddleware(authService),
	)

	return &testApp{router: router, userRepo: userRepo, adminRepo: adminRepo}
}

func (a *testApp) do(t *testing.T, method, path string, form url.Values, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) doJSON(t *testing.T, method, path string, payload interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, strings.NewReader(string(raw)))
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) signUp(t *testing.T, studentID string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/signup", url.Values{
		"studentid":  {studentID},
		"name":       {"Ayse Yilmaz"},
		"department": {"Computer Engineering"},
		"password":   {"secret123"},
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	token := rec.Header().Get("x-auth")
	require.NotEmpty(t, token)
	return token
}

func (a *testApp) adminSignIn(t *testing.T) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/admin", url.Values{
		"username": {"admin"},
		"password": {"admin-pass"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := rec.Header().Get("admin-auth")
	require.NotEmpty(t, token)
	return token
}

func TestSignUpFlow(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/signup", url.Values{
		"studentid":  {"20240001"},
		"name":       {"Ayse Yilmaz"},
		"department": {"Computer Engineering"},
		"password":   {"secret123"},
	}, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("x-auth"))
	assert.Equal(t, "20240001", rec.Header().Get("studentid"))
	assert.Contains(t, rec.Body.String(), "20240001")
	assert.NotContains(t, rec.Body.String(), "secret123")
}

func TestSignUp_DuplicateStudentID(t *testing.T) {
	app := newTestApp(t)
	app.signUp(t, "20240001")

	rec := app.do(t, http.MethodPost, "/signup", url.Values{
		"studentid":  {"20240001"},
		"name":       {"Someone Else"},
		"department": {"Mathematics"},
		"password":   {"secret123"},
	}, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Student ID already exists")
}

func TestSignUp_MissingFields(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/signup", url.Values{
		"studentid": {"20240001"},
	}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignIn(t *testing.T) {
	app := newTestApp(t)
	first := app.signUp(t, "20240001")

	rec := app.do(t, http.MethodPost, "/signin", url.Values{
		"studentid": {"20240001"},
		"password":  {"secret123"},
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	second := rec.Header().Get("x-auth")
	assert.NotEmpty(t, second)
	assert.NotEqual(t, first, second)
}

func TestSignIn_WrongPassword(t *testing.T) {
	app := newTestApp(t)
	app.signUp(t, "20240001")

	rec := app.do(t, http.MethodPost, "/signin", url.Values{
		"studentid": {"20240001"},
		"password":  {"wrong-password"},
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfile_TokenInPath(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp(t, "20240001")

	rec := app.do(t, http.MethodGet, "/profile/"+token, nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Ayse Yilmaz")
	assert.Contains(t, body, "companyList")
	assert.Contains(t, body, "Siemens")
}

func TestProfile_BadToken(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/profile/not-a-token", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProfile_RedirectWithHeader(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp(t, "20240001")

	rec := app.do(t, http.MethodGet, "/profile", nil, map[string]string{"x-auth": token})
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/profile/"+token, rec.Header().Get("Location"))

	rec = app.do(t, http.MethodGet, "/profile", nil, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestSubmitChoices(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp(t, "20240001")

	rec := app.do(t, http.MethodPost, "/profile/"+token, url.Values{
		"choices": {"Siemens", "Aselsan"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	user, err := app.userRepo.GetByStudentID(context.Background(), "20240001")
	require.NoError(t, err)
	assert.Equal(t, []string{"Siemens", "Aselsan"}, user.Choices)
}

func TestSubmitChoices_UnknownCompany(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp(t, "20240001")

	rec := app.do(t, http.MethodPost, "/profile/"+token, url.Values{
		"choices": {"Acme Corp"},
	}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Acme Corp")
}

func TestLogout_RevokesToken(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp(t, "20240001")

	rec := app.do(t, http.MethodDelete, "/logout", nil, map[string]string{"x-auth": token})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/profile/"+token, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminSignIn(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/admin", url.Values{
		"username": {"admin"},
		"password": {"admin-pass"},
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("admin-auth"))
	assert.Equal(t, "admin", rec.Header().Get("username"))
}

func TestAdminSignIn_BadCredentials(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodPost, "/admin", url.Values{
		"username": {"admin"},
		"password": {"nope"},
	}, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminDashboard(t *testing.T) {
	app := newTestApp(t)
	studentToken := app.signUp(t, "20240001")
	rec := app.do(t, http.MethodPost, "/profile/"+studentToken, url.Values{
		"choices": {"Siemens"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	adminToken := app.adminSignIn(t)
	rec = app.do(t, http.MethodGet, "/admin/"+adminToken, nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "studentChoicesTable")
	assert.Contains(t, body, "20240001")
	assert.Contains(t, body, "companyChoicesTable")
}

func TestAdminUpdateCompanyChoices(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.adminSignIn(t)

	payload := map[string]interface{}{
		"companyChoices": []map[string]interface{}{
			{"company": "Siemens", "preferences": []string{"20240001"}},
		},
	}
	rec := app.doJSON(t, http.MethodPost, "/admin/update", payload, map[string]string{"admin-auth": adminToken})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	admin, err := app.adminRepo.GetByUsername(context.Background(), "admin")
	require.NoError(t, err)
	require.Len(t, admin.CompanyChoices, 1)
	assert.Equal(t, "Siemens", admin.CompanyChoices[0].Company)
}

func TestAdminUpdateCompanyChoices_UnknownCompany(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.adminSignIn(t)

	payload := map[string]interface{}{
		"companyChoices": []map[string]interface{}{
			{"company": "Acme Corp", "preferences": []string{}},
		},
	}
	rec := app.doJSON(t, http.MethodPost, "/admin/update", payload, map[string]string{"admin-auth": adminToken})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFetchSorterData(t *testing.T) {
	app := newTestApp(t)
	studentToken := app.signUp(t, "20240001")
	rec := app.do(t, http.MethodPost, "/profile/"+studentToken, url.Values{
		"choices": {"Siemens", "Aselsan"},
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	adminToken := app.adminSignIn(t)
	rec = app.do(t, http.MethodGet, "/fetchSorterData", nil, map[string]string{"admin-auth": adminToken})

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		StudentsArray []struct {
			StudentID string   `json:"studentid"`
			Choices   []string `json:"choices"`
		} `json:"studentsArray"`
		CompanyChoices []models.CompanyChoice `json:"companyChoices"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.StudentsArray, 1)
	assert.Equal(t, "20240001", payload.StudentsArray[0].StudentID)
	assert.Equal(t, []string{"Siemens", "Aselsan"}, payload.StudentsArray[0].Choices)
	assert.NotNil(t, payload.CompanyChoices)
}

func TestSorterPage(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.adminSignIn(t)

	rec := app.do(t, http.MethodGet, "/admin/sorter/"+adminToken, nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fetchSorterData")
}

func TestTokenKindsRejectedAcrossGates(t *testing.T) {
	app := newTestApp(t)
	studentToken := app.signUp(t, "20240001")
	adminToken := app.adminSignIn(t)

	rec := app.do(t, http.MethodGet, "/admin/"+studentToken, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = app.do(t, http.MethodGet, "/profile/"+adminToken, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminLogout(t *testing.T) {
	app := newTestApp(t)
	adminToken := app.adminSignIn(t)

	rec := app.do(t, http.MethodDelete, "/admin/logout", nil, map[string]string{"admin-auth": adminToken})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = app.do(t, http.MethodGet, "/admin/"+adminToken, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCompaniesCatalog(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/companies", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Siemens")

	// Adding a company is admin-gated
	rec = app.do(t, http.MethodPost, "/admin/companies", url.Values{"name": {"Vestel"}}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	adminToken := app.adminSignIn(t)
	rec = app.do(t, http.MethodPost, "/admin/companies", url.Values{"name": {"Vestel"}},
		map[string]string{"admin-auth": adminToken})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.do(t, http.MethodGet, "/companies", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Vestel")
}

func TestProfile_AccountDeletedBehindToken(t *testing.T) {
	app := newTestApp(t)
	token := app.signUp(t, "20240001")

	// The token row survives its principal
	app.userRepo.mu.Lock()
	for id := range app.userRepo.users {
		delete(app.userRepo.users, id)
	}
	app.userRepo.mu.Unlock()

	rec := app.do(t, http.MethodGet, "/profile/"+token, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Account no longer exists")
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
