package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"theraplay-backend/internal/models"
	"theraplay-backend/internal/services"
)

// ─── Stub stores ───

type fakeHasher struct{}

func (fakeHasher) Hash(plaintext string) (string, error) { return "hashed:" + plaintext, nil }
func (fakeHasher) Verify(plaintext, hash string) bool    { return hash == "hashed:"+plaintext }

type userStoreStub struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func (s *userStoreStub) CreateWithProfile(ctx context.Context, user *models.User, tutor *models.TutorProfile, family *models.FamilyProfile) error {
	user.ID = uuid.New()
	return nil
}

func (s *userStoreStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *userStoreStub) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s.byID[id]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *userStoreStub) TouchLastLogin(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.GetByID(ctx, id)
}

func (s *userStoreStub) List(ctx context.Context) ([]*models.User, error) {
	users := []*models.User{}
	for _, u := range s.byID {
		users = append(users, u)
	}
	return users, nil
}

func (s *userStoreStub) ListTutors(ctx context.Context, region string) ([]*models.User, error) {
	users := []*models.User{}
	for _, u := range s.byID {
		if u.Role == models.RoleTutor {
			users = append(users, u)
		}
	}
	return users, nil
}

func (s *userStoreStub) Update(ctx context.Context, user *models.User) error { return nil }

type profileStoreStub struct{}

func (profileStoreStub) GetTutor(ctx context.Context, id uuid.UUID) (*models.TutorProfile, error) {
	return nil, pgx.ErrNoRows
}

func (profileStoreStub) GetFamily(ctx context.Context, id uuid.UUID) (*models.FamilyProfile, error) {
	return nil, pgx.ErrNoRows
}

func (profileStoreStub) UpdateTutor(ctx context.Context, t *models.TutorProfile) error  { return nil }
func (profileStoreStub) UpdateFamily(ctx context.Context, f *models.FamilyProfile) error { return nil }

type purchaseStoreStub struct {
	exists bool
}

func (s *purchaseStoreStub) Create(ctx context.Context, p *models.Purchase) error {
	p.ID = uuid.New()
	return nil
}

func (s *purchaseStoreStub) Exists(ctx context.Context, userID, activityID uuid.UUID) (bool, error) {
	return s.exists, nil
}

func (s *purchaseStoreStub) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Purchase, error) {
	return []*models.Purchase{}, nil
}

type activityStoreStub struct {
	activities map[uuid.UUID]*models.Activity
}

func (s *activityStoreStub) Create(ctx context.Context, a *models.Activity) error {
	a.ID = uuid.New()
	return nil
}

func (s *activityStoreStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Activity, error) {
	if a, ok := s.activities[id]; ok {
		return a, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *activityStoreStub) List(ctx context.Context, f models.ActivityFilter) ([]*models.Activity, error) {
	return []*models.Activity{}, nil
}

func (s *activityStoreStub) Marketplace(ctx context.Context, f models.MarketplaceFilter) ([]*models.Activity, error) {
	return []*models.Activity{}, nil
}

func (s *activityStoreStub) Update(ctx context.Context, a *models.Activity) error  { return nil }
func (s *activityStoreStub) Publish(ctx context.Context, a *models.Activity) error { return nil }
func (s *activityStoreStub) Delete(ctx context.Context, id uuid.UUID) error        { return pgx.ErrNoRows }

func newAuthRouter(users *userStoreStub) http.Handler {
	profileService := services.NewProfileService(users, profileStoreStub{})
	authService := services.NewAuthService(users, fakeHasher{}, profileService)
	h := NewAuthHandler(authService)

	r := chi.NewRouter()
	r.Post("/api/auth/signup", h.Signup)
	r.Post("/api/auth/login", h.Login)
	return r
}

// ─── Auth ───

func TestSignupReturnsCreatedUser(t *testing.T) {
	r := newAuthRouter(&userStoreStub{byEmail: map[string]*models.User{}})

	body := `{"email":"new@example.com","password":"pass","name":"New Tutor","role":"tutor"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		User    map[string]any `json:"user"`
		Message string         `json:"message"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Message != "User created successfully" {
		t.Errorf("Expected creation message, got %q", resp.Message)
	}
	if resp.User["email"] != "new@example.com" {
		t.Errorf("Expected flat user object, got %v", resp.User)
	}
	if _, ok := resp.User["specialization"]; !ok {
		t.Errorf("Expected tutor fields flattened into the user, got %v", resp.User)
	}
}

func TestSignupDuplicateEmailReturnsConflict(t *testing.T) {
	r := newAuthRouter(&userStoreStub{byEmail: map[string]*models.User{
		"taken@example.com": {ID: uuid.New(), Email: "taken@example.com"},
	}})

	body := `{"email":"taken@example.com","password":"pass","name":"Dup","role":"family"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(body))
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("Expected 409, got %d", rr.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error.Code != "CONFLICT" {
		t.Errorf("Expected CONFLICT code, got %q", resp.Error.Code)
	}
	if resp.Error.Message != "Email already registered" {
		t.Errorf("Expected duplicate email message, got %q", resp.Error.Message)
	}
}

func TestSignupValidationErrorsCarryFields(t *testing.T) {
	r := newAuthRouter(&userStoreStub{byEmail: map[string]*models.User{}})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(`{}`))
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rr.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected VALIDATION_ERROR code, got %q", resp.Error.Code)
	}
	if _, ok := resp.Error.Fields["email"]; !ok {
		t.Errorf("Expected per-field errors, got %v", resp.Error.Fields)
	}
}

func TestSignupRejectsMalformedBody(t *testing.T) {
	r := newAuthRouter(&userStoreStub{byEmail: map[string]*models.User{}})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for malformed body, got %d", rr.Code)
	}
}

// ─── Purchases ───

func TestPurchaseCheck(t *testing.T) {
	svc := services.NewPurchaseService(&purchaseStoreStub{exists: true}, &activityStoreStub{})
	h := NewPurchaseHandler(svc)

	r := chi.NewRouter()
	r.Get("/api/purchases/check/{userId}/{activityId}", h.Check)

	url := "/api/purchases/check/" + uuid.NewString() + "/" + uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var resp map[string]bool
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !resp["purchased"] {
		t.Errorf("Expected purchased = true, got %v", resp)
	}
}

func TestPurchaseCheckRejectsInvalidID(t *testing.T) {
	svc := services.NewPurchaseService(&purchaseStoreStub{}, &activityStoreStub{})
	h := NewPurchaseHandler(svc)

	r := chi.NewRouter()
	r.Get("/api/purchases/check/{userId}/{activityId}", h.Check)

	req := httptest.NewRequest(http.MethodGet, "/api/purchases/check/not-a-uuid/"+uuid.NewString(), nil)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for malformed id, got %d", rr.Code)
	}
}

// ─── Activities ───

func TestGetActivityNotFound(t *testing.T) {
	svc := services.NewActivityService(&activityStoreStub{})
	h := NewActivityHandler(svc)

	r := chi.NewRouter()
	r.Get("/api/activities/{id}", h.Get)

	req := httptest.NewRequest(http.MethodGet, "/api/activities/"+uuid.NewString(), nil)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rr.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if resp.Error.Code != "NOT_FOUND" {
		t.Errorf("Expected NOT_FOUND code, got %q", resp.Error.Code)
	}
}

func TestGetActivityReturnsWireFormat(t *testing.T) {
	id := uuid.New()
	desc := "Sorting blocks by color"
	store := &activityStoreStub{activities: map[uuid.UUID]*models.Activity{
		id: {
			ID: id, Title: "Color sorting", Type: "game",
			Language: models.DefaultLanguage, Description: &desc,
			Elements: json.RawMessage(`[{"kind":"card"}]`),
			AuthorID: uuid.New(), Tags: []string{},
			PricingModel: models.PricingFree,
			TherapyGoals: []string{}, DiagnosisTags: []string{},
		},
	}}
	h := NewActivityHandler(services.NewActivityService(store))

	r := chi.NewRouter()
	r.Get("/api/activities/{id}", h.Get)

	req := httptest.NewRequest(http.MethodGet, "/api/activities/"+id.String(), nil)
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var resp struct {
		Activity map[string]any `json:"activity"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Activity["title"] != "Color sorting" {
		t.Errorf("Expected activity payload, got %v", resp.Activity)
	}
	if resp.Activity["pricingModel"] != models.PricingFree {
		t.Errorf("Expected pricingModel key, got %v", resp.Activity)
	}
	if _, ok := resp.Activity["ageRange"]; !ok {
		t.Errorf("Expected explicit null ageRange key, got %v", resp.Activity)
	}
}
