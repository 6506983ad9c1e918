package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mentora/internal/application/usecase"
	"mentora/internal/domain"
	"mentora/internal/infrastructure/repository"
	"mentora/internal/infrastructure/security"
	"mentora/internal/infrastructure/tutor"
	"mentora/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubGuestCounter struct{}

func (stubGuestCounter) Count(context.Context, string) (int64, error)     { return 0, nil }
func (stubGuestCounter) Increment(context.Context, string) (int64, error) { return 1, nil }

type failingProvider struct{ err error }

func (f failingProvider) Chat(context.Context, []tutor.Message) (string, error) {
	return "", f.err
}

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB, *security.TokenManager) {
	// Провайдер в большинстве тестов не вызывается
	return setupRouterWithProvider(t, nil)
}

func setupRouterWithProvider(t *testing.T, provider tutor.Provider) (*gin.Engine, *gorm.DB, *security.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&domain.User{},
		&domain.UserProfile{},
		&domain.Level{},
		&domain.XPTransaction{},
		&domain.Badge{},
		&domain.UserBadge{},
		&domain.LoginHistory{},
		&domain.SubjectProgress{},
		&domain.Conversation{},
		&domain.Plan{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	tokens := security.NewTokenManager("access-secret", "refresh-secret")

	guestUser, err := repository.NewUserRepository(db).GetOrCreateGuest(context.Background())
	if err != nil {
		t.Fatalf("guest user: %v", err)
	}

	profileRepo := repository.NewProfileRepository(db)
	gamification := usecase.NewGamificationUseCase(db, profileRepo)
	chat := usecase.NewChatUseCase(
		repository.NewProfileRepository(db),
		repository.NewConversationRepository(db),
		usecase.NewProgressEngine(db),
		gamification,
		provider,
		stubGuestCounter{},
		guestUser.ID,
	)

	router := NewRouter(
		tokens,
		middleware.NewRateLimiter(nil),
		NewAuthHandler(nil),
		NewChatHandler(chat),
		NewProfileHandler(gamification, repository.NewCatalogRepository(db, nil)),
	)
	return router, db, tokens
}

func createUserWithToken(t *testing.T, db *gorm.DB, tokens *security.TokenManager, username string) (uuid.UUID, string) {
	t.Helper()
	user := domain.User{
		ID:       uuid.New(),
		Email:    username + "@test.local",
		Username: username,
		Password: "hash",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	access, _, err := tokens.Generate(user.ID.String(), domain.PlanFree)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return user.ID, access
}

func TestHealthEndpoint(t *testing.T) {
	router, _, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health/", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestDeleteConversationRequiresAuth(t *testing.T) {
	router, _, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/history/delete/"+uuid.NewString()+"/", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestDeleteForeignConversationReturns404(t *testing.T) {
	router, db, tokens := setupRouter(t)
	ownerID, _ := createUserWithToken(t, db, tokens, "owner")
	_, strangerToken := createUserWithToken(t, db, tokens, "stranger")

	conv := domain.Conversation{
		ID:       uuid.New(),
		UserID:   ownerID,
		Topic:    "History",
		Question: "when?",
		Answer:   "long ago",
	}
	if err := db.Create(&conv).Error; err != nil {
		t.Fatalf("create conversation: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/history/delete/"+conv.ID.String()+"/", nil)
	req.Header.Set("Authorization", "Bearer "+strangerToken)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}

	// Диалог остался на месте
	var count int64
	db.Model(&domain.Conversation{}).Where("id = ?", conv.ID).Count(&count)
	if count != 1 {
		t.Errorf("conversation was deleted by a stranger")
	}
}

func TestDeleteOwnConversation(t *testing.T) {
	router, db, tokens := setupRouter(t)
	ownerID, ownerToken := createUserWithToken(t, db, tokens, "owner2")

	conv := domain.Conversation{
		ID:       uuid.New(),
		UserID:   ownerID,
		Topic:    "Science",
		Question: "why?",
		Answer:   "because",
	}
	if err := db.Create(&conv).Error; err != nil {
		t.Fatalf("create conversation: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/history/delete/"+conv.ID.String()+"/", nil)
	req.Header.Set("Authorization", "Bearer "+ownerToken)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestHistoryReturnsOwnConversations(t *testing.T) {
	router, db, tokens := setupRouter(t)
	userID, token := createUserWithToken(t, db, tokens, "reader")
	otherID, _ := createUserWithToken(t, db, tokens, "other")

	for i, owner := range []uuid.UUID{userID, otherID} {
		conv := domain.Conversation{
			ID:       uuid.New(),
			UserID:   owner,
			Topic:    "Astronomy",
			Question: fmt.Sprintf("q%d", i),
			Answer:   "a",
		}
		if err := db.Create(&conv).Error; err != nil {
			t.Fatalf("create conversation: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/history/?topic=Astronomy", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		History []struct {
			ID       uuid.UUID `json:"id"`
			Question string    `json:"question"`
			Topic    string    `json:"topic"`
			Day      int       `json:"day"`
		} `json:"history"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.History) != 1 {
		t.Errorf("history entries = %d, want 1", len(body.History))
	}
	if len(body.History) == 1 && body.History[0].Question != "q0" {
		t.Errorf("question = %q, want q0", body.History[0].Question)
	}
}

func TestHistoryForGuestIsEmptyList(t *testing.T) {
	router, _, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/history/", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		History []json.RawMessage `json:"history"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.History) != 0 {
		t.Errorf("guest history = %d entries, want 0", len(body.History))
	}
}

func TestSubjectDaysEndpoint(t *testing.T) {
	router, _, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/subject-days/?subject=Astronomy", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Days []usecase.DayStatus `json:"days"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Days) != 14 {
		t.Errorf("days = %d, want 14", len(body.Days))
	}

	// Без предмета — 400
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/subject-days/", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status without subject = %d, want 400", w.Code)
	}
}

func TestAskSurfacesUnexpectedProviderError(t *testing.T) {
	router, db, tokens := setupRouterWithProvider(t,
		failingProvider{err: errors.New("connection refused")})
	_, token := createUserWithToken(t, db, tokens, "asker")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/ask/",
		strings.NewReader(`{"question":"What is a star?","topic":"Astronomy"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !strings.Contains(body.Error, "connection refused") {
		t.Errorf("error = %q, want the underlying provider message", body.Error)
	}
}

func TestDashboardRequiresAuth(t *testing.T) {
	router, _, _ := setupRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestDashboardReturnsStats(t *testing.T) {
	router, db, tokens := setupRouter(t)
	_, token := createUserWithToken(t, db, tokens, "statsuser")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var stats usecase.DashboardStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stats.Username != "statsuser" {
		t.Errorf("username = %q, want statsuser", stats.Username)
	}
	if stats.Plan != domain.PlanFree {
		t.Errorf("plan = %q, want FREE", stats.Plan)
	}
}
