package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Sh4dowyy/yellow-cow-sub000/internal/domain"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/middleware"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/repository"
	"github.com/Sh4dowyy/yellow-cow-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"go.uber.org/zap"
)

// Mock repositories for testing
type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type mockRefreshTokenRepository struct {
	tokens map[string]*domain.RefreshToken
}

func newMockRefreshTokenRepository() *mockRefreshTokenRepository {
	return &mockRefreshTokenRepository{
		tokens: make(map[string]*domain.RefreshToken),
	}
}

func (m *mockRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	m.tokens[token.Token] = token
	return nil
}

func (m *mockRefreshTokenRepository) FindByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return nil, repository.ErrRefreshTokenNotFound
	}
	if refreshToken.Revoked {
		return nil, repository.ErrRefreshTokenRevoked
	}
	return refreshToken, nil
}

func (m *mockRefreshTokenRepository) Revoke(ctx context.Context, token string) error {
	refreshToken, exists := m.tokens[token]
	if !exists {
		return repository.ErrRefreshTokenNotFound
	}
	refreshToken.Revoked = true
	return nil
}

func newTestUserHandler() (*UserHandler, service.UserService) {
	userRepo := newMockUserRepository()
	refreshTokenRepo := newMockRefreshTokenRepository()
	userService := service.NewUserService(userRepo, refreshTokenRepo, "test-secret", nil)
	logger, _ := zap.NewDevelopment()
	return NewUserHandler(userService, logger), userService
}

// Feature: toy-store-platform, Property 10: Invalid registration data is rejected
// Validates: Requirements 5.1
func TestProperty_InvalidRegistrationDataIsRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("registration with invalid data returns validation errors", prop.ForAll(
		func(invalidCase int) bool {
			// Setup
			handler, _ := newTestUserHandler()

			var reqBody RegisterRequest

			// Generate different invalid cases
			switch invalidCase % 4 {
			case 0:
				// Empty email
				reqBody = RegisterRequest{
					Email:           "",
					Password:        "ValidPass123",
					PasswordConfirm: "ValidPass123",
				}
			case 1:
				// Invalid email format
				reqBody = RegisterRequest{
					Email:           "not-an-email",
					Password:        "ValidPass123",
					PasswordConfirm: "ValidPass123",
				}
			case 2:
				// Short password (less than 6 characters)
				reqBody = RegisterRequest{
					Email:           "test@example.com",
					Password:        "short",
					PasswordConfirm: "short",
				}
			case 3:
				// Missing confirmation
				reqBody = RegisterRequest{
					Email:    "test@example.com",
					Password: "ValidPass123",
				}
			}

			// Create request
			body, _ := json.Marshal(reqBody)
			req := httptest.NewRequest(http.MethodPost, "/api/users/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			// Execute
			handler.Register(w, req)

			// Verify response is 400 Bad Request or 409 Conflict
			if w.Code != http.StatusBadRequest && w.Code != http.StatusConflict {
				t.Logf("FAIL: Expected 400 or 409 status code, got %d", w.Code)
				return false
			}

			// Verify response contains error structure
			var response map[string]interface{}
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Logf("FAIL: Could not decode error response: %v", err)
				return false
			}

			// Verify error field exists
			if _, exists := response["error"]; !exists {
				t.Logf("FAIL: Response missing 'error' field")
				return false
			}

			return true
		},
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: toy-store-platform, Property 11: Mismatched passwords return the exact user-facing message
// Validates: Requirements 5.2
func TestProperty_MismatchedPasswordsReturnVerbatimMessage(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("registration with mismatched confirmation returns the verbatim message", prop.ForAll(
		func(email string, password string, confirm string) bool {
			if password == confirm {
				return true
			}

			handler, _ := newTestUserHandler()

			reqBody := RegisterRequest{
				Email:           email,
				Password:        password,
				PasswordConfirm: confirm,
			}
			body, _ := json.Marshal(reqBody)
			req := httptest.NewRequest(http.MethodPost, "/api/users/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			handler.Register(w, req)

			if w.Code != http.StatusBadRequest {
				t.Logf("FAIL: Expected 400 status code, got %d", w.Code)
				return false
			}

			var response middleware.ErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Logf("FAIL: Could not decode error response: %v", err)
				return false
			}

			if response.Error.Message != "Пароли не совпадают" {
				t.Logf("FAIL: Unexpected message %q", response.Error.Message)
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: toy-store-platform, Property 12: Successful registration returns account data
// Validates: Requirements 5.3
func TestProperty_SuccessfulRegistrationReturnsAccountData(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("successful registration returns the account with all fields", prop.ForAll(
		func(email string, password string) bool {
			// Setup
			handler, _ := newTestUserHandler()

			// Create request
			reqBody := RegisterRequest{
				Email:           email,
				Password:        password,
				PasswordConfirm: password,
			}
			body, _ := json.Marshal(reqBody)
			req := httptest.NewRequest(http.MethodPost, "/api/users/register", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			// Execute
			handler.Register(w, req)

			// Skip if registration failed (e.g., duplicate email from previous iteration)
			if w.Code != http.StatusCreated {
				return true
			}

			// Decode response
			var account UserAccount
			if err := json.NewDecoder(w.Body).Decode(&account); err != nil {
				t.Logf("FAIL: Could not decode response: %v", err)
				return false
			}

			// Verify all account fields are present
			if account.ID == "" {
				t.Logf("FAIL: Account missing ID")
				return false
			}

			if account.Email != email {
				t.Logf("FAIL: Email mismatch. Expected %s, got %s", email, account.Email)
				return false
			}

			if account.Role == "" {
				t.Logf("FAIL: Account missing Role")
				return false
			}

			// Verify ID is a valid UUID
			if _, err := uuid.Parse(account.ID); err != nil {
				t.Logf("FAIL: Account ID is not a valid UUID: %v", err)
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: toy-store-platform, Property 13: Valid login returns both tokens and the session cookie
// Validates: Requirements 5.4
func TestProperty_ValidLoginReturnsBothTokens(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid login returns access token, refresh token, and session cookie", prop.ForAll(
		func(email string, password string) bool {
			// Setup
			handler, userService := newTestUserHandler()

			// First, register the user
			_, err := userService.Register(context.Background(), email, password, password)
			if err != nil {
				return true // Skip if registration fails
			}

			// Create login request
			loginReq := LoginRequest{
				Email:    email,
				Password: password,
			}
			body, _ := json.Marshal(loginReq)
			req := httptest.NewRequest(http.MethodPost, "/api/users/login", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			// Execute login
			handler.Login(w, req)

			// Verify response is 200 OK
			if w.Code != http.StatusOK {
				t.Logf("FAIL: Expected 200 status code, got %d", w.Code)
				return false
			}

			// Decode response
			var loginResp LoginResponse
			if err := json.NewDecoder(w.Body).Decode(&loginResp); err != nil {
				t.Logf("FAIL: Could not decode login response: %v", err)
				return false
			}

			// Verify access token is present and not empty
			if loginResp.AccessToken == "" {
				t.Logf("FAIL: Access token is empty")
				return false
			}

			// Verify refresh token is present and not empty
			if loginResp.RefreshToken == "" {
				t.Logf("FAIL: Refresh token is empty")
				return false
			}

			// Verify account data is included
			if loginResp.User.ID == "" {
				t.Logf("FAIL: Account missing ID")
				return false
			}

			if loginResp.User.Email != email {
				t.Logf("FAIL: Account email mismatch")
				return false
			}

			// Verify the session cookie mirrors the access token
			cookieFound := false
			for _, cookie := range w.Result().Cookies() {
				if cookie.Name == middleware.SessionCookieName {
					cookieFound = true
					if cookie.Value != loginResp.AccessToken {
						t.Logf("FAIL: Session cookie doesn't mirror the access token")
						return false
					}
					if !cookie.HttpOnly {
						t.Logf("FAIL: Session cookie is not HTTP-only")
						return false
					}
				}
			}
			if !cookieFound {
				t.Logf("FAIL: Login response missing session cookie")
				return false
			}

			// Verify access token is valid
			claims, err := userService.ValidateToken(loginResp.AccessToken)
			if err != nil {
				t.Logf("FAIL: Access token validation failed: %v", err)
				return false
			}

			// Verify claims contain user information
			if claims.UserID.String() != loginResp.User.ID {
				t.Logf("FAIL: Token user ID doesn't match account ID")
				return false
			}

			// Verify refresh token can be used
			newAccessToken, err := userService.RefreshToken(context.Background(), loginResp.RefreshToken)
			if err != nil {
				t.Logf("FAIL: Refresh token is not valid: %v", err)
				return false
			}

			if newAccessToken == "" {
				t.Logf("FAIL: Refresh token returned empty access token")
				return false
			}

			return true
		},
		gen.RegexMatch(`[a-z]{3,10}@[a-z]{3,8}\.(com|org|net)`),
		gen.RegexMatch(`[A-Za-z0-9!@#$%]{8,20}`),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// A SIGNED_OUT auth event must clear the session cookie
func TestAuthCallbackSignedOutClearsCookie(t *testing.T) {
	handler, _ := newTestUserHandler()

	body, _ := json.Marshal(AuthEventRequest{Event: "SIGNED_OUT"})
	req := httptest.NewRequest(http.MethodPost, "/auth/callback", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	handler.AuthCallbackEvent(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionCookieName {
			if cookie.Value != "" || cookie.MaxAge >= 0 {
				t.Errorf("session cookie not cleared: value=%q maxAge=%d", cookie.Value, cookie.MaxAge)
			}
			return
		}
	}
	t.Fatal("no session cookie in SIGNED_OUT response")
}
