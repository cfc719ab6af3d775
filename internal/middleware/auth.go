package middleware

import (
	"context"
	"net/http"
	"strings"

	"salon-backend/internal/auth"
	"salon-backend/internal/models"
	"salon-backend/internal/repositories"
)

type contextKey string

const AccountIDKey contextKey = "account_id"
const EmailKey contextKey = "email"
const RoleKey contextKey = "role"
const BranchIDKey contextKey = "branch_id"

type AuthMiddleware struct {
	jwtManager  *auth.JWTManager
	accountRepo *repositories.AccountRepository
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, accountRepo *repositories.AccountRepository) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:  jwtManager,
		accountRepo: accountRepo,
	}
}

// authenticate validates the bearer token and loads the account from the
// database so suspensions and role changes take effect immediately, not at
// token expiry.
func (m *AuthMiddleware) authenticate(w http.ResponseWriter, r *http.Request) (*models.Account, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		http.Error(w, "Authorization header required", http.StatusUnauthorized)
		return nil, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
		return nil, false
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
		return nil, false
	}

	account, err := m.accountRepo.Get(r.Context(), claims.AccountID)
	if err != nil || account == nil {
		http.Error(w, "Account not found", http.StatusUnauthorized)
		return nil, false
	}
	if !account.IsActive {
		http.Error(w, "Account suspended. Please contact administrator.", http.StatusForbidden)
		return nil, false
	}
	return account, true
}

func withAccount(r *http.Request, account *models.Account) *http.Request {
	ctx := context.WithValue(r.Context(), AccountIDKey, account.ID)
	ctx = context.WithValue(ctx, EmailKey, account.Email)
	ctx = context.WithValue(ctx, RoleKey, account.Role)
	ctx = context.WithValue(ctx, BranchIDKey, account.BranchID)
	return r.WithContext(ctx)
}

// Authenticate validates JWT tokens and loads the account into the context
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		next.ServeHTTP(w, withAccount(r, account))
	})
}

// RequireRole ensures the account has one of the allowed roles
func (m *AuthMiddleware) RequireRole(allowedRoles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account, ok := m.authenticate(w, r)
			if !ok {
				return
			}

			hasRole := false
			for _, role := range allowedRoles {
				if account.Role == role {
					hasRole = true
					break
				}
			}
			if !hasRole {
				http.Error(w, "Forbidden: Insufficient permissions", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, withAccount(r, account))
		})
	}
}

// RequireAdmin ensures the account is a master or super admin
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.RequireRole(models.RoleMasterAdmin, models.RoleSuperAdmin)(next)
}

// GetAccountIDFromContext extracts the account id from the request context
func GetAccountIDFromContext(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(AccountIDKey).(int)
	return id, ok
}

// GetRoleFromContext extracts the role from the request context
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

// GetBranchIDFromContext extracts the account's branch scope; nil for
// admin accounts that see all branches
func GetBranchIDFromContext(ctx context.Context) (*int, bool) {
	branchID, ok := ctx.Value(BranchIDKey).(*int)
	return branchID, ok
}
