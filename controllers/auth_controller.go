// Package controllers handles user authentication and credential issuance.
// File: controllers/auth_controller.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"go-field-ops/auth"
	"go-field-ops/logger"
	"go-field-ops/middleware"
	"go-field-ops/models"
	"go-field-ops/store"
)

// maxSuperadmins is the hard system-wide cap.
const maxSuperadmins = 2

// ------------------ authentication utilities ------------------

// hashPassword derives a bcrypt hash for storage; plaintext is never stored
// or logged.
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// checkPasswordHash verifies if the provided plain-text password matches the stored hashed password.
func checkPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ---------------- Auth Controller ----------------

// AuthController serves login, logout, refresh, and superadmin bootstrap.
type AuthController struct {
	Store     *store.Store
	Tokens    *auth.TokenService
	Blacklist *auth.Blacklist
}

// NewAuthController initializes a new instance of AuthController.
func NewAuthController(s *store.Store, tokens *auth.TokenService, blacklist *auth.Blacklist) *AuthController {
	return &AuthController{Store: s, Tokens: tokens, Blacklist: blacklist}
}

// ------------------ superadmin bootstrap ------------------

type registerSuperadminRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

// RegisterSuperadmin provisions a superadmin account. At most two may exist
// system-wide; the third attempt is refused outright.
func (ac *AuthController) RegisterSuperadmin(c *gin.Context) {
	count, err := ac.Store.CountSuperadmins()
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not check superadmin count")
		return
	}
	if count >= maxSuperadmins {
		logger.Warn.Println("RegisterSuperadmin: cap reached, refusing registration")
		fail(c, http.StatusForbidden, "superadmin_cap_reached", "Maximum of 2 superadmins allowed")
		return
	}

	var req registerSuperadminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}
	if req.Name == "" || req.Username == "" || req.Password == "" || req.Email == "" {
		fail(c, http.StatusBadRequest, "missing_fields", "name, username, email and password are required")
		return
	}

	if taken, err := ac.Store.UsernameTaken(req.Username); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not validate username")
		return
	} else if taken {
		fail(c, http.StatusConflict, "duplicate_username", "Username already exists")
		return
	}
	if taken, err := ac.Store.EmailTaken(req.Email); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not validate email")
		return
	} else if taken {
		fail(c, http.StatusConflict, "duplicate_email", "Email already in use")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not hash password")
		return
	}

	superadmin := &models.Employee{
		Name:         req.Name,
		Username:     req.Username,
		Email:        &req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		PasswordHash: hash,
		Role:         models.RoleSuperadmin,
		Active:       true,
	}
	if err := ac.Store.CreateEmployee(superadmin); err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not create superadmin")
		return
	}

	logger.Info.Printf("RegisterSuperadmin: superadmin %s created", superadmin.Username)
	c.JSON(http.StatusCreated, gin.H{"message": "Superadmin registered successfully"})
}

// ------------------ login handling ------------------

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates by email + password and issues an access/refresh token
// pair. Whether the email exists is never leaked: unknown email and wrong
// password produce the same response.
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid_body", "Malformed JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		fail(c, http.StatusBadRequest, "missing_fields", "Email and password are required")
		return
	}

	person, err := ac.Store.FindEmployeeByEmail(req.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			fail(c, http.StatusInternalServerError, "internal_error", "Login failed")
			return
		}
		// fall through to the uniform rejection below
	}
	if person == nil || !checkPasswordHash(req.Password, person.PasswordHash) {
		logger.Warn.Printf("Login: invalid credentials for %s", req.Email)
		fail(c, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
		return
	}
	if !person.Active {
		logger.Warn.Printf("Login: inactive account %d attempted login", person.ID)
		fail(c, http.StatusForbidden, "account_inactive", "Account is inactive")
		return
	}

	access, refresh, err := ac.Tokens.IssuePair(person)
	if err != nil {
		logger.Error.Printf("Login: token issuance failed for person %d: %v", person.ID, err)
		fail(c, http.StatusInternalServerError, "internal_error", "Could not issue tokens")
		return
	}

	logger.Info.Printf("Login: person %d authenticated as %s", person.ID, person.Role)
	c.JSON(http.StatusOK, gin.H{
		"message":       "Login successful",
		"access_token":  access,
		"refresh_token": refresh,
		"user": gin.H{
			"id":       person.ID,
			"username": person.Username,
			"email":    person.Email,
			"role":     person.Role,
			"name":     person.Name,
			"city":     person.City,
		},
	})
}

// Logout revokes the presented access token's id. The token stays revoked
// until its own expiry, after which the sweeper forgets it.
func (ac *AuthController) Logout(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "authentication_required", "Authentication required")
		return
	}

	ac.Blacklist.Revoke(claims.ID, claims.ExpiresAt.Time)
	logger.Info.Printf("Logout: person %d revoked token %s", claims.PersonID, claims.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Refresh exchanges a valid refresh token for a fresh access token. The
// account is re-checked so a deactivated person cannot mint new credentials.
func (ac *AuthController) Refresh(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "authentication_required", "Authentication required")
		return
	}

	person, err := ac.Store.FindEmployeeByID(claims.PersonID)
	if err != nil || !person.Active {
		fail(c, http.StatusUnauthorized, "authentication_required", "Account is missing or inactive")
		return
	}

	access, err := ac.Tokens.IssueAccess(person)
	if err != nil {
		fail(c, http.StatusInternalServerError, "internal_error", "Could not issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": access})
}
