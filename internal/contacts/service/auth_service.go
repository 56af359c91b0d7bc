package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dest81/aid-coordinator/internal/config"
	"github.com/dest81/aid-coordinator/internal/contacts/entity"
	"github.com/dest81/aid-coordinator/internal/contacts/repository"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// AuthService login, token refresh and logout
type AuthService struct {
	contactRepo *repository.ContactRepository
	rdb         *redis.Client
	cfg         *config.Config
}

func NewAuthService(contactRepo *repository.ContactRepository, rdb *redis.Client, cfg *config.Config) *AuthService {
	return &AuthService{
		contactRepo: contactRepo,
		rdb:         rdb,
		cfg:         cfg,
	}
}

// TokenPair token pair
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Login verifies the password and issues a token pair
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, *entity.Contact, error) {
	contact, err := s.contactRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(contact.PasswordHash), []byte(password)); err != nil {
		return nil, nil, fmt.Errorf("invalid email or password")
	}

	pair, err := s.generateTokenPair(ctx, contact)
	if err != nil {
		return nil, nil, err
	}
	return pair, contact, nil
}

func (s *AuthService) generateTokenPair(ctx context.Context, contact *entity.Contact) (*TokenPair, error) {
	now := time.Now()
	jti := uuid.New().String()

	orgID := ""
	if contact.OrganisationID != nil {
		orgID = *contact.OrganisationID
	}

	// Access Token
	accessClaims := jwt.MapClaims{
		"sub":             contact.ID,
		"uid":             contact.ID,
		"name":            contact.DisplayName(),
		"email":           contact.Email,
		"is_superuser":    contact.IsSuperuser,
		"is_donor":        contact.IsDonor,
		"is_requester":    contact.IsRequester,
		"organisation_id": orgID,
		"iss":             s.cfg.JWT.Issuer,
		"iat":             now.Unix(),
		"exp":             now.Add(s.cfg.JWT.AccessTokenExpire).Unix(),
		"jti":             jti,
	}

	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims)
	accessTokenString, err := accessToken.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	// Refresh Token
	refreshJti := uuid.New().String()
	refreshClaims := jwt.MapClaims{
		"sub":  contact.ID,
		"type": "refresh",
		"iss":  s.cfg.JWT.Issuer,
		"iat":  now.Unix(),
		"exp":  now.Add(s.cfg.JWT.RefreshTokenExpire).Unix(),
		"jti":  refreshJti,
	}

	refreshToken := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims)
	refreshTokenString, err := refreshToken.SignedString([]byte(s.cfg.JWT.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	s.rdb.Set(ctx, "token:refresh:"+refreshJti, contact.ID, s.cfg.JWT.RefreshTokenExpire)

	return &TokenPair{
		AccessToken:  accessTokenString,
		RefreshToken: refreshTokenString,
		ExpiresIn:    int64(s.cfg.JWT.AccessTokenExpire.Seconds()),
	}, nil
}

// RefreshToken rotates a refresh token into a new token pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshTokenString string) (*TokenPair, error) {
	token, err := jwt.Parse(refreshTokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if claims["type"] != "refresh" {
		return nil, fmt.Errorf("invalid token type")
	}

	jti, _ := claims["jti"].(string)
	contactID, err := s.rdb.Get(ctx, "token:refresh:"+jti).Result()
	if err != nil {
		return nil, fmt.Errorf("refresh token expired or invalid")
	}

	contact, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		return nil, fmt.Errorf("contact not found")
	}

	// Old refresh token is single-use
	s.rdb.Del(ctx, "token:refresh:"+jti)

	return s.generateTokenPair(ctx, contact)
}

// Logout invalidates the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshTokenString string) error {
	token, err := jwt.Parse(refreshTokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.Secret), nil
	})
	if err != nil {
		return nil
	}
	if claims, ok := token.Claims.(jwt.MapClaims); ok {
		if jti, ok := claims["jti"].(string); ok {
			s.rdb.Del(ctx, "token:refresh:"+jti)
		}
	}
	return nil
}

// GetCurrentUser loads the contact behind the access token
func (s *AuthService) GetCurrentUser(ctx context.Context, contactID string) (*entity.Contact, error) {
	return s.contactRepo.FindByID(ctx, contactID)
}

// HashPassword bcrypt helper used when creating contacts
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
