package services

import (
	"errors"
	"time"

	"github.com/horseradish/comparebot/internal/config"
	"github.com/horseradish/comparebot/internal/models"
	"github.com/horseradish/comparebot/internal/utils"
	"github.com/horseradish/comparebot/pkg/logger"
	"github.com/horseradish/comparebot/pkg/response"
	"gorm.io/gorm"
)

// AuthService handles the login stub: bcrypt-checked client accounts that
// trade a password for a JWT identity assertion.
type AuthService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{db: db, jwtConfig: jwtCfg}
}

type LoginRequest struct {
	ClientID string `json:"client_id" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token    string    `json:"token"`
	ClientID string    `json:"client_id"`
	ExpireAt time.Time `json:"expire_at"`
}

// Login authenticates a client and returns a JWT token.
func (s *AuthService) Login(req *LoginRequest) (*LoginResponse, error) {
	var client models.Client
	if err := s.db.Where("client_id = ?", req.ClientID).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewUnauthorized("invalid client id or password")
		}
		return nil, response.NewServerError("failed to load client account")
	}

	if !client.IsActive {
		return nil, response.NewUnauthorized("client account is disabled")
	}

	if !utils.CheckPassword(req.Password, client.Password) {
		return nil, response.NewUnauthorized("invalid client id or password")
	}

	expireHours := s.jwtConfig.ExpireHour
	if expireHours <= 0 {
		expireHours = 24
	}

	token, err := utils.GenerateToken(client.ClientID, expireHours)
	if err != nil {
		return nil, response.NewServerError("failed to issue token")
	}

	now := time.Now()
	client.LastLogin = &now
	s.db.Save(&client)

	return &LoginResponse{
		Token:    token,
		ClientID: client.ClientID,
		ExpireAt: now.Add(time.Duration(expireHours) * time.Hour),
	}, nil
}

// GetClient retrieves a client account by its client id.
func (s *AuthService) GetClient(clientID string) (*models.Client, error) {
	var client models.Client
	if err := s.db.Where("client_id = ?", clientID).First(&client).Error; err != nil {
		return nil, err
	}
	return &client, nil
}

// SeedDemoClientIfNotExists creates a demo client account when the clients
// table is empty, so a fresh install can log in immediately.
func (s *AuthService) SeedDemoClientIfNotExists() error {
	var count int64
	s.db.Model(&models.Client{}).Count(&count)
	if count > 0 {
		return nil
	}

	hashed, err := utils.HashPassword("demo123")
	if err != nil {
		return err
	}

	demo := models.Client{
		ClientID: "demo",
		Password: hashed,
		IsActive: true,
	}
	if err := s.db.Create(&demo).Error; err != nil {
		return err
	}

	logger.Warnf("seeded demo client account %q with the default password, change it before production use", demo.ClientID)
	return nil
}
