package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/dineqr/backoffice/models"
	"github.com/dineqr/backoffice/utils"
)

// TokenConfig is built once at startup and treated as immutable for the
// process lifetime.
type TokenConfig struct {
	Secret []byte
	Issuer string
	// TTL applies when Issue is called without an explicit lifetime. Zero
	// means issued tokens never expire.
	TTL time.Duration
}

// TableScope is the {restaurant, table} pair a verified token authorizes.
type TableScope struct {
	RestaurantID string `json:"restaurant_id"`
	TableID      string `json:"table_id"`
}

type TableTokenClaims struct {
	RestaurantID string `json:"restaurant_id"`
	TableID      string `json:"table_id"`
	jwt.RegisteredClaims
}

// TableTokenService mints and verifies table capability tokens. Verification
// is stateless: a token is trusted on signature and expiry alone, so
// regenerating a table's QR code does not invalidate tokens already handed
// out.
type TableTokenService struct {
	DB  *gorm.DB
	cfg TokenConfig
}

func NewTableTokenService(db *gorm.DB, cfg TokenConfig) *TableTokenService {
	if cfg.Issuer == "" {
		cfg.Issuer = "backoffice"
	}
	return &TableTokenService{DB: db, cfg: cfg}
}

// Issue mints a capability token for the table and stores a display copy on
// the table row for operator-facing QR regeneration. The restaurant id always
// comes from the table itself, never from the caller.
func (s *TableTokenService) Issue(tableID string, expiresIn time.Duration) (string, *models.Table, error) {
	var table models.Table
	if err := s.DB.First(&table, "id = ?", tableID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, utils.ErrNotFound
		}
		return "", nil, fmt.Errorf("load table: %w", err)
	}

	now := time.Now()
	ttl := expiresIn
	if ttl == 0 {
		ttl = s.cfg.TTL
	}

	claims := &TableTokenClaims{
		RestaurantID: table.RestaurantID,
		TableID:      table.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
			Issuer:   s.cfg.Issuer,
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.cfg.Secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign table token: %w", err)
	}

	if err := s.DB.Model(&table).Updates(map[string]interface{}{
		"qr_token":            signed,
		"qr_token_created_at": now,
	}).Error; err != nil {
		return "", nil, fmt.Errorf("store token copy: %w", err)
	}
	table.QRToken = &signed
	table.QRTokenCreatedAt = &now

	return signed, &table, nil
}

// Verify checks signature and expiry only; it performs no database reads.
// Malformed, badly signed and expired tokens all collapse into
// utils.ErrTokenInvalid for the caller; the distinction is logged.
func (s *TableTokenService) Verify(tokenString string) (TableScope, error) {
	claims := &TableTokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.cfg.Secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	if err != nil || !token.Valid {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			utils.InfoLogger.Printf("table token rejected: malformed")
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			utils.InfoLogger.Printf("table token rejected: bad signature")
		case errors.Is(err, jwt.ErrTokenExpired):
			utils.InfoLogger.Printf("table token rejected: expired")
		default:
			utils.InfoLogger.Printf("table token rejected: %v", err)
		}
		return TableScope{}, utils.ErrTokenInvalid
	}

	if claims.RestaurantID == "" || claims.TableID == "" {
		utils.InfoLogger.Printf("table token rejected: missing scope claims")
		return TableScope{}, utils.ErrTokenInvalid
	}

	return TableScope{RestaurantID: claims.RestaurantID, TableID: claims.TableID}, nil
}
