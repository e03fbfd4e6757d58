package service

import (
	"context"
	"crypto/sha256"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	servermocks "github.com/dtroode/certdash/internal/mocks"
	"github.com/dtroode/certdash/internal/model"
	"github.com/dtroode/certdash/internal/testutil"
)

const testRefreshTTL = 30 * 24 * time.Hour

func storedToken(jti string, userID uuid.UUID, presented string, expiresAt time.Time) model.RefreshToken {
	h := sha256.Sum256([]byte(presented))
	return model.RefreshToken{
		JTI:       jti,
		UserID:    userID,
		TokenHash: h[:],
		IssuedAt:  time.Now().Add(-time.Hour),
		ExpiresAt: expiresAt,
	}
}

func TestTokenService_Issue(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	expiresAt := time.Now().Add(time.Hour)

	manager := servermocks.NewTokenManager(t)
	store := servermocks.NewRefreshTokenStore(t)

	manager.On("GenerateAccessToken", userID).Return("access", expiresAt, nil).Once()
	manager.On("GenerateRefreshToken", userID).Return("refresh", "jti-1", nil).Once()
	store.On("Create", ctx, mock.MatchedBy(func(rt model.RefreshToken) bool {
		h := sha256.Sum256([]byte("refresh"))
		return rt.JTI == "jti-1" && rt.UserID == userID && assert.ObjectsAreEqual(h[:], rt.TokenHash) &&
			rt.RotatedFromJTI == nil
	})).Return(nil).Once()

	svc := NewTokenService(manager, store, testRefreshTTL, testutil.MakeNoopLogger())

	pair, err := svc.Issue(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, model.TokenPair{UserID: userID, AccessToken: "access", RefreshToken: "refresh", ExpiresAt: expiresAt}, pair)
}

func TestTokenService_Issue_ManagerError(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	manager := servermocks.NewTokenManager(t)
	store := &servermocks.RefreshTokenStore{}

	manager.On("GenerateAccessToken", userID).Return("", time.Time{}, assert.AnError).Once()

	svc := NewTokenService(manager, store, testRefreshTTL, testutil.MakeNoopLogger())

	_, err := svc.Issue(ctx, userID)
	require.ErrorIs(t, err, assert.AnError)
}

func TestTokenService_Issue_PersistError(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	manager := servermocks.NewTokenManager(t)
	store := servermocks.NewRefreshTokenStore(t)

	manager.On("GenerateAccessToken", userID).Return("access", time.Now(), nil).Once()
	manager.On("GenerateRefreshToken", userID).Return("refresh", "jti", nil).Once()
	store.On("Create", ctx, mock.Anything).Return(assert.AnError).Once()

	svc := NewTokenService(manager, store, testRefreshTTL, testutil.MakeNoopLogger())

	_, err := svc.Issue(ctx, userID)
	require.ErrorContains(t, err, "persist refresh")
}

func TestTokenService_Refresh_Success(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	presented := "refresh-old"

	manager := servermocks.NewTokenManager(t)
	store := servermocks.NewRefreshTokenStore(t)

	manager.On("ParseRefreshToken", presented).Return(userID, "jti-old", nil).Once()
	store.On("GetByJTI", ctx, "jti-old").Return(storedToken("jti-old", userID, presented, time.Now().Add(time.Hour)), nil).Once()
	store.On("RevokeByJTI", ctx, "jti-old").Return(nil).Once()
	manager.On("GenerateAccessToken", userID).Return("access-new", time.Now().Add(time.Hour), nil).Once()
	manager.On("GenerateRefreshToken", userID).Return("refresh-new", "jti-new", nil).Once()
	store.On("Create", ctx, mock.MatchedBy(func(rt model.RefreshToken) bool {
		return rt.JTI == "jti-new" && rt.RotatedFromJTI != nil && *rt.RotatedFromJTI == "jti-old"
	})).Return(nil).Once()

	svc := NewTokenService(manager, store, testRefreshTTL, testutil.MakeNoopLogger())

	pair, err := svc.Refresh(ctx, presented)
	require.NoError(t, err)
	assert.Equal(t, "access-new", pair.AccessToken)
	assert.Equal(t, "refresh-new", pair.RefreshToken)
	assert.Equal(t, userID, pair.UserID)
}

func TestTokenService_Refresh_Rejected(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	presented := "refresh"
	now := time.Now()

	revoked := storedToken("jti", userID, presented, now.Add(time.Hour))
	revoked.RevokedAt = &now

	tests := []struct {
		name    string
		stored  model.RefreshToken
		wantErr error
	}{
		{name: "revoked", stored: revoked, wantErr: model.ErrTokenRevoked},
		{name: "expired", stored: storedToken("jti", userID, presented, now.Add(-time.Minute)), wantErr: model.ErrTokenExpired},
		{name: "mismatch", stored: storedToken("jti", userID, "other", now.Add(time.Hour)), wantErr: model.ErrTokenMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := servermocks.NewTokenManager(t)
			store := servermocks.NewRefreshTokenStore(t)

			manager.On("ParseRefreshToken", presented).Return(userID, "jti", nil).Once()
			store.On("GetByJTI", ctx, "jti").Return(tt.stored, nil).Once()

			svc := NewTokenService(manager, store, testRefreshTTL, testutil.MakeNoopLogger())

			_, err := svc.Refresh(ctx, presented)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTokenService_Refresh_UnknownToken(t *testing.T) {
	ctx := context.Background()
	manager := servermocks.NewTokenManager(t)
	store := servermocks.NewRefreshTokenStore(t)

	manager.On("ParseRefreshToken", "refresh").Return(uuid.New(), "jti", nil).Once()
	store.On("GetByJTI", ctx, "jti").Return(model.RefreshToken{}, model.ErrNotFound).Once()

	svc := NewTokenService(manager, store, testRefreshTTL, testutil.MakeNoopLogger())

	_, err := svc.Refresh(ctx, "refresh")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestTokenService_RevokeByToken(t *testing.T) {
	ctx := context.Background()
	manager := servermocks.NewTokenManager(t)
	store := servermocks.NewRefreshTokenStore(t)

	manager.On("ParseRefreshToken", "refresh").Return(uuid.New(), "jti", nil).Once()
	store.On("RevokeByJTI", ctx, "jti").Return(nil).Once()

	svc := NewTokenService(manager, store, testRefreshTTL, testutil.MakeNoopLogger())

	require.NoError(t, svc.RevokeByToken(ctx, "refresh"))
}

func TestTokenService_GetUserID(t *testing.T) {
	manager := servermocks.NewTokenManager(t)
	store := &servermocks.RefreshTokenStore{}

	u := uuid.New()
	manager.On("ParseAccessToken", "access").Return(u, nil).Once()

	svc := NewTokenService(manager, store, testRefreshTTL, testutil.MakeNoopLogger())

	got, err := svc.GetUserID(context.Background(), "access")
	require.NoError(t, err)
	assert.Equal(t, u, got)
}

func TestTokenService_RevokeAllForUser(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	store := servermocks.NewRefreshTokenStore(t)

	store.On("RevokeAllByUser", ctx, userID).Return(assert.AnError).Once()

	svc := NewTokenService(&servermocks.TokenManager{}, store, testRefreshTTL, testutil.MakeNoopLogger())

	require.ErrorIs(t, svc.RevokeAllForUser(ctx, userID), assert.AnError)
}
