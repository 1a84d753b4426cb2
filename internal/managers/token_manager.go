package managers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"gadget-server/internal/config"
	"gadget-server/internal/schemas"
	"gadget-server/internal/stores"
)

var (
	// ErrTokenAlreadyIssued is returned when a live token of the purpose exists for the user.
	ErrTokenAlreadyIssued = errors.New("token already issued")
	// ErrInvalidToken is returned when no live token matches.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrMailNotSent is returned when the token was stored but the link could not be mailed.
	ErrMailNotSent = errors.New("mail not sent")
)

// TokenMgr drives the lifecycle of the single-use tokens sent by mail.
type TokenMgr interface {
	// Issue stores a fresh token for the user and mails the link carrying it.
	Issue(ctx context.Context, user *schemas.User, purpose schemas.TokenPurpose) error
	// Consume removes the matching live token. Only one caller can consume a token.
	Consume(ctx context.Context, userID, value string, purpose schemas.TokenPurpose) error
	// SweepExpired deletes expired tokens every interval until ctx is done.
	SweepExpired(ctx context.Context, interval time.Duration)
}

type TokenManager struct {
	tokens  stores.TokenStore
	mail    MailMgr
	baseURL string
	ttl     time.Duration
	now     func() time.Time
}

func NewTokenManager(tokens stores.TokenStore, mail MailMgr, cfg *config.Config) *TokenManager {
	return &TokenManager{
		tokens:  tokens,
		mail:    mail,
		baseURL: cfg.BaseURL,
		ttl:     cfg.TokenTTL,
		now:     time.Now,
	}
}

// HashToken returns the hex encoded SHA-256 of the token value, the form stored in the database.
func HashToken(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}

// Link builds the front-end URL the user has to open for the purpose.
func (tm *TokenManager) Link(userID, value string, purpose schemas.TokenPurpose) string {
	path := "/verify/"
	if purpose == schemas.PurposePasswordReset {
		path = "/resetpassword/"
	}
	return tm.baseURL + path + userID + "/" + value
}

func (tm *TokenManager) Issue(ctx context.Context, user *schemas.User, purpose schemas.TokenPurpose) error {
	value := uuid.NewString()
	now := tm.now().UTC()
	token := &schemas.Token{
		UserID:    user.ID,
		Hash:      HashToken(value),
		Purpose:   purpose,
		CreatedAt: now,
		ExpiresAt: now.Add(tm.ttl),
	}

	if err := tm.tokens.Create(ctx, token); err != nil {
		if errors.Is(err, stores.ErrDuplicate) {
			return ErrTokenAlreadyIssued
		}
		return err
	}

	link := tm.Link(user.ID, value, purpose)
	var err error
	if purpose == schemas.PurposePasswordReset {
		err = tm.mail.SendPasswordResetMail(ctx, user.Email, user.Name, link)
	} else {
		err = tm.mail.SendVerificationMail(ctx, user.Email, user.Name, link)
	}
	if err != nil {
		return errors.WithStack(fmt.Errorf("%w: %w", ErrMailNotSent, err))
	}
	return nil
}

func (tm *TokenManager) Consume(ctx context.Context, userID, value string, purpose schemas.TokenPurpose) error {
	_, err := tm.tokens.Consume(ctx, userID, HashToken(value), purpose, tm.now().UTC())
	if errors.Is(err, stores.ErrNotFound) || errors.Is(err, stores.ErrInvalidID) {
		return ErrInvalidToken
	}
	return err
}

func (tm *TokenManager) SweepExpired(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping token sweeper")
			return
		case <-ticker.C:
			tm.sweep(ctx)
		}
	}
}

func (tm *TokenManager) sweep(ctx context.Context) {
	n, err := tm.tokens.DeleteExpired(ctx, tm.now().UTC())
	if err != nil {
		log.Warn("Error deleting expired tokens: ", err)
		return
	}
	if n > 0 {
		log.Debugf("Deleted %d expired tokens", n)
	}
}
