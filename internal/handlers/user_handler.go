package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"gadget-server/internal/config"
	"gadget-server/internal/managers"
	"gadget-server/internal/middleware"
	"gadget-server/internal/schemas"
	"gadget-server/internal/stores"
	"gadget-server/internal/utils"
)

const (
	// ResetGrantCookie carries the proof that the password reset link was opened.
	ResetGrantCookie = "passwordResetGrant"
	resetGrantTTL    = 15 * time.Minute
	resetGrantPath   = "/api/users/updatepassword"
)

type UserHdl interface {
	RegisterUser(c *gin.Context)
	VerifyUser(c *gin.Context)
	LoginUser(c *gin.Context)
	LogoutUser(c *gin.Context)
	ForgotPassword(c *gin.Context)
	ResetPassword(c *gin.Context)
	UpdatePassword(c *gin.Context)
}

type UserHandler struct {
	DatabaseManager managers.DatabaseMgr
	JWTManager      managers.JWTMgr
	MailManager     managers.MailMgr
	TokenManager    managers.TokenMgr
	Validator       *utils.Validator
	Config          *config.Config
}

func NewUserHandler(databaseManager managers.DatabaseMgr, jwtManager managers.JWTMgr, mailManager managers.MailMgr,
	tokenManager managers.TokenMgr, cfg *config.Config) UserHdl {
	return &UserHandler{
		DatabaseManager: databaseManager,
		JWTManager:      jwtManager,
		MailManager:     mailManager,
		TokenManager:    tokenManager,
		Validator:       utils.GetValidator(),
		Config:          cfg,
	}
}

func (handler *UserHandler) RegisterUser(c *gin.Context) {
	ctx := c.Request.Context()
	registrationRequest := middleware.Payload[schemas.RegistrationRequest](c)
	email := normalizeEmail(registrationRequest.Email)

	// The MX lookup needs network access, so it is opt-in
	if handler.Config.EmailMXCheck && !handler.Validator.VerifyEmail(email) {
		utils.WriteAndLogError(c, schemas.EmailUnreachable, errors.New("email domain has no mail exchanger"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registrationRequest.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, errors.WithStack(err))
		return
	}

	user := &schemas.User{
		Name:     registrationRequest.Name,
		Email:    email,
		Password: string(hashedPassword),
		Address:  registrationRequest.Address,
	}
	if err = handler.DatabaseManager.Users().Create(ctx, user); err != nil {
		if errors.Is(err, stores.ErrDuplicate) {
			utils.WriteAndLogError(c, schemas.UserAlreadyExists, err)
			return
		}
		utils.WriteAndLogError(c, schemas.DatabaseError, err)
		return
	}

	if err = handler.TokenManager.Issue(ctx, user, schemas.PurposeVerification); err != nil {
		utils.WriteAndLogError(c, tokenError(err), err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.MessageDTO{
		Message: "Registration successful. Please check your email to verify your account.",
	}, http.StatusCreated)
}

func (handler *UserHandler) VerifyUser(c *gin.Context) {
	ctx := c.Request.Context()
	userId := c.Param(utils.IdParamKey)

	user, err := handler.DatabaseManager.Users().FindByID(ctx, userId)
	if err != nil {
		utils.WriteAndLogError(c, storeError(err, schemas.UserNotFoundBadRequest), err)
		return
	}

	if err = handler.TokenManager.Consume(ctx, user.ID, c.Param(utils.TokenParamKey), schemas.PurposeVerification); err != nil {
		utils.WriteAndLogError(c, tokenError(err), err)
		return
	}

	if err = handler.DatabaseManager.Users().MarkVerified(ctx, user.ID); err != nil {
		utils.WriteAndLogError(c, storeError(err, schemas.UserNotFoundBadRequest), err)
		return
	}

	if err = handler.MailManager.SendConfirmationMail(ctx, user.Email, user.Name); err != nil {
		log.Warn("Error sending confirmation mail: ", err)
	}

	utils.WriteAndLogResponse(c, &schemas.MessageDTO{Message: "Email verified successfully"}, http.StatusOK)
}

func (handler *UserHandler) LoginUser(c *gin.Context) {
	ctx := c.Request.Context()
	loginRequest := middleware.Payload[schemas.LoginRequest](c)

	user, err := handler.DatabaseManager.Users().FindByEmail(ctx, normalizeEmail(loginRequest.Email))
	if err != nil {
		utils.WriteAndLogError(c, storeError(err, schemas.UserNotFound), err)
		return
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginRequest.Password)); err != nil {
		utils.WriteAndLogError(c, schemas.InvalidPassword, err)
		return
	}

	if !user.IsVerified {
		handler.rejectUnverified(c, user)
		return
	}

	claims := handler.JWTManager.GenerateClaims(user.ID, managers.AudienceSession, handler.Config.SessionTTL)
	token, err := handler.JWTManager.GenerateJWT(claims)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, err)
		return
	}
	handler.setCookie(c, handler.Config.CookieName, token, handler.Config.SessionTTL, "/")

	utils.WriteAndLogResponse(c, &schemas.LoginDTO{
		Message: "Login successful",
		User: schemas.UserDTO{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
		},
	}, http.StatusOK)
}

func (handler *UserHandler) LogoutUser(c *gin.Context) {
	handler.setCookie(c, handler.Config.CookieName, "", -1, "/")
	utils.WriteAndLogResponse(c, &schemas.MessageDTO{Message: "Logged out successfully"}, http.StatusOK)
}

func (handler *UserHandler) ForgotPassword(c *gin.Context) {
	ctx := c.Request.Context()
	forgotRequest := middleware.Payload[schemas.ForgotPasswordRequest](c)

	user, err := handler.DatabaseManager.Users().FindByEmail(ctx, normalizeEmail(forgotRequest.Email))
	if err != nil {
		utils.WriteAndLogError(c, storeError(err, schemas.InvalidCredentials), err)
		return
	}

	if !user.IsVerified {
		handler.rejectUnverified(c, user)
		return
	}

	// Millisecond precision survives the round trip through both stores.
	now := time.Now().UTC().Truncate(time.Millisecond)
	claimed, err := handler.DatabaseManager.Users().ClaimEmailSlot(ctx, user.ID, now, handler.Config.PasswordResetDelay)
	if err != nil {
		utils.WriteAndLogError(c, schemas.DatabaseError, err)
		return
	}
	if !claimed {
		utils.WriteAndLogError(c, schemas.ResetTooSoon, errors.New("password reset requested within the delay"))
		return
	}

	if err = handler.TokenManager.Issue(ctx, user, schemas.PurposePasswordReset); err != nil {
		// No mail went out, so the delay keeps counting from the previous one.
		if releaseErr := handler.DatabaseManager.Users().ReleaseEmailSlot(context.WithoutCancel(ctx), user.ID, now,
			user.LastEmailSent); releaseErr != nil {
			log.Warn("Error releasing email slot: ", releaseErr)
		}
		utils.WriteAndLogError(c, tokenError(err), err)
		return
	}

	utils.WriteAndLogResponse(c, &schemas.MessageDTO{
		Message: "A password reset link has been sent to your email.",
	}, http.StatusOK)
}

func (handler *UserHandler) ResetPassword(c *gin.Context) {
	ctx := c.Request.Context()
	userId := c.Param(utils.IdParamKey)

	user, err := handler.DatabaseManager.Users().FindByID(ctx, userId)
	if err != nil {
		utils.WriteAndLogError(c, storeError(err, schemas.UserNotFoundBadRequest), err)
		return
	}

	if err = handler.TokenManager.Consume(ctx, user.ID, c.Param(utils.TokenParamKey), schemas.PurposePasswordReset); err != nil {
		utils.WriteAndLogError(c, tokenError(err), err)
		return
	}

	claims := handler.JWTManager.GenerateClaims(user.ID, managers.AudiencePasswordReset, resetGrantTTL)
	grant, err := handler.JWTManager.GenerateJWT(claims)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, err)
		return
	}
	handler.setCookie(c, ResetGrantCookie, grant, resetGrantTTL, resetGrantPath)

	utils.WriteAndLogResponse(c, &schemas.MessageDTO{Message: "Token verified. You can now set a new password."}, http.StatusOK)
}

func (handler *UserHandler) UpdatePassword(c *gin.Context) {
	ctx := c.Request.Context()
	userId := c.Param(utils.IdParamKey)

	grant, err := c.Cookie(ResetGrantCookie)
	if err != nil || grant == "" {
		utils.WriteAndLogError(c, schemas.ResetNotGranted, errors.New("missing password reset grant"))
		return
	}
	claims, err := handler.JWTManager.ValidateJWT(grant, managers.AudiencePasswordReset)
	if err != nil {
		utils.WriteAndLogError(c, schemas.ResetNotGranted, err)
		return
	}
	if subject, err := managers.SubjectFromClaims(claims); err != nil || subject != userId {
		utils.WriteAndLogError(c, schemas.ResetNotGranted, errors.New("password reset grant issued for another user"))
		return
	}

	updateRequest := middleware.Payload[schemas.UpdatePasswordRequest](c)
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(updateRequest.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteAndLogError(c, schemas.InternalServerError, errors.WithStack(err))
		return
	}

	if err = handler.DatabaseManager.Users().UpdatePassword(ctx, userId, string(hashedPassword)); err != nil {
		utils.WriteAndLogError(c, storeError(err, schemas.UserNotFoundBadRequest), err)
		return
	}
	handler.setCookie(c, ResetGrantCookie, "", -1, resetGrantPath)

	utils.WriteAndLogResponse(c, &schemas.MessageDTO{Message: "Password updated successfully"}, http.StatusOK)
}

// rejectUnverified re-sends the verification link unless one is still live and answers 403.
func (handler *UserHandler) rejectUnverified(c *gin.Context, user *schemas.User) {
	err := handler.TokenManager.Issue(c.Request.Context(), user, schemas.PurposeVerification)
	if err != nil && !errors.Is(err, managers.ErrTokenAlreadyIssued) {
		utils.WriteAndLogError(c, tokenError(err), err)
		return
	}
	utils.WriteAndLogError(c, schemas.UserNotVerified, errors.New("user "+user.ID+" is not verified"))
}

// setCookie writes an HttpOnly, SameSite=Strict cookie. A negative ttl removes it.
func (handler *UserHandler) setCookie(c *gin.Context, name, value string, ttl time.Duration, path string) {
	maxAge := -1
	if ttl > 0 {
		maxAge = int(ttl.Seconds())
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, value, maxAge, path, "", handler.Config.IsProduction(), true)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
