package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"gohire/internal/common"
	"gohire/internal/domain/analytics"
	"gohire/internal/domain/auth"
	"gohire/internal/domain/profile"
	"gohire/internal/notify"
	"gohire/internal/realtime"
	"gohire/internal/security"
)

const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
	resetPath     = "/update-password"
)

type AuthConfig struct {
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	RecoveryTTL   time.Duration
	PublicBaseURL string
	// AllowedRedirectOrigins lists extra scheme://host values a reset link
	// may point at. PublicBaseURL is always allowed.
	AllowedRedirectOrigins []string
}

// AuthService is the identity provider: credentials, tokens, password
// recovery and session change notifications.
type AuthService struct {
	identities     auth.IdentityRepository
	profiles       profile.Repository
	refreshTokens  auth.RefreshTokenRepository
	recoveryTokens auth.RecoveryTokenRepository
	analytics      analytics.Repository
	jwtProvider    *security.JWTProvider
	hasher         *security.PasswordHasher
	mailer         notify.Mailer
	broker         realtime.Broker
	sessions       *SessionService
	logger         Logger
	cfg            AuthConfig
}

func NewAuthService(identities auth.IdentityRepository, profiles profile.Repository, refreshTokens auth.RefreshTokenRepository, recoveryTokens auth.RecoveryTokenRepository, analytics analytics.Repository, jwtProvider *security.JWTProvider, hasher *security.PasswordHasher, mailer notify.Mailer, broker realtime.Broker, sessions *SessionService, logger Logger, cfg AuthConfig) *AuthService {
	return &AuthService{
		identities:     identities,
		profiles:       profiles,
		refreshTokens:  refreshTokens,
		recoveryTokens: recoveryTokens,
		analytics:      analytics,
		jwtProvider:    jwtProvider,
		hasher:         hasher,
		mailer:         mailer,
		broker:         broker,
		sessions:       sessions,
		logger:         logger,
		cfg:            cfg,
	}
}

type SignUpInput struct {
	Email                 string `json:"email"`
	Password              string `json:"password"`
	Role                  string `json:"role"`
	FullName              string `json:"full_name"`
	Phone                 string `json:"phone"`
	AreaOfWork            string `json:"area_of_work"`
	Location              string `json:"location"`
	CNPJ                  string `json:"cnpj"`
	ResponsibleName       string `json:"responsible_name"`
	ResponsibleRole       string `json:"responsible_role"`
	PreferredContractType string `json:"preferred_contract_type"`
}

type AuthResult struct {
	Tokens     *auth.TokenPair `json:"tokens,omitempty"`
	Session    *Session        `json:"session"`
	RedirectTo string          `json:"redirect_to,omitempty"`
}

func (s *AuthService) SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error) {
	fields := map[string]string{}
	email, err := normalizeEmail(input.Email)
	if err != nil {
		fields["email"] = "email is not valid"
	}
	if err := security.CheckPassword(input.Password); err != nil {
		fields["password"] = err.Error()
	}
	role, ok := profile.ParseRole(input.Role)
	if !ok {
		fields["role"] = "role must be institution or professor"
	}
	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		fields["full_name"] = "full_name is required"
	}
	if len(fields) > 0 {
		return nil, common.NewValidationError("invalid sign-up", fields)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to hash password", err)
	}
	identity, err := s.identities.Create(ctx, auth.Identity{Email: email, PasswordHash: hash})
	if err != nil {
		return nil, err
	}
	p := profile.Profile{
		ID:                    identity.ID,
		Role:                  role,
		FullName:              fullName,
		Email:                 email,
		Phone:                 strings.TrimSpace(input.Phone),
		AreaOfWork:            strings.TrimSpace(input.AreaOfWork),
		Location:              strings.TrimSpace(input.Location),
		CNPJ:                  strings.TrimSpace(input.CNPJ),
		ResponsibleName:       strings.TrimSpace(input.ResponsibleName),
		ResponsibleRole:       strings.TrimSpace(input.ResponsibleRole),
		PreferredContractType: strings.TrimSpace(input.PreferredContractType),
	}
	if _, err := s.profiles.Create(ctx, p); err != nil {
		logError(s.logger, fmt.Sprintf("profile create failed user_id=%s err=%v", identity.ID, err))
		if delErr := s.identities.Delete(ctx, identity.ID); delErr != nil {
			logError(s.logger, fmt.Sprintf("identity rollback failed user_id=%s err=%v", identity.ID, delErr))
		}
		return nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "auth.signed_up", UserID: &identity.ID, Payload: analyticsPayload(ctx, map[string]string{"role": string(role)})})
	logInfo(s.logger, fmt.Sprintf("user signed up user_id=%s role=%s", identity.ID, role))

	return s.startSession(ctx, identity, auth.PurposeSession, "")
}

// SignIn checks credentials. from is the client path the request came from;
// a sign-in from the login page carries a redirect to the dashboard.
func (s *AuthService) SignIn(ctx context.Context, email, password, from string) (*AuthResult, error) {
	invalid := common.NewError(common.CodeUnauthorized, "invalid login credentials", nil)
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" || password == "" {
		return nil, invalid
	}
	identity, err := s.identities.GetByEmail(ctx, normalized)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			_ = s.analytics.Create(ctx, analytics.Event{Name: "auth.sign_in_failed", Payload: analyticsPayload(ctx, nil)})
			return nil, invalid
		}
		return nil, err
	}
	if !s.hasher.Compare(identity.PasswordHash, password) {
		_ = s.analytics.Create(ctx, analytics.Event{Name: "auth.sign_in_failed", UserID: &identity.ID, Payload: analyticsPayload(ctx, nil)})
		return nil, invalid
	}
	redirect := ""
	if strings.TrimRight(strings.TrimSpace(from), "/") == loginPath {
		redirect = dashboardPath
	}
	return s.startSession(ctx, identity, auth.PurposeSession, redirect)
}

func (s *AuthService) SignOut(ctx context.Context, refreshToken string) (*AuthResult, error) {
	result := &AuthResult{Session: AnonymousSession(), RedirectTo: loginPath}
	token := strings.TrimSpace(refreshToken)
	if token == "" {
		return result, nil
	}
	hash := security.HashToken(token)
	stored, err := s.refreshTokens.GetByHash(ctx, hash)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return result, nil
		}
		return nil, err
	}
	if err := s.refreshTokens.Revoke(ctx, hash, time.Now().UTC()); err != nil {
		return nil, err
	}
	s.notifyChange(ctx, stored.UserID, auth.EventSignedOut)
	_ = s.analytics.Create(ctx, analytics.Event{Name: "auth.signed_out", UserID: &stored.UserID, Payload: analyticsPayload(ctx, nil)})
	logInfo(s.logger, fmt.Sprintf("user signed out user_id=%s", stored.UserID))
	return result, nil
}

// Refresh rotates a session refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	hash := security.HashToken(strings.TrimSpace(refreshToken))
	stored, err := s.refreshTokens.GetByHash(ctx, hash)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, common.NewError(common.CodeUnauthorized, "invalid refresh token", err)
		}
		return nil, err
	}
	if stored.RevokedAt != nil {
		return nil, common.NewError(common.CodeUnauthorized, "refresh token revoked", nil)
	}
	if stored.ExpiresAt.Before(time.Now().UTC()) {
		return nil, common.NewError(common.CodeUnauthorized, "refresh token expired", nil)
	}
	if stored.Purpose != auth.PurposeSession {
		return nil, common.NewError(common.CodeUnauthorized, "refresh token cannot be rotated", nil)
	}
	identity, err := s.identities.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.refreshTokens.Revoke(ctx, hash, time.Now().UTC()); err != nil {
		return nil, err
	}
	pair, err := s.issueTokens(ctx, identity, auth.PurposeSession)
	if err != nil {
		return nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "auth.token_refreshed", UserID: &identity.ID, Payload: analyticsPayload(ctx, nil)})
	return &AuthResult{Tokens: pair, Session: s.sessionFor(ctx, pair.AccessToken)}, nil
}

// RequestPasswordReset mails a single-use link. Unknown emails get the same
// answer as known ones.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email, redirectURL string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	target, err := s.resetTarget(redirectURL)
	if err != nil {
		return err
	}
	identity, err := s.identities.GetByEmail(ctx, normalized)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil
		}
		return err
	}
	token, hash, err := security.NewOpaqueToken()
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to generate recovery token", err)
	}
	if err := s.recoveryTokens.Store(ctx, auth.RecoveryToken{
		TokenHash: hash,
		UserID:    identity.ID,
		ExpiresAt: time.Now().UTC().Add(s.cfg.RecoveryTTL),
	}); err != nil {
		return err
	}
	query := target.Query()
	query.Set("token", token)
	target.RawQuery = query.Encode()
	if err := s.mailer.Send(ctx, notify.PasswordResetMail(identity.Email, target.String())); err != nil {
		logError(s.logger, fmt.Sprintf("password reset mail failed user_id=%s err=%v", identity.ID, err))
		return common.NewError(common.CodeInternal, "failed to send password reset email", err)
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "auth.password_reset_requested", UserID: &identity.ID, Payload: analyticsPayload(ctx, nil)})
	return nil
}

func (s *AuthService) resetTarget(redirectURL string) (*url.URL, error) {
	raw := strings.TrimSpace(redirectURL)
	if raw == "" {
		raw = s.cfg.PublicBaseURL + resetPath
	}
	target, err := url.Parse(raw)
	if err != nil || target.Scheme == "" || target.Host == "" {
		return nil, common.NewValidationError("invalid redirect url", map[string]string{"redirect_to": "redirect_to must be an absolute url"})
	}
	if !s.allowedOrigin(target) {
		return nil, common.NewValidationError("invalid redirect url", map[string]string{"redirect_to": "redirect_to origin is not allowed"})
	}
	return target, nil
}

func (s *AuthService) allowedOrigin(target *url.URL) bool {
	origin := strings.ToLower(target.Scheme + "://" + target.Host)
	for _, raw := range append([]string{s.cfg.PublicBaseURL}, s.cfg.AllowedRedirectOrigins...) {
		allowed, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || allowed.Host == "" {
			continue
		}
		if origin == strings.ToLower(allowed.Scheme+"://"+allowed.Host) {
			return true
		}
	}
	return false
}

// VerifyRecovery redeems a reset link and opens a recovery session that can
// only be used to set a new password.
func (s *AuthService) VerifyRecovery(ctx context.Context, token string) (*AuthResult, error) {
	if strings.TrimSpace(token) == "" {
		return nil, common.NewValidationError("invalid recovery token", map[string]string{"token": "token is required"})
	}
	consumed, err := s.recoveryTokens.Consume(ctx, security.HashToken(strings.TrimSpace(token)), time.Now().UTC())
	if err != nil {
		return nil, err
	}
	identity, err := s.identities.GetByID(ctx, consumed.UserID)
	if err != nil {
		return nil, err
	}
	_ = s.analytics.Create(ctx, analytics.Event{Name: "auth.password_recovery", UserID: &identity.ID, Payload: analyticsPayload(ctx, nil)})
	return s.startSession(ctx, identity, auth.PurposeRecovery, "")
}

// UpdatePassword sets a new password for the caller. A recovery session is
// revoked once it has been used.
func (s *AuthService) UpdatePassword(ctx context.Context, userID common.UUID, purpose string, newPassword string) error {
	if err := security.CheckPassword(newPassword); err != nil {
		return common.NewValidationError("invalid password", map[string]string{"password": err.Error()})
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to hash password", err)
	}
	if err := s.identities.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	if auth.Purpose(purpose) == auth.PurposeRecovery {
		if err := s.refreshTokens.RevokeAll(ctx, userID, auth.PurposeRecovery, time.Now().UTC()); err != nil {
			logError(s.logger, fmt.Sprintf("recovery session revoke failed user_id=%s err=%v", userID, err))
		}
	}
	s.notifyChange(ctx, userID, auth.EventUserUpdated)
	_ = s.analytics.Create(ctx, analytics.Event{Name: "auth.password_updated", UserID: &userID, Payload: analyticsPayload(ctx, nil)})
	logInfo(s.logger, fmt.Sprintf("password updated user_id=%s", userID))
	return nil
}

func (s *AuthService) startSession(ctx context.Context, identity *auth.Identity, purpose auth.Purpose, redirect string) (*AuthResult, error) {
	pair, err := s.issueTokens(ctx, identity, purpose)
	if err != nil {
		return nil, err
	}
	event := auth.EventSignedIn
	if purpose == auth.PurposeRecovery {
		event = auth.EventPasswordRecovery
	} else {
		_ = s.analytics.Create(ctx, analytics.Event{Name: "auth.signed_in", UserID: &identity.ID, Payload: analyticsPayload(ctx, nil)})
	}
	s.notifyChange(ctx, identity.ID, event)
	return &AuthResult{Tokens: pair, Session: s.sessionFor(ctx, pair.AccessToken), RedirectTo: redirect}, nil
}

func (s *AuthService) sessionFor(ctx context.Context, accessToken string) *Session {
	if s.sessions == nil {
		return AnonymousSession()
	}
	return s.sessions.Resolve(ctx, accessToken)
}

func (s *AuthService) issueTokens(ctx context.Context, identity *auth.Identity, purpose auth.Purpose) (*auth.TokenPair, error) {
	role := ""
	if p, err := s.profiles.GetByID(ctx, identity.ID); err == nil {
		role = string(p.Role)
	}
	accessTTL, refreshTTL := s.cfg.AccessTTL, s.cfg.RefreshTTL
	if purpose == auth.PurposeRecovery {
		accessTTL, refreshTTL = s.cfg.RecoveryTTL, s.cfg.RecoveryTTL
	}
	accessToken, expiresAt, err := s.jwtProvider.Generate(identity.ID, identity.Email, role, string(purpose), accessTTL)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to generate access token", err)
	}
	refreshValue, refreshHash, err := security.NewOpaqueToken()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to generate refresh token", err)
	}
	now := time.Now().UTC()
	if err := s.refreshTokens.Store(ctx, auth.RefreshToken{
		ID:        common.NewUUID(),
		UserID:    identity.ID,
		TokenHash: refreshHash,
		Purpose:   purpose,
		ExpiresAt: now.Add(refreshTTL),
		CreatedAt: now,
	}); err != nil {
		return nil, err
	}
	return &auth.TokenPair{AccessToken: accessToken, RefreshToken: refreshValue, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) notifyChange(ctx context.Context, userID common.UUID, event string) {
	if s.broker == nil {
		return
	}
	payload, err := json.Marshal(auth.Change{Event: event, UserID: userID, At: time.Now().UTC()})
	if err != nil {
		return
	}
	if err := s.broker.Publish(ctx, auth.Topic(userID), payload); err != nil {
		logError(s.logger, fmt.Sprintf("session change publish failed user_id=%s event=%s err=%v", userID, event, err))
	}
}
