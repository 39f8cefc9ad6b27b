package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"gohire/internal/common"
	"gohire/internal/domain/auth"
	"gohire/internal/domain/profile"
	"gohire/internal/realtime"
	"gohire/internal/security"
)

type SessionState string

const (
	SessionLoading       SessionState = "loading"
	SessionAuthenticated SessionState = "authenticated"
	SessionAnonymous     SessionState = "anonymous"
)

const profileWarning = "não foi possível carregar o perfil"

// Session is the resolved view of who is calling. Profile is nil with a
// Warning when the identity is valid but its profile could not be read.
type Session struct {
	State   SessionState     `json:"state"`
	UserID  common.UUID      `json:"user_id,omitempty"`
	Email   string           `json:"email,omitempty"`
	Purpose string           `json:"purpose,omitempty"`
	Profile *profile.Profile `json:"profile"`
	Warning string           `json:"warning,omitempty"`
}

func AnonymousSession() *Session {
	return &Session{State: SessionAnonymous}
}

type SessionService struct {
	jwtProvider *security.JWTProvider
	profiles    profile.Repository
	broker      realtime.Broker
	logger      Logger
}

func NewSessionService(jwtProvider *security.JWTProvider, profiles profile.Repository, broker realtime.Broker, logger Logger) *SessionService {
	return &SessionService{jwtProvider: jwtProvider, profiles: profiles, broker: broker, logger: logger}
}

// Resolve never fails: bad or missing tokens give an anonymous session.
func (s *SessionService) Resolve(ctx context.Context, accessToken string) *Session {
	token := strings.TrimSpace(accessToken)
	if token == "" {
		return AnonymousSession()
	}
	claims, err := s.jwtProvider.Parse(token)
	if err != nil {
		return AnonymousSession()
	}
	return s.forClaims(ctx, claims)
}

func (s *SessionService) forClaims(ctx context.Context, claims *security.Claims) *Session {
	session := &Session{
		State:   SessionAuthenticated,
		UserID:  claims.UserID(),
		Email:   claims.Email,
		Purpose: claims.Purpose,
	}
	p, err := s.profiles.GetByID(ctx, session.UserID)
	if err != nil {
		logError(s.logger, fmt.Sprintf("profile load failed user_id=%s err=%v", session.UserID, err))
		session.Warning = profileWarning
		return session
	}
	session.Profile = p
	return session
}

// Changes streams the session change notifications of one user until ctx
// ends.
func (s *SessionService) Changes(ctx context.Context, userID common.UUID) (<-chan auth.Change, error) {
	if s.broker == nil {
		return nil, common.NewError(common.CodeInternal, "realtime broker not configured", nil)
	}
	payloads, cancel, err := s.broker.Subscribe(ctx, auth.Topic(userID))
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to subscribe", err)
	}
	out := make(chan auth.Change)
	go func() {
		defer close(out)
		defer cancel()
		for payload := range payloads {
			var change auth.Change
			if err := json.Unmarshal(payload, &change); err != nil {
				continue
			}
			select {
			case out <- change:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
