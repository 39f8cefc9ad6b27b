package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"gohire/internal/common"
	"gohire/internal/domain/auth"
	"gohire/internal/domain/profile"
	"gohire/internal/security"
)

var resetTokenPattern = regexp.MustCompile(`token=([A-Za-z0-9_-]+)`)

func signUpProfessor(t *testing.T, f *fixture, email string) *AuthResult {
	t.Helper()
	result, err := f.auth.SignUp(context.Background(), SignUpInput{
		Email:    email,
		Password: "segredo123",
		Role:     "professor",
		FullName: "Fernanda Alves",
	})
	require.NoError(t, err)
	return result
}

func TestSignUpCreatesIdentityAndProfile(t *testing.T) {
	f := newFixture(t)
	result := signUpProfessor(t, f, "Fernanda@Example.com")

	require.NotNil(t, result.Tokens)
	assert.Equal(t, SessionAuthenticated, result.Session.State)
	require.NotNil(t, result.Session.Profile)
	assert.Equal(t, profile.RoleProfessor, result.Session.Profile.Role)
	assert.Equal(t, "fernanda@example.com", result.Session.Email)

	_, err := f.auth.SignUp(context.Background(), SignUpInput{Email: "fernanda@example.com", Password: "segredo123", Role: "professor", FullName: "Outra"})
	assert.True(t, common.Is(err, common.CodeConflict))
}

func TestSignUpValidatesInput(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.SignUp(context.Background(), SignUpInput{Email: "invalido", Password: "123", Role: "admin"})
	var appErr *common.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeValidation, appErr.Code)
	for _, field := range []string{"email", "password", "role", "full_name"} {
		assert.Contains(t, appErr.Fields, field)
	}
}

func TestSignInFromLoginRedirectsToDashboard(t *testing.T) {
	f := newFixture(t)
	signUpProfessor(t, f, "gabi@example.com")

	result, err := f.auth.SignIn(context.Background(), "gabi@example.com", "segredo123", "/login")
	require.NoError(t, err)
	assert.Equal(t, "/dashboard", result.RedirectTo)

	result, err = f.auth.SignIn(context.Background(), "gabi@example.com", "segredo123", "/jobs")
	require.NoError(t, err)
	assert.Empty(t, result.RedirectTo)
}

func TestSignInWithWrongPassword(t *testing.T) {
	f := newFixture(t)
	signUpProfessor(t, f, "heitor@example.com")

	_, err := f.auth.SignIn(context.Background(), "heitor@example.com", "errada", "/login")
	var appErr *common.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeUnauthorized, appErr.Code)
	assert.Equal(t, "invalid login credentials", appErr.Message)

	_, err = f.auth.SignIn(context.Background(), "ninguem@example.com", "segredo123", "")
	assert.True(t, common.Is(err, common.CodeUnauthorized))
}

func TestSignOutRevokesRefreshToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	signedUp := signUpProfessor(t, f, "iris@example.com")

	rotated, err := f.auth.Refresh(ctx, signedUp.Tokens.RefreshToken)
	require.NoError(t, err)
	_, err = f.auth.Refresh(ctx, signedUp.Tokens.RefreshToken)
	assert.True(t, common.Is(err, common.CodeUnauthorized))

	out, err := f.auth.SignOut(ctx, rotated.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "/login", out.RedirectTo)
	assert.Equal(t, SessionAnonymous, out.Session.State)

	_, err = f.auth.Refresh(ctx, rotated.Tokens.RefreshToken)
	assert.True(t, common.Is(err, common.CodeUnauthorized))
}

func TestPasswordRecoveryFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	signUpProfessor(t, f, "joao@example.com")

	require.NoError(t, f.auth.RequestPasswordReset(ctx, "joao@example.com", ""))
	sent := f.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "joao@example.com", sent[0].To)
	assert.Contains(t, sent[0].HTML, "https://app.test/update-password?token=")
	match := resetTokenPattern.FindStringSubmatch(sent[0].HTML)
	require.Len(t, match, 2)

	recovered, err := f.auth.VerifyRecovery(ctx, match[1])
	require.NoError(t, err)
	assert.Equal(t, string(auth.PurposeRecovery), recovered.Session.Purpose)

	_, err = f.auth.VerifyRecovery(ctx, match[1])
	assert.True(t, common.Is(err, common.CodeUnauthorized))

	userID := recovered.Session.UserID
	require.NoError(t, f.auth.UpdatePassword(ctx, userID, recovered.Session.Purpose, "novaSenha1"))

	stored, err := f.store.RefreshTokens().GetByHash(ctx, security.HashToken(recovered.Tokens.RefreshToken))
	require.NoError(t, err)
	assert.NotNil(t, stored.RevokedAt)

	_, err = f.auth.SignIn(ctx, "joao@example.com", "segredo123", "")
	assert.True(t, common.Is(err, common.CodeUnauthorized))
	_, err = f.auth.SignIn(ctx, "joao@example.com", "novaSenha1", "")
	assert.NoError(t, err)
}

func TestPasswordResetForUnknownEmailSendsNothing(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.auth.RequestPasswordReset(context.Background(), "ghost@example.com", "https://app.test/reset"))
	assert.Empty(t, f.mailer.Sent())

	err := f.auth.RequestPasswordReset(context.Background(), "ghost@example.com", "/relative")
	assert.True(t, common.Is(err, common.CodeValidation))
}

func TestPasswordResetRejectsForeignRedirect(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	signUpProfessor(t, f, "vitima@example.com")

	for _, redirect := range []string{"https://evil.example/", "https://app.test.evil.example/update-password", "http://app.test/update-password"} {
		err := f.auth.RequestPasswordReset(ctx, "vitima@example.com", redirect)
		var appErr *common.Error
		require.ErrorAs(t, err, &appErr, redirect)
		assert.Equal(t, common.CodeValidation, appErr.Code, redirect)
		assert.Contains(t, appErr.Fields, "redirect_to")
	}
	assert.Empty(t, f.mailer.Sent())

	require.NoError(t, f.auth.RequestPasswordReset(ctx, "vitima@example.com", "http://localhost:5173/update-password"))
	require.NoError(t, f.auth.RequestPasswordReset(ctx, "vitima@example.com", "HTTPS://APP.TEST/nova-senha"))
	sent := f.mailer.Sent()
	require.Len(t, sent, 2)
	assert.Contains(t, sent[0].HTML, "http://localhost:5173/update-password?token=")
	assert.Contains(t, sent[1].HTML, "/nova-senha?token=")
}

func TestUpdatePasswordRejectsShortPassword(t *testing.T) {
	f := newFixture(t)
	result := signUpProfessor(t, f, "karla@example.com")
	err := f.auth.UpdatePassword(context.Background(), result.Session.UserID, "session", "123")
	assert.True(t, common.Is(err, common.CodeValidation))
}

func TestPasswordsOverBcryptLimitAreValidationErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	result := signUpProfessor(t, f, "longa@example.com")

	for _, size := range []int{73, 80} {
		password := strings.Repeat("a", size)

		_, err := f.auth.SignUp(ctx, SignUpInput{Email: fmt.Sprintf("longa%d@example.com", size), Password: password, Role: "professor", FullName: "Longa"})
		var appErr *common.Error
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, common.CodeValidation, appErr.Code)
		assert.Contains(t, appErr.Fields, "password")

		err = f.auth.UpdatePassword(ctx, result.Session.UserID, "session", password)
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, common.CodeValidation, appErr.Code)
		assert.Contains(t, appErr.Fields, "password")
	}

	_, err := f.auth.SignIn(ctx, "longa@example.com", "segredo123", "")
	assert.NoError(t, err)
	_, err = f.store.Identities().GetByEmail(ctx, "longa73@example.com")
	assert.True(t, common.Is(err, common.CodeNotFound))
}

type rejectingProfiles struct {
	profile.Repository
}

func (rejectingProfiles) Create(context.Context, profile.Profile) (*profile.Profile, error) {
	return nil, common.NewError(common.CodeInternal, "failed to create profile", errors.New("disk full"))
}

func TestSignUpRemovesIdentityWhenProfileFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	broken := NewAuthService(f.store.Identities(), rejectingProfiles{Repository: f.store.Profiles()}, f.store.RefreshTokens(), f.store.RecoveryTokens(), f.store.Analytics(),
		f.jwt, security.NewPasswordHasher(bcrypt.MinCost), f.mailer, f.broker, f.sessions, nil, AuthConfig{
			AccessTTL:     time.Minute,
			RefreshTTL:    time.Hour,
			RecoveryTTL:   time.Hour,
			PublicBaseURL: "https://app.test",
		})

	input := SignUpInput{Email: "retry@example.com", Password: "segredo123", Role: "professor", FullName: "Rita"}
	_, err := broken.SignUp(ctx, input)
	assert.True(t, common.Is(err, common.CodeInternal))
	_, err = f.store.Identities().GetByEmail(ctx, "retry@example.com")
	assert.True(t, common.Is(err, common.CodeNotFound))

	result, err := f.auth.SignUp(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, SessionAuthenticated, result.Session.State)
}

type failingProfiles struct {
	profile.Repository
}

func (failingProfiles) GetByID(context.Context, common.UUID) (*profile.Profile, error) {
	return nil, errors.New("connection refused")
}

func TestSessionWithUnreadableProfileIsDegraded(t *testing.T) {
	f := newFixture(t)
	result := signUpProfessor(t, f, "lucas@example.com")

	degraded := NewSessionService(f.jwt, failingProfiles{Repository: f.store.Profiles()}, f.broker, nil)
	session := degraded.Resolve(context.Background(), result.Tokens.AccessToken)
	assert.Equal(t, SessionAuthenticated, session.State)
	assert.Nil(t, session.Profile)
	assert.Equal(t, "não foi possível carregar o perfil", session.Warning)

	assert.Equal(t, SessionAnonymous, degraded.Resolve(context.Background(), "not-a-token").State)
	assert.Equal(t, SessionAnonymous, degraded.Resolve(context.Background(), "").State)
}

func TestSessionChangesAreStreamed(t *testing.T) {
	f := newFixture(t)
	signedUp := signUpProfessor(t, f, "marina@example.com")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes, err := f.sessions.Changes(ctx, signedUp.Session.UserID)
	require.NoError(t, err)

	_, err = f.auth.SignIn(context.Background(), "marina@example.com", "segredo123", "")
	require.NoError(t, err)

	select {
	case change := <-changes:
		assert.Equal(t, auth.EventSignedIn, change.Event)
		assert.Equal(t, signedUp.Session.UserID, change.UserID)
	case <-time.After(2 * time.Second):
		t.Fatal("no session change received")
	}
}
