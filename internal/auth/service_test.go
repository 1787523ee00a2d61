package auth_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/hugh/kudosboard/internal/auth"
	"github.com/hugh/kudosboard/internal/database/models"
	"github.com/hugh/kudosboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*auth.Service, func()) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	svc := testutil.CreateTestAuthService(db)
	return svc, func() { testutil.CleanupTestDB(t, db) }
}

func signupInput(email, org string) auth.SignupInput {
	return auth.SignupInput{
		Email:            email,
		Password:         "Testpassword123",
		FirstName:        "Ada",
		LastName:         "Lovelace",
		OrganizationName: org,
	}
}

func TestService_Signup(t *testing.T) {
	ctx := context.Background()

	t.Run("creates organization and owner", func(t *testing.T) {
		svc, cleanup := newTestService(t)
		defer cleanup()

		user, err := svc.Signup(ctx, signupInput("ada@example.com", "Acme"))
		require.NoError(t, err)

		assert.Equal(t, "ada@example.com", user.Email)
		assert.Equal(t, models.RoleOwner, user.Role)
		assert.Equal(t, models.DefaultKudosAllowance, user.KudosAvailable)
		require.NotNil(t, user.Organization)
		assert.Equal(t, "acme", user.Organization.Name)
		assert.False(t, user.LastKudosReset.IsZero())
	})

	t.Run("lowercases email and organization name", func(t *testing.T) {
		svc, cleanup := newTestService(t)
		defer cleanup()

		user, err := svc.Signup(ctx, signupInput("Ada@Example.COM", "ACME Corp"))
		require.NoError(t, err)

		assert.Equal(t, "ada@example.com", user.Email)
		assert.Equal(t, "acme corp", user.Organization.Name)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc, cleanup := newTestService(t)
		defer cleanup()

		_, err := svc.Signup(ctx, signupInput("ada@example.com", "acme"))
		require.NoError(t, err)

		_, err = svc.Signup(ctx, signupInput("ada@example.com", "other"))
		assert.Equal(t, auth.ErrUserExists, err)
	})

	t.Run("rejects duplicate organization name", func(t *testing.T) {
		svc, cleanup := newTestService(t)
		defer cleanup()

		_, err := svc.Signup(ctx, signupInput("ada@example.com", "acme"))
		require.NoError(t, err)

		_, err = svc.Signup(ctx, signupInput("grace@example.com", "Acme"))
		assert.Equal(t, auth.ErrOrganizationExists, err)
	})

	t.Run("does not store the plaintext password", func(t *testing.T) {
		svc, cleanup := newTestService(t)
		defer cleanup()

		user, err := svc.Signup(ctx, signupInput("ada@example.com", "acme"))
		require.NoError(t, err)

		assert.NotContains(t, user.PasswordHash, "Testpassword123")
		assert.True(t, strings.HasPrefix(user.PasswordHash, "$2"))
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("returns tokens and user", func(t *testing.T) {
		svc, cleanup := newTestService(t)
		defer cleanup()

		_, err := svc.Signup(ctx, signupInput("ada@example.com", "acme"))
		require.NoError(t, err)

		resp, err := svc.Login(ctx, auth.LoginInput{Email: "ada@example.com", Password: "Testpassword123"})
		require.NoError(t, err)

		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, 3600, resp.ExpiresIn)
		assert.Equal(t, "ada@example.com", resp.User.Email)
	})

	t.Run("accepts mixed-case email", func(t *testing.T) {
		svc, cleanup := newTestService(t)
		defer cleanup()

		_, err := svc.Signup(ctx, signupInput("ada@example.com", "acme"))
		require.NoError(t, err)

		_, err = svc.Login(ctx, auth.LoginInput{Email: "ADA@example.com", Password: "Testpassword123"})
		assert.NoError(t, err)
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		svc, cleanup := newTestService(t)
		defer cleanup()

		_, err := svc.Signup(ctx, signupInput("ada@example.com", "acme"))
		require.NoError(t, err)

		_, err = svc.Login(ctx, auth.LoginInput{Email: "ada@example.com", Password: "wrong"})
		assert.Equal(t, auth.ErrInvalidCredentials, err)
	})

	t.Run("rejects unknown email with the same error", func(t *testing.T) {
		svc, cleanup := newTestService(t)
		defer cleanup()

		_, err := svc.Login(ctx, auth.LoginInput{Email: "nobody@example.com", Password: "Testpassword123"})
		assert.Equal(t, auth.ErrInvalidCredentials, err)
	})

	t.Run("rejects deactivated user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.CleanupTestDB(t, db)
		svc := testutil.CreateTestAuthService(db)

		user, err := svc.Signup(ctx, signupInput("ada@example.com", "acme"))
		require.NoError(t, err)
		require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error)

		_, err = svc.Login(ctx, auth.LoginInput{Email: "ada@example.com", Password: "Testpassword123"})
		assert.Equal(t, auth.ErrInactiveUser, err)
	})
}

func TestService_RefreshAndLogout(t *testing.T) {
	ctx := context.Background()

	login := func(t *testing.T, svc *auth.Service) *auth.LoginResponse {
		t.Helper()
		_, err := svc.Signup(ctx, signupInput("ada@example.com", "acme"))
		require.NoError(t, err)
		resp, err := svc.Login(ctx, auth.LoginInput{Email: "ada@example.com", Password: "Testpassword123"})
		require.NoError(t, err)
		return resp
	}

	t.Run("refresh issues a new access token", func(t *testing.T) {
		svc, cleanup := newTestService(t)
		defer cleanup()

		resp := login(t, svc)
		pair, err := svc.Refresh(ctx, resp.RefreshToken)
		require.NoError(t, err)

		assert.NotEmpty(t, pair.AccessToken)
		assert.Equal(t, resp.RefreshToken, pair.RefreshToken)
	})

	t.Run("refresh rejects an access token", func(t *testing.T) {
		svc, cleanup := newTestService(t)
		defer cleanup()

		resp := login(t, svc)
		_, err := svc.Refresh(ctx, resp.AccessToken)
		assert.Equal(t, auth.ErrInvalidToken, err)
	})

	t.Run("logout revokes the refresh token", func(t *testing.T) {
		svc, cleanup := newTestService(t)
		defer cleanup()

		resp := login(t, svc)
		require.NoError(t, svc.Logout(ctx, resp.RefreshToken))

		_, err := svc.Refresh(ctx, resp.RefreshToken)
		assert.Equal(t, auth.ErrTokenRevoked, err)
	})

	t.Run("logout is idempotent", func(t *testing.T) {
		svc, cleanup := newTestService(t)
		defer cleanup()

		resp := login(t, svc)
		require.NoError(t, svc.Logout(ctx, resp.RefreshToken))
		assert.NoError(t, svc.Logout(ctx, resp.RefreshToken))
	})
}

func TestService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("changes password and invalidates the old one", func(t *testing.T) {
		svc, cleanup := newTestService(t)
		defer cleanup()

		user, err := svc.Signup(ctx, signupInput("ada@example.com", "acme"))
		require.NoError(t, err)

		require.NoError(t, svc.ChangePassword(ctx, user.ID, "Testpassword123", "Newpassword456"))

		_, err = svc.Login(ctx, auth.LoginInput{Email: "ada@example.com", Password: "Testpassword123"})
		assert.Equal(t, auth.ErrInvalidCredentials, err)

		_, err = svc.Login(ctx, auth.LoginInput{Email: "ada@example.com", Password: "Newpassword456"})
		assert.NoError(t, err)
	})

	t.Run("rejects wrong current password", func(t *testing.T) {
		svc, cleanup := newTestService(t)
		defer cleanup()

		user, err := svc.Signup(ctx, signupInput("ada@example.com", "acme"))
		require.NoError(t, err)

		err = svc.ChangePassword(ctx, user.ID, "wrong", "Newpassword456")
		assert.Equal(t, auth.ErrWrongPassword, err)
	})
}

func TestService_AddMember(t *testing.T) {
	ctx := context.Background()

	t.Run("provisions a member in the owner's organization", func(t *testing.T) {
		svc, cleanup := newTestService(t)
		defer cleanup()

		owner, err := svc.Signup(ctx, signupInput("ada@example.com", "acme"))
		require.NoError(t, err)

		member, err := svc.AddMember(ctx, owner.OrganizationID, owner.ID, auth.AddMemberInput{
			Email:     "grace@example.com",
			Password:  "Testpassword123",
			FirstName: "Grace",
			LastName:  "Hopper",
		})
		require.NoError(t, err)

		assert.Equal(t, owner.OrganizationID, member.OrganizationID)
		assert.Equal(t, models.RoleMember, member.Role)
		assert.Equal(t, models.DefaultKudosAllowance, member.KudosAvailable)
		require.NotNil(t, member.CreatedBy)
		assert.Equal(t, owner.ID, *member.CreatedBy)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc, cleanup := newTestService(t)
		defer cleanup()

		owner, err := svc.Signup(ctx, signupInput("ada@example.com", "acme"))
		require.NoError(t, err)

		_, err = svc.AddMember(ctx, owner.OrganizationID, owner.ID, auth.AddMemberInput{
			Email:     "ada@example.com",
			Password:  "Testpassword123",
			FirstName: "Ada",
			LastName:  "Again",
		})
		assert.Equal(t, auth.ErrUserExists, err)
	})
}

func TestService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("updates only the provided fields", func(t *testing.T) {
		svc, cleanup := newTestService(t)
		defer cleanup()

		user, err := svc.Signup(ctx, signupInput("ada@example.com", "acme"))
		require.NoError(t, err)

		first := "Augusta"
		updated, err := svc.UpdateProfile(ctx, user.ID, auth.UpdateProfileInput{FirstName: &first})
		require.NoError(t, err)

		assert.Equal(t, "Augusta", updated.FirstName)
		assert.Equal(t, "Lovelace", updated.LastName)
		assert.Equal(t, "ada@example.com", updated.Email)
	})

	t.Run("rejects a taken email", func(t *testing.T) {
		svc, cleanup := newTestService(t)
		defer cleanup()

		user, err := svc.Signup(ctx, signupInput("ada@example.com", "acme"))
		require.NoError(t, err)
		_, err = svc.Signup(ctx, signupInput("grace@example.com", "other"))
		require.NoError(t, err)

		taken := "grace@example.com"
		_, err = svc.UpdateProfile(ctx, user.ID, auth.UpdateProfileInput{Email: &taken})
		assert.Equal(t, auth.ErrUserExists, err)
	})

	t.Run("unknown user returns not found", func(t *testing.T) {
		svc, cleanup := newTestService(t)
		defer cleanup()

		first := "Nobody"
		_, err := svc.UpdateProfile(ctx, uuid.New(), auth.UpdateProfileInput{FirstName: &first})
		assert.Equal(t, auth.ErrUserNotFound, err)
	})
}
