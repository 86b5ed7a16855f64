package service

import (
	"context"
	"testing"

	"github.com/mariacedersten/Ohjelmistokehitysprojekti-2-sub001/internal/model"
	"github.com/mariacedersten/Ohjelmistokehitysprojekti-2-sub001/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserRepo is an in-memory UserRepository for service tests
type fakeUserRepo struct {
	users []*model.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) List(_ context.Context, page, limit int, search string, filters model.UserFilters) ([]model.User, int, error) {
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (f *fakeUserRepo) Update(_ context.Context, id string, req model.UpdateUserRequest) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			if req.Approved != nil {
				u.Approved = *req.Approved
			}
			if req.FullName != nil {
				u.FullName = *req.FullName
			}
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return nil
}

func newAuthFixture() (AuthService, *fakeUserRepo) {
	repo := &fakeUserRepo{}
	return NewAuthService(repo, utils.NewJWTUtil("test-secret", 1)), repo
}

func TestAuthService_Register_DefaultUserIsApproved(t *testing.T) {
	svc, _ := newAuthFixture()

	user, token, err := svc.Register(context.Background(), RegisterRequest{
		FullName: "Maija M", Email: "maija@example.com", Password: "secret1",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.True(t, user.Approved)
}

func TestAuthService_Register_OrganizerAwaitsApproval(t *testing.T) {
	svc, _ := newAuthFixture()
	org := "Padel Club ry"

	user, _, err := svc.Register(context.Background(), RegisterRequest{
		FullName: "Olli O", Email: "olli@club.fi", Password: "secret1",
		Role: model.RoleOrganizer, Organization: &org,
	})

	require.NoError(t, err)
	assert.Equal(t, model.RoleOrganizer, user.Role)
	assert.False(t, user.Approved)

	// Until approved, the organizer cannot sign in.
	_, _, err = svc.Login(context.Background(), "olli@club.fi", "secret1")
	assert.ErrorIs(t, err, ErrNotApproved)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture()

	_, _, err := svc.Register(context.Background(), RegisterRequest{
		FullName: "First", Email: "same@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), RegisterRequest{
		FullName: "Second", Email: "same@example.com", Password: "secret2",
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	svc, _ := newAuthFixture()
	_, _, err := svc.Register(context.Background(), RegisterRequest{
		FullName: "Maija M", Email: "maija@example.com", Password: "secret1",
	})
	require.NoError(t, err)

	user, token, err := svc.Login(context.Background(), "maija@example.com", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "maija@example.com", user.Email)

	_, _, err = svc.Login(context.Background(), "maija@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
