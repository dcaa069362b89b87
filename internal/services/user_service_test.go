package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freight-backend/internal/auth"
	"freight-backend/internal/config"
	"freight-backend/internal/models"
)

type fakeUserStore struct {
	byMobile map[string]*models.User
	nextID   int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byMobile: make(map[string]*models.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, u *models.User) error {
	if _, exists := f.byMobile[u.MobileNumber]; exists {
		return fmt.Errorf("mobile number %s: %w", u.MobileNumber, models.ErrConflict)
	}
	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	if u.Role == "" {
		u.Role = "operator"
	}
	f.byMobile[u.MobileNumber] = u
	return nil
}

func (f *fakeUserStore) Get(ctx context.Context, id string) (*models.User, error) {
	for _, u := range f.byMobile {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserStore) GetByMobileNumber(ctx context.Context, mobileNumber string) (*models.User, error) {
	if u, ok := f.byMobile[mobileNumber]; ok {
		return u, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeUserStore) List(ctx context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.byMobile {
		out = append(out, u)
	}
	return out, nil
}

func newUserFixture() *UserService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "freight-backend"
	return NewUserService(newFakeUserStore(), auth.NewJWTManager(cfg))
}

func TestSignupAndLogin(t *testing.T) {
	svc := newUserFixture()

	user, err := svc.Signup(context.Background(), &models.SignupRequest{
		Name:         "Asha",
		MobileNumber: "9876543210",
		Password:     "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "operator", user.Role)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		MobileNumber: "9876543210",
		Password:     "s3cret-pass",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)
}

func TestSignupDuplicateMobile(t *testing.T) {
	svc := newUserFixture()

	req := &models.SignupRequest{Name: "Asha", MobileNumber: "9876543210", Password: "pass-1"}
	_, err := svc.Signup(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), &models.SignupRequest{
		Name: "Ravi", MobileNumber: "9876543210", Password: "pass-2",
	})
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestSignupRequiresFields(t *testing.T) {
	svc := newUserFixture()

	_, err := svc.Signup(context.Background(), &models.SignupRequest{MobileNumber: "9876543210"})
	assert.Error(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newUserFixture()

	_, err := svc.Signup(context.Background(), &models.SignupRequest{
		Name: "Asha", MobileNumber: "9876543210", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &models.LoginRequest{
		MobileNumber: "9876543210",
		Password:     "wrong",
	})
	assert.Error(t, err)
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newUserFixture()

	_, err := svc.Login(context.Background(), &models.LoginRequest{
		MobileNumber: "0000000001",
		Password:     "whatever",
	})
	assert.Error(t, err)
}
