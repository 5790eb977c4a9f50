// service/auth/authService_test.go
package authsvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Rahulstark2/librarymanagement/model"
	authrepo "github.com/Rahulstark2/librarymanagement/repository/auth"
	memberrepo "github.com/Rahulstark2/librarymanagement/repository/member"
	"github.com/Rahulstark2/librarymanagement/service/svcerr"
	"github.com/Rahulstark2/librarymanagement/util/hash"
	jwtutil "github.com/Rahulstark2/librarymanagement/util/jwt"
)

type mockRepo struct {
	byUsernameFn func(ctx context.Context, username string) (*model.User, error)
	createFn     func(ctx context.Context, u *model.User) error
}

var _ authrepo.Repo = (*mockRepo)(nil)

func (m *mockRepo) ByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.byUsernameFn == nil {
		return nil, nil
	}
	return m.byUsernameFn(ctx, username)
}

func (m *mockRepo) Create(ctx context.Context, u *model.User) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, u)
}

type mockMembers struct {
	memberrepo.Repo
	byNumberFn func(ctx context.Context, number int64) (*model.Member, error)
}

func (m *mockMembers) FindByNumber(ctx context.Context, number int64) (*model.Member, error) {
	if m.byNumberFn == nil {
		return nil, nil
	}
	return m.byNumberFn(ctx, number)
}

func existingMember() *mockMembers {
	return &mockMembers{byNumberFn: func(ctx context.Context, number int64) (*model.Member, error) {
		return &model.Member{MembershipNumber: number, EndDate: time.Now().AddDate(1, 0, 0)}, nil
	}}
}

var cfg = Config{Secret: "test-secret", TTLHours: 1, AdminUsername: "admin", AdminPassword: "admin-pass"}

func mustHash(t *testing.T, plain string) string {
	t.Helper()

	h, err := hash.HashPassword(plain)
	require.NoError(t, err)
	return h
}

// --- tests ---

func TestRegister_Success(t *testing.T) {
	ctx := context.Background()
	m := &mockRepo{
		createFn: func(ctx context.Context, u *model.User) error {
			u.ID = 42
			return nil
		},
	}
	svc := New(m, existingMember(), cfg)

	u, tok, err := svc.Register(ctx, model.RegisterReq{Username: " asha ", Password: "supersecret", MembershipNumber: 3})
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	require.Equal(t, int64(42), u.ID)
	require.Equal(t, "asha", u.Username)
	require.Equal(t, model.RoleUser, u.Role)
	require.Equal(t, int64(3), *u.MembershipNumber)
	require.True(t, hash.Check(u.PasswordHash, "supersecret"))

	p, err := jwtutil.ParseAuth("Bearer "+tok, cfg.Secret)
	require.NoError(t, err)
	require.Equal(t, "asha", p.Username)
	require.False(t, p.IsAdmin())
}

func TestRegister_BadInput(t *testing.T) {
	svc := New(&mockRepo{}, existingMember(), cfg)

	_, _, err := svc.Register(context.Background(), model.RegisterReq{Username: "u", Password: "123"})
	require.Equal(t, svcerr.ErrBadInput, svcerr.Code(err))
}

func TestRegister_UnknownMembership(t *testing.T) {
	svc := New(&mockRepo{}, &mockMembers{}, cfg)

	_, _, err := svc.Register(context.Background(), model.RegisterReq{Username: "asha", Password: "123456", MembershipNumber: 9})
	require.Equal(t, svcerr.ErrMemberNotFound, svcerr.Code(err))
}

func TestRegister_UsernameTaken(t *testing.T) {
	m := &mockRepo{
		createFn: func(ctx context.Context, u *model.User) error { return authrepo.ErrUsernameTaken },
	}
	svc := New(m, existingMember(), cfg)

	_, _, err := svc.Register(context.Background(), model.RegisterReq{Username: "asha", Password: "123456", MembershipNumber: 1})
	require.Equal(t, svcerr.ErrUsernameTaken, svcerr.Code(err))

	_, _, err = svc.Register(context.Background(), model.RegisterReq{Username: "ADMIN", Password: "123456", MembershipNumber: 1})
	require.Equal(t, svcerr.ErrUsernameTaken, svcerr.Code(err))
}

func TestRegister_CreateError(t *testing.T) {
	m := &mockRepo{
		createFn: func(ctx context.Context, u *model.User) error { return errors.New("db down") },
	}
	svc := New(m, existingMember(), cfg)

	_, _, err := svc.Register(context.Background(), model.RegisterReq{Username: "asha", Password: "123456", MembershipNumber: 1})
	require.Error(t, err)
	require.Equal(t, svcerr.ErrCode(""), svcerr.Code(err))
}

func TestLogin_Success(t *testing.T) {
	pw := "supersecret"
	hashed := mustHash(t, pw)
	m := &mockRepo{
		byUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: 7, Username: "asha", PasswordHash: hashed, Role: model.RoleUser}, nil
		},
	}
	svc := New(m, &mockMembers{}, cfg)

	u, tok, err := svc.Login(context.Background(), model.LoginReq{Username: "asha", Password: pw})
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	require.Equal(t, int64(7), u.ID)
}

func TestLogin_UserNotFound(t *testing.T) {
	svc := New(&mockRepo{}, &mockMembers{}, cfg)

	_, _, err := svc.Login(context.Background(), model.LoginReq{Username: "missing", Password: "whatever"})
	require.Equal(t, svcerr.ErrInvalidCreds, svcerr.Code(err))
	require.Equal(t, svcerr.KindAuthentication, svcerr.Code(err).Kind())
}

func TestLogin_WrongPassword(t *testing.T) {
	hashed := mustHash(t, "correct-password")
	m := &mockRepo{
		byUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: 101, Username: "asha", PasswordHash: hashed, Role: model.RoleUser}, nil
		},
	}
	svc := New(m, &mockMembers{}, cfg)

	_, _, err := svc.Login(context.Background(), model.LoginReq{Username: "asha", Password: "wrong-password"})
	require.Equal(t, svcerr.ErrInvalidCreds, svcerr.Code(err))
}

func TestAdminLogin(t *testing.T) {
	svc := New(&mockRepo{}, &mockMembers{}, cfg)

	tok, err := svc.AdminLogin(context.Background(), model.LoginReq{Username: "admin", Password: "admin-pass"})
	require.NoError(t, err)
	p, err := jwtutil.ParseAuth(tok, cfg.Secret)
	require.NoError(t, err)
	require.True(t, p.IsAdmin())

	_, err = svc.AdminLogin(context.Background(), model.LoginReq{Username: "admin", Password: "nope"})
	require.Equal(t, svcerr.ErrInvalidCreds, svcerr.Code(err))
}
