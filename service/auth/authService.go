package authsvc

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/pkg/errors"

	"github.com/Rahulstark2/librarymanagement/model"
	authrepo "github.com/Rahulstark2/librarymanagement/repository/auth"
	memberrepo "github.com/Rahulstark2/librarymanagement/repository/member"
	"github.com/Rahulstark2/librarymanagement/service/svcerr"
	"github.com/Rahulstark2/librarymanagement/util/hash"
	jwtutil "github.com/Rahulstark2/librarymanagement/util/jwt"
)

type Config struct {
	Secret        string
	TTLHours      int
	AdminUsername string
	AdminPassword string
}

type Service interface {
	// Register creates a user account linked to an existing membership.
	Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error)
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)
	AdminLogin(ctx context.Context, req model.LoginReq) (string, error)
}

type service struct {
	users   authrepo.Repo
	members memberrepo.Repo
	cfg     Config
}

func New(users authrepo.Repo, members memberrepo.Repo, cfg Config) Service {
	if cfg.TTLHours <= 0 {
		cfg.TTLHours = 24
	}
	return &service{users: users, members: members, cfg: cfg}
}

func (s *service) Register(ctx context.Context, req model.RegisterReq) (*model.User, string, error) {
	req.Username = strings.TrimSpace(req.Username)
	if len(req.Username) < 3 || len(req.Password) < 6 || req.MembershipNumber <= 0 {
		return nil, "", svcerr.New(svcerr.ErrBadInput, "username, password and membership number are required")
	}
	if strings.EqualFold(req.Username, s.cfg.AdminUsername) {
		return nil, "", svcerr.New(svcerr.ErrUsernameTaken, "username already taken")
	}

	m, err := s.members.FindByNumber(ctx, req.MembershipNumber)
	if err != nil {
		return nil, "", errors.Wrap(err, "find membership")
	}
	if m == nil {
		return nil, "", svcerr.Newf(svcerr.ErrMemberNotFound, "membership %d not found", req.MembershipNumber)
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}
	number := m.MembershipNumber
	u := &model.User{
		Username:         req.Username,
		PasswordHash:     hashed,
		Role:             model.RoleUser,
		MembershipNumber: &number,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, authrepo.ErrUsernameTaken) {
			return nil, "", svcerr.New(svcerr.ErrUsernameTaken, "username already taken")
		}
		return nil, "", errors.Wrap(err, "create user")
	}

	token, err := jwtutil.Issue(s.cfg.Secret, u.Username, u.Role, s.cfg.TTLHours)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return nil, "", svcerr.New(svcerr.ErrBadInput, "username and password are required")
	}
	u, err := s.users.ByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, "", errors.Wrap(err, "find user")
	}
	if u == nil || !hash.Check(u.PasswordHash, req.Password) {
		return nil, "", svcerr.New(svcerr.ErrInvalidCreds, "invalid username or password")
	}
	token, err := jwtutil.Issue(s.cfg.Secret, u.Username, u.Role, s.cfg.TTLHours)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) AdminLogin(_ context.Context, req model.LoginReq) (string, error) {
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return "", svcerr.New(svcerr.ErrBadInput, "username and password are required")
	}
	if s.cfg.AdminUsername == "" ||
		subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.cfg.AdminUsername)) != 1 ||
		subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.cfg.AdminPassword)) != 1 {
		return "", svcerr.New(svcerr.ErrInvalidCreds, "invalid credentials")
	}
	return jwtutil.Issue(s.cfg.Secret, s.cfg.AdminUsername, model.RoleAdmin, s.cfg.TTLHours)
}
