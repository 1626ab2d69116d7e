// Package auth provides hand-written test doubles for the session and
// account ports. They are deterministic and allocation-light; use them when
// a test only needs behavior, and the generated gomock mocks when it needs
// call expectations.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/reliefbridge/relief-ui-api/internal/adapters/password"
	domainauth "github.com/reliefbridge/relief-ui-api/internal/domain/auth"
	"github.com/reliefbridge/relief-ui-api/internal/domain/model"
	apperrors "github.com/reliefbridge/relief-ui-api/internal/errors"
	"github.com/reliefbridge/relief-ui-api/internal/ports"
)

var (
	_ ports.CookieJar      = (*MemoryJar)(nil)
	_ ports.IdentityStore  = (*MemoryIdentityStore)(nil)
	_ ports.UserRepository = (*MemoryUserRepository)(nil)
	_ ports.PasswordHasher = (*PlainHasher)(nil)
)

// MemoryJar is an in-memory cookie jar. Now is injectable so tests can
// observe expiry without sleeping; when nil, expiry is ignored on reads the
// way a freshly-set cookie would behave.
type MemoryJar struct {
	Now func() time.Time

	values  map[string]string
	expires map[string]time.Time
}

// NewMemoryJar creates an empty jar.
func NewMemoryJar() *MemoryJar {
	return &MemoryJar{
		values:  make(map[string]string),
		expires: make(map[string]time.Time),
	}
}

func (j *MemoryJar) Get(name string) (string, bool) {
	v, ok := j.values[name]
	if !ok {
		return "", false
	}
	if j.Now != nil {
		if exp, has := j.expires[name]; has && !j.Now().Before(exp) {
			return "", false
		}
	}
	return v, true
}

func (j *MemoryJar) Set(name, value string, expires time.Time) {
	j.values[name] = value
	j.expires[name] = expires
}

func (j *MemoryJar) Delete(name string) {
	delete(j.values, name)
	delete(j.expires, name)
}

// Expiry returns the recorded expiry for a cookie, for assertions.
func (j *MemoryJar) Expiry(name string) (time.Time, bool) {
	exp, ok := j.expires[name]
	return exp, ok
}

// MemoryIdentityStore is an in-memory identity record with fault injection.
type MemoryIdentityStore struct {
	// LoadErr, SaveErr, ClearErr are returned verbatim when set.
	LoadErr  error
	SaveErr  error
	ClearErr error

	// SaveCalls counts Save invocations, including failed ones.
	SaveCalls  int
	ClearCalls int

	identity domainauth.Identity
	present  bool
}

// NewMemoryIdentityStore creates an empty store.
func NewMemoryIdentityStore() *MemoryIdentityStore {
	return &MemoryIdentityStore{}
}

// Seed installs an identity record directly, bypassing Save accounting.
func (m *MemoryIdentityStore) Seed(id domainauth.Identity) {
	m.identity = id
	m.present = true
}

func (m *MemoryIdentityStore) Load(context.Context) (domainauth.Identity, bool, error) {
	if m.LoadErr != nil {
		return domainauth.Identity{}, false, m.LoadErr
	}
	if !m.present {
		return domainauth.Identity{}, false, nil
	}
	return m.identity, true, nil
}

func (m *MemoryIdentityStore) Save(_ context.Context, id domainauth.Identity) error {
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.identity = id
	m.present = true
	return nil
}

func (m *MemoryIdentityStore) Clear(context.Context) error {
	m.ClearCalls++
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.identity = domainauth.Identity{}
	m.present = false
	return nil
}

// Present reports whether a record currently exists.
func (m *MemoryIdentityStore) Present() bool { return m.present }

// MemoryUserRepository is an in-memory account store keyed by username.
type MemoryUserRepository struct {
	// CreateErr and UpdateErr are returned verbatim when set.
	CreateErr error
	UpdateErr error

	users  map[string]*model.User
	nextID int
}

// NewMemoryUserRepository creates an empty repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*model.User)}
}

// Seed installs a user directly. The zero UserID gets a generated one.
func (m *MemoryUserRepository) Seed(u model.User) *model.User {
	if u.UserID == "" {
		m.nextID++
		u.UserID = fmt.Sprintf("user-%d", m.nextID)
	}
	u.CreatedAt = time.Now()
	m.users[u.Username] = &u
	return &u
}

func (m *MemoryUserRepository) FindByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, apperrors.NotFoundf("user %q not found", username)
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryUserRepository) Create(_ context.Context, req *model.CreateUserRequest) (*model.User, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	if _, exists := m.users[req.Username]; exists {
		return nil, apperrors.Conflictf("username %q already exists", req.Username)
	}
	m.nextID++
	u := &model.User{
		UserID:       fmt.Sprintf("user-%d", m.nextID),
		Username:     req.Username,
		PasswordHash: req.PasswordHash,
		Role:         req.Role,
		Email:        req.Email,
		ZipCode:      req.ZipCode,
		Approved:     false,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		City:         req.City,
		State:        req.State,
		CreatedAt:    time.Now(),
	}
	m.users[req.Username] = u
	cp := *u
	return &cp, nil
}

func (m *MemoryUserRepository) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	for _, u := range m.users {
		if u.UserID == userID {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return apperrors.NotFoundf("user %q not found", userID)
}

// PlainHasher marks passwords with a prefix instead of hashing. Keeps
// service tests fast and lets assertions inspect the "hash".
type PlainHasher struct{}

const plainPrefix = "plain:"

func (PlainHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("empty password")
	}
	return plainPrefix + password, nil
}

func (PlainHasher) Compare(hash, secret string) error {
	if !strings.HasPrefix(hash, plainPrefix) || strings.TrimPrefix(hash, plainPrefix) != secret {
		return password.ErrMismatch
	}
	return nil
}
