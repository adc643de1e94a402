package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ledovskis/taskkeeper/internal/common"
	"github.com/ledovskis/taskkeeper/internal/dbx"
	"github.com/ledovskis/taskkeeper/internal/server/auth"
	"github.com/ledovskis/taskkeeper/internal/server/config"
	"github.com/ledovskis/taskkeeper/internal/server/models"
	tasksrepo "github.com/ledovskis/taskkeeper/internal/server/repositories/tasks"
	usersrepo "github.com/ledovskis/taskkeeper/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:             "k",
		TokenValidityDuration: 72 * time.Hour,
	}
}

// fakeUsersRepo is an in-memory users.Repository. It mirrors the storage
// contract closely enough to drive the full register/login/logout flow.
type fakeUsersRepo struct {
	users map[string]*models.User // by id

	createErr error
	updateErr error
	findErr   error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return common.ErrDuplicateEmail
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) FindByToken(ctx context.Context, token string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if u.Token == token {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Update(ctx context.Context, id string, fields map[string]any) (int64, error) {
	if f.updateErr != nil {
		return 0, f.updateErr
	}
	u, ok := f.users[id]
	if !ok {
		return 0, nil
	}
	for k, v := range fields {
		switch k {
		case "name":
			u.Name = v.(string)
		case "email":
			u.Email = v.(string)
		case "password_hash":
			u.PasswordHash = v.(string)
		case "token":
			u.Token = v.(string)
		case "token_expire_at":
			u.TokenExpireAt = v.(time.Time)
		}
	}
	return 1, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeTasksRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return m.u }

func (m *fakeRepoManager) Tasks(db dbx.DBTX) tasksrepo.Repository { return m.t }

func newUserService(t *testing.T, db *sql.DB, repo *fakeUsersRepo) *UserService {
	t.Helper()
	return NewUserService(db, &fakeRepoManager{u: repo}, testConfig())
}

// registerUser runs a full Register against the fakes and returns the token.
func registerUser(t *testing.T, s *UserService, mock sqlmock.Sqlmock, name, email, password string) string {
	t.Helper()
	mock.ExpectBegin()
	mock.ExpectCommit()
	token, err := s.Register(context.Background(), name, email, password)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	return token
}

// --- Register ---

func TestRegister_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	repo := newFakeUsersRepo()
	s := newUserService(t, db, repo)

	token := registerUser(t, s, mock, "Alice", "a@x.com", "password1")
	if token == "" {
		t.Fatalf("expected a token")
	}

	claims, err := auth.ParseToken(token, []byte("k"))
	if err != nil {
		t.Fatalf("issued token does not parse: %v", err)
	}
	if claims.Name != "Alice" || claims.Email != "a@x.com" {
		t.Fatalf("claims should carry the public profile: %+v", claims)
	}

	stored := repo.users[claims.UserID]
	if stored == nil {
		t.Fatalf("user not persisted")
	}
	if stored.Token != token {
		t.Fatalf("issued token must be stored on the user record")
	}
	if !stored.TokenExpireAt.After(time.Now()) {
		t.Fatalf("stored expiry must be in the future")
	}
	if stored.PasswordHash == "password1" || !auth.VerifyPassword("password1", stored.PasswordHash) {
		t.Fatalf("password must be stored as a verifiable hash")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	repo := newFakeUsersRepo()
	s := newUserService(t, db, repo)

	registerUser(t, s, mock, "Alice", "a@x.com", "password1")

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := s.Register(context.Background(), "Other Alice", "a@x.com", "different9")
	if !errors.Is(err, common.ErrDuplicateEmail) {
		t.Fatalf("want ErrDuplicateEmail, got %v", err)
	}
	if len(repo.users) != 1 {
		t.Fatalf("no second user may persist, have %d", len(repo.users))
	}
}

func TestRegister_CreateRaceDuplicate(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	repo := newFakeUsersRepo()
	repo.createErr = common.ErrDuplicateEmail
	s := newUserService(t, db, repo)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := s.Register(context.Background(), "Alice", "a@x.com", "password1")
	if !errors.Is(err, common.ErrDuplicateEmail) {
		t.Fatalf("want ErrDuplicateEmail, got %v", err)
	}
}

// --- Login ---

func TestLogin_SuccessAndCheckToken(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	repo := newFakeUsersRepo()
	s := newUserService(t, db, repo)
	registerUser(t, s, mock, "Alice", "a@x.com", "password1")

	token, err := s.Login(context.Background(), "a@x.com", "password1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	user, err := s.CheckToken(context.Background(), token)
	if err != nil {
		t.Fatalf("CheckToken error after login: %v", err)
	}
	if user.Email != "a@x.com" {
		t.Fatalf("wrong identity: %+v", user)
	}
}

func TestLogin_SupersedesPreviousToken(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	repo := newFakeUsersRepo()
	s := newUserService(t, db, repo)
	first := registerUser(t, s, mock, "Alice", "a@x.com", "password1")

	second, err := s.Login(context.Background(), "a@x.com", "password1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if first == second {
		t.Fatalf("login must mint a fresh token")
	}

	if _, err := s.CheckToken(context.Background(), first); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("old token must be invalid after re-login, got %v", err)
	}
	if _, err := s.CheckToken(context.Background(), second); err != nil {
		t.Fatalf("new token must validate: %v", err)
	}
}

func TestLogin_UniformErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	repo := newFakeUsersRepo()
	s := newUserService(t, db, repo)
	registerUser(t, s, mock, "Alice", "a@x.com", "password1")

	_, errUnknown := s.Login(context.Background(), "nobody@x.com", "password1")
	_, errWrong := s.Login(context.Background(), "a@x.com", "wrongpass")

	if !errors.Is(errUnknown, common.ErrInvalidCredentials) {
		t.Fatalf("unknown email: want ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrong, common.ErrInvalidCredentials) {
		t.Fatalf("wrong password: want ErrInvalidCredentials, got %v", errWrong)
	}
	if !errors.Is(errUnknown, errWrong) {
		t.Fatalf("both failures must be indistinguishable")
	}
}

// --- CheckToken / Logout ---

func TestCheckToken_TamperedToken(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := newUserService(t, db, newFakeUsersRepo())

	_, err := s.CheckToken(context.Background(), "not.a.jwt")
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

func TestCheckToken_StoredExpiryInPast(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	repo := newFakeUsersRepo()
	s := newUserService(t, db, repo)
	token := registerUser(t, s, mock, "Alice", "a@x.com", "password1")

	// expire the stored token directly; the JWT itself is still self-valid
	for _, u := range repo.users {
		u.TokenExpireAt = time.Now().Add(-time.Minute)
	}

	_, err := s.CheckToken(context.Background(), token)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("stored expiry is authoritative: want ErrInvalidToken, got %v", err)
	}
}

func TestLogout_InvalidatesToken(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	repo := newFakeUsersRepo()
	s := newUserService(t, db, repo)
	token := registerUser(t, s, mock, "Alice", "a@x.com", "password1")

	if _, err := s.CheckToken(context.Background(), token); err != nil {
		t.Fatalf("token must be valid before logout: %v", err)
	}

	if err := s.Logout(context.Background(), token); err != nil {
		t.Fatalf("Logout error: %v", err)
	}

	if _, err := s.CheckToken(context.Background(), token); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("token must be invalid after logout, got %v", err)
	}
}

func TestLogout_UnknownToken(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := newUserService(t, db, newFakeUsersRepo())

	tok, err := auth.GenerateToken("ghost", "g", "g@x.com", []byte("k"), time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	if err := s.Logout(context.Background(), tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken, got %v", err)
	}
}

// --- Profile ---

func TestEditProfile_RequiresAtLeastOneField(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	s := newUserService(t, db, newFakeUsersRepo())

	_, err := s.EditProfile(context.Background(), "whatever", nil, nil)
	if !errors.Is(err, common.ErrNoFieldsProvided) {
		t.Fatalf("want ErrNoFieldsProvided, got %v", err)
	}
}

func TestEditProfile_UpdatesOnlyProvidedFields(t *testing.T) {
	db, mock := newSQLMockDB(t)
	defer db.Close()

	repo := newFakeUsersRepo()
	s := newUserService(t, db, repo)
	token := registerUser(t, s, mock, "Alice", "a@x.com", "password1")

	name := "Alice B"
	updated, err := s.EditProfile(context.Background(), token, &name, nil)
	if err != nil {
		t.Fatalf("EditProfile error: %v", err)
	}
	if updated.Name != "Alice B" || updated.Email != "a@x.com" {
		t.Fatalf("unexpected profile after edit: %+v", updated)
	}

	// the token is untouched by a profile edit
	if _, err := s.CheckToken(context.Background(), token); err != nil {
		t.Fatalf("token must survive a profile edit: %v", err)
	}
}
