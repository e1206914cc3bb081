package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/go-ddd-task-manager/internal/domain/entity"
	"github.com/oksasatya/go-ddd-task-manager/internal/domain/repository"
	"github.com/oksasatya/go-ddd-task-manager/internal/infrastructure/memory"
	"github.com/oksasatya/go-ddd-task-manager/pkg/apperror"
	"github.com/oksasatya/go-ddd-task-manager/pkg/helpers"
	"github.com/oksasatya/go-ddd-task-manager/pkg/mailer"
)

type fakePublisher struct {
	mu   sync.Mutex
	jobs []any
	err  error
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, body)
	return f.err
}

// fakeUsers lets a test inject storage faults or hide records from the pre-check.
type fakeUsers struct {
	repository.UserRepository
	getByEmailErr error
	getByIDErr    error
	createErr     error
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if f.getByEmailErr != nil {
		return nil, f.getByEmailErr
	}
	return f.UserRepository.GetByEmail(ctx, email)
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	return f.UserRepository.GetByID(ctx, id)
}

func (f *fakeUsers) Create(ctx context.Context, u *entity.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.UserRepository.Create(ctx, u)
}

func newAuthService(t *testing.T, users repository.UserRepository, pub EventPublisher, welcome bool) (*AuthService, *helpers.JWTManager) {
	t.Helper()
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	svc := NewAuthService(users, helpers.NewBcryptHasher(bcrypt.MinCost), jwt, pub,
		WelcomeMail{Enabled: welcome, AppName: "Tasks"}, helpers.NewNopLogger())
	return svc, jwt
}

func TestSignUp_Success(t *testing.T) {
	users := memory.NewUserRepository()
	svc, jwt := newAuthService(t, users, nil, false)

	res, err := svc.SignUp(context.Background(), "a@x.com", "password123", "A")
	require.NoError(t, err)
	assert.NotEmpty(t, res.User.ID)
	assert.Equal(t, "a@x.com", res.User.Email)
	assert.Equal(t, "A", res.User.Name)

	claims, err := jwt.Verify(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.Subject)
	assert.Equal(t, "a@x.com", claims.Email)

	stored, err := users.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t, memory.NewUserRepository(), nil, false)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "a@x.com", "password123", "A")
	require.NoError(t, err)

	for _, input := range []struct{ pwd, name string }{{"password123", "A"}, {"different", "B"}} {
		_, err = svc.SignUp(ctx, "a@x.com", input.pwd, input.name)
		assert.Same(t, ErrEmailTaken, err)
		assert.ErrorIs(t, err, apperror.Conflict(""))
	}
}

func TestSignUp_LostRaceMapsToConflict(t *testing.T) {
	users := &fakeUsers{UserRepository: memory.NewUserRepository(), createErr: repository.ErrDuplicate}
	svc, _ := newAuthService(t, users, nil, false)

	_, err := svc.SignUp(context.Background(), "a@x.com", "password123", "A")
	assert.Same(t, ErrEmailTaken, err)
}

func TestSignUp_ConcurrentSameEmail(t *testing.T) {
	svc, _ := newAuthService(t, memory.NewUserRepository(), nil, false)

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.SignUp(context.Background(), "race@x.com", "password123", "R")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrEmailTaken):
				conflicts++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)
}

func TestSignUp_StorageFault(t *testing.T) {
	users := &fakeUsers{UserRepository: memory.NewUserRepository(), getByEmailErr: errors.New("connection refused")}
	svc, _ := newAuthService(t, users, nil, false)

	_, err := svc.SignUp(context.Background(), "a@x.com", "password123", "A")
	require.Error(t, err)
	assert.Equal(t, apperror.KindInternal, apperror.From(err).Kind)
}

func TestSignUp_PublishesWelcomeEmail(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newAuthService(t, memory.NewUserRepository(), pub, true)

	_, err := svc.SignUp(context.Background(), "a@x.com", "password123", "A")
	require.NoError(t, err)
	require.Len(t, pub.jobs, 1)
	job, ok := pub.jobs[0].(mailer.EmailJob)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", job.To)
	assert.Equal(t, "welcome", job.Template)
}

func TestSignUp_PublishFailureDoesNotFail(t *testing.T) {
	pub := &fakePublisher{err: errors.New("channel closed")}
	svc, _ := newAuthService(t, memory.NewUserRepository(), pub, true)

	res, err := svc.SignUp(context.Background(), "a@x.com", "password123", "A")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
}

func TestSignUp_WelcomeDisabled(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newAuthService(t, memory.NewUserRepository(), pub, false)

	_, err := svc.SignUp(context.Background(), "a@x.com", "password123", "A")
	require.NoError(t, err)
	assert.Empty(t, pub.jobs)
}

func TestSignIn_Success(t *testing.T) {
	svc, _ := newAuthService(t, memory.NewUserRepository(), nil, false)
	ctx := context.Background()

	up, err := svc.SignUp(ctx, "a@x.com", "password123", "A")
	require.NoError(t, err)

	in, err := svc.SignIn(ctx, "a@x.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, up.User, in.User)
	assert.NotEmpty(t, in.AccessToken)
}

func TestSignIn_EnumerationResistant(t *testing.T) {
	svc, _ := newAuthService(t, memory.NewUserRepository(), nil, false)
	ctx := context.Background()
	_, err := svc.SignUp(ctx, "a@x.com", "password123", "A")
	require.NoError(t, err)

	_, unknownErr := svc.SignIn(ctx, "nobody@x.com", "password123")
	_, wrongPwdErr := svc.SignIn(ctx, "a@x.com", "wrong-password")

	assert.Same(t, ErrInvalidCredentials, unknownErr)
	assert.Same(t, unknownErr, wrongPwdErr)
	assert.Equal(t, unknownErr.Error(), wrongPwdErr.Error())
	assert.Equal(t, "Invalid credentials", unknownErr.Error())
}

func TestSignIn_CorruptedDigest(t *testing.T) {
	users := memory.NewUserRepository()
	require.NoError(t, users.Create(context.Background(), &entity.User{Email: "a@x.com", PasswordHash: "garbage", Name: "A"}))
	svc, _ := newAuthService(t, users, nil, false)

	_, err := svc.SignIn(context.Background(), "a@x.com", "password123")
	assert.Same(t, ErrInvalidCredentials, err)
}

func TestResolveIdentity(t *testing.T) {
	users := memory.NewUserRepository()
	svc, _ := newAuthService(t, users, nil, false)
	ctx := context.Background()
	up, err := svc.SignUp(ctx, "a@x.com", "password123", "A")
	require.NoError(t, err)

	first, err := svc.ResolveIdentity(ctx, up.User.ID)
	require.NoError(t, err)
	second, err := svc.ResolveIdentity(ctx, up.User.ID)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, *first, *second)
	assert.Equal(t, up.User, *first)

	for i := 0; i < 2; i++ {
		missing, err := svc.ResolveIdentity(ctx, "does-not-exist")
		require.NoError(t, err)
		assert.Nil(t, missing)
	}
}

func TestResolveIdentity_StorageFault(t *testing.T) {
	users := &fakeUsers{UserRepository: memory.NewUserRepository(), getByIDErr: errors.New("timeout")}
	svc, _ := newAuthService(t, users, nil, false)

	u, err := svc.ResolveIdentity(context.Background(), "any")
	assert.Error(t, err)
	assert.Nil(t, u)
}
