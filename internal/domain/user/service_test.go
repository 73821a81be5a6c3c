package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

// fakeRepository 内存用户仓储
type fakeRepository struct {
	users  map[string]*User // email → user
	nextID uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		users:  make(map[string]*User),
		nextID: 1,
	}
}

func (r *fakeRepository) Create(ctx context.Context, u *User) error {
	if _, ok := r.users[u.Email]; ok {
		return apperrors.ErrEmailDuplicate
	}
	u.ID = r.nextID
	r.nextID++
	clone := *u
	r.users[u.Email] = &clone
	return nil
}

func (r *fakeRepository) FindByID(ctx context.Context, id uint) (*User, error) {
	for _, u := range r.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

// TestRegister 测试用户注册
func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("正常注册", func(t *testing.T) {
		svc := NewService(newFakeRepository())
		u, err := svc.Register(ctx, "reader@example.com", "passw0rd")
		require.NoError(t, err)

		assert.NotZero(t, u.ID)
		assert.Equal(t, "reader@example.com", u.Email)
		assert.NotEqual(t, "passw0rd", u.Password, "密码必须加密存储")
		assert.False(t, u.IsStaff, "新用户不是staff")
	})

	t.Run("邮箱格式不正确", func(t *testing.T) {
		svc := NewService(newFakeRepository())
		for _, email := range []string{"", "not-an-email", "a@b", "@example.com"} {
			_, err := svc.Register(ctx, email, "passw0rd")
			assert.Error(t, err, "邮箱 %q 应该被拒绝", email)
		}
	})

	t.Run("弱密码被拒绝", func(t *testing.T) {
		svc := NewService(newFakeRepository())
		for _, password := range []string{"short1", "12345678", "onlyletters", "a1234567890123456789x"} {
			_, err := svc.Register(ctx, "reader@example.com", password)
			assert.ErrorIs(t, err, apperrors.ErrWeakPassword, "密码 %q 应该被拒绝", password)
		}
	})

	t.Run("邮箱重复注册失败", func(t *testing.T) {
		svc := NewService(newFakeRepository())
		_, err := svc.Register(ctx, "reader@example.com", "passw0rd")
		require.NoError(t, err)

		_, err = svc.Register(ctx, "reader@example.com", "passw0rd")
		assert.ErrorIs(t, err, apperrors.ErrEmailDuplicate)
	})
}

// TestLogin 测试用户登录
func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newFakeRepository())

	_, err := svc.Register(ctx, "reader@example.com", "passw0rd")
	require.NoError(t, err)

	t.Run("正确密码登录成功", func(t *testing.T) {
		u, err := svc.Login(ctx, "reader@example.com", "passw0rd")
		require.NoError(t, err)
		assert.Equal(t, "reader@example.com", u.Email)
	})

	t.Run("密码错误", func(t *testing.T) {
		_, err := svc.Login(ctx, "reader@example.com", "wrongpass1")
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	})

	t.Run("用户不存在", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody@example.com", "passw0rd")
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}
