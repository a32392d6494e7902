package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/errors"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/model"
)

// MockUserRepository 是 UserRepository 接口的模拟实现
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(id int) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(id int, passwordHash string) error {
	args := m.Called(id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) SetActive(id int, active bool) error {
	args := m.Called(id, active)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockUserRepository) Count() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) FindAll(page, pageSize int) ([]*model.User, error) {
	args := m.Called(page, pageSize)
	return args.Get(0).([]*model.User), args.Error(1)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

// TestRegister 测试用户注册功能
func TestRegister(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo)

	user := &model.User{
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "password123",
	}

	// 测试成功注册
	mockRepo.On("FindByUsername", "testuser").Return(nil, nil)
	mockRepo.On("FindByEmail", "test@example.com").Return(nil, nil)
	mockRepo.On("Create", mock.AnythingOfType("*model.User")).Return(nil)

	err := service.Register(user)
	assert.NoError(t, err)
	assert.NotEqual(t, "password123", user.PasswordHash, "密码必须以哈希形式存储")
	mockRepo.AssertExpectations(t)

	// 测试用户名已存在
	mockRepo.On("FindByUsername", "existinguser").Return(&model.User{}, nil)
	user.Username = "existinguser"
	err = service.Register(user)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUserExists))
}

func TestRegisterEmailTaken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo)

	mockRepo.On("FindByUsername", "newuser").Return(nil, nil)
	mockRepo.On("FindByEmail", "taken@example.com").Return(&model.User{ID: 2}, nil)

	err := service.Register(&model.User{
		Username:     "newuser",
		Email:        "taken@example.com",
		PasswordHash: "password123",
	})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUserExists))
}

// TestLogin 测试登录功能
func TestLogin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo)

	stored := &model.User{
		ID:           1,
		Email:        "test@example.com",
		PasswordHash: hashPassword(t, "password123"),
		IsActive:     true,
	}
	mockRepo.On("FindByEmail", "test@example.com").Return(stored, nil)

	user, err := service.Login("test@example.com", "password123")
	assert.NoError(t, err)
	assert.Equal(t, 1, user.ID)

	// 密码错误
	_, err = service.Login("test@example.com", "wrongpassword")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))

	// 未注册邮箱
	mockRepo.On("FindByEmail", "nobody@example.com").Return(nil, nil)
	_, err = service.Login("nobody@example.com", "password123")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
}

// TestLoginInactiveUser 停用账户无法登录
func TestLoginInactiveUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo)

	mockRepo.On("FindByEmail", "inactive@example.com").Return(&model.User{
		ID:           1,
		Email:        "inactive@example.com",
		PasswordHash: hashPassword(t, "password123"),
		IsActive:     false,
	}, nil)

	_, err := service.Login("inactive@example.com", "password123")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUserInactive))
}

// TestChangePassword 测试修改密码
func TestChangePassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo)

	stored := &model.User{
		ID:           1,
		PasswordHash: hashPassword(t, "oldpassword"),
		IsActive:     true,
	}
	mockRepo.On("FindByID", 1).Return(stored, nil)
	mockRepo.On("UpdatePassword", 1, mock.AnythingOfType("string")).Return(nil)

	err := service.ChangePassword(1, "oldpassword", "newpassword")
	assert.NoError(t, err)

	// 当前密码不正确
	err = service.ChangePassword(1, "wrongpassword", "newpassword")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))

	// 新密码太短
	err = service.ChangePassword(1, "oldpassword", "abc")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrWeakPassword))
}

// TestUpdateProfile 测试更新用户资料功能
func TestUpdateProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo)

	user := &model.User{
		ID:       1,
		Username: "updateduser",
		Bio:      "Updated bio",
	}

	// 测试成功更新
	mockRepo.On("FindByID", 1).Return(user, nil)
	mockRepo.On("Update", mock.AnythingOfType("*model.User")).Return(nil)

	err := service.UpdateUser(user)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// 测试用户不存在
	mockRepo.On("FindByID", 999).Return(nil, nil)
	user.ID = 999
	err = service.UpdateUser(user)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUserNotFound))
}

func TestUpdateUserRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo)

	mockRepo.On("FindByID", 1).Return(&model.User{ID: 1, Role: model.RoleUser}, nil)
	mockRepo.On("Update", mock.AnythingOfType("*model.User")).Return(nil)

	err := service.UpdateUserRole(1, model.RoleAdmin)
	assert.NoError(t, err)

	// 无效角色
	err = service.UpdateUserRole(1, "superuser")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

// TestTokenBlacklist 测试令牌黑名单
func TestTokenBlacklist(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo)

	assert.False(t, service.IsTokenBlacklisted("some-token"))

	err := service.Logout("some-token")
	assert.NoError(t, err)
	assert.True(t, service.IsTokenBlacklisted("some-token"))
	assert.False(t, service.IsTokenBlacklisted("other-token"))
}

func TestDeactivateAccount(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := NewUserService(mockRepo)

	mockRepo.On("FindByID", 1).Return(&model.User{ID: 1, IsActive: true}, nil)
	mockRepo.On("SetActive", 1, false).Return(nil)

	err := service.DeactivateAccount(1)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
