package service

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/errors"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/model"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/repository/interfaces"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/util"
)

// UserService 处理与用户相关的业务逻辑
type UserService struct {
	userRepo       interfaces.UserRepository
	emailService   *EmailService
	tokenBlacklist map[string]time.Time
	blacklistMutex sync.RWMutex
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userRepo interfaces.UserRepository) *UserService {
	return &UserService{
		userRepo:       userRepo,
		emailService:   NewEmailService(userRepo),
		tokenBlacklist: make(map[string]time.Time),
	}
}

// IsUsernameTaken 检查用户名是否已被使用
func (s *UserService) IsUsernameTaken(username string) (bool, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// Register 注册新用户。密码使用 bcrypt 哈希，每个用户有独立的盐。
func (s *UserService) Register(user *model.User) error {
	taken, err := s.IsUsernameTaken(user.Username)
	if err != nil {
		return err
	}
	if taken {
		return errors.New(errors.ErrUserExists, "username already exists")
	}

	existing, err := s.userRepo.FindByEmail(user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.New(errors.ErrUserExists, "email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashedPassword)

	// 邮箱唯一约束是最终防线，预检查只是为了友好的错误信息
	if err := s.userRepo.Create(user); err != nil {
		return err
	}

	if err := s.emailService.SendWelcomeEmail(user.Email, user.Username); err != nil {
		util.Logger.Error("发送欢迎邮件失败", zap.Error(err))
	}

	return nil
}

// Login 用户登录，校验邮箱、密码以及账户是否被停用
func (s *UserService) Login(email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "邮箱或密码错误")
	}

	if !user.IsActive {
		return nil, errors.New(errors.ErrUserInactive, "账户已被停用")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		util.Logger.Warn("用户登录失败，密码不正确", zap.Int("user_id", user.ID))
		return nil, errors.New(errors.ErrInvalidCredentials, "邮箱或密码错误")
	}

	util.Logger.Info("用户登录成功", zap.Int("user_id", user.ID))
	return user, nil
}

// GetUserByID 通过ID获取用户信息
func (s *UserService) GetUserByID(id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "用户不存在")
	}
	return user, nil
}

// GetUserByEmail 通过邮箱获取用户信息
func (s *UserService) GetUserByEmail(email string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "用户不存在")
	}
	return user, nil
}

// UpdateUser 更新用户资料，只允许修改部分字段
func (s *UserService) UpdateUser(user *model.User) error {
	existingUser, err := s.userRepo.FindByID(user.ID)
	if err != nil {
		return err
	}
	if existingUser == nil {
		return errors.New(errors.ErrUserNotFound, "用户不存在")
	}

	existingUser.Username = user.Username
	existingUser.Name = user.Name
	existingUser.Bio = user.Bio

	return s.userRepo.Update(existingUser)
}

// ChangePassword 修改密码，需要验证当前密码
func (s *UserService) ChangePassword(userID int, oldPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return errors.New(errors.ErrInvalidCredentials, "当前密码不正确")
	}

	if len(newPassword) < 6 {
		return errors.New(errors.ErrWeakPassword, "密码长度至少为6位")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(userID, string(hashedPassword)); err != nil {
		return err
	}
	util.Logger.Info("密码修改成功", zap.Int("user_id", userID))
	return nil
}

// RequestPasswordReset 发送密码重置邮件
func (s *UserService) RequestPasswordReset(email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "user not found")
	}
	return s.emailService.SendPasswordResetEmail(email)
}

// ResetPassword 通过重置令牌设置新密码
func (s *UserService) ResetPassword(token, newPassword string) error {
	email, err := s.emailService.VerifyPasswordResetToken(token)
	if err != nil {
		util.Logger.Error("验证密码重置令牌失败", zap.Error(err))
		return errors.Wrap(errors.ErrInvalidToken, "无效或过期的重置令牌", err)
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "user not found")
	}

	if len(newPassword) < 6 {
		return errors.New(errors.ErrWeakPassword, "密码长度至少为6位")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(user.ID, string(hashedPassword)); err != nil {
		return err
	}
	util.Logger.Info("密码重置成功", zap.Int("user_id", user.ID))
	return nil
}

// Logout 用户登出，令牌加入黑名单
func (s *UserService) Logout(token string) error {
	s.blacklistMutex.Lock()
	s.tokenBlacklist[token] = time.Now().Add(24 * time.Hour) // 令牌在黑名单中保留24小时
	s.blacklistMutex.Unlock()
	return nil
}

// IsTokenBlacklisted 检查令牌是否已被注销
func (s *UserService) IsTokenBlacklisted(token string) bool {
	s.blacklistMutex.RLock()
	expiry, exists := s.tokenBlacklist[token]
	s.blacklistMutex.RUnlock()
	if !exists {
		return false
	}
	if time.Now().After(expiry) {
		s.blacklistMutex.Lock()
		delete(s.tokenBlacklist, token)
		s.blacklistMutex.Unlock()
		return false
	}
	return true
}

// IsAdmin 判断用户是否为管理员
func (s *UserService) IsAdmin(userID int) (bool, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return false, err
	}
	return user.Role == model.RoleAdmin, nil
}

// GetUsers 分页获取用户列表
func (s *UserService) GetUsers(page, pageSize int) ([]*model.User, error) {
	return s.userRepo.FindAll(page, pageSize)
}

// UpdateUserRole 更新用户角色
func (s *UserService) UpdateUserRole(userID int, newRole string) error {
	if newRole != model.RoleUser && newRole != model.RoleAdmin {
		return errors.New(errors.ErrValidation, "无效的角色")
	}
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}
	user.Role = newRole
	return s.userRepo.Update(user)
}

// UpdateAvatar 更新用户头像
func (s *UserService) UpdateAvatar(userID int, avatarURL string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	user.AvatarURL = avatarURL
	return s.userRepo.Update(user)
}

// DeactivateAccount 停用账户，停用后无法登录
func (s *UserService) DeactivateAccount(userID int) error {
	if _, err := s.GetUserByID(userID); err != nil {
		return err
	}
	return s.userRepo.SetActive(userID, false)
}

// ReactivateAccount 重新启用账户
func (s *UserService) ReactivateAccount(userID int) error {
	if _, err := s.GetUserByID(userID); err != nil {
		return err
	}
	return s.userRepo.SetActive(userID, true)
}

// ReactivateWithCredentials 停用账户无法登录，凭邮箱和密码直接重新激活
func (s *UserService) ReactivateWithCredentials(email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "邮箱或密码错误")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "邮箱或密码错误")
	}

	if err := s.userRepo.SetActive(user.ID, true); err != nil {
		return nil, err
	}
	user.IsActive = true
	util.Logger.Info("账户已重新激活", zap.Int("user_id", user.ID))
	return user, nil
}

// DeleteUser 管理员删除用户及其全部内容
func (s *UserService) DeleteUser(userID int) error {
	if _, err := s.GetUserByID(userID); err != nil {
		return err
	}
	return s.userRepo.Delete(userID)
}

type UserServiceInterface interface {
	Register(user *model.User) error
	Login(email, password string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUser(user *model.User) error
	ChangePassword(userID int, oldPassword, newPassword string) error
	RequestPasswordReset(email string) error
	ResetPassword(token, newPassword string) error
	Logout(token string) error
	IsTokenBlacklisted(token string) bool
}

// 确保 UserService 实现了 UserServiceInterface
var _ UserServiceInterface = (*UserService)(nil)
