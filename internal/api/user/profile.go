package user

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/maegandevs/Pine-Group---Social-Media-Platform/config"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/errors"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/service"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/storage"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/util"
)

type ProfileHandler struct {
	userService *service.UserService
	storage     storage.FileStorage
}

func NewProfileHandler(userService *service.UserService, storage storage.FileStorage) *ProfileHandler {
	return &ProfileHandler{userService, storage}
}

// GetProfile 获取当前登录用户的资料
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.GetInt("user_id")
	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		util.Logger.Error("获取用户资料失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"user": user,
	}, "")
}

// GetUserByID 获取任意用户的公开资料
func (h *ProfileHandler) GetUserByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的用户ID", err))
		return
	}

	user, err := h.userService.GetUserByID(id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"user": user,
	}, "")
}

// UpdateProfile 更新当前用户资料
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	currentUser, err := h.userService.GetUserByID(userID)
	if err != nil {
		util.Logger.Error("获取用户信息失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	var updateData struct {
		Username string `json:"username"`
		Name     string `json:"name"`
		Bio      string `json:"bio"`
	}

	if err := c.ShouldBindJSON(&updateData); err != nil {
		util.Logger.Warn("更新用户资料失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	// 只更新允许用户修改的字段
	if updateData.Username != "" {
		currentUser.Username = updateData.Username
	}
	if updateData.Name != "" {
		currentUser.Name = updateData.Name
	}
	if updateData.Bio != "" {
		currentUser.Bio = updateData.Bio
	}

	if err := h.userService.UpdateUser(currentUser); err != nil {
		util.Logger.Error("更新用户资料失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"user": currentUser,
	}, "资料更新成功")
}

// UploadAvatar 上传头像，存储后端由配置决定（本地或 S3）
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID := c.GetInt("user_id")

	file, err := c.FormFile("avatar")
	if err != nil {
		util.Logger.Error("获取上传文件失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrBadRequest, "无法获取上传文件", err))
		return
	}

	filename := util.GenerateUniqueFilename(file.Filename)
	path := fmt.Sprintf("avatars/%d/%s", userID, filename)

	avatarURL, err := h.storage.UploadFile(file, path)
	if err != nil {
		util.Logger.Error("上传头像失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "上传头像失败", err))
		return
	}

	if config.AppConfig.AvatarStorage == "local" {
		avatarURL = fmt.Sprintf("%s/uploads/%s", config.AppConfig.BackendURL, avatarURL)
	}

	if err := h.userService.UpdateAvatar(userID, avatarURL); err != nil {
		util.Logger.Error("更新用户头像失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "更新用户头像失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"avatar_url": avatarURL,
	}, "头像上传成功")
}

// DeactivateAccount 停用当前账户，停用后无法登录
func (h *ProfileHandler) DeactivateAccount(c *gin.Context) {
	userID := c.GetInt("user_id")

	if err := h.userService.DeactivateAccount(userID); err != nil {
		util.Logger.Error("停用账户失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "账户已停用")
}

// ReactivateAccount 凭邮箱和密码重新激活账户
func (h *ProfileHandler) ReactivateAccount(c *gin.Context) {
	var reactivateData struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&reactivateData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	user, err := h.userService.ReactivateWithCredentials(reactivateData.Email, reactivateData.Password)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	token, err := util.GenerateToken(user.ID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "生成令牌失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"token": token,
		"user":  user,
	}, "账户已重新激活")
}
