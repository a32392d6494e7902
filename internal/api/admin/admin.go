package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/errors"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/service"
)

// AdminHandler 按功能模块组织处理方法
type AdminHandler struct {
	userService  *service.UserService
	statsService *service.StatsService
	analytics    *errors.ErrorAnalytics
}

// NewAdminHandler 创建一个新的 AdminHandler 实例
func NewAdminHandler(userService *service.UserService, statsService *service.StatsService, analytics *errors.ErrorAnalytics) *AdminHandler {
	return &AdminHandler{
		userService:  userService,
		statsService: statsService,
		analytics:    analytics,
	}
}

// 用户管理
func (h *AdminHandler) GetUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	users, err := h.userService.GetUsers(page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "获取用户列表失败",
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": users,
	})
}

func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的用户ID",
		})
		return
	}

	var input struct {
		Role string `json:"role" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的请求数据",
		})
		return
	}

	if err := h.userService.UpdateUserRole(userID, input.Role); err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "用户角色更新成功",
	})
}

// DeleteUser 删除用户及其全部帖子、评论、反应和关注关系
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    400,
			"message": "无效的用户ID",
		})
		return
	}

	if err := h.userService.DeleteUser(userID); err != nil {
		errors.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    200,
		"message": "用户删除成功",
	})
}

// 系统统计
func (h *AdminHandler) GetSystemStats(c *gin.Context) {
	stats, err := h.statsService.GetSystemStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    500,
			"message": "获取系统统计数据失败",
			"error":   err.Error(),
		})
		return
	}

	stats["errors"] = h.analytics.GetStats()

	c.JSON(http.StatusOK, gin.H{
		"code": 200,
		"data": stats,
	})
}
