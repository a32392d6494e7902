package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/maegandevs/Pine-Group---Social-Media-Platform/config"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/api/admin"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/api/community"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/api/user"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/common"
	apperrors "github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/errors"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/middleware"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/repository/sqlite"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/service"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/storage"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/util"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			util.Logger.Error("程序发生严重错误", zap.Any("error", r))
		}
	}()

	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 确保数据库目录存在
	if dir := filepath.Dir(config.AppConfig.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			util.Logger.Fatal("创建数据库目录失败", zap.Error(err))
		}
	}

	// 打开数据库
	db, err := sqlite.Open(config.AppConfig.DBPath)
	if err != nil {
		util.Logger.Fatal("打开数据库失败", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		util.Logger.Fatal("数据库连接测试失败", zap.Error(err))
	}
	util.Logger.Info("数据库连接成功", zap.String("path", config.AppConfig.DBPath))

	// 建表是幂等的，启动时总是执行一次
	if err := common.WithRetry(func() error { return sqlite.Migrate(db) }, 3); err != nil {
		util.Logger.Fatal("初始化数据库结构失败", zap.Error(err))
	}
	util.Logger.Info("数据库结构初始化完成")

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("reaction", util.ValidateReaction)
	}

	// 初始化文件存储，默认本地，可切换到 S3
	var fileStorage storage.FileStorage
	if config.AppConfig.AvatarStorage == "s3" {
		s3Client, err := storage.NewS3Client(config.AppConfig.S3Region, config.AppConfig.S3Bucket)
		if err != nil {
			util.Logger.Fatal("初始化 S3 存储失败", zap.Error(err))
		}
		fileStorage = s3Client
	} else {
		ensureUploadsFolder()
		localStorage, err := storage.NewLocalStorage(config.AppConfig.LocalStoragePath)
		if err != nil {
			util.Logger.Fatal("初始化本地存储失败", zap.Error(err))
		}
		fileStorage = localStorage
	}

	// 初始化存储库、服务和处理器
	userRepo := sqlite.NewUserRepository(db)
	communityRepo := sqlite.NewCommunityRepository(db)

	userService := service.NewUserService(userRepo)
	communityService := service.NewCommunityService(communityRepo, userRepo)
	statsService := service.NewStatsService(userRepo, communityRepo)

	authHandler := user.NewAuthHandler(userService)
	profileHandler := user.NewProfileHandler(userService, fileStorage)
	communityHandler := community.NewCommunityHandler(communityService)

	// 初始化错误监控
	errorAnalytics := apperrors.NewErrorAnalytics()
	adminHandler := admin.NewAdminHandler(userService, statsService, errorAnalytics)

	// 设置 Gin 路由
	r := gin.Default()

	// 添加中间件
	r.Use(middleware.RecoveryMiddleware())
	r.Use(middleware.ErrorMonitorMiddleware(errorAnalytics))

	// 配置 CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{config.AppConfig.FrontendURL}
	corsConfig.AllowCredentials = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Length",
		"Content-Type",
		"Authorization",
	}
	r.Use(cors.New(corsConfig))

	// 静态文件的 CORS 处理
	r.Use(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/uploads/") {
			c.Header("Access-Control-Allow-Origin", config.AppConfig.FrontendURL)
			c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")

			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(200)
				return
			}
		}
		c.Next()
	})

	// 本地存储时提供静态文件服务
	if config.AppConfig.AvatarStorage == "local" {
		r.Static("/uploads", config.AppConfig.LocalStoragePath)
	}

	// 定义 API 路由
	api := r.Group("/api")
	{
		// 认证相关路由
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/admin/login", authHandler.AdminLogin)
		api.POST("/request-password-reset", authHandler.RequestPasswordReset)
		api.POST("/reset-password", authHandler.ResetPassword)
		api.POST("/account/reactivate", profileHandler.ReactivateAccount)

		// 需要认证的用户路由
		authorized := api.Group("/")
		authorized.Use(middleware.AuthMiddleware(userService))
		{
			authorized.GET("/profile", profileHandler.GetProfile)
			authorized.PUT("/profile", profileHandler.UpdateProfile)
			authorized.POST("/profile/avatar", profileHandler.UploadAvatar)
			authorized.PUT("/password", authHandler.ChangePassword)
			authorized.POST("/logout", authHandler.Logout)
			authorized.POST("/refresh-token", authHandler.RefreshToken)
			authorized.POST("/account/deactivate", profileHandler.DeactivateAccount)
		}

		// 用户目录
		api.GET("/users/:id", profileHandler.GetUserByID)
		api.GET("/users/:id/posts", communityHandler.GetUserPosts)

		// 帖子相关路由
		api.POST("/posts", middleware.AuthMiddleware(userService), communityHandler.CreatePost)
		api.GET("/posts", communityHandler.ListPosts)
		api.GET("/posts/:id", communityHandler.GetPost)
		api.PUT("/posts/:id", middleware.AuthMiddleware(userService), communityHandler.UpdatePost)
		api.DELETE("/posts/:id", middleware.AuthMiddleware(userService), communityHandler.DeletePost)

		// 评论相关路由
		api.POST("/posts/:id/comments", middleware.AuthMiddleware(userService), communityHandler.CreateComment)
		api.GET("/posts/:id/comments", communityHandler.ListComments)

		// 反应相关路由
		api.POST("/posts/:id/reactions", middleware.AuthMiddleware(userService), communityHandler.React)
		api.GET("/posts/:id/reactions", communityHandler.GetReactionCounts)

		// 关注相关路由
		api.POST("/users/:id/follow", middleware.AuthMiddleware(userService), communityHandler.FollowUser)
		api.DELETE("/users/:id/follow", middleware.AuthMiddleware(userService), communityHandler.UnfollowUser)
		api.GET("/users/:id/follow/status", middleware.AuthMiddleware(userService), communityHandler.GetFollowStatus)
		api.GET("/users/:id/followers", communityHandler.GetFollowers)
		api.GET("/users/:id/following", communityHandler.GetFollowing)

		// 管理员路由组
		adminRoutes := api.Group("/admin")
		adminRoutes.Use(middleware.AuthMiddleware(userService), middleware.AdminMiddleware(userService))
		{
			userAdmin := adminRoutes.Group("/users")
			{
				userAdmin.GET("", adminHandler.GetUsers)                // 获取用户列表
				userAdmin.PUT("/:id/role", adminHandler.UpdateUserRole) // 更新用户角色
				userAdmin.DELETE("/:id", adminHandler.DeleteUser)       // 删除用户
			}

			adminRoutes.GET("/stats", adminHandler.GetSystemStats) // 系统统计
		}
	}

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动，监听端口 :8080")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}

// 确保上传文件夹存在
func ensureUploadsFolder() {
	uploadsPath := config.AppConfig.LocalStoragePath
	if err := os.MkdirAll(uploadsPath, 0755); err != nil {
		util.Logger.Fatal("创建上传文件夹失败", zap.Error(err), zap.String("path", uploadsPath))
	}
}
