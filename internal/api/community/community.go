package community

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/errors"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/model"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/service"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/util"
)

type CommunityHandler struct {
	communityService *service.CommunityService
}

func NewCommunityHandler(communityService *service.CommunityService) *CommunityHandler {
	return &CommunityHandler{
		communityService: communityService,
	}
}

// CreatePost 发布新帖子
func (h *CommunityHandler) CreatePost(c *gin.Context) {
	var postData struct {
		Content string `json:"content" binding:"required"`
	}

	if err := c.ShouldBindJSON(&postData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的帖子数据", err))
		return
	}

	userID := c.GetInt("user_id")
	post := &model.Post{
		UserID:  userID,
		Content: postData.Content,
	}

	if err := h.communityService.CreatePost(post); err != nil {
		util.Logger.Error("创建帖子失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	created, err := h.communityService.GetPostByID(post.ID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"post": created}, "帖子创建成功")
}

// GetPost 获取单个帖子
func (h *CommunityHandler) GetPost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的帖子ID", err))
		return
	}

	post, err := h.communityService.GetPostByID(id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	// 获取当前用户与作者的关注关系
	if userID := c.GetInt("user_id"); userID > 0 && post.User != nil {
		isFollowing, _ := h.communityService.IsFollowing(userID, post.UserID)
		post.IsFollowing = isFollowing
	}

	errors.HandleSuccess(c, gin.H{"post": post}, "")
}

// UpdatePost 修改帖子内容，仅限作者本人
func (h *CommunityHandler) UpdatePost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的帖子ID", err))
		return
	}

	var postData struct {
		Content string `json:"content" binding:"required"`
	}

	if err := c.ShouldBindJSON(&postData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的帖子数据", err))
		return
	}

	userID := c.GetInt("user_id")
	post, err := h.communityService.UpdatePost(id, userID, postData.Content)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"post": post}, "帖子更新成功")
}

// DeletePost 删除帖子及其评论和反应，仅限作者本人
func (h *CommunityHandler) DeletePost(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的帖子ID", err))
		return
	}

	userID := c.GetInt("user_id")
	if err := h.communityService.DeletePost(id, userID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "帖子删除成功")
}

// ListPosts 按时间倒序分页获取帖子
func (h *CommunityHandler) ListPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	posts, total, err := h.communityService.ListPosts(page, pageSize)
	if err != nil {
		util.Logger.Error("获取帖子列表失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取帖子列表失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"posts":     posts,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	}, "")
}

// GetUserPosts 获取指定用户的帖子
func (h *CommunityHandler) GetUserPosts(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的用户ID", err))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	posts, total, err := h.communityService.GetUserPosts(userID, page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取用户帖子失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{
		"posts": posts,
		"total": total,
	}, "")
}

// CreateComment 发表评论
func (h *CommunityHandler) CreateComment(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的帖子ID", err))
		return
	}

	var commentData struct {
		Content string `json:"content" binding:"required"`
	}

	if err := c.ShouldBindJSON(&commentData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的评论数据", err))
		return
	}

	comment := &model.Comment{
		PostID:  postID,
		UserID:  c.GetInt("user_id"),
		Content: commentData.Content,
	}

	if err := h.communityService.CreateComment(comment); err != nil {
		util.Logger.Error("创建评论失败", zap.Error(err))
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"comment": comment}, "评论发表成功")
}

// ListComments 按发表顺序获取帖子的评论
func (h *CommunityHandler) ListComments(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的帖子ID", err))
		return
	}

	comments, err := h.communityService.GetCommentsByPostID(postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"comments": comments}, "")
}

// React 设置对帖子的反应，重复同类反应会取消
func (h *CommunityHandler) React(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的帖子ID", err))
		return
	}

	var reactionData struct {
		Reaction string `json:"reaction" binding:"required,reaction"`
	}

	if err := c.ShouldBindJSON(&reactionData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的反应类型", err))
		return
	}

	userID := c.GetInt("user_id")
	effect, counts, err := h.communityService.SetReaction(postID, userID, reactionData.Reaction)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{
		"effect": effect,
		"counts": counts,
	}, "")
}

// GetReactionCounts 获取帖子的点赞和点踩计数
func (h *CommunityHandler) GetReactionCounts(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的帖子ID", err))
		return
	}

	counts, err := h.communityService.GetReactionCounts(postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, gin.H{"counts": counts}, "")
}

// FollowUser 关注用户
func (h *CommunityHandler) FollowUser(c *gin.Context) {
	followedID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的用户ID", err))
		return
	}

	followerID := c.GetInt("user_id")
	if err := h.communityService.CreateFollow(followerID, followedID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "关注成功")
}

// UnfollowUser 取消关注
func (h *CommunityHandler) UnfollowUser(c *gin.Context) {
	followedID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的用户ID", err))
		return
	}

	followerID := c.GetInt("user_id")
	if err := h.communityService.DeleteFollow(followerID, followedID); err != nil {
		errors.HandleError(c, err)
		return
	}

	errors.HandleSuccess(c, nil, "已取消关注")
}

// GetFollowStatus 查询当前用户是否关注了指定用户
func (h *CommunityHandler) GetFollowStatus(c *gin.Context) {
	followedID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的用户ID", err))
		return
	}

	followerID := c.GetInt("user_id")
	isFollowing, err := h.communityService.IsFollowing(followerID, followedID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "查询关注状态失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"is_following": isFollowing}, "")
}

// GetFollowers 获取用户的粉丝列表
func (h *CommunityHandler) GetFollowers(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的用户ID", err))
		return
	}

	followers, err := h.communityService.GetFollowers(userID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取粉丝列表失败", err))
		return
	}

	count, _ := h.communityService.GetFollowerCount(userID)

	errors.HandleSuccess(c, gin.H{
		"followers": followers,
		"total":     count,
	}, "")
}

// GetFollowing 获取用户的关注列表
func (h *CommunityHandler) GetFollowing(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的用户ID", err))
		return
	}

	following, err := h.communityService.GetFollowing(userID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "获取关注列表失败", err))
		return
	}

	errors.HandleSuccess(c, gin.H{"following": following}, "")
}
