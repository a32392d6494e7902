package service

import (
	"strings"

	"go.uber.org/zap"

	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/errors"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/model"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/repository/interfaces"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/util"
)

// CommunityService 处理帖子、评论、反应与关注的业务逻辑。
// 所有权校验和内容校验集中在这一层，仓储层只负责数据访问。
type CommunityService struct {
	repo     interfaces.CommunityRepository
	userRepo interfaces.UserRepository
}

func NewCommunityService(repo interfaces.CommunityRepository, userRepo interfaces.UserRepository) *CommunityService {
	return &CommunityService{repo: repo, userRepo: userRepo}
}

// CreatePost 创建帖子，内容去除首尾空白后不能为空
func (s *CommunityService) CreatePost(post *model.Post) error {
	post.Content = strings.TrimSpace(post.Content)
	if post.Content == "" {
		return errors.New(errors.ErrValidation, "帖子内容不能为空")
	}

	author, err := s.userRepo.FindByID(post.UserID)
	if err != nil {
		return err
	}
	if author == nil {
		return errors.New(errors.ErrUserNotFound, "用户不存在")
	}

	if err := s.repo.CreatePost(post); err != nil {
		return err
	}
	util.Logger.Info("帖子创建成功", zap.Int("post_id", post.ID), zap.Int("user_id", post.UserID))
	return nil
}

// GetPostByID 获取单个帖子，不存在返回 ErrPostNotFound
func (s *CommunityService) GetPostByID(id int) (*model.Post, error) {
	post, err := s.repo.GetPostByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "帖子不存在")
	}
	return post, nil
}

// UpdatePost 更新帖子内容，只有作者本人可以修改
func (s *CommunityService) UpdatePost(postID, userID int, content string) (*model.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New(errors.ErrValidation, "帖子内容不能为空")
	}

	post, err := s.GetPostByID(postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, errors.New(errors.ErrForbidden, "只有作者才能修改帖子")
	}

	post.Content = content
	if err := s.repo.UpdatePost(post); err != nil {
		return nil, err
	}
	return s.GetPostByID(postID)
}

// DeletePost 删除帖子及其全部评论和反应，只有作者本人可以删除
func (s *CommunityService) DeletePost(postID, userID int) error {
	post, err := s.GetPostByID(postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return errors.New(errors.ErrForbidden, "只有作者才能删除帖子")
	}

	if err := s.repo.DeletePost(postID); err != nil {
		return err
	}
	util.Logger.Info("帖子删除成功", zap.Int("post_id", postID), zap.Int("user_id", userID))
	return nil
}

// ListPosts 按时间倒序分页获取帖子列表
func (s *CommunityService) ListPosts(page, pageSize int) ([]*model.Post, int, error) {
	return s.repo.ListPosts(page, pageSize)
}

// GetUserPosts 获取指定用户的帖子列表
func (s *CommunityService) GetUserPosts(userID, page, pageSize int) ([]*model.Post, int, error) {
	return s.repo.GetUserPosts(userID, page, pageSize)
}

// CreateComment 发表评论，评论只增不改
func (s *CommunityService) CreateComment(comment *model.Comment) error {
	comment.Content = strings.TrimSpace(comment.Content)
	if comment.Content == "" {
		return errors.New(errors.ErrValidation, "评论内容不能为空")
	}

	if _, err := s.GetPostByID(comment.PostID); err != nil {
		return err
	}

	author, err := s.userRepo.FindByID(comment.UserID)
	if err != nil {
		return err
	}
	if author == nil {
		return errors.New(errors.ErrUserNotFound, "用户不存在")
	}

	return s.repo.CreateComment(comment)
}

// GetCommentsByPostID 获取帖子的评论列表，按发表顺序排列。
// 帖子不存在（含已删除）时返回空列表而不是错误。
func (s *CommunityService) GetCommentsByPostID(postID int) ([]*model.Comment, error) {
	return s.repo.GetCommentsByPostID(postID)
}

// GetCommentCount 获取帖子的评论数
func (s *CommunityService) GetCommentCount(postID int) (int, error) {
	return s.repo.GetCommentCount(postID)
}

// SetReaction 设置用户对帖子的反应。同一用户对同一帖子只保留一条反应：
// 没有反应时新增，重复同类反应时取消，不同类反应时替换。
func (s *CommunityService) SetReaction(postID, userID int, kind string) (model.ReactionEffect, *model.ReactionCounts, error) {
	if !model.IsValidReaction(kind) {
		return "", nil, errors.New(errors.ErrValidation, "无效的反应类型")
	}

	if _, err := s.GetPostByID(postID); err != nil {
		return "", nil, err
	}

	effect, err := s.repo.SetReaction(postID, userID, kind)
	if err != nil {
		return "", nil, err
	}

	counts, err := s.repo.GetReactionCounts(postID)
	if err != nil {
		return "", nil, err
	}

	util.Logger.Info("反应已更新",
		zap.Int("post_id", postID),
		zap.Int("user_id", userID),
		zap.String("kind", kind),
		zap.String("effect", string(effect)))
	return effect, counts, nil
}

// GetReactionCounts 获取帖子的点赞与点踩计数。
// 帖子不存在（含已删除）时两项计数都为零。
func (s *CommunityService) GetReactionCounts(postID int) (*model.ReactionCounts, error) {
	return s.repo.GetReactionCounts(postID)
}

// CreateFollow 关注用户，重复关注不报错
func (s *CommunityService) CreateFollow(followerID, followedID int) error {
	if followerID == followedID {
		return errors.New(errors.ErrValidation, "不能关注自己")
	}

	followed, err := s.userRepo.FindByID(followedID)
	if err != nil {
		return err
	}
	if followed == nil {
		return errors.New(errors.ErrUserNotFound, "用户不存在")
	}

	return s.repo.CreateFollow(followerID, followedID)
}

// DeleteFollow 取消关注
func (s *CommunityService) DeleteFollow(followerID, followedID int) error {
	return s.repo.DeleteFollow(followerID, followedID)
}

// IsFollowing 查询关注状态
func (s *CommunityService) IsFollowing(followerID, followedID int) (bool, error) {
	return s.repo.IsFollowing(followerID, followedID)
}

// GetFollowerCount 获取粉丝数
func (s *CommunityService) GetFollowerCount(userID int) (int, error) {
	return s.repo.GetFollowerCount(userID)
}

// GetFollowers 获取粉丝列表
func (s *CommunityService) GetFollowers(userID int) ([]*model.User, error) {
	return s.repo.GetFollowers(userID)
}

// GetFollowing 获取关注列表
func (s *CommunityService) GetFollowing(userID int) ([]*model.User, error) {
	return s.repo.GetFollowing(userID)
}
