package interfaces

import "github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/model"

// CommunityRepository 定义了帖子、评论、反应与关注相关的数据库操作接口
type CommunityRepository interface {
	CreatePost(post *model.Post) error
	GetPostByID(id int) (*model.Post, error)
	UpdatePost(post *model.Post) error
	DeletePost(id int) error
	ListPosts(page, pageSize int) ([]*model.Post, int, error)
	GetUserPosts(userID, page, pageSize int) ([]*model.Post, int, error)
	CountPosts() (int, error)

	CreateComment(comment *model.Comment) error
	GetCommentsByPostID(postID int) ([]*model.Comment, error)
	GetCommentCount(postID int) (int, error)
	CountComments() (int, error)

	SetReaction(postID, userID int, kind string) (model.ReactionEffect, error)
	GetReactionCounts(postID int) (*model.ReactionCounts, error)
	CountReactions() (int, error)

	CreateFollow(followerID, followedID int) error
	DeleteFollow(followerID, followedID int) error
	IsFollowing(followerID, followedID int) (bool, error)
	GetFollowerCount(userID int) (int, error)
	GetFollowers(userID int) ([]*model.User, error)
	GetFollowing(userID int) ([]*model.User, error)
}
