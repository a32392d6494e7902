package model

import "time"

type Post struct {
	ID           int        `json:"id"`
	UserID       int        `json:"user_id"`
	Content      string     `json:"content"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"` // 首次编辑前为空
	User         *User      `json:"user,omitempty"`
	LikeCount    int        `json:"like_count"`
	DislikeCount int        `json:"dislike_count"`
	CommentCount int        `json:"comment_count"`
	IsFollowing  bool       `json:"is_following"`
}

type Comment struct {
	ID        int       `json:"id"`
	PostID    int       `json:"post_id"`
	UserID    int       `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	User      *User     `json:"user,omitempty"`
}

// 反应类型，每个 (post, user) 对至多一条
const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
)

// IsValidReaction 检查反应类型是否合法
func IsValidReaction(kind string) bool {
	return kind == ReactionLike || kind == ReactionDislike
}

// ReactionEffect 表示一次 SetReaction 调用的结果
type ReactionEffect string

const (
	ReactionAdded   ReactionEffect = "added"   // 新增反应
	ReactionChanged ReactionEffect = "changed" // like/dislike 互换
	ReactionRemoved ReactionEffect = "removed" // 再次点击同类反应，取消
)

// ReactionCounts 反应计数，两个键永远都存在
type ReactionCounts struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}
