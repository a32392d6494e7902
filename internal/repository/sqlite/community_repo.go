package sqlite

import (
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/errors"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/model"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/util"
)

type communityRepository struct {
	db *sql.DB
}

func NewCommunityRepository(db *sql.DB) *communityRepository {
	return &communityRepository{db: db}
}

// CreatePost 插入新帖子，创建时间为当前时间，updated_at 保持为空
func (r *communityRepository) CreatePost(post *model.Post) error {
	now := time.Now()
	result, err := r.db.Exec(
		`INSERT INTO posts (user_id, content, created_at) VALUES (?, ?, ?)`,
		post.UserID, post.Content, now)
	if err != nil {
		util.Logger.Error("创建帖子失败", zap.Error(err))
		return errors.Wrap(errors.ErrDatabase, "创建帖子失败", err)
	}

	postID, err := result.LastInsertId()
	if err != nil {
		return err
	}
	post.ID = int(postID)
	post.CreatedAt = now

	util.Logger.Info("帖子创建成功", zap.Int("post_id", post.ID))
	return nil
}

// 帖子查询的公共部分：作者信息和各项计数
const postSelect = `
	SELECT p.id, p.user_id, p.content, p.created_at, p.updated_at,
	       u.username, u.name, u.avatar_url,
	       IFNULL((SELECT COUNT(*) FROM post_reactions WHERE post_id = p.id AND reaction = 'like'), 0),
	       IFNULL((SELECT COUNT(*) FROM post_reactions WHERE post_id = p.id AND reaction = 'dislike'), 0),
	       IFNULL((SELECT COUNT(*) FROM comments WHERE post_id = p.id), 0)
	FROM posts p
	JOIN users u ON p.user_id = u.id`

func scanPost(scan func(dest ...interface{}) error) (*model.Post, error) {
	var post model.Post
	var user model.User
	var updatedAt sql.NullTime
	err := scan(
		&post.ID, &post.UserID, &post.Content, &post.CreatedAt, &updatedAt,
		&user.Username, &user.Name, &user.AvatarURL,
		&post.LikeCount, &post.DislikeCount, &post.CommentCount,
	)
	if err != nil {
		return nil, err
	}
	if updatedAt.Valid {
		post.UpdatedAt = &updatedAt.Time
	}
	user.ID = post.UserID
	post.User = &user
	return &post, nil
}

// GetPostByID 获取帖子，不存在时返回 (nil, nil)
func (r *communityRepository) GetPostByID(id int) (*model.Post, error) {
	row := r.db.QueryRow(postSelect+` WHERE p.id = ?`, id)
	post, err := scanPost(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return post, err
}

// UpdatePost 更新帖子内容并刷新编辑时间
func (r *communityRepository) UpdatePost(post *model.Post) error {
	now := time.Now()
	_, err := r.db.Exec(
		`UPDATE posts SET content = ?, updated_at = ? WHERE id = ?`,
		post.Content, now, post.ID)
	if err != nil {
		util.Logger.Error("更新帖子失败", zap.Error(err), zap.Int("post_id", post.ID))
		return errors.Wrap(errors.ErrDatabase, "更新帖子失败", err)
	}
	post.UpdatedAt = &now
	return nil
}

// DeletePost 删除帖子及其评论和反应，三个删除在同一事务中要么全部成功要么全部失败
func (r *communityRepository) DeletePost(id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM comments WHERE post_id = ?`, id); err != nil {
		util.Logger.Error("删除帖子评论失败", zap.Error(err), zap.Int("post_id", id))
		return err
	}
	if _, err := tx.Exec(`DELETE FROM post_reactions WHERE post_id = ?`, id); err != nil {
		util.Logger.Error("删除帖子反应失败", zap.Error(err), zap.Int("post_id", id))
		return err
	}
	if _, err := tx.Exec(`DELETE FROM posts WHERE id = ?`, id); err != nil {
		util.Logger.Error("删除帖子失败", zap.Error(err), zap.Int("post_id", id))
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	util.Logger.Info("帖子删除成功", zap.Int("post_id", id))
	return nil
}

func (r *communityRepository) listPosts(where string, args []interface{}, page, pageSize int) ([]*model.Post, error) {
	query := postSelect
	if where != "" {
		query += " WHERE " + where
	}
	query += ` ORDER BY p.id DESC LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		post, err := scanPost(rows.Scan)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// ListPosts 按帖子ID倒序（最新在前）分页获取帖子，每次查询都是一次全新快照
func (r *communityRepository) ListPosts(page, pageSize int) ([]*model.Post, int, error) {
	total, err := r.CountPosts()
	if err != nil {
		return nil, 0, err
	}
	posts, err := r.listPosts("", nil, page, pageSize)
	return posts, total, err
}

// GetUserPosts 获取某个用户的帖子
func (r *communityRepository) GetUserPosts(userID, page, pageSize int) ([]*model.Post, int, error) {
	var total int
	if err := r.db.QueryRow(
		`SELECT COUNT(*) FROM posts WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	posts, err := r.listPosts("p.user_id = ?", []interface{}{userID}, page, pageSize)
	return posts, total, err
}

func (r *communityRepository) CountPosts() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count)
	return count, err
}

// CreateComment 追加一条评论
func (r *communityRepository) CreateComment(comment *model.Comment) error {
	now := time.Now()
	result, err := r.db.Exec(
		`INSERT INTO comments (post_id, user_id, content, created_at) VALUES (?, ?, ?, ?)`,
		comment.PostID, comment.UserID, comment.Content, now)
	if err != nil {
		util.Logger.Error("创建评论失败", zap.Error(err))
		return errors.Wrap(errors.ErrDatabase, "创建评论失败", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	comment.ID = int(id)
	comment.CreatedAt = now
	return nil
}

// GetCommentsByPostID 按评论ID升序（最早在前）获取帖子的全部评论
func (r *communityRepository) GetCommentsByPostID(postID int) ([]*model.Comment, error) {
	rows, err := r.db.Query(`
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at,
		       u.username, u.name, u.avatar_url
		FROM comments c
		JOIN users u ON c.user_id = u.id
		WHERE c.post_id = ?
		ORDER BY c.id ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		var comment model.Comment
		var user model.User
		if err := rows.Scan(
			&comment.ID, &comment.PostID, &comment.UserID, &comment.Content,
			&comment.CreatedAt, &user.Username, &user.Name, &user.AvatarURL,
		); err != nil {
			return nil, err
		}
		user.ID = comment.UserID
		comment.User = &user
		comments = append(comments, &comment)
	}
	return comments, rows.Err()
}

func (r *communityRepository) GetCommentCount(postID int) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM comments WHERE post_id = ?`, postID).Scan(&count)
	return count, err
}

func (r *communityRepository) CountComments() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM comments`).Scan(&count)
	return count, err
}

// SetReaction 在一个事务内完成读取-修改-写入：
// 无记录则插入，同类反应则删除（再次点击取消），不同反应则原地更新。
// (post_id, user_id) 复合主键保证并发下不会出现重复行。
func (r *communityRepository) SetReaction(postID, userID int, kind string) (model.ReactionEffect, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	var existing string
	err = tx.QueryRow(
		`SELECT reaction FROM post_reactions WHERE post_id = ? AND user_id = ?`,
		postID, userID).Scan(&existing)

	var effect model.ReactionEffect
	switch {
	case err == sql.ErrNoRows:
		_, err = tx.Exec(
			`INSERT INTO post_reactions (post_id, user_id, reaction, reacted_at) VALUES (?, ?, ?, ?)`,
			postID, userID, kind, time.Now())
		if isUniqueViolation(err) {
			// 并发插入输给了另一个调用，复合主键让它立刻失败而不是产生两行
			return "", errors.Wrap(errors.ErrResourceConflict, "反应已存在", err)
		}
		effect = model.ReactionAdded
	case err != nil:
		return "", err
	case existing == kind:
		_, err = tx.Exec(
			`DELETE FROM post_reactions WHERE post_id = ? AND user_id = ?`,
			postID, userID)
		effect = model.ReactionRemoved
	default:
		_, err = tx.Exec(
			`UPDATE post_reactions SET reaction = ?, reacted_at = ? WHERE post_id = ? AND user_id = ?`,
			kind, time.Now(), postID, userID)
		effect = model.ReactionChanged
	}
	if err != nil {
		util.Logger.Error("更新反应失败", zap.Error(err),
			zap.Int("post_id", postID), zap.Int("user_id", userID))
		return "", errors.Wrap(errors.ErrDatabase, "更新反应失败", err)
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return effect, nil
}

// GetReactionCounts 按反应类型聚合计数，没有记录的类型返回零而不是缺失
func (r *communityRepository) GetReactionCounts(postID int) (*model.ReactionCounts, error) {
	rows, err := r.db.Query(`
		SELECT reaction, COUNT(*)
		FROM post_reactions
		WHERE post_id = ?
		GROUP BY reaction`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := &model.ReactionCounts{}
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, err
		}
		switch kind {
		case model.ReactionLike:
			counts.Likes = count
		case model.ReactionDislike:
			counts.Dislikes = count
		}
	}
	return counts, rows.Err()
}

func (r *communityRepository) CountReactions() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM post_reactions`).Scan(&count)
	return count, err
}

// CreateFollow 建立关注关系，重复关注不报错
func (r *communityRepository) CreateFollow(followerID, followedID int) error {
	_, err := r.db.Exec(
		`INSERT OR IGNORE INTO follows (follower_id, followed_id, created_at) VALUES (?, ?, ?)`,
		followerID, followedID, time.Now())
	if err != nil {
		util.Logger.Error("创建关注关系失败", zap.Error(err))
		return errors.Wrap(errors.ErrDatabase, "创建关注关系失败", err)
	}
	return nil
}

func (r *communityRepository) DeleteFollow(followerID, followedID int) error {
	_, err := r.db.Exec(
		`DELETE FROM follows WHERE follower_id = ? AND followed_id = ?`,
		followerID, followedID)
	return err
}

func (r *communityRepository) IsFollowing(followerID, followedID int) (bool, error) {
	var exists int
	err := r.db.QueryRow(
		`SELECT 1 FROM follows WHERE follower_id = ? AND followed_id = ?`,
		followerID, followedID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (r *communityRepository) GetFollowerCount(userID int) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM follows WHERE followed_id = ?`, userID).Scan(&count)
	return count, err
}

func (r *communityRepository) followUsers(where string, userID int) ([]*model.User, error) {
	rows, err := r.db.Query(`
		SELECT u.id, u.username, u.name, u.bio, u.avatar_url
		FROM follows f
		JOIN users u ON `+where+`
		ORDER BY f.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Name, &user.Bio, &user.AvatarURL); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

// GetFollowers 获取关注了该用户的人
func (r *communityRepository) GetFollowers(userID int) ([]*model.User, error) {
	return r.followUsers(`u.id = f.follower_id AND f.followed_id = ?`, userID)
}

// GetFollowing 获取该用户关注的人
func (r *communityRepository) GetFollowing(userID int) ([]*model.User, error) {
	return r.followUsers(`u.id = f.followed_id AND f.follower_id = ?`, userID)
}
