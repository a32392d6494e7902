package sqlite

import (
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/errors"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/model"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/util"
)

// userRepository 实现了 UserRepository 接口
type userRepository struct {
	db *sql.DB
}

// NewUserRepository 创建一个新的 userRepository 实例
func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db}
}

const userColumns = `id, username, email, password_hash, name, bio, avatar_url, role, is_active, created_at, updated_at`

// Create 创建一个新用户。用户名或邮箱已存在时返回 ErrUserExists。
func (r *userRepository) Create(user *model.User) error {
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	now := time.Now()
	query := `INSERT INTO users (username, email, password_hash, name, bio, avatar_url, role, is_active, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.Exec(query,
		user.Username, user.Email, user.PasswordHash, user.Name, user.Bio,
		user.AvatarURL, user.Role, true, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrap(errors.ErrUserExists, "用户名或邮箱已被使用", err)
		}
		util.Logger.Error("创建用户失败", zap.Error(err))
		return errors.Wrap(errors.ErrDatabase, "创建用户失败", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	user.ID = int(id)
	user.IsActive = true
	user.CreatedAt = now
	user.UpdatedAt = now
	util.Logger.Info("用户创建成功", zap.Int("user_id", user.ID))
	return nil
}

func (r *userRepository) scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Name,
		&user.Bio, &user.AvatarURL, &user.Role, &user.IsActive,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByID 通过ID查找用户，不存在时返回 (nil, nil)
func (r *userRepository) FindByID(id int) (*model.User, error) {
	return r.scanUser(r.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// FindByEmail 通过邮箱查找用户
func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	return r.scanUser(r.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

// FindByUsername 通过用户名查找用户
func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	return r.scanUser(r.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username))
}

// Update 更新用户资料字段，不包括密码
func (r *userRepository) Update(user *model.User) error {
	_, err := r.db.Exec(`
		UPDATE users
		SET username = ?, email = ?, name = ?, bio = ?, avatar_url = ?, role = ?, updated_at = ?
		WHERE id = ?`,
		user.Username, user.Email, user.Name, user.Bio, user.AvatarURL,
		user.Role, time.Now(), user.ID)
	if isUniqueViolation(err) {
		return errors.Wrap(errors.ErrUserExists, "用户名或邮箱已被使用", err)
	}
	return err
}

// UpdatePassword 更新密码哈希
func (r *userRepository) UpdatePassword(id int, passwordHash string) error {
	_, err := r.db.Exec(
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, time.Now(), id)
	return err
}

// SetActive 设置账户启用状态
func (r *userRepository) SetActive(id int, active bool) error {
	_, err := r.db.Exec(
		`UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now(), id)
	return err
}

// Delete 删除用户及其全部关联数据，整体在一个事务中完成
func (r *userRepository) Delete(id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []struct {
		query string
		args  []interface{}
	}{
		{`DELETE FROM post_reactions WHERE user_id = ? OR post_id IN (SELECT id FROM posts WHERE user_id = ?)`, []interface{}{id, id}},
		{`DELETE FROM comments WHERE user_id = ? OR post_id IN (SELECT id FROM posts WHERE user_id = ?)`, []interface{}{id, id}},
		{`DELETE FROM follows WHERE follower_id = ? OR followed_id = ?`, []interface{}{id, id}},
		{`DELETE FROM posts WHERE user_id = ?`, []interface{}{id}},
		{`DELETE FROM users WHERE id = ?`, []interface{}{id}},
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s.query, s.args...); err != nil {
			util.Logger.Error("删除用户数据失败", zap.Error(err), zap.Int("user_id", id))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	util.Logger.Info("用户删除成功", zap.Int("user_id", id))
	return nil
}

// Count 统计用户总数
func (r *userRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// FindAll 分页获取用户列表
func (r *userRepository) FindAll(page, pageSize int) ([]*model.User, error) {
	offset := (page - 1) * pageSize
	rows, err := r.db.Query(
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT ? OFFSET ?`,
		pageSize, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Name,
			&user.Bio, &user.AvatarURL, &user.Role, &user.IsActive,
			&user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}
