package interfaces

import "github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/model"

// UserRepository 接口定义了用户仓库应该实现的方法。
// 查询方法在记录不存在时返回 (nil, nil)。
type UserRepository interface {
	Create(user *model.User) error
	FindByID(id int) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	Update(user *model.User) error
	UpdatePassword(id int, passwordHash string) error
	SetActive(id int, active bool) error
	Delete(id int) error
	Count() (int, error)
	FindAll(page, pageSize int) ([]*model.User, error)
}
