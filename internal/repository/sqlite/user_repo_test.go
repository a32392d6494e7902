package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/errors"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/model"
)

func newUserTestRepo(t *testing.T) *userRepository {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, Migrate(db))
	return NewUserRepository(db)
}

func TestCreateAndFindUser(t *testing.T) {
	repo := newUserTestRepo(t)

	user := &model.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "hash",
	}
	require.NoError(t, repo.Create(user))
	assert.NotZero(t, user.ID)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.True(t, user.IsActive)

	byID, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "alice", byID.Username)

	byEmail, err := repo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)

	byUsername, err := repo.FindByUsername("alice")
	require.NoError(t, err)
	require.NotNil(t, byUsername)
}

func TestFindUserNotFound(t *testing.T) {
	repo := newUserTestRepo(t)

	user, err := repo.FindByID(99)
	assert.NoError(t, err)
	assert.Nil(t, user)

	user, err = repo.FindByEmail("nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

// 用户名和邮箱都是唯一的，冲突返回 ErrUserExists
func TestCreateDuplicateUser(t *testing.T) {
	repo := newUserTestRepo(t)

	require.NoError(t, repo.Create(&model.User{
		Username: "alice", Email: "alice@example.com", PasswordHash: "hash",
	}))

	err := repo.Create(&model.User{
		Username: "alice", Email: "other@example.com", PasswordHash: "hash",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUserExists))

	err = repo.Create(&model.User{
		Username: "alice2", Email: "alice@example.com", PasswordHash: "hash",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUserExists))
}

func TestUpdateUserProfile(t *testing.T) {
	repo := newUserTestRepo(t)
	user := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(user))

	user.Name = "Alice Liddell"
	user.Bio = "down the rabbit hole"
	require.NoError(t, repo.Update(user))

	got, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", got.Name)
	assert.Equal(t, "down the rabbit hole", got.Bio)
}

func TestUpdatePassword(t *testing.T) {
	repo := newUserTestRepo(t)
	user := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "old"}
	require.NoError(t, repo.Create(user))

	require.NoError(t, repo.UpdatePassword(user.ID, "new"))

	got, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.PasswordHash)
}

func TestSetActive(t *testing.T) {
	repo := newUserTestRepo(t)
	user := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(user))

	require.NoError(t, repo.SetActive(user.ID, false))
	got, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	require.NoError(t, repo.SetActive(user.ID, true))
	got, err = repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
}

// TestDeleteUserCascades 删除用户时连带删除其帖子、评论、反应和关注关系
func TestDeleteUserCascades(t *testing.T) {
	repo := newUserTestRepo(t)
	communityRepo := NewCommunityRepository(repo.db)

	alice := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "hash"}
	bob := &model.User{Username: "bob", Email: "bob@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(alice))
	require.NoError(t, repo.Create(bob))

	post := &model.Post{UserID: alice.ID, Content: "alice's post"}
	require.NoError(t, communityRepo.CreatePost(post))
	require.NoError(t, communityRepo.CreateComment(&model.Comment{
		PostID: post.ID, UserID: bob.ID, Content: "bob's comment",
	}))
	_, err := communityRepo.SetReaction(post.ID, bob.ID, model.ReactionLike)
	require.NoError(t, err)
	require.NoError(t, communityRepo.CreateFollow(bob.ID, alice.ID))

	require.NoError(t, repo.Delete(alice.ID))

	gone, err := repo.FindByID(alice.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	gotPost, err := communityRepo.GetPostByID(post.ID)
	require.NoError(t, err)
	assert.Nil(t, gotPost, "用户删除后其帖子应一并删除")

	comments, err := communityRepo.CountComments()
	require.NoError(t, err)
	assert.Zero(t, comments, "被删帖子下其他用户的评论也应删除")

	reactions, err := communityRepo.CountReactions()
	require.NoError(t, err)
	assert.Zero(t, reactions)

	following, err := communityRepo.IsFollowing(bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, following)
}

func TestFindAllPagination(t *testing.T) {
	repo := newUserTestRepo(t)
	names := []string{"alice", "bob", "carol"}
	for _, name := range names {
		require.NoError(t, repo.Create(&model.User{
			Username: name, Email: name + "@example.com", PasswordHash: "hash",
		}))
	}

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	page1, err := repo.FindAll(1, 2)
	require.NoError(t, err)
	assert.Len(t, page1, 2)

	page2, err := repo.FindAll(2, 2)
	require.NoError(t, err)
	assert.Len(t, page2, 1)
}
