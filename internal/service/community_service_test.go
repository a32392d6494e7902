package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/errors"
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/model"
)

// MockCommunityRepository 是 CommunityRepository 接口的模拟实现
type MockCommunityRepository struct {
	mock.Mock
}

func (m *MockCommunityRepository) CreatePost(post *model.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockCommunityRepository) GetPostByID(id int) (*model.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockCommunityRepository) UpdatePost(post *model.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockCommunityRepository) DeletePost(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockCommunityRepository) ListPosts(page, pageSize int) ([]*model.Post, int, error) {
	args := m.Called(page, pageSize)
	return args.Get(0).([]*model.Post), args.Int(1), args.Error(2)
}

func (m *MockCommunityRepository) GetUserPosts(userID, page, pageSize int) ([]*model.Post, int, error) {
	args := m.Called(userID, page, pageSize)
	return args.Get(0).([]*model.Post), args.Int(1), args.Error(2)
}

func (m *MockCommunityRepository) CountPosts() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockCommunityRepository) CreateComment(comment *model.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockCommunityRepository) GetCommentsByPostID(postID int) ([]*model.Comment, error) {
	args := m.Called(postID)
	return args.Get(0).([]*model.Comment), args.Error(1)
}

func (m *MockCommunityRepository) GetCommentCount(postID int) (int, error) {
	args := m.Called(postID)
	return args.Int(0), args.Error(1)
}

func (m *MockCommunityRepository) CountComments() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockCommunityRepository) SetReaction(postID, userID int, kind string) (model.ReactionEffect, error) {
	args := m.Called(postID, userID, kind)
	return args.Get(0).(model.ReactionEffect), args.Error(1)
}

func (m *MockCommunityRepository) GetReactionCounts(postID int) (*model.ReactionCounts, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReactionCounts), args.Error(1)
}

func (m *MockCommunityRepository) CountReactions() (int, error) {
	args := m.Called()
	return args.Int(0), args.Error(1)
}

func (m *MockCommunityRepository) CreateFollow(followerID, followedID int) error {
	args := m.Called(followerID, followedID)
	return args.Error(0)
}

func (m *MockCommunityRepository) DeleteFollow(followerID, followedID int) error {
	args := m.Called(followerID, followedID)
	return args.Error(0)
}

func (m *MockCommunityRepository) IsFollowing(followerID, followedID int) (bool, error) {
	args := m.Called(followerID, followedID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommunityRepository) GetFollowerCount(userID int) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func (m *MockCommunityRepository) GetFollowers(userID int) ([]*model.User, error) {
	args := m.Called(userID)
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockCommunityRepository) GetFollowing(userID int) ([]*model.User, error) {
	args := m.Called(userID)
	return args.Get(0).([]*model.User), args.Error(1)
}

func newCommunityTestService() (*CommunityService, *MockCommunityRepository, *MockUserRepository) {
	mockRepo := new(MockCommunityRepository)
	mockUserRepo := new(MockUserRepository)
	return NewCommunityService(mockRepo, mockUserRepo), mockRepo, mockUserRepo
}

// TestCreatePost 测试发帖
func TestCreatePost(t *testing.T) {
	service, mockRepo, mockUserRepo := newCommunityTestService()

	mockUserRepo.On("FindByID", 1).Return(&model.User{ID: 1}, nil)
	mockRepo.On("CreatePost", mock.AnythingOfType("*model.Post")).Return(nil)

	post := &model.Post{UserID: 1, Content: "  hello  "}
	err := service.CreatePost(post)
	assert.NoError(t, err)
	assert.Equal(t, "hello", post.Content, "内容应去除首尾空白后存储")
	mockRepo.AssertExpectations(t)
}

// 内容去除空白后为空应被拒绝
func TestCreatePostEmptyContent(t *testing.T) {
	service, mockRepo, _ := newCommunityTestService()

	err := service.CreatePost(&model.Post{UserID: 1, Content: "   "})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	mockRepo.AssertNotCalled(t, "CreatePost")
}

func TestCreatePostUnknownUser(t *testing.T) {
	service, _, mockUserRepo := newCommunityTestService()

	mockUserRepo.On("FindByID", 42).Return(nil, nil)

	err := service.CreatePost(&model.Post{UserID: 42, Content: "hello"})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUserNotFound))
}

// TestUpdatePostOwnership 只有作者才能修改帖子
func TestUpdatePostOwnership(t *testing.T) {
	service, mockRepo, _ := newCommunityTestService()

	post := &model.Post{ID: 1, UserID: 1, Content: "original"}
	mockRepo.On("GetPostByID", 1).Return(post, nil)
	mockRepo.On("UpdatePost", mock.AnythingOfType("*model.Post")).Return(nil)

	// 作者本人可以修改
	updated, err := service.UpdatePost(1, 1, "edited")
	assert.NoError(t, err)
	assert.NotNil(t, updated)

	// 其他用户被拒绝
	_, err = service.UpdatePost(1, 2, "hijacked")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
}

func TestUpdatePostNotFound(t *testing.T) {
	service, mockRepo, _ := newCommunityTestService()

	mockRepo.On("GetPostByID", 99).Return(nil, nil)

	_, err := service.UpdatePost(99, 1, "content")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPostNotFound))
}

// TestDeletePostOwnership 只有作者才能删除帖子
func TestDeletePostOwnership(t *testing.T) {
	service, mockRepo, _ := newCommunityTestService()

	post := &model.Post{ID: 1, UserID: 1}
	mockRepo.On("GetPostByID", 1).Return(post, nil)
	mockRepo.On("DeletePost", 1).Return(nil)

	err := service.DeletePost(1, 2)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrForbidden))
	mockRepo.AssertNotCalled(t, "DeletePost")

	err = service.DeletePost(1, 1)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestSetReaction 测试对帖子的反应
func TestSetReaction(t *testing.T) {
	service, mockRepo, _ := newCommunityTestService()

	mockRepo.On("GetPostByID", 1).Return(&model.Post{ID: 1, UserID: 2}, nil)
	mockRepo.On("SetReaction", 1, 1, model.ReactionLike).Return(model.ReactionAdded, nil)
	mockRepo.On("GetReactionCounts", 1).Return(&model.ReactionCounts{Likes: 1}, nil)

	effect, counts, err := service.SetReaction(1, 1, model.ReactionLike)
	assert.NoError(t, err)
	assert.Equal(t, model.ReactionAdded, effect)
	assert.Equal(t, 1, counts.Likes)
	assert.Equal(t, 0, counts.Dislikes)
}

func TestSetReactionInvalidKind(t *testing.T) {
	service, mockRepo, _ := newCommunityTestService()

	_, _, err := service.SetReaction(1, 1, "love")
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	mockRepo.AssertNotCalled(t, "SetReaction")
}

func TestSetReactionPostNotFound(t *testing.T) {
	service, mockRepo, _ := newCommunityTestService()

	mockRepo.On("GetPostByID", 99).Return(nil, nil)

	_, _, err := service.SetReaction(99, 1, model.ReactionDislike)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPostNotFound))
}

// TestCreateComment 测试评论
func TestCreateComment(t *testing.T) {
	service, mockRepo, mockUserRepo := newCommunityTestService()

	mockRepo.On("GetPostByID", 1).Return(&model.Post{ID: 1}, nil)
	mockUserRepo.On("FindByID", 1).Return(&model.User{ID: 1}, nil)
	mockRepo.On("CreateComment", mock.AnythingOfType("*model.Comment")).Return(nil)

	err := service.CreateComment(&model.Comment{PostID: 1, UserID: 1, Content: "nice"})
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestCreateCommentOnMissingPost(t *testing.T) {
	service, mockRepo, _ := newCommunityTestService()

	mockRepo.On("GetPostByID", 99).Return(nil, nil)

	err := service.CreateComment(&model.Comment{PostID: 99, UserID: 1, Content: "nice"})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrPostNotFound))
	mockRepo.AssertNotCalled(t, "CreateComment")
}

func TestCreateCommentEmptyContent(t *testing.T) {
	service, mockRepo, _ := newCommunityTestService()

	err := service.CreateComment(&model.Comment{PostID: 1, UserID: 1, Content: " "})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	mockRepo.AssertNotCalled(t, "CreateComment")
}

// 帖子删除后，评论查询返回空列表、计数查询返回双零，而不是报错
func TestQueriesAfterPostDeleted(t *testing.T) {
	service, mockRepo, _ := newCommunityTestService()

	mockRepo.On("GetPostByID", 10).Return(&model.Post{ID: 10, UserID: 1}, nil)
	mockRepo.On("DeletePost", 10).Return(nil)
	mockRepo.On("GetCommentsByPostID", 10).Return([]*model.Comment(nil), nil)
	mockRepo.On("GetReactionCounts", 10).Return(&model.ReactionCounts{}, nil)

	err := service.DeletePost(10, 1)
	assert.NoError(t, err)

	comments, err := service.GetCommentsByPostID(10)
	assert.NoError(t, err)
	assert.Empty(t, comments)

	counts, err := service.GetReactionCounts(10)
	assert.NoError(t, err)
	assert.Equal(t, 0, counts.Likes)
	assert.Equal(t, 0, counts.Dislikes)
}

// TestCreateFollow 测试关注
func TestCreateFollow(t *testing.T) {
	service, mockRepo, mockUserRepo := newCommunityTestService()

	mockUserRepo.On("FindByID", 2).Return(&model.User{ID: 2}, nil)
	mockRepo.On("CreateFollow", 1, 2).Return(nil)

	err := service.CreateFollow(1, 2)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestCreateFollowSelf(t *testing.T) {
	service, mockRepo, _ := newCommunityTestService()

	err := service.CreateFollow(1, 1)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	mockRepo.AssertNotCalled(t, "CreateFollow")
}

func TestCreateFollowUnknownUser(t *testing.T) {
	service, _, mockUserRepo := newCommunityTestService()

	mockUserRepo.On("FindByID", 42).Return(nil, nil)

	err := service.CreateFollow(1, 42)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUserNotFound))
}
