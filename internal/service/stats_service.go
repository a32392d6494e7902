package service

import (
	"github.com/maegandevs/Pine-Group---Social-Media-Platform/internal/repository/interfaces"
)

type StatsService struct {
	userRepo      interfaces.UserRepository
	communityRepo interfaces.CommunityRepository
}

func NewStatsService(userRepo interfaces.UserRepository, communityRepo interfaces.CommunityRepository) *StatsService {
	return &StatsService{
		userRepo:      userRepo,
		communityRepo: communityRepo,
	}
}

// GetSystemStats 汇总系统级运营数据，供管理后台展示
func (s *StatsService) GetSystemStats() (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	userCount, err := s.userRepo.Count()
	if err != nil {
		return nil, err
	}
	stats["total_users"] = userCount

	postCount, err := s.communityRepo.CountPosts()
	if err != nil {
		return nil, err
	}
	stats["total_posts"] = postCount

	commentCount, err := s.communityRepo.CountComments()
	if err != nil {
		return nil, err
	}
	stats["total_comments"] = commentCount

	reactionCount, err := s.communityRepo.CountReactions()
	if err != nil {
		return nil, err
	}
	stats["total_reactions"] = reactionCount

	return stats, nil
}
