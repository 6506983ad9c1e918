package seed

import (
	"log"

	"mentora/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Run наполняет справочники (уровни, бейджи, тарифы), если они пусты.
// Повторный запуск ничего не трогает.
func Run(db *gorm.DB) error {
	if err := seedLevels(db); err != nil {
		return err
	}
	if err := seedBadges(db); err != nil {
		return err
	}
	if err := seedPlans(db); err != nil {
		return err
	}
	log.Println(">>> DB Seeded")
	return nil
}

func seedLevels(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.Level{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	levels := []domain.Level{
		{Number: 1, Title: "Novice Learner", XPThreshold: 0},
		{Number: 2, Title: "Curious Mind", XPThreshold: 100},
		{Number: 3, Title: "Knowledge Seeker", XPThreshold: 200},
		{Number: 4, Title: "Scholar in Training", XPThreshold: 300},
		{Number: 5, Title: "Smart Explorer", XPThreshold: 400},
		{Number: 6, Title: "Master Student", XPThreshold: 500},
		{Number: 7, Title: "Elite Thinker", XPThreshold: 600},
		{Number: 8, Title: "Grand Polymath", XPThreshold: 700},
		{Number: 9, Title: "Ultra Intelligence", XPThreshold: 800},
		{Number: 10, Title: "Mentora Sage", XPThreshold: 900},
	}
	for i := range levels {
		levels[i].ID = uuid.New()
	}
	return db.Create(&levels).Error
}

func seedBadges(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.Badge{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	badges := []domain.Badge{
		{
			Name:             "Star Gazer",
			Description:      "Unlock your first astronomy lesson",
			Icon:             "star",
			RequirementType:  domain.BadgeRequirementXP,
			RequirementValue: 10,
		},
		{
			Name:             "Knowledge Master",
			Description:      "Earn 1000 total XP",
			Icon:             "trophy",
			RequirementType:  domain.BadgeRequirementXP,
			RequirementValue: 1000,
		},
		{
			Name:             "7-Day Streak",
			Description:      "Keep learning for a full week!",
			Icon:             "flame",
			RequirementType:  domain.BadgeRequirementStreak,
			RequirementValue: 7,
		},
		{
			Name:             "Mind Explorer",
			Description:      "Complete your first psychology quiz",
			Icon:             "brain",
			RequirementType:  domain.BadgeRequirementQuiz,
			RequirementValue: 1,
		},
	}
	for i := range badges {
		badges[i].ID = uuid.New()
	}
	return db.Create(&badges).Error
}

func seedPlans(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.Plan{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	plans := []domain.Plan{
		{
			Code:          domain.PlanFree,
			Name:          "Free Student",
			Price:         0,
			Description:   "Start learning with 20 questions",
			QuestionLimit: 20,
		},
		{
			Code:          domain.PlanBasic,
			Name:          "Pro Student",
			Price:         499,
			Description:   "Unlimited questions and full history",
			QuestionLimit: -1,
		},
		{
			Code:          domain.PlanUltra,
			Name:          "Ultra Explorer",
			Price:         999,
			Description:   "Everything in Pro plus priority answers",
			QuestionLimit: -1,
		},
	}
	for i := range plans {
		plans[i].ID = uuid.New()
	}
	return db.Create(&plans).Error
}
