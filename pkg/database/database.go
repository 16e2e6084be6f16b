package database

import (
	"empower_backend/internal/config"
	"empower_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Achievement{},
		&model.DailyTask{},
		&model.QuizQuestion{},
		&model.QuizSession{},
		&model.QuizSessionQuestion{},
		&model.QuizAnswer{},
		&model.Challenge{},
		&model.ChallengeParticipant{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认题库（为空时写入，保证每个类目在各层级下都凑得够一次测验）
	var count int64
	db.Model(&model.QuizQuestion{}).Count(&count)
	if count == 0 {
		for _, q := range defaultQuestions() {
			db.Create(&q)
		}
		log.Println("Quiz question bank seeded")
	}

	return db, nil
}

func defaultQuestions() []model.QuizQuestion {
	return []model.QuizQuestion{
		// 健康类
		{
			Category:      model.TaskHealth,
			Difficulty:    model.DifficultyBeginner,
			Question:      "How many glasses of water should you drink daily?",
			Options:       `["4-5 glasses","6-8 glasses","10-12 glasses","15+ glasses"]`,
			CorrectAnswer: 1,
			Explanation:   "6-8 glasses (about 2-3 liters) is the recommended daily water intake for most adults.",
			Topic:         "nutrition",
			Enabled:       true,
		},
		{
			Category:      model.TaskHealth,
			Difficulty:    model.DifficultyBeginner,
			Question:      "What percentage of your plate should be vegetables for a balanced meal?",
			Options:       `["25%","33%","50%","75%"]`,
			CorrectAnswer: 2,
			Explanation:   "Half your plate should be filled with vegetables and fruits for optimal nutrition.",
			Topic:         "nutrition",
			Enabled:       true,
		},
		{
			Category:      model.TaskHealth,
			Difficulty:    model.DifficultyBeginner,
			Question:      "How many hours of sleep do adults need for optimal health?",
			Options:       `["5-6 hours","7-8 hours","9-10 hours","11+ hours"]`,
			CorrectAnswer: 1,
			Explanation:   "7-8 hours of sleep is recommended for most adults to maintain good health.",
			Topic:         "sleep",
			Enabled:       true,
		},
		{
			Category:      model.TaskHealth,
			Difficulty:    model.DifficultyBeginner,
			Question:      "Which vitamin does your body produce when exposed to sunlight?",
			Options:       `["Vitamin A","Vitamin B12","Vitamin C","Vitamin D"]`,
			CorrectAnswer: 3,
			Explanation:   "Skin exposed to sunlight synthesizes vitamin D, which supports bone and immune health.",
			Topic:         "nutrition",
			Enabled:       true,
		},
		{
			Category:      model.TaskHealth,
			Difficulty:    model.DifficultyBeginner,
			Question:      "Which of these is a whole grain?",
			Options:       `["White rice","Oats","Corn syrup","White bread"]`,
			CorrectAnswer: 1,
			Explanation:   "Oats keep all three parts of the grain kernel, making them a whole grain.",
			Topic:         "nutrition",
			Enabled:       true,
		},
		{
			Category:      model.TaskHealth,
			Difficulty:    model.DifficultyIntermediate,
			Question:      "What is the recommended amount of moderate exercise per week?",
			Options:       `["75 minutes","150 minutes","300 minutes","450 minutes"]`,
			CorrectAnswer: 1,
			Explanation:   "150 minutes (2.5 hours) of moderate exercise per week is recommended by health authorities.",
			Topic:         "fitness",
			Enabled:       true,
		},
		{
			Category:      model.TaskHealth,
			Difficulty:    model.DifficultyIntermediate,
			Question:      "Which practice is most effective for managing stress?",
			Options:       `["Avoiding stress","Deep breathing","Working more","Sleeping extra"]`,
			CorrectAnswer: 1,
			Explanation:   "Deep breathing and mindfulness practices are scientifically proven to reduce stress effectively.",
			Topic:         "mental-health",
			Enabled:       true,
		},
		{
			Category:      model.TaskHealth,
			Difficulty:    model.DifficultyAdvanced,
			Question:      "What is the typical resting heart rate range for healthy adults?",
			Options:       `["40-50 bpm","60-100 bpm","110-130 bpm","130-150 bpm"]`,
			CorrectAnswer: 1,
			Explanation:   "A resting heart rate between 60 and 100 beats per minute is considered normal for adults.",
			Topic:         "fitness",
			Enabled:       true,
		},
		// 财务类
		{
			Category:      model.TaskWealth,
			Difficulty:    model.DifficultyBeginner,
			Question:      "What is the 50-30-20 rule in budgeting?",
			Options:       `["50% savings, 30% needs, 20% wants","50% needs, 30% wants, 20% savings","50% wants, 30% savings, 20% needs","50% investments, 30% savings, 20% expenses"]`,
			CorrectAnswer: 1,
			Explanation:   "The 50-30-20 rule allocates 50% for needs, 30% for wants, and 20% for savings and debt repayment.",
			Topic:         "budgeting",
			Enabled:       true,
		},
		{
			Category:      model.TaskWealth,
			Difficulty:    model.DifficultyBeginner,
			Question:      "What does SIP stand for in investing?",
			Options:       `["Systematic Investment Plan","Simple Interest Payment","Systematic Insurance Policy","Systematic Income Plan"]`,
			CorrectAnswer: 0,
			Explanation:   "SIP (Systematic Investment Plan) allows you to invest a fixed amount regularly in mutual funds.",
			Topic:         "investing",
			Enabled:       true,
		},
		{
			Category:      model.TaskWealth,
			Difficulty:    model.DifficultyBeginner,
			Question:      "What does 'pay yourself first' mean?",
			Options:       `["Spend on wants before bills","Set savings aside before spending","Pay off all debt immediately","Take salary in cash"]`,
			CorrectAnswer: 1,
			Explanation:   "Paying yourself first means moving money to savings as soon as income arrives, before any spending.",
			Topic:         "savings",
			Enabled:       true,
		},
		{
			Category:      model.TaskWealth,
			Difficulty:    model.DifficultyBeginner,
			Question:      "Which account type usually earns the most interest?",
			Options:       `["Checking account","High-yield savings account","Cash at home","Prepaid card"]`,
			CorrectAnswer: 1,
			Explanation:   "High-yield savings accounts pay noticeably more interest than checking accounts or cash.",
			Topic:         "savings",
			Enabled:       true,
		},
		{
			Category:      model.TaskWealth,
			Difficulty:    model.DifficultyBeginner,
			Question:      "What is a budget?",
			Options:       `["A record of past purchases only","A plan for income and spending","A type of bank loan","A government tax form"]`,
			CorrectAnswer: 1,
			Explanation:   "A budget is a forward-looking plan that allocates expected income across spending and saving.",
			Topic:         "budgeting",
			Enabled:       true,
		},
		{
			Category:      model.TaskWealth,
			Difficulty:    model.DifficultyIntermediate,
			Question:      "What is a good credit score range?",
			Options:       `["300-579","580-669","670-739","740-850"]`,
			CorrectAnswer: 3,
			Explanation:   "A credit score of 740-850 is considered excellent and will get you the best loan terms.",
			Topic:         "credit",
			Enabled:       true,
		},
		{
			Category:      model.TaskWealth,
			Difficulty:    model.DifficultyIntermediate,
			Question:      "How much should your emergency fund cover?",
			Options:       `["1 month expenses","3-6 months expenses","1 year expenses","2 years expenses"]`,
			CorrectAnswer: 1,
			Explanation:   "An emergency fund should cover 3-6 months of living expenses for financial security.",
			Topic:         "savings",
			Enabled:       true,
		},
		{
			Category:      model.TaskWealth,
			Difficulty:    model.DifficultyAdvanced,
			Question:      "What is compound interest?",
			Options:       `["Interest on principal only","Interest on interest earned","Simple interest calculation","Bank charges"]`,
			CorrectAnswer: 1,
			Explanation:   "Compound interest is earning interest on both your principal and previously earned interest.",
			Topic:         "investing",
			Enabled:       true,
		},
		{
			Category:      model.TaskWealth,
			Difficulty:    model.DifficultyAdvanced,
			Question:      "Which risk does portfolio diversification primarily reduce?",
			Options:       `["Market-wide risk","Company-specific risk","Inflation risk","Currency risk"]`,
			CorrectAnswer: 1,
			Explanation:   "Spreading money across assets reduces exposure to any single company's poor performance.",
			Topic:         "investing",
			Enabled:       true,
		},
	}
}
