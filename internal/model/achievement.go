package model

// Achievement 已解锁的徽章，(user_id, code) 唯一，解锁后不会撤销
type Achievement struct {
	BaseModel
	UserID   uint   `gorm:"index;type:bigint unsigned;uniqueIndex:idx_user_code" json:"userId"`
	Code     string `gorm:"size:50;not null;uniqueIndex:idx_user_code" json:"code"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Icon     string `gorm:"size:255" json:"icon"`
	EarnedXP int    `gorm:"default:0" json:"earnedXp"`
}

func (Achievement) TableName() string {
	return "achievements"
}
