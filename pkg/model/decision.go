package model

import "time"

// Decision represents a stored access decision
type Decision struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"column:username;not null" json:"username"`
	Action    string    `gorm:"column:action;not null" json:"action"`
	Resource  string    `gorm:"column:resource;not null" json:"resource"`
	ClientIP  string    `gorm:"column:client_ip" json:"client_ip"`
	Device    string    `gorm:"column:device" json:"device"`
	Outcome   string    `gorm:"column:outcome;not null" json:"outcome"`
	Reason    string    `gorm:"column:reason" json:"reason"`
	Timestamp time.Time `gorm:"column:timestamp;not null" json:"timestamp"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Decision) TableName() string {
	return "decisions"
}
