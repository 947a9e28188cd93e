package model

import "time"

// Finding represents a stored lint finding
type Finding struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Timestamp    time.Time `gorm:"column:timestamp;not null" json:"timestamp"`
	Code         string    `gorm:"column:code;not null" json:"code"`
	Severity     string    `gorm:"column:severity;not null" json:"severity"`
	Message      string    `gorm:"column:message;not null" json:"message"`
	ResourceType string    `gorm:"column:resource_type" json:"resource_type"`
	ResourceName string    `gorm:"column:resource_name" json:"resource_name"`
	ResourceARN  string    `gorm:"column:resource_arn" json:"resource_arn"`
	Statement    int       `gorm:"column:statement" json:"statement"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Finding) TableName() string {
	return "findings"
}
