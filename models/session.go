package models

import "time"

// Session is one server-side session row. Data holds the encoded session values.
type Session struct {
	Sid    string    `gorm:"column:sid;primaryKey;type:varchar(64)"`
	Data   string    `gorm:"column:sess;type:text;not null"`
	Expire time.Time `gorm:"column:expire;not null;index"`
}

func (Session) TableName() string { return "session" }
