package model

import (
	"time"
)

type User struct {
	ID          int64     `json:"id" xorm:"pk autoincr"`
	CreatedAt   time.Time `json:"created_at" xorm:"created"`
	Username    string    `json:"username" xorm:"VARBINARY(64) unique index notnull"`
	Password    string    `json:"password" xorm:"VARBINARY(32) notnull"` //salted md5
	Email       string    `json:"email" xorm:"varchar(64) unique index notnull"`
	Description string    `json:"description" xorm:"text"`
	IsAdmin     bool      `json:"is_admin"`

	SolvedCount uint `json:"solved_count"`
	AllSubCount uint `json:"all_sub_count"`
}

func (u *User) GetTableName() string {
	return "user"
}
