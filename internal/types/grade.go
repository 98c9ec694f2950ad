package types

type Grade struct {
  ID    uint    `gorm:"primaryKey;autoIncrement" json:"id"`
  Name  string  `gorm:"not null;uniqueIndex;column:name" json:"name"`
}

func (Grade) TableName() string {
  return "grades"
}
