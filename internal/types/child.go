package types

type Child struct {
  ID       uint    `gorm:"primaryKey;autoIncrement" json:"id"`
  Name     string  `gorm:"not null;column:name" json:"name"`
  GradeID  uint    `gorm:"not null;index;column:grade_id" json:"grade_id"`
}

func (Child) TableName() string {
  return "children"
}
