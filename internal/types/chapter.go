package types

type Chapter struct {
  ID         uint    `gorm:"primaryKey;autoIncrement" json:"id"`
  Name       string  `gorm:"not null;column:name" json:"name"`
  SubjectID  uint    `gorm:"not null;index;column:subject_id" json:"subject_id"`
}

func (Chapter) TableName() string {
  return "chapters"
}
