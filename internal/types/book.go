package types

type Book struct {
  ID       uint  `gorm:"primaryKey;autoIncrement" json:"id"`
  GradeID  uint  `gorm:"index;column:grade_id" json:"grade_id"`
}

func (Book) TableName() string {
  return "books"
}
