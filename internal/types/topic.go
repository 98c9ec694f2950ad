package types

// Topic is a learning outcome: a teachable unit within a chapter, composed of
// learning indicators.
type Topic struct {
  ID         uint    `gorm:"primaryKey;autoIncrement" json:"id"`
  Name       string  `gorm:"not null;column:name" json:"name"`
  ChapterID  uint    `gorm:"not null;index;column:chapter_id" json:"chapter_id"`
}

func (Topic) TableName() string {
  return "topics"
}
