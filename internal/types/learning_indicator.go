package types

// LearningIndicator is the smallest assessable skill inside a topic.
type LearningIndicator struct {
  ID                    uint     `gorm:"primaryKey;autoIncrement" json:"id"`
  Title                 string   `gorm:"not null;column:title" json:"title"`
  CommonMisconception   *string  `gorm:"column:common_misconception" json:"common_misconception,omitempty"`
  TopicID               uint     `gorm:"not null;index;column:topic_id" json:"topic_id"`
}

func (LearningIndicator) TableName() string {
  return "learning_indicators"
}
