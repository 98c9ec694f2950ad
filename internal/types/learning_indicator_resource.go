package types

// LearningIndicatorResource links indicators to resources (many-to-many).
type LearningIndicatorResource struct {
  LearningIndicatorID  uint  `gorm:"primaryKey;column:learning_indicator_id" json:"learning_indicator_id"`
  ResourceID           uint  `gorm:"primaryKey;column:resource_id" json:"resource_id"`
}

func (LearningIndicatorResource) TableName() string {
  return "learning_indicator_resources"
}
