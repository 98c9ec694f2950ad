package types

const (
  ResourceTypeConceptVideo = "Concept Video"
  ResourceTypeQuestion     = "Question"
  ResourceTypeQuiz         = "Quiz"
  ResourceTypePracticeTest = "Practice Test"
)

type Resource struct {
  ID           uint     `gorm:"primaryKey;autoIncrement" json:"id"`
  Type         string   `gorm:"not null;index;column:type" json:"type"`
  Title        string   `gorm:"not null;column:title" json:"title"`
  Description  *string  `gorm:"column:description" json:"description,omitempty"`
  URL          string   `gorm:"column:url" json:"url"`
}

func (Resource) TableName() string {
  return "resources"
}
