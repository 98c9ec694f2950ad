package types

// Enumerated persona attributes. Values mirror the admin schema checks; gorm
// does not enforce them, the admin layer does.
const (
  PersonaLanguageHinglish = "hinglish"
  PersonaLanguageEnglish  = "english"
  PersonaLanguageHindi    = "hindi"
)

type TeacherPersona struct {
  ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
  GradeID     uint    `gorm:"not null;index;column:grade_id" json:"grade_id"`
  Persona     string  `gorm:"not null;column:persona" json:"persona"`
  Language    string  `gorm:"not null;column:language" json:"language"`
  Tone        string  `gorm:"not null;column:tone" json:"tone"`
  Motivation  string  `gorm:"not null;column:motivation" json:"motivation"`
  Humor       string  `gorm:"not null;column:humor" json:"humor"`
}

func (TeacherPersona) TableName() string {
  return "teacher_personas"
}
