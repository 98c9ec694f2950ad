package types

// BookFeature is a named teaching capability of a book: a catalog entry with
// free-text guidance on how to teach it.
type BookFeature struct {
  ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
  BookID      uint    `gorm:"not null;index;column:book_id" json:"book_id"`
  Subject     string  `gorm:"not null;column:subject" json:"subject"`
  Name        string  `gorm:"not null;column:name" json:"name"`
  HowToTeach  string  `gorm:"not null;column:how_to_teach" json:"how_to_teach"`
}

func (BookFeature) TableName() string {
  return "book_features"
}
