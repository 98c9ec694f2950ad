package types

const (
  LevelWeak    = "Weak"
  LevelAverage = "Average"
  LevelStrong  = "Strong"
)

// Mastery stages of the adaptive loop. A missing learning_levels row means
// the indicator has never been evaluated and is treated as StageAssess.
const (
  StageAssess = "assess"
  StageTeach  = "teach"
  StageTaught = "taught"
)

// LearningLevel is one child's recorded mastery of one learning indicator.
// This core only reads these rows; the admin endpoints write them.
type LearningLevel struct {
  ID                   uint     `gorm:"primaryKey;autoIncrement" json:"id"`
  ChildID              uint     `gorm:"not null;index:idx_level_child_li;column:child_id" json:"child_id"`
  LearningIndicatorID  uint     `gorm:"not null;index:idx_level_child_li;column:learning_indicator_id" json:"learning_indicator_id"`
  Level                *string  `gorm:"column:level" json:"level,omitempty"`
  State                *string  `gorm:"column:state" json:"state,omitempty"`
  DoNotUnderstand      *string  `gorm:"column:do_not_understand" json:"do_not_understand,omitempty"`
  WhatNext             *string  `gorm:"column:what_next" json:"what_next,omitempty"`
  LastEvaluatedOn      *string  `gorm:"column:last_evaluated_on" json:"last_evaluated_on,omitempty"`
}

func (LearningLevel) TableName() string {
  return "learning_levels"
}
