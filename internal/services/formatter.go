package services

import (
  "fmt"
  "strings"

  "github.com/teachathome/backend/internal/repos"
  "github.com/teachathome/backend/internal/types"
)

// TeachingContentFormatter renders analyzer output into the instruction text
// handed to the chat service. Stateless, no I/O.
type TeachingContentFormatter struct{}

func NewTeachingContentFormatter() *TeachingContentFormatter {
  return &TeachingContentFormatter{}
}

// GenerateTeachingPrompt produces the chapter-teaching block: pedagogy
// guidance, chapter and student lines, the indicator table, and one
// assessment-question block per misconception group.
func (f *TeachingContentFormatter) GenerateTeachingPrompt(
  chapterName string,
  studentName string,
  outcome OutcomeWithProgress,
  questions map[uint][]repos.QuestionRow,
) string {
  var b strings.Builder

  b.WriteString(f.formatAssessmentGuidance())
  fmt.Fprintf(&b, "\n\nCurrent chapter: '%s'", chapterName)
  fmt.Fprintf(&b, "\n%s is currently at this topic: '%s'", studentName, outcome.Name)
  b.WriteString("\n\nBelow is her progression across different learning indicators for this topic\n\n")
  b.WriteString(f.formatIndicatorTable(outcome.Indicators))
  b.WriteString(f.formatAssessmentQuestions(outcome.Indicators, questions))

  return b.String()
}

// formatIndicatorTable emits one row per indicator, preserving their original
// order. Unrecorded levels render as "Unknown".
func (f *TeachingContentFormatter) formatIndicatorTable(indicators []IndicatorWithState) string {
  var b strings.Builder
  b.WriteString("| Learning Indicator | State | At stage |\n")
  b.WriteString("| ----------------- | ----- | -------- |\n")
  for _, li := range indicators {
    level := "Unknown"
    if li.Level != nil && *li.Level != "" {
      level = *li.Level
    }
    fmt.Fprintf(&b, "| %s | %s | %s |\n", li.Title, level, li.Stage)
  }
  b.WriteString("\n")
  return b.String()
}

func (f *TeachingContentFormatter) formatAssessmentGuidance() string {
  return `How to teach:
---

For each topic - student will go through the following stages:
1. Assess (Where student will be given a question and he will answer it. If student makes a mistake, you can give a hint to student and give him a chance to redo his answer. If student keeps on making a mistake, then you should switch to Teach mode. If student answers correctly in the first attempt and ask another question. Basis the answer of the question you can either switch to teach mode or if answered correctly without any hint then declare mastery of this topic and move to next topic)
2. Teach (If student is not able to answer in assess mode or need hints to answer or makes conceptual errors repeatedly, then you will switch to teach mode and teach student by showing a video, video can be fetched by calling the teach tool and passing the LOs and other details to it. Once student says he has understood the concept, you can switch to asses mode again)`
}

// formatAssessmentQuestions emits one block per misconception group for the
// indicators still in the assess stage. Only the first question of the first
// indicator in each group is surfaced, to keep the instruction text short.
func (f *TeachingContentFormatter) formatAssessmentQuestions(
  indicators []IndicatorWithState,
  questions map[uint][]repos.QuestionRow,
) string {
  var assessable []IndicatorWithState
  for _, li := range indicators {
    if li.Stage == types.StageAssess {
      assessable = append(assessable, li)
    }
  }
  if len(assessable) == 0 {
    return ""
  }

  var b strings.Builder
  for _, group := range groupByMisconception(assessable) {
    if len(group.Indicators) == 0 {
      continue
    }
    first := group.Indicators[0]
    fmt.Fprintf(&b, "To assess %q can use below questions:\n\n", first.Title)

    if group.Misconception != generalMisconception {
      fmt.Fprintf(&b, "Typical misconception: %s\n\n", group.Misconception)
    }

    if qs := questions[first.ID]; len(qs) > 0 {
      question := qs[0]
      fmt.Fprintf(&b, "Question: %s\n", question.Title)
      if question.Description != nil && *question.Description != "" {
        fmt.Fprintf(&b, "Description: %s\n", *question.Description)
      }
      b.WriteString("\n")
    } else if first.CommonMisconception != nil && *first.CommonMisconception != "" {
      fmt.Fprintf(&b, "Example question: In the context of %q, test for the common misconception: %s\n\n", first.Title, *first.CommonMisconception)
    }
  }
  return b.String()
}
