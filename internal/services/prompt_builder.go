package services

import (
  "context"
  "fmt"
  "strings"

  "github.com/teachathome/backend/internal/logger"
  "github.com/teachathome/backend/internal/types"
)

// PromptBuilder assembles the system-level instruction text for the chat
// service. Section order is a contract: later sections reference concepts
// (the chalkboard, taking photos) introduced informally by earlier ones, so
// callers must not reorder them.
type PromptBuilder struct {
  deps FeatureDeps
  log  *logger.Logger
}

func NewPromptBuilder(deps FeatureDeps, baseLog *logger.Logger) *PromptBuilder {
  return &PromptBuilder{
    deps: deps,
    log:  baseLog.With("service", "PromptBuilder"),
  }
}

// BuildSystemPrompt concatenates the five sections with blank-line
// separation: introduction, teaching style, what to teach, classroom setup,
// reply format.
func (pb *PromptBuilder) BuildSystemPrompt(ctx context.Context, sess *Session) string {
  sections := []string{
    buildIntro(sess),
    buildTeachingStyle(sess),
    pb.buildWhatToTeach(ctx, sess),
    buildClassroomSetup(),
    buildReplyFormat(sess),
  }
  return strings.Join(sections, "\n\n")
}

func buildIntro(sess *Session) string {
  return fmt.Sprintf("You are a teacher for %s students.", sess.Grade)
}

const fallbackTeachingStyle = "Be a friendly and supportive teacher."

func buildTeachingStyle(sess *Session) string {
  style := fallbackTeachingStyle
  if sess.Persona != nil && sess.Persona.Persona != "" {
    style = sess.Persona.Persona
  }
  return "Your teaching style:\n----\n" + style
}

func (pb *PromptBuilder) buildWhatToTeach(ctx context.Context, sess *Session) string {
  return fmt.Sprintf(`What to teach:
----
You will teach the following book and their features:
%s

%s`, featuresBySubject(sess.BookFeatures), pb.currentFeatureContent(ctx, sess))
}

// featuresBySubject groups the catalog by subject label, preserving the
// catalog's first-seen subject order.
func featuresBySubject(features []types.BookFeature) string {
  if len(features) == 0 {
    return "No specific features available at the moment."
  }

  var subjects []string
  bySubject := make(map[string][]string)
  for _, bf := range features {
    if _, ok := bySubject[bf.Subject]; !ok {
      subjects = append(subjects, bf.Subject)
    }
    bySubject[bf.Subject] = append(bySubject[bf.Subject], bf.Name)
  }

  blocks := make([]string, 0, len(subjects))
  for _, subject := range subjects {
    blocks = append(blocks, subject+"\n - "+strings.Join(bySubject[subject], "\n - "))
  }
  return strings.Join(blocks, "\n\n")
}

func (pb *PromptBuilder) currentFeatureContent(ctx context.Context, sess *Session) string {
  if sess.Studying == nil {
    return "As a child shares what they want to learn, fetch the appropriate teaching methodology for that feature."
  }
  return fmt.Sprintf("You are currently teaching %s. Follow these instructions: \n%s",
    sess.Studying.Catalog().Name,
    sess.Studying.WhatToTeach(ctx, sess, pb.deps))
}

func buildClassroomSetup() string {
  return `Classroom setup:
----
While you can speak, you can also take photo to see what the child is doing or asking. For that pass action as "take_photo"
The classroom setup contains a chalkboard to write on, which you can also use to explain or ask while teaching.

Generally teacher does not always write on chalkboard which she is speaking but only things which students have to refer to after your speaking, ex:
 - Some equation
 - Steps
 - Rhyme from chapter
 - Drawing`
}

func buildReplyFormat(sess *Session) string {
  language := types.PersonaLanguageEnglish
  if sess.Persona != nil && sess.Persona.Language != "" {
    language = sess.Persona.Language
  }

  return fmt.Sprintf(`Reply format
----
You should always reply back in YAML format only and nothing else. YAML reply can contain below attributes:

type: what type of reply this is, text/action
speak: text to speak
action: any specific action to perform (take_photo/play_resource/quiz)
write: what to write on chalkboard
quiz: to describe and ask MCQ or Fill in the blanks question
play: to play a resource if available

Replies can be of below types:

- Speak only
---
type: text
speak: How are you?
write:

- Speak and write
---
type: text
speak: Solve 5x + 4 = 12
write: 5x + 4 = 12

- Take photo
---
type: action
action: take_photo
speak: Take a photo of speaking corner
write:

- Play a resource
---
type: action
action: play_resource
speak: Watch this video carefully
play: resource_01.mp4

- Ask a MCQ
---
type: quiz
action: quiz
speak: Answer this question
quiz:
  type: MCQ
  title: What is 2+2
  correct: A
  options:
    - 4
    - 6
    - 8
    - 10

- Ask a FITB
---
type: quiz
action: quiz
speak: Answer this question
quiz:
  type: FITB
  step: Term multipying a variable is called ____ ?
  correct: coefficient
  options:
    - coefficient
    - term
    - variable

%s`, scriptToWriteIn(language))
}

// scriptToWriteIn parameterizes the reply-format section with the persona's
// spoken language: what gets written on the chalkboard and how speech should
// be transliterated.
func scriptToWriteIn(language string) string {
  switch strings.ToLower(language) {
  case types.PersonaLanguageHindi:
    return "You speak in Hindi. Write chalkboard content in Devanagari script, and keep the speak text in Devanagari as well."
  case types.PersonaLanguageHinglish:
    return "You speak in Hinglish. Keep the speak text as Hindi words transliterated in roman script, but write chalkboard content in plain English."
  default:
    return "You speak in English. Write chalkboard content in plain English."
  }
}
