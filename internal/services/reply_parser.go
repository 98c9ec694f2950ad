package services

import (
  "regexp"
  "strings"

  "gopkg.in/yaml.v3"
)

// QuizOption tolerates scalar options of any YAML type; the model often emits
// bare numbers in MCQ option lists.
type QuizOption string

func (o *QuizOption) UnmarshalYAML(value *yaml.Node) error {
  *o = QuizOption(value.Value)
  return nil
}

type Quiz struct {
  Type     string       `yaml:"type" json:"type"`
  Title    string       `yaml:"title,omitempty" json:"title,omitempty"`
  Step     string       `yaml:"step,omitempty" json:"step,omitempty"`
  Correct  string       `yaml:"correct,omitempty" json:"correct,omitempty"`
  Options  []QuizOption `yaml:"options,omitempty" json:"options,omitempty"`
}

// Reply is the structured shape the chat service is instructed to produce.
type Reply struct {
  Type    string `yaml:"type" json:"type"`
  Speak   string `yaml:"speak,omitempty" json:"speak,omitempty"`
  Action  string `yaml:"action,omitempty" json:"action,omitempty"`
  Write   string `yaml:"write,omitempty" json:"write,omitempty"`
  Play    string `yaml:"play,omitempty" json:"play,omitempty"`
  Quiz    *Quiz  `yaml:"quiz,omitempty" json:"quiz,omitempty"`
}

var (
  leadingFence   = regexp.MustCompile("^```[a-zA-Z]*\\s*\n")
  trailingFence  = regexp.MustCompile("\n```\\s*$")
  leadingMarker  = regexp.MustCompile(`^---\s*\n`)
  trailingMarker = regexp.MustCompile(`\n---\s*$`)
  keyLine        = regexp.MustCompile(`(?i)^(type|speak|action|write|play|quiz):`)
)

// ParseReply recovers a structured Reply from model output. It tries a strict
// YAML parse first and falls back to a forgiving line scan; a malformed reply
// must never abort the conversation loop, so this function cannot fail. The
// type defaults to "text" when the model omits it.
func ParseReply(text string) Reply {
  yamlText := strings.TrimSpace(text)
  yamlText = leadingFence.ReplaceAllString(yamlText, "")
  yamlText = trailingFence.ReplaceAllString(yamlText, "")
  yamlText = leadingMarker.ReplaceAllString(yamlText, "")
  yamlText = trailingMarker.ReplaceAllString(yamlText, "")
  yamlText = strings.TrimSpace(yamlText)

  var parsed Reply
  if err := yaml.Unmarshal([]byte(yamlText), &parsed); err == nil && parsed.Type != "" {
    return parsed
  }

  return scanReply(yamlText)
}

// scanReply is the fallback: case-insensitive key matching, line by line,
// with multi-line continuation for speak.
func scanReply(yamlText string) Reply {
  reply := Reply{Type: "text"}

  lines := strings.Split(yamlText, "\n")
  for i := 0; i < len(lines); i++ {
    line := strings.TrimSpace(lines[i])
    switch {
    case hasKey(line, "type"):
      reply.Type = keyValue(line, "type")
    case hasKey(line, "speak"):
      collected := []string{}
      if v := keyValue(line, "speak"); v != "" {
        collected = append(collected, v)
      }
      j := i + 1
      for ; j < len(lines); j++ {
        if keyLine.MatchString(strings.TrimSpace(lines[j])) {
          break
        }
        collected = append(collected, strings.TrimLeft(lines[j], " \t"))
      }
      reply.Speak = strings.TrimSpace(strings.ReplaceAll(strings.Join(collected, "\n"), "```", ""))
      i = j - 1
    case hasKey(line, "action"):
      reply.Action = keyValue(line, "action")
    case hasKey(line, "write"):
      reply.Write = keyValue(line, "write")
    case hasKey(line, "play"):
      reply.Play = keyValue(line, "play")
    }
  }

  // Nothing recognised: treat the whole reply as something to speak.
  if reply.Speak == "" && reply.Action == "" && reply.Write == "" && reply.Play == "" {
    reply.Speak = strings.TrimSpace(yamlText)
  }
  if reply.Type == "" {
    reply.Type = "text"
  }
  return reply
}

func hasKey(line, key string) bool {
  return len(line) > len(key) && strings.EqualFold(line[:len(key)+1], key+":")
}

func keyValue(line, key string) string {
  return strings.TrimSpace(line[len(key)+1:])
}
