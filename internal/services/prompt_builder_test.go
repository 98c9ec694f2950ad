package services

import (
	"context"
	"strings"
	"testing"

	"github.com/teachathome/backend/internal/types"
)

func promptSession() *Session {
	sess := NewSession("conv-1", 5, "Class 1", []uint{3})
	sess.Persona = &types.TeacherPersona{
		Persona:  "You are Meera, a patient teacher who loves stories.",
		Language: types.PersonaLanguageHinglish,
	}
	sess.BookFeatures = []types.BookFeature{
		{ID: 1, Subject: "Maths", Name: "Chapter Teaching", HowToTeach: "Adapt to the child."},
		{ID: 2, Subject: "Maths", Name: "Concept Video", HowToTeach: "Play and discuss."},
		{ID: 3, Subject: "English", Name: "Rhyme Time", HowToTeach: "Sing along."},
	}
	return sess
}

func TestBuildSystemPrompt_SectionOrder(t *testing.T) {
	pb := NewPromptBuilder(FeatureDeps{}, testLogger(t))
	prompt := pb.BuildSystemPrompt(context.Background(), promptSession())

	markers := []string{
		"You are a teacher for Class 1 students.",
		"Your teaching style:",
		"What to teach:",
		"Classroom setup:",
		"Reply format",
	}
	last := -1
	for _, marker := range markers {
		idx := strings.Index(prompt, marker)
		if idx < 0 {
			t.Fatalf("expected section %q in prompt:\n%s", marker, prompt)
		}
		if idx < last {
			t.Fatalf("expected section %q after previous section", marker)
		}
		last = idx
	}
}

func TestBuildSystemPrompt_PersonaAndFallback(t *testing.T) {
	pb := NewPromptBuilder(FeatureDeps{}, testLogger(t))

	withPersona := pb.BuildSystemPrompt(context.Background(), promptSession())
	if !strings.Contains(withPersona, "You are Meera, a patient teacher who loves stories.") {
		t.Fatalf("expected persona text in prompt")
	}

	bare := NewSession("conv-2", 5, "Class 1", nil)
	withoutPersona := pb.BuildSystemPrompt(context.Background(), bare)
	if !strings.Contains(withoutPersona, "Be a friendly and supportive teacher.") {
		t.Fatalf("expected fallback teaching style in prompt:\n%s", withoutPersona)
	}
}

func TestBuildSystemPrompt_FeaturesGroupedBySubject(t *testing.T) {
	pb := NewPromptBuilder(FeatureDeps{}, testLogger(t))
	prompt := pb.BuildSystemPrompt(context.Background(), promptSession())

	if !strings.Contains(prompt, "Maths\n - Chapter Teaching\n - Concept Video") {
		t.Fatalf("expected maths features grouped:\n%s", prompt)
	}
	if !strings.Contains(prompt, "English\n - Rhyme Time") {
		t.Fatalf("expected english features grouped:\n%s", prompt)
	}
	if strings.Index(prompt, "Maths\n") > strings.Index(prompt, "English\n") {
		t.Fatalf("expected first-seen subject order preserved")
	}
}

func TestBuildSystemPrompt_NoFeatures(t *testing.T) {
	pb := NewPromptBuilder(FeatureDeps{}, testLogger(t))
	sess := NewSession("conv-3", 5, "Class 1", nil)
	prompt := pb.BuildSystemPrompt(context.Background(), sess)

	if !strings.Contains(prompt, "No specific features available at the moment.") {
		t.Fatalf("expected empty-catalog placeholder:\n%s", prompt)
	}
}

func TestBuildSystemPrompt_ActiveFeatureContent(t *testing.T) {
	pb := NewPromptBuilder(FeatureDeps{}, testLogger(t))

	sess := promptSession()
	if ok := sess.SetStudying("Concept Video"); !ok {
		t.Fatalf("expected feature to resolve")
	}
	prompt := pb.BuildSystemPrompt(context.Background(), sess)
	if !strings.Contains(prompt, "You are currently teaching Concept Video.") {
		t.Fatalf("expected active feature line:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Play and discuss.") {
		t.Fatalf("expected feature guidance in prompt:\n%s", prompt)
	}

	idle := promptSession()
	idlePrompt := pb.BuildSystemPrompt(context.Background(), idle)
	if !strings.Contains(idlePrompt, "fetch the appropriate teaching methodology") {
		t.Fatalf("expected tool nudge when no feature is active:\n%s", idlePrompt)
	}
}

func TestScriptToWriteIn(t *testing.T) {
	cases := []struct {
		language string
		want     string
	}{
		{types.PersonaLanguageHindi, "Devanagari"},
		{types.PersonaLanguageHinglish, "transliterated in roman script"},
		{types.PersonaLanguageEnglish, "plain English"},
		{"", "plain English"},
		{"HINGLISH", "transliterated in roman script"},
	}
	for _, c := range cases {
		got := scriptToWriteIn(c.language)
		if !strings.Contains(got, c.want) {
			t.Fatalf("scriptToWriteIn(%q) = %q, want substring %q", c.language, got, c.want)
		}
	}
}
