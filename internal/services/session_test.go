package services

import (
	"context"
	"errors"
	"testing"

	"github.com/teachathome/backend/internal/repos"
	"github.com/teachathome/backend/internal/types"
)

func sessionDepsFixture(t *testing.T) SessionDeps {
	t.Helper()
	return SessionDeps{
		Children: &fakeChildRepo{child: &types.Child{ID: 5, Name: "Asha", GradeID: 1}},
		Personas: &fakePersonaRepo{persona: &types.TeacherPersona{Persona: "Patient", Language: types.PersonaLanguageEnglish}},
		Catalog: &fakeCatalogRepo{
			features: []types.BookFeature{
				{ID: 1, Subject: "Maths", Name: "Chapter Teaching", HowToTeach: "Adapt."},
				{ID: 2, Subject: "Maths", Name: "Concept Video", HowToTeach: "Play."},
			},
			books: []uint{3, 7},
		},
		Chapters: &fakeChapterRepo{chapter: &types.Chapter{ID: 10, Name: "Numbers", SubjectID: 4}},
		Log:      testLogger(t),
	}
}

func TestInitialise_Success(t *testing.T) {
	deps := sessionDepsFixture(t)
	sess := NewSession("conv-1", 5, "Class 1", []uint{3})

	if err := sess.Initialise(context.Background(), deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.ChildName != "Asha" {
		t.Fatalf("expected child name resolved, got %q", sess.ChildName)
	}
	if sess.Persona == nil || sess.Persona.Persona != "Patient" {
		t.Fatalf("expected persona resolved, got %+v", sess.Persona)
	}
	if len(sess.BookFeatures) != 2 {
		t.Fatalf("expected catalog loaded, got %d features", len(sess.BookFeatures))
	}
}

func TestInitialise_FailsFastOnUnknownChild(t *testing.T) {
	deps := sessionDepsFixture(t)
	deps.Children = &fakeChildRepo{err: repos.ErrChildNotFound}
	sess := NewSession("conv-1", 99, "Class 1", []uint{3})

	err := sess.Initialise(context.Background(), deps)
	if !errors.Is(err, repos.ErrChildNotFound) {
		t.Fatalf("expected ErrChildNotFound, got %v", err)
	}
}

func TestInitialise_FailsFastOnMissingPersona(t *testing.T) {
	deps := sessionDepsFixture(t)
	deps.Personas = &fakePersonaRepo{err: repos.ErrNoPersona}
	sess := NewSession("conv-1", 5, "Class 13", []uint{3})

	err := sess.Initialise(context.Background(), deps)
	if !errors.Is(err, repos.ErrNoPersona) {
		t.Fatalf("expected ErrNoPersona, got %v", err)
	}
}

func TestInitialise_DefaultsBooksFromGrade(t *testing.T) {
	deps := sessionDepsFixture(t)
	catalog := deps.Catalog.(*fakeCatalogRepo)
	sess := NewSession("conv-1", 5, "Class 1", nil)

	if err := sess.Initialise(context.Background(), deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sess.BookIDs) != 2 || sess.BookIDs[0] != 3 || sess.BookIDs[1] != 7 {
		t.Fatalf("expected grade books adopted, got %v", sess.BookIDs)
	}
	if len(catalog.featuresCalledWith) != 2 {
		t.Fatalf("expected feature lookup over grade books, got %v", catalog.featuresCalledWith)
	}
}

func TestInitialise_ResolvesSubjectFromChapter(t *testing.T) {
	deps := sessionDepsFixture(t)
	sess := NewSession("conv-1", 5, "Class 1", []uint{3})
	sess.ChapterID = 10

	if err := sess.Initialise(context.Background(), deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.SubjectID != 4 {
		t.Fatalf("expected subject resolved from chapter, got %d", sess.SubjectID)
	}
}

func TestInitialise_BrokenChapterSelectionDegrades(t *testing.T) {
	deps := sessionDepsFixture(t)
	deps.Chapters = &fakeChapterRepo{err: repos.ErrChapterNotFound}
	sess := NewSession("conv-1", 5, "Class 1", []uint{3})
	sess.ChapterID = 77

	if err := sess.Initialise(context.Background(), deps); err != nil {
		t.Fatalf("expected broken chapter selection to not fail initialise, got %v", err)
	}
	if sess.SubjectID != 0 {
		t.Fatalf("expected subject left unresolved, got %d", sess.SubjectID)
	}
}

func TestInitialise_PreselectedFeature(t *testing.T) {
	deps := sessionDepsFixture(t)
	sess := NewSession("conv-1", 5, "Class 1", []uint{3})
	sess.FeatureName = "concept video"

	if err := sess.Initialise(context.Background(), deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.Studying == nil {
		t.Fatalf("expected preselected feature resolved")
	}
	if sess.FeatureName != "Concept Video" {
		t.Fatalf("expected canonical catalog name, got %q", sess.FeatureName)
	}
}

func TestSetStudying(t *testing.T) {
	deps := sessionDepsFixture(t)
	sess := NewSession("conv-1", 5, "Class 1", []uint{3})
	if err := sess.Initialise(context.Background(), deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if ok := sess.SetStudying("Chapter Teaching"); !ok {
		t.Fatalf("expected known feature to resolve")
	}
	if sess.Studying.Kind() != FeatureChapterAdaptive {
		t.Fatalf("expected adaptive kind for chapter teaching")
	}

	if ok := sess.SetStudying("Does Not Exist"); ok {
		t.Fatalf("expected unknown feature to fail")
	}
	if sess.Studying != nil {
		t.Fatalf("expected active feature cleared on failed selection")
	}
}

func TestFeatureNames(t *testing.T) {
	deps := sessionDepsFixture(t)
	sess := NewSession("conv-1", 5, "Class 1", []uint{3})
	if err := sess.Initialise(context.Background(), deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	names := sess.FeatureNames()
	if len(names) != 2 || names[0] != "Chapter Teaching" || names[1] != "Concept Video" {
		t.Fatalf("unexpected feature names: %v", names)
	}
}
