package services

import (
	"context"
	"testing"

	"github.com/teachathome/backend/internal/logger"
	"github.com/teachathome/backend/internal/repos"
	"github.com/teachathome/backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func strPtr(s string) *string { return &s }

// fakeLearningRepo serves canned progression data keyed the same way the gorm
// repo keys it: outcomes by chapter, indicators by topic, mastery and
// questions by indicator.
type fakeLearningRepo struct {
	outcomes   map[uint][]repos.OutcomeRef
	indicators map[uint][]repos.IndicatorRow
	mastery    map[uint]repos.MasteryRow
	questions  map[uint][]repos.QuestionRow
	chapter    repos.ChapterInfo
	child      repos.ChildInfo

	outcomesErr   error
	indicatorsErr error
	masteryErr    error
	questionsErr  error
}

func (f *fakeLearningRepo) OutcomesForChapter(ctx context.Context, chapterID uint) ([]repos.OutcomeRef, error) {
	if f.outcomesErr != nil {
		return nil, f.outcomesErr
	}
	return f.outcomes[chapterID], nil
}

func (f *fakeLearningRepo) IndicatorsForOutcome(ctx context.Context, topicID uint) ([]repos.IndicatorRow, error) {
	if f.indicatorsErr != nil {
		return nil, f.indicatorsErr
	}
	return f.indicators[topicID], nil
}

func (f *fakeLearningRepo) MasteryFor(ctx context.Context, childID uint, indicatorIDs []uint) (map[uint]repos.MasteryRow, error) {
	if f.masteryErr != nil {
		return nil, f.masteryErr
	}
	result := make(map[uint]repos.MasteryRow)
	for _, id := range indicatorIDs {
		if row, ok := f.mastery[id]; ok {
			result[id] = row
		}
	}
	return result, nil
}

func (f *fakeLearningRepo) AssessmentQuestions(ctx context.Context, indicatorIDs []uint) (map[uint][]repos.QuestionRow, error) {
	if f.questionsErr != nil {
		return nil, f.questionsErr
	}
	result := make(map[uint][]repos.QuestionRow)
	for _, id := range indicatorIDs {
		if qs, ok := f.questions[id]; ok {
			result[id] = qs
		}
	}
	return result, nil
}

func (f *fakeLearningRepo) ChapterDetails(ctx context.Context, chapterID uint) repos.ChapterInfo {
	return f.chapter
}

func (f *fakeLearningRepo) ChildDetails(ctx context.Context, childID uint) repos.ChildInfo {
	return f.child
}

type fakeChildRepo struct {
	child *types.Child
	err   error
}

func (f *fakeChildRepo) GetByID(ctx context.Context, childID uint) (*types.Child, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.child, nil
}

type fakePersonaRepo struct {
	persona *types.TeacherPersona
	err     error
}

func (f *fakePersonaRepo) ForGrade(ctx context.Context, gradeName string) (*types.TeacherPersona, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.persona, nil
}

type fakeCatalogRepo struct {
	features    []types.BookFeature
	books       []uint
	featuresErr error
	booksErr    error

	featuresCalledWith []uint
}

func (f *fakeCatalogRepo) FeaturesForBooks(ctx context.Context, bookIDs []uint) ([]types.BookFeature, error) {
	f.featuresCalledWith = bookIDs
	if f.featuresErr != nil {
		return nil, f.featuresErr
	}
	return f.features, nil
}

func (f *fakeCatalogRepo) BooksForGrade(ctx context.Context, gradeName string) ([]uint, error) {
	if f.booksErr != nil {
		return nil, f.booksErr
	}
	return f.books, nil
}

type fakeChapterRepo struct {
	chapter *types.Chapter
	err     error
}

func (f *fakeChapterRepo) GetByID(ctx context.Context, chapterID uint) (*types.Chapter, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.chapter, nil
}
