package bulkimport

import (
	"context"
	"reflect"
	"testing"

	"github.com/shekhar1luitel/quizHub/internal/content"
)

// fakeCatalog serves natural-key lookups from fixed maps.
type fakeCatalog struct {
	subjects  map[string][]content.Ref
	quizzes   map[string][]content.Ref
	questions map[string][]content.Ref
}

func (f *fakeCatalog) SubjectRefs(_ context.Context, keys []string) (map[string][]content.Ref, error) {
	return filterRefs(f.subjects, keys), nil
}

func (f *fakeCatalog) QuizRefs(_ context.Context, keys []string) (map[string][]content.Ref, error) {
	return filterRefs(f.quizzes, keys), nil
}

func (f *fakeCatalog) QuestionRefs(_ context.Context, keys []string) (map[string][]content.Ref, error) {
	return filterRefs(f.questions, keys), nil
}

func filterRefs(all map[string][]content.Ref, keys []string) map[string][]content.Ref {
	out := map[string][]content.Ref{}
	for _, key := range keys {
		if refs, ok := all[key]; ok {
			out[key] = refs
		}
	}
	return out
}

func orgRef(id, orgID int64) content.Ref {
	return content.Ref{ID: id, OrgID: &orgID}
}

func TestBuildPreviewClassifiesActions(t *testing.T) {
	catalog := &fakeCatalog{
		subjects: map[string][]content.Ref{
			"science": {orgRef(1, 7)},
		},
		quizzes:   map[string][]content.Ref{},
		questions: map[string][]content.Ref{},
	}
	parsed := &ParsedWorkbook{
		Subjects: []ParsedSubject{
			{SourceRow: 2, Name: "Science"},
			{SourceRow: 3, Name: "History"},
		},
	}

	preview, err := BuildPreview(context.Background(), catalog, content.OrgScope(7), parsed)
	if err != nil {
		t.Fatalf("BuildPreview: %v", err)
	}
	if got := preview.Subjects[0].Action; got != ActionUpdate {
		t.Errorf("existing subject action = %q, want update", got)
	}
	if got := preview.Subjects[1].Action; got != ActionCreate {
		t.Errorf("new subject action = %q, want create", got)
	}
	if len(preview.Subjects[0].Errors) != 0 {
		t.Errorf("in-scope subject errors = %v, want none", preview.Subjects[0].Errors)
	}
}

func TestBuildPreviewCrossTenantConflict(t *testing.T) {
	catalog := &fakeCatalog{
		subjects: map[string][]content.Ref{},
		quizzes: map[string][]content.Ref{
			"weekly review": {orgRef(4, 9)},
		},
		questions: map[string][]content.Ref{},
	}
	parsed := &ParsedWorkbook{
		Quizzes: []ParsedQuiz{{SourceRow: 2, Title: "Weekly Review", IsActive: true}},
	}

	preview, err := BuildPreview(context.Background(), catalog, content.OrgScope(2), parsed)
	if err != nil {
		t.Fatalf("BuildPreview: %v", err)
	}
	quiz := preview.Quizzes[0]
	if quiz.Action != ActionCreate {
		t.Errorf("conflicting quiz action = %q, want create", quiz.Action)
	}
	if want := []string{"Quiz belongs to another organization."}; !reflect.DeepEqual(quiz.Errors, want) {
		t.Errorf("errors = %v, want %v", quiz.Errors, want)
	}
}

func TestBuildPreviewDuplicatesInUpload(t *testing.T) {
	catalog := &fakeCatalog{
		subjects:  map[string][]content.Ref{},
		quizzes:   map[string][]content.Ref{},
		questions: map[string][]content.Ref{},
	}
	parsed := &ParsedWorkbook{
		Subjects: []ParsedSubject{
			{SourceRow: 2, Name: "General Knowledge"},
			{SourceRow: 3, Name: "general knowledge!"},
		},
	}

	preview, err := BuildPreview(context.Background(), catalog, content.GlobalScope(), parsed)
	if err != nil {
		t.Fatalf("BuildPreview: %v", err)
	}
	if len(preview.Subjects[0].Errors) != 0 {
		t.Errorf("first occurrence errors = %v, want none", preview.Subjects[0].Errors)
	}
	if want := []string{"Duplicate subject name in the workbook."}; !reflect.DeepEqual(preview.Subjects[1].Errors, want) {
		t.Errorf("second occurrence errors = %v, want %v", preview.Subjects[1].Errors, want)
	}
}

func TestBuildPreviewCrossSheetReferences(t *testing.T) {
	catalog := &fakeCatalog{
		subjects: map[string][]content.Ref{
			"geography": {orgRef(1, 3)},
		},
		quizzes: map[string][]content.Ref{
			"archived quiz": {orgRef(2, 3)},
		},
		questions: map[string][]content.Ref{},
	}
	parsed := &ParsedWorkbook{
		Quizzes: []ParsedQuiz{
			{SourceRow: 2, Title: "New Quiz", IsActive: true, QuestionPrompts: []string{"Capital of France?", "Phantom prompt"}},
		},
		Questions: []ParsedQuestion{
			{
				SourceRow:   2,
				Prompt:      "Capital of France?",
				IsActive:    true,
				SubjectName: "Geography",
				QuizTitles:  []string{"New Quiz", "Archived Quiz", "Phantom Quiz"},
				Options: []ParsedQuestionOption{
					{Text: "Paris", IsCorrect: true},
					{Text: "Lyon"},
				},
			},
			{
				SourceRow:   3,
				Prompt:      "Largest desert?",
				IsActive:    true,
				SubjectName: "Astronomy",
				Options: []ParsedQuestionOption{
					{Text: "Sahara", IsCorrect: true},
					{Text: "Gobi"},
				},
			},
		},
	}

	preview, err := BuildPreview(context.Background(), catalog, content.OrgScope(3), parsed)
	if err != nil {
		t.Fatalf("BuildPreview: %v", err)
	}

	quiz := preview.Quizzes[0]
	if want := []string{"Question 'Phantom prompt' is not defined in this import or library."}; !reflect.DeepEqual(quiz.Errors, want) {
		t.Errorf("quiz errors = %v, want %v", quiz.Errors, want)
	}

	first := preview.Questions[0]
	if want := []string{"Quiz 'Phantom Quiz' is not defined in the Quizzes sheet or existing library."}; !reflect.DeepEqual(first.Errors, want) {
		t.Errorf("first question errors = %v, want %v", first.Errors, want)
	}

	second := preview.Questions[1]
	if want := []string{"Subject 'Astronomy' is not defined in the Subjects sheet or existing library."}; !reflect.DeepEqual(second.Errors, want) {
		t.Errorf("second question errors = %v, want %v", second.Errors, want)
	}
}

func TestBuildPreviewIsIdempotent(t *testing.T) {
	catalog := &fakeCatalog{
		subjects:  map[string][]content.Ref{"science": {orgRef(1, 5)}},
		quizzes:   map[string][]content.Ref{},
		questions: map[string][]content.Ref{},
	}
	parsed := &ParsedWorkbook{
		Subjects: []ParsedSubject{{SourceRow: 2, Name: "Science"}},
	}

	first, err := BuildPreview(context.Background(), catalog, content.OrgScope(5), parsed)
	if err != nil {
		t.Fatalf("first BuildPreview: %v", err)
	}
	second, err := BuildPreview(context.Background(), catalog, content.OrgScope(5), parsed)
	if err != nil {
		t.Fatalf("second BuildPreview: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated previews of the same upload should be identical")
	}
}

func TestBuildPreviewResolvesPersistedReferences(t *testing.T) {
	catalog := &fakeCatalog{
		subjects: map[string][]content.Ref{
			"geography": {orgRef(1, 3)},
		},
		quizzes: map[string][]content.Ref{
			"archived quiz": {orgRef(2, 3)},
		},
		questions: map[string][]content.Ref{
			"capital of norway?": {orgRef(5, 3)},
		},
	}
	// Nothing referenced here appears in the upload itself; every
	// reference must resolve through the catalog.
	parsed := &ParsedWorkbook{
		Quizzes: []ParsedQuiz{
			{SourceRow: 2, Title: "New Quiz", IsActive: true, QuestionPrompts: []string{"Capital of Norway?"}},
		},
		Questions: []ParsedQuestion{
			{
				SourceRow:   2,
				Prompt:      "Longest river?",
				IsActive:    true,
				SubjectName: "Geography",
				QuizTitles:  []string{"Archived Quiz"},
				Options: []ParsedQuestionOption{
					{Text: "Nile", IsCorrect: true},
					{Text: "Amazon"},
				},
			},
		},
	}

	preview, err := BuildPreview(context.Background(), catalog, content.OrgScope(3), parsed)
	if err != nil {
		t.Fatalf("BuildPreview: %v", err)
	}
	if errs := preview.Quizzes[0].Errors; len(errs) != 0 {
		t.Errorf("quiz errors = %v, want none", errs)
	}
	if errs := preview.Questions[0].Errors; len(errs) != 0 {
		t.Errorf("question errors = %v, want none", errs)
	}
}

func TestBuildPreviewPersistedReferenceWrongScope(t *testing.T) {
	catalog := &fakeCatalog{
		subjects: map[string][]content.Ref{
			"geography": {orgRef(1, 9)},
		},
		quizzes:   map[string][]content.Ref{},
		questions: map[string][]content.Ref{},
	}
	parsed := &ParsedWorkbook{
		Questions: []ParsedQuestion{
			{
				SourceRow:   2,
				Prompt:      "Longest river?",
				IsActive:    true,
				SubjectName: "Geography",
				Options: []ParsedQuestionOption{
					{Text: "Nile", IsCorrect: true},
					{Text: "Amazon"},
				},
			},
		},
	}

	preview, err := BuildPreview(context.Background(), catalog, content.OrgScope(3), parsed)
	if err != nil {
		t.Fatalf("BuildPreview: %v", err)
	}
	want := []string{"Subject 'Geography' is not defined in the Subjects sheet or existing library."}
	if !reflect.DeepEqual(preview.Questions[0].Errors, want) {
		t.Errorf("question errors = %v, want %v", preview.Questions[0].Errors, want)
	}
}
