package importer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/lorelegacy/internal/entities/content"
	"github.com/KirkDiggler/lorelegacy/internal/errors"
	"github.com/KirkDiggler/lorelegacy/internal/orchestrators/importer"
	contentrepo "github.com/KirkDiggler/lorelegacy/internal/repositories/content"
	contentmock "github.com/KirkDiggler/lorelegacy/internal/repositories/content/mock"
	"github.com/KirkDiggler/lorelegacy/internal/testutils"
)

const rulebookRecords = testutils.RulebookTraits + testutils.RulebookSkills +
	testutils.RulebookSpells + testutils.RulebookWeapons + testutils.RulebookArmor

type OrchestratorTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockRepo     *contentmock.MockRepository
	orchestrator importer.Service
	ctx          context.Context
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRepo = contentmock.NewMockRepository(s.ctrl)
	s.ctx = context.Background()

	orch, err := importer.NewOrchestrator(&importer.Config{
		Repository: s.mockRepo,
	})
	s.Require().NoError(err)
	s.orchestrator = orch
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func stored(_ context.Context, input *contentrepo.CreateOrReplaceInput) (*contentrepo.CreateOrReplaceOutput, error) {
	return &contentrepo.CreateOrReplaceOutput{Record: input.Record}, nil
}

func (s *OrchestratorTestSuite) TestNewOrchestrator() {
	testCases := []struct {
		name    string
		cfg     *importer.Config
		wantErr bool
	}{
		{name: "nil config", cfg: nil, wantErr: true},
		{name: "missing repository", cfg: &importer.Config{}, wantErr: true},
		{name: "valid", cfg: &importer.Config{Repository: s.mockRepo}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			orch, err := importer.NewOrchestrator(tc.cfg)
			if tc.wantErr {
				s.Require().Error(err)
				s.True(errors.IsInvalidArgument(err))
				s.Nil(orch)
				return
			}
			s.Require().NoError(err)
			s.NotNil(orch)
		})
	}
}

func (s *OrchestratorTestSuite) TestImportWritesEveryRecord() {
	var collections []string
	s.mockRepo.EXPECT().
		CreateOrReplace(s.ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, input *contentrepo.CreateOrReplaceInput) (*contentrepo.CreateOrReplaceOutput, error) {
			if len(collections) == 0 || collections[len(collections)-1] != input.Collection.Key {
				collections = append(collections, input.Collection.Key)
			}
			return stored(ctx, input)
		}).
		Times(rulebookRecords)

	out, err := s.orchestrator.Import(s.ctx, &importer.ImportInput{Text: testutils.RulebookText})
	s.Require().NoError(err)

	s.False(out.Failed())
	s.Equal(rulebookRecords, out.Records())
	s.Require().Len(out.Results, len(content.RecordTypes))
	for i, t := range content.RecordTypes {
		s.Equal(t, out.Results[i].Type)
		s.True(out.Results[i].Found)
	}
	s.Equal([]string{
		"traits",
		"capacites-corps",
		"capacites-magie",
		"sorts-rituelle",
		"armes-epees",
		"armures-boucliers",
	}, collections)
}

func (s *OrchestratorTestSuite) TestImportMissingSections() {
	out, err := s.orchestrator.Import(s.ctx, &importer.ImportInput{Text: "Rien à importer ici."})
	s.Require().NoError(err)

	s.Zero(out.Records())
	for _, r := range out.Results {
		s.False(r.Found)
	}
}

func (s *OrchestratorTestSuite) TestImportContinuesAfterStoreFailure() {
	s.mockRepo.EXPECT().
		CreateOrReplace(s.ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, input *contentrepo.CreateOrReplaceInput) (*contentrepo.CreateOrReplaceOutput, error) {
			if input.Record.Type == content.RecordTypeTrait {
				return nil, errors.Unavailable("store is down")
			}
			return stored(ctx, input)
		}).
		Times(1 + rulebookRecords - testutils.RulebookTraits)

	out, err := s.orchestrator.Import(s.ctx, &importer.ImportInput{Text: testutils.RulebookText})
	s.Require().NoError(err)

	s.Require().True(out.Failed())
	s.Require().Len(out.Failures, 1)
	s.Equal(content.RecordTypeTrait, out.Failures[0].Type)
	s.True(errors.IsUnavailable(out.Failures[0].Err))

	s.Require().Len(out.Results, len(content.RecordTypes))
	s.Zero(out.Results[0].Records)
	s.Equal(rulebookRecords-testutils.RulebookTraits, out.Records())
}

func (s *OrchestratorTestSuite) TestImportSelectedTypes() {
	s.mockRepo.EXPECT().
		CreateOrReplace(s.ctx, gomock.Any()).
		DoAndReturn(stored).
		Times(testutils.RulebookWeapons)

	out, err := s.orchestrator.Import(s.ctx, &importer.ImportInput{
		Text:  testutils.RulebookText,
		Types: []content.RecordType{content.RecordTypeWeapon},
	})
	s.Require().NoError(err)
	s.Require().Len(out.Results, 1)
	s.Equal(content.RecordTypeWeapon, out.Results[0].Type)
	s.Equal(testutils.RulebookWeapons, out.Results[0].Records)
}

func (s *OrchestratorTestSuite) TestImportValidation() {
	testCases := []struct {
		name  string
		input *importer.ImportInput
	}{
		{name: "nil input", input: nil},
		{name: "unknown type", input: &importer.ImportInput{
			Text:  testutils.RulebookText,
			Types: []content.RecordType{"vehicle"},
		}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			out, err := s.orchestrator.Import(s.ctx, tc.input)
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))
			s.Nil(out)
		})
	}
}

func (s *OrchestratorTestSuite) TestImportCancelled() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	out, err := s.orchestrator.Import(ctx, &importer.ImportInput{Text: testutils.RulebookText})
	s.Require().Error(err)
	s.True(errors.IsCanceled(err))
	s.Nil(out)
}

func (s *OrchestratorTestSuite) TestImportStopsOnStoreDeadline() {
	s.mockRepo.EXPECT().
		CreateOrReplace(s.ctx, gomock.Any()).
		Return(nil, errors.Wrap(context.DeadlineExceeded, "failed to store record")).
		Times(1)

	out, err := s.orchestrator.Import(s.ctx, &importer.ImportInput{Text: testutils.RulebookText})
	s.Require().Error(err)
	s.True(errors.IsDeadlineExceeded(err))
	s.Nil(out)
}

func (s *OrchestratorTestSuite) TestPreviewDoesNotWrite() {
	out, err := s.orchestrator.Preview(s.ctx, &importer.PreviewInput{Text: testutils.RulebookText})
	s.Require().NoError(err)

	s.Len(out.Results, len(content.RecordTypes))
	s.Len(out.Batches, 6)

	total := 0
	for _, b := range out.Batches {
		total += len(b.Records)
	}
	s.Equal(rulebookRecords, total)
}

func (s *OrchestratorTestSuite) TestGetRecord() {
	rec := &content.Record{ID: "rec_1", Name: "Épée longue", Type: content.RecordTypeWeapon}

	testCases := []struct {
		name      string
		input     *importer.GetRecordInput
		setupMock func()
		check     func(out *importer.GetRecordOutput, err error)
	}{
		{
			name:  "found",
			input: &importer.GetRecordInput{CollectionKey: "armes-epees", Name: "Épée longue"},
			setupMock: func() {
				s.mockRepo.EXPECT().
					Get(s.ctx, &contentrepo.GetInput{CollectionKey: "armes-epees", Name: "Épée longue"}).
					Return(&contentrepo.GetOutput{Record: rec}, nil)
			},
			check: func(out *importer.GetRecordOutput, err error) {
				s.Require().NoError(err)
				s.Equal(rec, out.Record)
			},
		},
		{
			name:  "not found keeps its code",
			input: &importer.GetRecordInput{CollectionKey: "armes-epees", Name: "Rapière"},
			setupMock: func() {
				s.mockRepo.EXPECT().
					Get(s.ctx, gomock.Any()).
					Return(nil, errors.NotFound("record not found"))
			},
			check: func(_ *importer.GetRecordOutput, err error) {
				s.True(errors.IsNotFound(err))
			},
		},
		{
			name:  "missing collection",
			input: &importer.GetRecordInput{Name: "Rapière"},
			check: func(_ *importer.GetRecordOutput, err error) {
				s.True(errors.IsInvalidArgument(err))
			},
		},
		{
			name:  "missing name",
			input: &importer.GetRecordInput{CollectionKey: "armes-epees"},
			check: func(_ *importer.GetRecordOutput, err error) {
				s.True(errors.IsInvalidArgument(err))
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			if tc.setupMock != nil {
				tc.setupMock()
			}
			out, err := s.orchestrator.GetRecord(s.ctx, tc.input)
			tc.check(out, err)
		})
	}
}

func (s *OrchestratorTestSuite) TestListRecords() {
	s.mockRepo.EXPECT().
		List(s.ctx, &contentrepo.ListInput{CollectionKey: "traits"}).
		Return(&contentrepo.ListOutput{Records: []*content.Record{{Name: "Don de Sang"}}}, nil)

	out, err := s.orchestrator.ListRecords(s.ctx, &importer.ListRecordsInput{CollectionKey: "traits"})
	s.Require().NoError(err)
	s.Len(out.Records, 1)

	_, err = s.orchestrator.ListRecords(s.ctx, &importer.ListRecordsInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestListCollectionsWrapsStoreError() {
	s.mockRepo.EXPECT().
		ListCollections(s.ctx, gomock.Any()).
		Return(nil, errors.Unavailable("store is down"))

	_, err := s.orchestrator.ListCollections(s.ctx, &importer.ListCollectionsInput{})
	s.Require().Error(err)
	s.True(errors.IsUnavailable(err))
}

// Reimporting the same text against a real store replaces every record
func TestImportTwiceReplaces(t *testing.T) {
	ctx := context.Background()
	repo := contentrepo.NewInMemory(nil)

	orch, err := importer.NewOrchestrator(&importer.Config{Repository: repo})
	if err != nil {
		t.Fatal(err)
	}

	for range 2 {
		if _, err := orch.Import(ctx, &importer.ImportInput{Text: testutils.RulebookText}); err != nil {
			t.Fatal(err)
		}
	}

	cols, err := orch.ListCollections(ctx, &importer.ListCollectionsInput{})
	if err != nil {
		t.Fatal(err)
	}
	if len(cols.Collections) != 6 {
		t.Fatalf("expected 6 collections, got %d", len(cols.Collections))
	}

	total := 0
	for _, c := range cols.Collections {
		list, err := orch.ListRecords(ctx, &importer.ListRecordsInput{CollectionKey: c.Key})
		if err != nil {
			t.Fatal(err)
		}
		total += len(list.Records)
	}
	if total != rulebookRecords {
		t.Fatalf("expected %d records after reimport, got %d", rulebookRecords, total)
	}

	got, err := orch.GetRecord(ctx, &importer.GetRecordInput{CollectionKey: "armes-epees", Name: "Épée longue"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Record.System.Hands != 2 {
		t.Fatalf("expected a two-handed weapon, got %d", got.Record.System.Hands)
	}
}
