package content_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	entities "github.com/KirkDiggler/lorelegacy/internal/entities/content"
	"github.com/KirkDiggler/lorelegacy/internal/errors"
	"github.com/KirkDiggler/lorelegacy/internal/pkg/clock"
	"github.com/KirkDiggler/lorelegacy/internal/pkg/idgen"
	"github.com/KirkDiggler/lorelegacy/internal/repositories/content"
	"github.com/KirkDiggler/lorelegacy/internal/testutils"
)

var testNow = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

var (
	daggers = entities.Collection{Key: "armes-dagues", Label: "Armes-Dagues", Folder: "L&L - Armes"}
	traits  = entities.Collection{Key: "traits", Label: "Traits", Folder: "L&L - Divers"}
)

// repoFactory builds a fresh repository and its cleanup for one test
type repoFactory func(s *RepositoryTestSuite, ids idgen.Generator, clk clock.Clock) (content.Repository, func())

// RepositoryTestSuite runs the same behavior checks against every backend
type RepositoryTestSuite struct {
	suite.Suite
	factory repoFactory
	ctx     context.Context
	repo    content.Repository
	cleanup func()
}

func TestInMemoryRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		factory: func(_ *RepositoryTestSuite, ids idgen.Generator, clk clock.Clock) (content.Repository, func()) {
			return content.NewInMemory(&content.InMemoryConfig{IDGenerator: ids, Clock: clk}), func() {}
		},
	})
}

func TestRedisRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		factory: func(s *RepositoryTestSuite, ids idgen.Generator, clk clock.Clock) (content.Repository, func()) {
			client, _, cleanup := testutils.NewRedisStore(s.T())
			repo, err := content.NewRedis(&content.RedisConfig{
				Client:      client,
				IDGenerator: ids,
				Clock:       clk,
			})
			s.Require().NoError(err)
			return repo, cleanup
		},
	})
}

func TestSQLiteRepository(t *testing.T) {
	suite.Run(t, &RepositoryTestSuite{
		factory: func(s *RepositoryTestSuite, ids idgen.Generator, clk clock.Clock) (content.Repository, func()) {
			repo, err := content.OpenSQLite(context.Background(), &content.SQLiteConfig{
				Path:        filepath.Join(s.T().TempDir(), "content.db"),
				IDGenerator: ids,
				Clock:       clk,
			})
			s.Require().NoError(err)
			return repo, func() { _ = repo.Close() }
		},
	})
}

func (s *RepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.repo, s.cleanup = s.factory(s, idgen.NewSequential("rec"), clock.Fixed{At: testNow})
}

func (s *RepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func weapon(name, description string) *entities.Record {
	return &entities.Record{
		Name: name,
		Type: entities.RecordTypeWeapon,
		Img:  "icons/svg/sword.svg",
		System: entities.System{
			Description: description,
			DamageCode:  "1d4",
			Weight:      0.5,
			Hands:       1,
		},
	}
}

func (s *RepositoryTestSuite) put(c entities.Collection, rec *entities.Record) *content.CreateOrReplaceOutput {
	out, err := s.repo.CreateOrReplace(s.ctx, &content.CreateOrReplaceInput{Collection: c, Record: rec})
	s.Require().NoError(err)
	return out
}

func (s *RepositoryTestSuite) TestCreateThenGet() {
	out := s.put(daggers, weapon("Dague", "<section></section>"))

	s.False(out.Replaced)
	s.Equal("rec_1", out.Record.ID)
	s.True(out.Record.UpdatedAt.Equal(testNow))

	got, err := s.repo.Get(s.ctx, &content.GetInput{CollectionKey: daggers.Key, Name: "Dague"})
	s.Require().NoError(err)
	s.Equal("rec_1", got.Record.ID)
	s.Equal("Dague", got.Record.Name)
	s.Equal(entities.RecordTypeWeapon, got.Record.Type)
	s.Equal("icons/svg/sword.svg", got.Record.Img)
	s.Equal("1d4", got.Record.System.DamageCode)
	s.Equal(0.5, got.Record.System.Weight)
	s.Equal(1, got.Record.System.Hands)
	s.True(got.Record.UpdatedAt.Equal(testNow))
}

func (s *RepositoryTestSuite) TestCreateDoesNotMutateInput() {
	rec := weapon("Dague", "")

	s.put(daggers, rec)

	s.Empty(rec.ID)
	s.True(rec.UpdatedAt.IsZero())
}

func (s *RepositoryTestSuite) TestReplaceByExactName() {
	s.put(daggers, weapon("Dague", "ancienne"))
	out := s.put(daggers, weapon("Dague", "nouvelle"))

	s.True(out.Replaced)
	s.Equal("rec_2", out.Record.ID)

	list, err := s.repo.List(s.ctx, &content.ListInput{CollectionKey: daggers.Key})
	s.Require().NoError(err)
	s.Require().Len(list.Records, 1)
	s.Equal("nouvelle", list.Records[0].System.Description)
	s.Equal("rec_2", list.Records[0].ID)
}

func (s *RepositoryTestSuite) TestReplacementIsCaseSensitive() {
	s.put(daggers, weapon("Dague", ""))
	out := s.put(daggers, weapon("dague", ""))

	s.False(out.Replaced)

	list, err := s.repo.List(s.ctx, &content.ListInput{CollectionKey: daggers.Key})
	s.Require().NoError(err)
	s.Require().Len(list.Records, 2)
	s.Equal("Dague", list.Records[0].Name)
	s.Equal("dague", list.Records[1].Name)
}

func (s *RepositoryTestSuite) TestCollectionsAreIndependent() {
	s.put(daggers, weapon("Dague", "arme"))
	out := s.put(traits, &entities.Record{Name: "Dague", Type: entities.RecordTypeTrait})

	s.False(out.Replaced)

	got, err := s.repo.Get(s.ctx, &content.GetInput{CollectionKey: daggers.Key, Name: "Dague"})
	s.Require().NoError(err)
	s.Equal(entities.RecordTypeWeapon, got.Record.Type)
}

func (s *RepositoryTestSuite) TestListIsOrderedByName() {
	for _, name := range []string{"Stylet", "Dague", "Poignard"} {
		s.put(daggers, weapon(name, ""))
	}

	list, err := s.repo.List(s.ctx, &content.ListInput{CollectionKey: daggers.Key})

	s.Require().NoError(err)
	s.Require().Len(list.Records, 3)
	s.Equal("Dague", list.Records[0].Name)
	s.Equal("Poignard", list.Records[1].Name)
	s.Equal("Stylet", list.Records[2].Name)
}

func (s *RepositoryTestSuite) TestListCollections() {
	empty, err := s.repo.ListCollections(s.ctx, &content.ListCollectionsInput{})
	s.Require().NoError(err)
	s.Empty(empty.Collections)

	s.put(traits, &entities.Record{Name: "Don de Sang", Type: entities.RecordTypeTrait})
	s.put(daggers, weapon("Dague", ""))
	relabeled := daggers
	relabeled.Label = "Dagues"
	s.put(relabeled, weapon("Stylet", ""))

	out, err := s.repo.ListCollections(s.ctx, &content.ListCollectionsInput{})

	s.Require().NoError(err)
	s.Equal([]entities.Collection{relabeled, traits}, out.Collections)
}

func (s *RepositoryTestSuite) TestTriangleRoundTrip() {
	skill := &entities.Record{
		Name: "Escalade",
		Type: entities.RecordTypeSkill,
		System: entities.System{
			Triangle:   entities.NewTriangle(),
			SkillLevel: 1,
			Formula:    "@skillLevel",
		},
	}
	s.put(entities.Collection{Key: "capacites-corps"}, skill)

	got, err := s.repo.Get(s.ctx, &content.GetInput{CollectionKey: "capacites-corps", Name: "Escalade"})

	s.Require().NoError(err)
	s.Require().NotNil(got.Record.System.Triangle)
	s.Equal(entities.TriangleUnchecked, got.Record.System.CFortune)
	s.Equal(0, got.Record.System.NAdversite)
	s.Equal("@skillLevel", got.Record.System.Formula)
}

func (s *RepositoryTestSuite) TestDelete() {
	s.put(daggers, weapon("Dague", ""))

	_, err := s.repo.Delete(s.ctx, &content.DeleteInput{CollectionKey: daggers.Key, Name: "Dague"})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, &content.GetInput{CollectionKey: daggers.Key, Name: "Dague"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Delete(s.ctx, &content.DeleteInput{CollectionKey: daggers.Key, Name: "Dague"})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestNotFound() {
	_, err := s.repo.Get(s.ctx, &content.GetInput{CollectionKey: "armes-arcs", Name: "Arc long"})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.List(s.ctx, &content.ListInput{CollectionKey: "armes-arcs"})
	s.True(errors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestValidation() {
	testCases := []struct {
		name  string
		input *content.CreateOrReplaceInput
	}{
		{"nil input", nil},
		{"missing collection", &content.CreateOrReplaceInput{Record: weapon("Dague", "")}},
		{"missing record", &content.CreateOrReplaceInput{Collection: daggers}},
		{"missing name", &content.CreateOrReplaceInput{Collection: daggers, Record: weapon(" ", "")}},
		{"unknown type", &content.CreateOrReplaceInput{
			Collection: daggers,
			Record:     &entities.Record{Name: "Potion", Type: "potion"},
		}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.repo.CreateOrReplace(s.ctx, tc.input)
			s.True(errors.IsInvalidArgument(err), "got %v", err)
		})
	}

	_, err := s.repo.Get(s.ctx, &content.GetInput{CollectionKey: daggers.Key})
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.List(s.ctx, nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = s.repo.Delete(s.ctx, &content.DeleteInput{Name: "Dague"})
	s.True(errors.IsInvalidArgument(err))
}

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) TestNewRedis() {
	testCases := []struct {
		name   string
		config *content.RedisConfig
		errMsg string
	}{
		{"nil config", nil, "config cannot be nil"},
		{"nil client", &content.RedisConfig{}, "client cannot be nil"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			repo, err := content.NewRedis(tc.config)
			s.Require().Error(err)
			s.Contains(err.Error(), tc.errMsg)
			s.Nil(repo)
		})
	}
}

func (s *ConfigTestSuite) TestOpenSQLiteRequiresPath() {
	_, err := content.OpenSQLite(context.Background(), &content.SQLiteConfig{})
	s.True(errors.IsInvalidArgument(err))

	_, err = content.OpenSQLite(context.Background(), nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ConfigTestSuite) TestRedisKeyLayout() {
	client, mr, cleanup := testutils.NewRedisStore(s.T())
	defer cleanup()

	repo, err := content.NewRedis(&content.RedisConfig{
		Client:      client,
		IDGenerator: idgen.NewSequential("rec"),
		Clock:       clock.Fixed{At: testNow},
	})
	s.Require().NoError(err)

	_, err = repo.CreateOrReplace(context.Background(), &content.CreateOrReplaceInput{
		Collection: daggers,
		Record:     &entities.Record{Name: "Dague", Type: entities.RecordTypeWeapon},
	})
	s.Require().NoError(err)

	members, err := mr.Members("content:collections")
	s.Require().NoError(err)
	s.Equal([]string{"armes-dagues"}, members)
	s.Equal("Armes-Dagues", mr.HGet(content.CollectionKey("armes-dagues"), "label"))
	fields, err := mr.HKeys(content.RecordsKey("armes-dagues"))
	s.Require().NoError(err)
	s.Equal([]string{"Dague"}, fields)
}
