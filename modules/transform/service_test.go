package transform

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facelab-server/modules/common/apperr"
	"facelab-server/modules/common/credit"
	"facelab-server/modules/common/model"
)

type fakeStorage struct {
	downloadErr  error
	hqErr        error
	optimizedErr error

	releaseCount   int
	releasedPaths  []string
	hqUploads      []string
	optimizedPaths []string
}

func (f *fakeStorage) Download(ctx context.Context, path string) ([]byte, string, error) {
	if f.downloadErr != nil {
		return nil, "", f.downloadErr
	}
	return []byte("original-bytes"), "image/png", nil
}

func (f *fakeStorage) Release(path string) {
	f.releaseCount++
	f.releasedPaths = append(f.releasedPaths, path)
}

func (f *fakeStorage) UploadHQ(ctx context.Context, path string, pngData []byte) error {
	if f.hqErr != nil {
		return f.hqErr
	}
	f.hqUploads = append(f.hqUploads, path)
	return nil
}

func (f *fakeStorage) UploadOptimized(ctx context.Context, path string, webpData []byte) error {
	if f.optimizedErr != nil {
		return f.optimizedErr
	}
	f.optimizedPaths = append(f.optimizedPaths, path)
	return nil
}

func (f *fakeStorage) PublicURL(path string) string {
	return "https://storage.example.com/generations/" + path
}

type fakeDatabase struct {
	profile   *model.UserProfile
	insertErr error

	generations []model.Generation
	nextGenID   int64
	completed   []int64
}

func (f *fakeDatabase) FetchUserProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	if f.profile == nil {
		return nil, errors.New("user not found")
	}
	return f.profile, nil
}

func (f *fakeDatabase) InsertGeneration(ctx context.Context, userID, toolID, imageURL, imageURLHQ string) (int64, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.nextGenID++
	f.generations = append(f.generations, model.Generation{
		ID: f.nextGenID, UserID: userID, ToolID: toolID,
		ImageURL: imageURL, ImageURLHQ: imageURLHQ,
	})
	return f.nextGenID, nil
}

func (f *fakeDatabase) MarkGenerationComplete(ctx context.Context, generationID int64) error {
	f.completed = append(f.completed, generationID)
	return nil
}

type fakeGate struct {
	creditsErr error
	tierErr    error
	settleErr  error
	balance    int

	settleCount int
}

func (f *fakeGate) CheckCredits(profile *model.UserProfile) error { return f.creditsErr }

func (f *fakeGate) CheckFeatureTier(ctx context.Context, toolID, styleName string, profile *model.UserProfile) error {
	return f.tierErr
}

func (f *fakeGate) Settle(ctx context.Context, userID, toolID string) (int, error) {
	if f.settleErr != nil {
		return 0, f.settleErr
	}
	f.settleCount++
	return f.balance, nil
}

type fakeGenerator struct {
	err   error
	calls int
}

func (f *fakeGenerator) EditImage(ctx context.Context, imageData []byte, mimeType, instruction string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("generated-png"), nil
}

type fakeLocker struct {
	err error
}

func (f *fakeLocker) Acquire(ctx context.Context, userID string) (func(), error) {
	if f.err != nil {
		return nil, f.err
	}
	return func() {}, nil
}

type fakeNotifier struct {
	completeCount int
	lowCount      int
	lowBalance    int
}

func (f *fakeNotifier) GenerationComplete(ctx context.Context, userID, toolName string) {
	f.completeCount++
}

func (f *fakeNotifier) LowCredits(ctx context.Context, userID string, balance int) {
	f.lowCount++
	f.lowBalance = balance
}

func passthroughOptimize(pngData []byte, quality float32) ([]byte, error) {
	return append([]byte("webp:"), pngData...), nil
}

type fixture struct {
	storage   *fakeStorage
	db        *fakeDatabase
	gate      *fakeGate
	generator *fakeGenerator
	locker    *fakeLocker
	notifier  *fakeNotifier
	service   *Service
}

func newFixture() *fixture {
	f := &fixture{
		storage:   &fakeStorage{},
		db:        &fakeDatabase{profile: &model.UserProfile{ID: "user-1", Credits: 10}},
		gate:      &fakeGate{balance: 9},
		generator: &fakeGenerator{},
		locker:    &fakeLocker{},
		notifier:  &fakeNotifier{},
	}
	f.service = NewService(f.storage, f.db, f.gate, f.generator, f.locker, f.notifier,
		passthroughOptimize, 75, 5)
	return f
}

func TestProcessSuccess(t *testing.T) {
	f := newFixture()

	result, err := f.service.Process(context.Background(), "user-1", "age", "Age",
		"user-1/123.png", AgeParams{Age: 30})
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.GenerationID)
	assert.Equal(t, []byte("webp:generated-png"), result.OptimizedImage)

	// 임시 객체는 정확히 한 번 정리
	assert.Equal(t, 1, f.storage.releaseCount)
	assert.Equal(t, []string{"user-1/123.png"}, f.storage.releasedPaths)

	// HQ + 최적화 사본 모두 저장
	require.Len(t, f.storage.hqUploads, 1)
	require.Len(t, f.storage.optimizedPaths, 1)
	assert.Contains(t, f.storage.hqUploads[0], "user-1/age-")
	assert.Contains(t, f.storage.optimizedPaths[0], ".webp")

	// 생성 레코드는 최적화 공개 URL + HQ 경로를 가리킴
	require.Len(t, f.db.generations, 1)
	assert.Contains(t, f.db.generations[0].ImageURL, "https://storage.example.com/generations/")
	assert.Equal(t, f.storage.hqUploads[0], f.db.generations[0].ImageURLHQ)

	assert.Equal(t, 1, f.gate.settleCount)
	assert.Equal(t, 1, f.notifier.completeCount)

	// 정산 후 레코드 확정
	assert.Equal(t, []int64{1}, f.db.completed)
}

func TestProcessInsufficientCreditsShortCircuits(t *testing.T) {
	f := newFixture()
	f.gate.creditsErr = apperr.ErrInsufficientCredits

	_, err := f.service.Process(context.Background(), "user-1", "age", "Age",
		"user-1/123.png", AgeParams{Age: 30})
	assert.ErrorIs(t, err, apperr.ErrInsufficientCredits)

	// 모델 호출 전에 차단, 정산 없음, 임시 객체는 그래도 정리
	assert.Equal(t, 0, f.generator.calls)
	assert.Equal(t, 0, f.gate.settleCount)
	assert.Equal(t, 1, f.storage.releaseCount)
}

func TestProcessUpgradeRequiredShortCircuits(t *testing.T) {
	f := newFixture()
	f.gate.tierErr = apperr.ErrUpgradeRequired

	_, err := f.service.Process(context.Background(), "user-1", "hairstyle", "Hairstyle",
		"user-1/123.png", HairstyleParams{Style: "Pro Cut"})
	assert.ErrorIs(t, err, apperr.ErrUpgradeRequired)
	assert.Equal(t, 0, f.generator.calls)
	assert.Equal(t, 1, f.storage.releaseCount)
}

func TestProcessReleasesTempOnEveryFailure(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fixture)
	}{
		{"download fails", func(f *fixture) { f.storage.downloadErr = errors.New("boom") }},
		{"generation fails", func(f *fixture) { f.generator.err = apperr.GenerationFailed("blocked") }},
		{"hq upload fails", func(f *fixture) { f.storage.hqErr = errors.New("boom") }},
		{"optimized upload fails", func(f *fixture) { f.storage.optimizedErr = errors.New("boom") }},
		{"generation insert fails", func(f *fixture) { f.db.insertErr = errors.New("boom") }},
		{"settlement fails", func(f *fixture) { f.gate.settleErr = apperr.ErrInsufficientCredits }},
		{"lock busy", func(f *fixture) { f.locker.err = apperr.ErrGenerationBusy }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.setup(f)

			_, err := f.service.Process(context.Background(), "user-1", "age", "Age",
				"user-1/123.png", AgeParams{Age: 30})
			require.Error(t, err)
			assert.Equal(t, 1, f.storage.releaseCount, "temp object must be released exactly once")
		})
	}
}

func TestProcessGenerationFailureSkipsPersistenceAndSettlement(t *testing.T) {
	f := newFixture()
	f.generator.err = apperr.GenerationFailed("safety block")

	_, err := f.service.Process(context.Background(), "user-1", "smile", "Smile",
		"user-1/123.png", IntensityParams{ToolID: "smile", Intensity: 50})
	require.Error(t, err)

	var genErr *apperr.GenerationError
	assert.ErrorAs(t, err, &genErr)
	assert.Empty(t, f.db.generations)
	assert.Equal(t, 0, f.gate.settleCount)
	assert.Equal(t, 0, f.notifier.completeCount)
}

func TestProcessSettlementFailureLeavesGenerationPending(t *testing.T) {
	f := newFixture()
	f.gate.settleErr = apperr.ErrInsufficientCredits

	_, err := f.service.Process(context.Background(), "user-1", "age", "Age",
		"user-1/123.png", AgeParams{Age: 30})
	require.Error(t, err)

	// 레코드는 생성됐지만 확정되지 않음 - pending으로 감지 가능
	require.Len(t, f.db.generations, 1)
	assert.Empty(t, f.db.completed)
}

func TestProcessLowCreditNotification(t *testing.T) {
	f := newFixture()
	f.gate.balance = 3 // threshold 5 이하

	_, err := f.service.Process(context.Background(), "user-1", "age", "Age",
		"user-1/123.png", AgeParams{Age: 30})
	require.NoError(t, err)

	assert.Equal(t, 1, f.notifier.lowCount)
	assert.Equal(t, 3, f.notifier.lowBalance)
}

// 정산 경로 통합: 실제 credit.Gate + 가짜 settler로
// "3 크레딧 사용자 beard/Goatee → 잔액 2, usage 1행" 시나리오 검증.
type fakeSettler struct {
	balance int
	usage   []int
}

func (f *fakeSettler) DeductCredit(ctx context.Context, userID string) (int, error) {
	if f.balance < 1 {
		return 0, apperr.ErrInsufficientCredits
	}
	f.balance--
	return f.balance, nil
}

func (f *fakeSettler) InsertCreditUsage(ctx context.Context, userID, toolID string, creditsUsed int) error {
	f.usage = append(f.usage, creditsUsed)
	return nil
}

type emptyCatalog struct{}

func (emptyCatalog) FetchHairstyleByName(ctx context.Context, name string) (*model.Hairstyle, error) {
	return nil, nil
}

func TestProcessBeardEndToEnd(t *testing.T) {
	storage := &fakeStorage{}
	db := &fakeDatabase{profile: &model.UserProfile{ID: "user-1", Credits: 3}}
	generator := &fakeGenerator{}
	notifier := &fakeNotifier{}

	settler := &fakeSettler{balance: 3}
	gate := credit.NewGate(emptyCatalog{}, settler, nil)

	service := NewService(storage, db, gate, generator, &fakeLocker{}, notifier,
		passthroughOptimize, 75, 5)

	params, err := ParseParams("beard", RawParams{BeardStyle: "Goatee"})
	require.NoError(t, err)

	result, err := service.Process(context.Background(), "user-1", "beard", "Beard",
		"user-1/999.png", params)
	require.NoError(t, err)

	assert.Equal(t, int64(1), result.GenerationID)
	assert.Equal(t, 2, settler.balance)
	assert.Equal(t, []int{1}, settler.usage)
	assert.Equal(t, 1, storage.releaseCount)
	require.Len(t, db.generations, 1)
	assert.Equal(t, "beard", db.generations[0].ToolID)
}
