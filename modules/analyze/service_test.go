package analyze

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"facelab-server/modules/common/apperr"
	"facelab-server/modules/common/model"
)

const sampleAnalysisJSON = `{
	"faceShape": "oval",
	"symmetryScore": 82.5,
	"youthfulnessScore": 74,
	"skinClarity": 88,
	"overallAnalysis": "Well balanced features.",
	"eyeShape": "almond",
	"jawlineDefinitionScore": 70,
	"cheekboneProminenceScore": 65,
	"lipFullnessScore": 60,
	"skinEvennessScore": 85,
	"goldenRatioScore": 78,
	"emotionalExpression": "neutral",
	"perceivedAge": 29
}`

func TestParseAnalysis(t *testing.T) {
	result, err := parseAnalysis(sampleAnalysisJSON)
	require.NoError(t, err)
	assert.Equal(t, "oval", result.FaceShape)
	assert.Equal(t, 82.5, result.SymmetryScore)
	assert.Equal(t, 29, result.PerceivedAge)
}

func TestParseAnalysisStripsCodeFence(t *testing.T) {
	fenced := "```json\n" + sampleAnalysisJSON + "\n```"

	result, err := parseAnalysis(fenced)
	require.NoError(t, err)
	assert.Equal(t, "almond", result.EyeShape)
}

func TestParseAnalysisInvalidJSON(t *testing.T) {
	_, err := parseAnalysis("not json at all")

	var genErr *apperr.GenerationError
	assert.ErrorAs(t, err, &genErr)
}

type fakeStorage struct {
	downloadErr  error
	releaseCount int
}

func (f *fakeStorage) Download(ctx context.Context, path string) ([]byte, string, error) {
	if f.downloadErr != nil {
		return nil, "", f.downloadErr
	}
	return []byte("image-bytes"), "image/jpeg", nil
}

func (f *fakeStorage) Release(path string) { f.releaseCount++ }

type fakeDatabase struct {
	profile    *model.UserProfile
	insertions []string
	completed  []int64
}

func (f *fakeDatabase) FetchUserProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	return f.profile, nil
}

func (f *fakeDatabase) InsertGeneration(ctx context.Context, userID, toolID, imageURL, imageURLHQ string) (int64, error) {
	f.insertions = append(f.insertions, toolID)
	return 1, nil
}

func (f *fakeDatabase) MarkGenerationComplete(ctx context.Context, generationID int64) error {
	f.completed = append(f.completed, generationID)
	return nil
}

type fakeGate struct {
	creditsErr  error
	settleCount int
}

func (f *fakeGate) CheckCredits(profile *model.UserProfile) error { return f.creditsErr }

func (f *fakeGate) Settle(ctx context.Context, userID, toolID string) (int, error) {
	f.settleCount++
	return 2, nil
}

type fakeAnalyzer struct {
	response string
	err      error
	calls    int
}

func (f *fakeAnalyzer) GenerateJSON(ctx context.Context, imageData []byte, mimeType, instruction string, schema *genai.Schema) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestAnalyzeSuccess(t *testing.T) {
	storage := &fakeStorage{}
	db := &fakeDatabase{profile: &model.UserProfile{ID: "user-1", Credits: 3}}
	gate := &fakeGate{}
	analyzer := &fakeAnalyzer{response: sampleAnalysisJSON}

	service := NewService(storage, db, gate, analyzer)

	result, err := service.Analyze(context.Background(), "user-1", "user-1/123.jpeg")
	require.NoError(t, err)

	assert.Equal(t, "oval", result.FaceShape)
	assert.Equal(t, 1, storage.releaseCount)
	assert.Equal(t, []string{"analysis"}, db.insertions)
	assert.Equal(t, 1, gate.settleCount)
	assert.Equal(t, []int64{1}, db.completed)
}

func TestAnalyzeInsufficientCreditsShortCircuits(t *testing.T) {
	storage := &fakeStorage{}
	db := &fakeDatabase{profile: &model.UserProfile{ID: "user-1", Credits: 0}}
	gate := &fakeGate{creditsErr: apperr.ErrInsufficientCredits}
	analyzer := &fakeAnalyzer{response: sampleAnalysisJSON}

	service := NewService(storage, db, gate, analyzer)

	_, err := service.Analyze(context.Background(), "user-1", "user-1/123.jpeg")
	assert.ErrorIs(t, err, apperr.ErrInsufficientCredits)

	assert.Equal(t, 0, analyzer.calls)
	assert.Equal(t, 0, gate.settleCount)
	assert.Equal(t, 1, storage.releaseCount)
}

func TestAnalyzeModelFailureReleasesTemp(t *testing.T) {
	storage := &fakeStorage{}
	db := &fakeDatabase{profile: &model.UserProfile{ID: "user-1", Credits: 3}}
	gate := &fakeGate{}
	analyzer := &fakeAnalyzer{err: apperr.GenerationFailed("blocked")}

	service := NewService(storage, db, gate, analyzer)

	_, err := service.Analyze(context.Background(), "user-1", "user-1/123.jpeg")
	require.Error(t, err)

	assert.Equal(t, 1, storage.releaseCount)
	assert.Equal(t, 0, gate.settleCount)
	assert.Empty(t, db.insertions)
}
