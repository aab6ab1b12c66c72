package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allCorrect() map[string]int {
	answers := map[string]int{}
	for _, q := range certificationQuiz {
		answers[q.ID] = q.answer
	}
	return answers
}

func TestGradeCertification_EightOfTenPasses(t *testing.T) {
	answers := allCorrect()
	answers["q1"] = (answers["q1"] + 1) % 3
	answers["q2"] = (answers["q2"] + 1) % 3

	res, err := GradeCertification(answers, 80)
	require.NoError(t, err)
	assert.Equal(t, 8, res.Correct)
	assert.Equal(t, 10, res.Total)
	assert.Equal(t, 80, res.Score)
	assert.True(t, res.Passed)
}

func TestGradeCertification_MissingAnswersAreWrong(t *testing.T) {
	answers := allCorrect()
	delete(answers, "q3")
	delete(answers, "q4")
	delete(answers, "q5")

	res, err := GradeCertification(answers, 80)
	require.NoError(t, err)
	assert.Equal(t, 70, res.Score)
	assert.False(t, res.Passed)
}

func TestGradeCertification_Idempotent(t *testing.T) {
	answers := map[string]int{"q1": 1, "q2": 0, "q3": 0, "q7": 1}
	first, err := GradeCertification(answers, 80)
	require.NoError(t, err)
	second, err := GradeCertification(answers, 80)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGradeCertification_UnknownQuestion(t *testing.T) {
	_, err := GradeCertification(map[string]int{"q42": 1}, 80)
	assert.ErrorIs(t, err, ErrUnknownQuestion)
}

func TestQuiz_HasTenQuestionsWithValidKeys(t *testing.T) {
	quiz := Quiz()
	require.Len(t, quiz, 10)
	for _, q := range certificationQuiz {
		assert.Less(t, q.answer, len(q.Options), q.ID)
	}
}
