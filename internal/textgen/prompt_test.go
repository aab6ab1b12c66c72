package textgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(GenerationRequest{
		CompanyName: "Boulangerie Martin",
		Sector:      "Boulangerie",
		City:        "Lyon",
		Tone:        "professional",
		Quantity:    3,
		Notes:       "croissants au beurre",
	})

	assert.Contains(t, prompt, "Write 3 distinct")
	assert.Contains(t, prompt, `"Boulangerie Martin"`)
	assert.Contains(t, prompt, "Lyon")
	assert.Contains(t, prompt, "Language: fr")
	assert.Contains(t, prompt, "factual and professional")
	assert.Contains(t, prompt, "croissants au beurre")
}

func TestParseReviews_FencedArray(t *testing.T) {
	raw := "```json\n[{\"author_name\":\"Marie\",\"rating\":9,\"content\":\"Super accueil\"},{\"author_name\":\"\",\"rating\":0,\"content\":\"Très bon pain\"},{\"author_name\":\"X\",\"rating\":5,\"content\":\"  \"}]\n```"

	reviews, err := ParseReviews(raw, 0)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, 5, reviews[0].Rating)
	assert.Equal(t, "Client", reviews[1].AuthorName)
	assert.Equal(t, 1, reviews[1].Rating)
}

func TestParseReviews_WrappedAndTruncated(t *testing.T) {
	raw := `{"reviews":[{"author_name":"A","rating":5,"content":"one"},{"author_name":"B","rating":4,"content":"two"},{"author_name":"C","rating":4,"content":"three"}]}`

	reviews, err := ParseReviews(raw, 2)
	require.NoError(t, err)
	assert.Len(t, reviews, 2)
}

func TestParseReviews_Errors(t *testing.T) {
	_, err := ParseReviews("not json", 1)
	assert.ErrorIs(t, err, ErrMalformedReply)

	_, err = ParseReviews("[]", 1)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestParseReviews_LongContentIsCut(t *testing.T) {
	raw := `[{"author_name":"A","rating":5,"content":"` + strings.Repeat("é", maxReviewLength+50) + `"}]`

	reviews, err := ParseReviews(raw, 1)
	require.NoError(t, err)
	assert.Equal(t, maxReviewLength, len([]rune(reviews[0].Content)))
}
