package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const reverseJS = `function reverse(str) {
  let out = "";
  for (let i = str.length - 1; i >= 0; i--) {
    out += str[i];
  }
  return out;
}`

func TestSimilarity_IdenticalCodeScoresOne(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity(reverseJS, reverseJS), 1e-9)
}

func TestSimilarity_EmptySubmissionScoresZero(t *testing.T) {
	assert.Equal(t, 0.0, Similarity("", reverseJS))
	assert.Equal(t, 0.0, Similarity("   \n", reverseJS))
}

func TestSimilarity_RenamedVariableStillPasses(t *testing.T) {
	renamed := `function reverse(str) {
  let result = "";
  for (let i = str.length - 1; i >= 0; i--) {
    result += str[i];
  }
  return result;
}`
	assert.GreaterOrEqual(t, Similarity(renamed, reverseJS), SimilarityThreshold)
}

func TestSimilarity_UnrelatedCodeFails(t *testing.T) {
	unrelated := `class Stack:
    pass`
	score := Similarity(unrelated, reverseJS)
	assert.Less(t, score, SimilarityThreshold)
	assert.GreaterOrEqual(t, score, 0.0)
}

func TestJaccard(t *testing.T) {
	assert.Equal(t, 1.0, jaccard(toSet(), toSet()))
	assert.Equal(t, 0.0, jaccard(toSet("a"), toSet()))
	assert.InDelta(t, 1.0/3.0, jaccard(toSet("a", "b"), toSet("b", "c")), 1e-9)
}
