package review

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPostAttemptReviewRoundTrip(t *testing.T) {
	a := PostAttempt{
		Shop:         "acme.myshopify.com",
		ReviewID:     "r1",
		Rating:       5,
		ReviewText:   "Great stuff",
		ReviewerName: "Kim",
		ProductTitle: "Mug",
		Status:       StatusFailed,
	}

	rev := a.Review()
	require.Equal(t, "r1", rev.ID)
	require.Equal(t, 5, rev.Rating)
	require.Equal(t, "Great stuff", rev.Body)
	require.Equal(t, "Kim", rev.ReviewerName)
	require.Equal(t, "Mug", rev.ProductTitle)
	require.Equal(t, "acme.myshopify.com", rev.Shop)
}

func TestTruncateText(t *testing.T) {
	require.Equal(t, "short", TruncateText("short"))

	long := strings.Repeat("é", MaxStoredTextLen+100)
	truncated := TruncateText(long)
	require.Equal(t, MaxStoredTextLen, len([]rune(truncated)))
}
