package resolver

import (
	"context"
	"errors"

	"github.com/raitonoberu/ytsearch"
)

// ytSearcher resolves free-text queries to the first matching video.
type ytSearcher struct{}

func (s *ytSearcher) FirstVideoURL(_ context.Context, query string) (string, error) {
	search := ytsearch.VideoSearch(query)
	results, err := search.Next()
	if err != nil {
		return "", err
	}
	if len(results.Videos) == 0 {
		return "", errors.New("no search results for query")
	}
	return "https://www.youtube.com/watch?v=" + results.Videos[0].ID, nil
}
