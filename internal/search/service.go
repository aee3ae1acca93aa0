package search

import (
	"context"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Service implements interfaces.SearchService by ranking the current post
// collection. Loading and ranking stay decoupled: the Ranker is usable on
// any post slice, the Service binds it to a PostService.
type Service struct {
	posts  interfaces.PostService
	ranker *Ranker
}

var _ interfaces.SearchService = (*Service)(nil)

// NewService binds a ranker to a post source.
func NewService(posts interfaces.PostService, ranker *Ranker) *Service {
	if ranker == nil {
		ranker = NewRanker()
	}
	return &Service{posts: posts, ranker: ranker}
}

// Search loads the collection and ranks it against query. Load failures
// propagate; an empty query returns an empty slice without loading.
func (s *Service) Search(ctx context.Context, query string) ([]interfaces.Post, error) {
	loaded, err := s.posts.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.ranker.Search(ctx, loaded, query), nil
}

// Invalidate drops cached query results. Call alongside the post cache
// invalidation after writes.
func (s *Service) Invalidate(ctx context.Context) {
	s.ranker.InvalidateCache(ctx)
}
