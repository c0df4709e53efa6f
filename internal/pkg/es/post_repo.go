package es

import (
	"context"
	"errors"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/conflicts"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
	"github.com/goccy/go-json"
)

const MaxSearchDepth = 400

type PostRepo interface {
	SearchPosts(ctx context.Context, keyword string, communityID string, from, size int) ([]*PostES, error)
	GetLatestPosts(ctx context.Context, from, size int) ([]*PostES, error)
	GetPostById(ctx context.Context, id string) (*PostES, error)
	IndexPost(ctx context.Context, post *PostES, version int64) error
	DeletePost(ctx context.Context, id string) error
	SetPostHidden(ctx context.Context, id string, hidden bool) error
	UpdatePostAuthorName(ctx context.Context, authorID uint64, newName string) error
}

type PostRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewPostRepo(client *elasticsearch.TypedClient) PostRepo {
	return &PostRepoImpl{client: client}
}

// SearchPosts 全文检索可见帖子，可选限定社区
func (s *PostRepoImpl) SearchPosts(ctx context.Context, keyword string, communityID string, from, size int) ([]*PostES, error) {
	if from >= MaxSearchDepth {
		return []*PostES{}, nil
	}

	boolQuery := &types.BoolQuery{
		Must: []types.Query{{
			MultiMatch: &types.MultiMatchQuery{
				Query:  keyword,
				Fields: []string{"content^2", "author_name", "community_name"},
			},
		}},
		Filter: []types.Query{{
			Term: map[string]types.TermQuery{
				"hidden": {Value: false},
			},
		}},
	}

	if communityID != "" {
		boolQuery.Filter = append(boolQuery.Filter, types.Query{
			Term: map[string]types.TermQuery{
				"community_id": {Value: communityID},
			},
		})
	}

	searchReq := s.client.Search().
		Index(PostIndex).
		Query(&types.Query{Bool: boolQuery}).
		From(from).
		Size(size)

	return s.executeSearch(ctx, searchReq)
}

func (s *PostRepoImpl) GetLatestPosts(ctx context.Context, from, size int) ([]*PostES, error) {
	searchReq := s.client.Search().
		Index(PostIndex).
		Query(&types.Query{
			Term: map[string]types.TermQuery{
				"hidden": {Value: false},
			},
		}).
		Sort(types.SortOptions{SortOptions: map[string]types.FieldSort{
			"created_at": {Order: &sortorder.Desc},
		}}).
		From(from).
		Size(size)

	return s.executeSearch(ctx, searchReq)
}

func (s *PostRepoImpl) GetPostById(ctx context.Context, id string) (*PostES, error) {
	result, err := s.client.Get(PostIndex, id).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil, nil
			}
		}
		return nil, err
	}
	if result.Source_ == nil {
		return nil, nil
	}
	var post PostES
	if err = json.Unmarshal(result.Source_, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *PostRepoImpl) IndexPost(ctx context.Context, post *PostES, version int64) error {
	_, err := s.client.Index(PostIndex).
		Id(post.ID).
		Document(post).
		Version(fmt.Sprintf("%d", version)).
		VersionType(versiontype.External).
		Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == ConflictCode {
				return nil
			}
		}
		return err
	}

	return nil
}

func (s *PostRepoImpl) DeletePost(ctx context.Context, id string) error {
	_, err := s.client.Delete(PostIndex, id).Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil
			}
		}
		return err
	}

	return nil
}

// SetPostHidden 审核动作同步到索引，立即影响搜索可见性
func (s *PostRepoImpl) SetPostHidden(ctx context.Context, id string, hidden bool) error {
	hiddenJSON, _ := json.Marshal(hidden)

	params := map[string]json.RawMessage{
		"hidden": json.RawMessage(hiddenJSON),
	}

	scriptSource := "ctx._source.hidden = params.hidden;"

	req := s.client.UpdateByQuery(PostIndex).
		Query(&types.Query{
			Term: map[string]types.TermQuery{
				"_id": {Value: id},
			},
		}).
		Script(&types.Script{
			Source: &scriptSource,
			Params: params,
		}).
		Conflicts(conflicts.Proceed)

	resp, err := req.Do(ctx)
	if err != nil {
		return errors.New(fmt.Sprintf("Post Index: Set Hidden Failed: %s", err.Error()))
	}

	if len(resp.Failures) != 0 {
		return errors.New(fmt.Sprintf("Post Index: Set Hidden Has Failures, count: %d", len(resp.Failures)))
	}

	return nil
}

func (s *PostRepoImpl) UpdatePostAuthorName(ctx context.Context, authorID uint64, newName string) error {
	nameJSON, _ := json.Marshal(newName)

	params := map[string]json.RawMessage{
		"new_name": json.RawMessage(nameJSON),
	}

	scriptSource := "ctx._source.author_name = params.new_name;"

	req := s.client.UpdateByQuery(PostIndex).
		Query(&types.Query{
			Term: map[string]types.TermQuery{
				"author_id": {Value: authorID},
			},
		}).
		Script(&types.Script{
			Source: &scriptSource,
			Params: params,
		}).
		Conflicts(conflicts.Proceed)

	resp, err := req.Do(ctx)
	if err != nil {
		return errors.New(fmt.Sprintf("Post Index: Update Author Name Failed: %s", err.Error()))
	}

	if len(resp.Failures) != 0 {
		return errors.New(fmt.Sprintf("Post Index: Update Author Name Has Failures, count: %d", len(resp.Failures)))
	}

	return nil
}

func (s *PostRepoImpl) executeSearch(ctx context.Context, req *search.Search) ([]*PostES, error) {
	resp, err := req.Do(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*PostES, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		var post PostES
		if hit.Source_ == nil {
			continue
		}
		if err = json.Unmarshal(hit.Source_, &post); err != nil {
			continue
		}
		if len(hit.Sort) > 0 {
			post.Sort = make([]interface{}, len(hit.Sort))
			for i, v := range hit.Sort {
				post.Sort[i] = v
			}
		}
		results = append(results, &post)
	}
	return results, nil
}
