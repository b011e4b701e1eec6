package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/interfaces"
	"github.com/smarthealth-ai/healthdesk/pkg/domain/model"
)

// DefaultTopK is the initial number of cases requested
const DefaultTopK = "3"

// SimilarCasesView searches prior cases similar to a symptom query
type SimilarCasesView struct {
	api interfaces.HealthAPI

	mu    sync.Mutex
	query string
	topK  string

	sub Submission[*model.SearchResults]
}

// NewSimilarCasesView creates the view with the default top-K
func NewSimilarCasesView(api interfaces.HealthAPI) *SimilarCasesView {
	return &SimilarCasesView{api: api, topK: DefaultTopK}
}

// SetQuery replaces the query text
func (v *SimilarCasesView) SetQuery(query string) {
	v.mu.Lock()
	v.query = query
	v.mu.Unlock()
	v.sub.Edit()
}

// SetTopK replaces the top-K input. It is parsed only on submit.
func (v *SimilarCasesView) SetTopK(topK string) {
	v.mu.Lock()
	v.topK = topK
	v.mu.Unlock()
	v.sub.Edit()
}

// Inputs returns the query and top-K as typed
func (v *SimilarCasesView) Inputs() (string, string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.query, v.topK
}

// Submit validates the inputs and searches
func (v *SimilarCasesView) Submit(ctx context.Context) (*model.SearchResults, error) {
	rawQuery, rawTopK := v.Inputs()

	query := strings.TrimSpace(rawQuery)
	if query == "" {
		return nil, v.sub.Reject(model.NewValidationFailure("Please enter a symptom query"))
	}

	topK, err := model.ParseOptionalInt("top_k", rawTopK)
	if err != nil {
		return nil, v.sub.Reject(err)
	}
	if topK == nil || *topK < 1 {
		return nil, v.sub.Reject(goerr.Wrap(model.NewValidationFailure("Top K must be at least 1"),
			"invalid top_k", goerr.V(TopKKey, rawTopK)))
	}
	k := *topK

	return v.sub.Run(ctx, func(ctx context.Context) (*model.SearchResults, error) {
		cases, err := v.api.SearchCases(ctx, query, k)
		if err != nil {
			return nil, err
		}
		return &model.SearchResults{Query: query, TopK: k, Cases: cases}, nil
	})
}

// Retry repeats a failed search
func (v *SimilarCasesView) Retry(ctx context.Context) (*model.SearchResults, error) {
	return v.sub.Retry(ctx)
}

// State returns the submission state
func (v *SimilarCasesView) State() SubmissionSnapshot[*model.SearchResults] {
	return v.sub.Snapshot()
}

// Close detaches the view
func (v *SimilarCasesView) Close() {
	v.sub.Detach()
}
