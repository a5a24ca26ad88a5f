package httpengine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trsv-dev/zbxpoller/internal/models"
	"github.com/trsv-dev/zbxpoller/internal/ports"
	"github.com/trsv-dev/zbxpoller/internal/preparer"
)

type fakeCache struct {
	mu      sync.Mutex
	pending []models.Item
	fetched bool
	requeued []int64
}

func (f *fakeCache) FetchDue(_ context.Context, _ models.PollerType, _ time.Duration) ([]models.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetched {
		return nil, nil
	}
	f.fetched = true
	return f.pending, nil
}

func (f *fakeCache) NextCheck(_ context.Context, _ models.PollerType) (int64, error) { return 0, nil }

func (f *fakeCache) Requeue(_ context.Context, itemID int64, _ int64, _ models.ErrCode, _ models.PollerType) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requeued = append(f.requeued, itemID)
	return 0, nil
}

func (f *fakeCache) CleanItems(_ context.Context, _ []models.Item) error { return nil }

type fakePreprocessor struct {
	mu   sync.Mutex
	subs []ports.PreprocessValue
}

func (f *fakePreprocessor) Submit(_ context.Context, v ports.PreprocessValue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, v)
	return nil
}

func (f *fakePreprocessor) Flush(_ context.Context) error { return nil }

type fakeDriver struct {
	mu        sync.Mutex
	submitted []int64
	toDrain   []Completion
}

func (f *fakeDriver) Submit(_ context.Context, hc *models.HttpContext, item models.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, item.ItemID)
	f.toDrain = append(f.toDrain, Completion{ItemID: item.ItemID, Body: "ok", StatusCode: 200})
	return nil
}

func (f *fakeDriver) Drain() []Completion {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.toDrain
	f.toDrain = nil
	return out
}

type noopExpander struct{}

func (noopExpander) Expand(_ models.Item, _ ports.MacroScope, raw string) (string, error) {
	return raw, nil
}

func (noopExpander) ExpandMasked(_ models.Item, _ ports.MacroScope, raw string) (string, error) {
	return raw, nil
}

func TestEngine_AddItems_SubmitsPreparedItems(t *testing.T) {
	cache := &fakeCache{pending: []models.Item{
		{ItemID: 1, Type: models.HttpAgent, KeyOrig: "web.page.get", URLOrig: "http://example.com/"},
	}}
	driver := &fakeDriver{}
	pre := &fakePreprocessor{}

	e := &Engine{
		ConfigCache:  cache,
		Preparer:     preparer.Preparer{Expander: noopExpander{}},
		Preprocessor: pre,
		Driver:       driver,
	}

	e.addItems(context.Background())

	require.Len(t, driver.submitted, 1)
	assert.Equal(t, int64(1), driver.submitted[0])
}

func TestEngine_Drain_EmitsAndRequeues(t *testing.T) {
	cache := &fakeCache{}
	pre := &fakePreprocessor{}
	driver := &fakeDriver{toDrain: []Completion{{ItemID: 42, Body: "pong", StatusCode: 200}}}

	e := &Engine{ConfigCache: cache, Preprocessor: pre, Driver: driver}
	e.drain(context.Background())

	require.Len(t, pre.subs, 1)
	assert.Equal(t, int64(42), pre.subs[0].ItemID)
	assert.Equal(t, models.Success, pre.subs[0].ErrCode)
	require.Len(t, cache.requeued, 1)
	assert.Equal(t, int64(42), cache.requeued[0])
}

func TestEngine_Drain_FailureBecomesNotSupported(t *testing.T) {
	cache := &fakeCache{}
	pre := &fakePreprocessor{}
	driver := &fakeDriver{toDrain: []Completion{{ItemID: 7, Err: assertErr{}}}}

	e := &Engine{ConfigCache: cache, Preprocessor: pre, Driver: driver}
	e.drain(context.Background())

	require.Len(t, pre.subs, 1)
	assert.Equal(t, models.NotSupported, pre.subs[0].ErrCode)
	assert.Equal(t, models.StateNotSupported, pre.subs[0].State)
}

type assertErr struct{}

func (assertErr) Error() string { return "connection reset" }

func TestEngine_Drain_StatusCodeMismatchBecomesNotSupported(t *testing.T) {
	cache := &fakeCache{pending: []models.Item{
		{ItemID: 9, Type: models.HttpAgent, KeyOrig: "web.page.get", URLOrig: "http://example.com/", StatusCodesOrig: "200-299"},
	}}
	driver := &fakeDriver{}
	pre := &fakePreprocessor{}

	e := &Engine{
		ConfigCache:  cache,
		Preparer:     preparer.Preparer{Expander: noopExpander{}},
		Preprocessor: pre,
		Driver:       driver,
	}

	e.addItems(context.Background())
	driver.toDrain = []Completion{{ItemID: 9, Body: "not found", StatusCode: 404}}
	e.drain(context.Background())

	require.Len(t, pre.subs, 1)
	assert.Equal(t, models.NotSupported, pre.subs[0].ErrCode)
	assert.Equal(t, models.StateNotSupported, pre.subs[0].State)
}

func TestEngine_Drain_StatusCodeMatchStaysSuccess(t *testing.T) {
	cache := &fakeCache{pending: []models.Item{
		{ItemID: 10, Type: models.HttpAgent, KeyOrig: "web.page.get", URLOrig: "http://example.com/", StatusCodesOrig: "200-299"},
	}}
	driver := &fakeDriver{}
	pre := &fakePreprocessor{}

	e := &Engine{
		ConfigCache:  cache,
		Preparer:     preparer.Preparer{Expander: noopExpander{}},
		Preprocessor: pre,
		Driver:       driver,
	}

	e.addItems(context.Background())
	driver.toDrain = []Completion{{ItemID: 10, Body: "ok", StatusCode: 204}}
	e.drain(context.Background())

	require.Len(t, pre.subs, 1)
	assert.Equal(t, models.Success, pre.subs[0].ErrCode)
}
