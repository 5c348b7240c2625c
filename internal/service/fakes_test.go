package service

import (
	"context"
	"fmt"
	"sync"

	"testgen/internal/firestore"
	"testgen/internal/model"
)

type fakeTextGenerator struct {
	text    string
	err     error
	prompts []string
}

func (f *fakeTextGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.text, f.err
}

type fakeCoreValueRepo struct {
	mu      sync.Mutex
	values  map[string][]model.CoreValue
	getErr  error
	saveErr error
	saves   int
}

func newFakeCoreValueRepo() *fakeCoreValueRepo {
	return &fakeCoreValueRepo{values: map[string][]model.CoreValue{}}
}

func (f *fakeCoreValueRepo) Get(_ context.Context, _, userID string) ([]model.CoreValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return []model.CoreValue{}, f.getErr
	}
	return model.CopyCoreValues(f.values[userID]), nil
}

func (f *fakeCoreValueRepo) Save(_ context.Context, _, userID string, values []model.CoreValue) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.values[userID] = model.CopyCoreValues(values)
	return nil
}

type fakeTestRepo struct {
	tests     map[string]*model.Test
	createErr error
	getErr    error
}

func newFakeTestRepo() *fakeTestRepo {
	return &fakeTestRepo{tests: map[string]*model.Test{}}
}

func (f *fakeTestRepo) Create(_ context.Context, _, ownerID string, test *model.Test) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	test.OwnerID = ownerID
	test.Status = model.TestStatusDraft
	test.Students = []string{}
	id := fmt.Sprintf("t%d", len(f.tests)+1)
	cp := *test
	f.tests[id] = &cp
	return id, nil
}

func (f *fakeTestRepo) Get(_ context.Context, _, testID string) (*model.Test, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	t, ok := f.tests[testID]
	if !ok {
		return nil, fmt.Errorf("get %s: %w", testID, firestore.ErrNotFound)
	}
	return t, nil
}

type fakeRunRepo struct {
	runs []*model.GenerationRun
	err  error
}

func (f *fakeRunRepo) Record(_ context.Context, run *model.GenerationRun) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.runs = append(f.runs, run)
	return "run", nil
}

func (f *fakeRunRepo) RecentByOwner(_ context.Context, ownerID string, _ int64) ([]*model.GenerationRun, error) {
	out := []*model.GenerationRun{}
	for _, r := range f.runs {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeExportCache struct {
	tests  map[string]*model.Test
	setErr error
	gets   int
}

func newFakeExportCache() *fakeExportCache {
	return &fakeExportCache{tests: map[string]*model.Test{}}
}

func (f *fakeExportCache) SetTest(_ context.Context, id string, t *model.Test) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.tests[id] = t
	return nil
}

func (f *fakeExportCache) GetTest(_ context.Context, id string) (*model.Test, error) {
	f.gets++
	return f.tests[id], nil
}

func (f *fakeExportCache) DeleteTest(_ context.Context, id string) error {
	delete(f.tests, id)
	return nil
}
