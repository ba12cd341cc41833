package publish

import (
	"context"
	"sync"

	"github.com/heartmarshall/a1-lessons/internal/domain"
)

var _ moduleRepo = &moduleRepoMock{}

type moduleRepoMock struct {
	FingerprintsFunc     func(ctx context.Context) (map[int]string, error)
	UpsertModulesFunc    func(ctx context.Context, records []domain.ModuleRecord) (int, error)
	DeleteExceptFunc     func(ctx context.Context, keep []int) (int, error)
	InsertPublishRunFunc func(ctx context.Context, run domain.PublishRun) error

	calls struct {
		Fingerprints []struct {
			Ctx context.Context
		}
		UpsertModules []struct {
			Ctx     context.Context
			Records []domain.ModuleRecord
		}
		DeleteExcept []struct {
			Ctx  context.Context
			Keep []int
		}
		InsertPublishRun []struct {
			Ctx context.Context
			Run domain.PublishRun
		}
	}
	lockFingerprints     sync.RWMutex
	lockUpsertModules    sync.RWMutex
	lockDeleteExcept     sync.RWMutex
	lockInsertPublishRun sync.RWMutex
}

func (mock *moduleRepoMock) Fingerprints(ctx context.Context) (map[int]string, error) {
	if mock.FingerprintsFunc == nil {
		panic("moduleRepoMock.FingerprintsFunc: method is nil but moduleRepo.Fingerprints was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockFingerprints.Lock()
	mock.calls.Fingerprints = append(mock.calls.Fingerprints, callInfo)
	mock.lockFingerprints.Unlock()
	return mock.FingerprintsFunc(ctx)
}

func (mock *moduleRepoMock) FingerprintsCalls() []struct {
	Ctx context.Context
} {
	mock.lockFingerprints.RLock()
	calls := mock.calls.Fingerprints
	mock.lockFingerprints.RUnlock()
	return calls
}

func (mock *moduleRepoMock) UpsertModules(ctx context.Context, records []domain.ModuleRecord) (int, error) {
	if mock.UpsertModulesFunc == nil {
		panic("moduleRepoMock.UpsertModulesFunc: method is nil but moduleRepo.UpsertModules was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Records []domain.ModuleRecord
	}{Ctx: ctx, Records: records}
	mock.lockUpsertModules.Lock()
	mock.calls.UpsertModules = append(mock.calls.UpsertModules, callInfo)
	mock.lockUpsertModules.Unlock()
	return mock.UpsertModulesFunc(ctx, records)
}

func (mock *moduleRepoMock) UpsertModulesCalls() []struct {
	Ctx     context.Context
	Records []domain.ModuleRecord
} {
	mock.lockUpsertModules.RLock()
	calls := mock.calls.UpsertModules
	mock.lockUpsertModules.RUnlock()
	return calls
}

func (mock *moduleRepoMock) DeleteExcept(ctx context.Context, keep []int) (int, error) {
	if mock.DeleteExceptFunc == nil {
		panic("moduleRepoMock.DeleteExceptFunc: method is nil but moduleRepo.DeleteExcept was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Keep []int
	}{Ctx: ctx, Keep: keep}
	mock.lockDeleteExcept.Lock()
	mock.calls.DeleteExcept = append(mock.calls.DeleteExcept, callInfo)
	mock.lockDeleteExcept.Unlock()
	return mock.DeleteExceptFunc(ctx, keep)
}

func (mock *moduleRepoMock) DeleteExceptCalls() []struct {
	Ctx  context.Context
	Keep []int
} {
	mock.lockDeleteExcept.RLock()
	calls := mock.calls.DeleteExcept
	mock.lockDeleteExcept.RUnlock()
	return calls
}

func (mock *moduleRepoMock) InsertPublishRun(ctx context.Context, run domain.PublishRun) error {
	if mock.InsertPublishRunFunc == nil {
		panic("moduleRepoMock.InsertPublishRunFunc: method is nil but moduleRepo.InsertPublishRun was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Run domain.PublishRun
	}{Ctx: ctx, Run: run}
	mock.lockInsertPublishRun.Lock()
	mock.calls.InsertPublishRun = append(mock.calls.InsertPublishRun, callInfo)
	mock.lockInsertPublishRun.Unlock()
	return mock.InsertPublishRunFunc(ctx, run)
}

func (mock *moduleRepoMock) InsertPublishRunCalls() []struct {
	Ctx context.Context
	Run domain.PublishRun
} {
	mock.lockInsertPublishRun.RLock()
	calls := mock.calls.InsertPublishRun
	mock.lockInsertPublishRun.RUnlock()
	return calls
}
