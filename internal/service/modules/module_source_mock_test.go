package modules

import (
	"context"
	"sync"

	"github.com/heartmarshall/a1-lessons/internal/domain"
)

var _ moduleSource = &moduleSourceMock{}

type moduleSourceMock struct {
	LoadModulesFunc func(ctx context.Context) ([]domain.Module, error)

	calls struct {
		LoadModules []struct {
			Ctx context.Context
		}
	}
	lockLoadModules sync.RWMutex
}

func (mock *moduleSourceMock) LoadModules(ctx context.Context) ([]domain.Module, error) {
	if mock.LoadModulesFunc == nil {
		panic("moduleSourceMock.LoadModulesFunc: method is nil but moduleSource.LoadModules was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockLoadModules.Lock()
	mock.calls.LoadModules = append(mock.calls.LoadModules, callInfo)
	mock.lockLoadModules.Unlock()
	return mock.LoadModulesFunc(ctx)
}

func (mock *moduleSourceMock) LoadModulesCalls() []struct {
	Ctx context.Context
} {
	mock.lockLoadModules.RLock()
	calls := mock.calls.LoadModules
	mock.lockLoadModules.RUnlock()
	return calls
}
