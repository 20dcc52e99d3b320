// Package mocks provides hand-written test doubles for the service and auth
// interfaces consumed by the HTTP layer.
//
// Each mock has a function field per method for per-test behavior and
// default return values used when the function is nil:
//
//	cards := &mocks.MockCardService{
//	    GetFn: func(ctx context.Context, id uint64) (*domain.Card, error) {
//	        return nil, someErr
//	    },
//	}
package mocks
