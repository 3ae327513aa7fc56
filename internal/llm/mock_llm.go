package llm

import (
	"context"

	"github.com/openai/openai-go/v3"
	"github.com/stretchr/testify/mock"
)

// MockChain is a mock implementation of ChainBackend using testify/mock.
type MockChain struct {
	mock.Mock
}

func (m *MockChain) Run(ctx context.Context, question string) (*openai.ChatCompletion, error) {
	args := m.Called(ctx, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*openai.ChatCompletion), args.Error(1)
}

// MockDirect is a mock implementation of DirectBackend using testify/mock.
type MockDirect struct {
	mock.Mock
}

func (m *MockDirect) Ask(ctx context.Context, question string) ([]byte, error) {
	args := m.Called(ctx, question)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
