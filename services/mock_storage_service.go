// services/mock_storage_service.go
package services

import (
	"mime/multipart"

	"github.com/stretchr/testify/mock"
)

// MockMediaStorage is a testify mock of MediaStorageInterface.
type MockMediaStorage struct {
	mock.Mock
}

func (m *MockMediaStorage) Save(file *multipart.FileHeader) (string, error) {
	args := m.Called(file)
	return args.String(0), args.Error(1)
}

func (m *MockMediaStorage) Remove(storedName string) error {
	args := m.Called(storedName)
	return args.Error(0)
}

func (m *MockMediaStorage) Path(storedName string) string {
	args := m.Called(storedName)
	return args.String(0)
}
