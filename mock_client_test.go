package main

import (
	"context"
	"io"
	"os"
	"sync"
)

type MockClient struct {
	UploadRequests []MockRequest
	DeleteRequests []MockRequest
	HeadCalls      int
	GetCalls       int

	// HeadErrs are returned by successive HeadObject calls; once used up,
	// HeadErr is returned for every further call.
	HeadErrs []error
	HeadErr  error
	ETag     string
	Archive  []byte
	GetErr   error
	// UploadErrs fails uploads of the listed keys
	UploadErrs map[string]error

	mockList map[string]ObjectInfo
	lock     sync.Mutex
}

type MockRequest struct {
	DestBucket  string
	Key         string
	ACL         string
	ContentType string
	Body        []byte
}

func NewMockClient(mocked map[string]ObjectInfo) *MockClient {
	return &MockClient{
		UploadRequests: make([]MockRequest, 0),
		DeleteRequests: make([]MockRequest, 0),
		UploadErrs:     make(map[string]error),
		mockList:       mocked,
	}
}

func (s *MockClient) HeadObject(ctx context.Context, bucketName, key string) (ObjectInfo, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.HeadCalls++
	if len(s.HeadErrs) > 0 {
		err := s.HeadErrs[0]
		s.HeadErrs = s.HeadErrs[1:]
		if err != nil {
			return ObjectInfo{}, err
		}
	} else if s.HeadErr != nil {
		return ObjectInfo{}, s.HeadErr
	}

	return ObjectInfo{Size: int64(len(s.Archive)), ETag: s.ETag}, nil
}

func (s *MockClient) GetObject(ctx context.Context, bucketName, key string) ([]byte, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.GetCalls++
	if s.GetErr != nil {
		return nil, s.GetErr
	}

	return s.Archive, nil
}

func (s *MockClient) ListObjects(ctx context.Context, bucketName string) (map[string]ObjectInfo, error) {
	return s.mockList, nil
}

func (s *MockClient) UploadFile(ctx context.Context, bucketName string, key string, file *os.File, opts UploadOptions) error {
	body, readErr := io.ReadAll(file)
	if readErr != nil {
		return readErr
	}

	s.lock.Lock()
	defer s.lock.Unlock()
	s.UploadRequests = append(s.UploadRequests, MockRequest{
		DestBucket:  bucketName,
		Key:         key,
		ACL:         opts.ACL,
		ContentType: opts.ContentType,
		Body:        body,
	})

	return s.UploadErrs[key]
}

func (s *MockClient) DeleteObject(ctx context.Context, bucket string, key string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.DeleteRequests = append(s.DeleteRequests, MockRequest{DestBucket: bucket, Key: key})
	return nil
}
