package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tearaglass/godscruiseline/internal/catalog/domain"
)

type listFunc[T any] func(ctx context.Context) ([]T, error)

func (f listFunc[T]) List(ctx context.Context) ([]T, error) { return f(ctx) }

func fixedRecords(context.Context) ([]domain.Record, error) {
	return []domain.Record{{ID: "GC-R-000", Title: "System Charter", Division: "access", Medium: "system", Year: 2026, Status: "public"}}, nil
}

func fixedProjects(context.Context) ([]domain.Project, error) {
	return []domain.Project{{ID: "terminal-ops", Name: "Terminal Operations", Status: "registered"}}, nil
}

func TestFileName(t *testing.T) {
	day := time.Date(2026, 1, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "records_export_2026-01-31.json", FileName("records", day))
}

func TestEncodeIndentsByTwo(t *testing.T) {
	b, err := Encode([]map[string]int{{"a": 1}})
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"a\": 1\n  }\n]", string(b))
}

func TestJobWritesBothCollections(t *testing.T) {
	dir := t.TempDir()
	job := NewJob(listFunc[domain.Record](fixedRecords), listFunc[domain.Project](fixedProjects), DirSink{Dir: dir}, nil)
	job.now = func() time.Time { return time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC) }

	locs, err := job.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "records_export_2026-03-04.json"),
		filepath.Join(dir, "projects_export_2026-03-04.json"),
	}, locs)

	b, err := os.ReadFile(locs[0])
	require.NoError(t, err)
	var got []domain.Record
	require.NoError(t, json.Unmarshal(b, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "System Charter", got[0].Title)
}

func TestJobStopsOnListFailure(t *testing.T) {
	failing := listFunc[domain.Record](func(context.Context) ([]domain.Record, error) {
		return nil, errors.New("store down")
	})
	job := NewJob(failing, listFunc[domain.Project](fixedProjects), DirSink{Dir: t.TempDir()}, nil)
	_, err := job.Run(context.Background())
	assert.ErrorContains(t, err, "store down")
}

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusNotImplemented)
		return
	}
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.objects[r.URL.Path] = body
	f.types[r.URL.Path] = r.Header.Get("Content-Type")
	f.mu.Unlock()
	w.Header().Set("ETag", `"etag"`)
	w.WriteHeader(http.StatusOK)
}

func TestS3SinkPutsObjects(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	sink, err := NewS3Sink(context.Background(), S3Config{
		Bucket:    "gc-snapshots",
		Endpoint:  srv.URL,
		PathStyle: true,
		Prefix:    "nightly",
	}, func(o *s3.Options) {
		o.Credentials = credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})
	require.NoError(t, err)

	loc, err := sink.Put(context.Background(), "records_export_2026-03-04.json", []byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, "s3://gc-snapshots/nightly/records_export_2026-03-04.json", loc)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	key := "/gc-snapshots/nightly/records_export_2026-03-04.json"
	assert.Equal(t, []byte(`[]`), fake.objects[key])
	assert.Equal(t, "application/json", fake.types[key])
}

func TestNewS3SinkRequiresBucket(t *testing.T) {
	_, err := NewS3Sink(context.Background(), S3Config{})
	assert.EqualError(t, err, "s3 bucket required")
}

func TestSchedulerRejectsBadSpec(t *testing.T) {
	job := NewJob(listFunc[domain.Record](fixedRecords), listFunc[domain.Project](fixedProjects), DirSink{Dir: t.TempDir()}, nil)
	s := NewScheduler(job, time.Second, nil)
	assert.ErrorContains(t, s.Start("every tuesday"), "invalid SNAPSHOT_SCHEDULE")
}

func TestSchedulerRunOnce(t *testing.T) {
	dir := t.TempDir()
	job := NewJob(listFunc[domain.Record](fixedRecords), listFunc[domain.Project](fixedProjects), DirSink{Dir: dir}, nil)
	s := NewScheduler(job, time.Second, nil)
	require.NoError(t, s.Start("@daily"))
	defer s.Stop()

	s.runOnce()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
