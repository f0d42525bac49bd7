package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/modelsheet-go/internal/derivative"
	"github.com/ukaji3/modelsheet-go/internal/metrics"
	"github.com/ukaji3/modelsheet-go/internal/storage"
	"github.com/ukaji3/modelsheet-go/pkg/modelsheet"
	"github.com/ukaji3/modelsheet-go/pkg/modelsheet/models"
	"github.com/ukaji3/modelsheet-go/pkg/modelsheet/xlsx"
)

type fakeSource struct {
	views     []models.ModelView
	viewsErr  error
	failGUIDs map[string]error
}

func (f *fakeSource) Views(_ context.Context, urn string) ([]models.ModelView, error) {
	if urn != derivative.URN("models", "house.rvt") {
		return nil, errors.New("unexpected urn")
	}
	return f.views, f.viewsErr
}

func (f *fakeSource) Hierarchy(_ context.Context, _, guid string) (models.Hierarchy, error) {
	if err := f.failGUIDs[guid]; err != nil {
		return models.Hierarchy{}, err
	}
	return models.Hierarchy{Roots: []models.HierarchyNode{
		models.Internal("Model", 0,
			models.Internal("Walls", 10, models.Leaf("Wall [1]", 1), models.Leaf("Wall [2]", 2)),
		),
	}}, nil
}

func (f *fakeSource) Properties(_ context.Context, _, _ string) (models.PropertyCollection, error) {
	return models.PropertyCollection{
		{ObjectID: 1, Name: "Wall [1]", Groups: []models.PropertyGroup{{Name: "Dimensions", Properties: []models.Property{{Key: "Height", Value: "10"}}}}},
		{ObjectID: 2, Name: "Unnamed"},
	}, nil
}

type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Get(_ context.Context, bucket, key string) (io.ReadCloser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[bucket+"/"+key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStore) Put(_ context.Context, bucket, key string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[bucket+"/"+key] = data
	return nil
}

func (s *fakeStore) Delete(_ context.Context, bucket, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, bucket+"/"+key)
	return nil
}

func newTestService(t *testing.T, source Source, store storage.ObjectStore) (*Service, string) {
	t.Helper()
	dir := t.TempDir()
	return New(source, store, Config{OutDir: dir, Options: modelsheet.DefaultOptions()}, nil, metrics.NewRecorder("test")), dir
}

func TestExcelWritesOneWorkbookPerView(t *testing.T) {
	source := &fakeSource{views: []models.ModelView{
		{Name: "{3D}", Role: "3d", GUID: "a"},
		{Name: "Level 1", Role: "2d", GUID: "b"},
	}}
	store := newFakeStore()
	svc, dir := newTestService(t, source, store)

	result, err := svc.Excel(context.Background(), ObjectRequest{Bucket: "models", Object: "house.rvt", UploadBucket: "sheets"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(dir, "house.xlsx"),
		filepath.Join(dir, "house-2.xlsx"),
	}, result.Files)
	assert.Equal(t, []string{"house.xlsx", "house-2.xlsx"}, result.Uploaded)
	assert.Equal(t, 2, result.Skipped)
	assert.Contains(t, store.objects, "sheets/house.xlsx")

	summaries, err := xlsx.ReadSummary(result.Files[0])
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "Walls", summaries[0].Name)
	assert.Equal(t, []string{"ID", "Name", "Height"}, summaries[0].Header)
	assert.Equal(t, 2, summaries[0].Rows)
}

func TestExcelContinuesAfterFailingView(t *testing.T) {
	source := &fakeSource{
		views: []models.ModelView{
			{Name: "{3D}", GUID: "a"},
			{Name: "Sheets", GUID: "b"},
		},
		failGUIDs: map[string]error{"a": derivative.ErrNotReady},
	}
	svc, dir := newTestService(t, source, nil)

	result, err := svc.Excel(context.Background(), ObjectRequest{Bucket: "models", Object: "house.rvt"})

	assert.ErrorIs(t, err, derivative.ErrNotReady)
	assert.Equal(t, []string{filepath.Join(dir, "house-2.xlsx")}, result.Files)
}

func TestExcelExistingWorkbook(t *testing.T) {
	source := &fakeSource{views: []models.ModelView{{Name: "{3D}", GUID: "a"}}}
	svc, dir := newTestService(t, source, nil)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "house.xlsx"), []byte("keep"), 0o644))

	_, err := svc.Excel(context.Background(), ObjectRequest{Bucket: "models", Object: "house.rvt"})

	assert.ErrorIs(t, err, modelsheet.ErrDestinationExists)
	data, _ := os.ReadFile(filepath.Join(dir, "house.xlsx"))
	assert.Equal(t, "keep", string(data))
}

func TestExcelWithoutSource(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)

	_, err := svc.Excel(context.Background(), ObjectRequest{Bucket: "b", Object: "o"})
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestExcelUploadWithoutStore(t *testing.T) {
	source := &fakeSource{views: []models.ModelView{{Name: "{3D}", GUID: "a"}}}
	svc, _ := newTestService(t, source, nil)

	result, err := svc.Excel(context.Background(), ObjectRequest{Bucket: "models", Object: "house.rvt", UploadBucket: "sheets"})

	assert.ErrorIs(t, err, ErrNoStore)
	assert.Len(t, result.Files, 1)
	assert.Empty(t, result.Uploaded)
}

func TestExportFiles(t *testing.T) {
	in := t.TempDir()
	hierarchyPath := filepath.Join(in, "hierarchy.json")
	propertiesPath := filepath.Join(in, "properties.json")
	require.NoError(t, os.WriteFile(hierarchyPath, []byte(`{"Walls":{"objects":[{"objectid":1},{"objectid":2}]}}`), 0o644))
	require.NoError(t, os.WriteFile(propertiesPath, []byte(`[
		{"objectid":1,"name":"Wall [1]","properties":{"Dimensions":{"Height":"10"},"__Internal":{"secret":"x"}}},
		{"objectid":2,"name":"Wall [2]","properties":{"Dimensions":{"Height":"20"},"__Internal":{"secret":"y"}}}
	]`), 0o644))

	svc, dir := newTestService(t, nil, nil)
	result, err := svc.ExportFiles(context.Background(), hierarchyPath, propertiesPath, "walls.rvt")
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "walls.xlsx")}, result.Files)

	summaries, err := xlsx.ReadSummary(result.Files[0])
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, []string{"ID", "Name", "Height"}, summaries[0].Header)
	assert.Equal(t, 3, summaries[0].Rows)
}

func TestExportFilesMissingInput(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)

	_, err := svc.ExportFiles(context.Background(), "/nonexistent/h.json", "/nonexistent/p.json", "m.rvt")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDownload(t *testing.T) {
	store := newFakeStore()
	store.objects["models/dir/house.rvt"] = []byte("model")
	svc, dir := newTestService(t, nil, store)
	ctx := context.Background()

	path, err := svc.Download(ctx, "models", "dir/house.rvt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "house.rvt"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "model", string(data))

	_, err = svc.Download(ctx, "models", "dir/house.rvt")
	assert.ErrorIs(t, err, modelsheet.ErrDestinationExists)

	_, err = svc.Download(ctx, "models", "missing.rvt")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteAndUpload(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(t, nil, store)
	ctx := context.Background()

	local := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(local, []byte("hi"), 0o644))

	require.NoError(t, svc.Upload(ctx, "b", local))
	assert.Equal(t, []byte("hi"), store.objects["b/notes.txt"])

	require.NoError(t, svc.Delete(ctx, "b", "notes.txt"))
	assert.NotContains(t, store.objects, "b/notes.txt")
}

func TestObjectOperationsWithoutStore(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)
	ctx := context.Background()

	_, err := svc.Download(ctx, "b", "o")
	assert.ErrorIs(t, err, ErrNoStore)
	assert.ErrorIs(t, svc.Delete(ctx, "b", "o"), ErrNoStore)
	assert.ErrorIs(t, svc.Upload(ctx, "b", "o"), ErrNoStore)
}
