// Package service wires the derivative API, the flattening pipeline, the
// workbook writer and the object store into the operations exposed by the
// CLI and the HTTP server.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ukaji3/modelsheet-go/internal/derivative"
	"github.com/ukaji3/modelsheet-go/internal/logging"
	"github.com/ukaji3/modelsheet-go/internal/metrics"
	"github.com/ukaji3/modelsheet-go/internal/storage"
	"github.com/ukaji3/modelsheet-go/pkg/modelsheet"
	"github.com/ukaji3/modelsheet-go/pkg/modelsheet/models"
	"github.com/ukaji3/modelsheet-go/pkg/modelsheet/parser"
	"github.com/ukaji3/modelsheet-go/pkg/modelsheet/xlsx"
	"go.uber.org/zap"
)

// ErrNoStore indicates an operation needs an object store that is not configured.
var ErrNoStore = errors.New("object store not configured")

// ErrNoSource indicates an operation needs the derivative API that is not configured.
var ErrNoSource = errors.New("derivative source not configured")

// Source supplies model-view payloads. *derivative.Client implements it.
type Source interface {
	Views(ctx context.Context, urn string) ([]models.ModelView, error)
	Hierarchy(ctx context.Context, urn, guid string) (models.Hierarchy, error)
	Properties(ctx context.Context, urn, guid string) (models.PropertyCollection, error)
}

// Config holds the export settings shared by every operation.
type Config struct {
	OutDir    string
	Extension string
	Options   modelsheet.Options
}

// Service runs workbook exports and object transfers.
type Service struct {
	source   Source
	store    storage.ObjectStore
	cfg      Config
	logger   *zap.Logger
	recorder *metrics.Recorder
}

// New creates a Service. source and store may be nil when the caller only
// uses operations that do not need them.
func New(source Source, store storage.ObjectStore, cfg Config, logger *zap.Logger, recorder *metrics.Recorder) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = metrics.NewRecorder("service")
	}
	if cfg.Extension == "" {
		cfg.Extension = xlsx.DefaultExtension
	}
	return &Service{
		source:   source,
		store:    store,
		cfg:      cfg,
		logger:   logger,
		recorder: recorder,
	}
}

// ObjectRequest identifies a model object in the store.
type ObjectRequest struct {
	Bucket string `json:"bucketKey"`
	Object string `json:"objectName"`
	// UploadBucket, when set, receives a copy of every written workbook.
	UploadBucket string `json:"uploadBucket,omitempty"`
}

// ExportResult lists what an export produced.
type ExportResult struct {
	Files    []string `json:"files"`
	Uploaded []string `json:"uploaded,omitempty"`
	Skipped  int      `json:"skipped"`
}

// Excel exports one workbook per metadata view of the object. A failing
// view does not stop the others; all failures are joined in the returned
// error.
func (s *Service) Excel(ctx context.Context, req ObjectRequest) (ExportResult, error) {
	if s.source == nil {
		return ExportResult{}, ErrNoSource
	}
	log := logging.FromContext(ctx, s.logger).With(
		zap.String("bucket", req.Bucket),
		zap.String("object", req.Object))

	urn := derivative.URN(req.Bucket, req.Object)
	views, err := s.source.Views(ctx, urn)
	if err != nil {
		return ExportResult{}, fmt.Errorf("list views: %w", err)
	}

	base := xlsx.WorkbookFileName(req.Object, s.cfg.Extension)
	result := ExportResult{Files: []string{}}
	var errs []error

	for i, view := range views {
		hierarchy, err := s.source.Hierarchy(ctx, urn, view.GUID)
		if err != nil {
			errs = append(errs, fmt.Errorf("view %q hierarchy: %w", view.Name, err))
			continue
		}
		props, err := s.source.Properties(ctx, urn, view.GUID)
		if err != nil {
			errs = append(errs, fmt.Errorf("view %q properties: %w", view.Name, err))
			continue
		}

		path, skipped, err := s.write(ctx, xlsx.ViewFileName(base, i), view.Name, hierarchy, props)
		result.Skipped += skipped
		if err != nil {
			errs = append(errs, fmt.Errorf("view %q: %w", view.Name, err))
			continue
		}
		result.Files = append(result.Files, path)

		if req.UploadBucket != "" {
			if err := s.upload(ctx, req.UploadBucket, path); err != nil {
				errs = append(errs, err)
				continue
			}
			result.Uploaded = append(result.Uploaded, filepath.Base(path))
		}
	}

	log.Info("excel export finished",
		zap.Int("views", len(views)),
		zap.Int("files", len(result.Files)),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(errs)))
	return result, errors.Join(errs...)
}

// ExportFiles exports a hierarchy and a property payload read from disk.
// modelName names the workbook as the source model would.
func (s *Service) ExportFiles(ctx context.Context, hierarchyPath, propertiesPath, modelName string) (ExportResult, error) {
	hierarchy, err := parser.LoadHierarchy(hierarchyPath)
	if err != nil {
		return ExportResult{}, fmt.Errorf("load hierarchy: %w", err)
	}
	props, err := parser.LoadProperties(propertiesPath)
	if err != nil {
		return ExportResult{}, fmt.Errorf("load properties: %w", err)
	}

	name := xlsx.WorkbookFileName(modelName, s.cfg.Extension)
	path, skipped, err := s.write(ctx, name, "", hierarchy, props)
	if err != nil {
		return ExportResult{Files: []string{}, Skipped: skipped}, err
	}
	return ExportResult{Files: []string{path}, Skipped: skipped}, nil
}

// write builds the workbook for one view and persists it into the output
// directory.
func (s *Service) write(ctx context.Context, name, view string, hierarchy models.Hierarchy, props models.PropertyCollection) (string, int, error) {
	log := logging.FromContext(ctx, s.logger)
	opts := s.cfg.Options
	opts.Logger = log
	timer := metrics.NewTimer()

	wb, err := modelsheet.BuildWorkbook(name, view, hierarchy, props, opts)
	if err != nil {
		s.recorder.RecordWorkbook(wb, err, timer.Duration())
		return "", 0, err
	}

	skipped := 0
	for _, t := range wb.Tables {
		skipped += len(t.Skipped)
	}

	path, err := xlsx.ExportToDir(wb, s.cfg.OutDir)
	s.recorder.RecordWorkbook(wb, err, timer.Duration())
	if err != nil {
		return "", skipped, err
	}

	log.Info("workbook written",
		zap.String("path", path),
		zap.String("view", view),
		zap.Int("sheets", len(wb.Tables)),
		zap.Int("skipped", skipped))
	return path, skipped, nil
}

func (s *Service) upload(ctx context.Context, bucket, path string) error {
	if s.store == nil {
		return ErrNoStore
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}
	defer f.Close()
	return s.store.Put(ctx, bucket, filepath.Base(path), f)
}

// Download copies an object into the output directory and returns the
// local path. An existing local file is never overwritten.
func (s *Service) Download(ctx context.Context, bucket, object string) (string, error) {
	if s.store == nil {
		return "", ErrNoStore
	}
	body, err := s.store.Get(ctx, bucket, object)
	if err != nil {
		return "", err
	}
	defer body.Close()

	if err := os.MkdirAll(s.cfg.OutDir, 0755); err != nil {
		return "", modelsheet.NewIOError("mkdir", s.cfg.OutDir, err)
	}
	path := filepath.Join(s.cfg.OutDir, filepath.Base(filepath.FromSlash(object)))
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", modelsheet.NewIOError("create", path, fmt.Errorf("%w: %w", modelsheet.ErrDestinationExists, err))
		}
		return "", modelsheet.NewIOError("create", path, err)
	}

	if _, err := io.Copy(out, body); err != nil {
		out.Close()
		os.Remove(path)
		return "", modelsheet.NewIOError("write", path, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return "", modelsheet.NewIOError("close", path, err)
	}

	logging.FromContext(ctx, s.logger).Info("object downloaded",
		zap.String("bucket", bucket), zap.String("object", object), zap.String("path", path))
	return path, nil
}

// Delete removes an object from the store.
func (s *Service) Delete(ctx context.Context, bucket, object string) error {
	if s.store == nil {
		return ErrNoStore
	}
	if err := s.store.Delete(ctx, bucket, object); err != nil {
		return err
	}
	logging.FromContext(ctx, s.logger).Info("object deleted",
		zap.String("bucket", bucket), zap.String("object", object))
	return nil
}

// Upload stores a local file under its base name.
func (s *Service) Upload(ctx context.Context, bucket, path string) error {
	return s.upload(ctx, bucket, path)
}
