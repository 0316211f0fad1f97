package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path"
	"regexp"
	"strings"
	"time"

	"stayhost/internal/media"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidURL   = errors.New("invalid URL")
	ErrUploadFailed = errors.New("failed to upload photo")
	ErrNoFiles      = errors.New("no files uploaded")
	ErrTooManyFiles = errors.New("too many files in one upload")
)

const (
	DefaultMaxUploadFiles = 100
	uploadConcurrency     = 8
	jpegContentType       = "image/jpeg"
)

var (
	httpURL     = regexp.MustCompile(`^https?://`)
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)
)

// Downloader fetches a remote URL into a local file the caller must remove.
type Downloader interface {
	Download(ctx context.Context, url string) (string, error)
}

// MediaService stores listing photos in the hosted image store
type MediaService interface {
	UploadFiles(ctx context.Context, files []*multipart.FileHeader) ([]string, error)
	UploadByURL(ctx context.Context, link string) (string, error)
}

type mediaService struct {
	store    media.Store
	fetcher  Downloader
	folder   string
	maxFiles int
	now      func() time.Time
	log      *zap.Logger
}

// NewMediaService creates a new MediaService. Objects are stored under folder.
func NewMediaService(store media.Store, fetcher Downloader, folder string, maxFiles int, log *zap.Logger) MediaService {
	if maxFiles <= 0 {
		maxFiles = DefaultMaxUploadFiles
	}
	return &mediaService{
		store:    store,
		fetcher:  fetcher,
		folder:   strings.Trim(folder, "/"),
		maxFiles: maxFiles,
		now:      time.Now,
		log:      log,
	}
}

// UploadFiles converts each file to JPEG and stores it, preserving input order
func (s *mediaService) UploadFiles(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if len(files) > s.maxFiles {
		return nil, fmt.Errorf("%w: got %d, limit %d", ErrTooManyFiles, len(files), s.maxFiles)
	}

	keys := s.batchKeys(files)
	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)

	for i, fh := range files {
		i, fh := i, fh
		g.Go(func() error {
			url, err := s.uploadFile(gctx, fh, keys[i])
			if err != nil {
				return fmt.Errorf("%s: %w", fh.Filename, err)
			}
			urls[i] = url
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.log.Error("photo upload failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	return urls, nil
}

// batchKeys names every file of a batch up front so that equal base names
// within one millisecond still get distinct keys.
func (s *mediaService) batchKeys(files []*multipart.FileHeader) []string {
	millis := s.now().UnixMilli()
	used := make(map[string]bool, len(files))
	keys := make([]string, len(files))
	for i, fh := range files {
		stem := safeStem(fh.Filename)
		name := stem
		for n := 1; used[name]; n++ {
			name = fmt.Sprintf("%s-%d", stem, n)
		}
		used[name] = true
		keys[i] = s.objectKey(fmt.Sprintf("%d-%s.jpg", millis, name))
	}
	return keys
}

// safeStem reduces a client file name to its base name without extension,
// restricted to [A-Za-z0-9._-].
func safeStem(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	stem := strings.TrimSuffix(base, path.Ext(base))
	stem = unsafeChars.ReplaceAllString(stem, "_")
	if strings.Trim(stem, "._") == "" {
		return "photo"
	}
	return stem
}

func (s *mediaService) uploadFile(ctx context.Context, fh *multipart.FileHeader, key string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	body, err := media.ToJPEG(src)
	if err != nil {
		return "", err
	}

	return s.store.Put(ctx, key, body, jpegContentType)
}

// UploadByURL fetches link to a transient file and stores it as JPEG
func (s *mediaService) UploadByURL(ctx context.Context, link string) (string, error) {
	if !httpURL.MatchString(link) {
		return "", ErrInvalidURL
	}

	tmpPath, err := s.fetcher.Download(ctx, link)
	if err != nil {
		s.log.Error("failed to download photo", zap.String("link", link), zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	defer func() {
		if err := os.Remove(tmpPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("failed to remove transient download", zap.String("path", tmpPath), zap.Error(err))
		}
	}()

	url, err := s.storeLocalFile(ctx, tmpPath)
	if err != nil {
		s.log.Error("failed to store downloaded photo", zap.String("link", link), zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	return url, nil
}

func (s *mediaService) storeLocalFile(ctx context.Context, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("open transient file: %w", err)
	}
	defer f.Close()

	body, err := media.ToJPEG(f)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%d.jpg", s.now().UnixMilli())
	return s.store.Put(ctx, s.objectKey(key), body, jpegContentType)
}

func (s *mediaService) objectKey(name string) string {
	if s.folder == "" {
		return name
	}
	return s.folder + "/" + name
}
