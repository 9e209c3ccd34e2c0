// Package service implements upload authorization for the files API.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	gconfig "github.com/Laisky/go-config/v2"
	gutils "github.com/Laisky/go-utils/v6"
	"github.com/Laisky/zap"
	"github.com/jinzhu/copier"

	"github.com/Laisky/filedrop/internal/web/files/dao"
	"github.com/Laisky/filedrop/internal/web/files/dto"
	"github.com/Laisky/filedrop/internal/web/files/model"
	"github.com/Laisky/filedrop/library/db/s3"
	"github.com/Laisky/filedrop/library/log"
)

const (
	// maxUploadBytes caps a single upload at 10 MiB.
	maxUploadBytes = 10 * 1024 * 1024
	// presignTTL is how long the issued upload credential stays valid.
	presignTTL = 60 * time.Second
	// recordTTL is the advisory expiry written into each metadata record.
	recordTTL = 24 * time.Hour

	objectKeyBytes = 32
)

var allowedFileTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/webp":      {},
	"application/pdf": {},
}

// Caller-fault errors; their text is returned verbatim in API responses.
var (
	ErrMissingFields   = errors.New("Missing fileName, fileType, or fileSize")
	ErrInvalidFileType = errors.New("Invalid file type. Only JPG, PNG, WEBP, and PDF are allowed.")
	ErrFileTooLarge    = errors.New("File too large. Maximum size is 10MB.")
)

// IsClientError reports whether err is the caller's fault rather than a
// storage provider or document store failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrInvalidFileType) ||
		errors.Is(err, ErrFileTooLarge)
}

// FileStore persists and lists upload metadata records.
type FileStore interface {
	Create(ctx context.Context, file *model.File) (*model.File, error)
	ListAll(ctx context.Context) ([]*model.File, error)
}

// Presigner issues scoped, time-limited upload credentials.
// *minio.Client satisfies it.
type Presigner interface {
	PresignHeader(ctx context.Context, method string, bucketName, objectName string,
		expires time.Duration, reqParams url.Values, extraHeaders http.Header) (*url.URL, error)
}

var Instance *Type

func Initialize(ctx context.Context) {
	dao.Initialize(ctx)

	storage, err := s3.New(s3.Config{
		Endpoint:  gconfig.Shared.GetString("settings.storage.endpoint"),
		AccessKey: gconfig.Shared.GetString("settings.storage.access_key"),
		SecretKey: gconfig.Shared.GetString("settings.storage.secret_key"),
		Region:    gconfig.Shared.GetString("settings.storage.region"),
		UseSSL:    gconfig.Shared.GetBool("settings.storage.use_ssl"),
	})
	if err != nil {
		log.Logger.Panic("new storage client", zap.Error(err))
	}

	Instance = New(dao.Instance, storage,
		gconfig.Shared.GetString("settings.storage.bucket"))
}

type Type struct {
	fileDao FileStore
	storage Presigner
	bucket  string
}

func New(fileDao FileStore, storage Presigner, bucket string) *Type {
	return &Type{
		fileDao: fileDao,
		storage: storage,
		bucket:  bucket,
	}
}

// AuthorizeUpload validates the proposed upload, issues a presigned PUT for a
// fresh random object key, persists the metadata record, and returns both.
//
// The credential binds the declared content type, content length and checksum;
// the storage provider rejects the actual upload if any of them mismatch.
// Note the record is persisted before the client transfers the bytes, so a
// failed transfer leaves a record pointing at a missing object.
func (s *Type) AuthorizeUpload(ctx context.Context,
	req *dto.AuthorizeUploadRequest) (*dto.AuthorizeUploadResult, error) {
	logger := gmw.GetLogger(ctx).Named("authorize_upload")

	if req.FileName == "" || req.FileType == "" ||
		req.Checksum == "" || req.FileSize == nil {
		return nil, errors.WithStack(ErrMissingFields)
	}
	if _, ok := allowedFileTypes[req.FileType]; !ok {
		return nil, errors.WithStack(ErrInvalidFileType)
	}
	if *req.FileSize > maxUploadBytes {
		return nil, errors.WithStack(ErrFileTooLarge)
	}

	key, err := generateObjectKey()
	if err != nil {
		return nil, errors.Wrap(err, "generate object key")
	}

	signedHeaders := make(http.Header)
	signedHeaders.Set("Content-Type", req.FileType)
	signedHeaders.Set("Content-Length", strconv.FormatInt(*req.FileSize, 10))
	signedHeaders.Set("x-amz-checksum-sha256", req.Checksum)

	signedURL, err := s.storage.PresignHeader(ctx,
		http.MethodPut, s.bucket, key, presignTTL, url.Values{}, signedHeaders)
	if err != nil {
		return nil, errors.Wrapf(err, "presign upload for key `%s`", key)
	}

	file := new(model.File)
	if err := copier.Copy(file, req); err != nil {
		return nil, errors.Wrap(err, "copy request fields")
	}

	// public object location is the signed url without its transient
	// authorization parameters
	publicURL := *signedURL
	publicURL.RawQuery = ""
	file.FileURL = publicURL.String()
	file.ExpiresAt = gutils.Clock.GetUTCNow().Add(recordTTL)

	file, err = s.fileDao.Create(ctx, file)
	if err != nil {
		return nil, errors.Wrap(err, "save file record")
	}

	logger.Info("authorized upload",
		zap.String("key", key),
		zap.String("file_type", req.FileType),
		zap.Int64("file_size", *req.FileSize),
	)

	return &dto.AuthorizeUploadResult{
		URL:  signedURL.String(),
		File: file,
	}, nil
}

// ListUploaded returns every stored record, expired ones included.
func (s *Type) ListUploaded(ctx context.Context) ([]*model.File, error) {
	files, err := s.fileDao.ListAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list file records")
	}

	return files, nil
}

// generateObjectKey returns a random hex key. It is independent of the
// client-supplied name, so identical uploads never collide in the bucket.
func generateObjectKey() (string, error) {
	raw := make([]byte, objectKeyBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", errors.Wrap(err, "read random bytes")
	}

	return hex.EncodeToString(raw), nil
}
