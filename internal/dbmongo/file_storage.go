package dbmongo

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zzj2012/backend-project/internal/common"
)

// MaxUploadBytes caps a single stored payload at 16 MiB.
const MaxUploadBytes = 16 << 20

var allowedExtensions = map[string]bool{
	".txt":  true,
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".doc":  true,
	".docx": true,
	".zip":  true,
	".rar":  true,
}

// AllowedExtension reports whether the filename carries a whitelisted extension.
func AllowedExtension(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// FileStorage keeps message attachments in GridFS, keyed by ObjectID hex.
type FileStorage struct {
	gridFS *gridfs.Bucket
}

func NewFileStorage(mongoClient *MongoClient) *FileStorage {
	return &FileStorage{
		gridFS: mongoClient.GridFS,
	}
}

func (fs *FileStorage) Upload(ctx context.Context, filename string, content io.Reader) (*common.StoredFile, error) {
	if !AllowedExtension(filename) {
		return nil, common.InvalidArgumentf("file type not allowed: %s", filepath.Ext(filename))
	}

	metadata := bson.M{
		"original_name": filename,
	}

	opts := options.GridFSUpload().SetMetadata(metadata)
	stream, err := fs.gridFS.OpenUploadStream(filename, opts)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer stream.Close()

	// LimitReader lets us detect payloads over the cap without buffering them.
	size, err := io.Copy(stream, io.LimitReader(content, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("file copy failed: %w", err)
	}
	if size > MaxUploadBytes {
		stream.Close()
		objectID := stream.FileID.(primitive.ObjectID)
		if err := fs.gridFS.Delete(objectID); err != nil {
			return nil, fmt.Errorf("discard oversized upload: %w", err)
		}
		return nil, common.InvalidArgumentf("file exceeds %d bytes", MaxUploadBytes)
	}

	return &common.StoredFile{
		ID:       stream.FileID.(primitive.ObjectID).Hex(),
		Filename: filename,
		Size:     size,
	}, nil
}

func (fs *FileStorage) Download(ctx context.Context, fileID string) (io.ReadCloser, *common.StoredFile, error) {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, nil, common.InvalidArgumentf("invalid file id: %s", fileID)
	}

	stream, err := fs.gridFS.OpenDownloadStream(objectID)
	if err != nil {
		return nil, nil, common.NotFoundf("file %s not found", fileID)
	}

	fileInfo := stream.GetFile()
	return stream, &common.StoredFile{
		ID:       fileID,
		Filename: fileInfo.Name,
		Size:     fileInfo.Length,
	}, nil
}

func (fs *FileStorage) Exists(ctx context.Context, fileID string) (bool, error) {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return false, nil
	}

	cursor, err := fs.gridFS.Find(bson.M{"_id": objectID})
	if err != nil {
		return false, err
	}
	defer cursor.Close(ctx)
	return cursor.Next(ctx), cursor.Err()
}

func (fs *FileStorage) Delete(ctx context.Context, fileID string) error {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return common.InvalidArgumentf("invalid file id: %s", fileID)
	}
	return fs.gridFS.Delete(objectID)
}
