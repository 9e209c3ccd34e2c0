// Package dao is the data access object for upload metadata records.
package dao

import (
	"context"

	"github.com/Laisky/errors/v2"
	gutils "github.com/Laisky/go-utils/v6"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoLib "go.mongodb.org/mongo-driver/mongo"

	"github.com/Laisky/filedrop/internal/web/files/model"
	"github.com/Laisky/filedrop/library/db/mongo"
)

const colUploadFiles = "upload_files"

// Files db
type Files struct {
	mongo.DB
}

// NewFiles create new DB
func NewFiles(db mongo.DB) *Files {
	return &Files{
		DB: db,
	}
}

func (d *Files) GetFilesCol() *mongoLib.Collection {
	return d.GetCol(colUploadFiles)
}

// Create inserts one metadata record and returns it with the generated id
// and timestamps filled in.
func (d *Files) Create(ctx context.Context, file *model.File) (*model.File, error) {
	if file.FileName == "" ||
		file.FileType == "" ||
		file.FileSize < 0 ||
		file.FileURL == "" ||
		file.ExpiresAt.IsZero() {
		return nil, errors.Errorf("file record missing required fields: %+v", file)
	}

	now := gutils.Clock.GetUTCNow()
	file.CreatedAt = now
	file.UpdatedAt = now

	ret, err := d.GetFilesCol().InsertOne(ctx, file)
	if err != nil {
		return nil, errors.Wrap(err, "insert file record")
	}

	if oid, ok := ret.InsertedID.(primitive.ObjectID); ok {
		file.ID = oid
	}

	return file, nil
}

// ListAll returns every stored record in insertion order, expired ones
// included.
func (d *Files) ListAll(ctx context.Context) (files []*model.File, err error) {
	cur, err := d.GetFilesCol().Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "find file records")
	}

	files = []*model.File{}
	if err = cur.All(ctx, &files); err != nil {
		return nil, errors.Wrap(err, "load file records")
	}

	return files, nil
}
