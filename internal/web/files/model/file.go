// Package model defines the persisted upload metadata documents.
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// File is one uploaded-object metadata record.
//
// The bson field names keep the document layout the collection already has,
// so records written by earlier deployments stay readable.
type File struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FileName  string             `bson:"fileName" json:"fileName"`
	FileType  string             `bson:"fileType" json:"fileType"`
	FileSize  int64              `bson:"fileSize" json:"fileSize"`
	FileURL   string             `bson:"fileUrl" json:"fileUrl"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"expiresAt"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
