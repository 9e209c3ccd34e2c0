package dao

import (
	"context"

	"github.com/Laisky/filedrop/internal/web/files/model"
)

var Instance *Files

func Initialize(ctx context.Context) {
	model.Initialize(ctx)

	Instance = NewFiles(model.FilesDB)
}
