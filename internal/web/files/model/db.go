package model

import (
	"context"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"

	"github.com/Laisky/filedrop/library/db/mongo"
	"github.com/Laisky/filedrop/library/log"
)

var FilesDB mongo.DB

func Initialize(ctx context.Context) {
	var err error
	if FilesDB, err = New(ctx); err != nil {
		log.Logger.Panic("connect to files db", zap.Error(err))
	}
}

func New(ctx context.Context) (db mongo.DB, err error) {
	db, err = mongo.NewDB(ctx,
		mongo.DialInfo{
			Addr:   gconfig.Shared.GetString("settings.db.files.addr"),
			DBName: gconfig.Shared.GetString("settings.db.files.db"),
			User:   gconfig.Shared.GetString("settings.db.files.user"),
			Pwd:    gconfig.Shared.GetString("settings.db.files.pwd"),
		},
	)
	if err != nil {
		return nil, errors.Wrap(err, "dial db")
	}

	return db, nil
}
