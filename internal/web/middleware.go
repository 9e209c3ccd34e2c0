package web

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const headerRequestID = "X-Request-Id"

// requestIDMiddleware tags every request with an id, keeping one supplied by
// an upstream proxy if present.
func requestIDMiddleware(ctx *gin.Context) {
	rid := ctx.Request.Header.Get(headerRequestID)
	if rid == "" {
		rid = uuid.NewString()
	}

	ctx.Set("request_id", rid)
	ctx.Header(headerRequestID, rid)
	ctx.Next()
}
