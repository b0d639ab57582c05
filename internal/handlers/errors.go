package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/rafaelminatto1/fisioflow-sub012/internal/status"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/store"
	"github.com/rafaelminatto1/fisioflow-sub012/internal/utils"
)

// respondEngineError maps the scheduling engine's error taxonomy onto HTTP
// responses.
func respondEngineError(c *gin.Context, err error) {
	var ve *store.ValidationError
	if errors.As(err, &ve) {
		utils.BadRequest(c, ve.Error())
		return
	}
	var nf *store.NotFoundError
	if errors.As(err, &nf) {
		utils.NotFound(c, nf.Error())
		return
	}
	var it *status.InvalidTransitionError
	if errors.As(err, &it) {
		utils.Conflict(c, it.Error())
		return
	}
	utils.InternalServerError(c, err.Error())
}
