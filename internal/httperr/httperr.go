package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

// ======================================================
// Kind → HTTP
// ======================================================

func StatusFor(kind Kind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidTransition, KindTooLate, KindValidation, KindSettlementFailed:
		return http.StatusBadRequest
	case KindUnavailable, KindSelfOverlap:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

var messages = map[Kind]string{
	KindNotFound:          "Recurso não encontrado.",
	KindInvalidTransition: "Transição de estado inválida.",
	KindTooLate:           "Prazo para esta operação expirado.",
	KindUnavailable:       "Veículo indisponível para o período.",
	KindSelfOverlap:       "Você já possui uma reserva neste período.",
	KindUnauthorized:      "Sem permissão para este recurso.",
	KindSettlementFailed:  "Pagamento recusado.",
	KindValidation:        "Dados inválidos.",
}

// FromError escreve a resposta olhando só o kind, nunca o texto.
func FromError(c *gin.Context, err error) {
	kind := KindOf(err)

	if kind == KindInfra {
		log.WithError(err).
			WithField("path", c.FullPath()).
			Error("internal error")
		Internal(c, "internal_error", "Erro interno.")
		return
	}

	be, _ := AsBusiness(err)
	Write(c, StatusFor(kind), be.Code, messages[kind])
}
