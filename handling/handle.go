package handling

import (
	"net/http"
	"storefront_server/lib"

	"github.com/MonkyMars/gecho"
)

// HandleError logs an unexpected failure and answers 500 with msg
func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) {
	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))

	gecho.InternalServerError(w,
		gecho.WithMessage(msg),
		gecho.WithData(map[string]string{"error": http.StatusText(http.StatusInternalServerError)}),
		gecho.Send(),
	)
}

// RespondError writes the error envelope for err. The cause is logged, only the safe message is sent.
func RespondError(w http.ResponseWriter, logger *gecho.Logger, err error) {
	code, msg := lib.HTTPStatus(err)
	data := map[string]string{"error": http.StatusText(code)}

	switch code {
	case http.StatusBadRequest:
		logger.Debug("Rejected request", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage(msg), gecho.WithData(data), gecho.Send())
	case http.StatusUnauthorized:
		logger.Debug("Unauthorized request", gecho.Field("error", err))
		gecho.Unauthorized(w, gecho.WithMessage(msg), gecho.WithData(data), gecho.Send())
	case http.StatusNotFound:
		gecho.NotFound(w, gecho.WithMessage(msg), gecho.WithData(data), gecho.Send())
	case http.StatusConflict:
		gecho.Conflict(w, gecho.WithMessage(msg), gecho.WithData(data), gecho.Send())
	default:
		HandleError(err, msg, logger, w)
	}
}
