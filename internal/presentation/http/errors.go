package httppresentation

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Zhima-Mochi/pos-checkout/internal/observability"
	"github.com/Zhima-Mochi/pos-checkout/internal/observability/logctx"
	pkgerrors "github.com/Zhima-Mochi/pos-checkout/internal/pkg/errors"
	"github.com/go-playground/validator/v10"
)

type errorBody struct {
	Code    pkgerrors.Code `json:"code"`
	Message string         `json:"message"`
	Details any            `json:"details,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeDomainError renders err using the status table of its failure code. Untyped
// errors are logged and hidden behind the internal error message.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "")
	}
	meta := pkgerrors.MetadataFor(typed.Code())

	body := errorBody{Code: typed.Code(), Message: typed.Message(), Details: typed.Details()}
	if typed.Code() == pkgerrors.CodeInternal {
		logctx.FromOr(r.Context(), h.log).Error("request_failed", observability.F("error", err))
		body = errorBody{Code: pkgerrors.CodeInternal}
	}
	if body.Message == "" {
		body.Message = meta.PublicMessage
	}
	writeJSON(w, meta.HTTPStatus, errorResponse{Error: body})
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "request validation failed").WithDetails(fields)
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("invalid request: %v", err))
}
