package inbound

import (
	"github.com/shandysiswandi/formgate/internal/account/entity"
	"github.com/shandysiswandi/formgate/internal/account/usecase"
	"github.com/shandysiswandi/formgate/internal/pkg/router"
)

const PathAPIAccounts = "/api/v1/accounts"

// RegisterHTTPEndpoint serves the JSON API of the account module.
func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST(PathAPIAccounts, end.Signup)
}

// HTTPEndpoint handles plain JSON requests. Unlike the sign-up action, input
// is validated by the usecase and failures answer 422 with a field map.
type HTTPEndpoint struct {
	uc uc
}

// Signup creates an account from a JSON body.
func (h *HTTPEndpoint) Signup(r *router.Request) (any, error) {
	var req SignupRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.Signup(r.Context(), usecase.SignupInput{
		Kind:     entity.AccountKind(req.Kind),
		Email:    req.Email,
		FullName: req.FullName,
		Company:  req.Company,
		TaxID:    req.TaxID,
	})
	if err != nil {
		return nil, err
	}

	return SignupResponse{AccountID: out.AccountID}, nil
}
