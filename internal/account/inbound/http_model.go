package inbound

import "net/http"

type SignupRequest struct {
	Kind     string `json:"kind"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Company  string `json:"company"`
	TaxID    string `json:"tax_id"`
}

type SignupResponse struct {
	AccountID string `json:"account_id"`
}

func (SignupResponse) StatusCode() int { return http.StatusCreated }

func (SignupResponse) Message() string { return "account created" }
