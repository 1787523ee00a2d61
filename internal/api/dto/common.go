package dto

import (
	"net/http"
	"net/url"
	"strconv"
)

// ResponseType pairs a human message with the stable machine-readable action
// tag and status code it maps to. Every endpoint answers with one of these.
type ResponseType struct {
	Message    string
	StatusCode int
	Action     string
}

var (
	MsgCreated   = ResponseType{"Data created successfully", http.StatusCreated, "created"}
	MsgUpdated   = ResponseType{"Data updated successfully", http.StatusOK, "updated"}
	MsgDeleted   = ResponseType{"Data deleted successfully", http.StatusOK, "deleted"}
	MsgRetrieved = ResponseType{"Data retrieved successfully", http.StatusOK, "retrieved"}

	MsgSignupSuccess = ResponseType{"Registration successful", http.StatusCreated, "signup_success"}
	MsgLoginSuccess  = ResponseType{"Login successful", http.StatusOK, "login_success"}
	MsgLogoutSuccess = ResponseType{"Logout successful", http.StatusOK, "logout_success"}

	ErrValidation          = ResponseType{"Validation error occurred", http.StatusBadRequest, "validation_error"}
	ErrInsufficientBalance = ResponseType{"No kudos available to give", http.StatusBadRequest, "insufficient_balance"}
	ErrSelfKudos           = ResponseType{"Cannot give kudos to yourself", http.StatusBadRequest, "self_kudos_forbidden"}
	ErrCrossOrganization   = ResponseType{"Can only give kudos to users in your organization", http.StatusBadRequest, "cross_organization_forbidden"}
	ErrNotFound            = ResponseType{"Data not found", http.StatusNotFound, "not_found"}
	ErrUnauthorized        = ResponseType{"Authentication required", http.StatusUnauthorized, "unauthorized"}
	ErrTokenInvalid        = ResponseType{"Invalid or expired token", http.StatusUnauthorized, "token_invalid"}
	ErrForbidden           = ResponseType{"Permission denied", http.StatusForbidden, "forbidden"}
	ErrServerError         = ResponseType{"Internal server error", http.StatusInternalServerError, "server_error"}
)

// Envelope is the uniform response body shared by every endpoint.
type Envelope struct {
	Message    string      `json:"message"`
	StatusCode int         `json:"status_code"`
	Action     string      `json:"action"`
	Data       interface{} `json:"data"`
	Errors     interface{} `json:"errors"`
}

func NewEnvelope(rt ResponseType, data, errs interface{}) Envelope {
	return Envelope{
		Message:    rt.Message,
		StatusCode: rt.StatusCode,
		Action:     rt.Action,
		Data:       data,
		Errors:     errs,
	}
}

// PaginatedEnvelope extends the envelope with pagination metadata at the
// outer level.
type PaginatedEnvelope struct {
	Message     string      `json:"message"`
	StatusCode  int         `json:"status_code"`
	Action      string      `json:"action"`
	Count       int64       `json:"count"`
	Next        *string     `json:"next"`
	Previous    *string     `json:"previous"`
	CurrentPage int         `json:"current_page"`
	TotalPages  int         `json:"total_pages"`
	PageSize    int         `json:"page_size"`
	Data        interface{} `json:"data"`
	Errors      interface{} `json:"errors"`
}

type PaginationParams struct {
	Page     int
	PageSize int
}

// ParsePagination reads page and page_size from the query string.
func ParsePagination(r *http.Request) PaginationParams {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	p := PaginationParams{Page: page, PageSize: pageSize}
	p.Normalize()
	return p
}

func (p *PaginationParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 10
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// NewPaginatedEnvelope builds the retrieval envelope with next/previous links
// derived from the request URL.
func NewPaginatedEnvelope(r *http.Request, p PaginationParams, total int64, data interface{}) PaginatedEnvelope {
	totalPages := int(total) / p.PageSize
	if int(total)%p.PageSize > 0 {
		totalPages++
	}
	if totalPages == 0 {
		totalPages = 1
	}

	env := PaginatedEnvelope{
		Message:     MsgRetrieved.Message,
		StatusCode:  MsgRetrieved.StatusCode,
		Action:      MsgRetrieved.Action,
		Count:       total,
		CurrentPage: p.Page,
		TotalPages:  totalPages,
		PageSize:    p.PageSize,
		Data:        data,
	}

	if p.Page < totalPages {
		next := pageLink(r.URL, p.Page+1, p.PageSize)
		env.Next = &next
	}
	if p.Page > 1 {
		prev := pageLink(r.URL, p.Page-1, p.PageSize)
		env.Previous = &prev
	}

	return env
}

func pageLink(u *url.URL, page, pageSize int) string {
	link := *u
	q := link.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	link.RawQuery = q.Encode()
	return link.String()
}
