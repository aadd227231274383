package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/emzola/athenaeum/data/dto"
	"github.com/emzola/athenaeum/internal/validator"
	"github.com/emzola/athenaeum/service"
)

func (h *Handler) requestBookHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	user := h.contextGetUser(r)
	request, err := h.service.RequestBook(user, bookID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrDuplicateRecord):
			h.recordAlreadyExistsResponse(w, r)
		case errors.Is(err, service.ErrBookAssigned):
			h.bookAssignedResponse(w, r)
		case errors.Is(err, service.ErrQuotaExceeded):
			h.quotaExceededResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/requests/%d", request.ID))
	err = h.encodeJSON(w, http.StatusCreated, envelope{"request": request}, headers)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) showRequestHandler(w http.ResponseWriter, r *http.Request) {
	requestID, err := h.readIDParam(r, "requestId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	request, err := h.service.GetRequest(requestID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"request": request}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) listRequestsHandler(w http.ResponseWriter, r *http.Request) {
	var qsInput dto.QsListRequests
	v := validator.New()
	qs := r.URL.Query()
	qsInput.Status = h.readString(qs, "status", "")
	qsInput.Filters.Page = h.readInt(qs, "page", 1, v)
	qsInput.Filters.PageSize = h.readInt(qs, "page_size", 10, v)
	qsInput.Filters.Sort = h.readString(qs, "sort", "id")
	qsInput.Filters.SortSafeList = []string{"id", "created_at", "status", "-id", "-created_at", "-status"}
	requests, metadata, err := h.service.ListRequests(qsInput.Status, qsInput.Filters)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"requests": requests, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) resolveRequestHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.ResolveRequestRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	requestID, err := h.readIDParam(r, "requestId")
	if err != nil || requestID < 1 {
		h.notFoundResponse(w, r)
		return
	}
	request, err := h.service.ResolveRequest(requestID, requestBody.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		case errors.Is(err, service.ErrBookAssigned):
			h.bookAssignedResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"request": request}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
