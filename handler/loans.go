package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/emzola/athenaeum/data/dto"
	"github.com/emzola/athenaeum/internal/validator"
	"github.com/emzola/athenaeum/service"
)

func (h *Handler) issueBookHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateLoanRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	loan, err := h.service.IssueBook(requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		case errors.Is(err, service.ErrBookAssigned):
			h.bookAssignedResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/v1/loans/%d", loan.ID))
	err = h.encodeJSON(w, http.StatusCreated, envelope{"loan": loan}, headers)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) showLoanHandler(w http.ResponseWriter, r *http.Request) {
	loanID, err := h.readIDParam(r, "loanId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	loan, err := h.service.GetLoan(loanID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"loan": loan}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) listLoansHandler(w http.ResponseWriter, r *http.Request) {
	var qsInput dto.QsListLoans
	v := validator.New()
	qs := r.URL.Query()
	qsInput.Status = h.readString(qs, "status", "")
	qsInput.Filters.Page = h.readInt(qs, "page", 1, v)
	qsInput.Filters.PageSize = h.readInt(qs, "page_size", 10, v)
	qsInput.Filters.Sort = h.readString(qs, "sort", "id")
	qsInput.Filters.SortSafeList = []string{"id", "issue_date", "due_date", "-id", "-issue_date", "-due_date"}
	loans, metadata, err := h.service.ListLoans(qsInput.Status, qsInput.Filters)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"loans": loans, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) returnBookHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.ReturnLoanRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	loanID, err := h.readIDParam(r, "loanId")
	if err != nil || loanID < 1 {
		h.notFoundResponse(w, r)
		return
	}
	loan, err := h.service.ReturnBook(loanID, requestBody.ReturnDate)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrEditConflict):
			h.editConflictResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"loan": loan}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) bulkReturnBooksHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.BulkReturnRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	results, err := h.service.BulkReturnBooks(requestBody)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"results": results}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
