package handler

import (
	"errors"
	"net/http"

	"github.com/emzola/athenaeum/data/dto"
	"github.com/emzola/athenaeum/internal/validator"
	"github.com/emzola/athenaeum/service"
)

func (h *Handler) createFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody dto.CreateFeedbackRequestBody
	err := h.decodeJSON(w, r, &requestBody)
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	user := h.contextGetUser(r)
	feedback, err := h.service.CreateFeedback(user.ID, bookID, requestBody.Rating, requestBody.Comment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusCreated, envelope{"feedback": feedback}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) listBookFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	bookID, err := h.readIDParam(r, "bookId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	var qsInput dto.QsListFeedback
	v := validator.New()
	qs := r.URL.Query()
	qsInput.Filters.Page = h.readInt(qs, "page", 1, v)
	qsInput.Filters.PageSize = h.readInt(qs, "page_size", 10, v)
	qsInput.Filters.Sort = h.readString(qs, "sort", "-id")
	qsInput.Filters.SortSafeList = []string{"id", "rating", "-id", "-rating"}
	feedbackList, metadata, err := h.service.ListFeedback(bookID, qsInput.Filters)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"feedback": feedbackList, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) listFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	var qsInput dto.QsListFeedback
	v := validator.New()
	qs := r.URL.Query()
	bookID := int64(h.readInt(qs, "book_id", 0, v))
	qsInput.Filters.Page = h.readInt(qs, "page", 1, v)
	qsInput.Filters.PageSize = h.readInt(qs, "page_size", 10, v)
	qsInput.Filters.Sort = h.readString(qs, "sort", "-id")
	qsInput.Filters.SortSafeList = []string{"id", "rating", "-id", "-rating"}
	feedbackList, metadata, err := h.service.ListFeedback(bookID, qsInput.Filters)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"feedback": feedbackList, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) showFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	feedbackID, err := h.readIDParam(r, "feedbackId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	feedback, err := h.service.GetFeedback(feedbackID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"feedback": feedback}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) deleteFeedbackHandler(w http.ResponseWriter, r *http.Request) {
	feedbackID, err := h.readIDParam(r, "feedbackId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	err = h.service.DeleteFeedback(feedbackID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "feedback successfully deleted"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
