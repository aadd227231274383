package handler

import (
	"errors"
	"net/http"

	"github.com/emzola/athenaeum/data/dto"
	"github.com/emzola/athenaeum/internal/validator"
	"github.com/emzola/athenaeum/service"
)

func (h *Handler) showDashboardHandler(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		h.serverErrorResponse(w, r, err)
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"dashboard": stats}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	var qsInput dto.QsListUsers
	v := validator.New()
	qs := r.URL.Query()
	qsInput.Search = h.readString(qs, "search", "")
	qsInput.Role = h.readString(qs, "role", "")
	qsInput.Filters.Page = h.readInt(qs, "page", 1, v)
	qsInput.Filters.PageSize = h.readInt(qs, "page_size", 10, v)
	qsInput.Filters.Sort = h.readString(qs, "sort", "id")
	qsInput.Filters.SortSafeList = []string{"id", "name", "created_at", "-id", "-name", "-created_at"}
	users, metadata, err := h.service.ListUsers(qsInput.Search, qsInput.Role, qsInput.Filters)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFailedValidation):
			h.failedValidationResponse(w, r, err)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"users": users, "metadata": metadata}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) showUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := h.readIDParam(r, "userId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	user, err := h.service.ShowUser(userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}

func (h *Handler) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := h.readIDParam(r, "userId")
	if err != nil {
		h.notFoundResponse(w, r)
		return
	}
	// A librarian cannot delete their own account from the dashboard
	if userID == h.contextGetUser(r).ID {
		h.notPermittedResponse(w, r)
		return
	}
	err = h.service.DeleteUser(userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecordNotFound):
			h.notFoundResponse(w, r)
		case errors.Is(err, service.ErrBookAssigned):
			h.bookAssignedResponse(w, r)
		default:
			h.serverErrorResponse(w, r, err)
		}
		return
	}
	err = h.encodeJSON(w, http.StatusOK, envelope{"message": "user successfully deleted"}, nil)
	if err != nil {
		h.serverErrorResponse(w, r, err)
	}
}
