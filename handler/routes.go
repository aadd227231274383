package handler

import (
	"expvar"
	"net/http"

	"github.com/julienschmidt/httprouter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

func (h *Handler) Routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(h.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(h.methodNotAllowed)

	router.HandlerFunc(http.MethodGet, "/v1/books", h.requireActivatedUser(h.listBooksHandler))
	router.HandlerFunc(http.MethodPost, "/v1/books", h.requireLibrarian(h.createBookHandler))
	router.HandlerFunc(http.MethodGet, "/v1/books/:bookId", h.requireActivatedUser(h.showBookHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/books/:bookId", h.requireLibrarian(h.updateBookHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/books/:bookId", h.requireLibrarian(h.deleteBookHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/books/:bookId/cover", h.requireLibrarian(h.updateBookCoverHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/books/:bookId/document", h.requireLibrarian(h.updateBookDocumentHandler))
	router.HandlerFunc(http.MethodPost, "/v1/books/:bookId/revoke", h.requireLibrarian(h.revokeBookHandler))
	router.HandlerFunc(http.MethodPost, "/v1/books/:bookId/request", h.requireActivatedUser(h.requestBookHandler))

	router.HandlerFunc(http.MethodGet, "/v1/books/:bookId/feedback", h.requireActivatedUser(h.listBookFeedbackHandler))
	router.HandlerFunc(http.MethodPost, "/v1/books/:bookId/feedback", h.requireActivatedUser(h.createFeedbackHandler))
	router.HandlerFunc(http.MethodGet, "/v1/feedback", h.requireLibrarian(h.listFeedbackHandler))
	router.HandlerFunc(http.MethodGet, "/v1/feedback/:feedbackId", h.requireLibrarian(h.showFeedbackHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/feedback/:feedbackId", h.requireLibrarian(h.deleteFeedbackHandler))

	router.HandlerFunc(http.MethodGet, "/v1/sections", h.requireActivatedUser(h.listSectionsHandler))
	router.HandlerFunc(http.MethodPost, "/v1/sections", h.requireLibrarian(h.createSectionHandler))
	router.HandlerFunc(http.MethodGet, "/v1/sections/:sectionId", h.requireActivatedUser(h.showSectionHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/sections/:sectionId", h.requireLibrarian(h.updateSectionHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/sections/:sectionId", h.requireLibrarian(h.deleteSectionHandler))

	router.HandlerFunc(http.MethodGet, "/v1/requests", h.requireLibrarian(h.listRequestsHandler))
	router.HandlerFunc(http.MethodGet, "/v1/requests/:requestId", h.requireRequestOwnerPermission(h.showRequestHandler))
	router.HandlerFunc(http.MethodPut, "/v1/requests/:requestId", h.requireLibrarian(h.resolveRequestHandler))

	router.HandlerFunc(http.MethodGet, "/v1/loans", h.requireLibrarian(h.listLoansHandler))
	router.HandlerFunc(http.MethodPost, "/v1/loans", h.requireLibrarian(h.issueBookHandler))
	router.HandlerFunc(http.MethodGet, "/v1/loans/:loanId", h.requireLibrarian(h.showLoanHandler))
	router.HandlerFunc(http.MethodPut, "/v1/loans/:loanId/return", h.requireLibrarian(h.returnBookHandler))
	router.HandlerFunc(http.MethodPost, "/v1/returns", h.requireLibrarian(h.bulkReturnBooksHandler))

	router.HandlerFunc(http.MethodGet, "/v1/students", h.requireLibrarian(h.listStudentsHandler))
	router.HandlerFunc(http.MethodPost, "/v1/students", h.requireLibrarian(h.createStudentHandler))
	router.HandlerFunc(http.MethodGet, "/v1/students/:studentId", h.requireLibrarian(h.showStudentHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/students/:studentId", h.requireLibrarian(h.updateStudentHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/students/:studentId", h.requireLibrarian(h.deleteStudentHandler))

	router.HandlerFunc(http.MethodPost, "/v1/users", h.registerUserHandler)
	router.HandlerFunc(http.MethodPut, "/v1/users/activated", h.activateUserHandler)
	router.HandlerFunc(http.MethodPut, "/v1/users/password", h.resetUserPasswordHandler)

	router.HandlerFunc(http.MethodGet, "/v1/users/profile", h.requireActivatedUser(h.showProfileHandler))
	router.HandlerFunc(http.MethodPatch, "/v1/users/profile", h.requireActivatedUser(h.updateProfileHandler))
	router.HandlerFunc(http.MethodPut, "/v1/users/profile", h.requireActivatedUser(h.updateUserPasswordHandler))

	router.HandlerFunc(http.MethodGet, "/v1/users/requests", h.requireActivatedUser(h.listUserRequestsHandler))
	router.HandlerFunc(http.MethodGet, "/v1/users/loans", h.requireActivatedUser(h.listUserLoansHandler))

	router.HandlerFunc(http.MethodGet, "/v1/dashboard", h.requireLibrarian(h.showDashboardHandler))
	router.HandlerFunc(http.MethodGet, "/v1/dashboard/users", h.requireLibrarian(h.listUsersHandler))
	router.HandlerFunc(http.MethodGet, "/v1/dashboard/users/:userId", h.requireLibrarian(h.showUserHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/dashboard/users/:userId", h.requireLibrarian(h.deleteUserHandler))

	router.HandlerFunc(http.MethodPost, "/v1/tokens/activation", h.createActivationTokenHandler)
	router.HandlerFunc(http.MethodPost, "/v1/tokens/authentication", h.createAuthenticationTokenHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/tokens/authentication", h.requireAuthenticatedUser(h.deleteAuthenticationTokenHandler))
	router.HandlerFunc(http.MethodPost, "/v1/tokens/password-reset", h.createPasswordResetTokenHandler)

	router.HandlerFunc(http.MethodGet, "/debug/vars", h.basicAuth(expvar.Handler().ServeHTTP))
	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", h.healthcheckHandler)

	// Swagger routes
	router.HandlerFunc(http.MethodGet, "/spec", h.handleSwaggerFile())
	router.HandlerFunc(http.MethodGet, "/docs/*any", httpSwagger.Handler(httpSwagger.URL("/spec")))

	return h.recoverPanic(h.metrics(h.enableCORS(h.rateLimit(h.authenticate(router)))))
}
