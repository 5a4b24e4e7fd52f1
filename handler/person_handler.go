package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Aashish23092/aadhaar-autofill/dto"
)

// PersonStore is the part of service.PersonService the handler uses.
type PersonStore interface {
	SubmitPerson(ctx context.Context, req *dto.PersonSubmitRequest) (*dto.Person, error)
	GetPerson(ctx context.Context, aadhaar string) (*dto.Person, error)
}

type PersonHandler struct {
	persons PersonStore
	log     zerolog.Logger
}

func NewPersonHandler(persons PersonStore, log zerolog.Logger) *PersonHandler {
	return &PersonHandler{persons: persons, log: log}
}

// Submit handles POST /person/submit
func (h *PersonHandler) Submit(c *gin.Context) {
	var req dto.PersonSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "invalid person payload", err)
		return
	}

	person, err := h.persons.SubmitPerson(c.Request.Context(), &req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, dto.ErrInvalidAadhaar) || errors.Is(err, dto.ErrInvalidDOB) {
			status = http.StatusBadRequest
		}
		h.sendError(c, status, "failed to save person", err)
		return
	}

	c.JSON(http.StatusOK, person)
}

// GetByAadhaar handles GET /person/by-aadhaar/:aadhaar_number
func (h *PersonHandler) GetByAadhaar(c *gin.Context) {
	person, err := h.persons.GetPerson(c.Request.Context(), c.Param("aadhaar_number"))
	if errors.Is(err, dto.ErrPersonNotFound) {
		h.sendError(c, http.StatusNotFound, "Person not found", nil)
		return
	}
	if err != nil {
		h.sendError(c, http.StatusInternalServerError, "failed to load person", err)
		return
	}

	c.JSON(http.StatusOK, person)
}

func (h *PersonHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	sendError(c, h.log, "PERSON_REQUEST_FAILED", statusCode, message, err)
}
