package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lenteraedu/lentera-backend/internal/middleware"
	"github.com/lenteraedu/lentera-backend/internal/model"
	"github.com/lenteraedu/lentera-backend/internal/response"
	"github.com/lenteraedu/lentera-backend/internal/service"
)

// CertificateHandler handles certificate endpoints for students.
type CertificateHandler struct {
	certificateService *service.CertificateService
}

// NewCertificateHandler creates a new CertificateHandler.
func NewCertificateHandler(certificateService *service.CertificateService) *CertificateHandler {
	return &CertificateHandler{certificateService: certificateService}
}

// GetCourseCertificate godoc
// GET /api/v1/student/courses/:course_id/certificate
func (h *CertificateHandler) GetCourseCertificate(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	courseID, err := uuid.Parse(c.Param("course_id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	cert, err := h.certificateService.GetForStudent(c.Request.Context(), claims.UserID, courseID)
	if err != nil {
		if errors.Is(err, service.ErrCertificateNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrCertificateNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"certificate": cert})
}

// ListMyCertificates godoc
// GET /api/v1/student/certificates
func (h *CertificateHandler) ListMyCertificates(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	certs, err := h.certificateService.ListForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if certs == nil {
		certs = []model.Certificate{}
	}
	response.Success(c, http.StatusOK, gin.H{"certificates": certs})
}
