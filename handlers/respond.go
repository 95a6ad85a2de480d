package handlers

import (
	"bytes"
	"errors"
	"html/template"
	"io"
	"net/http"
	"strconv"

	"hoofix/models"
	"hoofix/services/api"
	"hoofix/services/booking"
	"hoofix/services/dashboard"
	"hoofix/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxUploadBytes bounds a single multipart file.
const maxUploadBytes = 10 << 20

// controllerFrom returns the session controller placed in the context by
// middleware.RequireSession.
func controllerFrom(c *gin.Context) (*dashboard.Controller, bool) {
	raw, exists := c.Get("controller")
	if !exists || raw == nil {
		utils.JSONError(c, http.StatusInternalServerError, "Session not found in context", "")
		return nil, false
	}
	ctrl, ok := raw.(*dashboard.Controller)
	if !ok {
		utils.JSONError(c, http.StatusInternalServerError, "Invalid session in context", "")
		return nil, false
	}
	return ctrl, true
}

// statusFor maps an action failure to the HTTP status returned to the page.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrNotOffered):
		return http.StatusConflict
	case errors.Is(err, booking.ErrUnknownCheckout):
		return http.StatusNotFound
	}
	switch api.KindOf(err) {
	case api.Unauthorized:
		return http.StatusUnauthorized
	case api.NotFound:
		return http.StatusNotFound
	case api.InvalidInput:
		return http.StatusBadRequest
	case api.InsufficientFunds:
		return http.StatusPaymentRequired
	case api.NetworkError, api.ServerError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the failure of a controller action. The controller has
// already notified the user; an ended session also carries the redirect.
func respondError(c *gin.Context, m *dashboard.Manager, err error) {
	status := statusFor(err)
	getLogger(c).Debug("action failed",
		zap.String("path", c.FullPath()),
		zap.Int("status", status),
		zap.Error(err),
	)

	if status == http.StatusUnauthorized {
		target, ok := m.Latch().Take()
		if !ok {
			target = m.LoginPath()
		}
		c.AbortWithStatusJSON(status, gin.H{"message": "Session ended", "redirect": target})
		return
	}

	var verr *booking.ValidationError
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(status, gin.H{"message": "Validation failed", "fields": verr.Fields})
		return
	}
	utils.JSONError(c, status, http.StatusText(status), err.Error())
}

func renderFragment(c *gin.Context, ctrl *dashboard.Controller, html template.HTML, err error) {
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to render", err.Error())
		return
	}
	c.Header("X-View-Version", strconv.FormatUint(ctrl.Store().Version(), 10))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// readUploads loads every file posted under field into memory.
func readUploads(c *gin.Context, field string) ([]models.FileUpload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	var out []models.FileUpload
	for _, fh := range form.File[field] {
		if fh.Size > maxUploadBytes {
			return nil, &booking.ValidationError{Op: "upload", Fields: map[string]string{field: fh.Filename + " is too large"}}
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		_, err = io.Copy(&buf, f)
		f.Close()
		if err != nil {
			return nil, err
		}
		out = append(out, models.FileUpload{Name: fh.Filename, Data: buf.Bytes()})
	}
	return out, nil
}

func badRequest(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "Invalid request payload", err.Error())
}
