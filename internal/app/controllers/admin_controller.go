package controllers

import (
	"bytes"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Dinesh259/Free-Solutions/internal/app/models"
	"github.com/Dinesh259/Free-Solutions/internal/app/models/dto"
	"github.com/Dinesh259/Free-Solutions/internal/app/services"
	"github.com/Dinesh259/Free-Solutions/internal/middleware"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/apperrors"
	"github.com/Dinesh259/Free-Solutions/internal/pkg/helpers"
)

// Upload form messages
const (
	MsgFileTooLarge      = "File too large! Max limit is 2MB."
	MsgUnsupportedFormat = "Only JPG and PNG images are allowed."

	imageField = "questionImage"
	xlsxType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// AdminController serves the content admin pages
type AdminController struct {
	contentService *services.ContentService
	exportService  *services.ExportService
	navigator      *services.NavigatorService
	binder         *middleware.FormBinder
	logger         zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(
	contentService *services.ContentService,
	exportService *services.ExportService,
	navigator *services.NavigatorService,
	binder *middleware.FormBinder,
	logger zerolog.Logger,
) *AdminController {
	return &AdminController{
		contentService: contentService,
		exportService:  exportService,
		navigator:      navigator,
		binder:         binder,
		logger:         logger,
	}
}

// formOptions are the select choices shared by the add and edit forms
func (c *AdminController) formOptions(data gin.H) gin.H {
	data["classLevels"] = models.ClassLevels()
	data["media"] = models.Media
	data["subjects"] = c.navigator.Subjects()
	return data
}

// Dashboard renders the upload form, refilled from the query after a failed
// upload
func (c *AdminController) Dashboard(ctx *gin.Context) {
	query := ctx.Request.URL.Query()
	duplicates, _ := strconv.Atoi(query.Get("duplicates"))

	ctx.HTML(http.StatusOK, "admin_dashboard.html", page(ctx, "Admin Dashboard", c.formOptions(gin.H{
		"success":    query.Get("success") == "true",
		"error":      query.Get("error"),
		"duplicates": duplicates,
		"form":       dto.ContentFormFromValues(query),
	})))
}

// uploadedImage returns the optional question image of the request
func uploadedImage(ctx *gin.Context) (*multipart.FileHeader, error) {
	fh, err := ctx.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		if middleware.IsBodyTooLarge(err) {
			return nil, apperrors.ErrPayloadTooLarge
		}
		return nil, err
	}
	return fh, nil
}

// uploadErrorMessage maps upload failures to the message shown on the form
func uploadErrorMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, apperrors.ErrPayloadTooLarge):
		return MsgFileTooLarge, true
	case errors.Is(err, apperrors.ErrUnsupportedFormat):
		return MsgUnsupportedFormat, true
	case errors.Is(err, apperrors.ErrValidationFailed):
		return apperrors.UserMessage(err, "Please check the form and try again."), true
	}
	return "", false
}

// submittedValues returns the posted text fields. A body rejected for its size
// is never parsed, so the fields come from its recorded start instead.
func submittedValues(ctx *gin.Context) url.Values {
	if ctx.Request.MultipartForm != nil {
		return url.Values(ctx.Request.MultipartForm.Value)
	}
	if len(ctx.Request.PostForm) > 0 {
		return ctx.Request.PostForm
	}
	return middleware.PartialFormValues(ctx)
}

// preservedValues returns the submitted text fields together with msg
func preservedValues(ctx *gin.Context, msg string) url.Values {
	submitted := submittedValues(ctx)
	values := url.Values{"error": {msg}}
	for _, field := range dto.PreservedFields {
		values.Set(field, submitted.Get(field))
	}
	return values
}

// AddSolution stores a new solution
func (c *AdminController) AddSolution(ctx *gin.Context) {
	var form dto.ContentForm
	err := c.binder.Bind(ctx, &form)

	var image *multipart.FileHeader
	if err == nil {
		image, err = uploadedImage(ctx)
	}

	var result *services.CreateResult
	if err == nil {
		result, err = c.contentService.CreateContent(ctx.Request.Context(), &form, image)
	}

	if err != nil {
		if msg, ok := uploadErrorMessage(err); ok {
			c.logger.Warn().Err(err).Msg("Solution upload rejected")
			redirectWith(ctx, middleware.AdminDashboardPath, preservedValues(ctx, msg))
			return
		}
		middleware.HandleError(ctx, err)
		return
	}

	values := url.Values{"success": {"true"}}
	if n := len(result.Duplicates); n > 0 {
		values.Set("duplicates", strconv.Itoa(n))
	}
	redirectWith(ctx, middleware.AdminDashboardPath, values)
}

// ListSolutions renders the add solution page with the stored solutions
func (c *AdminController) ListSolutions(ctx *gin.Context) {
	c.renderListing(ctx, "add_solution.html", "Add Solution")
}

// Database renders the paginated solution listing
func (c *AdminController) Database(ctx *gin.Context) {
	c.renderListing(ctx, "database.html", "Database")
}

func (c *AdminController) renderListing(ctx *gin.Context, tmpl, title string) {
	pageNum, size := helpers.ParsePaginationParams(ctx)

	listing, err := c.contentService.ListContent(ctx.Request.Context(), pageNum, size)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	ctx.HTML(http.StatusOK, tmpl, page(ctx, title, gin.H{
		"questions": listing.Items,
		"page":      listing.Page,
		"success":   ctx.Query("success") == "true",
		"error":     ctx.Query("error"),
	}))
}

// Export downloads the whole catalogue as an XLSX workbook
func (c *AdminController) Export(ctx *gin.Context) {
	var buf bytes.Buffer
	if _, err := c.exportService.ExportContent(ctx.Request.Context(), &buf); err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	filename := fmt.Sprintf("solutions-%s.xlsx", time.Now().UTC().Format("20060102"))
	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, xlsxType, buf.Bytes())
}

// ShowEdit renders the edit form with chapter and exercise suggestions
func (c *AdminController) ShowEdit(ctx *gin.Context) {
	content, err := c.contentService.GetContent(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}
	c.renderEdit(ctx, http.StatusOK, content, dto.ContentFormOf(content), ctx.Query("error"))
}

func (c *AdminController) renderEdit(ctx *gin.Context, status int, content *models.Content, form dto.ContentForm, errMsg string) {
	suggestions, err := c.contentService.BuildEditSuggestionMap(ctx.Request.Context(), content.Subject)
	if err != nil {
		middleware.HandleError(ctx, err)
		return
	}

	ctx.HTML(status, "edit_solution.html", page(ctx, "Edit Solution", c.formOptions(gin.H{
		"content": content,
		"form":    form,
		"dataMap": suggestions,
		"error":   errMsg,
	})))
}

// Edit saves the edit form. Every field is replaced; the image only when a
// new one is uploaded.
func (c *AdminController) Edit(ctx *gin.Context) {
	id := ctx.Param("id")

	var form dto.ContentForm
	err := c.binder.Bind(ctx, &form)
	var image *multipart.FileHeader
	if err == nil {
		image, err = uploadedImage(ctx)
	}
	if err == nil {
		_, err = c.contentService.UpdateContent(ctx.Request.Context(), id, &form, image)
	}

	if err != nil {
		if msg, ok := uploadErrorMessage(err); ok {
			content, getErr := c.contentService.GetContent(ctx.Request.Context(), id)
			if getErr != nil {
				middleware.HandleError(ctx, getErr)
				return
			}
			submitted := dto.ContentFormFromValues(submittedValues(ctx))
			c.renderEdit(ctx, http.StatusBadRequest, content, submitted, msg)
			return
		}
		middleware.HandleError(ctx, err)
		return
	}

	redirectWith(ctx, "/admin/database", url.Values{"success": {"true"}})
}

// Delete removes a solution. Deleting a missing solution is not an error.
func (c *AdminController) Delete(ctx *gin.Context) {
	if err := c.contentService.DeleteContent(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleError(ctx, err)
		return
	}
	ctx.Redirect(http.StatusFound, "/admin/database")
}
