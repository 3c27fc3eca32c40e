package handlers

import (
	"log/slog"
	"net/http"

	"github.com/JobSiteOps/job_tracking_app/internal/apperrors"
	portssvc "github.com/JobSiteOps/job_tracking_app/internal/core/ports/services"
	"github.com/JobSiteOps/job_tracking_app/internal/dto"
	"github.com/JobSiteOps/job_tracking_app/internal/middleware"

	"github.com/gin-gonic/gin"
)

// orgHandler handles HTTP requests for the organization hierarchy.
type orgHandler struct {
	orgService portssvc.OrgSvcFacade
}

func newOrgHandler(os portssvc.OrgSvcFacade) *orgHandler {
	return &orgHandler{
		orgService: os,
	}
}

// registerOrgRoutes registers organization, office and department routes.
func registerOrgRoutes(rg *gin.RouterGroup, orgService portssvc.OrgSvcFacade) {
	h := newOrgHandler(orgService)

	orgs := rg.Group("/organizations")
	{
		orgs.POST("", h.createOrganization)
		orgs.GET("/:id", h.getOrganization)
		orgs.GET("/:id/offices", h.listOffices)
	}

	offices := rg.Group("/offices")
	{
		offices.POST("", h.createOffice)
		offices.GET("/:id/departments", h.listDepartments)
	}

	departments := rg.Group("/departments")
	{
		departments.POST("", h.createDepartment)
		departments.GET("/:id", h.getDepartment)
	}
}

// createOrganization godoc
// @Summary Create a new organization
// @Description Creates an organization owned by the authenticated user
// @Tags organizations
// @Accept  json
// @Produce  json
// @Param   organization body dto.CreateOrganizationRequest true "Organization details"
// @Success 201 {object} dto.OrganizationResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /organizations [post]
func (h *orgHandler) createOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	org, err := h.orgService.CreateOrganization(c.Request.Context(), req, creatorUserID)
	if err != nil {
		logger.Error("Failed to create organization", slog.String("error", err.Error()))
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to create organization"})
		return
	}

	logger.Info("Organization created", slog.String("org_id", org.OrgID))
	c.JSON(http.StatusCreated, dto.ToOrganizationResponse(org))
}

// getOrganization godoc
// @Summary Get an organization by ID
// @Tags organizations
// @Produce  json
// @Param   id path string true "Organization ID"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 404 {object} ErrorResponse "Organization not found"
// @Security BearerAuth
// @Router /organizations/{id} [get]
func (h *orgHandler) getOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("id")

	org, err := h.orgService.GetOrganization(c.Request.Context(), orgID)
	if err != nil {
		logger.Warn("Failed to get organization", slog.String("org_id", orgID), slog.String("error", err.Error()))
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to retrieve organization"})
		return
	}

	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

// listOffices godoc
// @Summary List offices of an organization
// @Tags organizations
// @Produce  json
// @Param   id path string true "Organization ID"
// @Success 200 {object} dto.ListOfficesResponse
// @Failure 404 {object} ErrorResponse "Organization not found"
// @Security BearerAuth
// @Router /organizations/{id}/offices [get]
func (h *orgHandler) listOffices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID := c.Param("id")

	offices, err := h.orgService.ListOffices(c.Request.Context(), orgID)
	if err != nil {
		logger.Error("Failed to list offices", slog.String("org_id", orgID), slog.String("error", err.Error()))
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to list offices"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListOfficesResponse(offices))
}

// createOffice godoc
// @Summary Create a new office
// @Tags offices
// @Accept  json
// @Produce  json
// @Param   office body dto.CreateOfficeRequest true "Office details"
// @Success 201 {object} dto.OfficeResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Security BearerAuth
// @Router /offices [post]
func (h *orgHandler) createOffice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateOfficeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	office, err := h.orgService.CreateOffice(c.Request.Context(), req, creatorUserID)
	if err != nil {
		logger.Error("Failed to create office", slog.String("error", err.Error()))
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to create office"})
		return
	}

	logger.Info("Office created", slog.String("office_id", office.OfficeID))
	c.JSON(http.StatusCreated, dto.ToOfficeResponse(office))
}

// listDepartments godoc
// @Summary List departments of an office
// @Tags offices
// @Produce  json
// @Param   id path string true "Office ID"
// @Success 200 {object} dto.ListDepartmentsResponse
// @Failure 404 {object} ErrorResponse "Office not found"
// @Security BearerAuth
// @Router /offices/{id}/departments [get]
func (h *orgHandler) listDepartments(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	officeID := c.Param("id")

	departments, err := h.orgService.ListDepartments(c.Request.Context(), officeID)
	if err != nil {
		logger.Error("Failed to list departments", slog.String("office_id", officeID), slog.String("error", err.Error()))
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to list departments"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListDepartmentsResponse(departments))
}

// createDepartment godoc
// @Summary Create a new department
// @Tags departments
// @Accept  json
// @Produce  json
// @Param   department body dto.CreateDepartmentRequest true "Department details"
// @Success 201 {object} dto.DepartmentResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Security BearerAuth
// @Router /departments [post]
func (h *orgHandler) createDepartment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	department, err := h.orgService.CreateDepartment(c.Request.Context(), req, creatorUserID)
	if err != nil {
		logger.Error("Failed to create department", slog.String("error", err.Error()))
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to create department"})
		return
	}

	logger.Info("Department created", slog.String("department_id", department.DepartmentID))
	c.JSON(http.StatusCreated, dto.ToDepartmentResponse(department))
}

// getDepartment godoc
// @Summary Get a department by ID
// @Tags departments
// @Produce  json
// @Param   id path string true "Department ID"
// @Success 200 {object} dto.DepartmentResponse
// @Failure 404 {object} ErrorResponse "Department not found"
// @Security BearerAuth
// @Router /departments/{id} [get]
func (h *orgHandler) getDepartment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	departmentID := c.Param("id")

	department, err := h.orgService.GetDepartment(c.Request.Context(), departmentID)
	if err != nil {
		logger.Warn("Failed to get department", slog.String("department_id", departmentID), slog.String("error", err.Error()))
		c.JSON(apperrors.StatusCode(err), ErrorResponse{Error: "Failed to retrieve department"})
		return
	}

	c.JSON(http.StatusOK, dto.ToDepartmentResponse(department))
}
