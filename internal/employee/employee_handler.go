package employee

import (
	"net/http"
	"sort"
	"strconv"
	"strings"

	"go-empower/internal/shared/apperror"
	"go-empower/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const createdMessage = "Employee added successfully"

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("employee request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create employee validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, CreateEmployeeResponse{
		Message:  createdMessage,
		Employee: resp,
	}, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp = filterEmployees(resp,
		strings.TrimSpace(c.Query("q")),
		strings.TrimSpace(c.Query("department")),
		strings.TrimSpace(c.Query("status")),
	)

	if sortBy := strings.TrimSpace(c.Query("sort_by")); sortBy != "" {
		sortEmployees(resp, sortBy, strings.ToLower(strings.TrimSpace(c.Query("sort_dir"))) == "desc")
	}

	// Without paging params the full list is returned, as the dashboard expects.
	_, hasPage := c.GetQuery("page")
	_, hasSize := c.GetQuery("page_size")
	if !hasPage && !hasSize {
		response.Success(c, http.StatusOK, resp, nil)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	start, end := response.PageBounds(len(resp), page, pageSize)
	meta := response.NewPaginationMeta(int64(len(resp)), page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	id := c.Param("id")
	h.logger.Debug("http get employee by id", zap.String("employee_id", id))

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetStats(c *gin.Context) {
	resp, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetRecent(c *gin.Context) {
	resp, err := h.service.GetRecent(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetDepartments(c *gin.Context) {
	resp, err := h.service.GetDepartments(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	h.logger.Debug("http update employee", zap.String("employee_id", id))

	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.logger.Warn("http update employee bind failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	h.logger.Debug("http delete employee", zap.String("employee_id", id))

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Employee deleted")
}

func filterEmployees(in []EmployeeResponse, q, department, status string) []EmployeeResponse {
	if q == "" && department == "" && status == "" {
		return in
	}

	q = strings.ToLower(q)
	out := make([]EmployeeResponse, 0, len(in))
	for _, e := range in {
		if q != "" &&
			!strings.Contains(strings.ToLower(e.Name), q) &&
			!strings.Contains(strings.ToLower(e.Email), q) {
			continue
		}
		if department != "" && !strings.EqualFold(e.Department, department) {
			continue
		}
		if status != "" && !strings.EqualFold(e.Status, status) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func sortEmployees(resp []EmployeeResponse, sortBy string, desc bool) {
	key := func(e EmployeeResponse) string {
		switch sortBy {
		case "email":
			return strings.ToLower(e.Email)
		case "department":
			return strings.ToLower(e.Department)
		case "status":
			return strings.ToLower(e.Status)
		case "joinDate", "join_date":
			return e.JoinDate
		case "id":
			return e.ID
		default:
			return strings.ToLower(e.Name)
		}
	}

	sort.SliceStable(resp, func(i, j int) bool {
		if sortBy == "createdAt" || sortBy == "created_at" {
			if desc {
				return resp[i].CreatedAt.After(resp[j].CreatedAt)
			}
			return resp[i].CreatedAt.Before(resp[j].CreatedAt)
		}
		if desc {
			return key(resp[i]) > key(resp[j])
		}
		return key(resp[i]) < key(resp[j])
	})
}
