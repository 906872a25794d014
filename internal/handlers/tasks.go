package handlers

import (
	"net/http"
	"strings"

	"todo_list/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// TaskCreateRequest is the body of POST /api/tasks/.
type TaskCreateRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=100" example:"Buy milk"`
	Description *string `json:"description" example:"2 liters"`
	Completed   bool    `json:"completed" example:"false"`
}

// TaskUpdateRequest is the body of PUT /api/tasks/{id}. Absent fields are left
// unchanged; "description": null clears the description.
type TaskUpdateRequest struct {
	Title       *string               `json:"title" binding:"omitempty,min=1,max=100" example:"Buy oat milk"`
	Description models.OptionalString `json:"description" swaggertype:"string" example:"1 liter"`
	Completed   *bool                 `json:"completed" example:"true"`
}

// listQuery binds skip/limit. An empty value ("?limit=") counts as absent.
type listQuery struct {
	Skip  int `form:"skip,default=0" binding:"gte=0"`
	Limit int `form:"limit,default=100" binding:"gte=0,lte=1000"`
}

// @Summary      List tasks
// @Description  Tasks of the caller in creation order.
// @Tags         tasks
// @Produce      json
// @Param        skip   query     int  false  "Offset"  default(0)   minimum(0)
// @Param        limit  query     int  false  "Page size"  default(100)  minimum(0)  maximum(1000)
// @Success      200    {array}   models.Task
// @Failure      401    {object}  todo_list.ErrorResponse
// @Failure      422    {object}  todo_list.ErrorResponse
// @Router       /api/tasks/ [get]
// @Security     BearerAuth
func (h *Handler) listTasks(c *gin.Context) {
	dropEmptyQuery(c.Request, "skip", "limit")
	var q listQuery
	if ok := h.bindOrUnprocessable(c, &q, binding.Query, queryField); !ok {
		return
	}
	user := currentUser(c)

	tasks, err := h.services.Tasks.List(c.Request.Context(), user.ID, models.Page{Skip: q.Skip, Limit: q.Limit})
	if err != nil {
		h.respondError(c, err, "tasks_list_failed", "user_id", user.ID)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      TaskCreateRequest  true  "Task"
// @Success      201   {object}  models.Task
// @Failure      400   {object}  todo_list.ErrorResponse
// @Failure      401   {object}  todo_list.ErrorResponse
// @Failure      422   {object}  todo_list.ErrorResponse
// @Router       /api/tasks/ [post]
// @Security     BearerAuth
func (h *Handler) createTask(c *gin.Context) {
	var req TaskCreateRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	user := currentUser(c)

	task, err := h.services.Tasks.Create(c.Request.Context(), user.ID, models.TaskCreate{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		h.respondError(c, err, "task_create_failed", "user_id", user.ID)
		return
	}
	h.log.Debugw("task_created", "user_id", user.ID, "task_id", task.ID)
	c.JSON(http.StatusCreated, task)
}

// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  models.Task
// @Failure      401  {object}  todo_list.ErrorResponse
// @Failure      404  {object}  todo_list.ErrorResponse
// @Router       /api/tasks/{id} [get]
// @Security     BearerAuth
func (h *Handler) getTask(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	user := currentUser(c)

	task, err := h.services.Tasks.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		h.respondError(c, err, "task_get_failed", "user_id", user.ID, "task_id", id)
		return
	}
	c.JSON(http.StatusOK, task)
}

// @Summary      Update a task
// @Description  Only the fields present in the body are changed.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "Task ID"
// @Param        body  body      TaskUpdateRequest  true  "Fields to change"
// @Success      200   {object}  models.Task
// @Failure      400   {object}  todo_list.ErrorResponse
// @Failure      401   {object}  todo_list.ErrorResponse
// @Failure      404   {object}  todo_list.ErrorResponse
// @Failure      422   {object}  todo_list.ErrorResponse
// @Router       /api/tasks/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateTask(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req TaskUpdateRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	user := currentUser(c)

	task, err := h.services.Tasks.Update(c.Request.Context(), user.ID, id, models.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		h.respondError(c, err, "task_update_failed", "user_id", user.ID, "task_id", id)
		return
	}
	c.JSON(http.StatusOK, task)
}

// @Summary      Delete a task
// @Tags         tasks
// @Param        id   path  int  true  "Task ID"
// @Success      204
// @Failure      401  {object}  todo_list.ErrorResponse
// @Failure      404  {object}  todo_list.ErrorResponse
// @Router       /api/tasks/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteTask(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	user := currentUser(c)

	if err := h.services.Tasks.Delete(c.Request.Context(), user.ID, id); err != nil {
		h.respondError(c, err, "task_delete_failed", "user_id", user.ID, "task_id", id)
		return
	}
	h.log.Debugw("task_deleted", "user_id", user.ID, "task_id", id)
	c.Status(http.StatusNoContent)
}

// dropEmptyQuery removes keys whose values are all blank so form defaults apply.
func dropEmptyQuery(r *http.Request, keys ...string) {
	q := r.URL.Query()
	changed := false
	for _, k := range keys {
		vs, ok := q[k]
		if !ok {
			continue
		}
		blank := true
		for _, v := range vs {
			if strings.TrimSpace(v) != "" {
				blank = false
				break
			}
		}
		if blank {
			q.Del(k)
			changed = true
		}
	}
	if changed {
		r.URL.RawQuery = q.Encode()
	}
}
